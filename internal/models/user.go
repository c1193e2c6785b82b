package models

import "time"

type Role string

const (
	RoleViewer     Role = "VIEWER"
	RoleTranslator Role = "TRANSLATOR"
	RoleEditor     Role = "EDITOR"
	RoleAdmin      Role = "ADMIN"
)

// Rank orders roles for authorization checks. Unknown roles rank below
// VIEWER so a malformed token never gains access.
func (r Role) Rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleTranslator:
		return 2
	case RoleEditor:
		return 3
	case RoleAdmin:
		return 4
	default:
		return 0
	}
}

func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Role      Role      `gorm:"size:20;not null;default:'VIEWER'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
