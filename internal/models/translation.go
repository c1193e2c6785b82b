package models

import "time"

type Translation struct {
	ID        uint      `gorm:"primaryKey" json:"id" example:"1"`
	Namespace string    `gorm:"size:100;not null;uniqueIndex:idx_translation_triple;index" json:"namespace" example:"common"`
	Key       string    `gorm:"size:255;not null;uniqueIndex:idx_translation_triple" json:"key" example:"greeting"`
	Language  string    `gorm:"size:10;not null;uniqueIndex:idx_translation_triple;index" json:"language" example:"en"`
	Value     string    `gorm:"type:text;not null" json:"value" example:"Hello"`
	Version   int       `gorm:"not null;default:1" json:"version" example:"1"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active" example:"true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`

	Versions []TranslationVersion `gorm:"foreignKey:TranslationID" json:"versions,omitempty"`
}

func (Translation) TableName() string {
	return "translations"
}

// TranslationVersion is an append-only snapshot of a translation value.
// Rows are never updated or deleted; for a given translation the version
// numbers form a gapless ascending sequence starting at 1. The unique index
// backstops the locked read-modify-write in the repository.
type TranslationVersion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TranslationID uint      `gorm:"not null;uniqueIndex:idx_translation_version" json:"translation_id"`
	Version       int       `gorm:"not null;uniqueIndex:idx_translation_version" json:"version"`
	Value         string    `gorm:"type:text;not null" json:"value"`
	CreatedBy     uint      `gorm:"index" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func (TranslationVersion) TableName() string {
	return "translation_versions"
}

// Audit actions recorded for translation mutations.
const (
	AuditActionCreate    = "CREATE"
	AuditActionUpdate    = "UPDATE"
	AuditActionDelete    = "DELETE"
	AuditActionPublish   = "PUBLISH"
	AuditActionUnpublish = "UNPUBLISH"
)

// TranslationAudit is an append-only trail entry. Exactly one row is written
// per mutating operation; CREATE carries no old value, DELETE no new value.
type TranslationAudit struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TranslationID uint      `gorm:"index;not null" json:"translation_id"`
	Action        string    `gorm:"size:20;not null;index" json:"action" example:"UPDATE"`
	OldValue      *string   `gorm:"type:text" json:"old_value,omitempty"`
	NewValue      *string   `gorm:"type:text" json:"new_value,omitempty"`
	ActorID       uint      `gorm:"index" json:"actor_id"`
	IPAddress     string    `gorm:"size:45" json:"ip_address"`
	UserAgent     string    `gorm:"size:255" json:"user_agent"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

func (TranslationAudit) TableName() string {
	return "translation_audits"
}

type TranslationNamespace struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name" example:"common"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (TranslationNamespace) TableName() string {
	return "translation_namespaces"
}

// AuditMeta carries the actor context attached to every mutation.
type AuditMeta struct {
	ActorID   uint   `json:"actor_id"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

// TranslationFilter narrows list and export queries. A nil IsActive means
// "any"; handlers default it to active-only.
type TranslationFilter struct {
	Namespace string
	Language  string
	Search    string
	IsActive  *bool
	Page      int
	Limit     int
}

type LanguageCount struct {
	Language string `json:"language" example:"en"`
	Count    int64  `json:"count" example:"42"`
}

type NamespaceCount struct {
	Namespace string `json:"namespace" example:"common"`
	Count     int64  `json:"count" example:"17"`
}

type TranslationStats struct {
	Total           int64            `json:"total" example:"120"`
	ByLanguage      []LanguageCount  `json:"by_language"`
	ByNamespace     []NamespaceCount `json:"by_namespace"`
	RecentlyUpdated []Translation    `json:"recently_updated"`
}

// CompletenessReport covers one (namespace, language) pair. Percentage is
// 100 when the namespace has no keys at all.
type CompletenessReport struct {
	Namespace   string   `json:"namespace" example:"common"`
	Language    string   `json:"language" example:"fr"`
	Total       int      `json:"total" example:"10"`
	Translated  int      `json:"translated" example:"8"`
	Missing     int      `json:"missing" example:"2"`
	MissingKeys []string `json:"missing_keys"`
	Percentage  float64  `json:"percentage" example:"80"`
}

type BulkUpdateItem struct {
	ID    uint   `json:"id"`
	Value string `json:"value"`
}

type BulkUpdateResult struct {
	ID      uint         `json:"id"`
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Data    *Translation `json:"data,omitempty"`
}

type BulkUpdateSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Errors     int `json:"errors"`
}

// ImportError reports a single rejected CSV row. Row is the 1-based index of
// the data row (the header row is not counted); -1 marks rows that parsed
// cleanly but failed at the create stage.
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type ImportResult struct {
	Success int           `json:"success"`
	Errors  []ImportError `json:"errors"`
}
