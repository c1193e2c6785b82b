package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"translation-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const testSecret = "test-secret"

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAuthApp(min models.Role) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", Protected(testSecret, testLogger()), RequireRole(min), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

// signToken issues a test token; in production tokens come from the portal's
// identity service and this backend only verifies them.
func signToken(t *testing.T, user *models.User, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func tokenFor(t *testing.T, role models.Role) string {
	t.Helper()
	return signToken(t, &models.User{ID: 1, Email: "user@example.org", Role: role}, time.Hour)
}

func TestProtectedRejectsMissingToken(t *testing.T) {
	app := newAuthApp(models.RoleViewer)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectedRejectsMalformedToken(t *testing.T) {
	app := newAuthApp(models.RoleViewer)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestProtectedRejectsExpiredToken(t *testing.T) {
	app := newAuthApp(models.RoleViewer)

	token := signToken(t, &models.User{ID: 1, Role: models.RoleAdmin}, -time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRequireRoleEnforcesHierarchy(t *testing.T) {
	tests := []struct {
		name string
		min  models.Role
		role models.Role
		want int
	}{
		{"viewer cannot translate", models.RoleTranslator, models.RoleViewer, http.StatusForbidden},
		{"translator can translate", models.RoleTranslator, models.RoleTranslator, http.StatusOK},
		{"translator cannot edit", models.RoleEditor, models.RoleTranslator, http.StatusForbidden},
		{"editor can edit", models.RoleEditor, models.RoleEditor, http.StatusOK},
		{"editor is not admin", models.RoleAdmin, models.RoleEditor, http.StatusForbidden},
		{"admin passes everything", models.RoleTranslator, models.RoleAdmin, http.StatusOK},
		{"unknown role is denied", models.RoleViewer, models.Role("MYSTERY"), http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newAuthApp(tc.min)
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tc.role))
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestRoleRankOrdering(t *testing.T) {
	order := []models.Role{models.RoleViewer, models.RoleTranslator, models.RoleEditor, models.RoleAdmin}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("%s should outrank %s", order[i], order[i-1])
		}
	}
	if models.Role("").Rank() != 0 {
		t.Error("empty role must rank below VIEWER")
	}
}

func TestAuditMetaCapturesActor(t *testing.T) {
	app := fiber.New()

	var meta models.AuditMeta
	app.Get("/echo", Protected(testSecret, testLogger()), func(c *fiber.Ctx) error {
		meta = AuditMeta(c)
		return c.SendString("ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleEditor))
	req.Header.Set("User-Agent", "audit-test")
	if _, err := app.Test(req); err != nil {
		t.Fatal(err)
	}

	if meta.ActorID != 1 {
		t.Errorf("actor id = %d, want 1", meta.ActorID)
	}
	if meta.UserAgent != "audit-test" {
		t.Errorf("user agent = %q", meta.UserAgent)
	}
	if meta.IPAddress == "" {
		t.Error("ip address should be captured")
	}
}
