package middleware

import (
	"fmt"
	"strings"

	"translation-backend/internal/models"
	"translation-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const claimsLocalKey = "auth_claims"

type Claims struct {
	UserID uint        `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Protected validates the Authorization bearer token and stores the claims
// in request locals.
func Protected(secret string, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return utils.ErrorWithCodeResponse(c, fiber.StatusUnauthorized, "Missing authorization token", "AUTH_REQUIRED")
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			return utils.ErrorWithCodeResponse(c, fiber.StatusUnauthorized, "Authorization header must use the Bearer scheme", "AUTH_REQUIRED")
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.WithError(err).WithField("ip", c.IP()).Warn("Rejected invalid token")
			return utils.ErrorWithCodeResponse(c, fiber.StatusUnauthorized, "Invalid or expired token", "AUTH_INVALID")
		}

		c.Locals(claimsLocalKey, claims)
		return c.Next()
	}
}

// RequireRole rejects requests whose authenticated role ranks below min.
// Must run after Protected.
func RequireRole(min models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFromContext(c)
		if claims == nil {
			return utils.ErrorWithCodeResponse(c, fiber.StatusUnauthorized, "Missing authorization token", "AUTH_REQUIRED")
		}
		if !claims.Role.AtLeast(min) {
			return utils.ErrorWithCodeResponse(c, fiber.StatusForbidden,
				fmt.Sprintf("Requires %s role or higher", min), "ROLE_INSUFFICIENT")
		}
		return c.Next()
	}
}

func ClaimsFromContext(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(claimsLocalKey).(*Claims)
	return claims
}

// AuditMeta captures the actor context the audit trail records for every
// mutation.
func AuditMeta(c *fiber.Ctx) models.AuditMeta {
	meta := models.AuditMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
	if claims := ClaimsFromContext(c); claims != nil {
		meta.ActorID = claims.UserID
	}
	return meta
}
