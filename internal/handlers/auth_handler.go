package handlers

import (
	"translation-backend/internal/middleware"
	"translation-backend/internal/repository"
	"translation-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewAuthHandler(users repository.UserRepository, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: logger,
	}
}

// Me godoc
// @Summary Current user
// @Description Returns the account behind the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse "User"
// @Failure 401 {object} utils.APIResponse "Missing or invalid token"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return utils.ErrorWithCodeResponse(c, fiber.StatusUnauthorized, "Missing authorization token", "AUTH_REQUIRED")
	}

	user, err := h.users.FindByID(c.Context(), claims.UserID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", claims.UserID).Error("Failed to load current user")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load current user")
	}
	if user == nil {
		// Token is valid but the account is gone.
		return utils.ErrorWithCodeResponse(c, fiber.StatusUnauthorized, "Account no longer exists", "AUTH_INVALID")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "User retrieved successfully", user)
}
