package handlers

import (
	"translation-backend/internal/models"
	"translation-backend/internal/repository"
	"translation-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type NamespaceHandler struct {
	repo   repository.NamespaceRepository
	logger *logrus.Logger
}

func NewNamespaceHandler(repo repository.NamespaceRepository, logger *logrus.Logger) *NamespaceHandler {
	return &NamespaceHandler{
		repo:   repo,
		logger: logger,
	}
}

// GetNamespaces godoc
// @Summary List active namespaces
// @Tags namespaces
// @Produce json
// @Success 200 {object} utils.APIResponse "Namespaces ordered by sort order"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /namespaces [get]
func (h *NamespaceHandler) GetNamespaces(c *fiber.Ctx) error {
	namespaces, err := h.repo.FindAllActive(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list namespaces")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve namespaces")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Namespaces retrieved successfully", namespaces)
}

// CreateNamespace godoc
// @Summary Create a namespace
// @Description ADMIN only
// @Tags namespaces
// @Accept json
// @Produce json
// @Param namespace body CreateNamespaceRequest true "Namespace"
// @Success 201 {object} utils.APIResponse "Namespace created"
// @Failure 400 {object} utils.APIResponse "Validation error or duplicate name"
// @Router /namespaces [post]
func (h *NamespaceHandler) CreateNamespace(c *fiber.Ctx) error {
	var req CreateNamespaceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if details := req.Validate(); details != nil {
		return utils.ErrorWithDetailsResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	existing, err := h.repo.FindByName(c.Context(), req.Name)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check namespace")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create namespace")
	}
	if existing != nil {
		return utils.ErrorWithCodeResponse(c, fiber.StatusBadRequest, "Namespace already exists", "DUPLICATE_KEY")
	}

	namespace := &models.TranslationNamespace{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if err := h.repo.Create(c.Context(), namespace); err != nil {
		h.logger.WithError(err).Error("Failed to create namespace")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create namespace")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Namespace created successfully", namespace)
}
