package handlers

import (
	"errors"
	"strconv"

	"translation-backend/internal/middleware"
	"translation-backend/internal/models"
	"translation-backend/internal/realtime"
	"translation-backend/internal/services"
	"translation-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Notifier receives fire-and-forget events after successful mutations.
type Notifier interface {
	Broadcast(eventType string, data interface{})
}

type TranslationHandler struct {
	service  services.TranslationService
	notifier Notifier
	logger   *logrus.Logger
}

func NewTranslationHandler(service services.TranslationService, notifier Notifier, logger *logrus.Logger) *TranslationHandler {
	return &TranslationHandler{
		service:  service,
		notifier: notifier,
		logger:   logger,
	}
}

// GetAllTranslations godoc
// @Summary List translations
// @Description List translations with namespace, language, search and active filters
// @Tags translations
// @Accept json
// @Produce json
// @Param namespace query string false "Filter by namespace"
// @Param language query string false "Filter by language code"
// @Param search query string false "Search in key and value"
// @Param isActive query bool false "Active flag filter" default(true)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (0 = all)" default(0)
// @Success 200 {object} utils.APIResponse "List of translations"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /translations [get]
func (h *TranslationHandler) GetAllTranslations(c *fiber.Ctx) error {
	ctx := c.Context()

	filter := models.TranslationFilter{
		Namespace: c.Query("namespace", ""),
		Language:  c.Query("language", ""),
		Search:    c.Query("search", ""),
	}
	filter.Page, _ = strconv.Atoi(c.Query("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "0"))

	// Active-only unless the caller asks otherwise.
	if raw := c.Query("isActive", "true"); raw != "" && raw != "all" {
		isActive, err := strconv.ParseBool(raw)
		if err == nil {
			filter.IsActive = &isActive
		}
	}

	translations, total, err := h.service.GetAll(ctx, filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list translations")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve translations")
	}

	return utils.SuccessListResponse(c, translations, total)
}

// GetStats godoc
// @Summary Translation statistics
// @Description Totals, per-language and per-namespace counts, recently updated
// @Tags translations
// @Produce json
// @Success 200 {object} utils.APIResponse "Statistics"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /translations/stats [get]
func (h *TranslationHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get translation stats")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve statistics")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Statistics retrieved successfully", stats)
}

// GetCompleteness godoc
// @Summary Completeness report
// @Description Per (namespace, language) coverage of translated keys
// @Tags translations
// @Produce json
// @Success 200 {object} utils.APIResponse "Completeness report"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /translations/completeness [get]
func (h *TranslationHandler) GetCompleteness(c *fiber.Ctx) error {
	reports, err := h.service.GetCompleteness(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build completeness report")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve completeness report")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Completeness report retrieved successfully", reports)
}

// GetTranslationByID godoc
// @Summary Get translation by ID
// @Description Returns the translation regardless of its active flag
// @Tags translations
// @Produce json
// @Param id path int true "Translation ID"
// @Success 200 {object} utils.APIResponse "Translation"
// @Failure 404 {object} utils.APIResponse "Translation not found"
// @Router /translations/{id} [get]
func (h *TranslationHandler) GetTranslationByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid translation ID")
	}

	translation, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return h.mapServiceError(c, err, id)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Translation retrieved successfully", translation)
}

// GetTranslationVersions godoc
// @Summary Get translation version history
// @Tags translations
// @Produce json
// @Param id path int true "Translation ID"
// @Success 200 {object} utils.APIResponse "Version history"
// @Failure 404 {object} utils.APIResponse "Translation not found"
// @Router /translations/{id}/versions [get]
func (h *TranslationHandler) GetTranslationVersions(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid translation ID")
	}

	versions, err := h.service.GetVersions(c.Context(), id)
	if err != nil {
		return h.mapServiceError(c, err, id)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Version history retrieved successfully", versions)
}

// CreateTranslation godoc
// @Summary Create a translation
// @Description Creates a translation at version 1; requires TRANSLATOR role or higher
// @Tags translations
// @Accept json
// @Produce json
// @Param translation body CreateTranslationRequest true "Translation"
// @Success 201 {object} utils.APIResponse "Translation created"
// @Failure 400 {object} utils.APIResponse "Validation error or duplicate"
// @Router /translations [post]
func (h *TranslationHandler) CreateTranslation(c *fiber.Ctx) error {
	var req CreateTranslationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if details := req.Validate(); details != nil {
		return utils.ErrorWithDetailsResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", details)
	}

	input := services.CreateTranslationInput{
		Namespace: req.Namespace,
		Key:       req.Key,
		Language:  req.Language,
		Value:     req.Value,
	}

	translation, err := h.service.Create(c.Context(), input, middleware.AuditMeta(c))
	if err != nil {
		return h.mapServiceError(c, err, 0)
	}

	h.notifier.Broadcast(realtime.EventTranslationUpdate, translation)
	return utils.SuccessResponse(c, fiber.StatusCreated, "Translation created successfully", translation)
}

// UpdateTranslation godoc
// @Summary Update a translation value
// @Description Writes a new version; requires TRANSLATOR role or higher
// @Tags translations
// @Accept json
// @Produce json
// @Param id path int true "Translation ID"
// @Param translation body UpdateTranslationRequest true "New value"
// @Success 200 {object} utils.APIResponse "Translation updated"
// @Failure 400 {object} utils.APIResponse "Validation error"
// @Failure 404 {object} utils.APIResponse "Translation not found"
// @Router /translations/{id} [put]
func (h *TranslationHandler) UpdateTranslation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid translation ID")
	}

	var req UpdateTranslationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Value == "" {
		return utils.ErrorWithDetailsResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR",
			map[string]string{"value": "value is required"})
	}

	translation, err := h.service.Update(c.Context(), id, req.Value, middleware.AuditMeta(c))
	if err != nil {
		return h.mapServiceError(c, err, id)
	}

	h.notifier.Broadcast(realtime.EventTranslationUpdate, translation)
	return utils.SuccessResponse(c, fiber.StatusOK, "Translation updated successfully", translation)
}

// BulkUpdateTranslations godoc
// @Summary Bulk update translations
// @Description Applies each update independently; requires EDITOR role or higher
// @Tags translations
// @Accept json
// @Produce json
// @Param updates body BulkUpdateRequest true "Updates"
// @Success 200 {object} utils.APIResponse "Per-item results with summary"
// @Failure 400 {object} utils.APIResponse "Invalid request body"
// @Router /translations/bulk [put]
func (h *TranslationHandler) BulkUpdateTranslations(c *fiber.Ctx) error {
	var req BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(req.Updates) == 0 {
		return utils.ErrorWithDetailsResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR",
			map[string]string{"updates": "updates must not be empty"})
	}

	results, summary := h.service.BulkUpdate(c.Context(), req.Updates, middleware.AuditMeta(c))

	if summary.Successful > 0 {
		h.notifier.Broadcast(realtime.EventTranslationUpdate, summary)
	}
	return utils.SuccessWithSummaryResponse(c, results, summary)
}

// DeleteTranslation godoc
// @Summary Delete a translation
// @Description Soft delete; the row stays retrievable by id. Requires EDITOR role or higher
// @Tags translations
// @Produce json
// @Param id path int true "Translation ID"
// @Success 200 {object} utils.APIResponse "Translation deleted"
// @Failure 400 {object} utils.APIResponse "Invalid translation ID"
// @Failure 404 {object} utils.APIResponse "Translation not found"
// @Router /translations/{id} [delete]
func (h *TranslationHandler) DeleteTranslation(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid translation ID")
	}

	translation, err := h.service.Delete(c.Context(), id, middleware.AuditMeta(c))
	if err != nil {
		return h.mapServiceError(c, err, id)
	}

	h.notifier.Broadcast(realtime.EventTranslationUpdate, translation)
	return utils.SuccessResponse(c, fiber.StatusOK, "Translation deleted successfully", translation)
}

// PublishTranslation godoc
// @Summary Publish a translation
// @Tags translations
// @Produce json
// @Param id path int true "Translation ID"
// @Success 200 {object} utils.APIResponse "Translation published"
// @Failure 404 {object} utils.APIResponse "Translation not found"
// @Router /translations/{id}/publish [patch]
func (h *TranslationHandler) PublishTranslation(c *fiber.Ctx) error {
	return h.togglePublish(c, true)
}

// UnpublishTranslation godoc
// @Summary Unpublish a translation
// @Tags translations
// @Produce json
// @Param id path int true "Translation ID"
// @Success 200 {object} utils.APIResponse "Translation unpublished"
// @Failure 404 {object} utils.APIResponse "Translation not found"
// @Router /translations/{id}/unpublish [patch]
func (h *TranslationHandler) UnpublishTranslation(c *fiber.Ctx) error {
	return h.togglePublish(c, false)
}

func (h *TranslationHandler) togglePublish(c *fiber.Ctx, publish bool) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid translation ID")
	}

	var translation *models.Translation
	if publish {
		translation, err = h.service.Publish(c.Context(), id, middleware.AuditMeta(c))
	} else {
		translation, err = h.service.Unpublish(c.Context(), id, middleware.AuditMeta(c))
	}
	if err != nil {
		return h.mapServiceError(c, err, id)
	}

	message := "Translation published successfully"
	if !publish {
		message = "Translation unpublished successfully"
	}

	h.notifier.Broadcast(realtime.EventTranslationUpdate, translation)
	return utils.SuccessResponse(c, fiber.StatusOK, message, translation)
}

// SyncLocaleFiles godoc
// @Summary Rebuild locale files
// @Description Full rebuild of locales/<language>/<namespace>.json from the database; ADMIN only
// @Tags translations
// @Produce json
// @Success 200 {object} utils.APIResponse "Locale files rebuilt"
// @Failure 500 {object} utils.APIResponse "Rebuild failed"
// @Router /translations/sync [post]
func (h *TranslationHandler) SyncLocaleFiles(c *fiber.Ctx) error {
	if err := h.service.RebuildLocaleFiles(c.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to rebuild locale files")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to rebuild locale files")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Locale files rebuilt successfully", nil)
}

func (h *TranslationHandler) mapServiceError(c *fiber.Ctx, err error, id uint) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.ErrorWithCodeResponse(c, fiber.StatusNotFound, "Translation not found", "NOT_FOUND")
	case errors.Is(err, services.ErrDuplicateKey):
		return utils.ErrorWithCodeResponse(c, fiber.StatusBadRequest, err.Error(), "DUPLICATE_KEY")
	case errors.Is(err, services.ErrUnsupportedLanguage):
		return utils.ErrorWithCodeResponse(c, fiber.StatusBadRequest, err.Error(), "UNSUPPORTED_LANGUAGE")
	case errors.Is(err, services.ErrUnknownNamespace):
		return utils.ErrorWithCodeResponse(c, fiber.StatusBadRequest, err.Error(), "UNKNOWN_NAMESPACE")
	default:
		h.logger.WithError(err).WithField("id", id).Error("Translation operation failed")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
