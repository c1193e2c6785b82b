package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"translation-backend/internal/middleware"
	"translation-backend/internal/models"
	"translation-backend/internal/services"
	"translation-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ImportExportHandler struct {
	csvService services.CSVService
	archive    *services.ArchiveService
	maxCSVSize int64
	logger     *logrus.Logger
}

func NewImportExportHandler(csvService services.CSVService, maxCSVSize int64, logger *logrus.Logger) *ImportExportHandler {
	return &ImportExportHandler{
		csvService: csvService,
		maxCSVSize: maxCSVSize,
		logger:     logger,
	}
}

// SetArchiveService enables uploading exports to object storage.
func (h *ImportExportHandler) SetArchiveService(archive *services.ArchiveService) {
	h.archive = archive
}

// ImportCSV godoc
// @Summary Import translations from CSV
// @Description Multipart upload of a .csv file (header: namespace,key,language,value); ADMIN only
// @Tags translations
// @Accept multipart/form-data
// @Produce json
// @Param csvFile formData file true "CSV file (max 5MB)"
// @Success 200 {object} utils.APIResponse "Per-row import result"
// @Failure 400 {object} utils.APIResponse "Bad file"
// @Router /translations/import [post]
func (h *ImportExportHandler) ImportCSV(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("csvFile")
	if err != nil {
		return utils.ErrorWithCodeResponse(c, fiber.StatusBadRequest, "csvFile is required", "FILE_MISSING")
	}

	if fileHeader.Size > h.maxCSVSize {
		return utils.ErrorWithCodeResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("File exceeds the %d byte limit", h.maxCSVSize), "FILE_TOO_LARGE")
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		return utils.ErrorWithCodeResponse(c, fiber.StatusBadRequest, "Only .csv files are accepted", "FILE_TYPE_INVALID")
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("Failed to open uploaded CSV")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read uploaded file")
	}
	defer file.Close()

	result, err := h.csvService.Import(c.Context(), file, middleware.AuditMeta(c))
	if err != nil {
		h.logger.WithError(err).Error("CSV import failed")
		return utils.ErrorWithCodeResponse(c, fiber.StatusBadRequest, err.Error(), "IMPORT_FAILED")
	}

	h.logger.WithFields(logrus.Fields{
		"success": result.Success,
		"errors":  len(result.Errors),
	}).Info("CSV import completed")

	return utils.SuccessResponse(c, fiber.StatusOK, "Import completed", result)
}

// ExportCSV godoc
// @Summary Export translations to CSV
// @Description Exports active translations matching the filters as a CSV download; ADMIN only
// @Tags translations
// @Accept json
// @Produce text/csv
// @Param filter body ExportRequest true "Export filters"
// @Success 200 {file} file "CSV download"
// @Failure 500 {object} utils.APIResponse "Export failed"
// @Router /translations/export [post]
func (h *ImportExportHandler) ExportCSV(c *fiber.Ctx) error {
	var req ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Format != "" && req.Format != "csv" {
		return utils.ErrorWithCodeResponse(c, fiber.StatusBadRequest, "Only csv format is supported", "VALIDATION_ERROR")
	}

	isActive := true
	filter := models.TranslationFilter{
		Namespace: req.Namespace,
		Language:  req.Language,
		IsActive:  &isActive,
	}

	path, err := h.csvService.Export(c.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("CSV export failed")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export translations")
	}

	if h.archive != nil {
		if url, err := h.archive.UploadExport(c.Context(), path); err != nil {
			h.logger.WithError(err).Warn("Failed to archive export")
		} else {
			c.Set("X-Export-Archive-URL", url)
		}
	}

	return c.Download(path, "translations_export.csv")
}
