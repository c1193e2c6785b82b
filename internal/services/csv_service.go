package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"translation-backend/internal/models"
	"translation-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Export column order is fixed; import requires the first four.
var csvExportHeader = []string{"namespace", "key", "language", "value", "version", "updatedAt"}

type stagedRow struct {
	input CreateTranslationInput
	raw   string
}

type CSVService interface {
	Import(ctx context.Context, r io.Reader, meta models.AuditMeta) (*models.ImportResult, error)
	Export(ctx context.Context, filter models.TranslationFilter) (string, error)
}

type csvService struct {
	translations TranslationService
	repo         repository.TranslationRepository
	logger       *logrus.Logger
}

func NewCSVService(translations TranslationService, repo repository.TranslationRepository, logger *logrus.Logger) CSVService {
	return &csvService{
		translations: translations,
		repo:         repo,
		logger:       logger,
	}
}

// Import reads the CSV stream row by row. Rows failing shape validation are
// recorded with their 1-based data-row index and processing continues. Rows
// that parse are staged and submitted to Create independently once the
// stream is consumed; creation failures are recorded with row index -1.
// Import is not transactional across rows.
func (s *csvService) Import(ctx context.Context, r io.Reader, meta models.AuditMeta) (*models.ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv stream: %w", err)
	}
	data = stripBOM(data)

	reader := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"namespace", "key", "language", "value"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("csv missing '%s' column", col)
		}
	}

	result := &models.ImportResult{Errors: []models.ImportError{}}
	var staged []stagedRow

	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, models.ImportError{
				Row:     row,
				Message: err.Error(),
			})
			continue
		}

		input := CreateTranslationInput{
			Namespace: fieldAt(record, idx["namespace"]),
			Key:       fieldAt(record, idx["key"]),
			Language:  fieldAt(record, idx["language"]),
			Value:     fieldAt(record, idx["value"]),
		}

		if input.Namespace == "" || input.Key == "" || input.Language == "" || input.Value == "" {
			result.Errors = append(result.Errors, models.ImportError{
				Row:     row,
				Message: "namespace, key, language and value are required",
				Data:    strings.Join(record, ","),
			})
			continue
		}

		staged = append(staged, stagedRow{input: input, raw: strings.Join(record, ",")})
	}

	for _, sr := range staged {
		if _, err := s.translations.Create(ctx, sr.input, meta); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"namespace": sr.input.Namespace,
				"key":       sr.input.Key,
				"language":  sr.input.Language,
			}).Warn("CSV import row rejected at create stage")
			result.Errors = append(result.Errors, models.ImportError{
				Row:     -1,
				Message: err.Error(),
				Data:    sr.raw,
			})
			continue
		}
		result.Success++
	}

	return result, nil
}

// Export serializes the filtered translations into a CSV file under the OS
// temp directory and returns its path. The caller owns cleanup after the
// transfer.
func (s *csvService) Export(ctx context.Context, filter models.TranslationFilter) (string, error) {
	translations, _, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("failed to query translations for export: %w", err)
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("translations_export_%s.csv", uuid.New().String()[:8]))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(csvExportHeader); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, t := range translations {
		record := []string{
			t.Namespace,
			t.Key,
			t.Language,
			t.Value,
			strconv.Itoa(t.Version),
			t.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"rows": len(translations),
		"path": path,
	}).Info("CSV export written")

	return path, nil
}

func fieldAt(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
