package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"translation-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// LocaleSyncService mirrors active translations into one JSON file per
// (language, namespace) pair at locales/<language>/<namespace>.json. The
// files are a derived projection: concurrent writers are not coordinated and
// a full rebuild is the recovery path when they drift.
type LocaleSyncService interface {
	SyncTranslation(t *models.Translation) error
	RemoveTranslation(t *models.Translation) error
	RebuildAll(translations []models.Translation) error
}

type localeSyncService struct {
	baseDir string
	logger  *logrus.Logger
}

func NewLocaleSyncService(baseDir string, logger *logrus.Logger) LocaleSyncService {
	return &localeSyncService{
		baseDir: baseDir,
		logger:  logger,
	}
}

func (s *localeSyncService) filePath(language, namespace string) string {
	return filepath.Join(s.baseDir, language, namespace+".json")
}

// SyncTranslation sets content[key] = value in the target file. A missing or
// corrupt file starts over from an empty object.
func (s *localeSyncService) SyncTranslation(t *models.Translation) error {
	path := s.filePath(t.Language, t.Namespace)

	content := s.readOrInit(path)
	content[t.Key] = t.Value

	return s.writeFile(path, content)
}

// RemoveTranslation deletes the key from the target file. A missing file
// means the key is already absent, which is a no-op.
func (s *localeSyncService) RemoveTranslation(t *models.Translation) error {
	path := s.filePath(t.Language, t.Namespace)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read locale file: %w", err)
	}

	var content map[string]string
	if err := json.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("failed to parse locale file %s: %w", path, err)
	}

	if _, ok := content[t.Key]; !ok {
		return nil
	}
	delete(content, t.Key)

	return s.writeFile(path, content)
}

// RebuildAll regenerates every locale file from the given active
// translations, overwriting existing files entirely. Running it twice with
// no intervening mutations produces identical files: keys are maps and
// json.MarshalIndent serializes map keys in sorted order.
func (s *localeSyncService) RebuildAll(translations []models.Translation) error {
	groups := make(map[string]map[string]string) // language/namespace -> key -> value
	for _, t := range translations {
		if !t.IsActive {
			continue
		}
		pair := t.Language + "/" + t.Namespace
		if groups[pair] == nil {
			groups[pair] = make(map[string]string)
		}
		groups[pair][t.Key] = t.Value
	}

	for pair, content := range groups {
		language, namespace := splitPair(pair)
		path := s.filePath(language, namespace)
		if err := s.writeFile(path, content); err != nil {
			return fmt.Errorf("failed to rebuild %s: %w", path, err)
		}
	}

	s.logger.WithField("files", len(groups)).Info("Locale files rebuilt")
	return nil
}

func (s *localeSyncService) readOrInit(path string) map[string]string {
	content := make(map[string]string)

	data, err := os.ReadFile(path)
	if err != nil {
		return content
	}
	if err := json.Unmarshal(data, &content); err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("Corrupt locale file, starting from empty")
		return make(map[string]string)
	}
	return content
}

func (s *localeSyncService) writeFile(path string, content map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create locale directory: %w", err)
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal locale content: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write locale file: %w", err)
	}
	return nil
}

func splitPair(pair string) (language, namespace string) {
	for i := 0; i < len(pair); i++ {
		if pair[i] == '/' {
			return pair[:i], pair[i+1:]
		}
	}
	return pair, ""
}
