package services

import (
	"context"
	"fmt"
	"sort"

	"translation-backend/internal/config"
	"translation-backend/internal/models"
	"translation-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

type CreateTranslationInput struct {
	Namespace string
	Key       string
	Language  string
	Value     string
}

type TranslationService interface {
	// Queries
	GetAll(ctx context.Context, filter models.TranslationFilter) ([]models.Translation, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Translation, error)
	GetVersions(ctx context.Context, id uint) ([]models.TranslationVersion, error)
	GetStats(ctx context.Context) (*models.TranslationStats, error)
	GetCompleteness(ctx context.Context) ([]models.CompletenessReport, error)

	// Mutations
	Create(ctx context.Context, input CreateTranslationInput, meta models.AuditMeta) (*models.Translation, error)
	Update(ctx context.Context, id uint, value string, meta models.AuditMeta) (*models.Translation, error)
	BulkUpdate(ctx context.Context, items []models.BulkUpdateItem, meta models.AuditMeta) ([]models.BulkUpdateResult, models.BulkUpdateSummary)
	Delete(ctx context.Context, id uint, meta models.AuditMeta) (*models.Translation, error)
	Publish(ctx context.Context, id uint, meta models.AuditMeta) (*models.Translation, error)
	Unpublish(ctx context.Context, id uint, meta models.AuditMeta) (*models.Translation, error)

	// Locale file projection
	RebuildLocaleFiles(ctx context.Context) error
}

type translationService struct {
	repo          repository.TranslationRepository
	namespaceRepo repository.NamespaceRepository
	config        *config.Config
	logger        *logrus.Logger
	syncService   LocaleSyncService
}

func NewTranslationService(repo repository.TranslationRepository, namespaceRepo repository.NamespaceRepository, cfg *config.Config, logger *logrus.Logger) TranslationService {
	return &translationService{
		repo:          repo,
		namespaceRepo: namespaceRepo,
		config:        cfg,
		logger:        logger,
	}
}

func (s *translationService) SetSyncService(syncSvc LocaleSyncService) {
	s.syncService = syncSvc
}

func (s *translationService) GetAll(ctx context.Context, filter models.TranslationFilter) ([]models.Translation, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}

	return s.repo.FindAll(ctx, filter)
}

func (s *translationService) GetByID(ctx context.Context, id uint) (*models.Translation, error) {
	translation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if translation == nil {
		return nil, ErrNotFound
	}
	return translation, nil
}

func (s *translationService) GetVersions(ctx context.Context, id uint) ([]models.TranslationVersion, error) {
	translation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if translation == nil {
		return nil, ErrNotFound
	}
	return s.repo.FindVersions(ctx, id)
}

func (s *translationService) GetStats(ctx context.Context) (*models.TranslationStats, error) {
	return s.repo.GetStats(ctx)
}

// Create inserts a translation at version 1. If the triple exists inactive,
// the row is reactivated instead: the value is replaced and the version
// sequence continues, so history stays attached to the same id. An active
// triple is a duplicate.
func (s *translationService) Create(ctx context.Context, input CreateTranslationInput, meta models.AuditMeta) (*models.Translation, error) {
	if !s.config.Locales.IsSupported(input.Language) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, input.Language)
	}

	namespace, err := s.namespaceRepo.FindByName(ctx, input.Namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to check namespace: %w", err)
	}
	if namespace == nil || !namespace.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNamespace, input.Namespace)
	}

	existing, err := s.repo.FindByTriple(ctx, input.Namespace, input.Key, input.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing translation: %w", err)
	}

	if existing != nil {
		if existing.IsActive {
			return nil, ErrDuplicateKey
		}
		return s.reactivate(ctx, existing.ID, input.Value, meta)
	}

	translation := &models.Translation{
		Namespace: input.Namespace,
		Key:       input.Key,
		Language:  input.Language,
		Value:     input.Value,
		Version:   1,
		IsActive:  true,
	}

	audit := &models.TranslationAudit{
		Action:    models.AuditActionCreate,
		NewValue:  &input.Value,
		ActorID:   meta.ActorID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}

	if err := s.repo.CreateWithHistory(ctx, translation, audit); err != nil {
		return nil, err
	}

	s.syncToFile(translation)
	return translation, nil
}

func (s *translationService) reactivate(ctx context.Context, id uint, value string, meta models.AuditMeta) (*models.Translation, error) {
	updated, err := s.repo.UpdateWithHistory(ctx, id, func(t *models.Translation) *models.TranslationAudit {
		t.Value = value
		t.IsActive = true
		return &models.TranslationAudit{
			Action:    models.AuditActionCreate,
			NewValue:  &value,
			ActorID:   meta.ActorID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.syncToFile(updated)
	return updated, nil
}

// Update increments the version inside the repository transaction; the row is
// re-read under a lock there so concurrent updates cannot produce duplicate
// version numbers.
func (s *translationService) Update(ctx context.Context, id uint, value string, meta models.AuditMeta) (*models.Translation, error) {
	updated, err := s.repo.UpdateWithHistory(ctx, id, func(t *models.Translation) *models.TranslationAudit {
		oldValue := t.Value
		t.Value = value
		return &models.TranslationAudit{
			Action:    models.AuditActionUpdate,
			OldValue:  &oldValue,
			NewValue:  &value,
			ActorID:   meta.ActorID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.syncToFile(updated)
	return updated, nil
}

// BulkUpdate applies each item independently. Partial failure is expected
// and reported per item, never rolled back as a unit.
func (s *translationService) BulkUpdate(ctx context.Context, items []models.BulkUpdateItem, meta models.AuditMeta) ([]models.BulkUpdateResult, models.BulkUpdateSummary) {
	results := make([]models.BulkUpdateResult, 0, len(items))
	summary := models.BulkUpdateSummary{Total: len(items)}

	for _, item := range items {
		updated, err := s.Update(ctx, item.ID, item.Value, meta)
		if err != nil {
			s.logger.WithError(err).WithField("id", item.ID).Warn("Bulk update item failed")
			results = append(results, models.BulkUpdateResult{ID: item.ID, Success: false, Error: err.Error()})
			summary.Errors++
			continue
		}
		results = append(results, models.BulkUpdateResult{ID: item.ID, Success: true, Data: updated})
		summary.Successful++
	}

	return results, summary
}

func (s *translationService) Delete(ctx context.Context, id uint, meta models.AuditMeta) (*models.Translation, error) {
	deleted, err := s.repo.SaveWithAudit(ctx, id, func(t *models.Translation) *models.TranslationAudit {
		oldValue := t.Value
		t.IsActive = false
		return &models.TranslationAudit{
			Action:    models.AuditActionDelete,
			OldValue:  &oldValue,
			ActorID:   meta.ActorID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}
	})
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, ErrNotFound
	}

	s.removeFromFile(deleted)
	return deleted, nil
}

func (s *translationService) Publish(ctx context.Context, id uint, meta models.AuditMeta) (*models.Translation, error) {
	published, err := s.repo.SaveWithAudit(ctx, id, func(t *models.Translation) *models.TranslationAudit {
		t.IsActive = true
		value := t.Value
		return &models.TranslationAudit{
			Action:    models.AuditActionPublish,
			NewValue:  &value,
			ActorID:   meta.ActorID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}
	})
	if err != nil {
		return nil, err
	}
	if published == nil {
		return nil, ErrNotFound
	}

	s.syncToFile(published)
	return published, nil
}

func (s *translationService) Unpublish(ctx context.Context, id uint, meta models.AuditMeta) (*models.Translation, error) {
	unpublished, err := s.repo.SaveWithAudit(ctx, id, func(t *models.Translation) *models.TranslationAudit {
		value := t.Value
		t.IsActive = false
		return &models.TranslationAudit{
			Action:    models.AuditActionUnpublish,
			OldValue:  &value,
			ActorID:   meta.ActorID,
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}
	})
	if err != nil {
		return nil, err
	}
	if unpublished == nil {
		return nil, ErrNotFound
	}

	s.removeFromFile(unpublished)
	return unpublished, nil
}

func (s *translationService) RebuildLocaleFiles(ctx context.Context) error {
	if s.syncService == nil {
		return fmt.Errorf("locale sync is not configured")
	}

	translations, err := s.repo.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active translations: %w", err)
	}

	return s.syncService.RebuildAll(translations)
}

// GetCompleteness reports, per (namespace, language), how many of the
// namespace's known keys carry a non-empty active value. The key universe of
// a namespace is the union of keys over every supported language.
func (s *translationService) GetCompleteness(ctx context.Context) ([]models.CompletenessReport, error) {
	namespaces, err := s.namespaceRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	translations, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	keysByNamespace := make(map[string]map[string]bool)
	translated := make(map[string]map[string]bool) // namespace/language -> key set
	for _, t := range translations {
		if keysByNamespace[t.Namespace] == nil {
			keysByNamespace[t.Namespace] = make(map[string]bool)
		}
		keysByNamespace[t.Namespace][t.Key] = true

		if t.Value == "" {
			continue
		}
		pair := t.Namespace + "/" + t.Language
		if translated[pair] == nil {
			translated[pair] = make(map[string]bool)
		}
		translated[pair][t.Key] = true
	}

	var reports []models.CompletenessReport
	for _, ns := range namespaces {
		keys := keysByNamespace[ns.Name]

		for _, lang := range s.config.Locales.SupportedLanguages {
			report := models.CompletenessReport{
				Namespace:   ns.Name,
				Language:    lang,
				Total:       len(keys),
				MissingKeys: []string{},
			}

			have := translated[ns.Name+"/"+lang]
			for key := range keys {
				if have[key] {
					report.Translated++
				} else {
					report.MissingKeys = append(report.MissingKeys, key)
				}
			}
			sort.Strings(report.MissingKeys)
			report.Missing = len(report.MissingKeys)

			if report.Total > 0 {
				report.Percentage = float64(report.Translated) / float64(report.Total) * 100
			} else {
				report.Percentage = 100
			}

			reports = append(reports, report)
		}
	}

	return reports, nil
}

// syncToFile projects the translation into its locale file. The database is
// the source of truth; a failed projection is logged and never fails the
// enclosing operation.
func (s *translationService) syncToFile(t *models.Translation) {
	if s.syncService == nil {
		return
	}
	if err := s.syncService.SyncTranslation(t); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"namespace": t.Namespace,
			"key":       t.Key,
			"language":  t.Language,
		}).Warn("Failed to sync translation to locale file")
	}
}

func (s *translationService) removeFromFile(t *models.Translation) {
	if s.syncService == nil {
		return
	}
	if err := s.syncService.RemoveTranslation(t); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"namespace": t.Namespace,
			"key":       t.Key,
			"language":  t.Language,
		}).Warn("Failed to remove translation from locale file")
	}
}
