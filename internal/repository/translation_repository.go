package repository

import (
	"context"
	"errors"
	"time"

	"translation-backend/internal/database"
	"translation-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TranslationRepository interface {
	// Lookups
	FindByID(ctx context.Context, id uint) (*models.Translation, error)
	FindByTriple(ctx context.Context, namespace, key, language string) (*models.Translation, error)
	FindAll(ctx context.Context, filter models.TranslationFilter) ([]models.Translation, int64, error)
	FindActive(ctx context.Context) ([]models.Translation, error)

	// Versioned writes. Each call is one transaction: the value write, the
	// version snapshot and the audit row commit or roll back together.
	CreateWithHistory(ctx context.Context, t *models.Translation, audit *models.TranslationAudit) error

	// UpdateWithHistory re-reads the row under a row lock, applies mutate,
	// increments the version and appends the snapshot and audit rows, all in
	// one transaction. Concurrent updates to the same id serialize on the
	// lock, so version numbers stay gapless. Returns (nil, nil) when the id
	// does not exist. mutate returns the audit row for the change it made.
	UpdateWithHistory(ctx context.Context, id uint, mutate func(t *models.Translation) *models.TranslationAudit) (*models.Translation, error)

	// SaveWithAudit persists a state flip (soft delete, publish, unpublish)
	// without a version snapshot, re-reading the row under the same lock.
	// Returns (nil, nil) when the id does not exist.
	SaveWithAudit(ctx context.Context, id uint, mutate func(t *models.Translation) *models.TranslationAudit) (*models.Translation, error)

	// History
	FindVersions(ctx context.Context, translationID uint) ([]models.TranslationVersion, error)

	// Reporting
	GetStats(ctx context.Context) (*models.TranslationStats, error)
}

type translationRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewTranslationRepository(db *database.Database) TranslationRepository {
	return &translationRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *translationRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *translationRepository) FindByID(ctx context.Context, id uint) (*models.Translation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var translation models.Translation
	err := r.db.WithContext(ctx).First(&translation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &translation, nil
}

func (r *translationRepository) FindByTriple(ctx context.Context, namespace, key, language string) (*models.Translation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var translation models.Translation
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND key = ? AND language = ?", namespace, key, language).
		First(&translation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &translation, nil
}

func (r *translationRepository) FindAll(ctx context.Context, filter models.TranslationFilter) ([]models.Translation, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var translations []models.Translation
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Translation{})

	if filter.Namespace != "" {
		query = query.Where("namespace = ?", filter.Namespace)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("key ILIKE ? OR value ILIKE ?", searchPattern, searchPattern)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("namespace ASC, key ASC, language ASC")

	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.Limit)
	}

	if err := query.Find(&translations).Error; err != nil {
		return nil, 0, err
	}

	return translations, total, nil
}

func (r *translationRepository) FindActive(ctx context.Context) ([]models.Translation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var translations []models.Translation
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("namespace ASC, key ASC, language ASC").
		Find(&translations).Error
	return translations, err
}

func (r *translationRepository) CreateWithHistory(ctx context.Context, t *models.Translation, audit *models.TranslationAudit) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		version := &models.TranslationVersion{
			TranslationID: t.ID,
			Version:       t.Version,
			Value:         t.Value,
			CreatedBy:     audit.ActorID,
		}
		if err := tx.Create(version).Error; err != nil {
			return err
		}

		audit.TranslationID = t.ID
		return tx.Create(audit).Error
	})
}

func (r *translationRepository) UpdateWithHistory(ctx context.Context, id uint, mutate func(t *models.Translation) *models.TranslationAudit) (*models.Translation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var translation models.Translation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&translation, id).Error; err != nil {
			return err
		}

		audit := mutate(&translation)
		translation.Version++

		if err := tx.Save(&translation).Error; err != nil {
			return err
		}

		version := &models.TranslationVersion{
			TranslationID: translation.ID,
			Version:       translation.Version,
			Value:         translation.Value,
			CreatedBy:     audit.ActorID,
		}
		if err := tx.Create(version).Error; err != nil {
			return err
		}

		audit.TranslationID = translation.ID
		return tx.Create(audit).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &translation, nil
}

func (r *translationRepository) SaveWithAudit(ctx context.Context, id uint, mutate func(t *models.Translation) *models.TranslationAudit) (*models.Translation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var translation models.Translation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&translation, id).Error; err != nil {
			return err
		}

		audit := mutate(&translation)

		if err := tx.Save(&translation).Error; err != nil {
			return err
		}

		audit.TranslationID = translation.ID
		return tx.Create(audit).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &translation, nil
}

func (r *translationRepository) FindVersions(ctx context.Context, translationID uint) ([]models.TranslationVersion, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var versions []models.TranslationVersion
	err := r.db.WithContext(ctx).
		Where("translation_id = ?", translationID).
		Order("version ASC").
		Find(&versions).Error
	return versions, err
}

func (r *translationRepository) GetStats(ctx context.Context) (*models.TranslationStats, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var stats models.TranslationStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Translation{}).
		Where("is_active = ?", true).
		Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Translation{}).
		Select("language, COUNT(*) as count").
		Where("is_active = ?", true).
		Group("language").
		Order("count DESC").
		Find(&stats.ByLanguage).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Translation{}).
		Select("namespace, COUNT(*) as count").
		Where("is_active = ?", true).
		Group("namespace").
		Order("count DESC").
		Find(&stats.ByNamespace).Error; err != nil {
		return nil, err
	}

	// Recently updated translations (limit 10)
	if err := db.Model(&models.Translation{}).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		Limit(10).
		Find(&stats.RecentlyUpdated).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
