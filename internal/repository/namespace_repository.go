package repository

import (
	"context"
	"errors"
	"time"

	"translation-backend/internal/database"
	"translation-backend/internal/models"

	"gorm.io/gorm"
)

type NamespaceRepository interface {
	Create(ctx context.Context, namespace *models.TranslationNamespace) error
	FindByName(ctx context.Context, name string) (*models.TranslationNamespace, error)
	FindAllActive(ctx context.Context) ([]models.TranslationNamespace, error)
}

type namespaceRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewNamespaceRepository(db *database.Database) NamespaceRepository {
	return &namespaceRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *namespaceRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *namespaceRepository) Create(ctx context.Context, namespace *models.TranslationNamespace) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Create(namespace).Error
}

func (r *namespaceRepository) FindByName(ctx context.Context, name string) (*models.TranslationNamespace, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var namespace models.TranslationNamespace
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&namespace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &namespace, nil
}

func (r *namespaceRepository) FindAllActive(ctx context.Context) ([]models.TranslationNamespace, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var namespaces []models.TranslationNamespace
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&namespaces).Error
	return namespaces, err
}
