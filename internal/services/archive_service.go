package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"translation-backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// ArchiveService keeps a copy of exported CSV files in object storage so an
// export survives the local temp directory. It is optional; the export flow
// works without it.
type ArchiveService struct {
	client    *minio.Client
	bucket    string
	publicURL string
	retention time.Duration
	logger    *logrus.Logger
}

func NewArchiveService(cfg *config.ArchiveConfig, logger *logrus.Logger) (*ArchiveService, error) {
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"useSSL":   cfg.UseSSL,
	}).Info("Export archive client initialized")

	service := &ArchiveService{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		logger:    logger,
	}

	if err := service.ensureBucket(context.Background()); err != nil {
		logger.WithError(err).Warn("Failed to configure archive bucket, but continuing...")
	}

	return service, nil
}

func (s *ArchiveService) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Archive bucket created")
	}

	return nil
}

// UploadExport stores the local CSV file under a date-prefixed, uuid-suffixed
// object name and returns the object URL.
func (s *ArchiveService) UploadExport(ctx context.Context, localPath string) (string, error) {
	ext := filepath.Ext(localPath)
	objectName := fmt.Sprintf("exports/%s_%s%s",
		time.Now().UTC().Format("2006-01-02"),
		uuid.New().String()[:8],
		ext,
	)

	info, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"object": objectName,
		"size":   info.Size,
	}).Info("Export archived to object storage")

	s.pruneExpired(ctx)

	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.publicURL, "/"), objectName), nil
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectName), nil
}

func (s *ArchiveService) DeleteExport(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		s.logger.WithError(err).WithField("object", objectName).Error("Failed to delete archived export")
		return fmt.Errorf("failed to delete archived export: %w", err)
	}
	return nil
}

// pruneExpired removes archived exports older than the retention window.
// Best effort: listing or deletion failures are logged and never affect the
// export that triggered the prune.
func (s *ArchiveService) pruneExpired(ctx context.Context) {
	if s.retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.retention)

	var objects []minio.ObjectInfo
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: "exports/", Recursive: true}) {
		if object.Err != nil {
			s.logger.WithError(object.Err).Warn("Failed to list archived exports for pruning")
			return
		}
		objects = append(objects, object)
	}

	pruned := 0
	for _, key := range staleExportKeys(objects, cutoff) {
		if err := s.DeleteExport(ctx, key); err != nil {
			continue
		}
		pruned++
	}
	if pruned > 0 {
		s.logger.WithField("objects", pruned).Info("Expired export archives pruned")
	}
}

// staleExportKeys picks the objects past the cutoff. Objects without a
// last-modified timestamp are kept.
func staleExportKeys(objects []minio.ObjectInfo, cutoff time.Time) []string {
	var keys []string
	for _, o := range objects {
		if !o.LastModified.IsZero() && o.LastModified.Before(cutoff) {
			keys = append(keys, o.Key)
		}
	}
	return keys
}
