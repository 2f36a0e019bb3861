package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// MinIOService stores posters in any S3-compatible bucket (MinIO, Cloudflare R2, AWS S3).
type MinIOService struct {
	client    *minio.Client
	bucket    string
	publicURL string
	rules     PosterRules
	logger    *logrus.Logger
	now       func() time.Time
}

func NewMinIOService(cfg *config.MinIOConfig, rules PosterRules, logger *logrus.Logger) (*MinIOService, error) {
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
	}).Info("MinIO client initialized successfully")

	service := &MinIOService{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: minioPublicURL(cfg, endpoint),
		rules:     rules,
		logger:    logger,
		now:       time.Now,
	}

	if err := service.ensureBucket(context.Background(), cfg.Region, cfg.SetPublicPolicy); err != nil {
		logger.WithError(err).Warn("Failed to configure bucket, but continuing...")
	}

	return service, nil
}

// minioPublicURL falls back to path-style <scheme>://<endpoint>/<bucket>
// when no public base URL is configured.
func minioPublicURL(cfg *config.MinIOConfig, endpoint string) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL
	}

	protocol := "http://"
	if cfg.UseSSL {
		protocol = "https://"
	}
	return fmt.Sprintf("%s%s/%s", protocol, endpoint, cfg.BucketName)
}

func (s *MinIOService) ensureBucket(ctx context.Context, region string, publicRead bool) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created successfully")
	}

	if !publicRead {
		return nil
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	s.logger.WithField("bucket", s.bucket).Info("Bucket policy set to public read")
	return nil
}

func (s *MinIOService) Upload(ctx context.Context, file *models.PosterFile) (string, error) {
	if err := s.rules.Validate(file); err != nil {
		return "", err
	}

	objectKey := GenerateObjectKey(file.Filename, s.now())

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, file.Content, file.Size, minio.PutObjectOptions{
		ContentType: file.ContentType,
	})
	if err != nil {
		s.logger.WithError(err).WithField("objectKey", objectKey).Error("Failed to upload file")
		return "", &TransportError{Op: "upload poster", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"filename":  file.Filename,
		"objectKey": objectKey,
		"size":      file.Size,
	}).Info("File uploaded successfully to MinIO")

	return publicObjectURL(s.publicURL, objectKey), nil
}

func (s *MinIOService) Delete(ctx context.Context, keyOrURL string) error {
	objectKey := ExtractObjectKey(keyOrURL)

	err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		s.logger.WithError(err).WithField("objectKey", objectKey).Error("Failed to delete file")
		return &TransportError{Op: "delete poster", Err: err}
	}

	s.logger.WithField("objectKey", objectKey).Info("File deleted successfully from MinIO")
	return nil
}
