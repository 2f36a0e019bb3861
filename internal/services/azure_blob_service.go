package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/models"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/sirupsen/logrus"
)

// AzureBlobService stores posters in an Azure Blob Storage container.
type AzureBlobService struct {
	client    *azblob.Client
	container string
	publicURL string
	rules     PosterRules
	logger    *logrus.Logger
	now       func() time.Time
}

func NewAzureBlobService(cfg *config.AzureConfig, rules PosterRules, logger *logrus.Logger) (*AzureBlobService, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure Blob client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = strings.TrimRight(client.URL(), "/") + "/" + cfg.ContainerName
	}

	logger.WithField("container", cfg.ContainerName).Info("Azure Blob client initialized successfully")

	service := &AzureBlobService{
		client:    client,
		container: cfg.ContainerName,
		publicURL: publicURL,
		rules:     rules,
		logger:    logger,
		now:       time.Now,
	}

	if err := service.ensureContainer(context.Background()); err != nil {
		logger.WithError(err).Warn("Failed to create container, but continuing...")
	}

	return service, nil
}

func (s *AzureBlobService) ensureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("failed to create container: %w", err)
	}

	s.logger.WithField("container", s.container).Info("Storage container ready")
	return nil
}

func (s *AzureBlobService) Upload(ctx context.Context, file *models.PosterFile) (string, error) {
	if err := s.rules.Validate(file); err != nil {
		return "", err
	}

	blobName := GenerateObjectKey(file.Filename, s.now())
	contentType := file.ContentType

	_, err := s.client.UploadStream(ctx, s.container, blobName, file.Content, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	})
	if err != nil {
		s.logger.WithError(err).WithField("blob", blobName).Error("Failed to upload blob")
		return "", &TransportError{Op: "upload poster", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"filename": file.Filename,
		"blob":     blobName,
		"size":     file.Size,
	}).Info("Blob uploaded successfully")

	return publicObjectURL(s.publicURL, blobName), nil
}

func (s *AzureBlobService) Delete(ctx context.Context, keyOrURL string) error {
	blobName := ExtractObjectKey(keyOrURL)

	_, err := s.client.DeleteBlob(ctx, s.container, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil
		}
		s.logger.WithError(err).WithField("blob", blobName).Error("Failed to delete blob")
		return &TransportError{Op: "delete poster", Err: err}
	}

	s.logger.WithField("blob", blobName).Info("Blob deleted successfully")
	return nil
}
