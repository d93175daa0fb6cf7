// Package services implements the authority's domain logic: negotiating
// upload permissions, product field updates, bulk image deletion, and
// completion bookkeeping.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"shopmedia/internal/common"
	"shopmedia/internal/dbx"
	"shopmedia/internal/logging"
	sc "shopmedia/internal/server/config"
	"shopmedia/internal/server/models"
	"shopmedia/internal/server/repositories/repomanager"
)

// ImageDescriptor is one file of an incoming negotiate batch, as declared
// by the client. Declared values are hints; the object store enforces the
// digest on the actual bytes.
type ImageDescriptor struct {
	CorrelationID string
	Name          string
	MediaType     string
	Size          int64
	DigestSHA256  string
}

// UploadGrant is the authority's answer to one descriptor: the placeholder
// record id plus the presigned target.
type UploadGrant struct {
	CorrelationID string
	ImageID       string
	UploadURL     string
	StoredURL     string
}

// MediaService owns product media state.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	config      *sc.Config
	logger      logging.Logger
}

func NewMediaService(db *sql.DB, repomanager repomanager.RepositoryManager, store ObjectStore, config *sc.Config, logger logging.Logger) *MediaService {
	return &MediaService{
		db:          db,
		repomanager: repomanager,
		store:       store,
		config:      config,
		logger:      logger,
	}
}

// NegotiateUploads exchanges a descriptor batch for an equally long batch
// of grants, in request order. The image-count limit is checked inside the
// same transaction that inserts the placeholder rows, so two concurrent
// batches cannot together push a product over the limit. All or nothing:
// any invalid descriptor or failed presign rejects the whole batch.
func (s *MediaService) NegotiateUploads(ctx context.Context, productID string, descriptors []ImageDescriptor) ([]UploadGrant, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%w: empty batch", common.ErrValidation)
	}
	for i, d := range descriptors {
		if err := validateDescriptor(d); err != nil {
			return nil, fmt.Errorf("file %d (%s): %w", i, d.Name, err)
		}
	}

	grants := make([]UploadGrant, 0, len(descriptors))

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		productRepo := s.repomanager.Products(tx)
		imageRepo := s.repomanager.Images(tx)

		if _, err := productRepo.GetByID(ctx, productID); err != nil {
			return err
		}

		count, err := imageRepo.CountByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if count+len(descriptors) > common.MaxImagesPerProduct {
			return fmt.Errorf("%w: %d existing + %d new exceeds %d",
				common.ErrTooManyImages, count, len(descriptors), common.MaxImagesPerProduct)
		}

		for _, d := range descriptors {
			img := &models.ProductImage{
				ID:           uuid.NewString(),
				ProductID:    productID,
				StorageKey:   StorageKey(productID),
				FileName:     d.Name,
				MediaType:    d.MediaType,
				SizeBytes:    d.Size,
				DigestSHA256: d.DigestSHA256,
				Status:       models.ImageStatusPending,
			}
			if err := imageRepo.Insert(ctx, img); err != nil {
				return err
			}

			url, err := s.store.PresignedPut(ctx, img.StorageKey, d.MediaType, d.DigestSHA256)
			if err != nil {
				return fmt.Errorf("presign %s: %w", d.Name, err)
			}

			grants = append(grants, UploadGrant{
				CorrelationID: d.CorrelationID,
				ImageID:       img.ID,
				UploadURL:     url,
				StoredURL:     s.store.PublicURL(img.StorageKey),
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "issued upload permissions", "product", productID, "count", len(grants))
	return grants, nil
}

func validateDescriptor(d ImageDescriptor) error {
	if d.Name == "" {
		return fmt.Errorf("%w: missing file name", common.ErrValidation)
	}
	if _, ok := common.AllowedMediaTypes[d.MediaType]; !ok {
		return fmt.Errorf("%w: unsupported media type %q", common.ErrValidation, d.MediaType)
	}
	if d.Size <= 0 || d.Size > common.MaxImageSizeBytes {
		return fmt.Errorf("%w: size %d out of range", common.ErrValidation, d.Size)
	}
	if d.DigestSHA256 == "" {
		return fmt.Errorf("%w: missing digest", common.ErrValidation)
	}
	return nil
}

// UpdateProduct applies changed non-image fields.
func (s *MediaService) UpdateProduct(ctx context.Context, productID string, title, description *string, priceCents *int64) error {
	productRepo := s.repomanager.Products(s.db)

	if err := productRepo.UpdateFields(ctx, productID, title, description, priceCents); err != nil {
		return fmt.Errorf("error updating product: %w", err)
	}
	return nil
}

// DeleteImages removes image records in bulk and then drops the stored
// objects. Object deletion is best-effort: a row already gone from the
// database is the durable outcome, an orphaned object only costs storage.
func (s *MediaService) DeleteImages(ctx context.Context, productID string, imageIDs []string) error {
	if len(imageIDs) == 0 {
		return nil
	}

	var keys []string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		keys, err = s.repomanager.Images(tx).DeleteByIDs(ctx, productID, imageIDs)
		return err
	})
	if err != nil {
		return fmt.Errorf("error deleting images: %w", err)
	}

	for _, key := range keys {
		if err := s.store.DeleteObject(ctx, key); err != nil {
			s.logger.Warn(ctx, "orphaned object after image deletion", "key", key, "error", err)
		}
	}

	s.logger.Info(ctx, "deleted images", "product", productID, "count", len(keys))
	return nil
}

// CompleteImage flips a placeholder record to completed once the client
// reports the bytes were delivered.
func (s *MediaService) CompleteImage(ctx context.Context, imageID string) error {
	imageRepo := s.repomanager.Images(s.db)

	if err := imageRepo.MarkCompleted(ctx, imageID); err != nil {
		return fmt.Errorf("error completing image: %w", err)
	}
	return nil
}

// ListImages returns the completed images of a product with their public
// URLs, oldest first.
func (s *MediaService) ListImages(ctx context.Context, productID string) ([]*models.ProductImage, map[string]string, error) {
	imageRepo := s.repomanager.Images(s.db)

	imgs, err := imageRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing images: %w", err)
	}

	urls := make(map[string]string, len(imgs))
	for _, img := range imgs {
		urls[img.ID] = s.store.PublicURL(img.StorageKey)
	}
	return imgs, urls, nil
}
