package images

import (
	"context"

	"shopmedia/internal/server/models"
)

type Repository interface {
	// CountByProduct returns how many image rows (pending or completed)
	// the product currently holds.
	CountByProduct(ctx context.Context, productID string) (int, error)

	// Insert creates a placeholder row.
	Insert(ctx context.Context, img *models.ProductImage) error

	// MarkCompleted flips a pending row to completed. Returns
	// common.ErrNotFound when no such row exists.
	MarkCompleted(ctx context.Context, id string) error

	// DeleteByIDs removes rows of the product and returns the storage
	// keys of the deleted rows so callers can drop the objects too.
	DeleteByIDs(ctx context.Context, productID string, ids []string) ([]string, error)

	// ListByProduct returns the product's completed images, oldest first.
	ListByProduct(ctx context.Context, productID string) ([]*models.ProductImage, error)
}
