package products

import (
	"context"

	"shopmedia/internal/server/models"
)

type Repository interface {
	// GetByID returns the product or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Product, error)

	// UpdateFields applies the non-nil fields. Passing all nils is a no-op.
	UpdateFields(ctx context.Context, id string, title, description *string, priceCents *int64) error
}
