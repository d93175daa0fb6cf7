package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopmedia/internal/common"
	"shopmedia/internal/dbx"
	"shopmedia/internal/server/models"
)

// PostgresRepository implements product storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT id, title, description, price_cents, updated_at FROM products WHERE id=$1`

	result := &models.Product{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&result.ID, &result.Title, &result.Description, &result.PriceCents, &result.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select product: %w", err)
	}
	return result, nil
}

// UpdateFields updates only the provided fields via COALESCE so an omitted
// field keeps its current value. Exactly one row must be affected.
func (r *PostgresRepository) UpdateFields(ctx context.Context, id string, title, description *string, priceCents *int64) error {
	if title == nil && description == nil && priceCents == nil {
		return nil
	}

	query := `
		UPDATE products SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			price_cents = COALESCE($4, price_cents),
			updated_at = now()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, title, description, priceCents)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
