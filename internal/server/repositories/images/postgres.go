package images

import (
	"context"
	"fmt"
	"strings"

	"shopmedia/internal/common"
	"shopmedia/internal/dbx"
	"shopmedia/internal/server/models"
)

// PostgresRepository implements image-record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountByProduct(ctx context.Context, productID string) (int, error) {
	query := `SELECT COUNT(*) FROM product_images WHERE product_id=$1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, img *models.ProductImage) error {
	query := `
		INSERT INTO product_images (id, product_id, storage_key, file_name, media_type, size_bytes, sha256, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		img.ID, img.ProductID, img.StorageKey, img.FileName, img.MediaType,
		img.SizeBytes, img.DigestSHA256, img.Status)
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `UPDATE product_images SET status='completed' WHERE id=$1 AND status='pending'`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark completed: %w", err)
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

// DeleteByIDs deletes the listed rows of one product and returns their
// storage keys. Ids belonging to other products are silently skipped; the
// product scoping keeps a stale id from deleting someone else's image.
func (r *PostgresRepository) DeleteByIDs(ctx context.Context, productID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, productID)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	query := fmt.Sprintf(
		`DELETE FROM product_images WHERE product_id=$1 AND id IN (%s) RETURNING storage_key`,
		strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete images: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *PostgresRepository) ListByProduct(ctx context.Context, productID string) ([]*models.ProductImage, error) {
	query := `
		SELECT id, product_id, storage_key, file_name, media_type, size_bytes, sha256, status, created_at
		FROM product_images
		WHERE product_id=$1 AND status='completed'
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to select images: %w", err)
	}
	defer rows.Close()

	var result []*models.ProductImage
	for rows.Next() {
		var item models.ProductImage
		if err := rows.Scan(&item.ID, &item.ProductID, &item.StorageKey, &item.FileName,
			&item.MediaType, &item.SizeBytes, &item.DigestSHA256, &item.Status, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
