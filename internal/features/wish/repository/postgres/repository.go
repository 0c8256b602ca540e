package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"wishmanager-backend/internal/features/wish/models"
	"wishmanager-backend/internal/features/wish/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewWishRepository(db *sql.DB) repository.WishRepository {
	return &postgresRepository{db: db}
}

const wishColumns = `id, wishlist_id, name, COALESCE(description, ''), links, status, COALESCE(booked_by, ''), hide_booker_name, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, wish *models.Wish) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wishes (id, wishlist_id, name, description, links, status, hide_booker_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		wish.ID, wish.WishlistID, wish.Name, wish.Description,
		pq.Array(wish.Links), wish.Status, wish.HideBookerName,
		wish.CreatedAt, wish.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wish: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Wish, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+wishColumns+` FROM wishes WHERE id = $1`, id)

	wish, err := scanWish(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wish: %w", err)
	}
	return wish, nil
}

func (r *postgresRepository) ListByWishlist(ctx context.Context, wishlistID string) ([]*models.Wish, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+wishColumns+` FROM wishes WHERE wishlist_id = $1 ORDER BY created_at ASC`,
		wishlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishes: %w", err)
	}
	defer rows.Close()

	var wishes []*models.Wish
	for rows.Next() {
		wish, err := scanWish(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wish: %w", err)
		}
		wishes = append(wishes, wish)
	}
	return wishes, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, wish *models.Wish) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE wishes
		SET name = $2, description = $3, links = $4, updated_at = $5
		WHERE id = $1`,
		wish.ID, wish.Name, wish.Description, pq.Array(wish.Links), wish.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update wish: %w", err)
	}
	return requireRow(result)
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wish: %w", err)
	}
	return requireRow(result)
}

// Book is a compare-and-swap: the status predicate in WHERE makes the row
// update conditional, and RowsAffected reports whether this writer won.
func (r *postgresRepository) Book(ctx context.Context, id, userID string, hideBookerName bool) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE wishes
		SET status = $2, booked_by = $3, hide_booker_name = $4, updated_at = $5
		WHERE id = $1 AND status = $6`,
		id, models.StatusBooked, userID, hideBookerName, time.Now(), models.StatusFree)
	if err != nil {
		return false, fmt.Errorf("failed to book wish: %w", err)
	}
	return rowApplied(result)
}

func (r *postgresRepository) Unbook(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE wishes
		SET status = $2, booked_by = NULL, hide_booker_name = false, updated_at = $3
		WHERE id = $1 AND status = $4`,
		id, models.StatusFree, time.Now(), models.StatusBooked)
	if err != nil {
		return false, fmt.Errorf("failed to unbook wish: %w", err)
	}
	return rowApplied(result)
}

func (r *postgresRepository) SetStatusIf(ctx context.Context, id string, from, to models.WishStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE wishes
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4`,
		id, to, time.Now(), from)
	if err != nil {
		return false, fmt.Errorf("failed to set wish status: %w", err)
	}
	return rowApplied(result)
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func rowApplied(result sql.Result) (bool, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanWish(row scannable) (*models.Wish, error) {
	wish := &models.Wish{}
	err := row.Scan(
		&wish.ID, &wish.WishlistID, &wish.Name, &wish.Description,
		pq.Array(&wish.Links), &wish.Status, &wish.BookedBy,
		&wish.HideBookerName, &wish.CreatedAt, &wish.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return wish, nil
}
