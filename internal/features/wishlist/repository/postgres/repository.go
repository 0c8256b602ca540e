package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"wishmanager-backend/internal/features/wishlist/models"
	"wishmanager-backend/internal/features/wishlist/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewWishlistRepository(db *sql.DB) repository.WishlistRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, wishlist *models.Wishlist, owner *models.Membership) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wishlists (id, owner_id, title, description, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		wishlist.ID, wishlist.OwnerID, wishlist.Title, wishlist.Description,
		wishlist.IsPublic, wishlist.CreatedAt, wishlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wishlist: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO memberships (id, user_id, wishlist_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		owner.ID, owner.UserID, owner.WishlistID, owner.Role, owner.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create owner membership: %w", err)
	}

	return tx.Commit()
}

const wishlistColumns = `id, owner_id, title, COALESCE(description, ''), is_public, created_at, updated_at`

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*models.Wishlist, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+wishlistColumns+` FROM wishlists WHERE id = $1`, id)

	wishlist, err := scanWishlist(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	return wishlist, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID string, publicOnly bool) ([]*models.Wishlist, error) {
	query := `SELECT ` + wishlistColumns + ` FROM wishlists WHERE owner_id = $1`
	if publicOnly {
		query += ` AND is_public = true`
	}
	query += ` ORDER BY created_at DESC`
	return r.list(ctx, query, ownerID)
}

func (r *postgresRepository) ListPublic(ctx context.Context) ([]*models.Wishlist, error) {
	return r.list(ctx,
		`SELECT `+wishlistColumns+` FROM wishlists WHERE is_public = true ORDER BY created_at DESC`)
}

func (r *postgresRepository) ListByMember(ctx context.Context, userID string) ([]*models.Wishlist, error) {
	return r.list(ctx, `
		SELECT w.id, w.owner_id, w.title, COALESCE(w.description, ''), w.is_public, w.created_at, w.updated_at
		FROM wishlists w
		JOIN memberships m ON m.wishlist_id = w.id
		WHERE m.user_id = $1
		ORDER BY w.created_at DESC`, userID)
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Wishlist, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlists: %w", err)
	}
	defer rows.Close()

	var wishlists []*models.Wishlist
	for rows.Next() {
		wishlist, err := scanWishlist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist: %w", err)
		}
		wishlists = append(wishlists, wishlist)
	}
	return wishlists, rows.Err()
}

func (r *postgresRepository) AddMembership(ctx context.Context, membership *models.Membership) (bool, error) {
	// The UNIQUE (user_id, wishlist_id) constraint plus DO NOTHING makes
	// this a conditional insert; zero rows means the pair already exists.
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (id, user_id, wishlist_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, wishlist_id) DO NOTHING`,
		membership.ID, membership.UserID, membership.WishlistID, membership.Role, membership.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to add membership: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func (r *postgresRepository) GetMembership(ctx context.Context, wishlistID, userID string) (*models.Membership, error) {
	membership := &models.Membership{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, wishlist_id, role, created_at
		FROM memberships
		WHERE wishlist_id = $1 AND user_id = $2`,
		wishlistID, userID).Scan(
		&membership.ID, &membership.UserID, &membership.WishlistID,
		&membership.Role, &membership.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return membership, nil
}

func (r *postgresRepository) ListMemberships(ctx context.Context, wishlistID string) ([]*models.Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, wishlist_id, role, created_at
		FROM memberships
		WHERE wishlist_id = $1
		ORDER BY created_at ASC`, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.WishlistID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *postgresRepository) DeleteMembership(ctx context.Context, wishlistID, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE wishlist_id = $1 AND user_id = $2`,
		wishlistID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrMembershipNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanWishlist(row scannable) (*models.Wishlist, error) {
	wishlist := &models.Wishlist{}
	err := row.Scan(
		&wishlist.ID, &wishlist.OwnerID, &wishlist.Title, &wishlist.Description,
		&wishlist.IsPublic, &wishlist.CreatedAt, &wishlist.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return wishlist, nil
}
