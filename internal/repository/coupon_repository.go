package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/internal/service"
	"github.com/craftstore/backend/pkg/database"
)

// CouponRepository provides data access for coupon codes and their
// usage ledger.
type CouponRepository struct {
	pool Pool
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a CouponRepository with a custom
// pool interface. This is primarily used for testing.
func NewCouponRepositoryWithPool(pool Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `id, code, user_id, discount_percentage, max_uses,
	used_count, is_active, expires_at, created_at, created_by_admin`

func scanCoupon(row pgx.Row) (*model.CouponCode, error) {
	var c model.CouponCode
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.UserID,
		&c.DiscountPercentage,
		&c.MaxUses,
		&c.UsedCount,
		&c.IsActive,
		&c.ExpiresAt,
		&c.CreatedAt,
		&c.CreatedByAdmin,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert persists a new coupon. A unique violation on the code column
// becomes service.ErrDuplicateCode so the generation loop can retry.
func (r *CouponRepository) Insert(ctx context.Context, c *model.CouponCode) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO coupon_codes (code, user_id, discount_percentage, max_uses,
			used_count, is_active, expires_at, created_at, created_by_admin)
		 VALUES ($1, $2, $3, $4, 0, TRUE, $5, NOW(), $6)
		 RETURNING id, created_at`,
		c.Code, c.UserID, c.DiscountPercentage, c.MaxUses, c.ExpiresAt, c.CreatedByAdmin,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return service.ErrDuplicateCode
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	c.UsedCount = 0
	c.IsActive = true
	return nil
}

// GetByCode retrieves a coupon by its code string.
// Returns service.ErrCouponNotFound if it does not exist.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.CouponCode, error) {
	c, err := scanCoupon(r.pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupon_codes WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon by code: %w", err)
	}
	return c, nil
}

// GetForUpdate retrieves a coupon by id with a row lock
// (SELECT FOR UPDATE), serializing concurrent redemptions.
func (r *CouponRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.CouponCode, error) {
	c, err := scanCoupon(tx.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupon_codes WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon for update %d: %w", id, err)
	}
	return c, nil
}

// InsertUsage appends one redemption record inside the caller's
// transaction.
func (r *CouponRepository) InsertUsage(ctx context.Context, tx database.TxQuerier, u *model.CouponUsage) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO coupon_usages (coupon_id, order_id, discount_amount, used_at)
		 VALUES ($1, $2, $3, NOW())
		 RETURNING id, used_at`,
		u.CouponID, u.OrderID, u.DiscountAmount,
	).Scan(&u.ID, &u.UsedAt)
	if err != nil {
		return fmt.Errorf("insert coupon usage: %w", err)
	}
	return nil
}

// IncrementUsage bumps used_count by 1 and flips is_active off in the
// same statement when the ceiling is reached. Must run inside the
// transaction that locked the row.
func (r *CouponRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, id int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE coupon_codes
		 SET used_count = used_count + 1,
		     is_active  = (used_count + 1 < max_uses)
		 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment usage for coupon %d: %w", id, err)
	}
	return nil
}

// ListByUser returns all coupons issued to one user.
func (r *CouponRepository) ListByUser(ctx context.Context, userID int64) ([]model.CouponCode, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+couponColumns+` FROM coupon_codes
		 WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list coupons for user %d: %w", userID, err)
	}
	return collectCoupons(rows)
}

// ListAll returns coupons matching the filter, newest first.
func (r *CouponRepository) ListAll(ctx context.Context, f model.CouponFilter) ([]model.CouponCode, error) {
	query := `SELECT ` + couponColumns + ` FROM coupon_codes`
	args := []any{}
	if f.IsActive != nil {
		query += ` WHERE is_active = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`
		args = append(args, *f.IsActive, f.Offset, f.Limit)
	} else {
		query += ` ORDER BY created_at DESC OFFSET $1 LIMIT $2`
		args = append(args, f.Offset, f.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return collectCoupons(rows)
}

func collectCoupons(rows pgx.Rows) ([]model.CouponCode, error) {
	defer rows.Close()

	coupons := []model.CouponCode{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupons: %w", err)
	}
	return coupons, nil
}

// Deactivate turns a coupon off.
// Returns service.ErrCouponNotFound if nothing was updated.
func (r *CouponRepository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE coupon_codes SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate coupon %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrCouponNotFound
	}
	return nil
}
