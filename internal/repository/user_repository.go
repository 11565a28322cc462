package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/internal/service"
)

// UserRepository provides data access for user accounts.
type UserRepository struct {
	pool Pool
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a UserRepository with a custom
// pool interface. This is primarily used for testing.
func NewUserRepositoryWithPool(pool Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, username, hashed_password, full_name, phone,
	address, is_active, is_verified, reset_token, reset_token_expires,
	created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.HashedPassword,
		&u.FullName,
		&u.Phone,
		&u.Address,
		&u.IsActive,
		&u.IsVerified,
		&u.ResetToken,
		&u.ResetTokenExpires,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert persists a new user and fills in its generated fields.
// Returns service.ErrEmailTaken when the email or username collides
// with an existing account.
func (r *UserRepository) Insert(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, username, hashed_password, full_name,
			phone, address, is_active, is_verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, FALSE, NOW())
		 RETURNING id, created_at`,
		u.Email, u.Username, u.HashedPassword, u.FullName, u.Phone, u.Address,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return service.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email.
// Returns service.ErrUserNotFound if no account matches.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by id.
// Returns service.ErrUserNotFound if no account matches.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// Update applies the non-nil fields of req to a user's profile.
// Returns service.ErrUserNotFound if nothing was updated.
func (r *UserRepository) Update(ctx context.Context, id int64, req *model.UpdateUserRequest) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET
			full_name  = COALESCE($2, full_name),
			phone      = COALESCE($3, phone),
			address    = COALESCE($4, address),
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, req.FullName, req.Phone, req.Address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return u, nil
}

// SetResetToken stores a password-reset token and its expiry.
// Returns service.ErrUserNotFound if nothing was updated.
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET reset_token = $2, reset_token_expires = $3, updated_at = NOW()
		 WHERE id = $1`, id, token, expires)
	if err != nil {
		return fmt.Errorf("set reset token for user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

// GetByResetToken retrieves the user holding an unexpired reset token.
// Returns service.ErrUserNotFound if the token is unknown or expired.
func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE reset_token = $1 AND reset_token_expires > NOW()`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}
	return u, nil
}

// SetPassword replaces a user's password hash and clears any pending
// reset token in the same statement.
func (r *UserRepository) SetPassword(ctx context.Context, id int64, hashed string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET hashed_password = $2, reset_token = NULL,
			reset_token_expires = NULL, updated_at = NOW()
		 WHERE id = $1`, id, hashed)
	if err != nil {
		return fmt.Errorf("set password for user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

// CountOrders returns the number of orders placed by a user.
func (r *UserRepository) CountOrders(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders for user %d: %w", id, err)
	}
	return n, nil
}
