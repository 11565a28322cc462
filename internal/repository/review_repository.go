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
)

// ReviewRepository provides data access for product reviews.
type ReviewRepository struct {
	pool Pool
}

// NewReviewRepository creates a new ReviewRepository with the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// NewReviewRepositoryWithPool creates a ReviewRepository with a custom
// pool interface. This is primarily used for testing.
func NewReviewRepositoryWithPool(pool Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, user_id, product_id, rating, comment,
	image_url, file_name, file_size, created_at, updated_at`

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	err := row.Scan(
		&rv.ID,
		&rv.UserID,
		&rv.ProductID,
		&rv.Rating,
		&rv.Comment,
		&rv.ImageURL,
		&rv.FileName,
		&rv.FileSize,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// Insert persists a new review. The UNIQUE(user_id, product_id)
// constraint maps to service.ErrAlreadyReviewed, so concurrent
// submissions cannot both slip past an existence check.
func (r *ReviewRepository) Insert(ctx context.Context, rv *model.Review) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (user_id, product_id, rating, comment,
			image_url, file_name, file_size, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 RETURNING id, created_at`,
		rv.UserID, rv.ProductID, rv.Rating, rv.Comment,
		rv.ImageURL, rv.FileName, rv.FileSize,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return service.ErrAlreadyReviewed
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by id.
// Returns service.ErrReviewNotFound if it does not exist.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review %d: %w", id, err)
	}
	return rv, nil
}

// Update applies the non-nil fields of req to the caller's own review.
// Returns service.ErrReviewNotFound if the row does not exist or
// belongs to another user.
func (r *ReviewRepository) Update(ctx context.Context, id, userID int64, req *model.UpdateReviewRequest) (*model.Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx,
		`UPDATE reviews SET
			rating     = COALESCE($3, rating),
			comment    = COALESCE($4, comment),
			updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+reviewColumns,
		id, userID, req.Rating, req.Comment))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrReviewNotFound
		}
		return nil, fmt.Errorf("update review %d: %w", id, err)
	}
	return rv, nil
}

// SetImage stores the hosted image metadata on a review.
func (r *ReviewRepository) SetImage(ctx context.Context, id int64, imageURL string, fileName *string, fileSize *int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reviews SET image_url = $2, file_name = $3, file_size = $4, updated_at = NOW()
		 WHERE id = $1`,
		id, imageURL, fileName, fileSize)
	if err != nil {
		return fmt.Errorf("set image for review %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrReviewNotFound
	}
	return nil
}

// Delete removes the caller's own review.
// Returns service.ErrReviewNotFound if nothing was deleted.
func (r *ReviewRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrReviewNotFound
	}
	return nil
}

// ListByProduct returns a product's reviews, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64, offset, limit int) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews
		 WHERE product_id = $1 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`, productID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews for product %d: %w", productID, err)
	}
	return collectReviews(rows)
}

// ListByUser returns all reviews written by one user.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews
		 WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for user %d: %w", userID, err)
	}
	return collectReviews(rows)
}

func collectReviews(rows pgx.Rows) ([]model.Review, error) {
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

// RatingStats returns the average rating and review count for a
// product. AverageRating is nil when the product has no reviews.
func (r *ReviewRepository) RatingStats(ctx context.Context, productID int64) (*model.RatingStats, error) {
	var stats model.RatingStats
	err := r.pool.QueryRow(ctx,
		`SELECT AVG(rating), COUNT(*) FROM reviews WHERE product_id = $1`,
		productID).Scan(&stats.AverageRating, &stats.TotalReviews)
	if err != nil {
		return nil, fmt.Errorf("rating stats for product %d: %w", productID, err)
	}
	return &stats, nil
}
