package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/internal/service"
)

// VideoReviewRepository provides data access for loyalty video reviews.
type VideoReviewRepository struct {
	pool Pool
}

// NewVideoReviewRepository creates a new VideoReviewRepository with the
// given pool.
func NewVideoReviewRepository(pool *pgxpool.Pool) *VideoReviewRepository {
	return &VideoReviewRepository{pool: pool}
}

// NewVideoReviewRepositoryWithPool creates a VideoReviewRepository with
// a custom pool interface. This is primarily used for testing.
func NewVideoReviewRepositoryWithPool(pool Pool) *VideoReviewRepository {
	return &VideoReviewRepository{pool: pool}
}

const videoReviewColumns = `id, user_id, video_url, description, platform,
	status, admin_notes, created_at, updated_at`

func scanVideoReview(row pgx.Row) (*model.VideoReview, error) {
	var v model.VideoReview
	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.VideoURL,
		&v.Description,
		&v.Platform,
		&v.Status,
		&v.AdminNotes,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Insert persists a new video review and fills in its generated fields.
func (r *VideoReviewRepository) Insert(ctx context.Context, v *model.VideoReview) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO video_reviews (user_id, video_url, description,
			platform, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, created_at`,
		v.UserID, v.VideoURL, v.Description, v.Platform, v.Status,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert video review: %w", err)
	}
	return nil
}

// GetByID retrieves a video review by id.
// Returns service.ErrVideoReviewNotFound if it does not exist.
func (r *VideoReviewRepository) GetByID(ctx context.Context, id int64) (*model.VideoReview, error) {
	v, err := scanVideoReview(r.pool.QueryRow(ctx,
		`SELECT `+videoReviewColumns+` FROM video_reviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrVideoReviewNotFound
		}
		return nil, fmt.Errorf("get video review %d: %w", id, err)
	}
	return v, nil
}

// List returns video reviews matching the filter, newest first.
func (r *VideoReviewRepository) List(ctx context.Context, f model.VideoReviewFilter) ([]model.VideoReview, error) {
	query := `SELECT ` + videoReviewColumns + ` FROM video_reviews WHERE TRUE`
	args := []any{}
	n := 0

	if f.Status != "" {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, f.Status)
	}
	if f.UserID != 0 {
		n++
		query += fmt.Sprintf(" AND user_id = $%d", n)
		args = append(args, f.UserID)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC OFFSET $%d LIMIT $%d", n+1, n+2)
	args = append(args, f.Offset, f.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list video reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.VideoReview{}
	for rows.Next() {
		v, err := scanVideoReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video review: %w", err)
		}
		reviews = append(reviews, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video reviews: %w", err)
	}
	return reviews, nil
}

// Update applies the non-nil fields of req to the caller's own review
// while it is still pending. Returns service.ErrVideoReviewNotFound if
// no pending row owned by the user matches.
func (r *VideoReviewRepository) Update(ctx context.Context, id, userID int64, req *model.UpdateVideoReviewRequest) (*model.VideoReview, error) {
	v, err := scanVideoReview(r.pool.QueryRow(ctx,
		`UPDATE video_reviews SET
			video_url   = COALESCE($3, video_url),
			description = COALESCE($4, description),
			platform    = COALESCE($5, platform),
			updated_at  = NOW()
		 WHERE id = $1 AND user_id = $2 AND status = 'pending'
		 RETURNING `+videoReviewColumns,
		id, userID, req.VideoURL, req.Description, req.Platform))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrVideoReviewNotFound
		}
		return nil, fmt.Errorf("update video review %d: %w", id, err)
	}
	return v, nil
}

// UpdateStatus sets a video review's moderation status and notes.
// Returns service.ErrVideoReviewNotFound if nothing was updated.
func (r *VideoReviewRepository) UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*model.VideoReview, error) {
	v, err := scanVideoReview(r.pool.QueryRow(ctx,
		`UPDATE video_reviews SET
			status      = $2,
			admin_notes = COALESCE($3, admin_notes),
			updated_at  = NOW()
		 WHERE id = $1 RETURNING `+videoReviewColumns,
		id, status, notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrVideoReviewNotFound
		}
		return nil, fmt.Errorf("update status for video review %d: %w", id, err)
	}
	return v, nil
}

// Delete removes the caller's own pending review.
// Returns service.ErrVideoReviewNotFound if nothing was deleted.
func (r *VideoReviewRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM video_reviews
		 WHERE id = $1 AND user_id = $2 AND status = 'pending'`, id, userID)
	if err != nil {
		return fmt.Errorf("delete video review %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrVideoReviewNotFound
	}
	return nil
}
