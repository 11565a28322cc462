package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/internal/service"
	"github.com/craftstore/backend/pkg/database"
)

// DesignRepository provides data access for designs and their votes.
type DesignRepository struct {
	pool Pool
}

// NewDesignRepository creates a new DesignRepository with the given pool.
func NewDesignRepository(pool *pgxpool.Pool) *DesignRepository {
	return &DesignRepository{pool: pool}
}

// NewDesignRepositoryWithPool creates a DesignRepository with a custom
// pool interface. This is primarily used for testing.
func NewDesignRepositoryWithPool(pool Pool) *DesignRepository {
	return &DesignRepository{pool: pool}
}

const designColumns = `id, user_id, title, description, image_url,
	file_name, file_size, status, total_votes, created_at, updated_at`

func scanDesign(row pgx.Row) (*model.Design, error) {
	var d model.Design
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Title,
		&d.Description,
		&d.ImageURL,
		&d.FileName,
		&d.FileSize,
		&d.Status,
		&d.TotalVotes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Insert persists a new design and fills in its generated fields.
func (r *DesignRepository) Insert(ctx context.Context, d *model.Design) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO designs (user_id, title, description, image_url,
			file_name, file_size, status, total_votes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, NOW())
		 RETURNING id, created_at`,
		d.UserID, d.Title, d.Description, d.ImageURL,
		d.FileName, d.FileSize, d.Status,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert design: %w", err)
	}
	return nil
}

// GetByID retrieves a design by id.
// Returns service.ErrDesignNotFound if it does not exist.
func (r *DesignRepository) GetByID(ctx context.Context, id int64) (*model.Design, error) {
	d, err := scanDesign(r.pool.QueryRow(ctx,
		`SELECT `+designColumns+` FROM designs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrDesignNotFound
		}
		return nil, fmt.Errorf("get design %d: %w", id, err)
	}
	return d, nil
}

// List returns designs matching the filter, newest first.
func (r *DesignRepository) List(ctx context.Context, f model.DesignFilter) ([]model.Design, error) {
	query := `SELECT ` + designColumns + ` FROM designs WHERE TRUE`
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
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	designs := []model.Design{}
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate designs: %w", err)
	}
	return designs, nil
}

// Update applies the non-nil fields of req to the caller's own design.
// Returns service.ErrDesignNotFound if the row does not exist or
// belongs to another user.
func (r *DesignRepository) Update(ctx context.Context, id, userID int64, req *model.UpdateDesignRequest) (*model.Design, error) {
	d, err := scanDesign(r.pool.QueryRow(ctx,
		`UPDATE designs SET
			title       = COALESCE($3, title),
			description = COALESCE($4, description),
			updated_at  = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+designColumns,
		id, userID, req.Title, req.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrDesignNotFound
		}
		return nil, fmt.Errorf("update design %d: %w", id, err)
	}
	return d, nil
}

// UpdateStatus sets a design's status.
// Returns service.ErrDesignNotFound if nothing was updated.
func (r *DesignRepository) UpdateStatus(ctx context.Context, id int64, status string) (*model.Design, error) {
	d, err := scanDesign(r.pool.QueryRow(ctx,
		`UPDATE designs SET status = $2, updated_at = NOW()
		 WHERE id = $1 RETURNING `+designColumns, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrDesignNotFound
		}
		return nil, fmt.Errorf("update status for design %d: %w", id, err)
	}
	return d, nil
}

// Delete removes the caller's own design.
// Returns service.ErrDesignNotFound if nothing was deleted.
func (r *DesignRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM designs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete design %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrDesignNotFound
	}
	return nil
}

// UpsertVote records a vote inside the caller's transaction. Re-voting
// overwrites the prior vote type via the UNIQUE(design_id, user_id)
// constraint.
func (r *DesignRepository) UpsertVote(ctx context.Context, tx database.TxQuerier, v *model.DesignVote) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO design_votes (design_id, user_id, vote_type, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (design_id, user_id) DO UPDATE SET vote_type = EXCLUDED.vote_type
		 RETURNING id, created_at`,
		v.DesignID, v.UserID, v.VoteType,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	return nil
}

// DeleteVote removes one user's vote inside the caller's transaction.
// Returns service.ErrVoteNotFound if there was nothing to remove.
func (r *DesignRepository) DeleteVote(ctx context.Context, tx database.TxQuerier, designID, userID int64) error {
	tag, err := tx.Exec(ctx,
		`DELETE FROM design_votes WHERE design_id = $1 AND user_id = $2`,
		designID, userID)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrVoteNotFound
	}
	return nil
}

// RecomputeTotalVotes re-aggregates a design's tally from all of its
// votes (upvotes minus downvotes) and persists it. Must run in the
// same transaction as the vote mutation it follows.
func (r *DesignRepository) RecomputeTotalVotes(ctx context.Context, tx database.TxQuerier, designID int64) (int, error) {
	var total int
	err := tx.QueryRow(ctx,
		`UPDATE designs SET total_votes = (
			SELECT COALESCE(SUM(CASE vote_type WHEN 'upvote' THEN 1 ELSE -1 END), 0)
			FROM design_votes WHERE design_id = $1
		 )
		 WHERE id = $1
		 RETURNING total_votes`, designID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrDesignNotFound
		}
		return 0, fmt.Errorf("recompute votes for design %d: %w", designID, err)
	}
	return total, nil
}

// GetUserVote returns one user's vote on a design, or nil when the
// user has not voted.
func (r *DesignRepository) GetUserVote(ctx context.Context, designID, userID int64) (*model.DesignVote, error) {
	var v model.DesignVote
	err := r.pool.QueryRow(ctx,
		`SELECT id, design_id, user_id, vote_type, created_at
		 FROM design_votes WHERE design_id = $1 AND user_id = $2`,
		designID, userID).Scan(&v.ID, &v.DesignID, &v.UserID, &v.VoteType, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no vote yet - let service handle
		}
		return nil, fmt.Errorf("get vote for design %d: %w", designID, err)
	}
	return &v, nil
}

// VoteCounts returns the up/down breakdown for a design.
func (r *DesignRepository) VoteCounts(ctx context.Context, designID int64) (up, down int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE vote_type = 'upvote'),
			COUNT(*) FILTER (WHERE vote_type = 'downvote')
		 FROM design_votes WHERE design_id = $1`, designID).Scan(&up, &down)
	if err != nil {
		return 0, 0, fmt.Errorf("vote counts for design %d: %w", designID, err)
	}
	return up, down, nil
}
