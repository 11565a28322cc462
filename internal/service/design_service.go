package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/pkg/database"
)

// DesignRepositoryInterface defines the interface for design and vote
// data access.
type DesignRepositoryInterface interface {
	Insert(ctx context.Context, d *model.Design) error
	GetByID(ctx context.Context, id int64) (*model.Design, error)
	List(ctx context.Context, f model.DesignFilter) ([]model.Design, error)
	Update(ctx context.Context, id, userID int64, req *model.UpdateDesignRequest) (*model.Design, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*model.Design, error)
	Delete(ctx context.Context, id, userID int64) error
	UpsertVote(ctx context.Context, tx database.TxQuerier, v *model.DesignVote) error
	DeleteVote(ctx context.Context, tx database.TxQuerier, designID, userID int64) error
	RecomputeTotalVotes(ctx context.Context, tx database.TxQuerier, designID int64) (int, error)
	GetUserVote(ctx context.Context, designID, userID int64) (*model.DesignVote, error)
	VoteCounts(ctx context.Context, designID int64) (up, down int, err error)
}

// DesignService provides business logic for community designs and
// their voting.
type DesignService struct {
	pool       database.TxBeginner
	designRepo DesignRepositoryInterface
}

// NewDesignService creates a new DesignService with the given pool and
// repository.
func NewDesignService(pool *pgxpool.Pool, designRepo DesignRepositoryInterface) *DesignService {
	return &DesignService{pool: pool, designRepo: designRepo}
}

// NewDesignServiceWithTxBeginner creates a DesignService with a custom
// TxBeginner. Primarily used for testing.
func NewDesignServiceWithTxBeginner(pool database.TxBeginner, designRepo DesignRepositoryInterface) *DesignService {
	return &DesignService{pool: pool, designRepo: designRepo}
}

// Create submits a new design with its already-uploaded image.
func (s *DesignService) Create(ctx context.Context, userID int64, req *model.CreateDesignRequest, imageURL string, fileName *string, fileSize *int64) (*model.Design, error) {
	if req == nil || imageURL == "" {
		return nil, ErrInvalidRequest
	}
	design := &model.Design{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    imageURL,
		FileName:    fileName,
		FileSize:    fileSize,
		Status:      model.DesignStatusPending,
	}
	if err := s.designRepo.Insert(ctx, design); err != nil {
		return nil, err
	}
	return design, nil
}

// Get retrieves one design.
func (s *DesignService) Get(ctx context.Context, id int64) (*model.Design, error) {
	return s.designRepo.GetByID(ctx, id)
}

// List returns designs matching the filter.
func (s *DesignService) List(ctx context.Context, f model.DesignFilter) ([]model.Design, error) {
	return s.designRepo.List(ctx, f)
}

// Update edits the caller's own design.
func (s *DesignService) Update(ctx context.Context, id, userID int64, req *model.UpdateDesignRequest) (*model.Design, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	return s.designRepo.Update(ctx, id, userID, req)
}

// SetStatus moves a design through moderation.
func (s *DesignService) SetStatus(ctx context.Context, id int64, status string) (*model.Design, error) {
	return s.designRepo.UpdateStatus(ctx, id, status)
}

// Delete removes the caller's own design.
func (s *DesignService) Delete(ctx context.Context, id, userID int64) error {
	return s.designRepo.Delete(ctx, id, userID)
}

// CastVote records or changes one user's vote on a design, then
// recomputes the design's tally from scratch inside the same
// transaction. Voting twice with the same type is a no-op at the tally
// level; voting with the other type flips the prior vote.
// Returns ErrDesignNotFound if the design is absent.
func (s *DesignService) CastVote(ctx context.Context, designID, userID int64, voteType string) (*model.Design, error) {
	design, err := s.designRepo.GetByID(ctx, designID)
	if err != nil {
		return nil, err
	}

	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		vote := &model.DesignVote{
			DesignID: designID,
			UserID:   userID,
			VoteType: voteType,
		}
		if err := s.designRepo.UpsertVote(ctx, tx, vote); err != nil {
			return err
		}
		total, err := s.designRepo.RecomputeTotalVotes(ctx, tx, designID)
		if err != nil {
			return err
		}
		design.TotalVotes = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return design, nil
}

// RemoveVote deletes the caller's vote and recomputes the tally in the
// same transaction.
// Returns ErrVoteNotFound when the user had no vote to remove.
func (s *DesignService) RemoveVote(ctx context.Context, designID, userID int64) (*model.Design, error) {
	design, err := s.designRepo.GetByID(ctx, designID)
	if err != nil {
		return nil, err
	}

	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.designRepo.DeleteVote(ctx, tx, designID, userID); err != nil {
			return err
		}
		total, err := s.designRepo.RecomputeTotalVotes(ctx, tx, designID)
		if err != nil {
			return err
		}
		design.TotalVotes = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return design, nil
}

// MyVote returns the caller's vote on a design, or nil when they have
// not voted.
func (s *DesignService) MyVote(ctx context.Context, designID, userID int64) (*model.DesignVote, error) {
	if _, err := s.designRepo.GetByID(ctx, designID); err != nil {
		return nil, err
	}
	return s.designRepo.GetUserVote(ctx, designID, userID)
}

// VoteSummary returns the vote breakdown for a design.
func (s *DesignService) VoteSummary(ctx context.Context, designID int64) (*model.VoteSummary, error) {
	design, err := s.designRepo.GetByID(ctx, designID)
	if err != nil {
		return nil, err
	}
	up, down, err := s.designRepo.VoteCounts(ctx, designID)
	if err != nil {
		return nil, err
	}
	return &model.VoteSummary{
		DesignID:    designID,
		TotalVotes:  design.TotalVotes,
		Upvotes:     up,
		Downvotes:   down,
		TotalVoters: up + down,
	}, nil
}
