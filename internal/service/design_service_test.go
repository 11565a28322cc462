package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/pkg/database"
)

func TestDesignService_Create_Success(t *testing.T) {
	var inserted *model.Design
	repo := &mockDesignRepository{
		insertFn: func(ctx context.Context, d *model.Design) error {
			d.ID = 3
			inserted = d
			return nil
		},
	}

	svc := NewDesignServiceWithTxBeginner(&mockTxBeginner{}, repo)

	design, err := svc.Create(context.Background(), 7, &model.CreateDesignRequest{Title: "Mountain Mug"}, "https://cdn.example.com/designs/mug.png", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(3), design.ID)
	assert.Equal(t, int64(7), design.UserID)
	assert.Equal(t, model.DesignStatusPending, design.Status)
	assert.Equal(t, "https://cdn.example.com/designs/mug.png", design.ImageURL)
	assert.Same(t, inserted, design)
}

func TestDesignService_Create_MissingImage(t *testing.T) {
	svc := NewDesignServiceWithTxBeginner(&mockTxBeginner{}, &mockDesignRepository{})

	design, err := svc.Create(context.Background(), 7, &model.CreateDesignRequest{Title: "Mountain Mug"}, "", nil, nil)

	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.Nil(t, design)
}

func TestDesignService_CastVote_Success(t *testing.T) {
	var upserted *model.DesignVote
	repo := &mockDesignRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Design, error) {
			return &model.Design{ID: id, TotalVotes: 2}, nil
		},
		upsertVoteFn: func(ctx context.Context, tx database.TxQuerier, v *model.DesignVote) error {
			upserted = v
			return nil
		},
		recomputeTotalVotesFn: func(ctx context.Context, tx database.TxQuerier, designID int64) (int, error) {
			return 3, nil
		},
	}
	committed := false
	beginner := &mockTxBeginner{
		beginFn: func(ctx context.Context) (pgx.Tx, error) {
			return &mockTx{commitFn: func(ctx context.Context) error {
				committed = true
				return nil
			}}, nil
		},
	}

	svc := NewDesignServiceWithTxBeginner(beginner, repo)

	design, err := svc.CastVote(context.Background(), 5, 7, model.VoteUp)

	require.NoError(t, err)
	assert.True(t, committed)
	require.NotNil(t, upserted)
	assert.Equal(t, int64(5), upserted.DesignID)
	assert.Equal(t, int64(7), upserted.UserID)
	assert.Equal(t, model.VoteUp, upserted.VoteType)
	// The tally must come from the recompute, not an increment.
	assert.Equal(t, 3, design.TotalVotes)
}

func TestDesignService_CastVote_DesignNotFound(t *testing.T) {
	began := false
	beginner := &mockTxBeginner{
		beginFn: func(ctx context.Context) (pgx.Tx, error) {
			began = true
			return &mockTx{}, nil
		},
	}

	svc := NewDesignServiceWithTxBeginner(beginner, &mockDesignRepository{})

	design, err := svc.CastVote(context.Background(), 5, 7, model.VoteUp)

	assert.True(t, errors.Is(err, ErrDesignNotFound))
	assert.Nil(t, design)
	assert.False(t, began)
}

func TestDesignService_CastVote_RecomputeFails(t *testing.T) {
	recomputeErr := errors.New("recompute failed")
	repo := &mockDesignRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Design, error) {
			return &model.Design{ID: id}, nil
		},
		recomputeTotalVotesFn: func(ctx context.Context, tx database.TxQuerier, designID int64) (int, error) {
			return 0, recomputeErr
		},
	}
	rolledBack := false
	beginner := &mockTxBeginner{
		beginFn: func(ctx context.Context) (pgx.Tx, error) {
			return &mockTx{rollbackFn: func(ctx context.Context) error {
				rolledBack = true
				return nil
			}}, nil
		},
	}

	svc := NewDesignServiceWithTxBeginner(beginner, repo)

	design, err := svc.CastVote(context.Background(), 5, 7, model.VoteDown)

	assert.True(t, errors.Is(err, recomputeErr))
	assert.Nil(t, design)
	assert.True(t, rolledBack)
}

func TestDesignService_RemoveVote_Success(t *testing.T) {
	deleted := false
	repo := &mockDesignRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Design, error) {
			return &model.Design{ID: id, TotalVotes: 1}, nil
		},
		deleteVoteFn: func(ctx context.Context, tx database.TxQuerier, designID, userID int64) error {
			deleted = true
			return nil
		},
		recomputeTotalVotesFn: func(ctx context.Context, tx database.TxQuerier, designID int64) (int, error) {
			return 0, nil
		},
	}

	svc := NewDesignServiceWithTxBeginner(&mockTxBeginner{}, repo)

	design, err := svc.RemoveVote(context.Background(), 5, 7)

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, design.TotalVotes)
}

func TestDesignService_RemoveVote_NoVote(t *testing.T) {
	repo := &mockDesignRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Design, error) {
			return &model.Design{ID: id}, nil
		},
		deleteVoteFn: func(ctx context.Context, tx database.TxQuerier, designID, userID int64) error {
			return ErrVoteNotFound
		},
	}

	svc := NewDesignServiceWithTxBeginner(&mockTxBeginner{}, repo)

	design, err := svc.RemoveVote(context.Background(), 5, 7)

	assert.True(t, errors.Is(err, ErrVoteNotFound))
	assert.Nil(t, design)
}

func TestDesignService_MyVote_NoneIsNotAnError(t *testing.T) {
	repo := &mockDesignRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Design, error) {
			return &model.Design{ID: id}, nil
		},
	}

	svc := NewDesignServiceWithTxBeginner(&mockTxBeginner{}, repo)

	vote, err := svc.MyVote(context.Background(), 5, 7)

	require.NoError(t, err)
	assert.Nil(t, vote)
}

func TestDesignService_VoteSummary(t *testing.T) {
	repo := &mockDesignRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Design, error) {
			return &model.Design{ID: id, TotalVotes: 3}, nil
		},
		voteCountsFn: func(ctx context.Context, designID int64) (int, int, error) {
			return 5, 2, nil
		},
	}

	svc := NewDesignServiceWithTxBeginner(&mockTxBeginner{}, repo)

	summary, err := svc.VoteSummary(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalVotes)
	assert.Equal(t, 5, summary.Upvotes)
	assert.Equal(t, 2, summary.Downvotes)
	assert.Equal(t, 7, summary.TotalVoters)
}
