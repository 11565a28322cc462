package service

import (
	"context"

	"github.com/craftstore/backend/internal/model"
)

// VideoReviewRepositoryInterface defines the interface for video
// review data access.
type VideoReviewRepositoryInterface interface {
	Insert(ctx context.Context, v *model.VideoReview) error
	GetByID(ctx context.Context, id int64) (*model.VideoReview, error)
	List(ctx context.Context, f model.VideoReviewFilter) ([]model.VideoReview, error)
	Update(ctx context.Context, id, userID int64, req *model.UpdateVideoReviewRequest) (*model.VideoReview, error)
	UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*model.VideoReview, error)
	Delete(ctx context.Context, id, userID int64) error
}

// LoyaltyService provides business logic for the video review side of
// the loyalty program.
type LoyaltyService struct {
	videoRepo VideoReviewRepositoryInterface
}

// NewLoyaltyService creates a new LoyaltyService with the given
// repository.
func NewLoyaltyService(videoRepo VideoReviewRepositoryInterface) *LoyaltyService {
	return &LoyaltyService{videoRepo: videoRepo}
}

// SubmitVideoReview files a new video review claim; it starts pending
// and waits for moderation.
func (s *LoyaltyService) SubmitVideoReview(ctx context.Context, userID int64, req *model.CreateVideoReviewRequest) (*model.VideoReview, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	review := &model.VideoReview{
		UserID:      userID,
		VideoURL:    req.VideoURL,
		Description: req.Description,
		Platform:    req.Platform,
		Status:      model.VideoReviewPending,
	}
	if err := s.videoRepo.Insert(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// GetVideoReview retrieves one video review.
func (s *LoyaltyService) GetVideoReview(ctx context.Context, id int64) (*model.VideoReview, error) {
	return s.videoRepo.GetByID(ctx, id)
}

// ListVideoReviews returns video reviews matching the filter.
func (s *LoyaltyService) ListVideoReviews(ctx context.Context, f model.VideoReviewFilter) ([]model.VideoReview, error) {
	return s.videoRepo.List(ctx, f)
}

// UpdateVideoReview edits the caller's own claim. Edits are allowed
// only while the claim is still pending.
// Returns ErrVideoReviewLocked once the claim has been moderated.
func (s *LoyaltyService) UpdateVideoReview(ctx context.Context, id, userID int64, req *model.UpdateVideoReviewRequest) (*model.VideoReview, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	existing, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrNotOwner
	}
	if existing.Status != model.VideoReviewPending {
		return nil, ErrVideoReviewLocked
	}
	return s.videoRepo.Update(ctx, id, userID, req)
}

// SetVideoReviewStatus moderates a claim, optionally attaching admin
// notes.
func (s *LoyaltyService) SetVideoReviewStatus(ctx context.Context, id int64, req *model.UpdateVideoReviewStatusRequest) (*model.VideoReview, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	return s.videoRepo.UpdateStatus(ctx, id, req.Status, req.AdminNotes)
}

// DeleteVideoReview withdraws the caller's own pending claim.
func (s *LoyaltyService) DeleteVideoReview(ctx context.Context, id, userID int64) error {
	existing, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrNotOwner
	}
	if existing.Status != model.VideoReviewPending {
		return ErrVideoReviewLocked
	}
	return s.videoRepo.Delete(ctx, id, userID)
}
