package service

import (
	"context"

	"github.com/craftstore/backend/internal/model"
)

// ReviewRepositoryInterface defines the interface for review data
// access.
type ReviewRepositoryInterface interface {
	Insert(ctx context.Context, rv *model.Review) error
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	Update(ctx context.Context, id, userID int64, req *model.UpdateReviewRequest) (*model.Review, error)
	SetImage(ctx context.Context, id int64, imageURL string, fileName *string, fileSize *int64) error
	Delete(ctx context.Context, id, userID int64) error
	ListByProduct(ctx context.Context, productID int64, offset, limit int) ([]model.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Review, error)
}

// ProductGetterInterface is the slice of product access reviews need.
type ProductGetterInterface interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// ReviewService provides business logic for product reviews.
type ReviewService struct {
	reviewRepo  ReviewRepositoryInterface
	productRepo ProductGetterInterface
}

// NewReviewService creates a new ReviewService with the given
// repositories.
func NewReviewService(reviewRepo ReviewRepositoryInterface, productRepo ProductGetterInterface) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

// Create submits a review for a product. The one-review-per-user rule
// is enforced by the database unique constraint, not a pre-check read.
// Returns:
//   - ErrProductNotFound if the product is absent
//   - ErrAlreadyReviewed if the user already reviewed this product
func (s *ReviewService) Create(ctx context.Context, userID int64, req *model.CreateReviewRequest) (*model.Review, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if _, err := s.productRepo.GetByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	review := &model.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviewRepo.Insert(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// AttachImage sets an uploaded image on the caller's review.
func (s *ReviewService) AttachImage(ctx context.Context, id, userID int64, imageURL string, fileName *string, fileSize *int64) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrNotOwner
	}
	if err := s.reviewRepo.SetImage(ctx, id, imageURL, fileName, fileSize); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByID(ctx, id)
}

// Get retrieves one review.
func (s *ReviewService) Get(ctx context.Context, id int64) (*model.Review, error) {
	return s.reviewRepo.GetByID(ctx, id)
}

// Update edits the caller's own review.
// Returns ErrReviewNotFound if the review is absent or owned by
// another user.
func (s *ReviewService) Update(ctx context.Context, id, userID int64, req *model.UpdateReviewRequest) (*model.Review, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	return s.reviewRepo.Update(ctx, id, userID, req)
}

// Delete removes the caller's own review.
func (s *ReviewService) Delete(ctx context.Context, id, userID int64) error {
	return s.reviewRepo.Delete(ctx, id, userID)
}

// ListForProduct returns a product's reviews, newest first.
func (s *ReviewService) ListForProduct(ctx context.Context, productID int64, offset, limit int) ([]model.Review, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByProduct(ctx, productID, offset, limit)
}

// ListMine returns the caller's reviews, newest first.
func (s *ReviewService) ListMine(ctx context.Context, userID int64) ([]model.Review, error) {
	return s.reviewRepo.ListByUser(ctx, userID)
}
