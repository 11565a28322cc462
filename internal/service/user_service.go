package service

import (
	"context"

	"github.com/craftstore/backend/internal/model"
)

// UserRepositoryInterface defines the interface for user profile data
// access.
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, id int64, req *model.UpdateUserRequest) (*model.User, error)
	CountOrders(ctx context.Context, id int64) (int, error)
}

// UserReviewsInterface is the slice of review access a profile needs.
type UserReviewsInterface interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Review, error)
}

// UserService provides business logic for account profiles.
type UserService struct {
	userRepo   UserRepositoryInterface
	reviewRepo UserReviewsInterface
}

// NewUserService creates a new UserService with the given
// repositories.
func NewUserService(userRepo UserRepositoryInterface, reviewRepo UserReviewsInterface) *UserService {
	return &UserService{userRepo: userRepo, reviewRepo: reviewRepo}
}

// Profile returns the user together with their activity aggregates.
func (s *UserService) Profile(ctx context.Context, userID int64) (*model.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	orders, err := s.userRepo.CountOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.UserProfile{
		User:        *user,
		TotalOrders: orders,
		Reviews:     reviews,
	}, nil
}

// Update applies profile edits for the caller.
func (s *UserService) Update(ctx context.Context, userID int64, req *model.UpdateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	return s.userRepo.Update(ctx, userID, req)
}
