package model

import "time"

// Review is a product rating with an optional comment and image.
// One review per (user, product) pair, enforced by a database unique
// constraint.
type Review struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	ProductID int64      `json:"product_id"`
	Rating    int        `json:"rating"`
	Comment   *string    `json:"comment,omitempty"`
	ImageURL  *string    `json:"image_url,omitempty"`
	FileName  *string    `json:"file_name,omitempty"`
	FileSize  *int64     `json:"file_size,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CreateReviewRequest is the DTO for POST /api/reviews.
type CreateReviewRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Rating    int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
}

// UpdateReviewRequest is the DTO for PUT /api/reviews/:id. Only
// non-nil fields are applied.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// RatingStats holds the review aggregates for one product.
type RatingStats struct {
	AverageRating *float64 `json:"average_rating"`
	TotalReviews  int      `json:"total_reviews"`
}
