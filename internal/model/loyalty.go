package model

import "time"

// Video review statuses.
const (
	VideoReviewPending  = "pending"
	VideoReviewApproved = "approved"
	VideoReviewRejected = "rejected"
)

// VideoReviewStatuses is the allow-list served to clients.
var VideoReviewStatuses = []string{
	VideoReviewPending,
	VideoReviewApproved,
	VideoReviewRejected,
}

// VideoPlatforms is the allow-list of platforms a video review may
// be hosted on.
var VideoPlatforms = []string{
	"youtube", "instagram", "tiktok", "facebook", "twitter", "other",
}

// VideoReview is a loyalty-program claim: a customer posts a review
// video on social media and submits the link for approval.
type VideoReview struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	VideoURL    string     `json:"video_url"`
	Description *string    `json:"description,omitempty"`
	Platform    string     `json:"platform"`
	Status      string     `json:"status"`
	AdminNotes  *string    `json:"admin_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// CreateVideoReviewRequest is the DTO for POST /api/loyalty/video-reviews.
type CreateVideoReviewRequest struct {
	VideoURL    string  `json:"video_url" validate:"required,url,max=500"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Platform    string  `json:"platform" validate:"required,oneof=youtube instagram tiktok facebook twitter other"`
}

// UpdateVideoReviewRequest is the DTO for PUT /api/loyalty/video-reviews/:id.
// Only non-nil fields are applied; edits are allowed while the review
// is still pending.
type UpdateVideoReviewRequest struct {
	VideoURL    *string `json:"video_url" validate:"omitempty,url,max=500"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Platform    *string `json:"platform" validate:"omitempty,oneof=youtube instagram tiktok facebook twitter other"`
}

// UpdateVideoReviewStatusRequest is the DTO for the admin status
// endpoint.
type UpdateVideoReviewStatusRequest struct {
	Status     string  `json:"status" validate:"required,oneof=pending approved rejected"`
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=2000"`
}

// VideoReviewFilter narrows video review listings.
type VideoReviewFilter struct {
	Status string
	UserID int64
	Offset int
	Limit  int
}
