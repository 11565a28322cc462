package model

import "time"

// Design statuses.
const (
	DesignStatusPending  = "pending"
	DesignStatusApproved = "approved"
	DesignStatusRejected = "rejected"
	DesignStatusFeatured = "featured"
)

// DesignStatuses is the allow-list served to clients.
var DesignStatuses = []string{
	DesignStatusPending,
	DesignStatusApproved,
	DesignStatusRejected,
	DesignStatusFeatured,
}

// Vote types.
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// Design is a user-submitted design proposal. TotalVotes is the
// persisted tally (upvotes minus downvotes), recomputed in full on
// every vote action.
type Design struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	ImageURL    string     `json:"image_url"`
	FileName    *string    `json:"file_name,omitempty"`
	FileSize    *int64     `json:"file_size,omitempty"`
	Status      string     `json:"status"`
	TotalVotes  int        `json:"total_votes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// DesignVote is one user's vote on one design. At most one row per
// (design, user) pair; re-voting overwrites the type in place.
type DesignVote struct {
	ID        int64     `json:"id"`
	DesignID  int64     `json:"design_id"`
	UserID    int64     `json:"user_id"`
	VoteType  string    `json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateDesignRequest carries the metadata of a design upload; the
// image itself arrives as a multipart file.
type CreateDesignRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateDesignRequest is the DTO for PUT /api/designs/:id. Only
// non-nil fields are applied.
type UpdateDesignRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateDesignStatusRequest is the DTO for PUT /api/designs/:id/status.
type UpdateDesignStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected featured"`
}

// CastVoteRequest is the DTO for POST /api/designs/:id/vote.
type CastVoteRequest struct {
	VoteType string `json:"vote_type" validate:"required,oneof=upvote downvote"`
}

// DesignFilter narrows design listings.
type DesignFilter struct {
	Status string
	UserID int64
	Offset int
	Limit  int
}

// VoteSummary is the vote breakdown for one design.
type VoteSummary struct {
	DesignID    int64 `json:"design_id"`
	TotalVotes  int   `json:"total_votes"`
	Upvotes     int   `json:"upvotes"`
	Downvotes   int   `json:"downvotes"`
	TotalVoters int   `json:"total_voters"`
}
