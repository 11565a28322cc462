package service

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering with an email or
	// username that is already in use
	ErrEmailTaken = errors.New("email or username already registered")

	// ErrInvalidCredentials is returned on a failed login or an
	// invalid/expired password reset token
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProductNotFound is returned when a referenced product is absent
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned when an order line asks for more
	// units than the product has in stock
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidCartFormat is returned when a guest cart's parallel
	// comma-separated lists are malformed
	ErrInvalidCartFormat = errors.New("invalid product ids or quantities format")

	// ErrOrderNotFound is returned when a referenced order is absent
	ErrOrderNotFound = errors.New("order not found")

	// ErrNotOwner is returned when a caller acts on a resource that
	// belongs to another user
	ErrNotOwner = errors.New("not authorized for this resource")

	// ErrNotGuestOrder is returned when the guest lookup endpoint is
	// pointed at an order that belongs to a registered user
	ErrNotGuestOrder = errors.New("not a guest order")

	// ErrAlreadyReviewed is returned when a user submits a second
	// review for the same product
	ErrAlreadyReviewed = errors.New("user has already reviewed this product")

	// ErrReviewNotFound is returned when a referenced review is absent
	ErrReviewNotFound = errors.New("review not found")

	// ErrDesignNotFound is returned when a referenced design is absent
	ErrDesignNotFound = errors.New("design not found")

	// ErrVoteNotFound is returned when removing a vote that does not exist
	ErrVoteNotFound = errors.New("no vote found to remove")

	// ErrVideoReviewNotFound is returned when a referenced video review
	// is absent
	ErrVideoReviewNotFound = errors.New("video review not found")

	// ErrVideoReviewLocked is returned when editing a video review that
	// has already been approved or rejected
	ErrVideoReviewLocked = errors.New("video review has already been reviewed")

	// ErrCouponNotFound is returned when a referenced coupon is absent
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponInvalid is the uniform outcome for every failed coupon
	// validation; callers are never told which condition failed
	ErrCouponInvalid = errors.New("invalid or expired coupon code")

	// ErrDuplicateCode signals a unique violation on a generated coupon
	// code; the issuing loop retries with a fresh code
	ErrDuplicateCode = errors.New("coupon code already exists")

	// ErrCodeGeneration is returned when a unique coupon code could not
	// be generated within the attempt budget
	ErrCodeGeneration = errors.New("could not generate a unique coupon code")

	// ErrPaymentProofNotFound is returned when a referenced payment
	// proof is absent
	ErrPaymentProofNotFound = errors.New("payment proof not found")

	// ErrInvalidRequest is returned when request data is invalid or
	// incomplete past the handler validation layer
	ErrInvalidRequest = errors.New("invalid request")
)
