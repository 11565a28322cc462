package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/internal/service"
)

// LoyaltyServiceInterface defines the interface for video review
// business logic.
type LoyaltyServiceInterface interface {
	SubmitVideoReview(ctx context.Context, userID int64, req *model.CreateVideoReviewRequest) (*model.VideoReview, error)
	GetVideoReview(ctx context.Context, id int64) (*model.VideoReview, error)
	ListVideoReviews(ctx context.Context, f model.VideoReviewFilter) ([]model.VideoReview, error)
	UpdateVideoReview(ctx context.Context, id, userID int64, req *model.UpdateVideoReviewRequest) (*model.VideoReview, error)
	SetVideoReviewStatus(ctx context.Context, id int64, req *model.UpdateVideoReviewStatusRequest) (*model.VideoReview, error)
	DeleteVideoReview(ctx context.Context, id, userID int64) error
}

// CouponServiceInterface defines the interface for coupon business
// logic.
type CouponServiceInterface interface {
	Issue(ctx context.Context, adminID int64, req *model.IssueCouponRequest) (*model.CouponCode, error)
	Validate(ctx context.Context, userID int64, code string) (*model.CouponValidation, error)
	Redeem(ctx context.Context, userID int64, req *model.RedeemCouponRequest) (*model.CouponUsage, error)
	ListMine(ctx context.Context, userID int64) ([]model.CouponCode, error)
	ListAll(ctx context.Context, f model.CouponFilter) ([]model.CouponCode, error)
	Deactivate(ctx context.Context, id int64) error
}

// LoyaltyHandler handles HTTP requests for the loyalty program: video
// reviews and personal coupon codes.
type LoyaltyHandler struct {
	loyalty   LoyaltyServiceInterface
	coupons   CouponServiceInterface
	validator *validator.Validate
}

// NewLoyaltyHandler creates a new LoyaltyHandler with the given
// services and validator.
func NewLoyaltyHandler(loyalty LoyaltyServiceInterface, coupons CouponServiceInterface, v *validator.Validate) *LoyaltyHandler {
	return &LoyaltyHandler{loyalty: loyalty, coupons: coupons, validator: v}
}

// SubmitVideoReview handles POST /api/loyalty/video-reviews.
func (h *LoyaltyHandler) SubmitVideoReview(c *fiber.Ctx) error {
	var req model.CreateVideoReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	userID := currentUserID(c)
	review, err := h.loyalty.SubmitVideoReview(c.Context(), userID, &req)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to submit video review")
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetVideoReview handles GET /api/loyalty/video-reviews/:id.
func (h *LoyaltyHandler) GetVideoReview(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	review, err := h.loyalty.GetVideoReview(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVideoReviewNotFound) {
			return notFound(c, "video review not found")
		}
		log.Error().Err(err).Int64("video_review_id", id).Msg("failed to get video review")
		return internalError(c)
	}
	return c.JSON(review)
}

// ListVideoReviews handles GET /api/loyalty/video-reviews.
func (h *LoyaltyHandler) ListVideoReviews(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	filter := model.VideoReviewFilter{
		Status: c.Query("status"),
		Offset: offset,
		Limit:  limit,
	}
	if c.QueryBool("mine", false) {
		filter.UserID = currentUserID(c)
	}

	reviews, err := h.loyalty.ListVideoReviews(c.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list video reviews")
		return internalError(c)
	}
	return c.JSON(reviews)
}

// UpdateVideoReview handles PUT /api/loyalty/video-reviews/:id.
func (h *LoyaltyHandler) UpdateVideoReview(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.UpdateVideoReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	userID := currentUserID(c)
	review, err := h.loyalty.UpdateVideoReview(c.Context(), id, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoReviewNotFound):
			return notFound(c, "video review not found")
		case errors.Is(err, service.ErrNotOwner):
			return forbidden(c, "not authorized for this video review")
		case errors.Is(err, service.ErrVideoReviewLocked):
			return conflict(c, "video review has already been reviewed")
		}
		log.Error().Err(err).Int64("video_review_id", id).Msg("failed to update video review")
		return internalError(c)
	}
	return c.JSON(review)
}

// SetVideoReviewStatus handles PUT /api/loyalty/video-reviews/:id/status.
func (h *LoyaltyHandler) SetVideoReviewStatus(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.UpdateVideoReviewStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	review, err := h.loyalty.SetVideoReviewStatus(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrVideoReviewNotFound) {
			return notFound(c, "video review not found")
		}
		log.Error().Err(err).Int64("video_review_id", id).Msg("failed to update video review status")
		return internalError(c)
	}
	return c.JSON(review)
}

// DeleteVideoReview handles DELETE /api/loyalty/video-reviews/:id.
func (h *LoyaltyHandler) DeleteVideoReview(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID := currentUserID(c)
	if err := h.loyalty.DeleteVideoReview(c.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrVideoReviewNotFound):
			return notFound(c, "video review not found")
		case errors.Is(err, service.ErrNotOwner):
			return forbidden(c, "not authorized for this video review")
		case errors.Is(err, service.ErrVideoReviewLocked):
			return conflict(c, "video review has already been reviewed")
		}
		log.Error().Err(err).Int64("video_review_id", id).Msg("failed to delete video review")
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VideoReviewStatuses handles GET /api/loyalty/video-review-statuses.
func (h *LoyaltyHandler) VideoReviewStatuses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"statuses": model.VideoReviewStatuses})
}

// Platforms handles GET /api/loyalty/platforms.
func (h *LoyaltyHandler) Platforms(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"platforms": model.VideoPlatforms})
}

// IssueCoupon handles POST /api/loyalty/coupons.
func (h *LoyaltyHandler) IssueCoupon(c *fiber.Ctx) error {
	var req model.IssueCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	adminID := currentUserID(c)
	coupon, err := h.coupons.Issue(c.Context(), adminID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return notFound(c, "user not found")
		case errors.Is(err, service.ErrCodeGeneration):
			log.Error().Err(err).Msg("coupon code generation exhausted retries")
			return internalError(c)
		}
		log.Error().Err(err).Str("user_email", req.UserEmail).Msg("failed to issue coupon")
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// ValidateCoupon handles POST /api/loyalty/coupons/validate. Failures
// are a 200 with valid=false; the response never says why.
func (h *LoyaltyHandler) ValidateCoupon(c *fiber.Ctx) error {
	var req struct {
		Code string `json:"code" validate:"required,notblank"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	userID := currentUserID(c)
	result, err := h.coupons.Validate(c.Context(), userID, req.Code)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to validate coupon")
		return internalError(c)
	}
	return c.JSON(result)
}

// RedeemCoupon handles POST /api/loyalty/coupons/redeem.
func (h *LoyaltyHandler) RedeemCoupon(c *fiber.Ctx) error {
	var req model.RedeemCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	userID := currentUserID(c)
	usage, err := h.coupons.Redeem(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponInvalid):
			return badRequest(c, "invalid or expired coupon code")
		case errors.Is(err, service.ErrOrderNotFound):
			return notFound(c, "order not found")
		case errors.Is(err, service.ErrNotOwner):
			return forbidden(c, "not authorized for this order")
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to redeem coupon")
		return internalError(c)
	}
	return c.JSON(usage)
}

// ListMyCoupons handles GET /api/loyalty/coupons/me.
func (h *LoyaltyHandler) ListMyCoupons(c *fiber.Ctx) error {
	userID := currentUserID(c)
	coupons, err := h.coupons.ListMine(c.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list coupons")
		return internalError(c)
	}
	return c.JSON(coupons)
}

// ListAllCoupons handles GET /api/loyalty/coupons.
func (h *LoyaltyHandler) ListAllCoupons(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	filter := model.CouponFilter{Offset: offset, Limit: limit}
	if c.Query("is_active") != "" {
		active := c.QueryBool("is_active")
		filter.IsActive = &active
	}

	coupons, err := h.coupons.ListAll(c.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list all coupons")
		return internalError(c)
	}
	return c.JSON(coupons)
}

// DeactivateCoupon handles DELETE /api/loyalty/coupons/:id.
func (h *LoyaltyHandler) DeactivateCoupon(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.coupons.Deactivate(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return notFound(c, "coupon not found")
		}
		log.Error().Err(err).Int64("coupon_id", id).Msg("failed to deactivate coupon")
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
