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

// ReviewServiceInterface defines the interface for review business
// logic.
type ReviewServiceInterface interface {
	Create(ctx context.Context, userID int64, req *model.CreateReviewRequest) (*model.Review, error)
	AttachImage(ctx context.Context, id, userID int64, imageURL string, fileName *string, fileSize *int64) (*model.Review, error)
	Get(ctx context.Context, id int64) (*model.Review, error)
	Update(ctx context.Context, id, userID int64, req *model.UpdateReviewRequest) (*model.Review, error)
	Delete(ctx context.Context, id, userID int64) error
	ListForProduct(ctx context.Context, productID int64, offset, limit int) ([]model.Review, error)
	ListMine(ctx context.Context, userID int64) ([]model.Review, error)
}

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	service   ReviewServiceInterface
	media     MediaUploaderInterface
	validator *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler with the given service,
// media client, and validator.
func NewReviewHandler(svc ReviewServiceInterface, uploader MediaUploaderInterface, v *validator.Validate) *ReviewHandler {
	return &ReviewHandler{service: svc, media: uploader, validator: v}
}

// Create handles POST /api/reviews.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req model.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	userID := currentUserID(c)
	review, err := h.service.Create(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return notFound(c, "product not found")
		case errors.Is(err, service.ErrAlreadyReviewed):
			return conflict(c, "you have already reviewed this product")
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to create review")
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// UploadImage handles POST /api/reviews/:id/image.
func (h *ReviewHandler) UploadImage(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}

	result, err := uploadFormImage(c, h.media, file, "reviews")
	if err != nil {
		return mediaErrorResponse(c, err)
	}

	fileName := file.Filename
	fileSize := file.Size
	userID := currentUserID(c)
	review, err := h.service.AttachImage(c.Context(), id, userID, result.URL, &fileName, &fileSize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			return notFound(c, "review not found")
		case errors.Is(err, service.ErrNotOwner):
			return forbidden(c, "not authorized for this review")
		}
		log.Error().Err(err).Int64("review_id", id).Msg("failed to attach review image")
		return internalError(c)
	}
	return c.JSON(review)
}

// ListForProduct handles GET /api/reviews/product/:id.
func (h *ReviewHandler) ListForProduct(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	offset, limit := pagination(c)

	reviews, err := h.service.ListForProduct(c.Context(), id, offset, limit)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return notFound(c, "product not found")
		}
		log.Error().Err(err).Int64("product_id", id).Msg("failed to list reviews")
		return internalError(c)
	}
	return c.JSON(reviews)
}

// ListMine handles GET /api/reviews/me.
func (h *ReviewHandler) ListMine(c *fiber.Ctx) error {
	userID := currentUserID(c)
	reviews, err := h.service.ListMine(c.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list own reviews")
		return internalError(c)
	}
	return c.JSON(reviews)
}

// Update handles PUT /api/reviews/:id.
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	userID := currentUserID(c)
	review, err := h.service.Update(c.Context(), id, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			return notFound(c, "review not found")
		}
		log.Error().Err(err).Int64("review_id", id).Msg("failed to update review")
		return internalError(c)
	}
	return c.JSON(review)
}

// Delete handles DELETE /api/reviews/:id.
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID := currentUserID(c)
	if err := h.service.Delete(c.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			return notFound(c, "review not found")
		}
		log.Error().Err(err).Int64("review_id", id).Msg("failed to delete review")
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
