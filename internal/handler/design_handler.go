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

// DesignServiceInterface defines the interface for design business
// logic.
type DesignServiceInterface interface {
	Create(ctx context.Context, userID int64, req *model.CreateDesignRequest, imageURL string, fileName *string, fileSize *int64) (*model.Design, error)
	Get(ctx context.Context, id int64) (*model.Design, error)
	List(ctx context.Context, f model.DesignFilter) ([]model.Design, error)
	Update(ctx context.Context, id, userID int64, req *model.UpdateDesignRequest) (*model.Design, error)
	SetStatus(ctx context.Context, id int64, status string) (*model.Design, error)
	Delete(ctx context.Context, id, userID int64) error
	CastVote(ctx context.Context, designID, userID int64, voteType string) (*model.Design, error)
	RemoveVote(ctx context.Context, designID, userID int64) (*model.Design, error)
	MyVote(ctx context.Context, designID, userID int64) (*model.DesignVote, error)
	VoteSummary(ctx context.Context, designID int64) (*model.VoteSummary, error)
}

// DesignHandler handles HTTP requests for community designs and votes.
type DesignHandler struct {
	service   DesignServiceInterface
	media     MediaUploaderInterface
	validator *validator.Validate
}

// NewDesignHandler creates a new DesignHandler with the given service,
// media client, and validator.
func NewDesignHandler(svc DesignServiceInterface, uploader MediaUploaderInterface, v *validator.Validate) *DesignHandler {
	return &DesignHandler{service: svc, media: uploader, validator: v}
}

// Create handles POST /api/designs. The design image arrives as a
// multipart file alongside the metadata fields.
func (h *DesignHandler) Create(c *fiber.Ctx) error {
	req := model.CreateDesignRequest{Title: c.FormValue("title")}
	if desc := c.FormValue("description"); desc != "" {
		req.Description = &desc
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}
	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}

	result, err := uploadFormImage(c, h.media, file, "designs")
	if err != nil {
		return mediaErrorResponse(c, err)
	}

	fileName := file.Filename
	fileSize := file.Size
	userID := currentUserID(c)
	design, err := h.service.Create(c.Context(), userID, &req, result.URL, &fileName, &fileSize)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to create design")
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(design)
}

// Get handles GET /api/designs/:id.
func (h *DesignHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	design, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDesignNotFound) {
			return notFound(c, "design not found")
		}
		log.Error().Err(err).Int64("design_id", id).Msg("failed to get design")
		return internalError(c)
	}
	return c.JSON(design)
}

// List handles GET /api/designs.
func (h *DesignHandler) List(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	filter := model.DesignFilter{
		Status: c.Query("status"),
		Offset: offset,
		Limit:  limit,
	}
	if c.QueryBool("mine", false) {
		filter.UserID = currentUserID(c)
	}

	designs, err := h.service.List(c.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list designs")
		return internalError(c)
	}
	return c.JSON(designs)
}

// Update handles PUT /api/designs/:id.
func (h *DesignHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.UpdateDesignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	userID := currentUserID(c)
	design, err := h.service.Update(c.Context(), id, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrDesignNotFound) {
			return notFound(c, "design not found")
		}
		log.Error().Err(err).Int64("design_id", id).Msg("failed to update design")
		return internalError(c)
	}
	return c.JSON(design)
}

// UpdateStatus handles PUT /api/designs/:id/status.
func (h *DesignHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.UpdateDesignStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	design, err := h.service.SetStatus(c.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrDesignNotFound) {
			return notFound(c, "design not found")
		}
		log.Error().Err(err).Int64("design_id", id).Msg("failed to update design status")
		return internalError(c)
	}
	return c.JSON(design)
}

// Delete handles DELETE /api/designs/:id.
func (h *DesignHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID := currentUserID(c)
	if err := h.service.Delete(c.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrDesignNotFound) {
			return notFound(c, "design not found")
		}
		log.Error().Err(err).Int64("design_id", id).Msg("failed to delete design")
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CastVote handles POST /api/designs/:id/vote.
func (h *DesignHandler) CastVote(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.CastVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	userID := currentUserID(c)
	design, err := h.service.CastVote(c.Context(), id, userID, req.VoteType)
	if err != nil {
		if errors.Is(err, service.ErrDesignNotFound) {
			return notFound(c, "design not found")
		}
		log.Error().Err(err).Int64("design_id", id).Msg("failed to cast vote")
		return internalError(c)
	}
	return c.JSON(design)
}

// RemoveVote handles DELETE /api/designs/:id/vote.
func (h *DesignHandler) RemoveVote(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID := currentUserID(c)
	design, err := h.service.RemoveVote(c.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDesignNotFound):
			return notFound(c, "design not found")
		case errors.Is(err, service.ErrVoteNotFound):
			return notFound(c, "no vote found to remove")
		}
		log.Error().Err(err).Int64("design_id", id).Msg("failed to remove vote")
		return internalError(c)
	}
	return c.JSON(design)
}

// MyVote handles GET /api/designs/:id/vote.
func (h *DesignHandler) MyVote(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID := currentUserID(c)
	vote, err := h.service.MyVote(c.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrDesignNotFound) {
			return notFound(c, "design not found")
		}
		log.Error().Err(err).Int64("design_id", id).Msg("failed to get vote")
		return internalError(c)
	}
	if vote == nil {
		return c.JSON(fiber.Map{"vote": nil})
	}
	return c.JSON(fiber.Map{"vote": vote})
}

// VoteSummary handles GET /api/designs/:id/votes.
func (h *DesignHandler) VoteSummary(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	summary, err := h.service.VoteSummary(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDesignNotFound) {
			return notFound(c, "design not found")
		}
		log.Error().Err(err).Int64("design_id", id).Msg("failed to get vote summary")
		return internalError(c)
	}
	return c.JSON(summary)
}

// Statuses handles GET /api/designs/statuses.
func (h *DesignHandler) Statuses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"statuses": model.DesignStatuses})
}
