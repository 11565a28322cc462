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

// UserServiceInterface defines the interface for profile business
// logic.
type UserServiceInterface interface {
	Profile(ctx context.Context, userID int64) (*model.UserProfile, error)
	Update(ctx context.Context, userID int64, req *model.UpdateUserRequest) (*model.User, error)
}

// UserHandler handles HTTP requests for the account profile.
type UserHandler struct {
	service   UserServiceInterface
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given service and
// validator.
func NewUserHandler(svc UserServiceInterface, v *validator.Validate) *UserHandler {
	return &UserHandler{service: svc, validator: v}
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID := currentUserID(c)
	profile, err := h.service.Profile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return notFound(c, "user not found")
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to load profile")
		return internalError(c)
	}
	return c.JSON(profile)
}

// UpdateMe handles PUT /api/users/me.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req model.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	userID := currentUserID(c)
	user, err := h.service.Update(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return notFound(c, "user not found")
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to update profile")
		return internalError(c)
	}
	return c.JSON(user)
}
