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

// AuthServiceInterface defines the interface for authentication
// business logic.
type AuthServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service   AuthServiceInterface
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given service and
// validator.
func NewAuthHandler(svc AuthServiceInterface, v *validator.Validate) *AuthHandler {
	return &AuthHandler{service: svc, validator: v}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	user, err := h.service.Register(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return conflict(c, "email or username already registered")
		}
		log.Error().Err(err).Str("email", req.Email).Msg("failed to register user")
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	token, err := h.service.Login(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
		}
		log.Error().Err(err).Msg("failed to log in user")
		return internalError(c)
	}
	return c.JSON(token)
}

// ForgotPassword handles POST /api/auth/forgot-password. The response
// is the same whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req model.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	if _, err := h.service.ForgotPassword(c.Context(), req.Email); err != nil {
		log.Error().Err(err).Msg("failed to process password reset request")
		return internalError(c)
	}
	return c.JSON(fiber.Map{"message": "if the email exists, a reset link has been sent"})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req model.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	if err := h.service.ResetPassword(c.Context(), &req); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return badRequest(c, "invalid or expired reset token")
		}
		log.Error().Err(err).Msg("failed to reset password")
		return internalError(c)
	}
	return c.JSON(fiber.Map{"message": "password has been reset"})
}
