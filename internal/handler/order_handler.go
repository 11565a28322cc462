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

// OrderServiceInterface defines the interface for order business
// logic.
type OrderServiceInterface interface {
	Create(ctx context.Context, userID int64, req *model.CreateOrderRequest) (*model.Order, error)
	CreateGuest(ctx context.Context, req *model.CreateGuestOrderRequest) (*model.Order, error)
	Get(ctx context.Context, id, userID int64) (*model.Order, error)
	GetGuest(ctx context.Context, id int64, email string) (*model.Order, error)
	ListMine(ctx context.Context, userID int64, offset, limit int) ([]model.Order, error)
	ListAll(ctx context.Context, f model.OrderFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error)
	AttachProof(ctx context.Context, userID int64, proof *model.PaymentProof) (*model.PaymentProof, error)
	ListProofs(ctx context.Context, orderID, userID int64) ([]model.PaymentProof, error)
	DeleteProof(ctx context.Context, proofID, userID int64) error
}

// OrderHandler handles HTTP requests for orders and their payment
// proofs.
type OrderHandler struct {
	service   OrderServiceInterface
	media     MediaUploaderInterface
	validator *validator.Validate
}

// NewOrderHandler creates a new OrderHandler with the given service,
// media client, and validator.
func NewOrderHandler(svc OrderServiceInterface, uploader MediaUploaderInterface, v *validator.Validate) *OrderHandler {
	return &OrderHandler{service: svc, media: uploader, validator: v}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req model.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	userID := currentUserID(c)
	order, err := h.service.Create(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return notFound(c, "product not found")
		case errors.Is(err, service.ErrInsufficientStock):
			return badRequest(c, "insufficient stock")
		case errors.Is(err, service.ErrInvalidRequest):
			return badRequest(c, "invalid request")
		}
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to create order")
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// CreateGuest handles POST /api/orders/guest.
func (h *OrderHandler) CreateGuest(c *fiber.Ctx) error {
	var req model.CreateGuestOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	order, err := h.service.CreateGuest(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCartFormat):
			return badRequest(c, "invalid product ids or quantities format")
		case errors.Is(err, service.ErrProductNotFound):
			return notFound(c, "product not found")
		case errors.Is(err, service.ErrInsufficientStock):
			return badRequest(c, "insufficient stock")
		}
		log.Error().Err(err).Msg("failed to create guest order")
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID := currentUserID(c)
	order, err := h.service.Get(c.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return notFound(c, "order not found")
		case errors.Is(err, service.ErrNotOwner):
			return forbidden(c, "not authorized for this order")
		}
		log.Error().Err(err).Int64("order_id", id).Msg("failed to get order")
		return internalError(c)
	}
	return c.JSON(order)
}

// GetGuest handles GET /api/orders/guest/:id. The contact email must
// be supplied as a query parameter and match the order.
func (h *OrderHandler) GetGuest(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	email := c.Query("email")
	if email == "" {
		return badRequest(c, "invalid request: email is required")
	}

	order, err := h.service.GetGuest(c.Context(), id, email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return notFound(c, "order not found")
		case errors.Is(err, service.ErrNotGuestOrder):
			return forbidden(c, "not a guest order")
		}
		log.Error().Err(err).Int64("order_id", id).Msg("failed to get guest order")
		return internalError(c)
	}
	return c.JSON(order)
}

// ListMine handles GET /api/orders.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	userID := currentUserID(c)

	orders, err := h.service.ListMine(c.Context(), userID, offset, limit)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to list orders")
		return internalError(c)
	}
	return c.JSON(orders)
}

// ListAll handles GET /api/orders/all.
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	filter := model.OrderFilter{
		Status: c.Query("status"),
		Offset: offset,
		Limit:  limit,
	}

	orders, err := h.service.ListAll(c.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list all orders")
		return internalError(c)
	}
	return c.JSON(orders)
}

// UpdateStatus handles PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	order, err := h.service.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return notFound(c, "order not found")
		}
		log.Error().Err(err).Int64("order_id", id).Msg("failed to update order status")
		return internalError(c)
	}
	return c.JSON(order)
}

// UploadProof handles POST /api/orders/:id/payment-proofs.
func (h *OrderHandler) UploadProof(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}

	result, err := uploadFormImage(c, h.media, file, "payment-proofs")
	if err != nil {
		return mediaErrorResponse(c, err)
	}

	fileName := file.Filename
	fileSize := file.Size
	proof := &model.PaymentProof{
		OrderID:  id,
		ImageURL: result.URL,
		FileName: &fileName,
		FileSize: &fileSize,
	}
	if desc := c.FormValue("description"); desc != "" {
		proof.Description = &desc
	}

	userID := currentUserID(c)
	saved, err := h.service.AttachProof(c.Context(), userID, proof)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return notFound(c, "order not found")
		case errors.Is(err, service.ErrNotOwner):
			return forbidden(c, "not authorized for this order")
		}
		log.Error().Err(err).Int64("order_id", id).Msg("failed to attach payment proof")
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// ListProofs handles GET /api/orders/:id/payment-proofs.
func (h *OrderHandler) ListProofs(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID := currentUserID(c)
	proofs, err := h.service.ListProofs(c.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			return notFound(c, "order not found")
		case errors.Is(err, service.ErrNotOwner):
			return forbidden(c, "not authorized for this order")
		}
		log.Error().Err(err).Int64("order_id", id).Msg("failed to list payment proofs")
		return internalError(c)
	}
	return c.JSON(proofs)
}

// DeleteProof handles DELETE /api/orders/payment-proofs/:id.
func (h *OrderHandler) DeleteProof(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID := currentUserID(c)
	if err := h.service.DeleteProof(c.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentProofNotFound):
			return notFound(c, "payment proof not found")
		case errors.Is(err, service.ErrOrderNotFound):
			return notFound(c, "order not found")
		case errors.Is(err, service.ErrNotOwner):
			return forbidden(c, "not authorized for this order")
		}
		log.Error().Err(err).Int64("proof_id", id).Msg("failed to delete payment proof")
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PaymentMethods handles GET /api/orders/payment-methods.
func (h *OrderHandler) PaymentMethods(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"payment_methods": model.PaymentMethods})
}

// OrderStatuses handles GET /api/orders/order-statuses.
func (h *OrderHandler) OrderStatuses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"order_statuses": model.OrderStatuses})
}
