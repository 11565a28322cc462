package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/internal/service"
	"github.com/craftstore/backend/pkg/media"
)

// ProductServiceInterface defines the interface for catalog business
// logic.
type ProductServiceInterface interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	Get(ctx context.Context, id int64) (*model.ProductDetail, error)
	List(ctx context.Context, f model.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error)
	SetStock(ctx context.Context, id int64, qty int) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
	AttachImage(ctx context.Context, img *model.ProductImage) (*model.ProductImage, error)
	ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error)
}

// MediaUploaderInterface defines the interface for the media delegate.
type MediaUploaderInterface interface {
	Upload(ctx context.Context, r io.Reader, contentType string, size int64, p media.Params) (*media.UploadResult, error)
}

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service   ProductServiceInterface
	media     MediaUploaderInterface
	validator *validator.Validate
}

// NewProductHandler creates a new ProductHandler with the given
// service, media client, and validator.
func NewProductHandler(svc ProductServiceInterface, uploader MediaUploaderInterface, v *validator.Validate) *ProductHandler {
	return &ProductHandler{service: svc, media: uploader, validator: v}
}

// uploadFormImage pushes one multipart file through the media delegate.
func uploadFormImage(c *fiber.Ctx, uploader MediaUploaderInterface, file *multipart.FileHeader, folder string) (*media.UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	return uploader.Upload(c.Context(), src, file.Header.Get(fiber.HeaderContentType), file.Size, media.Params{
		Folder: folder,
	})
}

// mediaErrorResponse maps delegate rejections to a 400; anything else
// is a 500.
func mediaErrorResponse(c *fiber.Ctx, err error) error {
	if errors.Is(err, media.ErrUnsupportedType) || errors.Is(err, media.ErrTooLarge) {
		return badRequest(c, err.Error())
	}
	log.Error().Err(err).Msg("media upload failed")
	return internalError(c)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req model.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	product, err := h.service.Create(c.Context(), &req)
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("failed to create product")
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	detail, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return notFound(c, "product not found")
		}
		log.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return internalError(c)
	}
	return c.JSON(detail)
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	filter := model.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Offset:   offset,
		Limit:    limit,
	}

	products, err := h.service.List(c.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list products")
		return internalError(c)
	}
	return c.JSON(products)
}

// Update handles PUT /api/products/:id.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	product, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return notFound(c, "product not found")
		}
		log.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return internalError(c)
	}
	return c.JSON(product)
}

// UpdateStock handles PUT /api/products/:id/stock.
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req model.UpdateStockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	product, err := h.service.SetStock(c.Context(), id, *req.StockQuantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return notFound(c, "product not found")
		}
		log.Error().Err(err).Int64("product_id", id).Msg("failed to update stock")
		return internalError(c)
	}
	return c.JSON(product)
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return notFound(c, "product not found")
		}
		log.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return internalError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadImage handles POST /api/products/:id/images. The image goes
// through the media delegate; only the returned URL is stored.
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}

	result, err := uploadFormImage(c, h.media, file, "products")
	if err != nil {
		return mediaErrorResponse(c, err)
	}

	img := &model.ProductImage{
		ProductID: id,
		ImageURL:  result.URL,
		AltText:   nil,
		IsPrimary: c.QueryBool("primary", false),
		SortOrder: c.QueryInt("sort_order", 0),
	}
	if alt := c.Query("alt_text"); alt != "" {
		img.AltText = &alt
	}

	saved, err := h.service.AttachImage(c.Context(), img)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return notFound(c, "product not found")
		}
		log.Error().Err(err).Int64("product_id", id).Msg("failed to attach product image")
		return internalError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// ListImages handles GET /api/products/:id/images.
func (h *ProductHandler) ListImages(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	images, err := h.service.ListImages(c.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("product_id", id).Msg("failed to list product images")
		return internalError(c)
	}
	return c.JSON(images)
}
