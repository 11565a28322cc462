package service

import (
	"context"

	"github.com/craftstore/backend/internal/model"
)

// ProductRepositoryInterface defines the interface for product data
// access.
type ProductRepositoryInterface interface {
	Insert(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, f model.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error)
	SetStock(ctx context.Context, id int64, qty int) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
	InsertImage(ctx context.Context, img *model.ProductImage) error
	ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error)
}

// ProductReviewsInterface is the slice of review access product
// details need.
type ProductReviewsInterface interface {
	RatingStats(ctx context.Context, productID int64) (*model.RatingStats, error)
	ListByProduct(ctx context.Context, productID int64, offset, limit int) ([]model.Review, error)
}

// ProductService provides business logic for the catalog.
type ProductService struct {
	productRepo ProductRepositoryInterface
	reviewRepo  ProductReviewsInterface
}

// NewProductService creates a new ProductService with the given
// repositories.
func NewProductService(productRepo ProductRepositoryInterface, reviewRepo ProductReviewsInterface) *ProductService {
	return &ProductService{productRepo: productRepo, reviewRepo: reviewRepo}
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		OriginalPrice: req.OriginalPrice,
		DiscountPrice: req.DiscountPrice,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		Tags:          req.Tags,
		Colors:        req.Colors,
		IsActive:      true,
	}
	if err := s.productRepo.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get retrieves a product together with its review aggregates and
// images. The first page of reviews is embedded.
func (s *ProductService) Get(ctx context.Context, id int64) (*model.ProductDetail, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.reviewRepo.RatingStats(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByProduct(ctx, id, 0, 20)
	if err != nil {
		return nil, err
	}
	images, err := s.productRepo.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ProductDetail{
		Product:       *product,
		AverageRating: stats.AverageRating,
		TotalReviews:  stats.TotalReviews,
		Reviews:       reviews,
		Images:        images,
	}, nil
}

// List returns catalog products matching the filter.
func (s *ProductService) List(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	return s.productRepo.List(ctx, f)
}

// Update applies the non-nil fields of req to a product.
func (s *ProductService) Update(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	return s.productRepo.Update(ctx, id, req)
}

// SetStock replaces a product's stock level outright. Order placement
// never uses this path; it decrements under a row lock instead.
func (s *ProductService) SetStock(ctx context.Context, id int64, qty int) (*model.Product, error) {
	return s.productRepo.SetStock(ctx, id, qty)
}

// Delete removes a product from the catalog.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}

// AttachImage records an uploaded image against a product.
func (s *ProductService) AttachImage(ctx context.Context, img *model.ProductImage) (*model.ProductImage, error) {
	if img == nil || img.ImageURL == "" {
		return nil, ErrInvalidRequest
	}
	if _, err := s.productRepo.GetByID(ctx, img.ProductID); err != nil {
		return nil, err
	}
	if err := s.productRepo.InsertImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// ListImages returns a product's images in display order.
func (s *ProductService) ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	return s.productRepo.ListImages(ctx, productID)
}
