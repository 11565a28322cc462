package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item. Prices are decimals, never
// floats. DiscountPrice, when set, wins over OriginalPrice at order
// time.
type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	OriginalPrice decimal.Decimal  `json:"original_price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	Category      *string          `json:"category,omitempty"`
	Tags          *string          `json:"tags,omitempty"`   // comma-separated
	Colors        *string          `json:"colors,omitempty"` // comma-separated
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

// UnitPrice returns the effective selling price: the discount price
// when present, the original price otherwise.
func (p Product) UnitPrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.OriginalPrice
}

// ProductImage is a hosted image attached to a product. The URL
// points at the media delegate; this system never stores bytes.
type ProductImage struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	ImageURL  string    `json:"image_url"`
	AltText   *string   `json:"alt_text,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest is the DTO for POST /api/products.
type CreateProductRequest struct {
	Name          string           `json:"name" validate:"required,notblank,max=255"`
	Description   *string          `json:"description"`
	OriginalPrice decimal.Decimal  `json:"original_price" validate:"required"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	StockQuantity int              `json:"stock_quantity" validate:"gte=0"`
	Category      *string          `json:"category" validate:"omitempty,max=255"`
	Tags          *string          `json:"tags"`
	Colors        *string          `json:"colors"`
}

// UpdateProductRequest is the DTO for PUT /api/products/:id. Only
// non-nil fields are applied.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,notblank,max=255"`
	Description   *string          `json:"description"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,gte=0"`
	Category      *string          `json:"category" validate:"omitempty,max=255"`
	Tags          *string          `json:"tags"`
	Colors        *string          `json:"colors"`
	IsActive      *bool            `json:"is_active"`
}

// UpdateStockRequest is the DTO for PUT /api/products/:id/stock.
type UpdateStockRequest struct {
	StockQuantity *int `json:"stock_quantity" validate:"required,gte=0"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category string
	Search   string
	Offset   int
	Limit    int
}

// ProductDetail is a product with its review aggregates and images.
type ProductDetail struct {
	Product       Product        `json:"product"`
	AverageRating *float64       `json:"average_rating"`
	TotalReviews  int            `json:"total_reviews"`
	Reviews       []Review       `json:"reviews"`
	Images        []ProductImage `json:"images"`
}
