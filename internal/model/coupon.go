package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponCode is a personal discount code. It belongs to exactly one
// user and is not transferable. Once UsedCount reaches MaxUses the
// code must be inactive.
type CouponCode struct {
	ID                 int64      `json:"id"`
	Code               string     `json:"code"`
	UserID             int64      `json:"user_id"`
	DiscountPercentage int        `json:"discount_percentage"`
	MaxUses            int        `json:"max_uses"`
	UsedCount          int        `json:"used_count"`
	IsActive           bool       `json:"is_active"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	CreatedByAdmin     *int64     `json:"created_by_admin,omitempty"`
}

// CouponUsage is the append-only record of one redemption.
type CouponUsage struct {
	ID             int64           `json:"id"`
	CouponID       int64           `json:"coupon_id"`
	OrderID        int64           `json:"order_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	UsedAt         time.Time       `json:"used_at"`
}

// IssueCouponRequest is the DTO for POST /api/loyalty/coupons. The
// coupon is issued to the user identified by email.
type IssueCouponRequest struct {
	UserEmail          string     `json:"user_email" validate:"required,email"`
	DiscountPercentage int        `json:"discount_percentage" validate:"gte=1,lte=100"`
	MaxUses            int        `json:"max_uses" validate:"gte=1"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

// CouponValidation is the uniform validation outcome. All failure
// modes collapse into Valid=false with the same message so callers
// cannot probe for code existence or ownership.
type CouponValidation struct {
	Valid   bool        `json:"valid"`
	Coupon  *CouponCode `json:"coupon,omitempty"`
	Message string      `json:"message"`
}

// RedeemCouponRequest is the DTO for POST /api/loyalty/coupons/redeem.
type RedeemCouponRequest struct {
	Code    string `json:"code" validate:"required,notblank"`
	OrderID int64  `json:"order_id" validate:"required,gt=0"`
}

// CouponFilter narrows coupon listings.
type CouponFilter struct {
	IsActive *bool
	Offset   int
	Limit    int
}
