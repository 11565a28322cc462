package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Transitions are deliberately free-form: any valid
// status may be set on any order.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses is the allow-list served to clients.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Payment methods accepted at checkout.
const (
	PaymentCreditCard     = "credit_card"
	PaymentDebitCard      = "debit_card"
	PaymentPaypal         = "paypal"
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentBankTransfer   = "bank_transfer"
)

// PaymentMethods is the allow-list served to clients.
var PaymentMethods = []string{
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentPaypal,
	PaymentCashOnDelivery,
	PaymentBankTransfer,
}

// Order represents a purchase. UserID is nil for guest orders, which
// are identified by the contact fields alone.
type Order struct {
	ID                  int64           `json:"id"`
	UserID              *int64          `json:"user_id,omitempty"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	Status              string          `json:"status"`
	ShippingAddress     string          `json:"shipping_address"`
	ContactName         string          `json:"contact_name"`
	ContactEmail        string          `json:"contact_email"`
	ContactPhone        *string         `json:"contact_phone,omitempty"`
	PaymentMethod       string          `json:"payment_method"`
	SpecialInstructions *string         `json:"special_instructions,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
	Items               []OrderItem     `json:"items,omitempty"`
	PaymentProofs       []PaymentProof  `json:"payment_proofs,omitempty"`
}

// OrderItem is one order line. UnitPrice and TotalPrice are snapshots
// captured at order time and must never track later product price
// changes.
type OrderItem struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// PaymentProof is an uploaded payment evidence image for an order.
type PaymentProof struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	ImageURL    string    `json:"image_url"`
	Description *string   `json:"description,omitempty"`
	FileName    *string   `json:"file_name,omitempty"`
	FileSize    *int64    `json:"file_size,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CartLine is one (product, quantity) pair of a cart.
type CartLine struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest is the DTO for POST /api/orders.
type CreateOrderRequest struct {
	Items               []CartLine `json:"items" validate:"required,min=1,dive"`
	ShippingAddress     string     `json:"shipping_address" validate:"required,notblank,max=500"`
	ContactName         string     `json:"contact_name" validate:"required,notblank,max=255"`
	ContactEmail        string     `json:"contact_email" validate:"required,email,max=255"`
	ContactPhone        *string    `json:"contact_phone" validate:"omitempty,max=32"`
	PaymentMethod       string     `json:"payment_method" validate:"required,oneof=credit_card debit_card paypal cash_on_delivery bank_transfer"`
	SpecialInstructions *string    `json:"special_instructions" validate:"omitempty,max=1000"`
}

// CreateGuestOrderRequest is the DTO for POST /api/orders/guest.
// ProductIDs and Quantities are parallel comma-separated lists; they
// must be equal in length and every token must parse as an integer.
type CreateGuestOrderRequest struct {
	ProductIDs          string  `json:"product_ids" validate:"required,notblank"`
	Quantities          string  `json:"quantities" validate:"required,notblank"`
	ShippingAddress     string  `json:"shipping_address" validate:"required,notblank,max=500"`
	ContactName         string  `json:"contact_name" validate:"required,notblank,max=255"`
	ContactEmail        string  `json:"contact_email" validate:"required,email,max=255"`
	ContactPhone        *string `json:"contact_phone" validate:"omitempty,max=32"`
	PaymentMethod       string  `json:"payment_method" validate:"required,oneof=credit_card debit_card paypal cash_on_delivery bank_transfer"`
	SpecialInstructions *string `json:"special_instructions" validate:"omitempty,max=1000"`
}

// UpdateOrderStatusRequest is the DTO for PUT /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status string
	Offset int
	Limit  int
}
