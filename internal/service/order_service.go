package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/pkg/database"
)

// ProductLockerInterface defines the product access an order needs:
// row-locked reads and guarded stock decrements inside a transaction.
type ProductLockerInterface interface {
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Product, error)
	DecrementStock(ctx context.Context, tx database.TxQuerier, id int64, qty int) error
}

// OrderRepositoryInterface defines the interface for order data access.
type OrderRepositoryInterface interface {
	InsertOrder(ctx context.Context, tx database.TxQuerier, o *model.Order) error
	InsertItem(ctx context.Context, tx database.TxQuerier, item *model.OrderItem) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.Order, error)
	ListAll(ctx context.Context, f model.OrderFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// PaymentProofRepositoryInterface defines the interface for payment
// proof data access.
type PaymentProofRepositoryInterface interface {
	Insert(ctx context.Context, p *model.PaymentProof) error
	GetByID(ctx context.Context, id int64) (*model.PaymentProof, error)
	ListByOrder(ctx context.Context, orderID int64) ([]model.PaymentProof, error)
	Delete(ctx context.Context, id int64) error
}

// OrderService provides business logic for order operations.
type OrderService struct {
	pool        database.TxBeginner
	orderRepo   OrderRepositoryInterface
	productRepo ProductLockerInterface
	proofRepo   PaymentProofRepositoryInterface
}

// NewOrderService creates a new OrderService with the given pool and
// repositories.
func NewOrderService(pool *pgxpool.Pool, orderRepo OrderRepositoryInterface, productRepo ProductLockerInterface, proofRepo PaymentProofRepositoryInterface) *OrderService {
	return &OrderService{
		pool:        pool,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		proofRepo:   proofRepo,
	}
}

// NewOrderServiceWithTxBeginner creates an OrderService with a custom
// TxBeginner. Primarily used for testing.
func NewOrderServiceWithTxBeginner(pool database.TxBeginner, orderRepo OrderRepositoryInterface, productRepo ProductLockerInterface, proofRepo PaymentProofRepositoryInterface) *OrderService {
	return &OrderService{
		pool:        pool,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		proofRepo:   proofRepo,
	}
}

// Create places an order for a registered user. The whole order is a
// single transaction: every product row is locked, every stock check
// and decrement happens under that lock, and one failing line rolls
// back all of it.
// Returns:
//   - ErrProductNotFound if any line references a missing product
//   - ErrInsufficientStock if any line asks for more than is in stock
func (s *OrderService) Create(ctx context.Context, userID int64, req *model.CreateOrderRequest) (*model.Order, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, ErrInvalidRequest
	}
	order := &model.Order{
		UserID:              &userID,
		Status:              model.OrderStatusPending,
		ShippingAddress:     req.ShippingAddress,
		ContactName:         req.ContactName,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	}
	if err := s.place(ctx, order, req.Items); err != nil {
		return nil, err
	}
	return order, nil
}

// CreateGuest places an order without an account. The cart arrives as
// two parallel comma-separated lists which must be equal in length,
// integral, and positive.
// Returns ErrInvalidCartFormat when the lists are malformed.
func (s *OrderService) CreateGuest(ctx context.Context, req *model.CreateGuestOrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	lines, err := parseGuestCart(req.ProductIDs, req.Quantities)
	if err != nil {
		return nil, err
	}
	order := &model.Order{
		Status:              model.OrderStatusPending,
		ShippingAddress:     req.ShippingAddress,
		ContactName:         req.ContactName,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	}
	if err := s.place(ctx, order, lines); err != nil {
		return nil, err
	}
	return order, nil
}

// place runs the shared checkout transaction for both registered and
// guest orders.
func (s *OrderService) place(ctx context.Context, order *model.Order, lines []model.CartLine) error {
	// Lock products in ascending id order so concurrent orders over
	// the same products cannot deadlock.
	sorted := make([]model.CartLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	return database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		items := make([]model.OrderItem, 0, len(sorted))
		for _, line := range sorted {
			// 1. Lock the product row (SELECT FOR UPDATE)
			product, err := s.productRepo.GetForUpdate(ctx, tx, line.ProductID)
			if err != nil {
				return err
			}

			// 2. Check stock under the lock
			if product.StockQuantity < line.Quantity {
				return ErrInsufficientStock
			}

			// 3. Decrement stock (guarded UPDATE catches any race)
			if err := s.productRepo.DecrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}

			// 4. Snapshot prices as they are right now
			unit := product.UnitPrice()
			items = append(items, model.OrderItem{
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  unit,
				TotalPrice: unit.Mul(decimal.NewFromInt(int64(line.Quantity))),
			})
			order.TotalAmount = order.TotalAmount.Add(items[len(items)-1].TotalPrice)
		}

		if err := s.orderRepo.InsertOrder(ctx, tx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := s.orderRepo.InsertItem(ctx, tx, &items[i]); err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

// parseGuestCart turns the parallel comma-separated lists of a guest
// checkout into cart lines.
func parseGuestCart(productIDs, quantities string) ([]model.CartLine, error) {
	idTokens := strings.Split(productIDs, ",")
	qtyTokens := strings.Split(quantities, ",")
	if len(idTokens) == 0 || len(idTokens) != len(qtyTokens) {
		return nil, ErrInvalidCartFormat
	}

	lines := make([]model.CartLine, 0, len(idTokens))
	for i := range idTokens {
		id, err := strconv.ParseInt(strings.TrimSpace(idTokens[i]), 10, 64)
		if err != nil || id <= 0 {
			return nil, ErrInvalidCartFormat
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyTokens[i]))
		if err != nil || qty <= 0 {
			return nil, ErrInvalidCartFormat
		}
		lines = append(lines, model.CartLine{ProductID: id, Quantity: qty})
	}
	return lines, nil
}

// Get retrieves one order for its owner, payment proofs included.
// Returns ErrOrderNotFound if absent and ErrNotOwner when the order
// belongs to someone else (guest orders included).
func (s *OrderService) Get(ctx context.Context, id, userID int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrNotOwner
	}
	proofs, err := s.proofRepo.ListByOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list payment proofs: %w", err)
	}
	order.PaymentProofs = proofs
	return order, nil
}

// GetGuest retrieves a guest order by id and contact email. The email
// must match exactly; a mismatch reads the same as a missing order so
// ids cannot be probed.
// Returns ErrNotGuestOrder when the order belongs to an account.
func (s *OrderService) GetGuest(ctx context.Context, id int64, email string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != nil {
		return nil, ErrNotGuestOrder
	}
	if !strings.EqualFold(order.ContactEmail, email) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListMine returns the caller's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, userID int64, offset, limit int) ([]model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID, offset, limit)
}

// ListAll returns orders matching the filter, newest first.
func (s *OrderService) ListAll(ctx context.Context, f model.OrderFilter) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx, f)
}

// UpdateStatus moves an order to a new status and returns the updated
// order. Any valid status may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error) {
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(ctx, id)
}

// AttachProof stores an uploaded payment proof against the caller's
// order.
func (s *OrderService) AttachProof(ctx context.Context, userID int64, proof *model.PaymentProof) (*model.PaymentProof, error) {
	order, err := s.orderRepo.GetByID(ctx, proof.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrNotOwner
	}
	if err := s.proofRepo.Insert(ctx, proof); err != nil {
		return nil, err
	}
	return proof, nil
}

// ListProofs returns the payment proofs of the caller's order.
func (s *OrderService) ListProofs(ctx context.Context, orderID, userID int64) ([]model.PaymentProof, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrNotOwner
	}
	return s.proofRepo.ListByOrder(ctx, orderID)
}

// DeleteProof removes a payment proof from the caller's order.
func (s *OrderService) DeleteProof(ctx context.Context, proofID, userID int64) error {
	proof, err := s.proofRepo.GetByID(ctx, proofID)
	if err != nil {
		return err
	}
	order, err := s.orderRepo.GetByID(ctx, proof.OrderID)
	if err != nil {
		return err
	}
	if order.UserID == nil || *order.UserID != userID {
		return ErrNotOwner
	}
	return s.proofRepo.Delete(ctx, proofID)
}
