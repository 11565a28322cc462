package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/pkg/database"
)

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testCheckoutContact() (string, string, string) {
	return "1 Workshop Lane", "Jo Maker", "jo@example.com"
}

func TestOrderService_Create_Success(t *testing.T) {
	products := map[int64]*model.Product{
		1: {ID: 1, Name: "Walnut Board", OriginalPrice: decimal.RequireFromString("40.00"), StockQuantity: 10},
		2: {ID: 2, Name: "Ceramic Mug", OriginalPrice: decimal.RequireFromString("25.00"), DiscountPrice: decimalPtr("19.50"), StockQuantity: 5},
	}

	var lockedIDs []int64
	decremented := map[int64]int{}
	productRepo := &mockProductLocker{
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id int64) (*model.Product, error) {
			lockedIDs = append(lockedIDs, id)
			p, ok := products[id]
			if !ok {
				return nil, ErrProductNotFound
			}
			return p, nil
		},
		decrementStockFn: func(ctx context.Context, tx database.TxQuerier, id int64, qty int) error {
			decremented[id] = qty
			return nil
		},
	}

	var insertedItems []model.OrderItem
	orderRepo := &mockOrderRepository{
		insertOrderFn: func(ctx context.Context, tx database.TxQuerier, o *model.Order) error {
			o.ID = 42
			return nil
		},
		insertItemFn: func(ctx context.Context, tx database.TxQuerier, item *model.OrderItem) error {
			insertedItems = append(insertedItems, *item)
			return nil
		},
	}

	committed := false
	beginner := &mockTxBeginner{
		beginFn: func(ctx context.Context) (pgx.Tx, error) {
			return &mockTx{commitFn: func(ctx context.Context) error {
				committed = true
				return nil
			}}, nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(beginner, orderRepo, productRepo, &mockPaymentProofRepository{})

	address, name, email := testCheckoutContact()
	// Items arrive out of id order on purpose.
	order, err := svc.Create(context.Background(), 7, &model.CreateOrderRequest{
		Items: []model.CartLine{
			{ProductID: 2, Quantity: 2},
			{ProductID: 1, Quantity: 1},
		},
		ShippingAddress: address,
		ContactName:     name,
		ContactEmail:    email,
		PaymentMethod:   model.PaymentBankTransfer,
	})

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.True(t, committed)
	assert.Equal(t, int64(42), order.ID)
	require.NotNil(t, order.UserID)
	assert.Equal(t, int64(7), *order.UserID)
	assert.Equal(t, model.OrderStatusPending, order.Status)

	// Products must be locked in ascending id order.
	assert.Equal(t, []int64{1, 2}, lockedIDs)
	assert.Equal(t, map[int64]int{1: 1, 2: 2}, decremented)

	require.Len(t, insertedItems, 2)
	for _, item := range insertedItems {
		assert.Equal(t, int64(42), item.OrderID)
	}
	// Product 1 has no discount so the snapshot is the original price.
	assert.Equal(t, "40", insertedItems[0].UnitPrice.String())
	assert.Equal(t, "40", insertedItems[0].TotalPrice.String())
	// Product 2 snapshots the discount price.
	assert.Equal(t, "19.5", insertedItems[1].UnitPrice.String())
	assert.Equal(t, "39", insertedItems[1].TotalPrice.String())
	assert.Equal(t, "79", order.TotalAmount.String())
	assert.Len(t, order.Items, 2)
}

func TestOrderService_Create_InsufficientStock(t *testing.T) {
	productRepo := &mockProductLocker{
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id int64) (*model.Product, error) {
			return &model.Product{ID: id, OriginalPrice: decimal.RequireFromString("10.00"), StockQuantity: 1}, nil
		},
	}

	committed := false
	rolledBack := false
	beginner := &mockTxBeginner{
		beginFn: func(ctx context.Context) (pgx.Tx, error) {
			return &mockTx{
				commitFn: func(ctx context.Context) error {
					committed = true
					return nil
				},
				rollbackFn: func(ctx context.Context) error {
					rolledBack = true
					return nil
				},
			}, nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(beginner, &mockOrderRepository{}, productRepo, &mockPaymentProofRepository{})

	address, name, email := testCheckoutContact()
	order, err := svc.Create(context.Background(), 7, &model.CreateOrderRequest{
		Items:           []model.CartLine{{ProductID: 1, Quantity: 3}},
		ShippingAddress: address,
		ContactName:     name,
		ContactEmail:    email,
		PaymentMethod:   model.PaymentPaypal,
	})

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Nil(t, order)
	assert.True(t, rolledBack)
	assert.False(t, committed)
}

func TestOrderService_Create_ProductNotFound(t *testing.T) {
	productRepo := &mockProductLocker{
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id int64) (*model.Product, error) {
			return nil, ErrProductNotFound
		},
	}
	beginner := &mockTxBeginner{}

	svc := NewOrderServiceWithTxBeginner(beginner, &mockOrderRepository{}, productRepo, &mockPaymentProofRepository{})

	address, name, email := testCheckoutContact()
	order, err := svc.Create(context.Background(), 7, &model.CreateOrderRequest{
		Items:           []model.CartLine{{ProductID: 99, Quantity: 1}},
		ShippingAddress: address,
		ContactName:     name,
		ContactEmail:    email,
		PaymentMethod:   model.PaymentPaypal,
	})

	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.Nil(t, order)
}

func TestOrderService_Create_EmptyCart(t *testing.T) {
	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, &mockOrderRepository{}, &mockProductLocker{}, &mockPaymentProofRepository{})

	order, err := svc.Create(context.Background(), 7, &model.CreateOrderRequest{})

	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.Nil(t, order)
}

func TestOrderService_CreateGuest_Success(t *testing.T) {
	productRepo := &mockProductLocker{
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id int64) (*model.Product, error) {
			return &model.Product{ID: id, OriginalPrice: decimal.RequireFromString("12.00"), StockQuantity: 50}, nil
		},
	}
	orderRepo := &mockOrderRepository{
		insertOrderFn: func(ctx context.Context, tx database.TxQuerier, o *model.Order) error {
			o.ID = 9
			return nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, orderRepo, productRepo, &mockPaymentProofRepository{})

	address, name, email := testCheckoutContact()
	order, err := svc.CreateGuest(context.Background(), &model.CreateGuestOrderRequest{
		ProductIDs:      "3, 5",
		Quantities:      "2, 1",
		ShippingAddress: address,
		ContactName:     name,
		ContactEmail:    email,
		PaymentMethod:   model.PaymentCashOnDelivery,
	})

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Nil(t, order.UserID)
	assert.Equal(t, "36", order.TotalAmount.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(3), order.Items[0].ProductID)
	assert.Equal(t, int64(5), order.Items[1].ProductID)
}

func TestOrderService_CreateGuest_MalformedCart(t *testing.T) {
	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, &mockOrderRepository{}, &mockProductLocker{}, &mockPaymentProofRepository{})
	address, name, email := testCheckoutContact()

	cases := []struct {
		name       string
		productIDs string
		quantities string
	}{
		{"length mismatch", "1,2", "1"},
		{"non integer id", "a,b", "1,2"},
		{"non integer quantity", "1,2", "1,x"},
		{"zero quantity", "1", "0"},
		{"negative id", "-1", "2"},
		{"empty lists", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order, err := svc.CreateGuest(context.Background(), &model.CreateGuestOrderRequest{
				ProductIDs:      tc.productIDs,
				Quantities:      tc.quantities,
				ShippingAddress: address,
				ContactName:     name,
				ContactEmail:    email,
				PaymentMethod:   model.PaymentPaypal,
			})
			assert.True(t, errors.Is(err, ErrInvalidCartFormat))
			assert.Nil(t, order)
		})
	}
}

func TestOrderService_Get_Success(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: int64Ptr(7)}, nil
		},
	}
	proofRepo := &mockPaymentProofRepository{
		listByOrderFn: func(ctx context.Context, orderID int64) ([]model.PaymentProof, error) {
			return []model.PaymentProof{{ID: 1, OrderID: orderID, ImageURL: "https://cdn.example.com/proof.jpg"}}, nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, orderRepo, &mockProductLocker{}, proofRepo)

	order, err := svc.Get(context.Background(), 5, 7)

	require.NoError(t, err)
	require.Len(t, order.PaymentProofs, 1)
	assert.Equal(t, int64(5), order.PaymentProofs[0].OrderID)
}

func TestOrderService_Get_NotOwner(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: int64Ptr(8)}, nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, orderRepo, &mockProductLocker{}, &mockPaymentProofRepository{})

	order, err := svc.Get(context.Background(), 5, 7)

	assert.True(t, errors.Is(err, ErrNotOwner))
	assert.Nil(t, order)
}

func TestOrderService_Get_GuestOrderHidden(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id}, nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, orderRepo, &mockProductLocker{}, &mockPaymentProofRepository{})

	_, err := svc.Get(context.Background(), 5, 7)

	assert.True(t, errors.Is(err, ErrNotOwner))
}

func TestOrderService_GetGuest_Success(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, ContactEmail: "jo@example.com"}, nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, orderRepo, &mockProductLocker{}, &mockPaymentProofRepository{})

	order, err := svc.GetGuest(context.Background(), 5, "JO@EXAMPLE.COM")

	require.NoError(t, err)
	assert.Equal(t, int64(5), order.ID)
}

func TestOrderService_GetGuest_EmailMismatch(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, ContactEmail: "jo@example.com"}, nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, orderRepo, &mockProductLocker{}, &mockPaymentProofRepository{})

	order, err := svc.GetGuest(context.Background(), 5, "someone-else@example.com")

	assert.True(t, errors.Is(err, ErrOrderNotFound))
	assert.Nil(t, order)
}

func TestOrderService_GetGuest_RegisteredOrder(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: int64Ptr(7), ContactEmail: "jo@example.com"}, nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, orderRepo, &mockProductLocker{}, &mockPaymentProofRepository{})

	_, err := svc.GetGuest(context.Background(), 5, "jo@example.com")

	assert.True(t, errors.Is(err, ErrNotGuestOrder))
}

func TestOrderService_AttachProof_NotOwner(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: int64Ptr(8)}, nil
		},
	}
	inserted := false
	proofRepo := &mockPaymentProofRepository{
		insertFn: func(ctx context.Context, p *model.PaymentProof) error {
			inserted = true
			return nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, orderRepo, &mockProductLocker{}, proofRepo)

	_, err := svc.AttachProof(context.Background(), 7, &model.PaymentProof{OrderID: 5, ImageURL: "https://cdn.example.com/proof.jpg"})

	assert.True(t, errors.Is(err, ErrNotOwner))
	assert.False(t, inserted)
}

func TestOrderService_DeleteProof_Success(t *testing.T) {
	proofRepo := &mockPaymentProofRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.PaymentProof, error) {
			return &model.PaymentProof{ID: id, OrderID: 5}, nil
		},
	}
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: int64Ptr(7)}, nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, orderRepo, &mockProductLocker{}, proofRepo)

	err := svc.DeleteProof(context.Background(), 3, 7)

	require.NoError(t, err)
}

func TestOrderService_UpdateStatus_Success(t *testing.T) {
	var gotStatus string
	orderRepo := &mockOrderRepository{
		updateStatusFn: func(ctx context.Context, id int64, status string) error {
			gotStatus = status
			return nil
		},
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: int64Ptr(7), Status: model.OrderStatusShipped}, nil
		},
	}

	svc := NewOrderServiceWithTxBeginner(&mockTxBeginner{}, orderRepo, &mockProductLocker{}, &mockPaymentProofRepository{})

	order, err := svc.UpdateStatus(context.Background(), 5, model.OrderStatusShipped)

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, gotStatus)
	assert.Equal(t, model.OrderStatusShipped, order.Status)
}
