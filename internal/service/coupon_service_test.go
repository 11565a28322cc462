package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/pkg/database"
)

var couponCodePattern = regexp.MustCompile(`^LOYALTY[A-Z0-9]{8}$`)

func activeCoupon(userID int64) *model.CouponCode {
	return &model.CouponCode{
		ID:                 1,
		Code:               "LOYALTYAAAA1111",
		UserID:             userID,
		DiscountPercentage: 10,
		MaxUses:            3,
		UsedCount:          0,
		IsActive:           true,
	}
}

func TestCouponService_Issue_Success(t *testing.T) {
	userRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 12, Email: email}, nil
		},
	}
	var inserted *model.CouponCode
	couponRepo := &mockCouponRepository{
		insertFn: func(ctx context.Context, c *model.CouponCode) error {
			c.ID = 1
			c.IsActive = true
			inserted = c
			return nil
		},
	}

	svc := NewCouponServiceWithTxBeginner(&mockTxBeginner{}, couponRepo, userRepo, &mockOrderRepository{})

	coupon, err := svc.Issue(context.Background(), 99, &model.IssueCouponRequest{
		UserEmail:          "jo@example.com",
		DiscountPercentage: 15,
		MaxUses:            2,
	})

	require.NoError(t, err)
	require.NotNil(t, coupon)
	assert.Regexp(t, couponCodePattern, coupon.Code)
	assert.Equal(t, int64(12), coupon.UserID)
	assert.Equal(t, 15, coupon.DiscountPercentage)
	assert.Equal(t, 2, coupon.MaxUses)
	require.NotNil(t, coupon.CreatedByAdmin)
	assert.Equal(t, int64(99), *coupon.CreatedByAdmin)
	assert.Same(t, inserted, coupon)
}

func TestCouponService_Issue_RetriesOnDuplicateCode(t *testing.T) {
	userRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 12, Email: email}, nil
		},
	}
	seen := map[string]bool{}
	attempts := 0
	couponRepo := &mockCouponRepository{
		insertFn: func(ctx context.Context, c *model.CouponCode) error {
			attempts++
			if attempts < 3 {
				return ErrDuplicateCode
			}
			require.False(t, seen[c.Code])
			seen[c.Code] = true
			c.ID = 1
			return nil
		},
	}

	svc := NewCouponServiceWithTxBeginner(&mockTxBeginner{}, couponRepo, userRepo, &mockOrderRepository{})

	coupon, err := svc.Issue(context.Background(), 99, &model.IssueCouponRequest{
		UserEmail:          "jo@example.com",
		DiscountPercentage: 10,
		MaxUses:            1,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Regexp(t, couponCodePattern, coupon.Code)
}

func TestCouponService_Issue_ExhaustsAttempts(t *testing.T) {
	userRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 12, Email: email}, nil
		},
	}
	attempts := 0
	couponRepo := &mockCouponRepository{
		insertFn: func(ctx context.Context, c *model.CouponCode) error {
			attempts++
			return ErrDuplicateCode
		},
	}

	svc := NewCouponServiceWithTxBeginner(&mockTxBeginner{}, couponRepo, userRepo, &mockOrderRepository{})

	coupon, err := svc.Issue(context.Background(), 99, &model.IssueCouponRequest{
		UserEmail:          "jo@example.com",
		DiscountPercentage: 10,
		MaxUses:            1,
	})

	assert.True(t, errors.Is(err, ErrCodeGeneration))
	assert.Nil(t, coupon)
	assert.Equal(t, maxCodeAttempts, attempts)
}

func TestCouponService_Issue_UserNotFound(t *testing.T) {
	svc := NewCouponServiceWithTxBeginner(&mockTxBeginner{}, &mockCouponRepository{}, &mockUserRepository{}, &mockOrderRepository{})

	coupon, err := svc.Issue(context.Background(), 99, &model.IssueCouponRequest{
		UserEmail:          "nobody@example.com",
		DiscountPercentage: 10,
		MaxUses:            1,
	})

	assert.True(t, errors.Is(err, ErrUserNotFound))
	assert.Nil(t, coupon)
}

func TestCouponService_Validate_Success(t *testing.T) {
	couponRepo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.CouponCode, error) {
			return activeCoupon(7), nil
		},
	}

	svc := NewCouponServiceWithTxBeginner(&mockTxBeginner{}, couponRepo, &mockUserRepository{}, &mockOrderRepository{})

	result, err := svc.Validate(context.Background(), 7, "LOYALTYAAAA1111")

	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.NotNil(t, result.Coupon)
	assert.Equal(t, 10, result.Coupon.DiscountPercentage)
}

func TestCouponService_Validate_UniformFailures(t *testing.T) {
	expired := time.Now().Add(-time.Hour)

	cases := []struct {
		name   string
		coupon *model.CouponCode
	}{
		{"unknown code", nil},
		{"someone else's coupon", func() *model.CouponCode { c := activeCoupon(8); return c }()},
		{"inactive", func() *model.CouponCode { c := activeCoupon(7); c.IsActive = false; return c }()},
		{"exhausted", func() *model.CouponCode { c := activeCoupon(7); c.UsedCount = c.MaxUses; return c }()},
		{"expired", func() *model.CouponCode { c := activeCoupon(7); c.ExpiresAt = &expired; return c }()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			couponRepo := &mockCouponRepository{
				getByCodeFn: func(ctx context.Context, code string) (*model.CouponCode, error) {
					if tc.coupon == nil {
						return nil, ErrCouponNotFound
					}
					return tc.coupon, nil
				},
			}
			svc := NewCouponServiceWithTxBeginner(&mockTxBeginner{}, couponRepo, &mockUserRepository{}, &mockOrderRepository{})

			result, err := svc.Validate(context.Background(), 7, "LOYALTYAAAA1111")

			// Every failure mode must read identically.
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.Nil(t, result.Coupon)
			assert.Equal(t, ErrCouponInvalid.Error(), result.Message)
		})
	}
}

func TestCouponService_Redeem_Success(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: int64Ptr(7), TotalAmount: decimal.RequireFromString("80.00")}, nil
		},
	}
	incremented := false
	var insertedUsage *model.CouponUsage
	couponRepo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.CouponCode, error) {
			return activeCoupon(7), nil
		},
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id int64) (*model.CouponCode, error) {
			return activeCoupon(7), nil
		},
		insertUsageFn: func(ctx context.Context, tx database.TxQuerier, u *model.CouponUsage) error {
			u.ID = 5
			insertedUsage = u
			return nil
		},
		incrementUsageFn: func(ctx context.Context, tx database.TxQuerier, id int64) error {
			incremented = true
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

	svc := NewCouponServiceWithTxBeginner(beginner, couponRepo, &mockUserRepository{}, orderRepo)

	usage, err := svc.Redeem(context.Background(), 7, &model.RedeemCouponRequest{Code: "LOYALTYAAAA1111", OrderID: 3})

	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.True(t, committed)
	assert.True(t, incremented)
	assert.Equal(t, int64(1), usage.CouponID)
	assert.Equal(t, int64(3), usage.OrderID)
	// 10% of 80.00
	assert.Equal(t, "8", usage.DiscountAmount.String())
	assert.Same(t, insertedUsage, usage)
}

func TestCouponService_Redeem_StaleCouponUnderLock(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: int64Ptr(7), TotalAmount: decimal.RequireFromString("80.00")}, nil
		},
	}
	couponRepo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.CouponCode, error) {
			return activeCoupon(7), nil
		},
		getForUpdateFn: func(ctx context.Context, tx database.TxQuerier, id int64) (*model.CouponCode, error) {
			// A concurrent redemption exhausted the coupon between the
			// read and the lock.
			c := activeCoupon(7)
			c.UsedCount = c.MaxUses
			c.IsActive = false
			return c, nil
		},
	}
	rolledBack := false
	beginner := &mockTxBeginner{
		beginFn: func(ctx context.Context) (pgx.Tx, error) {
			return &mockTx{rollbackFn: func(ctx context.Context) error {
				rolledBack = true
				return nil
			}}, nil
		},
	}

	svc := NewCouponServiceWithTxBeginner(beginner, couponRepo, &mockUserRepository{}, orderRepo)

	usage, err := svc.Redeem(context.Background(), 7, &model.RedeemCouponRequest{Code: "LOYALTYAAAA1111", OrderID: 3})

	assert.True(t, errors.Is(err, ErrCouponInvalid))
	assert.Nil(t, usage)
	assert.True(t, rolledBack)
}

func TestCouponService_Redeem_UnknownCode(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: int64Ptr(7)}, nil
		},
	}

	svc := NewCouponServiceWithTxBeginner(&mockTxBeginner{}, &mockCouponRepository{}, &mockUserRepository{}, orderRepo)

	usage, err := svc.Redeem(context.Background(), 7, &model.RedeemCouponRequest{Code: "LOYALTYNOPE0000", OrderID: 3})

	assert.True(t, errors.Is(err, ErrCouponInvalid))
	assert.Nil(t, usage)
}

func TestCouponService_Redeem_ForeignOrder(t *testing.T) {
	orderRepo := &mockOrderRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: int64Ptr(8)}, nil
		},
	}
	lookedUp := false
	couponRepo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.CouponCode, error) {
			lookedUp = true
			return activeCoupon(7), nil
		},
	}

	svc := NewCouponServiceWithTxBeginner(&mockTxBeginner{}, couponRepo, &mockUserRepository{}, orderRepo)

	usage, err := svc.Redeem(context.Background(), 7, &model.RedeemCouponRequest{Code: "LOYALTYAAAA1111", OrderID: 3})

	assert.True(t, errors.Is(err, ErrNotOwner))
	assert.Nil(t, usage)
	assert.False(t, lookedUp)
}

func TestCouponService_Deactivate(t *testing.T) {
	var gotID int64
	couponRepo := &mockCouponRepository{
		deactivateFn: func(ctx context.Context, id int64) error {
			gotID = id
			return nil
		},
	}

	svc := NewCouponServiceWithTxBeginner(&mockTxBeginner{}, couponRepo, &mockUserRepository{}, &mockOrderRepository{})

	require.NoError(t, svc.Deactivate(context.Background(), 4))
	assert.Equal(t, int64(4), gotID)
}
