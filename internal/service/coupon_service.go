package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/pkg/database"
)

const (
	couponPrefix      = "LOYALTY"
	couponCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	couponCodeLength  = 8

	// maxCodeAttempts bounds the generation retry loop so a pathological
	// collision streak fails loudly instead of spinning.
	maxCodeAttempts = 10
)

// CouponRepositoryInterface defines the interface for coupon data
// access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, c *model.CouponCode) error
	GetByCode(ctx context.Context, code string) (*model.CouponCode, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.CouponCode, error)
	InsertUsage(ctx context.Context, tx database.TxQuerier, u *model.CouponUsage) error
	IncrementUsage(ctx context.Context, tx database.TxQuerier, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.CouponCode, error)
	ListAll(ctx context.Context, f model.CouponFilter) ([]model.CouponCode, error)
	Deactivate(ctx context.Context, id int64) error
}

// UserByEmailInterface is the slice of user access coupon issuing
// needs.
type UserByEmailInterface interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// OrderGetterInterface is the slice of order access coupon redemption
// needs.
type OrderGetterInterface interface {
	GetByID(ctx context.Context, id int64) (*model.Order, error)
}

// CouponService provides business logic for personal coupon codes.
type CouponService struct {
	pool       database.TxBeginner
	couponRepo CouponRepositoryInterface
	userRepo   UserByEmailInterface
	orderRepo  OrderGetterInterface
}

// NewCouponService creates a new CouponService with the given pool and
// repositories.
func NewCouponService(pool *pgxpool.Pool, couponRepo CouponRepositoryInterface, userRepo UserByEmailInterface, orderRepo OrderGetterInterface) *CouponService {
	return &CouponService{
		pool:       pool,
		couponRepo: couponRepo,
		userRepo:   userRepo,
		orderRepo:  orderRepo,
	}
}

// NewCouponServiceWithTxBeginner creates a CouponService with a custom
// TxBeginner. Primarily used for testing.
func NewCouponServiceWithTxBeginner(pool database.TxBeginner, couponRepo CouponRepositoryInterface, userRepo UserByEmailInterface, orderRepo OrderGetterInterface) *CouponService {
	return &CouponService{
		pool:       pool,
		couponRepo: couponRepo,
		userRepo:   userRepo,
		orderRepo:  orderRepo,
	}
}

// Issue creates a personal coupon for the user identified by email.
// Code generation retries on unique-constraint collisions up to
// maxCodeAttempts; the database constraint is the uniqueness
// authority, not a pre-check read.
// Returns:
//   - ErrUserNotFound if no account matches the email
//   - ErrCodeGeneration if no unique code was found within the budget
func (s *CouponService) Issue(ctx context.Context, adminID int64, req *model.IssueCouponRequest) (*model.CouponCode, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	user, err := s.userRepo.GetByEmail(ctx, req.UserEmail)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCouponCode()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		coupon := &model.CouponCode{
			Code:               code,
			UserID:             user.ID,
			DiscountPercentage: req.DiscountPercentage,
			MaxUses:            req.MaxUses,
			ExpiresAt:          req.ExpiresAt,
			CreatedByAdmin:     &adminID,
		}
		err = s.couponRepo.Insert(ctx, coupon)
		if err == nil {
			return coupon, nil
		}
		if !errors.Is(err, ErrDuplicateCode) {
			return nil, err
		}
	}
	return nil, ErrCodeGeneration
}

func randomCouponCode() (string, error) {
	buf := make([]byte, couponCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = couponCodeCharset[int(b)%len(couponCodeCharset)]
	}
	return couponPrefix + string(buf), nil
}

// Validate checks whether a code is usable by the given user. Every
// failure mode collapses into the same outcome; callers are never told
// whether the code was missing, foreign, inactive, exhausted, or
// expired.
func (s *CouponService) Validate(ctx context.Context, userID int64, code string) (*model.CouponValidation, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return invalidCoupon(), nil
		}
		return nil, err
	}
	if !couponUsable(coupon, userID, time.Now()) {
		return invalidCoupon(), nil
	}
	return &model.CouponValidation{
		Valid:   true,
		Coupon:  coupon,
		Message: "Coupon is valid",
	}, nil
}

func invalidCoupon() *model.CouponValidation {
	return &model.CouponValidation{
		Valid:   false,
		Message: ErrCouponInvalid.Error(),
	}
}

func couponUsable(c *model.CouponCode, userID int64, now time.Time) bool {
	if c.UserID != userID || !c.IsActive {
		return false
	}
	if c.UsedCount >= c.MaxUses {
		return false
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return false
	}
	return true
}

// Redeem applies a coupon to one of the caller's orders. In a single
// transaction it locks the coupon row, re-validates it under the lock,
// appends the usage record, and increments used_count; the increment
// deactivates the coupon the moment it reaches max_uses.
// Returns:
//   - ErrCouponInvalid for every unusable-coupon condition
//   - ErrOrderNotFound / ErrNotOwner for a bad order reference
func (s *CouponService) Redeem(ctx context.Context, userID int64, req *model.RedeemCouponRequest) (*model.CouponUsage, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrNotOwner
	}

	coupon, err := s.couponRepo.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return nil, ErrCouponInvalid
		}
		return nil, err
	}

	var usage *model.CouponUsage
	err = database.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		// 1. Lock the coupon row (SELECT FOR UPDATE)
		locked, err := s.couponRepo.GetForUpdate(ctx, tx, coupon.ID)
		if err != nil {
			return err
		}

		// 2. Re-validate under the lock
		if !couponUsable(locked, userID, time.Now()) {
			return ErrCouponInvalid
		}

		// 3. Append the usage record
		discount := order.TotalAmount.
			Mul(decimal.NewFromInt(int64(locked.DiscountPercentage))).
			Div(decimal.NewFromInt(100))
		usage = &model.CouponUsage{
			CouponID:       locked.ID,
			OrderID:        order.ID,
			DiscountAmount: discount,
		}
		if err := s.couponRepo.InsertUsage(ctx, tx, usage); err != nil {
			return err
		}

		// 4. Increment used_count, deactivating at the ceiling
		return s.couponRepo.IncrementUsage(ctx, tx, locked.ID)
	})
	if err != nil {
		return nil, err
	}
	return usage, nil
}

// ListMine returns the caller's coupons, newest first.
func (s *CouponService) ListMine(ctx context.Context, userID int64) ([]model.CouponCode, error) {
	return s.couponRepo.ListByUser(ctx, userID)
}

// ListAll returns coupons matching the filter, newest first.
func (s *CouponService) ListAll(ctx context.Context, f model.CouponFilter) ([]model.CouponCode, error) {
	return s.couponRepo.ListAll(ctx, f)
}

// Deactivate turns a coupon off regardless of remaining uses.
func (s *CouponService) Deactivate(ctx context.Context, id int64) error {
	return s.couponRepo.Deactivate(ctx, id)
}
