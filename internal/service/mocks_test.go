package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/pkg/database"
)

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of database.TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}

// mockProductLocker is a mock implementation of ProductLockerInterface.
type mockProductLocker struct {
	getForUpdateFn   func(ctx context.Context, tx database.TxQuerier, id int64) (*model.Product, error)
	decrementStockFn func(ctx context.Context, tx database.TxQuerier, id int64, qty int) error
}

func (m *mockProductLocker) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.Product, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrProductNotFound
}

func (m *mockProductLocker) DecrementStock(ctx context.Context, tx database.TxQuerier, id int64, qty int) error {
	if m.decrementStockFn != nil {
		return m.decrementStockFn(ctx, tx, id, qty)
	}
	return nil
}

// mockOrderRepository is a mock implementation of
// OrderRepositoryInterface.
type mockOrderRepository struct {
	insertOrderFn  func(ctx context.Context, tx database.TxQuerier, o *model.Order) error
	insertItemFn   func(ctx context.Context, tx database.TxQuerier, item *model.OrderItem) error
	getByIDFn      func(ctx context.Context, id int64) (*model.Order, error)
	listByUserFn   func(ctx context.Context, userID int64, offset, limit int) ([]model.Order, error)
	listAllFn      func(ctx context.Context, f model.OrderFilter) ([]model.Order, error)
	updateStatusFn func(ctx context.Context, id int64, status string) error
}

func (m *mockOrderRepository) InsertOrder(ctx context.Context, tx database.TxQuerier, o *model.Order) error {
	if m.insertOrderFn != nil {
		return m.insertOrderFn(ctx, tx, o)
	}
	o.ID = 1
	return nil
}

func (m *mockOrderRepository) InsertItem(ctx context.Context, tx database.TxQuerier, item *model.OrderItem) error {
	if m.insertItemFn != nil {
		return m.insertItemFn(ctx, tx, item)
	}
	return nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrOrderNotFound
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]model.Order, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, offset, limit)
	}
	return []model.Order{}, nil
}

func (m *mockOrderRepository) ListAll(ctx context.Context, f model.OrderFilter) ([]model.Order, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx, f)
	}
	return []model.Order{}, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

// mockPaymentProofRepository is a mock implementation of
// PaymentProofRepositoryInterface.
type mockPaymentProofRepository struct {
	insertFn      func(ctx context.Context, p *model.PaymentProof) error
	getByIDFn     func(ctx context.Context, id int64) (*model.PaymentProof, error)
	listByOrderFn func(ctx context.Context, orderID int64) ([]model.PaymentProof, error)
	deleteFn      func(ctx context.Context, id int64) error
}

func (m *mockPaymentProofRepository) Insert(ctx context.Context, p *model.PaymentProof) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, p)
	}
	return nil
}

func (m *mockPaymentProofRepository) GetByID(ctx context.Context, id int64) (*model.PaymentProof, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrPaymentProofNotFound
}

func (m *mockPaymentProofRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.PaymentProof, error) {
	if m.listByOrderFn != nil {
		return m.listByOrderFn(ctx, orderID)
	}
	return []model.PaymentProof{}, nil
}

func (m *mockPaymentProofRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockCouponRepository is a mock implementation of
// CouponRepositoryInterface.
type mockCouponRepository struct {
	insertFn         func(ctx context.Context, c *model.CouponCode) error
	getByCodeFn      func(ctx context.Context, code string) (*model.CouponCode, error)
	getForUpdateFn   func(ctx context.Context, tx database.TxQuerier, id int64) (*model.CouponCode, error)
	insertUsageFn    func(ctx context.Context, tx database.TxQuerier, u *model.CouponUsage) error
	incrementUsageFn func(ctx context.Context, tx database.TxQuerier, id int64) error
	listByUserFn     func(ctx context.Context, userID int64) ([]model.CouponCode, error)
	listAllFn        func(ctx context.Context, f model.CouponFilter) ([]model.CouponCode, error)
	deactivateFn     func(ctx context.Context, id int64) error
}

func (m *mockCouponRepository) Insert(ctx context.Context, c *model.CouponCode) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, c)
	}
	c.ID = 1
	c.IsActive = true
	return nil
}

func (m *mockCouponRepository) GetByCode(ctx context.Context, code string) (*model.CouponCode, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, ErrCouponNotFound
}

func (m *mockCouponRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id int64) (*model.CouponCode, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrCouponNotFound
}

func (m *mockCouponRepository) InsertUsage(ctx context.Context, tx database.TxQuerier, u *model.CouponUsage) error {
	if m.insertUsageFn != nil {
		return m.insertUsageFn(ctx, tx, u)
	}
	return nil
}

func (m *mockCouponRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, id int64) error {
	if m.incrementUsageFn != nil {
		return m.incrementUsageFn(ctx, tx, id)
	}
	return nil
}

func (m *mockCouponRepository) ListByUser(ctx context.Context, userID int64) ([]model.CouponCode, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []model.CouponCode{}, nil
}

func (m *mockCouponRepository) ListAll(ctx context.Context, f model.CouponFilter) ([]model.CouponCode, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx, f)
	}
	return []model.CouponCode{}, nil
}

func (m *mockCouponRepository) Deactivate(ctx context.Context, id int64) error {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, id)
	}
	return nil
}

// mockUserRepository is a mock implementation of the user access the
// services under test need.
type mockUserRepository struct {
	insertFn          func(ctx context.Context, u *model.User) error
	getByEmailFn      func(ctx context.Context, email string) (*model.User, error)
	getByIDFn         func(ctx context.Context, id int64) (*model.User, error)
	updateFn          func(ctx context.Context, id int64, req *model.UpdateUserRequest) (*model.User, error)
	setResetTokenFn   func(ctx context.Context, id int64, token string, expires time.Time) error
	getByResetTokenFn func(ctx context.Context, token string) (*model.User, error)
	setPasswordFn     func(ctx context.Context, id int64, hashed string) error
	countOrdersFn     func(ctx context.Context, id int64) (int, error)
}

func (m *mockUserRepository) Insert(ctx context.Context, u *model.User) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, u)
	}
	u.ID = 1
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, id int64, req *model.UpdateUserRequest) (*model.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	if m.setResetTokenFn != nil {
		return m.setResetTokenFn(ctx, id, token, expires)
	}
	return nil
}

func (m *mockUserRepository) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	if m.getByResetTokenFn != nil {
		return m.getByResetTokenFn(ctx, token)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) SetPassword(ctx context.Context, id int64, hashed string) error {
	if m.setPasswordFn != nil {
		return m.setPasswordFn(ctx, id, hashed)
	}
	return nil
}

func (m *mockUserRepository) CountOrders(ctx context.Context, id int64) (int, error) {
	if m.countOrdersFn != nil {
		return m.countOrdersFn(ctx, id)
	}
	return 0, nil
}

// mockDesignRepository is a mock implementation of
// DesignRepositoryInterface.
type mockDesignRepository struct {
	insertFn              func(ctx context.Context, d *model.Design) error
	getByIDFn             func(ctx context.Context, id int64) (*model.Design, error)
	listFn                func(ctx context.Context, f model.DesignFilter) ([]model.Design, error)
	updateFn              func(ctx context.Context, id, userID int64, req *model.UpdateDesignRequest) (*model.Design, error)
	updateStatusFn        func(ctx context.Context, id int64, status string) (*model.Design, error)
	deleteFn              func(ctx context.Context, id, userID int64) error
	upsertVoteFn          func(ctx context.Context, tx database.TxQuerier, v *model.DesignVote) error
	deleteVoteFn          func(ctx context.Context, tx database.TxQuerier, designID, userID int64) error
	recomputeTotalVotesFn func(ctx context.Context, tx database.TxQuerier, designID int64) (int, error)
	getUserVoteFn         func(ctx context.Context, designID, userID int64) (*model.DesignVote, error)
	voteCountsFn          func(ctx context.Context, designID int64) (int, int, error)
}

func (m *mockDesignRepository) Insert(ctx context.Context, d *model.Design) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, d)
	}
	d.ID = 1
	return nil
}

func (m *mockDesignRepository) GetByID(ctx context.Context, id int64) (*model.Design, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrDesignNotFound
}

func (m *mockDesignRepository) List(ctx context.Context, f model.DesignFilter) ([]model.Design, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return []model.Design{}, nil
}

func (m *mockDesignRepository) Update(ctx context.Context, id, userID int64, req *model.UpdateDesignRequest) (*model.Design, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, userID, req)
	}
	return nil, ErrDesignNotFound
}

func (m *mockDesignRepository) UpdateStatus(ctx context.Context, id int64, status string) (*model.Design, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil, ErrDesignNotFound
}

func (m *mockDesignRepository) Delete(ctx context.Context, id, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func (m *mockDesignRepository) UpsertVote(ctx context.Context, tx database.TxQuerier, v *model.DesignVote) error {
	if m.upsertVoteFn != nil {
		return m.upsertVoteFn(ctx, tx, v)
	}
	return nil
}

func (m *mockDesignRepository) DeleteVote(ctx context.Context, tx database.TxQuerier, designID, userID int64) error {
	if m.deleteVoteFn != nil {
		return m.deleteVoteFn(ctx, tx, designID, userID)
	}
	return nil
}

func (m *mockDesignRepository) RecomputeTotalVotes(ctx context.Context, tx database.TxQuerier, designID int64) (int, error) {
	if m.recomputeTotalVotesFn != nil {
		return m.recomputeTotalVotesFn(ctx, tx, designID)
	}
	return 0, nil
}

func (m *mockDesignRepository) GetUserVote(ctx context.Context, designID, userID int64) (*model.DesignVote, error) {
	if m.getUserVoteFn != nil {
		return m.getUserVoteFn(ctx, designID, userID)
	}
	return nil, nil
}

func (m *mockDesignRepository) VoteCounts(ctx context.Context, designID int64) (int, int, error) {
	if m.voteCountsFn != nil {
		return m.voteCountsFn(ctx, designID)
	}
	return 0, 0, nil
}

// mockReviewRepository is a mock implementation of
// ReviewRepositoryInterface.
type mockReviewRepository struct {
	insertFn        func(ctx context.Context, rv *model.Review) error
	getByIDFn       func(ctx context.Context, id int64) (*model.Review, error)
	updateFn        func(ctx context.Context, id, userID int64, req *model.UpdateReviewRequest) (*model.Review, error)
	setImageFn      func(ctx context.Context, id int64, imageURL string, fileName *string, fileSize *int64) error
	deleteFn        func(ctx context.Context, id, userID int64) error
	listByProductFn func(ctx context.Context, productID int64, offset, limit int) ([]model.Review, error)
	listByUserFn    func(ctx context.Context, userID int64) ([]model.Review, error)
}

func (m *mockReviewRepository) Insert(ctx context.Context, rv *model.Review) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, rv)
	}
	rv.ID = 1
	return nil
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrReviewNotFound
}

func (m *mockReviewRepository) Update(ctx context.Context, id, userID int64, req *model.UpdateReviewRequest) (*model.Review, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, userID, req)
	}
	return nil, ErrReviewNotFound
}

func (m *mockReviewRepository) SetImage(ctx context.Context, id int64, imageURL string, fileName *string, fileSize *int64) error {
	if m.setImageFn != nil {
		return m.setImageFn(ctx, id, imageURL, fileName, fileSize)
	}
	return nil
}

func (m *mockReviewRepository) Delete(ctx context.Context, id, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID int64, offset, limit int) ([]model.Review, error) {
	if m.listByProductFn != nil {
		return m.listByProductFn(ctx, productID, offset, limit)
	}
	return []model.Review{}, nil
}

func (m *mockReviewRepository) ListByUser(ctx context.Context, userID int64) ([]model.Review, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []model.Review{}, nil
}

// mockProductGetter is a mock implementation of
// ProductGetterInterface.
type mockProductGetter struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Product, error)
}

func (m *mockProductGetter) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrProductNotFound
}

// mockVideoReviewRepository is a mock implementation of
// VideoReviewRepositoryInterface.
type mockVideoReviewRepository struct {
	insertFn       func(ctx context.Context, v *model.VideoReview) error
	getByIDFn      func(ctx context.Context, id int64) (*model.VideoReview, error)
	listFn         func(ctx context.Context, f model.VideoReviewFilter) ([]model.VideoReview, error)
	updateFn       func(ctx context.Context, id, userID int64, req *model.UpdateVideoReviewRequest) (*model.VideoReview, error)
	updateStatusFn func(ctx context.Context, id int64, status string, notes *string) (*model.VideoReview, error)
	deleteFn       func(ctx context.Context, id, userID int64) error
}

func (m *mockVideoReviewRepository) Insert(ctx context.Context, v *model.VideoReview) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, v)
	}
	v.ID = 1
	return nil
}

func (m *mockVideoReviewRepository) GetByID(ctx context.Context, id int64) (*model.VideoReview, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrVideoReviewNotFound
}

func (m *mockVideoReviewRepository) List(ctx context.Context, f model.VideoReviewFilter) ([]model.VideoReview, error) {
	if m.listFn != nil {
		return m.listFn(ctx, f)
	}
	return []model.VideoReview{}, nil
}

func (m *mockVideoReviewRepository) Update(ctx context.Context, id, userID int64, req *model.UpdateVideoReviewRequest) (*model.VideoReview, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, userID, req)
	}
	return nil, ErrVideoReviewNotFound
}

func (m *mockVideoReviewRepository) UpdateStatus(ctx context.Context, id int64, status string, notes *string) (*model.VideoReview, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, notes)
	}
	return nil, ErrVideoReviewNotFound
}

func (m *mockVideoReviewRepository) Delete(ctx context.Context, id, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return nil
}

func int64Ptr(i int64) *int64 {
	return &i
}
