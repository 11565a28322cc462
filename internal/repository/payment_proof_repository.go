package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/craftstore/backend/internal/model"
	"github.com/craftstore/backend/internal/service"
)

// PaymentProofRepository provides data access for order payment proofs.
type PaymentProofRepository struct {
	pool Pool
}

// NewPaymentProofRepository creates a new PaymentProofRepository with
// the given pool.
func NewPaymentProofRepository(pool *pgxpool.Pool) *PaymentProofRepository {
	return &PaymentProofRepository{pool: pool}
}

// NewPaymentProofRepositoryWithPool creates a PaymentProofRepository
// with a custom pool interface. This is primarily used for testing.
func NewPaymentProofRepositoryWithPool(pool Pool) *PaymentProofRepository {
	return &PaymentProofRepository{pool: pool}
}

const paymentProofColumns = `id, order_id, image_url, description,
	file_name, file_size, created_at`

func scanPaymentProof(row pgx.Row) (*model.PaymentProof, error) {
	var p model.PaymentProof
	err := row.Scan(
		&p.ID,
		&p.OrderID,
		&p.ImageURL,
		&p.Description,
		&p.FileName,
		&p.FileSize,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Insert persists a new payment proof and fills in its generated
// fields.
func (r *PaymentProofRepository) Insert(ctx context.Context, p *model.PaymentProof) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO payment_proofs (order_id, image_url, description,
			file_name, file_size, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, created_at`,
		p.OrderID, p.ImageURL, p.Description, p.FileName, p.FileSize,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment proof: %w", err)
	}
	return nil
}

// GetByID retrieves a payment proof by id.
// Returns service.ErrPaymentProofNotFound if it does not exist.
func (r *PaymentProofRepository) GetByID(ctx context.Context, id int64) (*model.PaymentProof, error) {
	p, err := scanPaymentProof(r.pool.QueryRow(ctx,
		`SELECT `+paymentProofColumns+` FROM payment_proofs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrPaymentProofNotFound
		}
		return nil, fmt.Errorf("get payment proof %d: %w", id, err)
	}
	return p, nil
}

// ListByOrder returns all proofs attached to an order, oldest first.
func (r *PaymentProofRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.PaymentProof, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentProofColumns+` FROM payment_proofs
		 WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list proofs for order %d: %w", orderID, err)
	}
	defer rows.Close()

	proofs := []model.PaymentProof{}
	for rows.Next() {
		p, err := scanPaymentProof(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment proof: %w", err)
		}
		proofs = append(proofs, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment proofs: %w", err)
	}
	return proofs, nil
}

// Delete removes a payment proof.
// Returns service.ErrPaymentProofNotFound if nothing was deleted.
func (r *PaymentProofRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM payment_proofs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment proof %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrPaymentProofNotFound
	}
	return nil
}
