// Package repository provides data access layer implementations for the
// payment gateway.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nordcommerce/vipps-gateway/internal/db"
	"github.com/nordcommerce/vipps-gateway/internal/models"
)

// PaymentRepository defines the interface for payment data access.
//
// FindByRemoteID deliberately returns every match: the reconciliation
// engine requires exactly one and treats anything else as a correlation
// failure, so the repository must not guess.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindByRemoteID(ctx context.Context, remoteID, gateway string) ([]*models.Payment, error)
}

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	db *db.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(database *db.DB) PaymentRepository {
	return &paymentRepository{db: database}
}

const paymentColumns = `
	id, order_id, gateway, state, remote_state, remote_id,
	currency, amount, captured_amount, refunded_amount,
	completed_at, created_at, updated_at
`

// Create inserts a new payment
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	now := time.Now()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.Gateway,
		payment.State,
		payment.RemoteState,
		payment.RemoteID,
		payment.Currency,
		payment.Amount,
		payment.CapturedAmount,
		payment.RefundedAmount,
		payment.CompletedAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.ErrDuplicatePayment
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// Update persists the mutable fields of a payment
func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	query := `
		UPDATE payments
		SET state = $2,
		    remote_state = $3,
		    amount = $4,
		    captured_amount = $5,
		    refunded_amount = $6,
		    completed_at = $7,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.State,
		payment.RemoteState,
		payment.Amount,
		payment.CapturedAmount,
		payment.RefundedAmount,
		payment.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// FindByID retrieves a payment by its UUID
func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find payment by id: %w", err)
	}

	return payment, nil
}

// FindByRemoteID retrieves all payments matching a remote transaction id
// on a gateway
func (r *paymentRepository) FindByRemoteID(ctx context.Context, remoteID, gateway string) ([]*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE remote_id = $1 AND gateway = $2
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, remoteID, gateway)
	if err != nil {
		return nil, fmt.Errorf("failed to find payments by remote id: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var payment models.Payment
	err := row.Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.Gateway,
		&payment.State,
		&payment.RemoteState,
		&payment.RemoteID,
		&payment.Currency,
		&payment.Amount,
		&payment.CapturedAmount,
		&payment.RefundedAmount,
		&payment.CompletedAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
