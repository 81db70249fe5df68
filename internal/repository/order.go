package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nordcommerce/vipps-gateway/internal/db"
	"github.com/nordcommerce/vipps-gateway/internal/models"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
}

// orderRepository implements OrderRepository
type orderRepository struct {
	db *db.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(database *db.DB) OrderRepository {
	return &orderRepository{db: database}
}

// FindByID retrieves an order by its UUID
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT id, number, email, currency, total,
		       auth_token, current_transaction_id, poll_count,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order models.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Number,
		&order.Email,
		&order.Currency,
		&order.Total,
		&order.AuthToken,
		&order.CurrentTransactionID,
		&order.PollCount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order by id: %w", err)
	}

	return &order, nil
}

// Update persists the correlation state of an order
func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET email = $2,
		    auth_token = $3,
		    current_transaction_id = $4,
		    poll_count = $5,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.Email,
		order.AuthToken,
		order.CurrentTransactionID,
		order.PollCount,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
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
