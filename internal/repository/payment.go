package repository

import (
	"context"

	"taxi/internal/domain"
)

// PaymentRepository defines the persistence operations for payment
// transactions.
type PaymentRepository interface {
	// Create persists a new transaction. Returns ErrDuplicate if the
	// booking already has an active (non-terminal) transaction.
	Create(ctx context.Context, tx *domain.PaymentTransaction) error

	// GetByID retrieves a transaction by ID.
	GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error)

	// GetBySessionID retrieves a transaction by its gateway session
	// reference.
	GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error)

	// GetActiveByBookingID retrieves the booking's non-terminal
	// transaction. Returns nil, nil if there is none.
	GetActiveByBookingID(ctx context.Context, bookingID string) (*domain.PaymentTransaction, error)

	// ListByBooking retrieves all transactions for a booking, newest first.
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.PaymentTransaction, error)

	// ListAll retrieves every transaction, newest first.
	ListAll(ctx context.Context) ([]*domain.PaymentTransaction, error)

	// UpdateStatusFrom atomically moves a transaction from one status to
	// another. Returns ErrStaleStatus if the row was not in the expected
	// status, ErrNotFound if the transaction does not exist.
	UpdateStatusFrom(ctx context.Context, id string, from, to domain.PaymentStatus) error
}
