package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"taxi/internal/domain"
	"taxi/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations. The payment_transactions table carries a partial unique
// index on booking_id for non-terminal statuses (migrations/001_init.sql),
// so a concurrent second initiate surfaces here instead of inserting a
// duplicate.
const uniqueViolation = "23505"

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `
	id, booking_id, amount, payment_method, capture_method,
	status, session_id, payment_url, created_at, updated_at
`

// Create persists a new transaction.
func (r *PaymentRepository) Create(ctx context.Context, tx *domain.PaymentTransaction) error {
	query := `
		INSERT INTO payment_transactions (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		tx.ID,
		tx.BookingID,
		tx.Amount,
		tx.PaymentMethod,
		tx.CaptureMethod,
		tx.Status,
		tx.SessionID,
		tx.PaymentURL,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

// GetByID retrieves a transaction by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE id = $1`

	tx, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return tx, nil
}

// GetBySessionID retrieves a transaction by its gateway session reference.
func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE session_id = $1`

	tx, err := scanPayment(r.q.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return tx, nil
}

// GetActiveByBookingID retrieves the booking's non-terminal transaction.
// Returns nil, nil if there is none.
func (r *PaymentRepository) GetActiveByBookingID(ctx context.Context, bookingID string) (*domain.PaymentTransaction, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payment_transactions
		WHERE booking_id = $1 AND status IN ($2, $3)
	`

	tx, err := scanPayment(r.q.QueryRowContext(ctx, query, bookingID,
		domain.PaymentStatusProcessing, domain.PaymentStatusAuthorized))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return tx, nil
}

// ListByBooking retrieves all transactions for a booking, newest first.
func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domain.PaymentTransaction, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payment_transactions
		WHERE booking_id = $1
		ORDER BY created_at DESC
	`
	return r.queryPayments(ctx, query, bookingID)
}

// ListAll retrieves every transaction, newest first.
func (r *PaymentRepository) ListAll(ctx context.Context) ([]*domain.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions ORDER BY created_at DESC`
	return r.queryPayments(ctx, query)
}

// UpdateStatusFrom atomically moves a transaction from one status to
// another. The WHERE clause on the old status makes concurrent writers
// serialize: exactly one update sees the expected status.
func (r *PaymentRepository) UpdateStatusFrom(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	query := `
		UPDATE payment_transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a missing row from a status race.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return repository.ErrStaleStatus
	}

	return nil
}

func (r *PaymentRepository) queryPayments(ctx context.Context, query string, args ...any) ([]*domain.PaymentTransaction, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*domain.PaymentTransaction
	for rows.Next() {
		tx, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

func scanPayment(row rowScanner) (*domain.PaymentTransaction, error) {
	var tx domain.PaymentTransaction
	err := row.Scan(
		&tx.ID,
		&tx.BookingID,
		&tx.Amount,
		&tx.PaymentMethod,
		&tx.CaptureMethod,
		&tx.Status,
		&tx.SessionID,
		&tx.PaymentURL,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
