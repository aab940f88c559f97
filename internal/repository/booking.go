package repository

import (
	"context"

	"taxi/internal/domain"
)

// BookingFilter narrows List results. A zero filter returns everything.
type BookingFilter struct {
	Email string
	Limit int
}

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// List retrieves bookings matching the filter, newest first.
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error)

	// UpdateStatus updates the booking status.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error

	// UpdatePaymentStatus updates the payment status mirror on a booking.
	UpdatePaymentStatus(ctx context.Context, id string, status domain.BookingPaymentStatus) error
}
