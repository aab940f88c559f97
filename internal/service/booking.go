package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxi/internal/domain"
	"taxi/internal/repository"
)

// BookingService handles booking creation and lookup. The fare stored on
// a booking is a snapshot taken at creation time.
type BookingService struct {
	bookingRepo repository.BookingRepository
	fares       *FareService
	notifier    *NotificationService
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	fares *FareService,
	notifier *NotificationService,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		fares:       fares,
		notifier:    notifier,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PickupLocation  string
	Destination     string
	PickupDatetime  time.Time
	PassengerCount  int
	VehicleType     string
	SpecialRequests string
}

// CreateBooking validates the request, prices the trip with the pickup
// time as departure, and persists the booking in pending state.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.CustomerName == "" || req.CustomerEmail == "" {
		return nil, ErrInvalidCustomer
	}
	if req.PickupLocation == "" {
		return nil, ErrEmptyOrigin
	}
	if req.Destination == "" {
		return nil, ErrEmptyDestination
	}
	if req.PickupDatetime.IsZero() {
		return nil, ErrInvalidPickupTime
	}
	if req.PassengerCount < 1 || req.PassengerCount > 8 {
		return nil, ErrInvalidPassengerCount
	}

	vehicleType := domain.VehicleType(req.VehicleType)
	switch vehicleType {
	case domain.VehicleTypeStandard, domain.VehicleTypeVan:
	case "":
		vehicleType = domain.VehicleTypeStandard
	default:
		return nil, ErrInvalidVehicleType
	}

	departure := req.PickupDatetime
	fare, err := s.fares.Compute(ctx, domain.TripRequest{
		Origin:      req.PickupLocation,
		Destination: req.Destination,
		Departure:   &departure,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:              uuid.New().String(),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		PickupLocation:  req.PickupLocation,
		Destination:     req.Destination,
		PickupDatetime:  req.PickupDatetime,
		PassengerCount:  req.PassengerCount,
		VehicleType:     vehicleType,
		SpecialRequests: req.SpecialRequests,
		TotalFare:       fare.TotalFare,
		Status:          domain.BookingStatusPending,
		PaymentStatus:   domain.BookingPaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyBookingConfirmation(ctx, booking)
	}

	return booking, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// ListBookings retrieves bookings, optionally filtered by customer email
// and capped by limit.
func (s *BookingService) ListBookings(ctx context.Context, email string, limit int) ([]*domain.Booking, error) {
	return s.bookingRepo.List(ctx, repository.BookingFilter{
		Email: email,
		Limit: limit,
	})
}

// UpdateBookingStatus moves a booking to a new status (admin operation).
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	switch status {
	case domain.BookingStatusPending, domain.BookingStatusConfirmed,
		domain.BookingStatusCompleted, domain.BookingStatusCancelled:
	default:
		return nil, ErrInvalidBookingStatus
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyBookingStatusChanged(ctx, booking)
	}

	return booking, nil
}
