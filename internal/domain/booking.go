package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingPaymentStatus mirrors the state of a booking's payment
// transaction on the booking record itself.
type BookingPaymentStatus string

const (
	BookingPaymentPending    BookingPaymentStatus = "pending"
	BookingPaymentProcessing BookingPaymentStatus = "processing"
	BookingPaymentAuthorized BookingPaymentStatus = "authorized"
	BookingPaymentPaid       BookingPaymentStatus = "paid"
	BookingPaymentCancelled  BookingPaymentStatus = "cancelled"
	BookingPaymentFailed     BookingPaymentStatus = "failed"
)

// VehicleType is the requested vehicle class.
type VehicleType string

const (
	VehicleTypeStandard VehicleType = "standard"
	VehicleTypeVan      VehicleType = "van"
)

// Booking represents a customer taxi booking. TotalFare is a snapshot of
// the fare breakdown at creation time; PaymentStatus is the only field
// the payment subsystem mutates.
type Booking struct {
	ID              string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PickupLocation  string
	Destination     string
	PickupDatetime  time.Time
	PassengerCount  int
	VehicleType     VehicleType
	SpecialRequests string
	TotalFare       float64
	Status          BookingStatus
	PaymentStatus   BookingPaymentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
