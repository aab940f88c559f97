package service

import "errors"

var (
	// ErrEmptyOrigin is returned when the trip origin is empty.
	ErrEmptyOrigin = errors.New("origin is required")

	// ErrEmptyDestination is returned when the trip destination is empty.
	ErrEmptyDestination = errors.New("destination is required")

	// ErrRouteUnavailable is returned when the route provider cannot
	// resolve origin and destination to a usable distance.
	ErrRouteUnavailable = errors.New("route unavailable for origin and destination")

	// ErrInvalidBookingID is returned when a booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidTransactionID is returned when a transaction ID is empty.
	ErrInvalidTransactionID = errors.New("invalid transaction id")

	// ErrInvalidCustomer is returned when required customer fields are missing.
	ErrInvalidCustomer = errors.New("customer name and email are required")

	// ErrInvalidPickupTime is returned when the pickup datetime is missing.
	ErrInvalidPickupTime = errors.New("pickup datetime is required")

	// ErrInvalidPassengerCount is returned when the passenger count is out of range.
	ErrInvalidPassengerCount = errors.New("passenger count must be between 1 and 8")

	// ErrInvalidVehicleType is returned when the vehicle type is unknown.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrInvalidBookingStatus is returned when a booking status value is unknown.
	ErrInvalidBookingStatus = errors.New("invalid booking status")

	// ErrInvalidPaymentMethod is returned when the payment method is empty.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrPaymentAlreadyExists is returned by Initiate when the booking
	// already has an active transaction. The existing transaction is
	// returned alongside this error.
	ErrPaymentAlreadyExists = errors.New("payment transaction already exists for booking")

	// ErrNotAuthorized is returned when capture or cancel is invoked on
	// a transaction that is not currently authorized.
	ErrNotAuthorized = errors.New("payment not in authorized state")

	// ErrNotProcessing is returned when a gateway confirmation arrives
	// for a transaction that is not awaiting one.
	ErrNotProcessing = errors.New("payment not in processing state")

	// ErrPaymentLocked is returned when another payment operation for
	// the same booking or transaction is in flight.
	ErrPaymentLocked = errors.New("payment operation already in progress")

	// ErrGatewayUnavailable is returned when the payment gateway call
	// fails or times out.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidCredentials is returned on a failed admin login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken is returned when an admin token is missing,
	// unknown or expired.
	ErrInvalidToken = errors.New("invalid or expired admin token")

	// ErrInvalidResetCode is returned when a password reset code does
	// not match or has expired.
	ErrInvalidResetCode = errors.New("invalid or expired reset code")

	// ErrInvalidResetToken is returned when a password reset token is
	// unknown, expired or not yet verified.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrWeakPassword is returned when a new admin password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)
