package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/repository"
	"taxi/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status
// codes. Client-fault conditions map to 4xx, upstream-fault conditions
// (route provider, payment gateway) to 5xx. The error message carries
// the distinguishing detail; callers match on it, so it is always
// forwarded verbatim.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrEmptyOrigin),
		errors.Is(err, service.ErrEmptyDestination),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidTransactionID),
		errors.Is(err, service.ErrInvalidCustomer),
		errors.Is(err, service.ErrInvalidPickupTime),
		errors.Is(err, service.ErrInvalidPassengerCount),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrInvalidBookingStatus),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidResetCode),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest

	// State machine conflicts - reported as client faults with the
	// precise condition in the message.
	case errors.Is(err, service.ErrPaymentAlreadyExists),
		errors.Is(err, service.ErrNotAuthorized),
		errors.Is(err, service.ErrNotProcessing),
		errors.Is(err, service.ErrPaymentLocked):
		return http.StatusBadRequest

	// Auth errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized

	// Upstream faults
	case errors.Is(err, service.ErrRouteUnavailable),
		errors.Is(err, service.ErrGatewayUnavailable):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
