package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taxi/internal/domain"
	"taxi/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
	loc            *time.Location
}

// NewBookingHandler creates a new BookingHandler. Naive pickup
// timestamps are interpreted in loc, the business timezone.
func NewBookingHandler(bookingService *service.BookingService, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingHandler{bookingService: bookingService, loc: loc}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	PickupLocation  string `json:"pickup_location"`
	Destination     string `json:"destination"`
	PickupDatetime  string `json:"pickup_datetime"`
	PassengerCount  int    `json:"passenger_count"`
	VehicleType     string `json:"vehicle_type"`
	SpecialRequests string `json:"special_requests"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID              string  `json:"id"`
	CustomerName    string  `json:"customer_name"`
	CustomerEmail   string  `json:"customer_email"`
	CustomerPhone   string  `json:"customer_phone"`
	PickupLocation  string  `json:"pickup_location"`
	Destination     string  `json:"destination"`
	PickupDatetime  string  `json:"pickup_datetime"`
	PassengerCount  int     `json:"passenger_count"`
	VehicleType     string  `json:"vehicle_type"`
	SpecialRequests string  `json:"special_requests,omitempty"`
	TotalFare       float64 `json:"total_fare"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	CreatedAt       string  `json:"created_at"`
}

// CreateBookingResponse is the HTTP response for booking creation.
type CreateBookingResponse struct {
	Success        bool            `json:"success"`
	BookingID      string          `json:"booking_id"`
	Message        string          `json:"message"`
	BookingDetails BookingResponse `json:"booking_details"`
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	pickup, err := time.ParseInLocation(departureLayout, req.PickupDatetime, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pickup_datetime, expected YYYY-MM-DDTHH:MM:SS"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		PickupLocation:  req.PickupLocation,
		Destination:     req.Destination,
		PickupDatetime:  pickup,
		PassengerCount:  req.PassengerCount,
		VehicleType:     req.VehicleType,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CreateBookingResponse{
		Success:        true,
		BookingID:      booking.ID,
		Message:        "Buchung erfolgreich erstellt",
		BookingDetails: bookingResponse(booking),
	})
}

// GetBooking handles GET /bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}

// ListBookings handles GET /bookings?limit=N&email=E
func (h *BookingHandler) ListBookings(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), c.Query("email"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		response = append(response, bookingResponse(booking))
	}

	respondJSON(c, http.StatusOK, response)
}

// UpdateBookingStatusRequest is the HTTP request body for a status update.
type UpdateBookingStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBookingStatus handles PUT /bookings/:id/status (admin)
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}

func bookingResponse(booking *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:              booking.ID,
		CustomerName:    booking.CustomerName,
		CustomerEmail:   booking.CustomerEmail,
		CustomerPhone:   booking.CustomerPhone,
		PickupLocation:  booking.PickupLocation,
		Destination:     booking.Destination,
		PickupDatetime:  booking.PickupDatetime.Format(departureLayout),
		PassengerCount:  booking.PassengerCount,
		VehicleType:     string(booking.VehicleType),
		SpecialRequests: booking.SpecialRequests,
		TotalFare:       booking.TotalFare,
		Status:          string(booking.Status),
		PaymentStatus:   string(booking.PaymentStatus),
		CreatedAt:       booking.CreatedAt.Format(time.RFC3339),
	}
}
