package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxi/internal/domain"
	"taxi/internal/service"
)

// departureLayout is the timezone-naive timestamp format accepted for
// departure times, interpreted in the business timezone.
const departureLayout = "2006-01-02T15:04:05"

// FareHandler handles HTTP requests for fare quotes.
type FareHandler struct {
	fareService *service.FareService
}

// NewFareHandler creates a new FareHandler.
func NewFareHandler(fareService *service.FareService) *FareHandler {
	return &FareHandler{fareService: fareService}
}

// CalculatePriceRequest is the HTTP request body for a fare quote.
type CalculatePriceRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
}

// RouteInfoResponse is the route metadata part of a fare quote.
type RouteInfoResponse struct {
	RouteType     string  `json:"route_type"`
	TrafficFactor float64 `json:"traffic_factor"`
	IsWeekend     bool    `json:"is_weekend"`
	IsPeakHour    bool    `json:"is_peak_hour"`
}

// CalculatePriceResponse is the HTTP response for a fare quote.
type CalculatePriceResponse struct {
	DistanceKm          float64           `json:"distance_km"`
	BaseFare            float64           `json:"base_fare"`
	DistanceFare        float64           `json:"distance_fare"`
	SurchargeMultiplier float64           `json:"surcharge_multiplier"`
	SurchargeAmount     float64           `json:"surcharge_amount"`
	TotalFare           float64           `json:"total_fare"`
	RouteInfo           RouteInfoResponse `json:"route_info"`
}

// CalculatePrice handles POST /calculate-price
func (h *FareHandler) CalculatePrice(c *gin.Context) {
	var req CalculatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var departure *time.Time
	if req.DepartureTime != "" {
		parsed, err := time.ParseInLocation(departureLayout, req.DepartureTime, h.fareService.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid departure_time, expected YYYY-MM-DDTHH:MM:SS"})
			return
		}
		departure = &parsed
	}

	fare, err := h.fareService.Compute(c.Request.Context(), domain.TripRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Departure:   departure,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, fareResponse(fare))
}

func fareResponse(fare *domain.FareBreakdown) CalculatePriceResponse {
	return CalculatePriceResponse{
		DistanceKm:          fare.DistanceKm,
		BaseFare:            fare.BaseFare,
		DistanceFare:        fare.DistanceFare,
		SurchargeMultiplier: fare.SurchargeMultiplier,
		SurchargeAmount:     fare.SurchargeAmount,
		TotalFare:           fare.TotalFare,
		RouteInfo: RouteInfoResponse{
			RouteType:     string(fare.RouteInfo.RouteType),
			TrafficFactor: fare.RouteInfo.TrafficFactor,
			IsWeekend:     fare.RouteInfo.IsWeekend,
			IsPeakHour:    fare.RouteInfo.IsPeakHour,
		},
	}
}
