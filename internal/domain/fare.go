package domain

import "time"

// RouteType classifies the kind of road a route mostly uses.
type RouteType string

const (
	RouteTypeHighway   RouteType = "highway"
	RouteTypeInterCity RouteType = "inter_city"
	RouteTypeSuburban  RouteType = "suburban"
	RouteTypeLocal     RouteType = "local"
)

// Route is what the route provider resolves for an origin/destination pair.
type Route struct {
	DistanceKm    float64
	RouteType     RouteType
	TrafficFactor float64 // informational, >= 1.0
}

// TripRequest is a fare quote request. Departure is optional; a nil
// departure means no time-based surcharge is evaluated.
type TripRequest struct {
	Origin      string
	Destination string
	Departure   *time.Time
}

// RouteInfo is the qualitative route metadata returned with a fare.
// IsPeakHour is set for weekday departures in the peak windows even when
// the configured peak multiplier is 1.0, so peak departures stay
// distinguishable from normal ones.
type RouteInfo struct {
	RouteType     RouteType
	TrafficFactor float64
	IsWeekend     bool
	IsPeakHour    bool
}

// FareBreakdown is a fully priced trip. The surcharge is carried as an
// explicit multiplier and amount rather than left for callers to derive
// from subtotal vs total.
type FareBreakdown struct {
	DistanceKm          float64
	BaseFare            float64
	DistanceFare        float64
	SurchargeMultiplier float64
	SurchargeAmount     float64
	TotalFare           float64
	RouteInfo           RouteInfo
}
