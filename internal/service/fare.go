package service

import (
	"context"
	"math"
	"time"

	"taxi/internal/config"
	"taxi/internal/domain"
)

// Peak windows are inclusive hour ranges in the business timezone.
const (
	morningPeakStart = 7
	morningPeakEnd   = 9
	eveningPeakStart = 17
	eveningPeakEnd   = 19
)

// FareService computes fare breakdowns for trip requests.
type FareService struct {
	routes RouteProvider
	cfg    config.FareConfig
	loc    *time.Location
}

// NewFareService creates a new FareService. Falls back to UTC if the
// configured timezone cannot be loaded.
func NewFareService(routes RouteProvider, cfg config.FareConfig) *FareService {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}

	// Surcharges never discount a fare.
	if cfg.WeekendMultiplier < 1.0 {
		cfg.WeekendMultiplier = 1.0
	}
	if cfg.PeakMultiplier < 1.0 {
		cfg.PeakMultiplier = 1.0
	}

	return &FareService{
		routes: routes,
		cfg:    cfg,
		loc:    loc,
	}
}

// Compute prices a trip request. Route type and traffic factor pass
// through from the route provider unchanged; the traffic factor is
// informational and does not affect the price.
func (s *FareService) Compute(ctx context.Context, req domain.TripRequest) (*domain.FareBreakdown, error) {
	if req.Origin == "" {
		return nil, ErrEmptyOrigin
	}
	if req.Destination == "" {
		return nil, ErrEmptyDestination
	}

	route, err := s.routes.Resolve(ctx, req.Origin, req.Destination)
	if err != nil {
		return nil, err
	}
	if route.DistanceKm <= 0 {
		return nil, ErrRouteUnavailable
	}

	baseFare := s.cfg.BaseFare
	distanceFare := round2(route.DistanceKm * s.cfg.PerKmRate)
	subtotal := baseFare + distanceFare

	multiplier, info := s.surcharge(req.Departure)
	info.RouteType = route.RouteType
	info.TrafficFactor = route.TrafficFactor

	total := round2(subtotal * multiplier)

	return &domain.FareBreakdown{
		DistanceKm:          route.DistanceKm,
		BaseFare:            baseFare,
		DistanceFare:        distanceFare,
		SurchargeMultiplier: multiplier,
		SurchargeAmount:     round2(total - subtotal),
		TotalFare:           total,
		RouteInfo:           info,
	}, nil
}

// surcharge determines the time-of-day multiplier. Weekends override the
// peak-hour rule; a nil departure means no time-based surcharge at all.
func (s *FareService) surcharge(departure *time.Time) (float64, domain.RouteInfo) {
	var info domain.RouteInfo

	if departure == nil {
		return 1.0, info
	}

	local := departure.In(s.loc)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		info.IsWeekend = true
		return s.cfg.WeekendMultiplier, info
	}

	hour := local.Hour()
	if (hour >= morningPeakStart && hour <= morningPeakEnd) ||
		(hour >= eveningPeakStart && hour <= eveningPeakEnd) {
		info.IsPeakHour = true
		return s.cfg.PeakMultiplier, info
	}

	return 1.0, info
}

// Location returns the business timezone used to interpret naive
// departure timestamps.
func (s *FareService) Location() *time.Location {
	return s.loc
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
