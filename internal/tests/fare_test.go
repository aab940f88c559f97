package tests

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"taxi/internal/config"
	"taxi/internal/domain"
	"taxi/internal/service"
)

// ──────────────────────────────────────────────
// 1. FARE CALCULATION
// ──────────────────────────────────────────────

func defaultFareConfig() config.FareConfig {
	return config.FareConfig{
		BaseFare:          6.80,
		PerKmRate:         4.20,
		WeekendMultiplier: 1.20,
		PeakMultiplier:    1.0,
		Timezone:          "Europe/Zurich",
	}
}

func newFareService(t *testing.T) *service.FareService {
	t.Helper()
	return service.NewFareService(service.NewTableRouteProvider(), defaultFareConfig())
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFare_LuzernZuerich_NoDeparture(t *testing.T) {
	t.Parallel()

	svc := newFareService(t)

	fare, err := svc.Compute(context.Background(), domain.TripRequest{
		Origin:      "Luzern",
		Destination: "Zürich",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !floatEq(fare.DistanceKm, 46.4) {
		t.Errorf("expected distance 46.4, got %v", fare.DistanceKm)
	}
	if !floatEq(fare.BaseFare, 6.80) {
		t.Errorf("expected base fare 6.80, got %v", fare.BaseFare)
	}
	if !floatEq(fare.DistanceFare, 194.88) {
		t.Errorf("expected distance fare 194.88, got %v", fare.DistanceFare)
	}
	if !floatEq(fare.SurchargeMultiplier, 1.0) {
		t.Errorf("expected multiplier 1.0 without departure, got %v", fare.SurchargeMultiplier)
	}
	if !floatEq(fare.TotalFare, 201.68) {
		t.Errorf("expected total 201.68, got %v", fare.TotalFare)
	}
	if fare.RouteInfo.IsWeekend || fare.RouteInfo.IsPeakHour {
		t.Error("expected no time-based flags without departure")
	}
}

func TestFare_SundayDeparture_WeekendSurcharge(t *testing.T) {
	t.Parallel()

	svc := newFareService(t)

	// Sunday morning in the business timezone.
	departure := time.Date(2025, 6, 15, 10, 30, 0, 0, svc.Location())

	fare, err := svc.Compute(context.Background(), domain.TripRequest{
		Origin:      "Luzern",
		Destination: "Zürich",
		Departure:   &departure,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !fare.RouteInfo.IsWeekend {
		t.Error("expected weekend flag to be set")
	}
	if !floatEq(fare.SurchargeMultiplier, 1.20) {
		t.Errorf("expected multiplier 1.20, got %v", fare.SurchargeMultiplier)
	}
	// 6.80 + 194.88 = 201.68; 201.68 * 1.2 = 242.016 -> 242.02
	if !floatEq(fare.TotalFare, 242.02) {
		t.Errorf("expected total 242.02, got %v", fare.TotalFare)
	}
	if !floatEq(fare.SurchargeAmount, 40.34) {
		t.Errorf("expected surcharge amount 40.34, got %v", fare.SurchargeAmount)
	}
}

func TestFare_WeekdayOffPeak_NoSurcharge(t *testing.T) {
	t.Parallel()

	svc := newFareService(t)

	// Wednesday at noon.
	departure := time.Date(2025, 6, 11, 12, 0, 0, 0, svc.Location())

	fare, err := svc.Compute(context.Background(), domain.TripRequest{
		Origin:      "Luzern",
		Destination: "Zürich",
		Departure:   &departure,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if fare.RouteInfo.IsWeekend || fare.RouteInfo.IsPeakHour {
		t.Error("expected no surcharge flags on a weekday at noon")
	}
	if !floatEq(fare.TotalFare, 201.68) {
		t.Errorf("expected total 201.68, got %v", fare.TotalFare)
	}
}

func TestFare_WeekdayPeakHour_FlaggedButNotPriced(t *testing.T) {
	t.Parallel()

	svc := newFareService(t)

	cases := []struct {
		name string
		hour int
	}{
		{"morning window start", 7},
		{"morning window end", 9},
		{"evening window start", 17},
		{"evening window end", 19},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			departure := time.Date(2025, 6, 11, tc.hour, 15, 0, 0, svc.Location())

			fare, err := svc.Compute(context.Background(), domain.TripRequest{
				Origin:      "Luzern",
				Destination: "Zürich",
				Departure:   &departure,
			})
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}

			if !fare.RouteInfo.IsPeakHour {
				t.Errorf("expected peak-hour flag at %02d:15", tc.hour)
			}
			// The default peak multiplier is 1.0, so the flag is
			// informational and the price stays flat.
			if !floatEq(fare.SurchargeMultiplier, 1.0) {
				t.Errorf("expected multiplier 1.0, got %v", fare.SurchargeMultiplier)
			}
			if !floatEq(fare.TotalFare, 201.68) {
				t.Errorf("expected total 201.68, got %v", fare.TotalFare)
			}
		})
	}
}

func TestFare_ConfiguredPeakMultiplier_Applied(t *testing.T) {
	t.Parallel()

	cfg := defaultFareConfig()
	cfg.PeakMultiplier = 1.5
	svc := service.NewFareService(service.NewTableRouteProvider(), cfg)

	departure := time.Date(2025, 6, 11, 8, 0, 0, 0, svc.Location())

	fare, err := svc.Compute(context.Background(), domain.TripRequest{
		Origin:      "Luzern",
		Destination: "Zürich",
		Departure:   &departure,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !floatEq(fare.SurchargeMultiplier, 1.5) {
		t.Errorf("expected multiplier 1.5, got %v", fare.SurchargeMultiplier)
	}
	// 201.68 * 1.5 = 302.52
	if !floatEq(fare.TotalFare, 302.52) {
		t.Errorf("expected total 302.52, got %v", fare.TotalFare)
	}
}

func TestFare_SaturdayPeakHour_WeekendWins(t *testing.T) {
	t.Parallel()

	cfg := defaultFareConfig()
	cfg.PeakMultiplier = 1.5
	svc := service.NewFareService(service.NewTableRouteProvider(), cfg)

	// Saturday 08:00 falls inside the morning peak window, but weekend
	// pricing takes precedence.
	departure := time.Date(2025, 6, 14, 8, 0, 0, 0, svc.Location())

	fare, err := svc.Compute(context.Background(), domain.TripRequest{
		Origin:      "Luzern",
		Destination: "Zürich",
		Departure:   &departure,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !fare.RouteInfo.IsWeekend {
		t.Error("expected weekend flag")
	}
	if fare.RouteInfo.IsPeakHour {
		t.Error("expected peak flag to be suppressed on weekends")
	}
	if !floatEq(fare.SurchargeMultiplier, 1.20) {
		t.Errorf("expected weekend multiplier 1.20, got %v", fare.SurchargeMultiplier)
	}
}

func TestFare_MultiplierBelowOne_Clamped(t *testing.T) {
	t.Parallel()

	cfg := defaultFareConfig()
	cfg.WeekendMultiplier = 0.5
	svc := service.NewFareService(service.NewTableRouteProvider(), cfg)

	departure := time.Date(2025, 6, 15, 10, 0, 0, 0, svc.Location())

	fare, err := svc.Compute(context.Background(), domain.TripRequest{
		Origin:      "Luzern",
		Destination: "Zürich",
		Departure:   &departure,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Surcharges never discount.
	if !floatEq(fare.SurchargeMultiplier, 1.0) {
		t.Errorf("expected clamped multiplier 1.0, got %v", fare.SurchargeMultiplier)
	}
}

func TestFare_ValidationErrors(t *testing.T) {
	t.Parallel()

	svc := newFareService(t)

	_, err := svc.Compute(context.Background(), domain.TripRequest{
		Origin:      "",
		Destination: "Zürich",
	})
	if !errors.Is(err, service.ErrEmptyOrigin) {
		t.Errorf("expected ErrEmptyOrigin, got: %v", err)
	}

	_, err = svc.Compute(context.Background(), domain.TripRequest{
		Origin:      "Luzern",
		Destination: "",
	})
	if !errors.Is(err, service.ErrEmptyDestination) {
		t.Errorf("expected ErrEmptyDestination, got: %v", err)
	}
}

func TestFare_UnknownRoute_Fails(t *testing.T) {
	t.Parallel()

	svc := newFareService(t)

	_, err := svc.Compute(context.Background(), domain.TripRequest{
		Origin:      "Luzern",
		Destination: "Genf",
	})
	if !errors.Is(err, service.ErrRouteUnavailable) {
		t.Errorf("expected ErrRouteUnavailable, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// 2. ROUTE RESOLUTION
// ──────────────────────────────────────────────

func TestRoutes_SymmetricAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	provider := service.NewTableRouteProvider()

	forward, err := provider.Resolve(context.Background(), "Luzern", "Zürich")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	reverse, err := provider.Resolve(context.Background(), "zürich", " luzern ")
	if err != nil {
		t.Fatalf("expected no error for reversed lookup, got: %v", err)
	}

	if !floatEq(forward.DistanceKm, reverse.DistanceKm) {
		t.Errorf("expected symmetric distance, got %v and %v", forward.DistanceKm, reverse.DistanceKm)
	}
	if forward.RouteType != domain.RouteTypeHighway {
		t.Errorf("expected highway route, got %s", forward.RouteType)
	}
	if forward.TrafficFactor < 1.0 {
		t.Errorf("expected traffic factor >= 1.0, got %v", forward.TrafficFactor)
	}
}

func TestFare_RouteMetadataPassthrough(t *testing.T) {
	t.Parallel()

	routes := NewMockRouteProvider()
	routes.SetRoute("A", "B", domain.Route{
		DistanceKm:    10.0,
		RouteType:     domain.RouteTypeInterCity,
		TrafficFactor: 1.35,
	})
	svc := service.NewFareService(routes, defaultFareConfig())

	fare, err := svc.Compute(context.Background(), domain.TripRequest{
		Origin:      "A",
		Destination: "B",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if fare.RouteInfo.RouteType != domain.RouteTypeInterCity {
		t.Errorf("expected route type passthrough, got %s", fare.RouteInfo.RouteType)
	}
	if !floatEq(fare.RouteInfo.TrafficFactor, 1.35) {
		t.Errorf("expected traffic factor 1.35, got %v", fare.RouteInfo.TrafficFactor)
	}
	// Traffic factor never changes the price.
	if !floatEq(fare.TotalFare, 48.80) {
		t.Errorf("expected total 48.80, got %v", fare.TotalFare)
	}
}
