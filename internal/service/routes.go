package service

import (
	"context"
	"strings"

	"taxi/internal/domain"
)

// RouteProvider resolves an origin/destination pair to a distance and
// route metadata. Implementations are external collaborators; the fare
// calculator only consumes this interface.
type RouteProvider interface {
	Resolve(ctx context.Context, origin, destination string) (*domain.Route, error)
}

// TableRouteProvider resolves routes from a static table of central
// Swiss locations. Lookups are symmetric and case-insensitive.
type TableRouteProvider struct {
	routes map[routeKey]domain.Route
}

type routeKey struct {
	from, to string
}

type tableEntry struct {
	from, to      string
	distanceKm    float64
	routeType     domain.RouteType
	trafficFactor float64
}

// NewTableRouteProvider creates a route provider covering the service
// area around Luzern.
func NewTableRouteProvider() *TableRouteProvider {
	entries := []tableEntry{
		{"Luzern", "Zürich", 46.4, domain.RouteTypeHighway, 1.15},
		{"Luzern", "Zürich Flughafen", 53.1, domain.RouteTypeHighway, 1.2},
		{"Luzern", "Schwyz", 30.2, domain.RouteTypeInterCity, 1.05},
		{"Luzern", "Zug", 24.8, domain.RouteTypeInterCity, 1.05},
		{"Luzern", "Basel", 97.3, domain.RouteTypeHighway, 1.1},
		{"Luzern", "Bern", 92.6, domain.RouteTypeHighway, 1.1},
		{"Luzern", "Kriens", 4.7, domain.RouteTypeLocal, 1.0},
		{"Luzern", "Emmenbrücke", 6.2, domain.RouteTypeSuburban, 1.0},
		{"Luzern", "Horw", 5.9, domain.RouteTypeSuburban, 1.0},
		{"Zug", "Zürich", 29.5, domain.RouteTypeHighway, 1.1},
		{"Zug", "Zürich Flughafen", 30.4, domain.RouteTypeHighway, 1.1},
		{"Schwyz", "Zürich", 44.9, domain.RouteTypeInterCity, 1.1},
		{"Rothenthurm", "Zürich Flughafen", 55.0, domain.RouteTypeInterCity, 1.1},
		{"Zürich", "Zürich Flughafen", 11.3, domain.RouteTypeSuburban, 1.15},
	}

	routes := make(map[routeKey]domain.Route, len(entries)*2)
	for _, e := range entries {
		route := domain.Route{
			DistanceKm:    e.distanceKm,
			RouteType:     e.routeType,
			TrafficFactor: e.trafficFactor,
		}
		routes[routeKey{normalizeLocation(e.from), normalizeLocation(e.to)}] = route
		routes[routeKey{normalizeLocation(e.to), normalizeLocation(e.from)}] = route
	}

	return &TableRouteProvider{routes: routes}
}

// Resolve looks up the route between two locations.
func (p *TableRouteProvider) Resolve(ctx context.Context, origin, destination string) (*domain.Route, error) {
	key := routeKey{normalizeLocation(origin), normalizeLocation(destination)}
	route, ok := p.routes[key]
	if !ok {
		return nil, ErrRouteUnavailable
	}

	return &route, nil
}

func normalizeLocation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
