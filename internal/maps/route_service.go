package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"rota/internal/types"
)

// RouteService handles interactions with the Google Maps Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// Polyline requests a driving route through the waypoints in order and
// returns the decoded overview polyline. It assumes driving mode. The
// heading hint is accepted for contract compatibility; the Directions API
// has no heading parameter, so it is not forwarded.
func (s *RouteService) Polyline(ctx context.Context, waypoints []types.Point, headingDeg float64) ([]types.Point, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("need at least two waypoints, got %d", len(waypoints))
	}
	_ = headingDeg

	mids := make([]string, 0, len(waypoints)-2)
	for _, p := range waypoints[1 : len(waypoints)-1] {
		mids = append(mids, formatPoint(p))
	}

	r := &maps.DirectionsRequest{
		Origin:      formatPoint(waypoints[0]),
		Destination: formatPoint(waypoints[len(waypoints)-1]),
		Waypoints:   mids,
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	latlngs, err := routes[0].OverviewPolyline.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}

	out := make([]types.Point, 0, len(latlngs))
	for _, ll := range latlngs {
		out = append(out, types.Point{Lat: ll.Lat, Lng: ll.Lng})
	}
	return out, nil
}

func formatPoint(p types.Point) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}
