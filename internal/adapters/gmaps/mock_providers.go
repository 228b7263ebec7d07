package gmaps

import (
	"context"
	"fmt"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/ports"
)

// Deterministic test doubles for the geo-data ports. They live next to
// the real adapters so pipeline tests can run without any network access.

// MockElevationProvider returns a fixed elevation per point index.
type MockElevationProvider struct {
	Elevations []float64
	Err        error
}

func (m *MockElevationProvider) GetElevations(ctx context.Context, points []domain.LatLng) ([]*float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]*float64, len(points))
	for i := range points {
		if i < len(m.Elevations) {
			v := m.Elevations[i]
			out[i] = &v
		}
	}
	return out, nil
}

// MockPlacesProvider returns a fixed match count per keyword.
type MockPlacesProvider struct {
	Counts map[string]int
	Err    error
	Calls  int
}

func (m *MockPlacesProvider) CountNearby(ctx context.Context, point domain.LatLng, radiusM int, keyword string) (int, error) {
	m.Calls++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Counts[keyword], nil
}

// MockDirectionsProvider replays canned routes, one per Resolve call.
// When the script runs out the last entry repeats.
type MockDirectionsProvider struct {
	Routes []*domain.ResolvedRoute
	Errs   []error
	Calls  int
}

func (m *MockDirectionsProvider) Resolve(ctx context.Context, start domain.LatLng, waypoints []domain.LatLng, loop bool) (*domain.ResolvedRoute, error) {
	i := m.Calls
	m.Calls++
	if i < len(m.Errs) && m.Errs[i] != nil {
		return nil, m.Errs[i]
	}
	if len(m.Routes) == 0 {
		return nil, &ports.ResolutionError{Reason: "mock has no routes"}
	}
	if i >= len(m.Routes) {
		i = len(m.Routes) - 1
	}
	if m.Routes[i] == nil {
		return nil, &ports.ResolutionError{Reason: fmt.Sprintf("mock route %d unavailable", i)}
	}
	return m.Routes[i], nil
}

// MockGeocoder resolves every location to a fixed point and region.
type MockGeocoder struct {
	Point      domain.LatLng
	Region     string
	GeocodeErr error
	ReverseErr error
}

func (m *MockGeocoder) Geocode(ctx context.Context, location string) (domain.LatLng, error) {
	if m.GeocodeErr != nil {
		return domain.LatLng{}, m.GeocodeErr
	}
	return m.Point, nil
}

func (m *MockGeocoder) ReverseRegion(ctx context.Context, point domain.LatLng) (string, error) {
	if m.ReverseErr != nil {
		return "", m.ReverseErr
	}
	return m.Region, nil
}

// MockStreetViewProvider composes predictable URLs.
type MockStreetViewProvider struct {
	Err   error
	Calls int
}

func (m *MockStreetViewProvider) ImageURL(ctx context.Context, point domain.LatLng, params ports.StreetViewParams) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return fmt.Sprintf("https://example.test/streetview?location=%s&heading=%.0f", point, params.Heading), nil
}
