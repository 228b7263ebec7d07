package gmaps

import (
	"context"
	"fmt"
	"strconv"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/platform/obs"
)

type placesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// PlacesProvider implements ports.PlacesProvider using the Google Places
// Nearby Search API. It reports only match counts; the pipeline never
// needs the place details.
type PlacesProvider struct {
	client *Client
}

func NewPlacesProvider(client *Client) *PlacesProvider {
	return &PlacesProvider{client: client}
}

func (p *PlacesProvider) CountNearby(ctx context.Context, point domain.LatLng, radiusM int, keyword string) (_ int, err error) {
	defer obs.Time(ctx, "gmaps.CountNearby")(&err)

	var payload placesResponse
	query := map[string]string{
		"location": point.String(),
		"radius":   strconv.Itoa(radiusM),
		"keyword":  keyword,
	}
	if err := p.client.getJSON(ctx, "/maps/api/place/nearbysearch/json", query, &payload); err != nil {
		return 0, fmt.Errorf("places nearby search: %w", err)
	}

	// ZERO_RESULTS is a successful empty answer, not a failure.
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		return 0, fmt.Errorf("places nearby search returned status %q", payload.Status)
	}

	return len(payload.Results), nil
}
