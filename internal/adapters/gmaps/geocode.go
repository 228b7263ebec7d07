package gmaps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/platform/obs"
)

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location latLngJSON `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocoder implements ports.Geocoder using the Google Geocoding API.
// "lat,lng" strings parse locally without a network call.
type Geocoder struct {
	client *Client
}

func NewGeocoder(client *Client) *Geocoder {
	return &Geocoder{client: client}
}

func (g *Geocoder) Geocode(ctx context.Context, location string) (_ domain.LatLng, err error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.LatLng{}, fmt.Errorf("geocode: location must be non-empty")
	}

	if p, ok := parseLatLng(location); ok {
		return p, nil
	}

	defer obs.Time(ctx, "gmaps.Geocode")(&err)

	var payload geocodeResponse
	if err := g.client.getJSON(ctx, "/maps/api/geocode/json", map[string]string{"address": location}, &payload); err != nil {
		return domain.LatLng{}, fmt.Errorf("geocode %q: %w", location, err)
	}

	if payload.Status != "OK" || len(payload.Results) == 0 {
		return domain.LatLng{}, fmt.Errorf("geocode %q: status %q with no results", location, payload.Status)
	}

	loc := payload.Results[0].Geometry.Location
	return domain.LatLng{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// ReverseRegion returns the formatted address of the point, used as
// geographic context for waypoint selection. Best-effort only.
func (g *Geocoder) ReverseRegion(ctx context.Context, point domain.LatLng) (_ string, err error) {
	defer obs.Time(ctx, "gmaps.ReverseRegion")(&err)

	var payload geocodeResponse
	if err := g.client.getJSON(ctx, "/maps/api/geocode/json", map[string]string{"latlng": point.String()}, &payload); err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", point, err)
	}

	if payload.Status != "OK" || len(payload.Results) == 0 {
		return "", fmt.Errorf("reverse geocode %s: status %q with no results", point, payload.Status)
	}

	return payload.Results[0].FormattedAddress, nil
}

func parseLatLng(s string) (domain.LatLng, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.LatLng{}, false
	}

	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return domain.LatLng{}, false
	}

	return domain.LatLng{Lat: lat, Lng: lng}, true
}
