package gmaps

import (
	"context"
	"fmt"
	"strings"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/geo"
	"moto-route-service/internal/platform/obs"
	"moto-route-service/internal/ports"
)

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			StartAddress string `json:"start_address"`
			Distance     struct {
				Value float64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"`
			} `json:"duration"`
			Steps []struct {
				HTMLInstructions string  `json:"html_instructions"`
				Maneuver         string  `json:"maneuver"`
				Distance         struct {
					Value float64 `json:"value"`
				} `json:"distance"`
				StartLocation latLngJSON `json:"start_location"`
				EndLocation   latLngJSON `json:"end_location"`
				Polyline      struct {
					Points string `json:"points"`
				} `json:"polyline"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

type latLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DirectionsProvider implements ports.DirectionsProvider using the
// Google Directions API. Every request avoids highways and tolls; that
// restriction is a product constraint and not exposed to callers.
type DirectionsProvider struct {
	client *Client
}

func NewDirectionsProvider(client *Client) *DirectionsProvider {
	return &DirectionsProvider{client: client}
}

func (d *DirectionsProvider) Resolve(
	ctx context.Context,
	start domain.LatLng,
	waypoints []domain.LatLng,
	loop bool,
) (_ *domain.ResolvedRoute, err error) {
	defer obs.Time(ctx, "gmaps.Resolve")(&err)

	origin := start.String()
	destination := origin
	intermediate := waypoints
	if !loop {
		if len(waypoints) == 0 {
			return nil, &ports.ResolutionError{Reason: "one-way route needs at least one waypoint"}
		}
		destination = waypoints[len(waypoints)-1].String()
		intermediate = waypoints[:len(waypoints)-1]
	}

	wpStrs := make([]string, 0, len(intermediate))
	for _, wp := range intermediate {
		wpStrs = append(wpStrs, wp.String())
	}

	var payload directionsResponse
	query := map[string]string{
		"origin":      origin,
		"destination": destination,
		"waypoints":   strings.Join(wpStrs, "|"),
		"mode":        "driving",
		"avoid":       "highways|tolls",
	}
	if err := d.client.getJSON(ctx, "/maps/api/directions/json", query, &payload); err != nil {
		return nil, &ports.ResolutionError{Reason: "directions request failed", Err: err}
	}

	if payload.Status != "OK" || len(payload.Routes) == 0 {
		return nil, &ports.ResolutionError{
			Reason: fmt.Sprintf("directions returned status %q with %d routes", payload.Status, len(payload.Routes)),
		}
	}

	route := payload.Routes[0]
	resolved := &domain.ResolvedRoute{
		OverviewPolyline: route.OverviewPolyline.Points,
	}

	for _, leg := range route.Legs {
		if resolved.StartAddress == "" {
			resolved.StartAddress = leg.StartAddress
		}
		resolved.TotalDistanceMeters += leg.Distance.Value
		resolved.TotalDurationSeconds += leg.Duration.Value

		for _, s := range leg.Steps {
			from := domain.LatLng{Lat: s.StartLocation.Lat, Lng: s.StartLocation.Lng}
			to := domain.LatLng{Lat: s.EndLocation.Lat, Lng: s.EndLocation.Lng}
			bearing := geo.Bearing(from, to)
			resolved.Steps = append(resolved.Steps, domain.RouteStep{
				Instruction:    s.HTMLInstructions,
				DistanceMeters: s.Distance.Value,
				StartBearing:   &bearing,
				RoadClassHint:  s.Maneuver,
				StartLocation:  from,
				EndLocation:    to,
				Polyline:       s.Polyline.Points,
			})
		}
	}

	if len(resolved.Steps) == 0 {
		return nil, &ports.ResolutionError{Reason: "directions returned a route without steps"}
	}

	return resolved, nil
}
