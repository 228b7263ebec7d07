package gmaps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/ports"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		session: &http.Client{Timeout: 5 * time.Second},
		apiKey:  "test-key",
		baseURL: srv.URL,
	}
}

const directionsPayload = `{
	"status": "OK",
	"routes": [{
		"overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC"},
		"legs": [{
			"start_address": "Amersfoort, Netherlands",
			"distance": {"value": 42000},
			"duration": {"value": 3600},
			"steps": [
				{
					"html_instructions": "Head <b>north</b> on Stadsring",
					"distance": {"value": 1200},
					"start_location": {"lat": 52.15, "lng": 5.38},
					"end_location": {"lat": 52.16, "lng": 5.38},
					"polyline": {"points": "abc"}
				},
				{
					"html_instructions": "Turn right onto Ringweg",
					"maneuver": "turn-right",
					"distance": {"value": 40800},
					"start_location": {"lat": 52.16, "lng": 5.38},
					"end_location": {"lat": 52.30, "lng": 5.60},
					"polyline": {"points": "def"}
				}
			]
		}]
	}]
}`

func TestDirectionsResolveLoop(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(directionsPayload))
	}))
	defer srv.Close()

	provider := NewDirectionsProvider(testClient(srv))
	start := domain.LatLng{Lat: 52.15, Lng: 5.38}
	waypoints := []domain.LatLng{
		{Lat: 52.20, Lng: 5.50},
		{Lat: 52.30, Lng: 5.40},
	}

	route, err := provider.Resolve(context.Background(), start, waypoints, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if query.Get("origin") != start.String() {
		t.Fatalf("origin = %q, want %q", query.Get("origin"), start.String())
	}
	if query.Get("destination") != start.String() {
		t.Fatalf("loop destination = %q, want origin", query.Get("destination"))
	}
	if query.Get("avoid") != "highways|tolls" {
		t.Fatalf("avoid = %q, want highways|tolls", query.Get("avoid"))
	}

	if len(route.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(route.Steps))
	}
	if route.TotalDistanceMeters != 42000 {
		t.Fatalf("distance = %f, want 42000", route.TotalDistanceMeters)
	}
	if route.StartAddress != "Amersfoort, Netherlands" {
		t.Fatalf("start address = %q", route.StartAddress)
	}
	if route.Steps[1].RoadClassHint != "turn-right" {
		t.Fatalf("road class hint = %q, want turn-right", route.Steps[1].RoadClassHint)
	}
	if route.Steps[0].StartBearing == nil {
		t.Fatal("expected a computed start bearing")
	}
}

func TestDirectionsResolveOneWay(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(directionsPayload))
	}))
	defer srv.Close()

	provider := NewDirectionsProvider(testClient(srv))
	start := domain.LatLng{Lat: 52.15, Lng: 5.38}
	waypoints := []domain.LatLng{
		{Lat: 52.20, Lng: 5.50},
		{Lat: 52.30, Lng: 5.40},
	}

	if _, err := provider.Resolve(context.Background(), start, waypoints, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := waypoints[len(waypoints)-1]
	if query.Get("destination") != last.String() {
		t.Fatalf("destination = %q, want last waypoint %q", query.Get("destination"), last.String())
	}
	if query.Get("waypoints") != waypoints[0].String() {
		t.Fatalf("waypoints = %q, want only the intermediate point", query.Get("waypoints"))
	}
}

func TestDirectionsResolveNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "routes": []}`))
	}))
	defer srv.Close()

	provider := NewDirectionsProvider(testClient(srv))
	_, err := provider.Resolve(context.Background(), domain.LatLng{Lat: 52, Lng: 5}, []domain.LatLng{{Lat: 52.1, Lng: 5.1}}, true)

	var rerr *ports.ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want resolution error", err)
	}
}

func TestDirectionsResolveRetriesServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(directionsPayload))
	}))
	defer srv.Close()

	provider := NewDirectionsProvider(testClient(srv))
	route, err := provider.Resolve(context.Background(), domain.LatLng{Lat: 52, Lng: 5}, []domain.LatLng{{Lat: 52.1, Lng: 5.1}}, true)
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("server saw %d calls, want 2", calls)
	}
	if len(route.Steps) == 0 {
		t.Fatal("expected steps after retry")
	}
}
