package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"moto-route-service/internal/adapters/gmaps"
	"moto-route-service/internal/adapters/llm"
	"moto-route-service/internal/config"
	"moto-route-service/internal/domain"
	"moto-route-service/internal/geo"
	"moto-route-service/internal/ports"
)

func pipelineRules() config.Rules {
	rules := config.DefaultRules()
	rules.LoopCandidateCount = 6
	rules.LoopWaypointSelect = 3
	rules.ScoringConcurrency = 1
	rules.MaxRouteAttempts = 3
	rules.FreshRegenAttempt = 2
	return rules
}

func pipelinePrefs() domain.RoutePreferences {
	return domain.RoutePreferences{
		Shape:      domain.ShapeLoop,
		DistanceKm: 100,
		Start:      domain.LatLng{Lat: 52.10, Lng: 5.10},
		Scenery:    domain.SceneryMixed,
		Curviness:  0.7,
	}
}

// acceptableRoute passes every validation check.
func acceptableRoute() *domain.ResolvedRoute {
	route := plainRoute(6)
	route.OverviewPolyline = geo.EncodePolyline([]domain.LatLng{
		{Lat: 52.10, Lng: 5.10},
		{Lat: 52.15, Lng: 5.20},
		{Lat: 52.20, Lng: 5.10},
	})
	route.TotalDurationSeconds = 3600
	return route
}

// highwayRoute fails validation on highway fraction.
func highwayRoute() *domain.ResolvedRoute {
	route := plainRoute(2)
	route.Steps = append(route.Steps, domain.RouteStep{
		Instruction:    "Merge onto the motorway",
		DistanceMeters: 2000,
		StartBearing:   bearingPtr(45),
	})
	route.TotalDistanceMeters = 3200
	return route
}

func newTestPipeline(rules config.Rules, selector ports.WaypointSelector, directions ports.DirectionsProvider, geocoder ports.Geocoder) *Pipeline {
	if geocoder == nil {
		geocoder = &gmaps.MockGeocoder{Region: "the Veluwe"}
	}
	return NewPipeline(rules, PipelineDeps{
		Elevations: &gmaps.MockElevationProvider{Elevations: []float64{10, 20, 30, 40, 50, 60}},
		Places:     &gmaps.MockPlacesProvider{Counts: map[string]int{"forest": 3}},
		Selector:   selector,
		Directions: directions,
		Narrator:   &llm.MockNarrator{Text: "A fine ride through the hills."},
		StreetView: &gmaps.MockStreetViewProvider{},
		Geocoder:   geocoder,
		Rand:       func() *rand.Rand { return rand.New(rand.NewSource(1)) },
	})
}

func TestGenerateRouteInvalidInput(t *testing.T) {
	p := newTestPipeline(pipelineRules(), &llm.MockSelector{}, &gmaps.MockDirectionsProvider{}, nil)

	prefs := pipelinePrefs()
	prefs.DistanceKm = -5

	_, err := p.GenerateRoute(context.Background(), prefs)
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Kind != ErrKindInvalidInput {
		t.Fatalf("err = %v, want pipeline error of kind invalid_input", err)
	}
}

func TestGenerateRouteAcceptedFirstAttempt(t *testing.T) {
	selector := &llm.MockSelector{Selections: [][]int{{0, 2, 4}}}
	directions := &gmaps.MockDirectionsProvider{Routes: []*domain.ResolvedRoute{acceptableRoute()}}
	p := newTestPipeline(pipelineRules(), selector, directions, nil)

	result, err := p.GenerateRoute(context.Background(), pipelinePrefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != domain.StatusAccepted {
		t.Fatalf("status = %s, want accepted", result.Status)
	}
	if result.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", result.Attempts)
	}
	if len(result.Waypoints) != 3 {
		t.Fatalf("got %d waypoints, want 3", len(result.Waypoints))
	}
	if result.Narrative == "" {
		t.Fatal("expected a narrative")
	}
	if result.EncodedPolyline == "" {
		t.Fatal("expected an encoded polyline")
	}
	if len(result.StreetViewURLs) != 3 {
		t.Fatalf("got %d street view urls, want 3", len(result.StreetViewURLs))
	}
	if selector.Feedback[0] != nil {
		t.Fatal("first selection should carry no feedback")
	}
}

func TestGenerateRouteRetriesWithFeedback(t *testing.T) {
	selector := &llm.MockSelector{Selections: [][]int{{0, 2, 4}, {1, 3, 5}}}
	directions := &gmaps.MockDirectionsProvider{Routes: []*domain.ResolvedRoute{
		highwayRoute(),
		acceptableRoute(),
	}}
	p := newTestPipeline(pipelineRules(), selector, directions, nil)

	result, err := p.GenerateRoute(context.Background(), pipelinePrefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != domain.StatusAccepted {
		t.Fatalf("status = %s, want accepted", result.Status)
	}
	if result.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", result.Attempts)
	}
	if selector.Calls != 2 {
		t.Fatalf("selector called %d times, want 2", selector.Calls)
	}

	if selector.Feedback[0] != nil {
		t.Fatal("first selection should carry no feedback")
	}
	fb := selector.Feedback[1]
	if fb == nil {
		t.Fatal("retry should carry feedback")
	}
	if len(fb.Issues) == 0 {
		t.Fatal("feedback should describe the validation issues")
	}
	if fb.RouteSummary == "" {
		t.Fatal("feedback should summarize the failed route")
	}
	if len(fb.PreviousIndices) != 3 || fb.PreviousIndices[0] != 0 {
		t.Fatalf("feedback previous indices = %v, want the failed selection", fb.PreviousIndices)
	}
	// The second attempt reaches the fresh-regeneration threshold.
	if !fb.Regenerate {
		t.Fatal("feedback should request a fresh selection")
	}
}

func TestGenerateRouteExhaustedReturnsBestEffort(t *testing.T) {
	selector := &llm.MockSelector{Selections: [][]int{{0, 2, 4}}}
	directions := &gmaps.MockDirectionsProvider{Routes: []*domain.ResolvedRoute{highwayRoute()}}
	p := newTestPipeline(pipelineRules(), selector, directions, nil)

	result, err := p.GenerateRoute(context.Background(), pipelinePrefs())
	if err != nil {
		t.Fatalf("exhausted budget should not be an error, got %v", err)
	}

	if result.Status != domain.StatusBestEffort {
		t.Fatalf("status = %s, want best_effort", result.Status)
	}
	if result.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", result.Attempts)
	}
	if selector.Calls != 3 {
		t.Fatalf("selector called %d times, want 3", selector.Calls)
	}
	if directions.Calls != 3 {
		t.Fatalf("directions called %d times, want 3", directions.Calls)
	}
	if result.Route == nil {
		t.Fatal("best-effort result should carry the last route")
	}
}

func TestGenerateRouteResolutionErrorConsumesAttempt(t *testing.T) {
	selector := &llm.MockSelector{Selections: [][]int{{0, 2, 4}}}
	directions := &gmaps.MockDirectionsProvider{
		Errs:   []error{&ports.ResolutionError{Reason: "no drivable path"}},
		Routes: []*domain.ResolvedRoute{acceptableRoute()},
	}
	p := newTestPipeline(pipelineRules(), selector, directions, nil)

	result, err := p.GenerateRoute(context.Background(), pipelinePrefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", result.Attempts)
	}
	if fb := selector.Feedback[1]; fb == nil || len(fb.Issues) == 0 {
		t.Fatal("resolution failure should feed back to the selector")
	}
}

func TestGenerateRouteNoRouteAtAll(t *testing.T) {
	resolutionErr := &ports.ResolutionError{Reason: "no drivable path"}
	selector := &llm.MockSelector{Selections: [][]int{{0, 2, 4}}}
	directions := &gmaps.MockDirectionsProvider{
		Errs: []error{resolutionErr, resolutionErr, resolutionErr},
	}
	p := newTestPipeline(pipelineRules(), selector, directions, nil)

	_, err := p.GenerateRoute(context.Background(), pipelinePrefs())
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Kind != ErrKindNoRoute {
		t.Fatalf("err = %v, want pipeline error of kind no_route", err)
	}
}

func TestGenerateRouteStructuralSelectionFailure(t *testing.T) {
	selector := &llm.MockSelector{Selections: [][]int{{0, 0, 2}}}
	directions := &gmaps.MockDirectionsProvider{Routes: []*domain.ResolvedRoute{acceptableRoute()}}
	p := newTestPipeline(pipelineRules(), selector, directions, nil)

	_, err := p.GenerateRoute(context.Background(), pipelinePrefs())
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Kind != ErrKindSelection {
		t.Fatalf("err = %v, want pipeline error of kind selection", err)
	}
	var serr *ports.SelectionError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want a wrapped selection error", err)
	}
}

func TestGenerateRouteSelectorTransportFailure(t *testing.T) {
	selector := &llm.MockSelector{Err: errors.New("api timeout")}
	directions := &gmaps.MockDirectionsProvider{Routes: []*domain.ResolvedRoute{acceptableRoute()}}
	p := newTestPipeline(pipelineRules(), selector, directions, nil)

	_, err := p.GenerateRoute(context.Background(), pipelinePrefs())
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Kind != ErrKindProvider {
		t.Fatalf("err = %v, want pipeline error of kind provider", err)
	}
}

func TestGenerateRouteGeocodesStartLocation(t *testing.T) {
	selector := &llm.MockSelector{Selections: [][]int{{0, 2, 4}}}
	directions := &gmaps.MockDirectionsProvider{Routes: []*domain.ResolvedRoute{acceptableRoute()}}
	geocoder := &gmaps.MockGeocoder{Point: domain.LatLng{Lat: 52.15, Lng: 5.38}, Region: "Amersfoort, Netherlands"}
	p := newTestPipeline(pipelineRules(), selector, directions, geocoder)

	prefs := pipelinePrefs()
	prefs.Start = domain.LatLng{}
	prefs.StartLocation = "Amersfoort"

	result, err := p.GenerateRoute(context.Background(), prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PreferencesUsed.Start != geocoder.Point {
		t.Fatalf("start = %v, want geocoded %v", result.PreferencesUsed.Start, geocoder.Point)
	}
}

func TestGenerateRouteGeocodeFailure(t *testing.T) {
	geocoder := &gmaps.MockGeocoder{GeocodeErr: errors.New("not found")}
	p := newTestPipeline(pipelineRules(), &llm.MockSelector{}, &gmaps.MockDirectionsProvider{}, geocoder)

	prefs := pipelinePrefs()
	prefs.Start = domain.LatLng{}
	prefs.StartLocation = "nowhere in particular"

	_, err := p.GenerateRoute(context.Background(), prefs)
	var perr *PipelineError
	if !errors.As(err, &perr) || perr.Kind != ErrKindProvider {
		t.Fatalf("err = %v, want pipeline error of kind provider", err)
	}
}

func TestGenerateRouteEndToEndLoop(t *testing.T) {
	// 100 km loop: steady sweeping steps, no short legs, no highways.
	route := &domain.ResolvedRoute{TotalDurationSeconds: 2 * 3600}
	for i := 0; i < 20; i++ {
		bearing := float64(i * 18)
		route.Steps = append(route.Steps, domain.RouteStep{
			Instruction:    "Continue onto Provincialeweg",
			DistanceMeters: 5000,
			StartBearing:   &bearing,
		})
		route.TotalDistanceMeters += 5000
	}

	selector := &llm.MockSelector{Selections: [][]int{{0, 2, 4}}}
	directions := &gmaps.MockDirectionsProvider{Routes: []*domain.ResolvedRoute{route}}
	p := newTestPipeline(pipelineRules(), selector, directions, nil)

	prefs := domain.RoutePreferences{
		Shape:      domain.ShapeLoop,
		DistanceKm: 100,
		Start:      domain.LatLng{Lat: 52.10, Lng: 5.10},
		Scenery:    domain.SceneryMixed,
		Curviness:  0.5,
	}

	result, err := p.GenerateRoute(context.Background(), prefs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != domain.StatusAccepted {
		t.Fatalf("status = %s, want accepted", result.Status)
	}
	want := prefs.DistanceKm * 1000
	if diff := result.Route.TotalDistanceMeters - want; diff < -want*0.15 || diff > want*0.15 {
		t.Fatalf("total distance = %f, want within 15%% of %f", result.Route.TotalDistanceMeters, want)
	}
	if result.Narrative == "" {
		t.Fatal("expected a narrative")
	}
	if result.PreferencesUsed != prefs {
		t.Fatalf("preferences used = %+v, want input preferences", result.PreferencesUsed)
	}
}

func TestGenerateRouteSingleStreetViewImage(t *testing.T) {
	rules := pipelineRules()
	rules.StreetViewImageCount = 1

	selector := &llm.MockSelector{Selections: [][]int{{0, 2, 4}}}
	directions := &gmaps.MockDirectionsProvider{Routes: []*domain.ResolvedRoute{acceptableRoute()}}
	p := newTestPipeline(rules, selector, directions, nil)

	result, err := p.GenerateRoute(context.Background(), pipelinePrefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.StreetViewURLs) != 1 {
		t.Fatalf("got %d street view urls, want 1", len(result.StreetViewURLs))
	}
}

func TestGenerateRouteCanceledContext(t *testing.T) {
	selector := &llm.MockSelector{Selections: [][]int{{0, 2, 4}}}
	directions := &gmaps.MockDirectionsProvider{Routes: []*domain.ResolvedRoute{acceptableRoute()}}
	p := newTestPipeline(pipelineRules(), selector, directions, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.GenerateRoute(ctx, pipelinePrefs())
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
