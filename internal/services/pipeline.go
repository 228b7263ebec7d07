package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"moto-route-service/internal/config"
	"moto-route-service/internal/domain"
	"moto-route-service/internal/geo"
	"moto-route-service/internal/platform/obs"
	"moto-route-service/internal/ports"
)

// Pipeline owns one configuration of the route-generation flow. It holds
// no per-run state, so a single Pipeline serves concurrent requests.
type Pipeline struct {
	rules      config.Rules
	elevations ports.ElevationProvider
	places     ports.PlacesProvider
	selector   ports.WaypointSelector
	directions ports.DirectionsProvider
	narrator   ports.NarrativeGenerator
	streetView ports.StreetViewProvider
	geocoder   ports.Geocoder
	regions    []domain.Region
	// newRand builds the random source for one run. Tests install a
	// seeded source for reproducible candidate geometry.
	newRand func() *rand.Rand
}

// PipelineDeps bundles the external capabilities the pipeline consumes.
type PipelineDeps struct {
	Elevations ports.ElevationProvider
	Places     ports.PlacesProvider
	Selector   ports.WaypointSelector
	Directions ports.DirectionsProvider
	Narrator   ports.NarrativeGenerator
	StreetView ports.StreetViewProvider
	Geocoder   ports.Geocoder
	// Regions is the fallback catalog for region context when reverse
	// geocoding fails. Optional.
	Regions []domain.Region
	// Rand overrides the per-run random source. Optional.
	Rand func() *rand.Rand
}

// NewPipeline wires a pipeline from its dependencies and rules.
func NewPipeline(rules config.Rules, deps PipelineDeps) *Pipeline {
	newRand := deps.Rand
	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(rand.Int63()))
		}
	}

	return &Pipeline{
		rules:      rules,
		elevations: deps.Elevations,
		places:     deps.Places,
		selector:   deps.Selector,
		directions: deps.Directions,
		narrator:   deps.Narrator,
		streetView: deps.StreetView,
		geocoder:   deps.Geocoder,
		regions:    deps.Regions,
		newRand:    newRand,
	}
}

// GenerateRoute runs the full pipeline for one set of preferences:
// candidate synthesis, scoring, selection, resolution, validation with a
// bounded retry loop, then narrative and imagery enrichment.
//
// The retry loop never fails silently: it returns either an accepted
// route or the last attempt's route marked best-effort. A *PipelineError
// is returned only when the input is invalid, the selector breaks its
// structural contract, or no attempt resolved a route at all.
func (p *Pipeline) GenerateRoute(ctx context.Context, prefs domain.RoutePreferences) (_ *domain.GeneratedRoute, err error) {
	defer obs.Time(ctx, "pipeline.GenerateRoute")(&err)

	if err := prefs.Validate(); err != nil {
		return nil, &PipelineError{Kind: ErrKindInvalidInput, Err: err}
	}

	prefs, region, perr := p.resolveStart(ctx, prefs)
	if perr != nil {
		return nil, perr
	}

	log.Printf("route generation started: shape=%s distance_km=%g scenery=%s curviness=%g start=%s",
		prefs.Shape, prefs.DistanceKm, prefs.Scenery, prefs.Curviness, prefs.Start)

	candidates, err := GenerateCandidates(prefs, p.rules, p.newRand())
	if err != nil {
		return nil, &PipelineError{Kind: ErrKindInvalidInput, Err: err}
	}

	candidates = ScoreCandidates(ctx, candidates, prefs.Scenery, p.elevations, p.places, p.rules)

	final, perr := p.runAttempts(ctx, prefs, region, candidates)
	if perr != nil {
		return nil, perr
	}

	return p.enrich(ctx, prefs, final), nil
}

// resolveStart fills in prefs.Start from the free-text location when
// needed and produces the region context string for the selector.
func (p *Pipeline) resolveStart(ctx context.Context, prefs domain.RoutePreferences) (domain.RoutePreferences, string, *PipelineError) {
	if prefs.Start == (domain.LatLng{}) && prefs.StartLocation != "" {
		start, err := p.geocoder.Geocode(ctx, prefs.StartLocation)
		if err != nil {
			return prefs, "", pipelineErr(ErrKindProvider, "geocode start %q: %w", prefs.StartLocation, err)
		}
		prefs.Start = start
	}

	region, err := p.geocoder.ReverseRegion(ctx, prefs.Start)
	if err != nil || region == "" {
		// Region context is best-effort; fall back to the nearest known
		// riding region, then to raw coordinates.
		if r, ok := geo.FindClosestRegion(prefs.Start, p.regions); ok {
			region = r.Name
		} else {
			region = prefs.Start.String()
		}
	}

	return prefs, region, nil
}

// runAttempts drives the Selecting→Resolving→Validating loop. States:
// a passing verdict accepts; a failed verdict or resolution error retries
// with feedback until the attempt budget is exhausted, at which point the
// last resolved route is returned as best-effort.
func (p *Pipeline) runAttempts(
	ctx context.Context,
	prefs domain.RoutePreferences,
	region string,
	candidates []domain.Candidate,
) (*domain.RouteAttempt, *PipelineError) {
	loop := prefs.Shape == domain.ShapeLoop
	selectCount := p.rules.SelectCount(loop)

	var feedback *ports.SelectionFeedback
	var last *domain.RouteAttempt

	for attempt := 1; attempt <= p.rules.MaxRouteAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, pipelineErr(ErrKindProvider, "route generation canceled: %w", err)
		}

		// Selecting.
		selected, perr := p.selectWaypoints(ctx, prefs, region, candidates, selectCount, feedback)
		if perr != nil {
			return nil, perr
		}

		// Resolving.
		route, err := p.directions.Resolve(ctx, prefs.Start, selected.Positions(), loop)
		if err != nil {
			log.Printf("attempt %d: resolution failed: %v", attempt, err)
			if last == nil && attempt == p.rules.MaxRouteAttempts {
				return nil, pipelineErr(ErrKindNoRoute, "no attempt resolved a route: %w", err)
			}
			feedback = p.nextFeedback(attempt, selected.Indices, []string{err.Error()}, "")
			continue
		}

		// Validating.
		verdict := ValidateRoute(route, p.rules)
		last = &domain.RouteAttempt{
			Number:    attempt,
			Waypoints: selected,
			Route:     route,
			Verdict:   verdict,
		}

		if verdict.Passed {
			log.Printf("route passed validation on attempt %d", attempt)
			return last, nil
		}

		log.Printf("attempt %d failed validation: %v", attempt, verdict.Issues)
		feedback = p.nextFeedback(attempt, selected.Indices, verdict.Issues, routeSummary(route))
	}

	if last == nil {
		return nil, pipelineErr(ErrKindNoRoute, "no attempt resolved a route within %d attempts", p.rules.MaxRouteAttempts)
	}

	// Exhausted: best-effort, not an error.
	log.Printf("validation budget exhausted after %d attempts, returning best-effort route", p.rules.MaxRouteAttempts)
	return last, nil
}

// nextFeedback packages the failure detail for the next selection. From
// FreshRegenAttempt onward the selector is asked for a completely new
// selection with the failed route as negative context.
func (p *Pipeline) nextFeedback(attempt int, indices []int, issues []string, summary string) *ports.SelectionFeedback {
	return &ports.SelectionFeedback{
		Issues:          issues,
		RouteSummary:    summary,
		PreviousIndices: indices,
		Regenerate:      attempt+1 >= p.rules.FreshRegenAttempt,
	}
}

// selectWaypoints calls the selector and enforces the structural
// contract: exact count, valid indices, no duplicates. Geographic
// reasoning is the selector's job and is never second-guessed here.
func (p *Pipeline) selectWaypoints(
	ctx context.Context,
	prefs domain.RoutePreferences,
	region string,
	candidates []domain.Candidate,
	selectCount int,
	feedback *ports.SelectionFeedback,
) (domain.SelectedWaypoints, *PipelineError) {
	req := ports.SelectionRequest{
		Candidates:  candidates,
		SelectCount: selectCount,
		Curviness:   prefs.Curviness,
		Scenery:     prefs.Scenery,
		Loop:        prefs.Shape == domain.ShapeLoop,
		Start:       prefs.Start,
		Region:      region,
		Feedback:    feedback,
	}

	indices, err := p.selector.Select(ctx, req)
	if err != nil {
		kind := ErrKindProvider
		var serr *ports.SelectionError
		if errors.As(err, &serr) {
			kind = ErrKindSelection
		}
		return domain.SelectedWaypoints{}, pipelineErr(kind, "waypoint selection: %w", err)
	}

	if err := checkSelection(indices, len(candidates), selectCount); err != nil {
		return domain.SelectedWaypoints{}, &PipelineError{Kind: ErrKindSelection, Err: err}
	}

	chosen := make([]domain.Candidate, 0, len(indices))
	for _, idx := range indices {
		chosen = append(chosen, candidates[idx])
	}

	return domain.SelectedWaypoints{Indices: indices, Candidates: chosen}, nil
}

func checkSelection(indices []int, candidateCount, selectCount int) error {
	if len(indices) != selectCount {
		return &ports.SelectionError{
			Reason: fmt.Sprintf("expected %d waypoints, got %d", selectCount, len(indices)),
		}
	}

	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= candidateCount {
			return &ports.SelectionError{
				Reason: fmt.Sprintf("index %d out of range [0,%d)", idx, candidateCount),
			}
		}
		if _, dup := seen[idx]; dup {
			return &ports.SelectionError{
				Reason: fmt.Sprintf("duplicate index %d", idx),
			}
		}
		seen[idx] = struct{}{}
	}

	return nil
}
