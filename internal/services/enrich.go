package services

import (
	"context"
	"log"
	"math"

	"moto-route-service/internal/domain"
	"moto-route-service/internal/geo"
	"moto-route-service/internal/ports"
)

// enrich attaches narrative text and street-view imagery to the accepted
// (or best-effort) attempt. Every enrichment failure degrades: an empty
// narrative or a missing image slot never blocks the pipeline.
func (p *Pipeline) enrich(ctx context.Context, prefs domain.RoutePreferences, attempt *domain.RouteAttempt) *domain.GeneratedRoute {
	route := attempt.Route

	status := domain.StatusAccepted
	if !attempt.Verdict.Passed {
		status = domain.StatusBestEffort
	}

	narrative := ""
	if p.narrator != nil {
		var err error
		narrative, err = p.narrator.Narrative(ctx, route, prefs)
		if err != nil {
			log.Printf("enrich: narrative generation failed: %v", err)
			narrative = ""
		}
	}

	encoded := detailedPolyline(route)
	waypoints := attempt.Waypoints.Positions()

	return &domain.GeneratedRoute{
		Route:           route,
		Status:          status,
		Attempts:        attempt.Number,
		Waypoints:       waypoints,
		EncodedPolyline: encoded,
		Narrative:       narrative,
		StreetViewURLs:  p.streetViewURLs(ctx, waypoints, encoded),
		PreferencesUsed: prefs,
	}
}

// detailedPolyline concatenates step-level polylines into one
// high-resolution encoded line. The overview polyline is heavily
// simplified and can cut through fields and water; step polylines follow
// the actual road geometry. Falls back to the overview when steps carry
// no geometry.
func detailedPolyline(route *domain.ResolvedRoute) string {
	var all []domain.LatLng
	for _, step := range route.Steps {
		pts := geo.DecodePolyline(step.Polyline)
		if len(pts) == 0 {
			continue
		}
		// Step boundaries share endpoints.
		if len(all) > 0 && pts[0] == all[len(all)-1] {
			pts = pts[1:]
		}
		all = append(all, pts...)
	}

	if len(all) > 0 {
		return geo.EncodePolyline(all)
	}
	return route.OverviewPolyline
}

// streetViewURLs fetches imagery URLs at up to StreetViewImageCount
// waypoints, evenly spaced over the riding order. Each fetch is
// independently failable and a failure simply omits that slot.
func (p *Pipeline) streetViewURLs(ctx context.Context, waypoints []domain.LatLng, encodedPolyline string) []string {
	if p.streetView == nil || len(waypoints) == 0 {
		return nil
	}

	count := p.rules.StreetViewImageCount
	var picks []domain.LatLng
	switch {
	case count < 1:
		return nil
	case len(waypoints) <= count:
		picks = waypoints
	case count == 1:
		picks = []domain.LatLng{waypoints[len(waypoints)/2]}
	default:
		for i := 0; i < count; i++ {
			idx := int(math.Round(float64(i) * float64(len(waypoints)-1) / float64(count-1)))
			picks = append(picks, waypoints[idx])
		}
	}

	line := geo.DecodePolyline(encodedPolyline)

	urls := make([]string, 0, len(picks))
	for _, wp := range picks {
		params := ports.StreetViewParams{
			Size:    p.rules.StreetViewSize,
			FOV:     p.rules.StreetViewFOV,
			Pitch:   p.rules.StreetViewPitch,
			Heading: roadHeading(wp, line),
		}
		url, err := p.streetView.ImageURL(ctx, wp, params)
		if err != nil {
			log.Printf("enrich: street view image at %s unavailable: %v", wp, err)
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

// roadHeading estimates the road bearing at a point from the nearest
// polyline segment, so the camera faces along the road. North when no
// geometry is available.
func roadHeading(p domain.LatLng, line []domain.LatLng) float64 {
	if len(line) < 2 {
		return 0
	}

	bestIdx := 0
	bestDist := math.Inf(1)
	for i, lp := range line {
		if d := geo.HaversineM(p, lp); d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}

	if bestIdx < len(line)-1 {
		return geo.Bearing(line[bestIdx], line[bestIdx+1])
	}
	return geo.Bearing(line[bestIdx-1], line[bestIdx])
}
