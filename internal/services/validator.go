package services

import (
	"fmt"
	"strings"

	"moto-route-service/internal/config"
	"moto-route-service/internal/domain"
	"moto-route-service/internal/geo"
)

// ValidateRoute inspects a resolved route for policy violations. Pure
// function: same route and rules always produce the same verdict.
//
// The highway and road-class checks are substring matches on free-text
// instructions, so they are inherently provider-format-dependent; keeping
// them here isolates that dependency from the retry state machine.
func ValidateRoute(route *domain.ResolvedRoute, rules config.Rules) domain.ValidationVerdict {
	verdict := domain.ValidationVerdict{}
	if route == nil || len(route.Steps) == 0 {
		verdict.Violations = append(verdict.Violations, domain.ViolationEmptyRoute)
		verdict.Issues = append(verdict.Issues, "no route steps returned by the directions provider")
		return verdict
	}

	checkHighwayFraction(route, rules, &verdict)
	checkUTurns(route, rules, &verdict)
	checkPolylineOverlap(route, rules, &verdict)
	checkUrbanDensity(route, rules, &verdict)

	verdict.Passed = len(verdict.Violations) == 0
	return verdict
}

func checkHighwayFraction(route *domain.ResolvedRoute, rules config.Rules, verdict *domain.ValidationVerdict) {
	if route.TotalDistanceMeters <= 0 {
		return
	}

	var highwayM float64
	for _, s := range route.Steps {
		if isHighwayStep(s, rules) {
			highwayM += s.DistanceMeters
		}
	}

	verdict.HighwayFraction = highwayM / route.TotalDistanceMeters
	if verdict.HighwayFraction > rules.HighwayFractionLimit {
		verdict.Violations = append(verdict.Violations, domain.ViolationHighway)
		verdict.Issues = append(verdict.Issues, fmt.Sprintf(
			"route uses highways for %.0f%% of total distance (limit: %.0f%%)",
			verdict.HighwayFraction*100, rules.HighwayFractionLimit*100,
		))
	}
}

func isHighwayStep(s domain.RouteStep, rules config.Rules) bool {
	text := strings.ToLower(s.Instruction)
	if s.RoadClassHint != "" {
		text += " " + strings.ToLower(s.RoadClassHint)
	}
	for _, kw := range rules.HighwayStepKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// checkUTurns flags consecutive short-step pairs whose bearings reverse.
// The index of the first step of each flagged pair is recorded so the
// feedback to the selector can point at the offending spot.
func checkUTurns(route *domain.ResolvedRoute, rules config.Rules, verdict *domain.ValidationVerdict) {
	steps := route.Steps
	for i := 1; i < len(steps); i++ {
		prev, curr := steps[i-1], steps[i]
		if prev.DistanceMeters >= rules.UTurnStepMaxM || curr.DistanceMeters >= rules.UTurnStepMaxM {
			continue
		}

		diff := geo.BearingDiff(stepBearing(prev), stepBearing(curr))
		if diff > rules.UTurnBearingChange {
			verdict.UTurnIndices = append(verdict.UTurnIndices, i-1)
		}
	}

	if len(verdict.UTurnIndices) > 0 {
		verdict.Violations = append(verdict.Violations, domain.ViolationUTurn)
		verdict.Issues = append(verdict.Issues, fmt.Sprintf(
			"possible U-turn at step(s) %v (bearing reversal on short steps)",
			verdict.UTurnIndices,
		))
	}
}

func stepBearing(s domain.RouteStep) float64 {
	if s.StartBearing != nil {
		return *s.StartBearing
	}
	return geo.Bearing(s.StartLocation, s.EndLocation)
}

// checkPolylineOverlap detects large-scale double-backs: the overview
// polyline is sampled at a fixed interval and non-adjacent samples closer
// than the proximity threshold count as overlapping corridor.
func checkPolylineOverlap(route *domain.ResolvedRoute, rules config.Rules, verdict *domain.ValidationVerdict) {
	points := geo.DecodePolyline(route.OverviewPolyline)
	if len(points) < 2 {
		return
	}

	sampled := []domain.LatLng{points[0]}
	accumulated := 0.0
	for i := 1; i < len(points); i++ {
		accumulated += geo.HaversineM(points[i-1], points[i])
		if accumulated >= rules.OverlapSampleIntervalM {
			sampled = append(sampled, points[i])
			accumulated = 0
		}
	}

	// Too short to meaningfully double back.
	if len(sampled) < rules.OverlapMinIndexGap*2 {
		return
	}

	overlaps := 0
	for i := range sampled {
		for j := i + rules.OverlapMinIndexGap; j < len(sampled); j++ {
			if geo.HaversineM(sampled[i], sampled[j]) < rules.OverlapProximityThresholdM {
				overlaps++
				break
			}
		}
	}

	verdict.OverlapFraction = float64(overlaps) / float64(len(sampled))
	if verdict.OverlapFraction > rules.OverlapFractionLimit {
		verdict.Violations = append(verdict.Violations, domain.ViolationOverlap)
		verdict.Issues = append(verdict.Issues, fmt.Sprintf(
			"route doubles back on itself: %.0f%% of sampled points overlap non-adjacent segments (limit: %.0f%%)",
			verdict.OverlapFraction*100, rules.OverlapFractionLimit*100,
		))
	}
}

// checkUrbanDensity flags routes dominated by short steps, which in
// practice means city riding with frequent turns.
func checkUrbanDensity(route *domain.ResolvedRoute, rules config.Rules, verdict *domain.ValidationVerdict) {
	short := 0
	for _, s := range route.Steps {
		if s.DistanceMeters < rules.UrbanShortStepThresholdM {
			short++
		}
	}

	fraction := float64(short) / float64(len(route.Steps))
	if fraction > rules.UrbanShortStepFraction {
		verdict.Violations = append(verdict.Violations, domain.ViolationUrbanDensity)
		verdict.Issues = append(verdict.Issues, fmt.Sprintf(
			"route appears to pass through urban areas: %.0f%% of steps are shorter than %.0fm (limit: %.0f%%)",
			fraction*100, rules.UrbanShortStepThresholdM, rules.UrbanShortStepFraction*100,
		))
	}
}
