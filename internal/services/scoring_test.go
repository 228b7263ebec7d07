package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"moto-route-service/internal/adapters/gmaps"
	"moto-route-service/internal/config"
	"moto-route-service/internal/domain"
)

func scoringRules() config.Rules {
	rules := config.DefaultRules()
	rules.ScoringConcurrency = 1
	return rules
}

func testCandidates(n int) []domain.Candidate {
	rules := config.DefaultRules()
	rules.LoopCandidateCount = n
	prefs := domain.RoutePreferences{
		Shape:      domain.ShapeLoop,
		DistanceKm: 80,
		Start:      domain.LatLng{Lat: 52.10, Lng: 5.10},
	}
	candidates, _ := GenerateCandidates(prefs, rules, rand.New(rand.NewSource(1)))
	return candidates
}

func TestScoreCandidatesAttachesElevationAndScenery(t *testing.T) {
	candidates := testCandidates(3)

	elevations := &gmaps.MockElevationProvider{Elevations: []float64{12, 340, 55}}
	// Mixed scenery uses forest, beach and mountain; 2+3+5 matches hits
	// the saturation constant exactly.
	places := &gmaps.MockPlacesProvider{Counts: map[string]int{
		"forest": 2, "beach": 3, "mountain": 5,
	}}

	scored := ScoreCandidates(context.Background(), candidates, domain.SceneryMixed, elevations, places, scoringRules())

	for i, c := range scored {
		if c.ElevationM == nil {
			t.Fatalf("candidate %d has no elevation", i)
		}
		if c.SceneryScore != 1.0 {
			t.Fatalf("candidate %d score = %f, want 1.0", i, c.SceneryScore)
		}
	}
	if *scored[1].ElevationM != 340 {
		t.Fatalf("candidate 1 elevation = %f, want 340", *scored[1].ElevationM)
	}
}

func TestScoreCandidatesPartialMatches(t *testing.T) {
	candidates := testCandidates(2)

	elevations := &gmaps.MockElevationProvider{Elevations: []float64{10, 20}}
	places := &gmaps.MockPlacesProvider{Counts: map[string]int{"forest": 4}}

	scored := ScoreCandidates(context.Background(), candidates, domain.SceneryMixed, elevations, places, scoringRules())

	for i, c := range scored {
		if c.SceneryScore != 0.4 {
			t.Fatalf("candidate %d score = %f, want 0.4", i, c.SceneryScore)
		}
	}
}

func TestScoreCandidatesZeroMatches(t *testing.T) {
	candidates := testCandidates(2)

	elevations := &gmaps.MockElevationProvider{Elevations: []float64{10, 20}}
	places := &gmaps.MockPlacesProvider{Counts: map[string]int{}}

	scored := ScoreCandidates(context.Background(), candidates, domain.SceneryForest, elevations, places, scoringRules())

	for i, c := range scored {
		if c.SceneryScore != 0 {
			t.Fatalf("candidate %d score = %f, want 0", i, c.SceneryScore)
		}
	}
}

func TestScoreCandidatesElevationFailureIsIsolated(t *testing.T) {
	candidates := testCandidates(2)

	elevations := &gmaps.MockElevationProvider{Err: errors.New("quota exceeded")}
	places := &gmaps.MockPlacesProvider{Counts: map[string]int{"forest": 10}}

	scored := ScoreCandidates(context.Background(), candidates, domain.SceneryForest, elevations, places, scoringRules())

	for i, c := range scored {
		if c.ElevationM != nil {
			t.Fatalf("candidate %d has elevation despite provider failure", i)
		}
		if c.SceneryScore != 1.0 {
			t.Fatalf("candidate %d score = %f, want 1.0", i, c.SceneryScore)
		}
	}
}

func TestScoreCandidatesPlacesFailureScoresZero(t *testing.T) {
	candidates := testCandidates(2)

	elevations := &gmaps.MockElevationProvider{Elevations: []float64{10, 20}}
	places := &gmaps.MockPlacesProvider{Err: errors.New("service unavailable")}

	scored := ScoreCandidates(context.Background(), candidates, domain.SceneryMountains, elevations, places, scoringRules())

	for i, c := range scored {
		if c.SceneryScore != 0 {
			t.Fatalf("candidate %d score = %f, want 0", i, c.SceneryScore)
		}
		if c.ElevationM == nil {
			t.Fatalf("candidate %d lost its elevation", i)
		}
	}
}
