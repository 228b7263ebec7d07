package services

import (
	"context"
	"log"
	"math"
	"sync"

	"moto-route-service/internal/config"
	"moto-route-service/internal/domain"
	"moto-route-service/internal/ports"
)

// Keyword lists per scenery category. The scorer uses the first
// SceneryKeywordsUsed entries of the requested category.
var sceneryKeywords = map[domain.SceneryType][]string{
	domain.SceneryForest:    {"forest", "wood", "nature reserve", "grove", "heath"},
	domain.SceneryCoastline: {"beach", "coast", "cliff", "lighthouse", "harbor"},
	domain.SceneryMountains: {"mountain", "peak", "pass", "ridge", "fell"},
	domain.SceneryMixed:     {"forest", "beach", "mountain", "lake", "viewpoint"},
}

// ScoreCandidates annotates each candidate in place with an elevation
// value and a scenery score. Every external failure is isolated: a failed
// elevation lookup leaves the elevation unset, a failed places query
// contributes zero matches, and neither aborts the batch.
//
// Scenery queries fan out across candidates bounded by
// rules.ScoringConcurrency; the cost is O(candidates × keywords) external
// calls.
func ScoreCandidates(
	ctx context.Context,
	candidates []domain.Candidate,
	scenery domain.SceneryType,
	elevations ports.ElevationProvider,
	places ports.PlacesProvider,
	rules config.Rules,
) []domain.Candidate {
	if len(candidates) == 0 {
		return candidates
	}

	points := make([]domain.LatLng, 0, len(candidates))
	for _, c := range candidates {
		points = append(points, c.Position)
	}

	// One batched lookup; elevation is context only, so a failure here
	// degrades to unset values for the whole set.
	elevs, err := elevations.GetElevations(ctx, points)
	if err != nil {
		log.Printf("scoring: elevation lookup failed: %v", err)
	} else {
		for i := range candidates {
			if i < len(elevs) {
				candidates[i].ElevationM = elevs[i]
			}
		}
	}

	keywords := sceneryKeywords[scenery]
	if rules.SceneryKeywordsUsed < len(keywords) {
		keywords = keywords[:rules.SceneryKeywordsUsed]
	}

	limit := rules.ScoringConcurrency
	if limit < 1 {
		limit = 1
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i := range candidates {
		wg.Add(1)
		go func(c *domain.Candidate) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			c.SceneryScore = sceneryScore(ctx, c.Position, keywords, places, rules)
		}(&candidates[i])
	}

	wg.Wait()
	return candidates
}

// sceneryScore counts nearby places across the keyword list and
// normalizes against the saturation constant. A failed keyword query
// contributes nothing; the remaining keywords still count.
func sceneryScore(
	ctx context.Context,
	point domain.LatLng,
	keywords []string,
	places ports.PlacesProvider,
	rules config.Rules,
) float64 {
	total := 0
	for _, kw := range keywords {
		n, err := places.CountNearby(ctx, point, rules.ScenerySearchRadiusM, kw)
		if err != nil {
			log.Printf("scoring: places query point=%s keyword=%q failed: %v", point, kw, err)
			continue
		}
		total += n
	}

	if rules.ScenerySaturation <= 0 {
		return 0
	}
	return math.Min(1.0, float64(total)/rules.ScenerySaturation)
}
