package geo

import "moto-route-service/internal/domain"

// FindClosestRegion returns the region whose center is nearest to p by
// great-circle distance. Ties keep the first region in input order. The
// second return value is false when regions is empty.
func FindClosestRegion(p domain.LatLng, regions []domain.Region) (domain.Region, bool) {
	if len(regions) == 0 {
		return domain.Region{}, false
	}

	best := regions[0]
	bestDist := Haversine(p, regions[0].Center)
	for _, r := range regions[1:] {
		if d := Haversine(p, r.Center); d < bestDist {
			best = r
			bestDist = d
		}
	}

	return best, true
}
