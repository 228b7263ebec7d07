package gmaps

import (
	"context"
	"fmt"
	"log"
	"strings"

	"moto-route-service/internal/adapters/cache"
	"moto-route-service/internal/domain"
	"moto-route-service/internal/platform/obs"
)

type elevationResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Elevation float64    `json:"elevation"`
		Location  latLngJSON `json:"location"`
	} `json:"results"`
}

// ElevationProvider implements ports.ElevationProvider using the Google
// Elevation API with an optional persistent cache in front of it.
// Lookups are batched into a single request; per-point misses degrade to
// nil entries rather than failing the batch.
type ElevationProvider struct {
	client *Client
	cache  *cache.SQLElevationCache
}

func NewElevationProvider(client *Client, elevationCache *cache.SQLElevationCache) *ElevationProvider {
	return &ElevationProvider{client: client, cache: elevationCache}
}

func (e *ElevationProvider) GetElevations(ctx context.Context, points []domain.LatLng) (_ []*float64, err error) {
	defer obs.Time(ctx, "gmaps.GetElevations")(&err)

	out := make([]*float64, len(points))
	if len(points) == 0 {
		return out, nil
	}

	misses := make([]int, 0, len(points))
	if e.cache != nil {
		hits, err := e.cache.GetMany(ctx, points)
		if err != nil {
			return nil, fmt.Errorf("elevation cache read: %w", err)
		}
		for i, p := range points {
			if v, ok := hits[cache.PointKey(p.Lat, p.Lng)]; ok {
				elev := v
				out[i] = &elev
			} else {
				misses = append(misses, i)
			}
		}
	} else {
		for i := range points {
			misses = append(misses, i)
		}
	}

	if len(misses) == 0 {
		return out, nil
	}

	locs := make([]string, 0, len(misses))
	for _, i := range misses {
		locs = append(locs, points[i].String())
	}

	var payload elevationResponse
	query := map[string]string{"locations": strings.Join(locs, "|")}
	if err := e.client.getJSON(ctx, "/maps/api/elevation/json", query, &payload); err != nil {
		return nil, fmt.Errorf("elevation request: %w", err)
	}

	if payload.Status != "OK" {
		return nil, fmt.Errorf("elevation returned status %q", payload.Status)
	}

	fresh := make(map[string]float64, len(payload.Results))
	for j, i := range misses {
		if j >= len(payload.Results) {
			break
		}
		elev := payload.Results[j].Elevation
		out[i] = &elev
		fresh[cache.PointKey(points[i].Lat, points[i].Lng)] = elev
	}

	if e.cache != nil && len(fresh) > 0 {
		if err := e.cache.PutMany(ctx, fresh); err != nil {
			log.Printf("elevation cache write failed: %v", err)
		}
	}

	return out, nil
}
