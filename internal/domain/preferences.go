package domain

import (
	"errors"
	"fmt"
)

// RouteShape selects the overall geometry of the requested ride.
type RouteShape string

const (
	ShapeLoop   RouteShape = "loop"
	ShapeOneWay RouteShape = "one_way"
)

// SceneryType is the rider's preferred surroundings.
type SceneryType string

const (
	SceneryForest    SceneryType = "forest"
	SceneryCoastline SceneryType = "coastline"
	SceneryMountains SceneryType = "mountains"
	SceneryMixed     SceneryType = "mixed"
)

// RoutePreferences is the immutable input to one route-generation run.
// StartLocation is a free-text address or a "lat,lng" string; Start is
// populated once the location has been resolved.
type RoutePreferences struct {
	Shape         RouteShape
	DistanceKm    float64
	StartLocation string
	Start         LatLng
	Scenery       SceneryType
	Curviness     float64 // 0.0 relaxed .. 1.0 maximum twisties
}

// Validate checks the request before any work is done.
func (p RoutePreferences) Validate() error {
	switch p.Shape {
	case ShapeLoop, ShapeOneWay:
	default:
		return fmt.Errorf("preferences: unknown shape %q", p.Shape)
	}

	if p.DistanceKm <= 0 {
		return fmt.Errorf("preferences: distance_km must be positive, got %g", p.DistanceKm)
	}

	switch p.Scenery {
	case SceneryForest, SceneryCoastline, SceneryMountains, SceneryMixed:
	default:
		return fmt.Errorf("preferences: unknown scenery %q", p.Scenery)
	}

	if p.Curviness < 0 || p.Curviness > 1 {
		return fmt.Errorf("preferences: curviness must be in [0,1], got %g", p.Curviness)
	}

	if p.StartLocation == "" && p.Start == (LatLng{}) {
		return errors.New("preferences: start location is required")
	}

	return nil
}
