// Package config holds the static tunables of the route-generation
// pipeline. Rules is an explicit immutable value passed into the pipeline
// at construction, so tests can override individual knobs without touching
// shared state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules collects every tunable quality/cost parameter of the pipeline.
type Rules struct {
	// Candidate generation.
	LoopCandidateCount   int     `yaml:"loop_candidate_count"`
	OnewayCandidateCount int     `yaml:"oneway_candidate_count"`
	WaypointJitter       float64 `yaml:"waypoint_jitter"`

	// Waypoint selection.
	LoopWaypointSelect   int `yaml:"loop_waypoint_select"`
	OnewayWaypointSelect int `yaml:"oneway_waypoint_select"`

	// Scenery scoring.
	SceneryKeywordsUsed  int     `yaml:"scenery_keywords_used"`
	ScenerySearchRadiusM int     `yaml:"scenery_search_radius_m"`
	ScenerySaturation    float64 `yaml:"scenery_saturation"`
	ScoringConcurrency   int     `yaml:"scoring_concurrency"`

	// Validation.
	HighwayFractionLimit       float64  `yaml:"highway_fraction_limit"`
	HighwayStepKeywords        []string `yaml:"highway_step_keywords"`
	UTurnStepMaxM              float64  `yaml:"uturn_step_max_m"`
	UTurnBearingChange         float64  `yaml:"uturn_bearing_change"`
	OverlapSampleIntervalM     float64  `yaml:"overlap_sample_interval_m"`
	OverlapProximityThresholdM float64  `yaml:"overlap_proximity_threshold_m"`
	OverlapMinIndexGap         int      `yaml:"overlap_min_index_gap"`
	OverlapFractionLimit       float64  `yaml:"overlap_fraction_limit"`
	UrbanShortStepThresholdM   float64  `yaml:"urban_short_step_threshold_m"`
	UrbanShortStepFraction     float64  `yaml:"urban_short_step_fraction_limit"`

	// Retry loop.
	MaxRouteAttempts  int `yaml:"max_route_attempts"`
	FreshRegenAttempt int `yaml:"fresh_regen_attempt"`

	// Street View enrichment.
	StreetViewImageCount int    `yaml:"street_view_image_count"`
	StreetViewSize       string `yaml:"street_view_size"`
	StreetViewFOV        int    `yaml:"street_view_fov"`
	StreetViewPitch      int    `yaml:"street_view_pitch"`
}

// DefaultRules returns the production tuning.
func DefaultRules() Rules {
	return Rules{
		LoopCandidateCount:   12,
		OnewayCandidateCount: 10,
		WaypointJitter:       0.15,

		LoopWaypointSelect:   5,
		OnewayWaypointSelect: 4,

		SceneryKeywordsUsed:  3,
		ScenerySearchRadiusM: 5000,
		ScenerySaturation:    10,
		ScoringConcurrency:   4,

		HighwayFractionLimit: 0.10,
		HighwayStepKeywords: []string{
			"motorway", "highway", "freeway",
			// UK motorways.
			"m1", "m20", "m25",
			// Dutch / European motorway-grade A-roads.
			"a1", "a2", "a4", "a6", "a7", "a9", "a10", "a27", "a28",
		},
		UTurnStepMaxM:              200,
		UTurnBearingChange:         150,
		OverlapSampleIntervalM:     500,
		OverlapProximityThresholdM: 150,
		OverlapMinIndexGap:         5,
		OverlapFractionLimit:       0.05,
		UrbanShortStepThresholdM:   300,
		UrbanShortStepFraction:     0.30,

		MaxRouteAttempts:  5,
		FreshRegenAttempt: 3,

		StreetViewImageCount: 3,
		StreetViewSize:       "400x240",
		StreetViewFOV:        90,
		StreetViewPitch:      10,
	}
}

// LoadRules reads a YAML rules file and applies it on top of the defaults.
// Zero-valued fields in the file keep their default.
func LoadRules(path string) (Rules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("load rules: read %q: %w", path, err)
	}

	var overrides Rules
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return Rules{}, fmt.Errorf("load rules: parse %q: %w", path, err)
	}

	return DefaultRules().merge(overrides), nil
}

func (r Rules) merge(o Rules) Rules {
	out := r

	if o.LoopCandidateCount > 0 {
		out.LoopCandidateCount = o.LoopCandidateCount
	}
	if o.OnewayCandidateCount > 0 {
		out.OnewayCandidateCount = o.OnewayCandidateCount
	}
	if o.WaypointJitter > 0 {
		out.WaypointJitter = o.WaypointJitter
	}
	if o.LoopWaypointSelect > 0 {
		out.LoopWaypointSelect = o.LoopWaypointSelect
	}
	if o.OnewayWaypointSelect > 0 {
		out.OnewayWaypointSelect = o.OnewayWaypointSelect
	}
	if o.SceneryKeywordsUsed > 0 {
		out.SceneryKeywordsUsed = o.SceneryKeywordsUsed
	}
	if o.ScenerySearchRadiusM > 0 {
		out.ScenerySearchRadiusM = o.ScenerySearchRadiusM
	}
	if o.ScenerySaturation > 0 {
		out.ScenerySaturation = o.ScenerySaturation
	}
	if o.ScoringConcurrency > 0 {
		out.ScoringConcurrency = o.ScoringConcurrency
	}
	if o.HighwayFractionLimit > 0 {
		out.HighwayFractionLimit = o.HighwayFractionLimit
	}
	if len(o.HighwayStepKeywords) > 0 {
		out.HighwayStepKeywords = o.HighwayStepKeywords
	}
	if o.UTurnStepMaxM > 0 {
		out.UTurnStepMaxM = o.UTurnStepMaxM
	}
	if o.UTurnBearingChange > 0 {
		out.UTurnBearingChange = o.UTurnBearingChange
	}
	if o.OverlapSampleIntervalM > 0 {
		out.OverlapSampleIntervalM = o.OverlapSampleIntervalM
	}
	if o.OverlapProximityThresholdM > 0 {
		out.OverlapProximityThresholdM = o.OverlapProximityThresholdM
	}
	if o.OverlapMinIndexGap > 0 {
		out.OverlapMinIndexGap = o.OverlapMinIndexGap
	}
	if o.OverlapFractionLimit > 0 {
		out.OverlapFractionLimit = o.OverlapFractionLimit
	}
	if o.UrbanShortStepThresholdM > 0 {
		out.UrbanShortStepThresholdM = o.UrbanShortStepThresholdM
	}
	if o.UrbanShortStepFraction > 0 {
		out.UrbanShortStepFraction = o.UrbanShortStepFraction
	}
	if o.MaxRouteAttempts > 0 {
		out.MaxRouteAttempts = o.MaxRouteAttempts
	}
	if o.FreshRegenAttempt > 0 {
		out.FreshRegenAttempt = o.FreshRegenAttempt
	}
	if o.StreetViewImageCount > 0 {
		out.StreetViewImageCount = o.StreetViewImageCount
	}
	if o.StreetViewSize != "" {
		out.StreetViewSize = o.StreetViewSize
	}
	if o.StreetViewFOV > 0 {
		out.StreetViewFOV = o.StreetViewFOV
	}
	if o.StreetViewPitch > 0 {
		out.StreetViewPitch = o.StreetViewPitch
	}

	return out
}

// CandidateCount returns the candidate set size for the given loop flag.
func (r Rules) CandidateCount(loop bool) int {
	if loop {
		return r.LoopCandidateCount
	}
	return r.OnewayCandidateCount
}

// SelectCount returns the waypoint select count for the given loop flag.
func (r Rules) SelectCount(loop bool) int {
	if loop {
		return r.LoopWaypointSelect
	}
	return r.OnewayWaypointSelect
}
