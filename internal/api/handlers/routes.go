package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"moto-route-service/internal/api/dto"
	"moto-route-service/internal/domain"
	"moto-route-service/internal/services"
)

type RouteHandler struct {
	Pipeline *services.Pipeline
}

// Generate runs the route-generation pipeline for one request.
func (h *RouteHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.GenerateRouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	prefs := domain.RoutePreferences{
		Shape:         domain.RouteShape(strings.TrimSpace(req.Shape)),
		DistanceKm:    req.DistanceKm,
		StartLocation: strings.TrimSpace(req.StartLocation),
		Scenery:       domain.SceneryType(strings.TrimSpace(req.Scenery)),
	}
	if req.Start != nil {
		prefs.Start = domain.LatLng{Lat: req.Start.Lat, Lng: req.Start.Lng}
	}
	if req.Curviness != nil {
		prefs.Curviness = *req.Curviness
	} else {
		prefs.Curviness = 0.5
	}
	if prefs.Scenery == "" {
		prefs.Scenery = domain.SceneryMixed
	}

	route, err := h.Pipeline.GenerateRoute(r.Context(), prefs)
	if err != nil {
		var perr *services.PipelineError
		if errors.As(err, &perr) && perr.Kind == services.ErrKindInvalidInput {
			writeError(w, r, http.StatusBadRequest, perr.Err.Error())
			return
		}
		log.Printf("route generation failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "route generation failed")
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(route))
}

func toRouteResponse(route *domain.GeneratedRoute) dto.GenerateRouteResponse {
	waypoints := make([]dto.LatLng, 0, len(route.Waypoints))
	for _, wp := range route.Waypoints {
		waypoints = append(waypoints, dto.LatLng{Lat: wp.Lat, Lng: wp.Lng})
	}

	steps := make([]dto.RouteStepResponse, 0, len(route.Route.Steps))
	for _, s := range route.Route.Steps {
		steps = append(steps, dto.RouteStepResponse{
			Instruction:    s.Instruction,
			DistanceMeters: s.DistanceMeters,
		})
	}

	return dto.GenerateRouteResponse{
		Status:               string(route.Status),
		Attempts:             route.Attempts,
		EncodedPolyline:      route.EncodedPolyline,
		TotalDistanceMeters:  route.Route.TotalDistanceMeters,
		TotalDurationSeconds: route.Route.TotalDurationSeconds,
		Waypoints:            waypoints,
		Steps:                steps,
		Narrative:            route.Narrative,
		StreetViewURLs:       route.StreetViewURLs,
	}
}
