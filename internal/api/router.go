package api

import (
	"net/http"

	"moto-route-service/internal/api/handlers"
	"moto-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters).
func NewRouter(pipeline *services.Pipeline) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Pipeline: pipeline}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes", routeHandler.Generate)

	return loggingMiddleware(mux)
}
