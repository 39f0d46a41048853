package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"delivery-planning-service/internal/api/handlers"
	"delivery-planning-service/internal/ports"
)

type Deps struct {
	Stores             ports.StoreRepository
	Vehicles           ports.VehicleRepository
	Oracle             ports.DistanceOracle
	Planner            handlers.RoutePlanner
	GeocodeConcurrency int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	storeHandler := &handlers.StoreHandler{
		Repo:               d.Stores,
		Oracle:             d.Oracle,
		GeocodeConcurrency: d.GeocodeConcurrency,
	}
	vehicleHandler := &handlers.VehicleHandler{Repo: d.Vehicles}
	planHandler := &handlers.PlanHandler{
		Stores:   d.Stores,
		Vehicles: d.Vehicles,
		Planner:  d.Planner,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stores", storeHandler.List)
	mux.HandleFunc("/stores/geocode", storeHandler.Geocode)
	mux.HandleFunc("/vehicles", vehicleHandler.List)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.Handle("/metrics", promhttp.Handler())

	// logging wraps request IDs so the log line sees the id on the context
	return requestIDMiddleware(loggingMiddleware(mux))
}
