package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"delivery-planning-service/internal/api/dto"
	"delivery-planning-service/internal/platform/obs"
	"delivery-planning-service/internal/ports"
	"delivery-planning-service/internal/services"
)

// StoreHandler exposes store listing and load-time geocoding.
type StoreHandler struct {
	Repo               ports.StoreRepository
	Oracle             ports.DistanceOracle
	GeocodeConcurrency int
}

func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	stores, err := h.Repo.ListStores(r.Context())
	if err != nil {
		log.Error().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("list stores failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListStoresResponse{Stores: dto.Stores(stores)})
}

// Geocode resolves every store still lacking a position and persists the
// positions found.
func (h *StoreHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()

	stores, err := h.Repo.ListStores(ctx)
	if err != nil {
		log.Error().Str("req_id", obs.RequestID(ctx)).Err(err).Msg("list stores failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res, err := services.GeocodeStores(ctx, h.Oracle, stores, h.GeocodeConcurrency)
	if err != nil {
		log.Error().Str("req_id", obs.RequestID(ctx)).Err(err).Msg("geocode stores failed")
		writeError(w, r, http.StatusBadGateway, "geocoding service failed")
		return
	}

	if err := h.Repo.UpdateLocations(ctx, res.Resolved); err != nil {
		log.Error().Str("req_id", obs.RequestID(ctx)).Err(err).Msg("persist store locations failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GeocodeStoresResponse{
		Stores:          dto.Stores(res.Stores),
		UnlocatedStores: dto.Stores(res.Unlocated),
		Resolved:        len(res.Resolved),
	})
}
