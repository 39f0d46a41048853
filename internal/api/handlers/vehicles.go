package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"delivery-planning-service/internal/api/dto"
	"delivery-planning-service/internal/platform/obs"
	"delivery-planning-service/internal/ports"
)

type VehicleHandler struct {
	Repo ports.VehicleRepository
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	vehicles, err := h.Repo.ListVehicles(r.Context())
	if err != nil {
		log.Error().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("list vehicles failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListVehiclesResponse{Vehicles: make([]dto.VehicleResponse, 0, len(vehicles))}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, dto.Vehicle(v))
	}
	writeJSON(w, r, http.StatusOK, res)
}
