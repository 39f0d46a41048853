package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"delivery-planning-service/internal/api/dto"
	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/platform/obs"
	"delivery-planning-service/internal/ports"
	"delivery-planning-service/internal/services"
)

// RoutePlanner is the planning entry point the handler drives.
type RoutePlanner interface {
	Plan(ctx context.Context, stores []domain.Store, vehicles []domain.Vehicle, progress services.ProgressFunc) (*domain.PlanningResult, error)
}

type PlanHandler struct {
	Stores   ports.StoreRepository
	Vehicles ports.VehicleRepository
	Planner  RoutePlanner
}

// Plan runs one planning pass over the stored stores and fleet, optionally
// narrowed by id. The body is always a plan result; failed runs carry
// success=false and the error text.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()
	reqID := obs.RequestID(ctx)

	var req dto.PlanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stores, err := h.Stores.ListStores(ctx)
	if err != nil {
		log.Error().Str("req_id", reqID).Err(err).Msg("list stores failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	vehicles, err := h.Vehicles.ListVehicles(ctx)
	if err != nil {
		log.Error().Str("req_id", reqID).Err(err).Msg("list vehicles failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	stores, missing := filterByID(stores, req.StoreIDs, func(s domain.Store) string { return s.ID })
	if len(missing) > 0 {
		writeError(w, r, http.StatusBadRequest, "unknown store ids: "+strings.Join(missing, ", "))
		return
	}
	vehicles, missing = filterByID(vehicles, req.VehicleIDs, func(v domain.Vehicle) string { return v.ID })
	if len(missing) > 0 {
		writeError(w, r, http.StatusBadRequest, "unknown vehicle ids: "+strings.Join(missing, ", "))
		return
	}

	progress := func(current, total int, status string) {
		log.Debug().Str("req_id", reqID).Int("current", current).Int("total", total).Msg(status)
	}

	res, err := h.Planner.Plan(ctx, stores, vehicles, progress)
	if err != nil {
		log.Warn().Str("req_id", reqID).Err(err).Msg("planning failed")
	}

	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNoLocatedStores),
		errors.Is(err, services.ErrNoVehicles),
		errors.Is(err, services.ErrNoRoutes):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusBadGateway
	}

	if res == nil {
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, r, status, dto.Plan(res))
}

// filterByID keeps items whose id is listed, in input order. An empty id
// list keeps everything. Listed ids with no match are returned as missing.
func filterByID[T any](items []T, ids []string, id func(T) string) (kept []T, missing []string) {
	if len(ids) == 0 {
		return items, nil
	}

	want := make(map[string]bool, len(ids))
	for _, i := range ids {
		want[i] = false
	}

	kept = make([]T, 0, len(ids))
	for _, it := range items {
		if _, ok := want[id(it)]; ok {
			want[id(it)] = true
			kept = append(kept, it)
		}
	}

	for _, i := range ids {
		if !want[i] {
			missing = append(missing, i)
			want[i] = true
		}
	}
	return kept, missing
}
