package dto

import (
	"time"

	"delivery-planning-service/internal/domain"
)

// PlanRequest optionally narrows the run to some stores and vehicles.
// Empty lists mean "all".
type PlanRequest struct {
	StoreIDs   []string `json:"store_ids"`
	VehicleIDs []string `json:"vehicle_ids"`
}

type PlanStopResponse struct {
	Store           StoreResponse `json:"store"`
	ArriveAt        time.Time     `json:"arrive_at"`
	DwellMinutes    int           `json:"dwell_minutes"`
	DistanceMeters  int           `json:"distance_meters"`
	DurationSeconds int           `json:"duration_seconds"`
}

type NavigationStepResponse struct {
	Instruction     string           `json:"instruction"`
	From            LocationResponse `json:"from"`
	To              LocationResponse `json:"to"`
	DistanceMeters  int              `json:"distance_meters"`
	DurationSeconds int              `json:"duration_seconds"`
	Path            string           `json:"path,omitempty"`
	NavigationURL   string           `json:"navigation_url"`
}

type RouteResponse struct {
	Vehicle              VehicleResponse          `json:"vehicle"`
	DepartAt             time.Time                `json:"depart_at"`
	TotalDistanceMeters  int                      `json:"total_distance_meters"`
	TotalDurationMinutes int                      `json:"total_duration_minutes"`
	NavigationURL        string                   `json:"navigation_url"`
	Stops                []PlanStopResponse       `json:"stops"`
	Steps                []NavigationStepResponse `json:"steps"`
}

type PlanResponse struct {
	Success    bool            `json:"success"`
	Routes     []RouteResponse `json:"routes"`
	Unassigned []StoreResponse `json:"unassigned"`
	Unlocated  []StoreResponse `json:"unlocated"`
	Error      string          `json:"error,omitempty"`
}

func Plan(res *domain.PlanningResult) PlanResponse {
	out := PlanResponse{
		Success:    res.Success,
		Routes:     make([]RouteResponse, 0, len(res.Routes)),
		Unassigned: Stores(res.Unassigned),
		Unlocated:  Stores(res.Unlocated),
		Error:      res.Error,
	}

	for _, r := range res.Routes {
		route := RouteResponse{
			Vehicle:              Vehicle(r.Vehicle),
			DepartAt:             r.DepartAt,
			TotalDistanceMeters:  r.TotalDistanceMeters,
			TotalDurationMinutes: r.TotalDurationMinutes,
			NavigationURL:        r.NavigationURL,
			Stops:                make([]PlanStopResponse, 0, len(r.Stops)),
			Steps:                make([]NavigationStepResponse, 0, len(r.Steps)),
		}
		for _, s := range r.Stops {
			route.Stops = append(route.Stops, PlanStopResponse{
				Store:           Store(s.Store),
				ArriveAt:        s.ArriveAt,
				DwellMinutes:    int(s.Dwell.Minutes()),
				DistanceMeters:  s.Leg.DistanceMeters,
				DurationSeconds: s.Leg.DurationSeconds,
			})
		}
		for _, st := range r.Steps {
			route.Steps = append(route.Steps, NavigationStepResponse{
				Instruction:     st.Instruction,
				From:            Location(st.From),
				To:              Location(st.To),
				DistanceMeters:  st.DistanceMeters,
				DurationSeconds: st.DurationSeconds,
				Path:            st.Path,
				NavigationURL:   st.NavigationURL,
			})
		}
		out.Routes = append(out.Routes, route)
	}
	return out
}
