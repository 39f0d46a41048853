package dto

import "delivery-planning-service/internal/domain"

type VehicleResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	MaxLoad      float64 `json:"max_load"`
	MaxDistance  float64 `json:"max_distance_km"`
	MaxWorkHours float64 `json:"max_work_hours"`
	MaxStores    int     `json:"max_stores"`
	Priority     int     `json:"priority"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

func Vehicle(v domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:           v.ID,
		Name:         v.Name,
		Type:         string(v.Type),
		MaxLoad:      v.MaxLoad,
		MaxDistance:  v.MaxDistance,
		MaxWorkHours: v.MaxWorkHours,
		MaxStores:    v.MaxStores,
		Priority:     v.Priority,
	}
}
