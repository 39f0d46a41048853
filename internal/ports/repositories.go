package ports

import (
	"context"

	"delivery-planning-service/internal/domain"
)

// Port: a boundary for retrieving and locating Store entities.
type StoreRepository interface {
	// Retrieve all stores, located or not.
	ListStores(ctx context.Context) ([]domain.Store, error)
	// Persist geocoded positions keyed by store ID.
	UpdateLocations(ctx context.Context, locations map[string]domain.Coordinates) error
}

// Port: fleet configuration.
type VehicleRepository interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
}
