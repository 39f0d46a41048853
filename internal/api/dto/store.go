package dto

import "delivery-planning-service/internal/domain"

type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type StoreResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Address  string            `json:"address"`
	Location *LocationResponse `json:"location"`
}

type ListStoresResponse struct {
	Stores []StoreResponse `json:"stores"`
}

// GeocodeStoresResponse mirrors the import result: stores with a position
// and stores that could not be located.
type GeocodeStoresResponse struct {
	Stores          []StoreResponse `json:"stores"`
	UnlocatedStores []StoreResponse `json:"unlocatedStores"`
	Resolved        int             `json:"resolved"`
}

func Location(c domain.Coordinates) LocationResponse {
	return LocationResponse{Lat: c.Lat, Lon: c.Lon}
}

func Store(s domain.Store) StoreResponse {
	res := StoreResponse{ID: s.ID, Name: s.Name, Address: s.Address}
	if s.Location != nil {
		loc := Location(*s.Location)
		res.Location = &loc
	}
	return res
}

func Stores(stores []domain.Store) []StoreResponse {
	out := make([]StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, Store(s))
	}
	return out
}
