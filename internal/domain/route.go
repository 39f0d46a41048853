package domain

import "time"

// Driving leg reported by the distance oracle, labelled with its endpoints.
type Leg struct {
	DistanceMeters  int
	DurationSeconds int
	From            string
	To              string
}

// Represents a single stop in a delivery route.
// A RouteStop binds a store to its estimated arrival, the fixed dwell time
// spent there, and the driving leg that reaches it.
type RouteStop struct {
	Store    Store
	ArriveAt time.Time
	Dwell    time.Duration
	Leg      Leg
}

// One directed leg of a route (depot->stop, stop->stop or last stop->depot).
type NavigationStep struct {
	Instruction     string
	From            Coordinates
	To              Coordinates
	DistanceMeters  int
	DurationSeconds int
	Path            string
	NavigationURL   string
}

// Represents the planned delivery route for a single vehicle.
// A DeliveryRoute is always rebuilt wholesale when its stop list changes;
// sequence, timestamps and distances are never patched in place.
type DeliveryRoute struct {
	Vehicle              Vehicle
	DepartAt             time.Time
	Stops                []RouteStop
	Steps                []NavigationStep
	TotalDistanceMeters  int
	TotalDurationMinutes int
	NavigationURL        string
}

func (r *DeliveryRoute) TotalDistanceKm() float64 { return float64(r.TotalDistanceMeters) / 1000 }

// Stores returns the route's stores in visiting order.
func (r *DeliveryRoute) Stores() []Store {
	out := make([]Store, 0, len(r.Stops))
	for _, s := range r.Stops {
		out = append(out, s.Store)
	}
	return out
}

// Terminal output of one planning run.
type PlanningResult struct {
	Success    bool
	Routes     []*DeliveryRoute
	Unassigned []Store
	Unlocated  []Store
	Error      string
}
