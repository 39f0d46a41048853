package services

import "errors"

var (
	// No store in the input has a position.
	ErrNoLocatedStores = errors.New("no located stores to plan")
	ErrNoVehicles      = errors.New("no vehicles configured")
	// Planning finished but not a single route could be built.
	ErrNoRoutes = errors.New("no feasible route could be built")
)
