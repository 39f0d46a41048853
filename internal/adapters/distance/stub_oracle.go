package distance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/ports"
)

type StubLeg struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

// StubOracle is a deterministic oracle for tests. Legs are looked up by
// exact endpoints; a missing leg is an error unless a fallback is set.
type StubOracle struct {
	mu        sync.Mutex
	legs      map[string]ports.DistanceResult
	addresses map[string]domain.Coordinates
	fallback  ports.DistanceOracle
	failOn    map[string]error
	calls     []string
}

func NewStubOracle(legs []StubLeg) *StubOracle {
	m := make(map[string]ports.DistanceResult, len(legs))
	for _, l := range legs {
		m[legKey(l.From, l.To)] = ports.DistanceResult{DistanceMeters: l.Meters, DurationSeconds: l.Seconds}
	}
	return &StubOracle{
		legs:      m,
		addresses: make(map[string]domain.Coordinates),
		failOn:    make(map[string]error),
	}
}

// WithFallback answers legs that were not registered.
func (s *StubOracle) WithFallback(o ports.DistanceOracle) *StubOracle {
	s.fallback = o
	return s
}

func (s *StubOracle) AddAddress(address string, c domain.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[address] = c
}

// FailOn makes every call touching the point (or the address) return err.
func (s *StubOracle) FailOn(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[key] = err
}

// Calls returns the recorded calls, e.g. "route 120.1,30.5|120.2,30.6".
func (s *StubOracle) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *StubOracle) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *StubOracle) failure(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if err, ok := s.failOn[k]; ok {
			return err
		}
	}
	return nil
}

func (s *StubOracle) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	s.record("geocode " + address)
	if err := s.failure(address); err != nil {
		return domain.Coordinates{}, err
	}

	s.mu.Lock()
	c, ok := s.addresses[address]
	s.mu.Unlock()
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, ports.ErrAddressNotFound)
	}
	return c, nil
}

func (s *StubOracle) Route(ctx context.Context, from, to domain.Coordinates) (ports.RouteResult, error) {
	key := legKey(from, to)
	s.record("route " + key)
	if err := s.failure(from.LonLat(), to.LonLat()); err != nil {
		return ports.RouteResult{}, err
	}

	if r, ok := s.legs[key]; ok {
		return ports.RouteResult{DistanceResult: r, Path: []string{key}}, nil
	}
	if s.fallback != nil {
		return s.fallback.Route(ctx, from, to)
	}
	return ports.RouteResult{}, fmt.Errorf("missing leg %s", key)
}

func (s *StubOracle) MultiRoute(ctx context.Context, points []domain.Coordinates) (ports.RouteResult, error) {
	if len(points) < 2 {
		return ports.RouteResult{}, errors.New("multi route: need at least two points")
	}

	var total ports.RouteResult
	for i := 1; i < len(points); i++ {
		r, err := s.Route(ctx, points[i-1], points[i])
		if err != nil {
			return ports.RouteResult{}, err
		}
		total.DistanceMeters += r.DistanceMeters
		total.DurationSeconds += r.DurationSeconds
		total.Path = append(total.Path, r.Path...)
	}
	return total, nil
}

func legKey(from, to domain.Coordinates) string {
	return from.LonLat() + "|" + to.LonLat()
}
