package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/ports"
)

// GeocodeResult splits a store list by whether a position is known.
type GeocodeResult struct {
	Stores    []domain.Store
	Unlocated []domain.Store
	// Newly resolved positions keyed by store ID, for persisting.
	Resolved map[string]domain.Coordinates
}

// GeocodeStores resolves positions for stores that lack one, one oracle call
// per address. Stores already located are passed through untouched.
//
// A miss leaves the store unlocated. Any other oracle error fails the whole
// batch. Input order is kept in both output lists.
func GeocodeStores(ctx context.Context, oracle ports.DistanceOracle, stores []domain.Store, concurrency int) (*GeocodeResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	found := make([]*domain.Coordinates, len(stores))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, s := range stores {
		if s.Located() || strings.TrimSpace(s.Address) == "" {
			continue
		}
		i, s := i, s
		g.Go(func() error {
			c, err := oracle.Geocode(gctx, s.Address)
			if errors.Is(err, ports.ErrAddressNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("geocode store %s: %w", s.ID, err)
			}
			found[i] = &c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &GeocodeResult{
		Stores:   make([]domain.Store, 0, len(stores)),
		Resolved: make(map[string]domain.Coordinates),
	}
	for i, s := range stores {
		if c := found[i]; c != nil {
			s.Location = c
			out.Resolved[s.ID] = *c
		}
		if s.Located() {
			out.Stores = append(out.Stores, s)
		} else {
			out.Unlocated = append(out.Unlocated, s)
		}
	}
	return out, nil
}
