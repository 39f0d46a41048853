package services

import (
	"errors"
	"fmt"
	"time"

	"delivery-planning-service/internal/domain"
)

// Params are the planner's tunables. DefaultParams returns the values the
// heuristics were designed around.
type Params struct {
	Depot domain.Depot

	ClusterRadiusKm float64 // seed radius for region clustering
	MinClusterSize  int     // clusters below this are merged if possible
	MergeDistanceKm float64 // single-linkage limit for merging
	AverageSpeedKmh float64 // straight-line speed for feasibility estimates
	Dwell           time.Duration

	// Depot departure as time of day in Location.
	DepartHour   int
	DepartMinute int
	Location     *time.Location

	BalanceRounds int
	// Round trips longer than this try truck-class vehicles first. Zero disables.
	LongHaulKm float64

	ShrinkRatio       float64 // share kept when no vehicle fits a cluster
	ShrinkFloor       int     // clusters this small are not shrunk further
	SecondPassMaxSize int     // cap on second-chance group size
	SecondPassRatio   float64 // share kept when a second-chance group does not fit
}

func DefaultParams(depot domain.Depot) Params {
	return Params{
		Depot:             depot,
		ClusterRadiusKm:   15,
		MinClusterSize:    3,
		MergeDistanceKm:   20,
		AverageSpeedKmh:   50,
		Dwell:             30 * time.Minute,
		DepartHour:        8,
		DepartMinute:      30,
		Location:          time.Local,
		BalanceRounds:     5,
		LongHaulKm:        200,
		ShrinkRatio:       0.8,
		ShrinkFloor:       3,
		SecondPassMaxSize: 10,
		SecondPassRatio:   0.7,
	}
}

func (p Params) Validate() error {
	switch {
	case p.ClusterRadiusKm <= 0:
		return errors.New("params: cluster radius must be positive")
	case p.MinClusterSize < 1:
		return errors.New("params: min cluster size must be at least 1")
	case p.MergeDistanceKm < 0:
		return errors.New("params: merge distance must not be negative")
	case p.AverageSpeedKmh <= 0:
		return errors.New("params: average speed must be positive")
	case p.Dwell < 0:
		return errors.New("params: dwell time must not be negative")
	case p.DepartHour < 0 || p.DepartHour > 23 || p.DepartMinute < 0 || p.DepartMinute > 59:
		return fmt.Errorf("params: invalid departure time %02d:%02d", p.DepartHour, p.DepartMinute)
	case p.BalanceRounds < 0:
		return errors.New("params: balance rounds must not be negative")
	case p.ShrinkRatio <= 0 || p.ShrinkRatio >= 1:
		return errors.New("params: shrink ratio must be in (0, 1)")
	case p.SecondPassRatio <= 0 || p.SecondPassRatio > 1:
		return errors.New("params: second pass ratio must be in (0, 1]")
	case p.ShrinkFloor < 1:
		return errors.New("params: shrink floor must be at least 1")
	case p.SecondPassMaxSize < 1:
		return errors.New("params: second pass group size must be at least 1")
	}
	return nil
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse departure time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

func (p Params) departureOn(day time.Time) time.Time {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), p.DepartHour, p.DepartMinute, 0, 0, loc)
}
