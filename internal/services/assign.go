package services

import (
	"fmt"
	"math"
	"slices"

	"delivery-planning-service/internal/domain"
)

// ProgressFunc receives side-channel progress notifications. It is never a
// cancellation point.
type ProgressFunc func(current, total int, status string)

type assignment struct {
	vehicle domain.Vehicle
	stores  cluster
}

type assignOutcome struct {
	assignments []assignment
	unassigned  []domain.Store
}

// assignClusters matches clusters to vehicles, one route per vehicle.
//
// Clusters farthest from the depot go first, while every vehicle is still
// free. Pending work is an explicit FIFO: sub-clusters left over from a split
// and the tail cut off by shrinking are appended to it and handled after
// everything already queued. Infeasible leftovers end up unassigned, never as
// an error.
func (e estimator) assignClusters(clusters []cluster, progress ProgressFunc) assignOutcome {
	queue := slices.Clone(clusters)
	slices.SortStableFunc(queue, func(a, b cluster) int {
		// farthest centroid first
		return compareFloat(e.centroidDistanceKm(b), e.centroidDistanceKm(a))
	})

	claimed := make([]bool, len(e.fleet))
	var out assignOutcome

	for head := 0; head < len(queue); head++ {
		stores := queue[head]
		status := ""

		for {
			if allClaimed(claimed) {
				out.unassigned = append(out.unassigned, stores...)
				status = fmt.Sprintf("%d stores left unassigned: fleet exhausted", len(stores))
				break
			}

			vi, accepted, leftovers, ok := e.matchVehicle(stores, claimed)
			if ok {
				claimed[vi] = true
				out.assignments = append(out.assignments, assignment{vehicle: e.fleet[vi], stores: accepted})
				queue = append(queue, leftovers...)
				status = fmt.Sprintf("%d stores assigned to %s", len(accepted), e.fleet[vi].Name)
				break
			}

			if len(stores) <= e.params.ShrinkFloor {
				out.unassigned = append(out.unassigned, stores...)
				status = fmt.Sprintf("%d stores left unassigned: no vehicle fits", len(stores))
				break
			}

			keep := int(float64(len(stores)) * e.params.ShrinkRatio)
			keep = min(max(keep, 1), len(stores)-1)
			queue = append(queue, slices.Clone(stores[keep:]))
			stores = stores[:keep:keep]
		}

		if progress != nil {
			progress(head+1, len(queue), status)
		}
	}

	e.secondChance(&out, claimed)
	return out
}

// matchVehicle tries unclaimed vehicles in preference order. A cluster too
// big for a vehicle is split to that vehicle's stop cap; if the first piece
// fits, the rest is handed back as leftovers.
func (e estimator) matchVehicle(stores cluster, claimed []bool) (vi int, accepted cluster, leftovers []cluster, ok bool) {
	for _, i := range e.candidates(stores, claimed) {
		v := e.fleet[i]
		if e.fits(v, stores) {
			return i, stores, nil, true
		}

		if len(stores) > v.MaxStores {
			subs := e.splitCluster(stores, v.MaxStores)
			if e.fits(v, subs[0]) {
				return i, subs[0], subs[1:], true
			}
		}
	}
	return -1, nil, nil, false
}

// secondChance regroups unassigned stores into small depot-ordered chunks and
// offers them to vehicles that are still free. A chunk that does not fit is
// shrunk once before its remainder is given up on.
func (e estimator) secondChance(out *assignOutcome, claimed []bool) {
	if len(out.unassigned) == 0 || allClaimed(claimed) {
		return
	}

	largest := 0
	for _, v := range e.fleet {
		largest = max(largest, v.MaxStores)
	}
	groupSize := max(min(largest/2, e.params.SecondPassMaxSize), 1)

	pending := e.byDepotDistance(out.unassigned)
	var still []domain.Store

	for start := 0; start < len(pending); start += groupSize {
		group := cluster(pending[start:min(start+groupSize, len(pending))])

		if vi, ok := e.firstFit(group, claimed); ok {
			claimed[vi] = true
			out.assignments = append(out.assignments, assignment{vehicle: e.fleet[vi], stores: slices.Clone(group)})
			continue
		}

		keep := int(math.Ceil(float64(len(group)) * e.params.SecondPassRatio))
		keep = min(max(keep, e.params.ShrinkFloor), len(group))
		if keep < len(group) {
			if vi, ok := e.firstFit(group[:keep], claimed); ok {
				claimed[vi] = true
				out.assignments = append(out.assignments, assignment{vehicle: e.fleet[vi], stores: slices.Clone(group[:keep])})
				still = append(still, group[keep:]...)
				continue
			}
		}

		still = append(still, group...)
	}

	out.unassigned = still
}

func (e estimator) firstFit(stores cluster, claimed []bool) (int, bool) {
	for _, i := range e.candidates(stores, claimed) {
		if e.fits(e.fleet[i], stores) {
			return i, true
		}
	}
	return -1, false
}

// candidates lists unclaimed vehicle indexes in priority order. Long-haul
// groups try trucks before vans; order within a class is unchanged.
func (e estimator) candidates(stores cluster, claimed []bool) []int {
	idx := make([]int, 0, len(e.fleet))
	for i := range e.fleet {
		if !claimed[i] {
			idx = append(idx, i)
		}
	}

	if e.params.LongHaulKm > 0 && e.roundTripKm(stores) > e.params.LongHaulKm {
		slices.SortStableFunc(idx, func(a, b int) int {
			return truckRank(e.fleet[a]) - truckRank(e.fleet[b])
		})
	}
	return idx
}

func truckRank(v domain.Vehicle) int {
	if v.Type == domain.VehicleTruck {
		return 0
	}
	return 1
}

func (e estimator) centroidDistanceKm(c cluster) float64 {
	if len(c) == 0 {
		return 0
	}
	centre := e.centroid(c)
	return e.depotDistanceKmTo(centre)
}

func allClaimed(claimed []bool) bool {
	for _, c := range claimed {
		if !c {
			return false
		}
	}
	return true
}
