package services

import (
	"math"

	"delivery-planning-service/internal/domain"
	"delivery-planning-service/internal/geo"
)

// clusterStores partitions located stores into geographically compact groups.
//
// Stores are seeded nearest-to-depot first. A seed absorbs every remaining
// store within the cluster radius as long as some vehicle in the fleet could
// still serve the grown cluster. A seed is always kept, so a store no vehicle
// can reach still forms its own cluster and surfaces later as unassigned.
func (e estimator) clusterStores(stores []domain.Store) []cluster {
	remaining := e.byDepotDistance(stores)
	clusters := make([]cluster, 0)

	for len(remaining) > 0 {
		seed := remaining[0]
		members := cluster{seed}
		rest := make([]domain.Store, 0, len(remaining)-1)

		for _, s := range remaining[1:] {
			if geo.DistanceKm(*seed.Location, *s.Location) <= e.params.ClusterRadiusKm {
				grown := append(members[:len(members):len(members)], s)
				if e.fleetCanServe(grown) {
					members = grown
					continue
				}
			}
			rest = append(rest, s)
		}

		clusters = append(clusters, members)
		remaining = rest
	}

	return e.mergeSmallClusters(clusters)
}

// mergeSmallClusters folds clusters below the minimum size into the nearest
// other cluster (single linkage) when that cluster is within the merge
// distance and the union is still serviceable. Otherwise the small cluster
// stays on its own.
func (e estimator) mergeSmallClusters(clusters []cluster) []cluster {
	merged := make([]bool, len(clusters))

	for i, small := range clusters {
		if merged[i] || len(small) >= e.params.MinClusterSize {
			continue
		}

		best := -1
		bestKm := math.Inf(1)
		for j, other := range clusters {
			if j == i || merged[j] {
				continue
			}
			d := linkageKm(small, other)
			if d > e.params.MergeDistanceKm || d >= bestKm {
				continue
			}
			union := append(other[:len(other):len(other)], small...)
			if !e.fleetCanServe(union) {
				continue
			}
			best, bestKm = j, d
		}

		if best >= 0 {
			clusters[best] = append(clusters[best], small...)
			merged[i] = true
		}
	}

	out := make([]cluster, 0, len(clusters))
	for i, c := range clusters {
		if !merged[i] {
			out = append(out, c)
		}
	}
	return out
}

// linkageKm is the smallest distance between any store of a and any of b.
func linkageKm(a, b cluster) float64 {
	best := math.Inf(1)
	for _, x := range a {
		for _, y := range b {
			best = min(best, geo.DistanceKm(*x.Location, *y.Location))
		}
	}
	return best
}
