package services

import "delivery-planning-service/internal/domain"

// splitCluster cuts an oversized cluster into consecutive sub-clusters,
// nearest-to-depot first. A sub-cluster is closed as soon as the next store
// would push it past sizeCap, the fleet's tightest distance cap or the
// fleet's tightest working-time cap. Every sub-cluster holds at least one store.
func (e estimator) splitCluster(stores []domain.Store, sizeCap int) []cluster {
	if sizeCap < 1 {
		sizeCap = 1
	}
	maxKm, maxMinutes := e.tightestLimits()

	out := make([]cluster, 0, len(stores)/sizeCap+1)
	var current cluster

	for _, s := range e.byDepotDistance(stores) {
		if len(current) == 0 {
			current = cluster{s}
			continue
		}

		candidate := append(current[:len(current):len(current)], s)
		if len(candidate) > sizeCap ||
			e.roundTripKm(candidate) > maxKm ||
			e.estimateMinutes(candidate) > maxMinutes {
			out = append(out, current)
			current = cluster{s}
			continue
		}
		current = candidate
	}

	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}
