package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planning-service/internal/domain"
)

func TestClusterSeparatesDistantGroups(t *testing.T) {
	e := estimator{params: testParams(), fleet: []domain.Vehicle{van("V", 1, 30, 500, 9)}}

	stores := []domain.Store{
		storeAt("S1", -0.54, 0), storeAt("N1", 0.045, 0),
		storeAt("S2", -0.55, 0), storeAt("N2", 0.05, 0),
		storeAt("S3", -0.56, 0), storeAt("N3", 0.055, 0),
	}

	clusters := e.clusterStores(stores)
	require.Equal(t, [][]string{{"N1", "N2", "N3"}, {"S1", "S2", "S3"}}, clusterIDs(clusters))
}

func TestClusterMergesSmallNeighbour(t *testing.T) {
	e := estimator{params: testParams(), fleet: []domain.Vehicle{van("V", 1, 30, 500, 9)}}

	// X is 17 km from the seed, outside the cluster radius but within the
	// merge distance of the group.
	stores := []domain.Store{
		storeAt("A", 0.045, 0), storeAt("B", 0.05, 0), storeAt("C", 0.058, 0),
		storeAt("X", 0.198, 0),
	}

	clusters := e.clusterStores(stores)
	require.Len(t, clusters, 1)
	require.ElementsMatch(t, []string{"A", "B", "C", "X"}, ids(clusters[0]))
}

func TestClusterKeepsUnreachableSeed(t *testing.T) {
	e := estimator{params: testParams(), fleet: []domain.Vehicle{van("V", 1, 30, 500, 9)}}

	stores := []domain.Store{
		storeAt("A", 0.045, 0), storeAt("B", 0.05, 0), storeAt("C", 0.055, 0),
		storeAt("FAR", 3.6, 0),
	}

	clusters := e.clusterStores(stores)
	require.Equal(t, [][]string{{"A", "B", "C"}, {"FAR"}}, clusterIDs(clusters))
}

func TestClusterGrowthRespectsFleet(t *testing.T) {
	e := estimator{params: testParams(), fleet: []domain.Vehicle{van("V", 1, 4, 500, 9)}}

	stores := grid("G", 2, 5, 0.045, 0.002)
	clusters := e.clusterStores(stores)

	total := 0
	for _, c := range clusters {
		require.LessOrEqual(t, len(c), 4)
		total += len(c)
	}
	require.Equal(t, 10, total)
}

func TestLinkageKm(t *testing.T) {
	a := cluster{storeAt("A", 0, 0), storeAt("B", 0.09, 0)}
	b := cluster{storeAt("C", 0.18, 0)}

	require.InDelta(t, 10.0, linkageKm(a, b), 0.1)
}
