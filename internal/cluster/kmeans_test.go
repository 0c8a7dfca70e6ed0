package cluster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBlobs returns ten 2-d points forming two well-separated groups of five.
func twoBlobs() [][]float64 {
	return [][]float64{
		{0.0, 0.0}, {0.1, 0.0}, {0.0, 0.1}, {0.1, 0.1}, {0.05, 0.05},
		{9.0, 9.0}, {9.1, 9.0}, {9.0, 9.1}, {9.1, 9.1}, {9.05, 9.05},
	}
}

func TestKMeans_Fit_SeparatesBlobs(t *testing.T) {
	km := KMeans{K: 2, Seed: 42, Restarts: 10, MaxIterations: 300}

	res, err := km.Fit(twoBlobs())
	require.NoError(t, err)

	// The first five points share one group, the last five the other.
	first := res.Labels[0]
	for i := 1; i < 5; i++ {
		assert.Equal(t, first, res.Labels[i], "point %d", i)
	}
	second := res.Labels[5]
	assert.NotEqual(t, first, second)
	for i := 6; i < 10; i++ {
		assert.Equal(t, second, res.Labels[i], "point %d", i)
	}

	// Clean separation yields a silhouette near 1.
	assert.Greater(t, res.Silhouette, 0.9)
	assert.Less(t, res.Silhouette, 1.0+1e-9)
}

func TestKMeans_Fit_PartitionComplete(t *testing.T) {
	km := KMeans{K: 3, Seed: 42, Restarts: 5, MaxIterations: 100}
	x := twoBlobs()
	x = append(x, []float64{4.5, 4.5}, []float64{4.6, 4.4}, []float64{4.4, 4.6})

	res, err := km.Fit(x)
	require.NoError(t, err)

	// Every row gets exactly one label, and every group is used.
	require.Len(t, res.Labels, len(x))
	seen := make([]int, 3)
	for _, label := range res.Labels {
		require.GreaterOrEqual(t, label, 0)
		require.Less(t, label, 3)
		seen[label]++
	}
	for g, n := range seen {
		assert.Positive(t, n, "group %d", g)
	}
}

func TestKMeans_Fit_Deterministic(t *testing.T) {
	km := KMeans{K: 2, Seed: 42, Restarts: 10, MaxIterations: 300}
	x := twoBlobs()

	a, err := km.Fit(x)
	require.NoError(t, err)
	b, err := km.Fit(x)
	require.NoError(t, err)

	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Inertia, b.Inertia)
	assert.Equal(t, a.Silhouette, b.Silhouette)
	assert.Equal(t, a.Restart, b.Restart)
}

func TestKMeans_Fit_DifferentSeedsStillPartition(t *testing.T) {
	x := twoBlobs()
	for _, seed := range []int64{1, 7, 42, 1337} {
		km := KMeans{K: 2, Seed: seed, Restarts: 10, MaxIterations: 300}
		res, err := km.Fit(x)
		require.NoError(t, err, "seed %d", seed)
		assert.NotEqual(t, res.Labels[0], res.Labels[5], "seed %d", seed)
	}
}

func TestKMeans_Fit_RestartTieBreaksToLowestIndex(t *testing.T) {
	// On clean data every restart converges to the same inertia, so the
	// winner must be restart 0.
	km := KMeans{K: 2, Seed: 42, Restarts: 10, MaxIterations: 300}

	res, err := km.Fit(twoBlobs())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Restart)
}

func TestKMeans_Fit_TooFewRows(t *testing.T) {
	km := KMeans{K: 5, Seed: 42, Restarts: 10, MaxIterations: 300}

	_, err := km.Fit([][]float64{{0, 0}, {1, 1}, {2, 2}})
	require.Error(t, err)

	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 3, insufficient.Rows)
	assert.Equal(t, 5, insufficient.K)
}

func TestKMeans_Fit_IdenticalPointsDegenerate(t *testing.T) {
	// Identical rows cannot fill two groups; every point ties to the lowest
	// centroid index, leaving the other group empty.
	x := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	km := KMeans{K: 2, Seed: 42, Restarts: 3, MaxIterations: 50}

	_, err := km.Fit(x)
	require.Error(t, err)

	var degenerate *DegenerateClusterError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, 2, degenerate.K)
}

func TestKMeans_Fit_KTooSmall(t *testing.T) {
	km := KMeans{K: 1, Seed: 42, Restarts: 1, MaxIterations: 10}
	_, err := km.Fit(twoBlobs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "k must be >= 2")
}

func TestSilhouette_TwoTightGroups(t *testing.T) {
	x := [][]float64{{0}, {0.1}, {10}, {10.1}}
	labels := []int{0, 0, 1, 1}

	s := Silhouette(x, labels, 2)
	assert.Greater(t, s, 0.97)
	assert.LessOrEqual(t, s, 1.0)
}

func TestSilhouette_SingletonContributesZero(t *testing.T) {
	x := [][]float64{{0}, {0.1}, {10}}
	labels := []int{0, 0, 1}

	// The singleton contributes zero; the pair contributes positively.
	s := Silhouette(x, labels, 2)
	assert.Greater(t, s, 0.0)
	assert.Less(t, s, 1.0)
}

func TestScan_ReportsPerK(t *testing.T) {
	x := twoBlobs()
	opts := KMeans{Seed: 42, Restarts: 5, MaxIterations: 100}

	results, bestK, err := Scan(x, 2, 4, opts)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 2, results[0].K)
	assert.Equal(t, 4, results[2].K)
	// Two genuine blobs: k=2 wins on silhouette, and inertia only shrinks
	// as k grows.
	assert.Equal(t, 2, bestK)
	assert.GreaterOrEqual(t, results[0].Inertia, results[1].Inertia)
	assert.GreaterOrEqual(t, results[1].Inertia, results[2].Inertia)
}

func TestScan_InvalidRange(t *testing.T) {
	x := twoBlobs()
	opts := KMeans{Seed: 42, Restarts: 2, MaxIterations: 50}

	_, _, err := Scan(x, 1, 4, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min k must be >= 2")

	_, _, err = Scan(x, 3, 2, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below min k")
}
