package cluster

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// KMeans is a fixed-k centroid partitioner with seeded multi-restart
// best-of selection. Each restart draws its initial centroids from an
// independent deterministic source (Seed + restart index), so results are
// bit-for-bit reproducible for a given seed regardless of how the restarts
// are scheduled.
type KMeans struct {
	K             int
	Seed          int64
	Restarts      int
	MaxIterations int
}

// Result is the outcome of a KMeans fit.
type Result struct {
	Labels     []int       // per-row group id in [0, K)
	Centroids  [][]float64 // K x dim
	Inertia    float64     // total within-group squared distance
	Silhouette float64     // cohesion/separation score in [-1, 1]
	Restart    int         // index of the winning restart
	Iterations int         // Lloyd iterations the winning restart took
}

// Fit partitions the rows of x into K groups. The restart with the lowest
// inertia wins; ties go to the lowest restart index. Returns
// DegenerateClusterError if the winning partition has an empty group.
func (km KMeans) Fit(x [][]float64) (*Result, error) {
	if km.K < 2 {
		return nil, eris.Errorf("kmeans: k must be >= 2 (got %d)", km.K)
	}
	if len(x) < km.K {
		return nil, &InsufficientDataError{Rows: len(x), K: km.K}
	}
	restarts := km.Restarts
	if restarts < 1 {
		restarts = 1
	}
	maxIter := km.MaxIterations
	if maxIter < 1 {
		maxIter = 300
	}

	// Restarts are independent; run them concurrently and reduce by index.
	results := make([]*Result, restarts)
	var g errgroup.Group
	for r := 0; r < restarts; r++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(km.Seed + int64(r)))
			results[r] = lloyd(x, km.K, maxIter, rng)
			results[r].Restart = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := results[0]
	for _, res := range results[1:] {
		if res.Inertia < best.Inertia {
			best = res
		}
	}

	counts := make([]int, km.K)
	for _, label := range best.Labels {
		counts[label]++
	}
	for group, n := range counts {
		if n == 0 {
			return nil, &DegenerateClusterError{GroupID: group, K: km.K}
		}
	}

	best.Silhouette = Silhouette(x, best.Labels, km.K)
	return best, nil
}

// lloyd runs a single seeded k-means++ initialization followed by Lloyd's
// iterations until assignments stabilize or the iteration cap is reached.
func lloyd(x [][]float64, k, maxIter int, rng *rand.Rand) *Result {
	dim := len(x[0])
	centroids := seedCentroids(x, k, rng)
	labels := make([]int, len(x))
	for i := range labels {
		labels[i] = -1
	}

	iterations := 0
	for iter := 0; iter < maxIter; iter++ {
		iterations = iter + 1

		if !assign(x, centroids, labels) {
			break
		}

		// Recompute centroids as member means.
		counts := make([]int, k)
		for c := range centroids {
			for d := 0; d < dim; d++ {
				centroids[c][d] = 0
			}
		}
		for i, label := range labels {
			counts[label]++
			floats.Add(centroids[label], x[i])
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), centroids[c])
		}
		repairEmpty(x, centroids, labels, counts)
	}

	inertia := 0.0
	for i, label := range labels {
		d := floats.Distance(x[i], centroids[label], 2)
		inertia += d * d
	}

	return &Result{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iterations,
	}
}

// assign points each row to its nearest centroid, breaking distance ties
// toward the lowest centroid index. Reports whether any label changed.
func assign(x [][]float64, centroids [][]float64, labels []int) bool {
	changed := false
	for i, row := range x {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range centroids {
			d := floats.Distance(row, centroid, 2)
			if d < bestDist {
				bestDist = d
				best = c
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// repairEmpty relocates each empty cluster's centroid onto the point
// currently farthest from its own centroid. Deterministic: empty clusters are
// handled in ascending id order and each claims a distinct point.
func repairEmpty(x [][]float64, centroids [][]float64, labels []int, counts []int) {
	taken := map[int]bool{}
	for c := range centroids {
		if counts[c] > 0 {
			continue
		}
		farthest, farthestDist := -1, -1.0
		for i, row := range x {
			if taken[i] {
				continue
			}
			d := floats.Distance(row, centroids[labels[i]], 2)
			if d > farthestDist {
				farthestDist = d
				farthest = i
			}
		}
		if farthest < 0 {
			continue
		}
		copy(centroids[c], x[farthest])
		taken[farthest] = true
	}
}

// seedCentroids picks k initial centroids with the k-means++ scheme: the
// first uniformly at random, each subsequent one with probability
// proportional to its squared distance from the nearest centroid so far.
func seedCentroids(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)

	first := make([]float64, len(x[0]))
	copy(first, x[rng.Intn(len(x))])
	centroids = append(centroids, first)

	weights := make([]float64, len(x))
	for len(centroids) < k {
		total := 0.0
		for i, row := range x {
			nearest := math.Inf(1)
			for _, centroid := range centroids {
				d := floats.Distance(row, centroid, 2)
				if dd := d * d; dd < nearest {
					nearest = dd
				}
			}
			weights[i] = nearest
			total += nearest
		}

		var pick int
		if total == 0 {
			// All points coincide with existing centroids; any choice works.
			pick = rng.Intn(len(x))
		} else {
			target := rng.Float64() * total
			cum := 0.0
			pick = len(x) - 1
			for i, w := range weights {
				cum += w
				if cum >= target {
					pick = i
					break
				}
			}
		}

		next := make([]float64, len(x[0]))
		copy(next, x[pick])
		centroids = append(centroids, next)
	}

	return centroids
}
