package cluster

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Silhouette computes the mean silhouette coefficient over all rows: for each
// row, (separation - cohesion) / max(separation, cohesion), where cohesion is
// the mean distance to the row's own group and separation the mean distance
// to the nearest other group. Rows in singleton groups contribute 0 by the
// usual convention. The result is in [-1, 1]; higher means better separated.
func Silhouette(x [][]float64, labels []int, k int) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	counts := make([]int, k)
	for _, label := range labels {
		counts[label]++
	}

	total := 0.0
	sums := make([]float64, k)
	for i := range x {
		if counts[labels[i]] == 1 {
			continue
		}

		for c := range sums {
			sums[c] = 0
		}
		for j := range x {
			if i == j {
				continue
			}
			sums[labels[j]] += floats.Distance(x[i], x[j], 2)
		}

		own := labels[i]
		cohesion := sums[own] / float64(counts[own]-1)

		separation := 0.0
		first := true
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			mean := sums[c] / float64(counts[c])
			if first || mean < separation {
				separation = mean
				first = false
			}
		}
		if first {
			// Only one non-empty group; silhouette is undefined, skip.
			continue
		}

		if denom := math.Max(cohesion, separation); denom > 0 {
			total += (separation - cohesion) / denom
		}
	}

	return total / float64(n)
}
