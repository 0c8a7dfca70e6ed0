package cluster

import "github.com/rotisserie/eris"

// ScanResult holds the diagnostics for one candidate k.
type ScanResult struct {
	K          int     `json:"k"`
	Inertia    float64 `json:"inertia"`
	Silhouette float64 `json:"silhouette"`
	Iterations int     `json:"iterations"`
}

// Scan fits the engine for every k in [minK, maxK] and reports inertia and
// silhouette per k, plus the k with the best silhouette. This is diagnostic
// output only: the production pipeline keeps its configured k (fixed at 5 by
// default) because named, stable development tiers are worth more to
// downstream consumers than a statistically optimal partition.
func Scan(x [][]float64, minK, maxK int, opts KMeans) ([]ScanResult, int, error) {
	if minK < 2 {
		return nil, 0, eris.Errorf("scan: min k must be >= 2 (got %d)", minK)
	}
	if maxK < minK {
		return nil, 0, eris.Errorf("scan: max k %d below min k %d", maxK, minK)
	}

	results := make([]ScanResult, 0, maxK-minK+1)
	bestK := minK
	bestSilhouette := -2.0
	for k := minK; k <= maxK; k++ {
		km := opts
		km.K = k
		res, err := km.Fit(x)
		if err != nil {
			return nil, 0, eris.Wrapf(err, "scan: k=%d", k)
		}
		results = append(results, ScanResult{
			K:          k,
			Inertia:    res.Inertia,
			Silhouette: res.Silhouette,
			Iterations: res.Iterations,
		})
		if res.Silhouette > bestSilhouette {
			bestSilhouette = res.Silhouette
			bestK = k
		}
	}

	return results, bestK, nil
}
