package cluster

import (
	"sort"

	"github.com/brdata/municipio-cli/internal/model"
)

// Ordering is the bijective remapping from raw k-means group ids to the
// canonical development order: ordered id 0 is the group with the highest
// mean HDI.
type Ordering struct {
	// RawToOrdered maps raw group id to ordered group id.
	RawToOrdered []int
	// MeanHDI holds the mean HDI per raw group.
	MeanHDI []float64
}

// OrderByHDI computes the canonical ordering for raw labels given each row's
// HDI. Groups sort by mean HDI descending; exact ties break by raw group id
// ascending so the ordering never depends on map iteration or sort
// instability.
func OrderByHDI(labels []int, hdi []float64, k int) *Ordering {
	sums := make([]float64, k)
	counts := make([]int, k)
	for i, label := range labels {
		sums[label] += hdi[i]
		counts[label]++
	}

	means := make([]float64, k)
	for g := 0; g < k; g++ {
		if counts[g] > 0 {
			means[g] = sums[g] / float64(counts[g])
		}
	}

	order := make([]int, k)
	for g := range order {
		order[g] = g
	}
	sort.SliceStable(order, func(i, j int) bool {
		gi, gj := order[i], order[j]
		if means[gi] != means[gj] {
			return means[gi] > means[gj]
		}
		return gi < gj
	})

	rawToOrdered := make([]int, k)
	for ordered, raw := range order {
		rawToOrdered[raw] = ordered
	}

	return &Ordering{RawToOrdered: rawToOrdered, MeanHDI: means}
}

// ValidateLabels checks that the label table lines up with k. Call this
// before any expensive work: a bad label table must fail the run at startup.
func ValidateLabels(labels []string, k int) error {
	if len(labels) != k {
		return &LabelConfigurationError{Labels: len(labels), K: k}
	}
	return nil
}

// Assign builds the final per-municipality assignments by applying the
// ordering and label table to the raw k-means labels.
func (o *Ordering) Assign(ms []model.Municipality, rawLabels []int, labelTable []string) []model.ClusterAssignment {
	out := make([]model.ClusterAssignment, len(ms))
	for i, m := range ms {
		raw := rawLabels[i]
		ordered := o.RawToOrdered[raw]
		out[i] = model.ClusterAssignment{
			IBGECode:       m.IBGECode,
			RawGroupID:     raw,
			OrderedGroupID: ordered,
			Label:          labelTable[ordered],
		}
	}
	return out
}
