// Package cluster implements the municipality clustering engine: feature
// derivation, fixed-k centroid partitioning, development ordering, and
// cluster profiling.
package cluster

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/brdata/municipio-cli/internal/model"
)

// NumFeatures is the fixed width of the clustering feature space.
const NumFeatures = 6

// FeatureNames lists the derived features in matrix column order.
var FeatureNames = [NumFeatures]string{
	"hdi",
	"hdi_education",
	"hdi_income",
	"inverted_vulnerability",
	"inverted_gini",
	"log_income_per_capita",
}

// FeatureSet is the derived feature matrix for one clustering run, together
// with the standardization parameters fitted on the batch and the raw derived
// values kept for display and debugging.
type FeatureSet struct {
	// Matrix is the N x NumFeatures standardized feature matrix.
	Matrix [][]float64
	// Derived holds the pre-standardization feature values after median
	// imputation of non-finite entries.
	Derived [][]float64
	// Means and Stds are the per-dimension standardization parameters.
	Means [NumFeatures]float64
	Stds  [NumFeatures]float64
}

// Derive transforms municipality records into the standardized feature
// matrix. Vulnerability and gini are inverted so that higher always means
// better, income is log-transformed, and the three HDI components pass
// through unchanged. Non-finite entries are replaced by their column's median
// over finite values before standardization.
//
// Returns InsufficientDataError when there are fewer rows than k or a column
// has no finite values to impute from.
func Derive(ms []model.Municipality, k int) (*FeatureSet, error) {
	if len(ms) < k {
		return nil, &InsufficientDataError{Rows: len(ms), K: k}
	}

	derived := make([][]float64, len(ms))
	for i, m := range ms {
		derived[i] = []float64{
			m.HDI,
			m.HDIEducation,
			m.HDIIncome,
			1 - m.VulnerabilityIndex,
			1 - m.Gini,
			math.Log(m.IncomePerCapita), // -Inf for zero income, NaN for negative
		}
	}

	for col := 0; col < NumFeatures; col++ {
		if err := imputeColumn(derived, col); err != nil {
			return nil, err
		}
	}

	fs := &FeatureSet{
		Matrix:  make([][]float64, len(ms)),
		Derived: derived,
	}

	column := make([]float64, len(ms))
	for col := 0; col < NumFeatures; col++ {
		for i := range derived {
			column[i] = derived[i][col]
		}
		fs.Means[col] = stat.Mean(column, nil)
		fs.Stds[col] = stat.StdDev(column, nil)
	}

	for i := range derived {
		row := make([]float64, NumFeatures)
		for col := 0; col < NumFeatures; col++ {
			std := fs.Stds[col]
			if std == 0 || math.IsNaN(std) {
				// A constant dimension carries no signal; map it to zero
				// rather than dividing by zero.
				row[col] = 0
				continue
			}
			row[col] = (derived[i][col] - fs.Means[col]) / std
		}
		fs.Matrix[i] = row
	}

	return fs, nil
}

// imputeColumn replaces non-finite values in the given column with the median
// of the column's finite values.
func imputeColumn(rows [][]float64, col int) error {
	finite := make([]float64, 0, len(rows))
	nonFinite := 0
	for _, row := range rows {
		if math.IsInf(row[col], 0) || math.IsNaN(row[col]) {
			nonFinite++
			continue
		}
		finite = append(finite, row[col])
	}
	if nonFinite == 0 {
		return nil
	}
	if len(finite) == 0 {
		return &InsufficientDataError{Rows: len(rows), Column: FeatureNames[col]}
	}

	sort.Float64s(finite)
	median := stat.Quantile(0.5, stat.LinInterp, finite, nil)
	for _, row := range rows {
		if math.IsInf(row[col], 0) || math.IsNaN(row[col]) {
			row[col] = median
		}
	}
	return nil
}
