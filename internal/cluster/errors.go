package cluster

import "fmt"

// InsufficientDataError indicates fewer qualifying rows than clusters, or an
// indicator column with no usable values at all.
type InsufficientDataError struct {
	Rows   int
	K      int
	Column string // set when a column has no finite values
}

func (e *InsufficientDataError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("insufficient data: column %s has no finite values", e.Column)
	}
	return fmt.Sprintf("insufficient data: %d rows cannot form %d clusters", e.Rows, e.K)
}

// DegenerateClusterError indicates a cluster came out empty after
// convergence, meaning k is too large for the variety in the data.
type DegenerateClusterError struct {
	GroupID int
	K       int
}

func (e *DegenerateClusterError) Error() string {
	return fmt.Sprintf("degenerate clustering: group %d of %d is empty", e.GroupID, e.K)
}

// LabelConfigurationError indicates the label table does not line up with k.
type LabelConfigurationError struct {
	Labels int
	K      int
}

func (e *LabelConfigurationError) Error() string {
	return fmt.Sprintf("label configuration: %d labels configured for k=%d", e.Labels, e.K)
}
