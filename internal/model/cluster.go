package model

import "time"

// ClusterAssignment maps one municipality to its development tier.
type ClusterAssignment struct {
	IBGECode       string `json:"ibge_code"`
	RawGroupID     int    `json:"raw_group_id"`     // as produced by k-means, arbitrary order
	OrderedGroupID int    `json:"ordered_group_id"` // 0 = highest mean HDI
	Label          string `json:"label"`
}

// Stats holds summary statistics for one indicator over a cluster's members.
type Stats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ClusterProfile summarizes one ordered cluster. Aggregate pointers are nil
// when the cluster is empty; the profile row itself is always present so
// consumers never have to handle a missing group id.
type ClusterProfile struct {
	OrderedGroupID  int    `json:"ordered_group_id"`
	Label           string `json:"label"`
	Count           int    `json:"municipality_count"`
	TotalPopulation int64  `json:"total_population"`

	HDI             *Stats `json:"hdi,omitempty"`
	HDIEducation    *Stats `json:"hdi_education,omitempty"`
	HDIIncome       *Stats `json:"hdi_income,omitempty"`
	Vulnerability   *Stats `json:"vulnerability_index,omitempty"`
	Gini            *Stats `json:"gini,omitempty"`
	IncomePerCapita *Stats `json:"income_per_capita,omitempty"`
}

// Run records the parameters and outcome of one clustering run. Runs are not
// persisted; the struct exists so the command layer can report and log a run
// as a unit.
type Run struct {
	ID            string    `json:"id"`
	K             int       `json:"k"`
	Seed          int64     `json:"seed"`
	Restarts      int       `json:"restarts"`
	MaxIterations int       `json:"max_iterations"`
	Loaded        int       `json:"loaded"`
	Silhouette    float64   `json:"silhouette"`
	Inertia       float64   `json:"inertia"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}
