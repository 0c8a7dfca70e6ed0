// Package warehouse reads municipality indicator tables from the local
// analytical warehouse produced by the external SQL modeling layer. All
// access is read-only.
package warehouse

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rotisserie/eris"

	"github.com/brdata/municipio-cli/internal/config"
	"github.com/brdata/municipio-cli/internal/model"
)

// DataUnavailableError indicates the indicator source could not be read at
// all (missing database file, connection failure, missing table). Nothing is
// computed or exported after this error.
type DataUnavailableError struct {
	Source string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("indicator source unavailable: %s: %v", e.Source, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// RegionCount is one row of the per-region completeness breakdown.
type RegionCount struct {
	Region model.Region `json:"region"`
	Count  int          `json:"count"`
}

// Summary reports how many rows the dimension holds and how many qualify
// for clustering (no NULL in any required indicator).
type Summary struct {
	Total     int           `json:"total"`
	Complete  int           `json:"complete"`
	PerRegion []RegionCount `json:"per_region"`
}

// Excluded returns the number of rows dropped by the completeness filter.
func (s *Summary) Excluded() int {
	return s.Total - s.Complete
}

// IndicatorRepository fetches municipality indicator rows for a clustering
// run. Implementations are read-only snapshots over the warehouse.
type IndicatorRepository interface {
	// Municipalities returns every municipality with complete indicator
	// data, in stable (ibge_code) order.
	Municipalities(ctx context.Context) ([]model.Municipality, error)

	// Summary returns row counts for the indicator dimension.
	Summary(ctx context.Context) (*Summary, error)

	Close() error
}

// Open creates the repository selected by the warehouse config.
func Open(ctx context.Context, cfg config.WarehouseConfig) (IndicatorRepository, error) {
	if err := validTable(cfg.Table); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.Path, cfg.Table)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, cfg.Table)
	default:
		return nil, eris.Errorf("warehouse: unknown driver %q", cfg.Driver)
	}
}

// tableNameRe matches a plain or schema-qualified SQL identifier. Table names
// come from configuration and are interpolated into queries, so anything else
// is rejected up front.
var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func validTable(table string) error {
	if !tableNameRe.MatchString(table) {
		return eris.Errorf("warehouse: invalid table name %q", table)
	}
	return nil
}

// indicatorColumns is the fixed column list of the municipality dimension.
const indicatorColumns = `ibge_code, name, state_code, region, population, size_category,
	hdi, hdi_education, hdi_income, vulnerability_index, gini, income_per_capita`

// completeFilter excludes rows with a NULL in any required indicator.
const completeFilter = `hdi IS NOT NULL
  AND hdi_education IS NOT NULL
  AND hdi_income IS NOT NULL
  AND vulnerability_index IS NOT NULL
  AND gini IS NOT NULL
  AND income_per_capita IS NOT NULL`

func selectMunicipalitiesSQL(table string) string {
	return fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY ibge_code`,
		indicatorColumns, table, completeFilter)
}

func summarySQL(table string) string {
	return fmt.Sprintf(`SELECT COUNT(*), COUNT(CASE WHEN %s THEN 1 END) FROM %s`,
		completeFilter, table)
}

func regionSummarySQL(table string) string {
	return fmt.Sprintf(`SELECT region, COUNT(*) FROM %s WHERE %s GROUP BY region ORDER BY region`,
		table, completeFilter)
}
