package warehouse

import (
	"context"
	"database/sql"
	"os"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/brdata/municipio-cli/internal/model"
)

// SQLiteRepository implements IndicatorRepository over a local analytics
// database file using modernc.org/sqlite.
type SQLiteRepository struct {
	db    *sql.DB
	path  string
	table string
}

// NewSQLite opens the analytics database at the given path. The file must
// already exist: the warehouse is built by the external modeling layer, and
// letting the driver create an empty database here would only defer the
// failure to a confusing "no such table" later.
func NewSQLite(path, table string) (*SQLiteRepository, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &DataUnavailableError{Source: path, Err: err}
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, &DataUnavailableError{Source: path, Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &DataUnavailableError{Source: path, Err: err}
	}

	return &SQLiteRepository{db: db, path: path, table: table}, nil
}

func (r *SQLiteRepository) Municipalities(ctx context.Context) ([]model.Municipality, error) {
	rows, err := r.db.QueryContext(ctx, selectMunicipalitiesSQL(r.table))
	if err != nil {
		return nil, &DataUnavailableError{Source: r.path, Err: err}
	}
	defer rows.Close()

	var out []model.Municipality
	for rows.Next() {
		var m model.Municipality
		if err := rows.Scan(
			&m.IBGECode, &m.Name, &m.StateCode, &m.Region, &m.Population, &m.SizeCategory,
			&m.HDI, &m.HDIEducation, &m.HDIIncome, &m.VulnerabilityIndex, &m.Gini, &m.IncomePerCapita,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan municipality")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate municipalities")
	}
	return out, nil
}

func (r *SQLiteRepository) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := r.db.QueryRowContext(ctx, summarySQL(r.table)).Scan(&s.Total, &s.Complete); err != nil {
		return nil, &DataUnavailableError{Source: r.path, Err: err}
	}

	rows, err := r.db.QueryContext(ctx, regionSummarySQL(r.table))
	if err != nil {
		return nil, &DataUnavailableError{Source: r.path, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var rc RegionCount
		if err := rows.Scan(&rc.Region, &rc.Count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan region count")
		}
		s.PerRegion = append(s.PerRegion, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate region counts")
	}
	return &s, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

var _ IndicatorRepository = (*SQLiteRepository)(nil)
