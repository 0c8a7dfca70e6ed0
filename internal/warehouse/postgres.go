package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/brdata/municipio-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresRepository implements IndicatorRepository over a Postgres-hosted
// mart using pgxpool.
type PostgresRepository struct {
	pool  Pool
	table string
}

// NewPostgres creates a PostgresRepository with a connection pool and
// verifies connectivity.
func NewPostgres(ctx context.Context, connString, table string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &DataUnavailableError{Source: "postgres", Err: err}
	}
	return &PostgresRepository{pool: pool, table: table}, nil
}

func (r *PostgresRepository) Municipalities(ctx context.Context) ([]model.Municipality, error) {
	rows, err := r.pool.Query(ctx, selectMunicipalitiesSQL(r.table))
	if err != nil {
		return nil, &DataUnavailableError{Source: r.table, Err: err}
	}
	defer rows.Close()

	var out []model.Municipality
	for rows.Next() {
		var m model.Municipality
		if err := rows.Scan(
			&m.IBGECode, &m.Name, &m.StateCode, &m.Region, &m.Population, &m.SizeCategory,
			&m.HDI, &m.HDIEducation, &m.HDIIncome, &m.VulnerabilityIndex, &m.Gini, &m.IncomePerCapita,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan municipality")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate municipalities")
	}
	return out, nil
}

func (r *PostgresRepository) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := r.pool.QueryRow(ctx, summarySQL(r.table)).Scan(&s.Total, &s.Complete); err != nil {
		return nil, &DataUnavailableError{Source: r.table, Err: err}
	}

	rows, err := r.pool.Query(ctx, regionSummarySQL(r.table))
	if err != nil {
		return nil, &DataUnavailableError{Source: r.table, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var rc RegionCount
		if err := rows.Scan(&rc.Region, &rc.Count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan region count")
		}
		s.PerRegion = append(s.PerRegion, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate region counts")
	}
	return &s, nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

var _ IndicatorRepository = (*PostgresRepository)(nil)
