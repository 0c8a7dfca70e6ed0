package cluster

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/brdata/municipio-cli/internal/export"
	"github.com/brdata/municipio-cli/internal/model"
	"github.com/brdata/municipio-cli/internal/warehouse"
)

// Options are the parameters of one clustering run.
type Options struct {
	K             int
	Seed          int64
	Restarts      int
	MaxIterations int
	Labels        []string // ordered most to least developed, len must equal K
	OutputPath    string   // assignment seed CSV destination
	ProfilesPath  string   // optional XLSX profile workbook destination
}

// Outcome is the complete result of a clustering run.
type Outcome struct {
	Run            model.Run
	Municipalities []model.Municipality
	Assignments    []model.ClusterAssignment
	Profiles       []model.ClusterProfile
}

// Pipeline is the load → derive → cluster → order → aggregate → export run.
// A run is a pure function of (indicator snapshot, seed, k): no state crosses
// invocations, and nothing is exported on any failure.
type Pipeline struct {
	repo warehouse.IndicatorRepository
	opts Options
	log  *zap.Logger
}

// New creates a Pipeline over the given repository.
func New(repo warehouse.IndicatorRepository, opts Options, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{repo: repo, opts: opts, log: log}
}

// Run executes the full pipeline and exports the assignment seed file. The
// seed export is the final step and the commit point of the run: on any
// error, including a failed profile workbook write, the previous seed file
// is left untouched.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	// Label misconfiguration must fail before any expensive work.
	if err := ValidateLabels(p.opts.Labels, p.opts.K); err != nil {
		return nil, err
	}

	run := model.Run{
		ID:            uuid.New().String(),
		K:             p.opts.K,
		Seed:          p.opts.Seed,
		Restarts:      p.opts.Restarts,
		MaxIterations: p.opts.MaxIterations,
		StartedAt:     time.Now().UTC(),
	}
	log := p.log.With(zap.String("run_id", run.ID))

	ms, err := p.repo.Municipalities(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load indicators")
	}
	run.Loaded = len(ms)
	log.Info("loaded municipalities", zap.Int("count", len(ms)))

	fs, err := Derive(ms, p.opts.K)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: derive features")
	}

	km := KMeans{
		K:             p.opts.K,
		Seed:          p.opts.Seed,
		Restarts:      p.opts.Restarts,
		MaxIterations: p.opts.MaxIterations,
	}
	res, err := km.Fit(fs.Matrix)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: cluster")
	}
	run.Silhouette = res.Silhouette
	run.Inertia = res.Inertia
	log.Info("clustering converged",
		zap.Int("k", p.opts.K),
		zap.Float64("silhouette", res.Silhouette),
		zap.Float64("inertia", res.Inertia),
		zap.Int("winning_restart", res.Restart),
		zap.Int("iterations", res.Iterations),
	)

	hdi := make([]float64, len(ms))
	for i, m := range ms {
		hdi[i] = m.HDI
	}
	ordering := OrderByHDI(res.Labels, hdi, p.opts.K)
	assignments := ordering.Assign(ms, res.Labels, p.opts.Labels)

	profiles := Profiles(ms, assignments, p.opts.Labels)

	// The workbook goes first: the seed rename is the commit point of the
	// run, so no failure after it may leave a half-published result.
	if p.opts.ProfilesPath != "" {
		if err := export.WriteProfiles(p.opts.ProfilesPath, profiles); err != nil {
			return nil, eris.Wrap(err, "pipeline: export profiles")
		}
		log.Info("exported profile workbook", zap.String("path", p.opts.ProfilesPath))
	}

	if err := export.WriteAssignments(p.opts.OutputPath, assignments); err != nil {
		return nil, eris.Wrap(err, "pipeline: export assignments")
	}
	log.Info("exported assignment seed",
		zap.String("path", p.opts.OutputPath),
		zap.Int("rows", len(assignments)),
	)

	run.FinishedAt = time.Now().UTC()
	return &Outcome{
		Run:            run,
		Municipalities: ms,
		Assignments:    assignments,
		Profiles:       profiles,
	}, nil
}

// ScanK loads the indicator snapshot and runs the diagnostic k scan over
// [2, maxK]. Nothing is exported; the configured k is never overridden by
// the recommendation.
func (p *Pipeline) ScanK(ctx context.Context, maxK int) ([]ScanResult, int, error) {
	ms, err := p.repo.Municipalities(ctx)
	if err != nil {
		return nil, 0, eris.Wrap(err, "pipeline: load indicators")
	}

	fs, err := Derive(ms, 2)
	if err != nil {
		return nil, 0, eris.Wrap(err, "pipeline: derive features")
	}

	km := KMeans{
		Seed:          p.opts.Seed,
		Restarts:      p.opts.Restarts,
		MaxIterations: p.opts.MaxIterations,
	}
	return Scan(fs.Matrix, 2, maxK, km)
}
