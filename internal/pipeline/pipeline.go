package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/amedas-etl/internal/domain"
	"github.com/couchcryptid/amedas-etl/internal/observability"
)

// TableFetcher assembles the canonical table of one job.
type TableFetcher interface {
	Fetch(ctx context.Context, stations []domain.StationRecord, c domain.Cadence, units []time.Time) (*domain.Table, error)
}

// TableWriter persists a table at a path.
type TableWriter interface {
	Write(t *domain.Table, path string) error
}

// Loader receives the table after it has been written to disk.
type Loader interface {
	Load(ctx context.Context, run domain.RunStatus, t *domain.Table) error
}

// Job is one observation request.
type Job struct {
	Cadence  domain.Cadence
	Stations []domain.StationRecord
	Units    []time.Time
	Output   string
}

// Pipeline orchestrates the fetch-write-load sequence of a job.
type Pipeline struct {
	fetcher TableFetcher
	writer  TableWriter
	loaders []Loader
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool

	mu     sync.Mutex
	status domain.RunStatus
}

// New creates a Pipeline with the given stages and observability. Loaders run
// in order after the table has been written.
func New(f TableFetcher, w TableWriter, logger *slog.Logger, metrics *observability.Metrics, loaders ...Loader) *Pipeline {
	return &Pipeline{
		fetcher: f,
		writer:  w,
		loaders: loaders,
		logger:  logger,
		metrics: metrics,
		status:  domain.RunStatus{State: domain.RunPending},
	}
}

// CheckReadiness returns nil unless the most recent job failed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.status.State == domain.RunFailed {
			return fmt.Errorf("last run %s failed: %s", p.status.ID, p.status.Error)
		}
		return errors.New("no run has started yet")
	}
	return nil
}

// Ready reports whether the pipeline is healthy.
func (p *Pipeline) Ready() bool { return p.ready.Load() }

// Status returns a snapshot of the most recent job.
func (p *Pipeline) Status() domain.RunStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Pipeline) setStatus(fn func(*domain.RunStatus)) domain.RunStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.status)
	return p.status
}

// Run executes one job. Nothing is written unless the whole table was
// assembled; loaders only see a table that is already on disk.
func (p *Pipeline) Run(ctx context.Context, job Job) (domain.RunStatus, error) {
	start := time.Now()
	run := p.setStatus(func(s *domain.RunStatus) {
		*s = domain.RunStatus{
			ID:        uuid.NewString(),
			Cadence:   job.Cadence.String(),
			State:     domain.RunRunning,
			Output:    job.Output,
			Stations:  len(job.Stations),
			Units:     len(job.Units),
			StartedAt: domain.Now(),
		}
	})
	p.ready.Store(true)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.logger.Info("job started", "run_id", run.ID, "cadence", run.Cadence, "stations", run.Stations, "units", run.Units, "output", job.Output)

	rows, err := p.execute(ctx, job, run)
	p.metrics.JobDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.JobErrors.Inc()
		p.ready.Store(false)
		run = p.setStatus(func(s *domain.RunStatus) {
			s.State = domain.RunFailed
			s.Error = err.Error()
			s.FinishedAt = domain.Now()
		})
		p.logger.Error("job failed", "run_id", run.ID, "error", err)
		return run, err
	}

	run = p.setStatus(func(s *domain.RunStatus) {
		s.State = domain.RunSucceeded
		s.Rows = rows
		s.FinishedAt = domain.Now()
	})
	p.logger.Info("job finished", "run_id", run.ID, "rows", rows, "duration", time.Since(start))
	return run, nil
}

func (p *Pipeline) execute(ctx context.Context, job Job, run domain.RunStatus) (int, error) {
	if job.Output == "" {
		return 0, fmt.Errorf("%w: output path is required", domain.ErrInvalidInput)
	}

	table, err := p.fetcher.Fetch(ctx, job.Stations, job.Cadence, job.Units)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	if err := p.writer.Write(table, job.Output); err != nil {
		return 0, fmt.Errorf("write %s: %w", job.Output, err)
	}
	p.metrics.RowsWritten.Add(float64(table.NumRows()))
	p.logger.Info("table written", "run_id", run.ID, "path", job.Output, "rows", table.NumRows(), "columns", table.NumCols())

	run.Rows = table.NumRows()
	for _, l := range p.loaders {
		if err := l.Load(ctx, run, table); err != nil {
			return 0, fmt.Errorf("load: %w", err)
		}
	}
	return table.NumRows(), nil
}
