package bench

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eugenenazirov/binpacking/internal/dataset"
	"github.com/eugenenazirov/binpacking/internal/metrics"
	"github.com/eugenenazirov/binpacking/internal/packing"
)

const defaultConcurrency = 4

// Job is a single benchmark input.
type Job struct {
	Size int
	Case dataset.Case
	Load func() ([]int, error)
}

// Row holds the timings and bin counts for one job. Err is set when the job's
// input could not be loaded or packed; the other fields are then zero.
type Row struct {
	Size    int
	Case    dataset.Case
	FFTime  time.Duration
	FFDTime time.Duration
	FFBins  int
	FFDBins int
	Err     error
}

// Runner executes FF and FFD over a set of jobs.
type Runner struct {
	Capacity    int
	Concurrency int
	Logger      *zap.Logger
	// OnDone, when set, is called once per finished job. It may be called
	// from several goroutines.
	OnDone func(Row)

	now func() time.Time
}

// NewRunner creates a Runner with the given bin capacity.
func NewRunner(capacity int, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Capacity:    capacity,
		Concurrency: defaultConcurrency,
		Logger:      logger,
		now:         time.Now,
	}
}

// FileJobs builds one job per size and case, reading inputs from dir.
func FileJobs(dir string, sizes []int) []Job {
	jobs := make([]Job, 0, len(sizes)*len(dataset.AllCases()))
	for _, c := range dataset.AllCases() {
		for _, n := range sizes {
			path := filepath.Join(dir, dataset.FileName(n, c))
			jobs = append(jobs, Job{
				Size: n,
				Case: c,
				Load: func() ([]int, error) {
					return dataset.ReadFile(path)
				},
			})
		}
	}
	return jobs
}

// GeneratedJobs builds jobs whose inputs are produced in memory.
func GeneratedJobs(sizes []int, seed uint64) []Job {
	jobs := make([]Job, 0, len(sizes)*len(dataset.AllCases()))
	for ci, c := range dataset.AllCases() {
		for si, n := range sizes {
			jobSeed := seed + uint64(ci*len(sizes)+si)
			jobs = append(jobs, Job{
				Size: n,
				Case: c,
				Load: func() ([]int, error) {
					return dataset.NewGenerator(jobSeed).Generate(c, n), nil
				},
			})
		}
	}
	return jobs
}

// Run executes every job and returns rows in job order. Per-job failures are
// reported on the row; only context cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Row, error) {
	if r.Capacity <= 0 {
		return nil, packing.ErrInvalidCapacity
	}

	rows := make([]Row, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	g.SetLimit(limit)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = r.runJob(job)
			if r.OnDone != nil {
				r.OnDone(rows[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return rows, fmt.Errorf("benchmark aborted: %w", err)
	}
	return rows, nil
}

func (r *Runner) runJob(job Job) Row {
	row := Row{Size: job.Size, Case: job.Case}
	log := r.Logger.With(zap.Int("size", job.Size), zap.String("case", string(job.Case)))

	items, err := job.Load()
	if err != nil {
		log.Warn("failed to load benchmark input", zap.Error(err))
		row.Err = err
		return row
	}

	row.FFBins, row.FFTime, err = r.measure(packing.FirstFitAlgorithm, items)
	if err != nil {
		log.Warn("first fit failed", zap.Error(err))
		return Row{Size: job.Size, Case: job.Case, Err: err}
	}
	row.FFDBins, row.FFDTime, err = r.measure(packing.FirstFitDecreasingAlgorithm, items)
	if err != nil {
		log.Warn("first fit decreasing failed", zap.Error(err))
		return Row{Size: job.Size, Case: job.Case, Err: err}
	}

	log.Debug("benchmark job completed",
		zap.Int("ff_bins", row.FFBins),
		zap.Int("ffd_bins", row.FFDBins),
		zap.Duration("ff_time", row.FFTime),
		zap.Duration("ffd_time", row.FFDTime),
	)
	return row
}

func (r *Runner) measure(algorithm packing.Algorithm, items []int) (int, time.Duration, error) {
	packer, err := packing.New(algorithm)
	if err != nil {
		return 0, 0, err
	}

	now := r.now
	if now == nil {
		now = time.Now
	}
	start := now()
	bins, err := packer.Count(items, r.Capacity)
	elapsed := now().Sub(start)

	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusError
	}
	metrics.RecordRun(string(algorithm), elapsed, bins, status)

	return bins, elapsed, err
}
