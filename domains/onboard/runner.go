package onboard

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Processor handles one job to its terminal state. Implementations must
// record exactly one outcome per job; they never return errors because a
// job's failure is its own terminal state, not the runner's.
type Processor interface {
	Process(ctx context.Context, job Job)
}

// Runner executes a batch of independent jobs with a bounded worker pool.
// A single misconfigured repository must never abort the batch: failures
// stay inside their job, and the run only finishes once every job has
// reached a terminal state.
type Runner struct {
	l            *zap.Logger
	workers      int
	stats        *Stats
	newProcessor func() Processor
}

// NewRunner creates a runner. newProcessor is called once per worker so
// each worker owns its processor and the HTTP client inside it.
func NewRunner(workers int, newProcessor func() Processor, stats *Stats, l *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		l:            l,
		workers:      workers,
		stats:        stats,
		newProcessor: newProcessor,
	}
}

// Run executes all jobs and returns the aggregate counters once every job
// has finished. With one worker or one job, execution is strictly
// sequential and ordered.
func (r *Runner) Run(ctx context.Context, jobs []Job) Snapshot {
	workers := min(r.workers, len(jobs))

	if workers <= 1 {
		proc := r.newProcessor()
		for _, job := range jobs {
			r.process(ctx, proc, job)
		}
		return r.stats.Snapshot()
	}

	r.l.Info("starting workers", zap.Int("workers", workers), zap.Int("jobs", len(jobs)))

	ch := make(chan Job)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			proc := r.newProcessor()
			for job := range ch {
				r.process(ctx, proc, job)
			}
		}(i)
	}

	for _, job := range jobs {
		ch <- job
	}
	close(ch)
	wg.Wait()

	return r.stats.Snapshot()
}

// process isolates one job: a panic inside a pipeline is converted into the
// job's failed outcome so sibling jobs keep running and the counters still
// sum to the number of jobs submitted.
func (r *Runner) process(ctx context.Context, proc Processor, job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			r.l.Error("job panicked",
				zap.String("key", job.Key),
				zap.Any("panic", rec),
			)
			r.stats.RecordOutcome(OutcomeFailed)
		}
	}()
	proc.Process(ctx, job)
}
