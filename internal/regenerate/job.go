// Package regenerate rescores batches of samples whose lab results changed.
package regenerate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chrissnell/remotewater/internal/database"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Store lists candidate samples and records finished runs.
type Store interface {
	SampleNumbersSince(ctx context.Context, since time.Time) ([]string, error)
	SaveRun(ctx context.Context, run *database.RegenerationRun) error
}

// Scorer scores and persists a single sample.
type Scorer interface {
	ScoreSample(ctx context.Context, sampleNumber string) (*database.ReportScore, error)
}

// Summary describes one regeneration run.
type Summary struct {
	RunID      uuid.UUID         `json:"runId"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Total      int               `json:"total"`
	Succeeded  int               `json:"succeeded"`
	Failed     map[string]string `json:"failed"`
}

// Job fans sample scoring out over a bounded worker pool.
type Job struct {
	store   Store
	scorer  Scorer
	workers int
	logger  *zap.SugaredLogger
	now     func() time.Time

	// running serializes runs so a slow scheduled run and a manual trigger never overlap.
	running sync.Mutex
}

// NewJob creates a Job with the given pool size.
func NewJob(store Store, scorer Scorer, workers int, logger *zap.SugaredLogger) *Job {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Job{
		store:   store,
		scorer:  scorer,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

// RunSince rescores every sample whose results changed within lookback.
func (j *Job) RunSince(ctx context.Context, lookback time.Duration) (*Summary, error) {
	since := j.now().Add(-lookback)
	samples, err := j.store.SampleNumbersSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	return j.Run(ctx, samples)
}

// Run rescores the given samples. Per-sample failures are collected in the summary
// rather than aborting the run.
func (j *Job) Run(ctx context.Context, samples []string) (*Summary, error) {
	j.running.Lock()
	defer j.running.Unlock()

	pool, err := ants.NewPool(j.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	samples = unique(samples)
	summary := &Summary{
		RunID:     uuid.New(),
		StartedAt: j.now(),
		Total:     len(samples),
		Failed:    make(map[string]string),
	}
	j.logger.Infof("regeneration run %s starting for %d samples with %d workers", summary.RunID, len(samples), j.workers)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	record := func(sample string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			summary.Failed[sample] = err.Error()
			return
		}
		summary.Succeeded++
	}

	for _, sample := range samples {
		sample := sample // per-iteration copy; go.mod targets go 1.21 loop semantics
		if err := ctx.Err(); err != nil {
			record(sample, err)
			continue
		}

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			_, err := j.scorer.ScoreSample(ctx, sample)
			if err != nil {
				j.logger.Warnw("failed to score sample", "run", summary.RunID, "sample", sample, "error", err)
			}
			record(sample, err)
		})
		if err != nil {
			wg.Done()
			record(sample, err)
		}
	}
	wg.Wait()

	summary.FinishedAt = j.now()
	j.logger.Infof("regeneration run %s finished: %d succeeded, %d failed", summary.RunID, summary.Succeeded, len(summary.Failed))

	run := &database.RegenerationRun{
		ID:         summary.RunID,
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
		Total:      summary.Total,
		Succeeded:  summary.Succeeded,
		Failed:     len(summary.Failed),
	}
	// Use a fresh context so a cancelled run is still recorded.
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := j.store.SaveRun(saveCtx, run); err != nil {
		j.logger.Errorw("failed to record regeneration run", "run", summary.RunID, "error", err)
	}

	return summary, nil
}

func unique(samples []string) []string {
	seen := make(map[string]struct{}, len(samples))
	out := make([]string, 0, len(samples))
	for _, s := range samples {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
