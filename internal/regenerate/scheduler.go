package regenerate

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs a Job's RunSince on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	job      *Job
	lookback time.Duration
	logger   *zap.SugaredLogger
	ctx      context.Context
}

// NewScheduler parses schedule (standard five-field cron or a descriptor such as
// "@hourly") and registers the job.
func NewScheduler(job *Job, schedule string, lookback time.Duration, logger *zap.SugaredLogger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	cl := cronLogger{logger}
	s := &Scheduler{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		job:      job,
		lookback: lookback,
		logger:   logger,
		ctx:      context.Background(),
	}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, fmt.Errorf("invalid regeneration schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins scheduling and stops once ctx is cancelled. The returned channel is
// closed after any in-flight run has finished.
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Infof("regeneration scheduled, next run at %s", s.Next().Format(time.RFC3339))

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		<-s.cron.Stop().Done()
		s.logger.Info("regeneration scheduler stopped")
	}()
	return done
}

// Next returns the time of the next scheduled run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) tick() {
	if _, err := s.job.RunSince(s.ctx, s.lookback); err != nil {
		s.logger.Errorf("scheduled regeneration failed: %v", err)
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
