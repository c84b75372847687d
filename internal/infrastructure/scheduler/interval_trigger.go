package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTriggerConfig holds configuration for the interval trigger
type IntervalTriggerConfig struct {
	Interval time.Duration
	// RunOnStart submits the jobs once immediately instead of waiting a full interval
	RunOnStart bool
}

// IntervalTrigger submits a fixed set of jobs to the scheduler on every tick
type IntervalTrigger struct {
	config    IntervalTriggerConfig
	scheduler *Scheduler
	jobNames  []string
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(config IntervalTriggerConfig, scheduler *Scheduler, logger *zap.Logger, jobNames ...string) (*IntervalTrigger, error) {
	if config.Interval <= 0 {
		return nil, errors.Join(ErrInvalidConfig, errors.New("interval must be positive"))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntervalTrigger{
		config:    config,
		scheduler: scheduler,
		jobNames:  jobNames,
		logger:    logger,
	}, nil
}

// Start starts the trigger loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Interval trigger started",
		zap.Duration("interval", t.config.Interval),
		zap.Strings("jobs", t.jobNames),
	)
	return nil
}

// Stop stops the trigger loop
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Interval trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.config.RunOnStart {
		t.TriggerNow()
	}

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.TriggerNow()
		}
	}
}

// TriggerNow submits every job once. Submission failures are logged.
func (t *IntervalTrigger) TriggerNow() {
	for _, name := range t.jobNames {
		if _, err := t.scheduler.Submit(name); err != nil {
			t.logger.Warn("Failed to submit scheduled job",
				zap.String("job", name),
				zap.Error(err),
			)
		}
	}
}
