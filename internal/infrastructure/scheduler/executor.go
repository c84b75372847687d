package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// SuggestionRefreshJob recomputes the cached suggestion list
const SuggestionRefreshJob = "suggestion_refresh"

// TaskFunc is the body of a named job
type TaskFunc func(ctx context.Context) error

// Registry dispatches jobs to the task registered under their name
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]TaskFunc
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]TaskFunc)}
}

// Register binds a task to a job name, replacing any previous binding
func (r *Registry) Register(name string, task TaskFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[name] = task
}

// Names lists registered job names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	return names
}

// Execute implements JobExecutor
func (r *Registry) Execute(ctx context.Context, job *Job) error {
	r.mu.RLock()
	task, ok := r.tasks[job.Name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, job.Name)
	}
	return task(ctx)
}

// SuggestionRefresher recomputes and caches suggestions
type SuggestionRefresher interface {
	RefreshSuggestions(ctx context.Context) (int, error)
}

// RefreshSuggestionsTask wraps a refresher as a job body
func RefreshSuggestionsTask(refresher SuggestionRefresher, logger *zap.Logger) TaskFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context) error {
		n, err := refresher.RefreshSuggestions(ctx)
		if err != nil {
			return fmt.Errorf("refresh suggestions: %w", err)
		}
		logger.Debug("suggestion cache refreshed", zap.Int("suggestions", n))
		return nil
	}
}
