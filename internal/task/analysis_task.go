package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/costscope/costscope-api/internal/domain"
)

// ErrCancelled is returned by a ResourceAnalyzer when it observes the task's
// cancellation flag. The work loop treats it as a deliberate stop, not a
// resource failure.
var ErrCancelled = errors.New("analysis cancelled")

// ResourceAnalyzer produces the recommendation for one resource. The
// implementation is expected to consult the cache first and to re-check the
// task's cancellation flag immediately before making the expensive external
// call, returning ErrCancelled when it is set.
type ResourceAnalyzer func(
	ctx context.Context,
	taskID uuid.UUID,
	resource *domain.Resource,
) (*domain.Recommendation, error)

// AnalysisResult carries the outcome of an analysis task, including partial
// progress when the loop was cancelled mid-flight.
type AnalysisResult struct {
	TaskID          uuid.UUID
	ProjectID       uuid.UUID
	Processed       int
	Total           int
	Failed          int
	Cancelled       bool
	Recommendations []*domain.Recommendation
}

// Progress renders the loop's position as "processed k/N".
func (r *AnalysisResult) Progress() string {
	return fmt.Sprintf("processed %d/%d", r.Processed, r.Total)
}

// AnalysisTask iterates a project's resources in order and produces a
// recommendation for each, checking the registry's cancellation flag before
// every resource. One resource's failure is logged and skipped; only
// cancellation stops the loop early.
type AnalysisTask struct {
	entry     Entry
	resources []*domain.Resource
	registry  *Registry
	analyze   ResourceAnalyzer
	logger    *slog.Logger

	result *AnalysisResult
	done   chan struct{}
}

// Common errors
var (
	ErrNilRegistry = errors.New("registry cannot be nil")
	ErrNilAnalyzer = errors.New("analyzer cannot be nil")
	ErrNilLogger   = errors.New("logger cannot be nil")
)

// NewAnalysisTask creates an analysis task for an already-registered entry.
func NewAnalysisTask(
	entry Entry,
	resources []*domain.Resource,
	registry *Registry,
	analyze ResourceAnalyzer,
	logger *slog.Logger,
) (*AnalysisTask, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if analyze == nil {
		return nil, ErrNilAnalyzer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &AnalysisTask{
		entry:     entry,
		resources: resources,
		registry:  registry,
		analyze:   analyze,
		logger: logger.With(
			"task_type", entry.Type,
			"task_id", entry.ID,
			"project_id", entry.ProjectID,
		),
		result: &AnalysisResult{
			TaskID:    entry.ID,
			ProjectID: entry.ProjectID,
			Total:     len(resources),
		},
		done: make(chan struct{}),
	}, nil
}

// ID returns the task's unique identifier
func (t *AnalysisTask) ID() uuid.UUID {
	return t.entry.ID
}

// Type returns the task type identifier
func (t *AnalysisTask) Type() string {
	return t.entry.Type
}

// Done returns a channel closed when the task has finished, whether it ran
// to completion or was cancelled. After it closes, Result is safe to read.
func (t *AnalysisTask) Done() <-chan struct{} {
	return t.done
}

// Result returns the task outcome. Only valid after Done() is closed.
func (t *AnalysisTask) Result() *AnalysisResult {
	return t.result
}

// Execute runs the cancellation-aware work loop.
func (t *AnalysisTask) Execute(ctx context.Context) error {
	defer close(t.done)
	defer t.registry.Complete(t.entry.ID)

	for _, resource := range t.resources {
		if t.registry.IsCancelled(t.entry.ID) {
			t.result.Cancelled = true
			t.logger.Info("analysis cancelled, stopping",
				"progress", t.result.Progress())
			return nil
		}

		recommendation, err := t.analyze(ctx, t.entry.ID, resource)
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				// Cancellation observed between the loop check and the
				// external call.
				t.result.Cancelled = true
				t.logger.Info("analysis cancelled before external call",
					"progress", t.result.Progress())
				return nil
			}

			// One resource failing does not abort the analysis.
			t.result.Processed++
			t.result.Failed++
			t.logger.Warn("resource analysis failed, skipping",
				"resource_id", resource.ID,
				"error", err)
			continue
		}

		t.result.Processed++
		t.result.Recommendations = append(t.result.Recommendations, recommendation)
	}

	t.logger.Info("analysis finished",
		"progress", t.result.Progress(),
		"failed", t.result.Failed)
	return nil
}
