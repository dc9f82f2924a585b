package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/costscope/costscope-api/internal/advisor"
	"github.com/costscope/costscope-api/internal/domain"
	"github.com/costscope/costscope-api/internal/events"
	"github.com/costscope/costscope-api/internal/store"
	"github.com/costscope/costscope-api/internal/task"
)

// TaskRunner defines the interface for submitting background tasks.
type TaskRunner interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, t task.Task) error
}

// AnalysisParams selects what an analysis covers.
type AnalysisParams struct {
	ResourceType domain.ResourceType
	// ResourceID, when set, restricts the analysis to that single resource.
	ResourceID *uuid.UUID
	Window     domain.AnalysisWindow
}

// AnalysisService coordinates cost analyses: it registers tasks, fans the
// work out through the background runner, serves cached recommendations,
// and exposes cancellation.
type AnalysisService interface {
	// StartAnalysis runs an analysis for the project's resources and blocks
	// until it finishes or is cancelled, returning the (possibly partial)
	// result.
	StartAnalysis(
		ctx context.Context,
		projectID uuid.UUID,
		params AnalysisParams,
	) (*task.AnalysisResult, error)

	// CancelProject cancels all active tasks for the project, parking a
	// pending cancellation when none exist. Returns the number cancelled.
	CancelProject(ctx context.Context, projectID uuid.UUID) int

	// CancelTask cancels a single task by ID. Returns false for unknown
	// tasks.
	CancelTask(ctx context.Context, taskID uuid.UUID) bool
}

// analysisServiceImpl implements the AnalysisService interface
type analysisServiceImpl struct {
	resourceStore store.ResourceStore
	cacheStore    store.RecommendationCacheStore
	generator     advisor.Generator
	registry      *task.Registry
	runner        TaskRunner
	eventEmitter  events.EventEmitter
	logger        *slog.Logger
}

// NewAnalysisService creates a new AnalysisService.
// It returns an error if any of the required dependencies are nil.
func NewAnalysisService(
	resourceStore store.ResourceStore,
	cacheStore store.RecommendationCacheStore,
	generator advisor.Generator,
	registry *task.Registry,
	runner TaskRunner,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (AnalysisService, error) {
	if resourceStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "resourceStore cannot be nil"}
	}
	if cacheStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "cacheStore cannot be nil"}
	}
	if generator == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "generator cannot be nil"}
	}
	if registry == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "registry cannot be nil"}
	}
	if runner == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "runner cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &analysisServiceImpl{
		resourceStore: resourceStore,
		cacheStore:    cacheStore,
		generator:     generator,
		registry:      registry,
		runner:        runner,
		eventEmitter:  eventEmitter,
		logger:        logger.With("component", "analysis_service"),
	}, nil
}

// StartAnalysis implements AnalysisService.StartAnalysis
func (s *analysisServiceImpl) StartAnalysis(
	ctx context.Context,
	projectID uuid.UUID,
	params AnalysisParams,
) (*task.AnalysisResult, error) {
	if err := params.Window.Validate(); err != nil {
		return nil, &ServiceError{
			Operation: "start_analysis",
			Message:   "invalid analysis window",
			Err:       err,
		}
	}
	if !domain.IsValidResourceType(params.ResourceType) {
		return nil, &ServiceError{
			Operation: "start_analysis",
			Message:   "invalid resource type",
			Err:       domain.ErrInvalidResourceType,
		}
	}

	resources, err := s.loadResources(ctx, projectID, params)
	if err != nil {
		return nil, err
	}

	// A cancel arriving before this point is parked as a pending entry,
	// so the task starts cancelled instead of being missed.
	entry := s.registry.Create(projectID, task.TypeCostAnalysis)

	s.emit(ctx, events.NewTaskLifecycleEvent(events.TaskStarted, entry.ID, projectID))

	analysisTask, err := task.NewAnalysisTask(
		entry,
		resources,
		s.registry,
		s.analyzeResource(params.Window),
		s.logger,
	)
	if err != nil {
		s.registry.Complete(entry.ID)
		return nil, &ServiceError{
			Operation: "start_analysis",
			Message:   "failed to build analysis task",
			Err:       err,
		}
	}

	if err := s.runner.Submit(ctx, analysisTask); err != nil {
		s.registry.Complete(entry.ID)
		return nil, &ServiceError{
			Operation: "start_analysis",
			Message:   "failed to submit analysis task",
			Err:       ErrAnalysisQueueFull,
		}
	}

	select {
	case <-analysisTask.Done():
	case <-ctx.Done():
		// Caller went away (request abandoned). Flag the task so the loop
		// stops at its next check; the worker finishes the bookkeeping.
		s.registry.CancelTask(entry.ID)
		return nil, ctx.Err()
	}

	result := analysisTask.Result()

	kind := events.TaskCompleted
	if result.Cancelled {
		kind = events.TaskCancelled
	}
	event := events.NewTaskLifecycleEvent(kind, entry.ID, projectID)
	event.Processed = result.Processed
	event.Total = result.Total
	s.emit(ctx, event)

	return result, nil
}

// CancelProject implements AnalysisService.CancelProject
func (s *analysisServiceImpl) CancelProject(ctx context.Context, projectID uuid.UUID) int {
	count := s.registry.CancelProject(projectID)
	if count > 0 {
		s.emit(ctx, events.NewTaskLifecycleEvent(events.TaskCancelled, uuid.Nil, projectID))
	}
	return count
}

// CancelTask implements AnalysisService.CancelTask
func (s *analysisServiceImpl) CancelTask(ctx context.Context, taskID uuid.UUID) bool {
	return s.registry.CancelTask(taskID)
}

// loadResources resolves the resource selection for the analysis.
func (s *analysisServiceImpl) loadResources(
	ctx context.Context,
	projectID uuid.UUID,
	params AnalysisParams,
) ([]*domain.Resource, error) {
	if params.ResourceID != nil {
		resource, err := s.resourceStore.GetByID(ctx, *params.ResourceID)
		if err != nil {
			return nil, &ServiceError{
				Operation: "start_analysis",
				Message:   "failed to load resource",
				Err:       err,
			}
		}
		// A resource from another project is indistinguishable from a
		// missing one as far as the caller is concerned.
		if resource.ProjectID != projectID {
			return nil, &ServiceError{
				Operation: "start_analysis",
				Message:   "resource does not belong to project",
				Err:       store.ErrResourceNotFound,
			}
		}
		return []*domain.Resource{resource}, nil
	}

	resources, err := s.resourceStore.ListByProject(ctx, projectID, params.ResourceType)
	if err != nil {
		return nil, &ServiceError{
			Operation: "start_analysis",
			Message:   "failed to list project resources",
			Err:       err,
		}
	}
	if len(resources) == 0 {
		return nil, &ServiceError{
			Operation: "start_analysis",
			Message:   "project has no matching resources",
			Err:       ErrNoResources,
		}
	}
	return resources, nil
}

// analyzeResource builds the per-resource analyzer the work loop calls:
// cache lookup, cancellation re-check, LLM call, cache write-back.
func (s *analysisServiceImpl) analyzeResource(window domain.AnalysisWindow) task.ResourceAnalyzer {
	return func(
		ctx context.Context,
		taskID uuid.UUID,
		resource *domain.Resource,
	) (*domain.Recommendation, error) {
		key := store.CacheKey(
			resource.Platform,
			store.RecommendationSchemaVersion,
			resource.Type,
			window,
			resource.ID.String(),
		)

		if entry, err := s.cacheStore.GetByKey(ctx, key); err == nil {
			var cached domain.Recommendation
			if jsonErr := json.Unmarshal(entry.Payload, &cached); jsonErr == nil {
				s.logger.DebugContext(ctx, "recommendation served from cache",
					"resource_id", resource.ID,
					"cache_key", key)
				return &cached, nil
			}
			// A corrupt payload falls through to regeneration.
			s.logger.WarnContext(ctx, "discarding undecodable cache entry",
				"cache_key", key)
		} else if !errors.Is(err, store.ErrCacheEntryNotFound) {
			// Cache trouble must not fail the analysis; regenerate instead.
			s.logger.WarnContext(ctx, "cache lookup failed, regenerating",
				"cache_key", key,
				"error", err)
		}

		// The LLM call is the expensive part; check the flag once more
		// right before it.
		if s.registry.IsCancelled(taskID) {
			return nil, task.ErrCancelled
		}

		recommendation, err := s.generator.Recommend(ctx, resource, window)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(recommendation)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to encode recommendation for cache",
				"resource_id", resource.ID,
				"error", err)
			return recommendation, nil
		}

		cacheEntry := &store.CachedRecommendation{
			Key:          key,
			ProjectID:    resource.ProjectID,
			Platform:     resource.Platform,
			ResourceType: resource.Type,
			ResourceID:   resource.ID.String(),
			PeriodStart:  window.Start,
			PeriodEnd:    window.End,
			Payload:      payload,
		}
		if err := s.cacheStore.Upsert(ctx, cacheEntry); err != nil {
			// Best effort; the result is still returned to the caller.
			s.logger.WarnContext(ctx, "failed to store recommendation in cache",
				"cache_key", key,
				"error", err)
		}

		return recommendation, nil
	}
}

func (s *analysisServiceImpl) emit(ctx context.Context, event *events.TaskLifecycleEvent) {
	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit lifecycle event",
			"event_kind", event.Kind,
			"error", err)
	}
}
