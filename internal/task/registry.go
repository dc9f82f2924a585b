package task

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status represents the state of a registered task.
type Status string

// Possible task status values
const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Task type constants
const (
	// TypeCostAnalysis represents the task type for LLM cost analyses
	TypeCostAnalysis = "cost_analysis"
)

// Entry is the registry's record of one running task.
type Entry struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Type      string
	Status    Status
	CreatedAt time.Time
}

// Registry tracks running analysis tasks and their cancellation flags.
//
// It holds two structures under one mutex: the task entries themselves, and
// a pending-cancellation set of project IDs. The pending set resolves the
// race where a user's cancel request reaches the server before the task it
// targets has been registered: the cancellation is parked on the project
// and consumed by the next Create, which returns an entry that is already
// cancelled.
//
// Invariants: a cancelled flag, once set, is never unset; a project has at
// most one pending-cancellation entry.
type Registry struct {
	mu            sync.Mutex
	tasks         map[uuid.UUID]*Entry
	pendingCancel map[uuid.UUID]struct{}
	// settled marks projects whose last task finished and no new task has
	// been created since. A cancel arriving for a settled project refers to
	// work that already ended, so it must not park a pending cancellation
	// that would kill the project's next, unrelated task.
	settled map[uuid.UUID]struct{}
	logger  *slog.Logger
}

// NewRegistry creates an empty task registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tasks:         make(map[uuid.UUID]*Entry),
		pendingCancel: make(map[uuid.UUID]struct{}),
		settled:       make(map[uuid.UUID]struct{}),
		logger:        logger.With(slog.String("component", "task_registry")),
	}
}

// Create allocates a new task for the project and returns its entry.
// If a pending cancellation is parked on the project, the entry is created
// already cancelled and the pending entry is consumed.
func (r *Registry) Create(projectID uuid.UUID, taskType string) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := &Entry{
		ID:        uuid.New(),
		ProjectID: projectID,
		Type:      taskType,
		Status:    StatusActive,
		CreatedAt: time.Now().UTC(),
	}

	delete(r.settled, projectID)

	if _, ok := r.pendingCancel[projectID]; ok {
		delete(r.pendingCancel, projectID)
		entry.Status = StatusCancelled
		r.logger.Info("task created pre-cancelled from pending cancellation",
			slog.String("task_id", entry.ID.String()),
			slog.String("project_id", projectID.String()))
	}

	r.tasks[entry.ID] = entry
	return *entry
}

// CancelProject marks all active tasks for the project as cancelled and
// returns how many were cancelled. When the project has no tasks at all in
// the registry and its last task did not just finish, the cancellation is
// parked as a pending entry so that a task created moments later is
// pre-cancelled.
func (r *Registry) CancelProject(projectID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cancelled := 0
	known := 0
	for _, entry := range r.tasks {
		if entry.ProjectID != projectID {
			continue
		}
		known++
		if entry.Status == StatusActive {
			entry.Status = StatusCancelled
			cancelled++
		}
	}

	if cancelled > 0 {
		r.logger.Info("cancelled project tasks",
			slog.String("project_id", projectID.String()),
			slog.Int("cancelled_count", cancelled))
		return cancelled
	}

	if known == 0 {
		if _, wasSettled := r.settled[projectID]; !wasSettled {
			// Cancel-before-create race: park the cancellation.
			r.pendingCancel[projectID] = struct{}{}
			r.logger.Info("no active tasks, recorded pending cancellation",
				slog.String("project_id", projectID.String()))
		}
	}

	return 0
}

// CancelTask marks one task as cancelled. Returns false when the task is
// unknown; repeated cancellation of the same task returns true.
func (r *Registry) CancelTask(taskID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.tasks[taskID]
	if !ok {
		return false
	}
	if entry.Status == StatusActive {
		entry.Status = StatusCancelled
		r.logger.Info("cancelled task",
			slog.String("task_id", taskID.String()),
			slog.String("project_id", entry.ProjectID.String()))
	}
	return true
}

// IsCancelled reports whether the task has been cancelled. It is a
// point-in-time read; the work loop polls it between resources.
func (r *Registry) IsCancelled(taskID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.tasks[taskID]
	return ok && entry.Status == StatusCancelled
}

// Complete removes the task from the registry once its work loop has
// finished (normally or via cancellation) and marks the project settled.
// Unknown task IDs are a no-op.
func (r *Registry) Complete(taskID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.tasks[taskID]
	if !ok {
		return
	}
	delete(r.tasks, taskID)

	for _, other := range r.tasks {
		if other.ProjectID == entry.ProjectID {
			return
		}
	}
	r.settled[entry.ProjectID] = struct{}{}
}

// ActiveCount returns the number of active (not cancelled) tasks registered
// for the project.
func (r *Registry) ActiveCount(projectID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, entry := range r.tasks {
		if entry.ProjectID == projectID && entry.Status == StatusActive {
			n++
		}
	}
	return n
}

// HasPendingCancellation reports whether a cancellation is parked on the
// project.
func (r *Registry) HasPendingCancellation(projectID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.pendingCancel[projectID]
	return ok
}

// Snapshot returns a copy of all registered task entries, for status
// reporting and diagnostics.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, 0, len(r.tasks))
	for _, entry := range r.tasks {
		entries = append(entries, *entry)
	}
	return entries
}
