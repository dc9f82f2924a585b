// Package events provides a small in-process publish/subscribe layer for
// analysis task lifecycle notifications. The API layer stays decoupled from
// whatever consumes the notifications (currently structured logging; a
// websocket push to the dashboard is the intended next consumer).
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LifecycleKind identifies what happened to a task.
type LifecycleKind string

// Possible lifecycle kinds
const (
	TaskStarted   LifecycleKind = "task_started"
	TaskCancelled LifecycleKind = "task_cancelled"
	TaskCompleted LifecycleKind = "task_completed"
)

// TaskLifecycleEvent describes a change in an analysis task's lifecycle.
type TaskLifecycleEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Kind indicates what happened
	Kind LifecycleKind `json:"kind"`

	// TaskID is the affected task; zero for project-wide cancellations
	// that matched no task.
	TaskID uuid.UUID `json:"task_id"`

	// ProjectID owns the task
	ProjectID uuid.UUID `json:"project_id"`

	// Processed/Total carry the work loop's progress where applicable
	Processed int `json:"processed,omitempty"`
	Total     int `json:"total,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewTaskLifecycleEvent creates a lifecycle event for the given task.
func NewTaskLifecycleEvent(
	kind LifecycleKind,
	taskID, projectID uuid.UUID,
) *TaskLifecycleEvent {
	return &TaskLifecycleEvent{
		ID:        uuid.New(),
		Kind:      kind,
		TaskID:    taskID,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskLifecycleEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of
// handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskLifecycleEvent) error
}
