package api

import (
	"github.com/google/uuid"

	"github.com/costscope/costscope-api/internal/domain"
)

// RegisterRequest holds the data for user registration requests
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest holds the data for user login requests
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after successful registration or login.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	UserID      uuid.UUID `json:"user_id"`
}

// AnalyzeRequest selects what an analysis run covers.
type AnalyzeRequest struct {
	ResourceType string  `json:"resource_type" validate:"required,oneof=compute storage"`
	ResourceID   *string `json:"resource_id,omitempty" validate:"omitempty,uuid"`
	StartDate    string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string  `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// AnalyzeResponse carries the analysis outcome. Recommendation is set when a
// single resource was targeted, Recommendations otherwise.
type AnalyzeResponse struct {
	TaskID          uuid.UUID                `json:"task_id"`
	Status          string                   `json:"status"`
	Progress        string                   `json:"progress"`
	Processed       int                      `json:"processed"`
	Total           int                      `json:"total"`
	Failed          int                      `json:"failed,omitempty"`
	Recommendation  *domain.Recommendation   `json:"recommendation,omitempty"`
	Recommendations []*domain.Recommendation `json:"recommendations,omitempty"`
}

// CancelProjectResponse reports the outcome of a project-wide cancellation.
// The call succeeds even when no task was running; a pending cancellation is
// recorded instead and CancelledCount is zero.
type CancelProjectResponse struct {
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	ProjectID      uuid.UUID `json:"project_id"`
	CancelledCount int       `json:"cancelled_count"`
}

// CancelTaskResponse reports the outcome of a single-task cancellation.
type CancelTaskResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	TaskID  uuid.UUID `json:"task_id"`
}
