package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/costscope/costscope-api/internal/api/shared"
	"github.com/costscope/costscope-api/internal/domain"
	"github.com/costscope/costscope-api/internal/service"
)

// Task status values reported to clients.
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// AnalysisHandler handles analysis and cancellation endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	validate        *validator.Validate
	logger          *slog.Logger
}

// NewAnalysisHandler creates an AnalysisHandler with the given dependencies.
func NewAnalysisHandler(analysisService service.AnalysisService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		validate:        validator.New(),
		logger:          logger.With(slog.String("component", "analysis_handler")),
	}
}

// Analyze handles POST /api/llm/projects/{projectID}/analyze. It blocks
// until the analysis finishes or the task is cancelled, then returns the
// recommendations produced so far.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseUUIDParam(r, "projectID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req AnalyzeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := shared.ValidateRequest(h.validate, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	params, err := buildAnalysisParams(&req)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.analysisService.StartAnalysis(r.Context(), projectID, params)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// The caller is gone; nothing useful to write.
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	resp := AnalyzeResponse{
		TaskID:    result.TaskID,
		Status:    StatusCompleted,
		Progress:  result.Progress(),
		Processed: result.Processed,
		Total:     result.Total,
		Failed:    result.Failed,
	}
	if result.Cancelled {
		resp.Status = StatusCancelled
	}
	if params.ResourceID != nil {
		if len(result.Recommendations) > 0 {
			resp.Recommendation = result.Recommendations[0]
		}
	} else {
		resp.Recommendations = result.Recommendations
	}

	shared.RespondWithJSON(w, http.StatusOK, resp)
}

// CancelProjectTasks handles POST /api/llm/projects/{projectID}/cancel-tasks
// and the unauthenticated POST /cancel-tasks/{projectID} fast path. It always
// returns 200: when no task is running a pending cancellation is recorded and
// the count is zero.
func (h *AnalysisHandler) CancelProjectTasks(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseUUIDParam(r, "projectID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	count := h.analysisService.CancelProject(r.Context(), projectID)

	message := "No active tasks; cancellation recorded for the next task"
	if count > 0 {
		message = "Active tasks cancelled"
	}

	shared.RespondWithJSON(w, http.StatusOK, CancelProjectResponse{
		Status:         "ok",
		Message:        message,
		ProjectID:      projectID,
		CancelledCount: count,
	})
}

// CancelTask handles POST /api/llm/tasks/{taskID}/cancel.
func (h *AnalysisHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseUUIDParam(r, "taskID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if !h.analysisService.CancelTask(r.Context(), taskID) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, CancelTaskResponse{
		Status:  "ok",
		Message: "Task cancelled",
		TaskID:  taskID,
	})
}

// parseUUIDParam extracts and parses a UUID route parameter.
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// buildAnalysisParams converts a validated request into service parameters.
func buildAnalysisParams(req *AnalyzeRequest) (service.AnalysisParams, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return service.AnalysisParams{}, errors.New("start_date must be a YYYY-MM-DD date")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return service.AnalysisParams{}, errors.New("end_date must be a YYYY-MM-DD date")
	}
	if end.Before(start) {
		return service.AnalysisParams{}, errors.New("end_date must not precede start_date")
	}

	params := service.AnalysisParams{
		ResourceType: domain.ResourceType(req.ResourceType),
		Window:       domain.AnalysisWindow{Start: start, End: end},
	}
	if req.ResourceID != nil {
		id, err := uuid.Parse(*req.ResourceID)
		if err != nil {
			return service.AnalysisParams{}, errors.New("resource_id must be a valid UUID")
		}
		params.ResourceID = &id
	}
	return params, nil
}
