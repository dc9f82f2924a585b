package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ResourceType identifies the kind of cloud resource under analysis.
type ResourceType string

// Supported resource types
const (
	ResourceTypeCompute ResourceType = "compute"
	ResourceTypeStorage ResourceType = "storage"
)

// Platform identifies the cloud provider a resource belongs to.
type Platform string

// Supported platforms
const (
	PlatformAzure Platform = "azure"
)

// Common validation errors for Resource
var (
	ErrEmptyResourceID        = errors.New("resource ID cannot be empty")
	ErrEmptyResourceProjectID = errors.New("resource project ID cannot be empty")
	ErrInvalidResourceType    = errors.New("invalid resource type")
	ErrNegativeBilledCost     = errors.New("billed cost cannot be negative")
	ErrInvalidWindow          = errors.New("analysis window end must not precede start")
)

// MetricSample holds the aggregated utilization figures for one metric over
// the analysis window, e.g. "Percentage CPU" or "UsedCapacity (GiB)".
// Pointers distinguish "not collected" from a genuine zero.
type MetricSample struct {
	Avg     *float64 `json:"avg,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	MaxDate string   `json:"max_date,omitempty"`
}

// Resource represents one billable cloud resource together with the cost and
// utilization data the recommendation engine reasons about.
type Resource struct {
	ID                  uuid.UUID               `json:"id"`
	ProjectID           uuid.UUID               `json:"project_id"`
	Name                string                  `json:"name"`
	Type                ResourceType            `json:"type"`
	Platform            Platform                `json:"platform"`
	SKU                 string                  `json:"sku,omitempty"`
	AccessTier          string                  `json:"access_tier,omitempty"`
	InstanceType        string                  `json:"instance_type,omitempty"`
	BilledCost          float64                 `json:"billed_cost"`
	ContractedUnitPrice *float64                `json:"contracted_unit_price,omitempty"`
	Metrics             map[string]MetricSample `json:"metrics,omitempty"`
}

// Validate checks if the Resource has valid data.
// Returns an error if any field fails validation.
func (r *Resource) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyResourceID
	}
	if r.ProjectID == uuid.Nil {
		return ErrEmptyResourceProjectID
	}
	if !IsValidResourceType(r.Type) {
		return ErrInvalidResourceType
	}
	if r.BilledCost < 0 {
		return ErrNegativeBilledCost
	}
	return nil
}

// IsValidResourceType checks if the given type is a supported ResourceType.
func IsValidResourceType(t ResourceType) bool {
	switch t {
	case ResourceTypeCompute, ResourceTypeStorage:
		return true
	default:
		return false
	}
}

// AnalysisWindow is the date range an analysis covers.
type AnalysisWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewAnalysisWindow creates a validated AnalysisWindow.
func NewAnalysisWindow(start, end time.Time) (AnalysisWindow, error) {
	w := AnalysisWindow{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return AnalysisWindow{}, err
	}
	return w, nil
}

// Validate checks the window ordering.
func (w AnalysisWindow) Validate() error {
	if w.End.Before(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// DurationDays returns the number of billed days the window covers.
// A same-day window counts as one day.
func (w AnalysisWindow) DurationDays() int {
	days := int(w.End.Sub(w.Start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
