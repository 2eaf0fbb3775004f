package model

import "time"

// RunStatus represents the current state of an optimization run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records a single optimization invocation and its stored result.
type Run struct {
	ID            string              `json:"id"`
	Label         string              `json:"label"`
	FacilityCount int                 `json:"facility_count"`
	RegionCount   int                 `json:"region_count"`
	Status        RunStatus           `json:"status"`
	Result        *OptimizationResult `json:"result,omitempty"`
	Error         string              `json:"error,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
