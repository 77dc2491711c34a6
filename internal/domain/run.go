package domain

import "time"

// RunState is the lifecycle state of one observation job.
type RunState string

const (
	RunPending   RunState = "pending"
	RunRunning   RunState = "running"
	RunSucceeded RunState = "succeeded"
	RunFailed    RunState = "failed"
)

// RunStatus describes the most recent observation job.
type RunStatus struct {
	ID         string    `json:"id"`
	Cadence    string    `json:"cadence"`
	State      RunState  `json:"state"`
	Output     string    `json:"output,omitempty"`
	Stations   int       `json:"stations"`
	Units      int       `json:"units"`
	Rows       int       `json:"rows"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Error      string    `json:"error,omitempty"`
}
