package models

import "time"

// Workflow run states reported by the backend.
const (
	WorkflowPending   = "pending"
	WorkflowRunning   = "running"
	WorkflowCompleted = "completed"
	WorkflowFailed    = "failed"
)

// WorkflowRun is one execution of a backend agentic workflow (report
// generation, triage, ...) launched against a case.
type WorkflowRun struct {
	ID        string    `json:"id"`
	CaseID    string    `json:"case_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Step      int       `json:"step"` // index into Steps, -1 before the first step
	Steps     []string  `json:"steps"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Terminal reports whether the run has finished, successfully or not.
func (r *WorkflowRun) Terminal() bool {
	return r.Status == WorkflowCompleted || r.Status == WorkflowFailed
}
