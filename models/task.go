package models

import "time"

// Task is a follow-up action attached to a case.
type Task struct {
	ID        string     `json:"id"`
	CaseID    string     `json:"case_id"`
	Title     string     `json:"title"`
	Due       *time.Time `json:"due,omitempty"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
}

// TaskDraft is the payload for creating a task.
type TaskDraft struct {
	Title string     `json:"title"`
	Due   *time.Time `json:"due,omitempty"`
}

// ChecklistItem is one entry of a case's compliance checklist.
type ChecklistItem struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Required    bool       `json:"required"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
