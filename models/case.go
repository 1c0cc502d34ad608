package models

import "time"

// Case statuses used by the backend.
const (
	CaseOpen   = "open"
	CaseClosed = "closed"
)

// Case is a debt-advice client matter under which documents, tasks and the
// compliance checklist are organized.
type Case struct {
	ID         string    `json:"id"`
	Reference  string    `json:"reference"`
	ClientName string    `json:"client_name"`
	Adviser    string    `json:"adviser"`
	Status     string    `json:"status"`
	TotalDebt  int64     `json:"total_debt"` // pence
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CaseDraft is the payload for creating or updating a case.
type CaseDraft struct {
	Reference  string `json:"reference"`
	ClientName string `json:"client_name"`
	Adviser    string `json:"adviser,omitempty"`
	TotalDebt  int64  `json:"total_debt,omitempty"`
}
