// Package clients holds the HTTP clients for the backend services caseflow
// talks to.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"caseflow/doctree"
	"caseflow/models"
)

// APIError is a non-2xx response from the case-management backend.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed: status %d", e.Op, e.Status)
}

// CaseAPI is the client for the case-management REST backend. Credentials
// and base URL are configured once at construction; nothing is read from
// ambient state afterwards.
type CaseAPI struct {
	client *resty.Client
	log    zerolog.Logger
}

// NewCaseAPI creates a client for the given backend. A zero timeout leaves
// the platform default in place.
func NewCaseAPI(baseURL, token string, timeout time.Duration, log zerolog.Logger) *CaseAPI {
	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	client.SetAuthToken(token)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &CaseAPI{
		client: client,
		log:    log.With().Str("component", "caseapi").Logger(),
	}
}

func statusErr(op string, resp *resty.Response) error {
	body := string(resp.Body())
	if len(body) > 200 {
		body = body[:200]
	}
	return &APIError{Op: op, Status: resp.StatusCode(), Body: body}
}

// ListCases gets all cases visible to the configured credentials.
func (c *CaseAPI) ListCases(ctx context.Context) ([]models.Case, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/api/cases")
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusErr("list cases", resp)
	}

	var cases []models.Case
	if err := json.Unmarshal(resp.Body(), &cases); err != nil {
		return nil, fmt.Errorf("failed to parse cases response: %w", err)
	}
	return cases, nil
}

// GetCase gets a single case by id.
func (c *CaseAPI) GetCase(ctx context.Context, caseID string) (*models.Case, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/api/cases/" + caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusErr("get case", resp)
	}

	var out models.Case
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to parse case response: %w", err)
	}
	return &out, nil
}

// CreateCase creates a new case.
func (c *CaseAPI) CreateCase(ctx context.Context, draft models.CaseDraft) (*models.Case, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(draft).
		Post("/api/cases")
	if err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return nil, statusErr("create case", resp)
	}

	var out models.Case
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to parse case response: %w", err)
	}
	return &out, nil
}

// UpdateCase updates a case in place.
func (c *CaseAPI) UpdateCase(ctx context.Context, caseID string, draft models.CaseDraft) (*models.Case, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(draft).
		Put("/api/cases/" + caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to update case: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusErr("update case", resp)
	}

	var out models.Case
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to parse case response: %w", err)
	}
	return &out, nil
}

// CloseCase marks a case closed.
func (c *CaseAPI) CloseCase(ctx context.Context, caseID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"status": models.CaseClosed}).
		Put("/api/cases/" + caseID + "/status")
	if err != nil {
		return fmt.Errorf("failed to close case: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return statusErr("close case", resp)
	}
	return nil
}

// ListTasks gets the tasks attached to a case.
func (c *CaseAPI) ListTasks(ctx context.Context, caseID string) ([]models.Task, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/api/cases/" + caseID + "/tasks")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusErr("list tasks", resp)
	}

	var tasks []models.Task
	if err := json.Unmarshal(resp.Body(), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks response: %w", err)
	}
	return tasks, nil
}

// CreateTask adds a task to a case.
func (c *CaseAPI) CreateTask(ctx context.Context, caseID string, draft models.TaskDraft) (*models.Task, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(draft).
		Post("/api/cases/" + caseID + "/tasks")
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return nil, statusErr("create task", resp)
	}

	var out models.Task
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to parse task response: %w", err)
	}
	return &out, nil
}

// CompleteTask marks a task done.
func (c *CaseAPI) CompleteTask(ctx context.Context, taskID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Put("/api/tasks/" + taskID + "/complete")
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return statusErr("complete task", resp)
	}
	return nil
}

// Checklist gets a case's compliance checklist.
func (c *CaseAPI) Checklist(ctx context.Context, caseID string) ([]models.ChecklistItem, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/api/cases/" + caseID + "/checklist")
	if err != nil {
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusErr("get checklist", resp)
	}

	var items []models.ChecklistItem
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("failed to parse checklist response: %w", err)
	}
	return items, nil
}

// SetChecklistItem marks a checklist item done or not done.
func (c *CaseAPI) SetChecklistItem(ctx context.Context, caseID, itemID string, done bool) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]bool{"done": done}).
		Put("/api/cases/" + caseID + "/checklist/" + itemID)
	if err != nil {
		return fmt.Errorf("failed to set checklist item: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return statusErr("set checklist item", resp)
	}
	return nil
}

// DocumentTree gets the nested document tree for a case.
func (c *CaseAPI) DocumentTree(ctx context.Context, caseID string) (*doctree.TreeNode, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/api/cases/" + caseID + "/files")
	if err != nil {
		return nil, fmt.Errorf("failed to get document tree: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusErr("get document tree", resp)
	}

	var root doctree.TreeNode
	if err := json.Unmarshal(resp.Body(), &root); err != nil {
		return nil, fmt.Errorf("failed to parse document tree: %w", err)
	}
	return &root, nil
}

// DownloadFile streams the raw bytes of a stored file. The caller owns the
// returned reader and must close it.
func (c *CaseAPI) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get("/api/files/" + key)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		resp.RawBody().Close()
		return nil, &APIError{Op: "download file", Status: resp.StatusCode()}
	}

	return resp.RawBody(), nil
}

// DeleteFile deletes a stored file by key.
func (c *CaseAPI) DeleteFile(ctx context.Context, key string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Delete("/api/files/" + key)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return statusErr("delete file", resp)
	}

	c.log.Debug().Str("key", key).Msg("file deleted")
	return nil
}

// UploadDocument uploads a document into a case for OCR review.
func (c *CaseAPI) UploadDocument(ctx context.Context, caseID, name string, content io.Reader) (*doctree.FileRecord, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", name, content).
		Post("/api/cases/" + caseID + "/files")
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}
	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return nil, statusErr("upload document", resp)
	}

	var out doctree.FileRecord
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to parse upload response: %w", err)
	}
	return &out, nil
}

// LaunchWorkflow starts a backend agentic workflow against a case. The
// request id is generated client-side so a retried launch can be recognized
// by the backend.
func (c *CaseAPI) LaunchWorkflow(ctx context.Context, caseID, name string) (*models.WorkflowRun, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"name":       name,
			"request_id": uuid.NewString(),
		}).
		Post("/api/cases/" + caseID + "/workflows")
	if err != nil {
		return nil, fmt.Errorf("failed to launch workflow: %w", err)
	}
	if resp.StatusCode() != http.StatusAccepted && resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		return nil, statusErr("launch workflow", resp)
	}

	var run models.WorkflowRun
	if err := json.Unmarshal(resp.Body(), &run); err != nil {
		return nil, fmt.Errorf("failed to parse workflow response: %w", err)
	}

	c.log.Info().Str("case", caseID).Str("workflow", name).Str("run", run.ID).Msg("workflow launched")
	return &run, nil
}

// WorkflowStatus gets the current state of a workflow run.
func (c *CaseAPI) WorkflowStatus(ctx context.Context, runID string) (*models.WorkflowRun, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/api/workflows/" + runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow status: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusErr("get workflow status", resp)
	}

	var run models.WorkflowRun
	if err := json.Unmarshal(resp.Body(), &run); err != nil {
		return nil, fmt.Errorf("failed to parse workflow status: %w", err)
	}
	return &run, nil
}
