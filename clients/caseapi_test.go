package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow/models"
)

func newTestAPI(server *httptest.Server) *CaseAPI {
	return NewCaseAPI(server.URL, "test-token", 0, zerolog.Nop())
}

func TestDocumentTree(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/cases/case-1/files", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Write([]byte(`{
			"name": "", "type": "directory",
			"children": {
				"zeta": {"type": "directory", "files": [{"key": "k1", "name": "z.pdf", "size": 10, "lastModified": "2026-01-01T00:00:00Z"}]},
				"alpha": {"type": "directory"}
			},
			"files": []
		}`))
	}))
	defer server.Close()

	api := newTestAPI(server)
	root, err := api.DocumentTree(context.Background(), "case-1")
	require.NoError(t, err)

	require.Len(t, root.Children, 2)
	assert.Equal(t, "zeta", root.Children[0].Name, "wire order preserved")
	assert.Equal(t, "alpha", root.Children[1].Name)
	assert.Equal(t, 1, root.LeafCount())
}

func TestDocumentTreeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	api := newTestAPI(server)
	_, err := api.DocumentTree(context.Background(), "case-1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestDownloadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files/k-123", r.URL.Path)
		w.Write([]byte("raw file bytes"))
	}))
	defer server.Close()

	api := newTestAPI(server)
	body, err := api.DownloadFile(context.Background(), "k-123")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "raw file bytes", string(data))
}

func TestDownloadFileNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	api := newTestAPI(server)
	_, err := api.DownloadFile(context.Background(), "gone")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestDeleteFile(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	api := newTestAPI(server)
	require.NoError(t, api.DeleteFile(context.Background(), "k-123"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/files/k-123", gotPath)
}

func TestListCases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cases", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Case{
			{ID: "c-1", Reference: "DA-0001", ClientName: "J. Smith", Status: models.CaseOpen},
		})
	}))
	defer server.Close()

	api := newTestAPI(server)
	cases, err := api.ListCases(context.Background())
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "DA-0001", cases[0].Reference)
}

func TestLaunchWorkflow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cases/case-1/workflows", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "report", body["name"])
		_, err := uuid.Parse(body["request_id"])
		assert.NoError(t, err, "request id must be a client-generated uuid")

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(models.WorkflowRun{
			ID: "run-1", CaseID: "case-1", Name: "report", Status: models.WorkflowPending, Step: -1,
		})
	}))
	defer server.Close()

	api := newTestAPI(server)
	run, err := api.LaunchWorkflow(context.Background(), "case-1", "report")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, models.WorkflowPending, run.Status)
}

func TestSetChecklistItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/cases/case-1/checklist/item-7", r.URL.Path)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["done"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	api := newTestAPI(server)
	require.NoError(t, api.SetChecklistItem(context.Background(), "case-1", "item-7", true))
}
