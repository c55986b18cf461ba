package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexcodex/treemend/merge"
	"github.com/lexcodex/treemend/persistence"
	"github.com/lexcodex/treemend/tree"
)

func newTestServer(t *testing.T) *APIServer {
	t.Helper()
	history, err := persistence.NewFileHistoryStore(filepath.Join(t.TempDir(), "merges.json"))
	if err != nil {
		t.Fatalf("history init: %v", err)
	}
	return &APIServer{
		Merger:   merge.NewMerger(),
		Registry: tree.DefaultRegistry(),
		Detector: tree.NewLanguageDetector(),
		History:  history,
		Logger:   log.New(io.Discard, "", 0),
	}
}

func TestHandleMerge(t *testing.T) {
	api := newTestServer(t)
	reqBody, _ := json.Marshal(MergeRequest{
		Path:     "sample.go",
		Baseline: "package sample\n\nfunc A() {\n\tx()\n}",
		Modified: "package sample\n\nfunc A() {\n\ty()\n}",
		Patched:  "package sample\n\nfunc A() {\n\tx()\n}",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/merge", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()
	api.handleMerge(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp MergeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Text, "y()")
	assert.Empty(t, resp.Error)
	assert.Greater(t, resp.Stats.NodesMerged, 0)

	records, err := api.History.List(context.Background(), 10)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.True(t, records[0].Success)
}

func TestHandleMergeBlankInput(t *testing.T) {
	api := newTestServer(t)
	reqBody, _ := json.Marshal(MergeRequest{
		Path:     "sample.go",
		Baseline: "package sample",
		Modified: "",
		Patched:  "package sample",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/merge", bytes.NewReader(reqBody))
	rec := httptest.NewRecorder()
	api.handleMerge(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp MergeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)

	records, err := api.History.List(context.Background(), 10)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.False(t, records[0].Success)
}

func TestHandleMergeRejectsWrongMethod(t *testing.T) {
	api := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/merge", nil)
	rec := httptest.NewRecorder()
	api.handleMerge(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHistory(t *testing.T) {
	api := newTestServer(t)
	assert.NoError(t, api.History.Save(context.Background(),
		persistence.NewRecord("a.go", "go", &merge.Result{})))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	api.handleHistory(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var records []*persistence.Record
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 1)
	assert.Equal(t, "a.go", records[0].Path)
}
