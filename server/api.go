// Package server exposes the merge engine to editors and tooling over HTTP
// and JSON-RPC.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/lexcodex/treemend/merge"
	"github.com/lexcodex/treemend/persistence"
	"github.com/lexcodex/treemend/tree"
)

// APIServer exposes HTTP endpoints for running merges without an editor.
type APIServer struct {
	Merger   *merge.Merger
	Registry *tree.ParserRegistry
	Detector *tree.LanguageDetector
	History  persistence.HistoryStore
	Logger   *log.Logger
}

// MergeRequest describes incoming API payload.
type MergeRequest struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	Baseline string `json:"baseline"`
	Modified string `json:"modified"`
	Patched  string `json:"patched"`
}

// MergeResponse describes API response.
type MergeResponse struct {
	Text     string          `json:"text,omitempty"`
	Stats    merge.Stats     `json:"stats"`
	Warnings []merge.Warning `json:"warnings,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Serve starts listening on the provided address.
func (s *APIServer) Serve(addr string) error {
	return s.ServeContext(context.Background(), addr)
}

// ServeContext allows the caller to control shutdown via context cancellation.
func (s *APIServer) ServeContext(ctx context.Context, addr string) error {
	server := s.newHTTPServer(addr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	if s.Logger != nil {
		s.Logger.Printf("merge API listening on %s", addr)
	}
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *APIServer) newHTTPServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/merge", s.handleMerge)
	mux.HandleFunc("/api/history", s.handleHistory)
	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}

func (s *APIServer) handleMerge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.runMerge(r.Context(), &req)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, MergeResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, MergeResponse{
		Text:     result.Text,
		Stats:    result.Stats,
		Warnings: result.Warnings,
	})
}

func (s *APIServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.History == nil {
		writeJSON(w, http.StatusOK, []*persistence.Record{})
		return
	}
	records, err := s.History.List(r.Context(), 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// runMerge resolves the parser, performs the merge, and records the outcome.
func (s *APIServer) runMerge(ctx context.Context, req *MergeRequest) (*merge.Result, error) {
	language := req.Language
	if language == "" {
		language = s.Detector.Detect(req.Path)
	}
	parser, ok := s.Registry.GetParser(language)
	if !ok {
		parser, _ = s.Registry.GetParser("text")
	}

	result, err := s.Merger.MergeSources(parser, req.Path, req.Baseline, req.Modified, req.Patched)
	if s.History != nil {
		rec := persistence.NewRecord(req.Path, language, result)
		if err != nil {
			rec = persistence.FailedRecord(req.Path, language, err)
		}
		if saveErr := s.History.Save(ctx, rec); saveErr != nil && s.Logger != nil {
			s.Logger.Printf("history save failed: %v", saveErr)
		}
	}
	return result, err
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
