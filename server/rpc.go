package server

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/lexcodex/treemend/merge"
	"github.com/lexcodex/treemend/persistence"
	"github.com/lexcodex/treemend/tree"
)

// RPCServer speaks JSON-RPC over a byte stream (normally stdio) so editor
// plugins can request merges without an HTTP round trip. Framing follows
// the LSP convention so existing editor RPC clients can reuse their
// transport.
type RPCServer struct {
	Merger   *merge.Merger
	Registry *tree.ParserRegistry
	Detector *tree.LanguageDetector
	History  persistence.HistoryStore
	Logger   *log.Logger
}

// RPCMergeParams carries one merge request. The modified version rides in
// the text document item (the editor's live buffer); baseline and patched
// are plain texts.
type RPCMergeParams struct {
	TextDocument protocol.TextDocumentItem `json:"textDocument"`
	Baseline     string                    `json:"baseline"`
	Patched      string                    `json:"patched"`
}

// RPCMergeResult mirrors MergeResponse for the RPC surface.
type RPCMergeResult struct {
	Text     string          `json:"text"`
	Stats    merge.Stats     `json:"stats"`
	Warnings []merge.Warning `json:"warnings,omitempty"`
}

// RPCStatus reports what the server can do.
type RPCStatus struct {
	Languages []string `json:"languages"`
}

// Run serves requests on rwc until the connection closes or ctx is
// cancelled.
func (s *RPCServer) Run(ctx context.Context, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))
	if s.Logger != nil {
		s.Logger.Printf("merge RPC serving")
	}
	select {
	case <-ctx.Done():
		_ = conn.Close()
		return ctx.Err()
	case <-conn.DisconnectNotify():
		return nil
	}
}

func (s *RPCServer) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	switch req.Method {
	case "treemend/merge":
		if req.Params == nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
		}
		var params RPCMergeParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: err.Error()}
		}
		return s.merge(ctx, &params)
	case "treemend/status":
		return RPCStatus{Languages: s.Registry.SupportedLanguages()}, nil
	case "shutdown":
		return nil, conn.Close()
	default:
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not handled"}
	}
}

func (s *RPCServer) merge(ctx context.Context, params *RPCMergeParams) (*RPCMergeResult, error) {
	path := params.TextDocument.URI.Filename()
	language := string(params.TextDocument.LanguageID)
	if language == "" {
		language = s.Detector.Detect(path)
	}
	parser, ok := s.Registry.GetParser(language)
	if !ok {
		parser, _ = s.Registry.GetParser("text")
	}

	result, err := s.Merger.MergeSources(parser, path, params.Baseline, params.TextDocument.Text, params.Patched)
	if s.History != nil {
		rec := persistence.NewRecord(path, language, result)
		if err != nil {
			rec = persistence.FailedRecord(path, language, err)
		}
		if saveErr := s.History.Save(ctx, rec); saveErr != nil && s.Logger != nil {
			s.Logger.Printf("history save failed: %v", saveErr)
		}
	}
	if err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
	}
	return &RPCMergeResult{Text: result.Text, Stats: result.Stats, Warnings: result.Warnings}, nil
}
