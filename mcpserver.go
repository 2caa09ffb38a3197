package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"intentgate/authz"
	"intentgate/intent"
	"intentgate/ledger"
	"intentgate/scope"
	"intentgate/tools"
)

// defaultSession is used when an MCP client doesn't pass session_id.
// One connection typically serves one agent session; the engine itself
// is multi-session.
const defaultSession = "default"

// GateServer exposes the authorization engine and the gated mutating
// tools over MCP.
type GateServer struct {
	engine      *authz.Engine
	ledger      *ledger.Ledger
	intents     *intent.Store
	registry    *tools.Registry
	workRoot    string
	contributor ledger.Contributor
	logger      *slog.Logger

	mcpServer  *server.MCPServer
	httpServer *http.Server
	listener   net.Listener
}

// NewGateServer creates the MCP surface over the given core services.
// workRoot is the directory scope patterns and ledger paths are
// relative to.
func NewGateServer(engine *authz.Engine, led *ledger.Ledger, intents *intent.Store, registry *tools.Registry, workRoot string, contributor ledger.Contributor, logger *slog.Logger) *GateServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &GateServer{
		engine:      engine,
		ledger:      led,
		intents:     intents,
		registry:    registry,
		workRoot:    workRoot,
		contributor: contributor,
		logger:      logger,
	}

	s.mcpServer = server.NewMCPServer(
		"intentgate",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcpServer.AddTool(mcp.NewTool("declare_intent",
		mcp.WithDescription(`Declare the intent you are working under. Required before any mutating operation.

Args:
  - intent_id (string, required): id of an intent from the intent source
  - session_id (string, optional): session to bind the intent to

Returns: the intent's scope, constraints and acceptance criteria as JSON.`),
		mcp.WithString("intent_id", mcp.Required(), mcp.Description("Intent id to activate")),
		mcp.WithString("session_id", mcp.Description("Session id, defaults to \"default\"")),
	), s.handleDeclareIntent)

	s.mcpServer.AddTool(mcp.NewTool("check_operation",
		mcp.WithDescription(`Check whether an operation on a target path would be allowed, without executing it.

Args:
  - operation (string, required): operation name, e.g. Write, Edit, Read
  - target (string, required): path the operation would touch
  - session_id (string, optional)

Returns: the allow/deny decision as JSON.`),
		mcp.WithString("operation", mcp.Required(), mcp.Description("Operation name")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Target path")),
		mcp.WithString("session_id", mcp.Description("Session id, defaults to \"default\"")),
	), s.handleCheckOperation)

	s.mcpServer.AddTool(mcp.NewTool("write_file",
		mcp.WithDescription(`Write a file inside the declared intent's scope. The write is gated and, on success, recorded in the audit ledger.

Args:
  - file_path (string, required): path relative to the workspace root
  - content (string, required): full file content
  - session_id (string, optional)`),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path relative to the workspace root")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full file content")),
		mcp.WithString("session_id", mcp.Description("Session id, defaults to \"default\"")),
	), s.handleWriteFile)

	s.mcpServer.AddTool(mcp.NewTool("edit_file",
		mcp.WithDescription(`Replace old_string with new_string in a file inside the declared intent's scope. Gated and audited like write_file.

Args:
  - file_path (string, required): path relative to the workspace root
  - old_string (string, required): exact text to replace
  - new_string (string, required): replacement text
  - replace_all (boolean, optional): replace every occurrence
  - session_id (string, optional)`),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path relative to the workspace root")),
		mcp.WithString("old_string", mcp.Required(), mcp.Description("Exact text to replace")),
		mcp.WithString("new_string", mcp.Required(), mcp.Description("Replacement text")),
		mcp.WithBoolean("replace_all", mcp.Description("Replace every occurrence")),
		mcp.WithString("session_id", mcp.Description("Session id, defaults to \"default\"")),
	), s.handleEditFile)

	s.mcpServer.AddTool(mcp.NewTool("list_intents",
		mcp.WithDescription("List the intents currently defined in the intent source, as JSON."),
	), s.handleListIntents)

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription(`Clear the session's active intent. The next mutating operation will require a fresh declare_intent.

Args:
  - session_id (string, optional)`),
		mcp.WithString("session_id", mcp.Description("Session id, defaults to \"default\"")),
	), s.handleResetSession)

	return s
}

func stringArg(req mcp.CallToolRequest, key string) string {
	v, _ := req.Params.Arguments[key].(string)
	return v
}

func sessionArg(req mcp.CallToolRequest) string {
	if id := stringArg(req, "session_id"); id != "" {
		return id
	}
	return defaultSession
}

// resolveTarget returns the normalized workspace-relative path used
// for scope checks and ledger entries, plus the absolute path used for
// execution. Paths escaping the workspace root are rejected.
func (s *GateServer) resolveTarget(path string) (rel string, abs string, err error) {
	if filepath.IsAbs(path) {
		rel, err = filepath.Rel(s.workRoot, path)
		if err != nil {
			return "", "", err
		}
	} else {
		rel = filepath.Clean(path)
	}
	rel = scope.Normalize(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", "", fmt.Errorf("path %s is outside the workspace root", path)
	}
	return rel, filepath.Join(s.workRoot, filepath.FromSlash(rel)), nil
}

func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

func (s *GateServer) handleDeclareIntent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	intentID := stringArg(req, "intent_id")
	if intentID == "" {
		return mcp.NewToolResultError("intent_id is required"), nil
	}
	grant, err := s.engine.Declare(ctx, sessionArg(req), intentID)
	if err != nil {
		var declErr *authz.DeclareError
		if errors.As(err, &declErr) {
			return mcp.NewToolResultError(toJSON(map[string]any{
				"reason":      declErr.Reason,
				"explanation": declErr.Message,
			})), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toJSON(grant)), nil
}

func (s *GateServer) handleCheckOperation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	operation := stringArg(req, "operation")
	target := stringArg(req, "target")
	if operation == "" || target == "" {
		return mcp.NewToolResultError("operation and target are required"), nil
	}
	rel, _, err := s.resolveTarget(target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	decision := s.engine.Check(ctx, sessionArg(req), operation, rel)
	return mcp.NewToolResultText(toJSON(decision)), nil
}

func (s *GateServer) handleWriteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := stringArg(req, "file_path")
	content, hasContent := req.Params.Arguments["content"].(string)
	if filePath == "" || !hasContent {
		return mcp.NewToolResultError("file_path and content are required"), nil
	}
	return s.runMutating(ctx, sessionArg(req), "Write", filePath, map[string]any{
		"content": content,
	})
}

func (s *GateServer) handleEditFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := stringArg(req, "file_path")
	if filePath == "" {
		return mcp.NewToolResultError("file_path is required"), nil
	}
	input := map[string]any{
		"old_string": stringArg(req, "old_string"),
		"new_string": stringArg(req, "new_string"),
	}
	if v, ok := req.Params.Arguments["replace_all"].(bool); ok {
		input["replace_all"] = v
	}
	return s.runMutating(ctx, sessionArg(req), "Edit", filePath, input)
}

// runMutating is the gate → execute → record pipeline shared by the
// mutating tools.
func (s *GateServer) runMutating(ctx context.Context, sessionID, operation, filePath string, input map[string]any) (*mcp.CallToolResult, error) {
	rel, abs, err := s.resolveTarget(filePath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	decision := s.engine.Check(ctx, sessionID, operation, rel)
	if !decision.Allowed {
		s.logger.Info("operation denied", "session", sessionID, "operation", operation, "target", rel, "reason", decision.Reason)
		return mcp.NewToolResultError(toJSON(decision)), nil
	}

	// classify before the write lands, afterwards the target exists
	class := s.ledger.Classify(abs)

	input["file_path"] = abs
	result, err := s.registry.Execute(ctx, operation, input)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if result.IsError {
		return mcp.NewToolResultError(result.Content), nil
	}

	auth, _ := s.engine.Active(sessionID)
	s.ledger.Record(ctx, auth.IntentID, ledger.Mutation{
		Path:        rel,
		Content:     result.Written,
		Contributor: s.contributor,
		Class:       class,
	})

	return mcp.NewToolResultText(result.Content), nil
}

func (s *GateServer) handleListIntents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toJSON(s.intents.LoadAll(ctx))), nil
}

func (s *GateServer) handleResetSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := sessionArg(req)
	s.engine.Clear(sessionID)
	return mcp.NewToolResultText(fmt.Sprintf("session %s reset: no active intent", sessionID)), nil
}

// Start binds to a localhost random port and returns the SSE URL.
func (s *GateServer) Start() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("listen: %w", err)
	}
	s.listener = listener

	addr := listener.Addr().(*net.TCPAddr)
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", addr.Port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer)
	mux.Handle("/message", sseServer)

	s.httpServer = &http.Server{Handler: mux}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("MCP server error", "error", err)
		}
	}()

	return baseURL + "/sse", nil
}

// Stop shuts down the HTTP server.
func (s *GateServer) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}
