// Package tools holds the file-mutating tool implementations the gate
// protects. Tools report the exact bytes they leave on disk and
// whether the target pre-existed, which is what the audit ledger
// records after a successful run.
package tools

import (
	"context"
	"errors"
	"sync"
)

// ErrToolNotFound returned when executing an unregistered tool.
var ErrToolNotFound = errors.New("tool not found")

// Result returned by tool execution. Tool-level problems come back as
// IsError content, not as Go errors, so the caller can relay them.
type Result struct {
	Content string // output text for the caller
	IsError bool   // true if the tool reports a problem

	// mutation metadata, set by file-mutating tools
	FilePath string // path that was written
	Written  []byte // exact bytes now on disk
	Existed  bool   // whether the target existed before this call
}

// Tool interface for individual tool implementations.
type Tool interface {
	Name() string
	Execute(ctx context.Context, input map[string]any) (Result, error)
}

// Registry stores tools and dispatches execution.
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

// Has checks if a tool is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Execute runs the named tool with the given input.
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any) (Result, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return Result{}, ErrToolNotFound
	}
	return tool.Execute(ctx, input)
}
