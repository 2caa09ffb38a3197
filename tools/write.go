package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// WriteTool writes content to a file, creating parent directories as
// needed. It probes for the target before writing so the result can
// report pre-existence.
type WriteTool struct{}

// NewWriteTool creates a new Write tool.
func NewWriteTool() *WriteTool {
	return &WriteTool{}
}

// Name returns "Write".
func (w *WriteTool) Name() string {
	return "Write"
}

// Execute writes content to file_path, creating parent directories if
// needed.
func (w *WriteTool) Execute(ctx context.Context, input map[string]any) (Result, error) {
	filePath, ok := input["file_path"].(string)
	if !ok || filePath == "" {
		return Result{Content: "file_path is required", IsError: true}, nil
	}
	content, ok := input["content"].(string)
	if !ok {
		return Result{Content: "content is required", IsError: true}, nil
	}

	_, statErr := os.Stat(filePath)
	existed := statErr == nil

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return Result{Content: fmt.Sprintf("failed to create directory: %s", err), IsError: true}, nil
	}
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return Result{Content: fmt.Sprintf("failed to write file: %s", err), IsError: true}, nil
	}

	return Result{
		Content:  fmt.Sprintf("wrote %d bytes to %s", len(content), filePath),
		FilePath: filePath,
		Written:  []byte(content),
		Existed:  existed,
	}, nil
}
