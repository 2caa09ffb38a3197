package tools

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EditTool performs string replacement edits on files.
type EditTool struct{}

// NewEditTool creates a new Edit tool.
func NewEditTool() *EditTool {
	return &EditTool{}
}

// Name returns "Edit".
func (e *EditTool) Name() string {
	return "Edit"
}

// Execute replaces old_string with new_string in file_path.
func (e *EditTool) Execute(ctx context.Context, input map[string]any) (Result, error) {
	filePath, ok := input["file_path"].(string)
	if !ok || filePath == "" {
		return Result{Content: "file_path is required", IsError: true}, nil
	}
	oldString, ok := input["old_string"].(string)
	if !ok || oldString == "" {
		return Result{Content: "old_string is required and must be non-empty", IsError: true}, nil
	}
	newString, ok := input["new_string"].(string)
	if !ok {
		return Result{Content: "new_string is required", IsError: true}, nil
	}
	if oldString == newString {
		return Result{Content: "old_string and new_string are the same; no change needed", IsError: true}, nil
	}
	replaceAll := false
	if v, ok := input["replace_all"].(bool); ok {
		replaceAll = v
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return Result{Content: fmt.Sprintf("failed to read file: %s", err), IsError: true}, nil
	}
	oldContent := string(data)

	count := strings.Count(oldContent, oldString)
	if count == 0 {
		return Result{Content: fmt.Sprintf("old_string not found in file: %s", filePath), IsError: true}, nil
	}
	if !replaceAll && count > 1 {
		return Result{
			Content: fmt.Sprintf("old_string is not unique: found %d occurrences. Use replace_all=true to replace all, or provide more context to make it unique", count),
			IsError: true,
		}, nil
	}

	var newContent string
	if replaceAll {
		newContent = strings.ReplaceAll(oldContent, oldString, newString)
	} else {
		newContent = strings.Replace(oldContent, oldString, newString, 1)
	}

	if err := os.WriteFile(filePath, []byte(newContent), 0644); err != nil {
		return Result{Content: fmt.Sprintf("failed to write file: %s", err), IsError: true}, nil
	}

	return Result{
		Content:  fmt.Sprintf("edited %s", filePath),
		FilePath: filePath,
		Written:  []byte(newContent),
		Existed:  true, // edit requires an existing file
	}, nil
}
