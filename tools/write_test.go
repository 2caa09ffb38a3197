package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTool_Execute_NewFile(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given - target does not exist
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "test.txt")
	content := "hello world\n"

	tool := NewWriteTool()

	// when
	result, err := tool.Execute(context.Background(), map[string]any{
		"file_path": path,
		"content":   content,
	})

	// then - file created, pre-existence reported for classification
	r.NoError(err)
	a.False(result.IsError)
	a.False(result.Existed)
	a.Equal(path, result.FilePath)
	a.Equal([]byte(content), result.Written)

	data, err := os.ReadFile(path)
	r.NoError(err)
	a.Equal(content, string(data))
}

func TestWriteTool_Execute_OverwritesExisting(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given - existing file
	dir := t.TempDir()
	path := filepath.Join(dir, "existing.txt")
	r.NoError(os.WriteFile(path, []byte("old content"), 0644))

	tool := NewWriteTool()

	// when
	result, err := tool.Execute(context.Background(), map[string]any{
		"file_path": path,
		"content":   "new content",
	})

	// then
	r.NoError(err)
	a.False(result.IsError)
	a.True(result.Existed)
	a.Equal([]byte("new content"), result.Written)
}

func TestWriteTool_Execute_MissingArgs(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	tool := NewWriteTool()

	// when - no file_path
	result, err := tool.Execute(context.Background(), map[string]any{"content": "hello"})

	// then
	r.NoError(err)
	a.True(result.IsError)
	a.Contains(result.Content, "file_path")

	// when - no content
	result, err = tool.Execute(context.Background(), map[string]any{"file_path": "/tmp/test.txt"})

	// then
	r.NoError(err)
	a.True(result.IsError)
	a.Contains(result.Content, "content")
}

func TestWriteTool_Execute_InvalidPath(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	tool := NewWriteTool()

	// when - parent cannot be created
	result, err := tool.Execute(context.Background(), map[string]any{
		"file_path": "/nonexistent_root_dir_test_12345/file.txt",
		"content":   "test",
	})

	// then - error result, not a fault
	r.NoError(err)
	a.True(result.IsError)
	a.Contains(result.Content, "failed")
}
