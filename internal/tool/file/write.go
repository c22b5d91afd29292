package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/Cyclone1070/donna/internal/tool"
)

// WriteFileTool creates or overwrites files.
type WriteFileTool struct {
	fileOps      fileWriter
	pathResolver pathResolver
	maxFileSize  int64
}

// NewWriteFileTool creates a new WriteFileTool with injected dependencies.
func NewWriteFileTool(fileOps fileWriter, pathResolver pathResolver, maxFileSize int64) *WriteFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &WriteFileTool{fileOps: fileOps, pathResolver: pathResolver, maxFileSize: maxFileSize}
}

// Run writes content to the path, creating parent directories as needed.
// Existing files keep their permission bits.
func (t *WriteFileTool) Run(ctx context.Context, req *WriteFileRequest) (*WriteFileResponse, error) {
	abs, err := t.pathResolver.Abs(req.Path)
	if err != nil {
		return nil, err
	}
	if t.maxFileSize > 0 && int64(len(req.Content)) > t.maxFileSize {
		return nil, &TooLargeError{Path: abs, Size: int64(len(req.Content)), Limit: t.maxFileSize}
	}

	perm := fs.FileMode(0o644)
	created := true
	info, err := t.fileOps.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return nil, &IsDirectoryError{Path: abs}
	case err == nil:
		perm = info.Mode().Perm()
		created = false
	case !errors.Is(err, fs.ErrNotExist):
		return nil, &StatError{Path: abs, Cause: err}
	}

	if err := t.fileOps.EnsureDirs(filepath.Dir(abs)); err != nil {
		return nil, &WriteError{Path: abs, Cause: err}
	}
	if err := t.fileOps.WriteFileAtomic(abs, []byte(req.Content), perm); err != nil {
		return nil, &WriteError{Path: abs, Cause: err}
	}

	return &WriteFileResponse{AbsolutePath: abs, BytesWritten: len(req.Content), Created: created}, nil
}

// Entry registers the tool as write_file. The path argument is the
// target used for duplicate detection.
func (t *WriteFileTool) Entry() tool.Entry {
	return tool.Entry{
		Name:        "write_file",
		Description: "Write content to a file, creating it or overwriting it. Parent directories are created.",
		Safety:      tool.Red,
		Target:      "path",
		Params: []tool.Param{
			{Name: "path", Type: tool.TypeString, Description: "Path of the file to write."},
			{Name: "content", Type: tool.TypeString, Description: "Full new contents of the file."},
		},
		Func: tool.Typed(func(ctx context.Context, req WriteFileRequest) (string, error) {
			resp, err := t.Run(ctx, &req)
			if err != nil {
				return "", err
			}
			verb := "Updated"
			if resp.Created {
				verb = "Created"
			}
			return fmt.Sprintf("[OK] %s %s (%d bytes written)", verb, resp.AbsolutePath, resp.BytesWritten), nil
		}),
	}
}
