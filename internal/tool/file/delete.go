package file

import (
	"context"
	"fmt"

	"github.com/Cyclone1070/donna/internal/tool"
)

// DeleteFileTool removes single regular files. Directories are refused.
type DeleteFileTool struct {
	fileOps      fileRemover
	pathResolver pathResolver
}

func NewDeleteFileTool(fileOps fileRemover, pathResolver pathResolver) *DeleteFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &DeleteFileTool{fileOps: fileOps, pathResolver: pathResolver}
}

func (t *DeleteFileTool) Run(ctx context.Context, req *DeleteFileRequest) (*DeleteFileResponse, error) {
	abs, err := t.pathResolver.Abs(req.Path)
	if err != nil {
		return nil, err
	}
	info, err := t.fileOps.Stat(abs)
	if err != nil {
		return nil, &StatError{Path: abs, Cause: err}
	}
	if info.IsDir() {
		return nil, &IsDirectoryError{Path: abs}
	}
	if !info.Mode().IsRegular() {
		return nil, &NotRegularFileError{Path: abs}
	}
	if err := t.fileOps.Remove(abs); err != nil {
		return nil, &DeleteError{Path: abs, Cause: err}
	}
	return &DeleteFileResponse{AbsolutePath: abs}, nil
}

func (t *DeleteFileTool) Entry() tool.Entry {
	return tool.Entry{
		Name:        "delete_file",
		Description: "Delete a single file from disk. This cannot be undone.",
		Safety:      tool.Red,
		Target:      "path",
		Params: []tool.Param{
			{Name: "path", Type: tool.TypeString, Description: "Path of the file to delete."},
		},
		Func: tool.Typed(func(ctx context.Context, req DeleteFileRequest) (string, error) {
			resp, err := t.Run(ctx, &req)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("[OK] Deleted %s", resp.AbsolutePath), nil
		}),
	}
}
