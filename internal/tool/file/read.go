package file

import (
	"context"

	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/Cyclone1070/donna/internal/tool/helper/content"
)

// ReadFileTool handles file reading operations.
type ReadFileTool struct {
	fileOps      fileReader
	pathResolver pathResolver
	maxFileSize  int64
}

// NewReadFileTool creates a new ReadFileTool with injected dependencies.
func NewReadFileTool(fileOps fileReader, pathResolver pathResolver, maxFileSize int64) *ReadFileTool {
	if fileOps == nil {
		panic("fileOps is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &ReadFileTool{fileOps: fileOps, pathResolver: pathResolver, maxFileSize: maxFileSize}
}

// Run reads a whole text file. Directories, binary files and files above
// the size limit are rejected.
func (t *ReadFileTool) Run(ctx context.Context, req *ReadFileRequest) (*ReadFileResponse, error) {
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
	if t.maxFileSize > 0 && info.Size() > t.maxFileSize {
		return nil, &TooLargeError{Path: abs, Size: info.Size(), Limit: t.maxFileSize}
	}

	data, err := t.fileOps.ReadFile(abs, 0)
	if err != nil {
		return nil, &ReadError{Path: abs, Cause: err}
	}
	if content.IsBinaryContent(data) {
		return nil, &BinaryFileError{Path: abs}
	}

	return &ReadFileResponse{
		Content:      string(data),
		AbsolutePath: abs,
		Size:         info.Size(),
	}, nil
}

// Entry registers the tool as read_file.
func (t *ReadFileTool) Entry() tool.Entry {
	return tool.Entry{
		Name:        "read_file",
		Description: "Read the full text contents of a file.",
		Safety:      tool.Green,
		Params: []tool.Param{
			{Name: "path", Type: tool.TypeString, Description: "Path of the file to read. Relative paths use the current directory; ~ is the home directory."},
		},
		Func: tool.Typed(func(ctx context.Context, req ReadFileRequest) (string, error) {
			resp, err := t.Run(ctx, &req)
			if err != nil {
				return "", err
			}
			if resp.Content == "" {
				return "(empty file)", nil
			}
			return resp.Content, nil
		}),
	}
}
