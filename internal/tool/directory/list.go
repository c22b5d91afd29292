package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/Cyclone1070/donna/internal/tool"
)

// ListDirTool lists the immediate children of a directory.
type ListDirTool struct {
	fs           dirLister
	pathResolver pathResolver
}

// NewListDirTool creates a new ListDirTool with injected dependencies.
func NewListDirTool(fs dirLister, pathResolver pathResolver) *ListDirTool {
	if fs == nil {
		panic("fs is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &ListDirTool{fs: fs, pathResolver: pathResolver}
}

// Run returns the entries of a directory in name order.
func (t *ListDirTool) Run(ctx context.Context, req *ListDirectoryRequest) (*ListDirectoryResponse, error) {
	abs, err := t.pathResolver.Abs(req.Path)
	if err != nil {
		return nil, err
	}
	info, err := t.fs.Stat(abs)
	if err != nil {
		return nil, &StatError{Path: abs, Cause: err}
	}
	if !info.IsDir() {
		return nil, &NotADirectoryError{Path: abs}
	}

	dirEntries, err := t.fs.ListDir(abs)
	if err != nil {
		return nil, &ListDirError{Path: abs, Cause: err}
	}

	entries := make([]DirectoryEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry := DirectoryEntry{Name: de.Name(), IsDir: de.IsDir()}
		if !entry.IsDir {
			// Entries can vanish between ReadDir and Info.
			if fi, err := de.Info(); err == nil {
				entry.Size = fi.Size()
			}
		}
		entries = append(entries, entry)
	}
	return &ListDirectoryResponse{AbsolutePath: abs, Entries: entries}, nil
}

// Entry registers the tool as list_dir.
func (t *ListDirTool) Entry() tool.Entry {
	return tool.Entry{
		Name:        "list_dir",
		Description: "List the files and directories inside a directory.",
		Safety:      tool.Green,
		Params: []tool.Param{
			{Name: "path", Type: tool.TypeString, Description: "Directory to list.", Default: "."},
		},
		Func: tool.Typed(func(ctx context.Context, req ListDirectoryRequest) (string, error) {
			resp, err := t.Run(ctx, &req)
			if err != nil {
				return "", err
			}
			return formatListing(resp), nil
		}),
	}
}

func formatListing(resp *ListDirectoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Contents of %s:\n", resp.AbsolutePath)
	if len(resp.Entries) == 0 {
		b.WriteString("  (empty directory)")
		return b.String()
	}
	for i, e := range resp.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		if e.IsDir {
			fmt.Fprintf(&b, "  [DIR]  %s/", e.Name)
		} else {
			fmt.Fprintf(&b, "  [FILE] %s  (%s)", e.Name, HumanSize(e.Size))
		}
	}
	return b.String()
}

// HumanSize formats a byte count with a binary unit.
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	size := float64(n)
	for _, suffix := range []string{"KB", "MB", "GB"} {
		size /= unit
		if size < unit {
			return fmt.Sprintf("%.0f %s", size, suffix)
		}
	}
	return fmt.Sprintf("%.1f TB", size/unit)
}
