package directory

import (
	"context"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/Cyclone1070/donna/internal/tool/service/git"
)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	"node_modules": true,
}

// FindFileTool searches a tree for files whose base name matches a glob.
type FindFileTool struct {
	fs           dirWalker
	pathResolver pathResolver
	limit        int
}

// NewFindFileTool creates a new FindFileTool. At most limit matches are
// listed in the output.
func NewFindFileTool(fs dirWalker, pathResolver pathResolver, limit int) *FindFileTool {
	if fs == nil {
		panic("fs is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &FindFileTool{fs: fs, pathResolver: pathResolver, limit: limit}
}

// Run walks the tree under req.Path. Paths matched by the root's
// .gitignore are skipped. Unreadable subdirectories are skipped silently.
func (t *FindFileTool) Run(ctx context.Context, req *FindFileRequest) (*FindFileResponse, error) {
	root, err := t.pathResolver.Abs(req.Path)
	if err != nil {
		return nil, err
	}
	info, err := t.fs.Stat(root)
	if err != nil {
		return nil, &StatError{Path: root, Cause: err}
	}
	if !info.IsDir() {
		return nil, &NotADirectoryError{Path: root}
	}

	ignore, err := git.NewIgnoreMatcher(root, t.fs)
	if err != nil {
		return nil, err
	}

	resp := &FindFileResponse{Root: root, Pattern: req.Pattern}
	err = t.fs.Walk(root, func(path string, d iofs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] || ignore.ShouldIgnore(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignore.ShouldIgnore(rel, false) {
			return nil
		}
		if ok, _ := filepath.Match(req.Pattern, d.Name()); !ok {
			return nil
		}

		resp.Total++
		if t.limit <= 0 || len(resp.Matches) < t.limit {
			resp.Matches = append(resp.Matches, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Entry registers the tool as find_files.
func (t *FindFileTool) Entry() tool.Entry {
	return tool.Entry{
		Name:        "find_files",
		Description: "Recursively find files whose name matches a glob pattern such as '*.go' or 'test_*'.",
		Safety:      tool.Green,
		Params: []tool.Param{
			{Name: "pattern", Type: tool.TypeString, Description: "Glob matched against file names."},
			{Name: "path", Type: tool.TypeString, Description: "Directory to search from.", Default: "."},
		},
		Func: tool.Typed(func(ctx context.Context, req FindFileRequest) (string, error) {
			resp, err := t.Run(ctx, &req)
			if err != nil {
				return "", err
			}
			return formatMatches(resp), nil
		}),
	}
}

func formatMatches(resp *FindFileResponse) string {
	if resp.Total == 0 {
		return fmt.Sprintf("No files matching '%s' found under %s", resp.Pattern, resp.Root)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d file(s) matching '%s':\n", resp.Total, resp.Pattern)
	for _, m := range resp.Matches {
		fmt.Fprintf(&b, "\n  %s", m)
	}
	if more := resp.Total - len(resp.Matches); more > 0 {
		fmt.Fprintf(&b, "\n  ... and %d more", more)
	}
	return b.String()
}
