package directory

import (
	"fmt"
	"path/filepath"
	"strings"
)

// -- List Directory --

type ListDirectoryRequest struct {
	Path string `json:"path"`
}

func (r *ListDirectoryRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		r.Path = "."
	}
	return nil
}

// DirectoryEntry is one line of a listing.
type DirectoryEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

type ListDirectoryResponse struct {
	AbsolutePath string
	Entries      []DirectoryEntry
}

// -- Find Files --

type FindFileRequest struct {
	Pattern string `json:"pattern"`
	Path    string `json:"path"`
}

func (r *FindFileRequest) Validate() error {
	if strings.TrimSpace(r.Pattern) == "" {
		return ErrPatternRequired
	}
	if _, err := filepath.Match(r.Pattern, ""); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidPattern, r.Pattern, err)
	}
	if strings.TrimSpace(r.Path) == "" {
		r.Path = "."
	}
	return nil
}

type FindFileResponse struct {
	Root    string
	Pattern string
	Matches []string
	Total   int
}
