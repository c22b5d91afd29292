package path

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolver turns user-supplied paths into absolute paths. Relative paths
// are resolved against a base directory and a leading "~" against the
// home directory.
type Resolver struct {
	base string
	home string
}

// NewResolver creates a resolver for the given base directory. An empty
// base means the process working directory.
func NewResolver(base string) (*Resolver, error) {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &BaseDirError{Dir: base, Cause: err}
		}
		base = wd
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, &BaseDirError{Dir: base, Cause: err}
	}
	home, _ := os.UserHomeDir()
	return &Resolver{base: abs, home: home}, nil
}

// NewResolverWithHome creates a resolver with an explicit home directory.
func NewResolverWithHome(base, home string) *Resolver {
	return &Resolver{base: filepath.Clean(base), home: home}
}

// Base returns the directory relative paths are resolved against.
func (r *Resolver) Base() string {
	return r.base
}

// Abs resolves path to a clean absolute path. Symlinks are not followed.
func (r *Resolver) Abs(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrEmptyPath
	}
	if expanded, ok := expandHome(path, r.home); ok {
		path = expanded
	} else if isHomeRelative(path) {
		return "", ErrNoHomeDir
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Clean(filepath.Join(r.base, path)), nil
}

// Rel returns path relative to the base when it lies below it, or the
// absolute path otherwise.
func (r *Resolver) Rel(path string) string {
	abs, err := r.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(r.base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return filepath.ToSlash(rel)
}

// Normalize maps different spellings of the same path to one key using the
// process working directory and home directory.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	home, _ := os.UserHomeDir()
	if expanded, ok := expandHome(path, home); ok {
		path = expanded
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func isHomeRelative(path string) bool {
	return path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`)
}

func expandHome(path, home string) (string, bool) {
	if home == "" || !isHomeRelative(path) {
		return path, false
	}
	return filepath.Join(home, path[1:]), true
}
