// Package memory keeps per-specialist correction notes that are replayed
// into every system prompt of that specialist.
package memory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrEmptyFeedback = errors.New("feedback text is empty")
	ErrInvalidAgent  = errors.New("invalid specialist name")
)

const (
	timestampLayout   = "2006-01-02 15:04 UTC"
	feedbackExtension = ".md"
)

var validSpecialist = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store reads and appends feedback files under one directory, one
// <specialist>.md file each.
type Store struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the feedback directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the feedback file of a specialist.
func (s *Store) Path(specialist string) string {
	return filepath.Join(s.dir, specialist+feedbackExtension)
}

// Read returns the feedback of a specialist, or "" when there is none.
func (s *Store) Read(specialist string) (string, error) {
	if !validSpecialist.MatchString(specialist) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAgent, specialist)
	}
	data, err := os.ReadFile(s.Path(specialist))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read feedback for %s: %w", specialist, err)
	}
	return string(data), nil
}

// Add appends a timestamped entry. Newlines in text are folded so that
// one correction stays one line.
func (s *Store) Add(specialist, text string) error {
	if !validSpecialist.MatchString(specialist) {
		return fmt.Errorf("%w: %q", ErrInvalidAgent, specialist)
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ErrEmptyFeedback
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create feedback dir: %w", err)
	}
	f, err := os.OpenFile(s.Path(specialist), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open feedback for %s: %w", specialist, err)
	}
	defer f.Close()

	entry := fmt.Sprintf("- [%s] %s\n", s.now().UTC().Format(timestampLayout), text)
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to write feedback for %s: %w", specialist, err)
	}
	return nil
}

// Clear removes all feedback of a specialist.
func (s *Store) Clear(specialist string) error {
	if !validSpecialist.MatchString(specialist) {
		return fmt.Errorf("%w: %q", ErrInvalidAgent, specialist)
	}
	err := os.Remove(s.Path(specialist))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the specialists that have feedback, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != feedbackExtension {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), feedbackExtension))
	}
	sort.Strings(names)
	return names, nil
}
