package audit

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"
)

// FileSink appends one line per entry to a text file.
type FileSink struct {
	mu   sync.Mutex
	path string
	loc  *time.Location
}

// NewFileSink creates the parent directory of path if needed.
func NewFileSink(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("audit: create log dir: %w", err)
	}
	return &FileSink{path: path, loc: time.Local}, nil
}

func (s *FileSink) Write(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("audit: open %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, e.In(s.loc).String()); err != nil {
		return fmt.Errorf("audit: write %s: %w", s.path, err)
	}
	return nil
}

// History reads the whole file. Lines that do not parse are returned with
// only Detail set so nothing in the file is hidden.
func (s *FileSink) History(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", s.path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		e, err := ParseLine(line, s.loc)
		if err != nil {
			e = Entry{Detail: line}
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: read %s: %w", s.path, err)
	}

	slices.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Clear truncates the file.
func (s *FileSink) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Truncate(s.path, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("audit: truncate %s: %w", s.path, err)
	}
	return nil
}

func (s *FileSink) Close(context.Context) error { return nil }

// In returns e with its time converted to loc.
func (e Entry) In(loc *time.Location) Entry {
	e.Time = e.Time.In(loc)
	return e
}
