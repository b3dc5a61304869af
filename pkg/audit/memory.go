package audit

import (
	"context"
	"slices"
	"sync"
)

// MemorySink keeps entries in process memory.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Write(_ context.Context, e Entry) error {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return nil
}

func (s *MemorySink) History(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	out := slices.Clone(s.entries)
	s.mu.Unlock()

	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Entry{}
	}
	return out, nil
}

func (s *MemorySink) Clear(context.Context) error {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
	return nil
}

func (s *MemorySink) Close(context.Context) error { return nil }

// Discard drops every entry.
type Discard struct{}

func (Discard) Write(context.Context, Entry) error { return nil }
func (Discard) History(context.Context, int) ([]Entry, error) { return []Entry{}, nil }
func (Discard) Clear(context.Context) error { return nil }
func (Discard) Close(context.Context) error { return nil }
