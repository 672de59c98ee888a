package history

import (
	"context"
	"sort"
	"strings"
	"sync"

	mdwerror "github.com/msto63/transync/foundation/core/error"
)

// MemoryStore is an in-memory Store, used when history is disabled and in
// tests
type MemoryStore struct {
	mu   sync.RWMutex
	runs []*Run
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make([]*Run, 0)}
}

// Record stores a copy of run
func (s *MemoryStore) Record(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(run)
	stored := *run
	stored.Findings = append([]Finding(nil), run.Findings...)
	s.runs = append(s.runs, &stored)
	return nil
}

// newest returns the runs newest first; equal timestamps keep the later
// recorded run first
func (s *MemoryStore) newest() []*Run {
	out := make([]*Run, len(s.runs))
	for i, r := range s.runs {
		out[len(s.runs)-1-i] = r
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// List retrieves runs based on filter criteria
func (s *MemoryStore) List(ctx context.Context, filter RunFilter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*Run
	for _, run := range s.newest() {
		if filter.Kind != "" && run.Kind != filter.Kind {
			continue
		}
		if filter.File != "" && run.File != filter.File {
			continue
		}
		if !filter.Since.IsZero() && run.StartedAt.Before(filter.Since) {
			continue
		}
		summary := *run
		summary.Findings = nil
		results = append(results, &summary)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(results) {
			return nil, nil
		}
		results = results[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(results) {
		results = results[:filter.Limit]
	}
	return results, nil
}

// Get retrieves a run by ID or unique ID prefix
func (s *MemoryStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var match *Run
	for _, run := range s.runs {
		if run.ID == id {
			match = run
			break
		}
	}
	if match == nil && id != "" {
		for _, run := range s.runs {
			if !strings.HasPrefix(run.ID, id) {
				continue
			}
			if match != nil {
				return nil, mdwerror.Newf("run id prefix %q is ambiguous", id).
					WithCode(mdwerror.CodeInvalidInput).
					WithOperation("history.Get")
			}
			match = run
		}
	}
	if match == nil {
		return nil, notFound(id)
	}
	out := *match
	out.Findings = append([]Finding(nil), match.Findings...)
	return &out, nil
}

// Prune keeps the newest keep runs
func (s *MemoryStore) Prune(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	newest := s.newest()
	if len(newest) <= keep {
		return 0, nil
	}
	kept := make(map[*Run]bool, keep)
	for _, r := range newest[:keep] {
		kept[r] = true
	}
	remaining := s.runs[:0]
	for _, r := range s.runs {
		if kept[r] {
			remaining = append(remaining, r)
		}
	}
	removed := int64(len(s.runs) - len(remaining))
	s.runs = remaining
	return removed, nil
}

// Stats returns run counts per kind
func (s *MemoryStore) Stats(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int)
	for _, r := range s.runs {
		stats[r.Kind]++
	}
	return stats, nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
