// Package inmem provides an in-memory implementation of findinglog.Store.
//
// The in-memory store is intended for tests and local development. It is not
// durable and should not be used in production.
package inmem

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/venikman/acp-sentinel/sentinel/findinglog"
)

type (
	// Store implements findinglog.Store in memory.
	Store struct {
		mu sync.Mutex
		// per-run monotonically increasing sequence.
		nextSeq map[string]int64
		// per-run ordered records.
		records map[string][]*findinglog.Record
	}
)

// New returns a new in-memory finding log store.
func New() *Store {
	return &Store{
		nextSeq: make(map[string]int64),
		records: make(map[string][]*findinglog.Record),
	}
}

// Append implements findinglog.Store.
func (s *Store) Append(_ context.Context, r *findinglog.Record) error {
	if r == nil {
		return fmt.Errorf("record is required")
	}
	if r.RunID == "" {
		return fmt.Errorf("run_id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.nextSeq[r.RunID] + 1
	s.nextSeq[r.RunID] = seq

	r.ID = strconv.FormatInt(seq, 10)
	rec := *r
	s.records[r.RunID] = append(s.records[r.RunID], &rec)
	return nil
}

// List implements findinglog.Store.
func (s *Store) List(_ context.Context, runID string, cursor string, limit int) (findinglog.Page, error) {
	if runID == "" {
		return findinglog.Page{}, fmt.Errorf("run_id is required")
	}
	if limit <= 0 {
		return findinglog.Page{}, fmt.Errorf("limit must be > 0")
	}

	var after int64
	if cursor != "" {
		id, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return findinglog.Page{}, fmt.Errorf("invalid cursor %q: %w", cursor, err)
		}
		after = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.records[runID]
	if len(all) == 0 {
		return findinglog.Page{}, nil
	}

	start := 0
	if after > 0 {
		// IDs are 1-based sequence numbers, so start at index == after.
		start = int(after)
		if start >= len(all) {
			return findinglog.Page{}, nil
		}
	}

	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	records := append([]*findinglog.Record(nil), all[start:end]...)
	var next string
	if end < len(all) {
		next = records[len(records)-1].ID
	}

	return findinglog.Page{
		Records:    records,
		NextCursor: next,
	}, nil
}
