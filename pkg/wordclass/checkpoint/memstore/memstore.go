// Package memstore is an in-memory checkpoint.Store, grounded on the
// teacher's store/memstore, used by tests and by --checkpoint-less
// callers that still want the Store interface uniformly.
package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/wordclass/pkg/wordclass/checkpoint"
	"github.com/cognicore/wordclass/pkg/wordclass/classes"
	"github.com/cognicore/wordclass/pkg/wordclass/vocab"
)

// Store is an in-memory implementation of checkpoint.Store.
type Store struct {
	mu          sync.RWMutex
	runs        map[string]checkpoint.RunMetadata
	assignments map[string]map[string]int // runID -> surface token -> class
	latestByCorpus map[string]string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		runs:           make(map[string]checkpoint.RunMetadata),
		assignments:    make(map[string]map[string]int),
		latestByCorpus: make(map[string]string),
	}
}

// Close implements checkpoint.Store.
func (s *Store) Close() error { return nil }

// SaveRun implements checkpoint.Store.
func (s *Store) SaveRun(ctx context.Context, meta checkpoint.RunMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[meta.RunID] = meta
	s.latestByCorpus[meta.CorpusPath] = meta.RunID
	return nil
}

// SaveAssignment implements checkpoint.Store.
func (s *Store) SaveAssignment(ctx context.Context, runID string, v *vocab.Vocabulary, asg *classes.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[string]int, v.Size())
	for id := 0; id < v.Size(); id++ {
		snap[v.Word(id)] = asg.Class(id)
	}
	s.assignments[runID] = snap
	return nil
}

// LoadAssignment implements checkpoint.Store.
func (s *Store) LoadAssignment(ctx context.Context, runID string, v *vocab.Vocabulary, asg *classes.Assignment) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.assignments[runID]
	if !ok {
		return nil
	}
	for tok, class := range snap {
		if id, ok := v.ID(tok); ok {
			asg.Move(id, class)
		}
	}
	return nil
}

// LatestRun implements checkpoint.Store.
func (s *Store) LatestRun(ctx context.Context, corpusPath string) (checkpoint.RunMetadata, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runID, ok := s.latestByCorpus[corpusPath]
	if !ok {
		return checkpoint.RunMetadata{}, false, nil
	}
	meta, ok := s.runs[runID]
	return meta, ok, nil
}
