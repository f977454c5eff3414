// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists per-paper extraction outcomes for a project.
// The ledger is the durable source of truth across process restarts: a
// batch interrupted mid-run resumes from whatever it recorded last. Writes
// replace the whole file atomically so a crash never corrupts it.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/pdiddy/papervisor/pkg/types"
)

// WriteError is a durable-storage failure. Unlike per-document errors it
// escalates: the batch runner aborts when the ledger cannot be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing status ledger %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Ledger is a durable map from paper identifier to StatusEntry, backed by
// one JSON file per project. The batch runner is the single writer during
// a run; concurrent readers (progress and status display) are safe.
type Ledger struct {
	path string

	mu      sync.RWMutex
	entries map[string]types.StatusEntry
}

// Open loads the ledger at path, or starts an empty one if the file does
// not exist yet.
func Open(path string) (*Ledger, error) {
	l := &Ledger{path: path, entries: make(map[string]types.StatusEntry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("reading status ledger %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &l.entries); err != nil {
		return nil, fmt.Errorf("parsing status ledger %s: %w", path, err)
	}
	return l, nil
}

// Get returns the entry for a paper and whether one exists.
func (l *Ledger) Get(id string) (types.StatusEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[id]
	return e, ok
}

// Set records the outcome for a paper, overwriting any prior entry, and
// persists the ledger.
func (l *Ledger) Set(id string, entry types.StatusEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[id] = entry
	return l.persist()
}

// Clear removes one paper's entry so the next batch treats it as
// unprocessed. Clearing an absent entry is a no-op.
func (l *Ledger) Clear(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[id]; !ok {
		return nil
	}
	delete(l.entries, id)
	return l.persist()
}

// ClearAll removes every entry, the substrate of retry-all semantics.
// Existing record files are untouched: a prior successful extraction stays
// valid on disk until a new pass overwrites it.
func (l *Ledger) ClearAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]types.StatusEntry)
	return l.persist()
}

// List returns a copy of all entries keyed by paper identifier.
func (l *Ledger) List() map[string]types.StatusEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]types.StatusEntry, len(l.entries))
	for id, e := range l.entries {
		out[id] = e
	}
	return out
}

// IDs returns the recorded paper identifiers in sorted order.
func (l *Ledger) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.entries))
	for id := range l.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// persist rewrites the backing file atomically. Callers hold l.mu.
func (l *Ledger) persist() error {
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return &WriteError{Path: l.path, Err: err}
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &WriteError{Path: l.path, Err: err}
	}
	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return &WriteError{Path: l.path, Err: err}
	}
	return nil
}
