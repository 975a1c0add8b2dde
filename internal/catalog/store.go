// Package catalog holds the in-memory bill catalogue.
//
// The catalogue is a versioned snapshot replaced wholesale on upload; the
// expansion engine only ever sees an immutable snapshot, so queries need no
// coordination with concurrent replacements.
package catalog

import (
	"os"
	"sync"

	"github.com/Karlitosc01/Budget-Analysis/internal/core"
	"github.com/Karlitosc01/Budget-Analysis/internal/upload"
)

// Snapshot is one immutable generation of the catalogue. Callers must not
// mutate Bills.
type Snapshot struct {
	Bills   []core.Bill
	Version int64
}

type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func New() *Store {
	return &Store{}
}

// NewFromFile seeds a store from a JSON or CSV bill file. A missing or
// unreadable file yields an empty store.
func NewFromFile(path string) *Store {
	s := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	bills, err := upload.ParseFile(path, data)
	if err != nil {
		return s
	}
	s.Replace(bills, 1)
	return s
}

// Replace swaps the whole catalogue in a single assignment. A version of
// zero or less bumps the previous version instead.
func (s *Store) Replace(bills []core.Bill, version int64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version <= 0 {
		version = s.snap.Version + 1
	}
	copied := make([]core.Bill, len(bills))
	copy(copied, bills)
	s.snap = Snapshot{Bills: copied, Version: version}
	return s.snap
}

// Current returns the snapshot visible at call time.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Len returns the number of bills in the current snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snap.Bills)
}
