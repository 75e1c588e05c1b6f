package services

import "sync"

// docLocks serializes reconciliation per document. Two reconciliations of the
// same document both read-then-write the full sentence set, so they must not
// interleave; different documents proceed in parallel.
//
// Entries are never removed: one idle mutex per document seen by this process
// is an acceptable ceiling.
type docLocks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func newDocLocks() *docLocks {
	return &docLocks{m: make(map[int64]*sync.Mutex)}
}

// lock acquires the document's mutex and returns the unlock function.
func (l *docLocks) lock(documentID int64) func() {
	l.mu.Lock()
	m, ok := l.m[documentID]
	if !ok {
		m = &sync.Mutex{}
		l.m[documentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
