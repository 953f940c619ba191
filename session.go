package main

import "sync"

// SessionStore tracks the most recently observed Claude session ID so that
// follow-up calls can continue the same conversation via --resume.
//
// The store is an injectable interface rather than a bare package variable
// so that handlers can be tested against an isolated instance. The process
// still carries exactly one shared store (see sessions below); when calls
// overlap, the last process to exit wins, which is acceptable for a single
// scalar value.
type SessionStore interface {
	// Get returns the tracked session ID, if any
	Get() (string, bool)
	// Update records a newly observed session ID (last write wins)
	Update(id string)
	// Clear forgets the tracked session ID
	Clear()
}

type memorySessionStore struct {
	mu sync.RWMutex
	id string
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{}
}

func (s *memorySessionStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id, s.id != ""
}

func (s *memorySessionStore) Update(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}

func (s *memorySessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
}

// Global session store instance, one per server process
var sessions SessionStore = newMemorySessionStore()
