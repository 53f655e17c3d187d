package otp

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps pending codes for the life of the process. It is not
// shared between instances.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: make(map[string]string)}
}

func (s *MemoryStore) Put(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Callers may hand in strings that alias request buffers.
	s.codes[strings.Clone(phone)] = strings.Clone(code)
	return nil
}

func (s *MemoryStore) Matches(_ context.Context, phone, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.codes[phone]
	return ok && pending == code, nil
}

func (s *MemoryStore) Consume(_ context.Context, phone, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.codes[phone]
	if !ok || pending != code {
		return false, nil
	}
	delete(s.codes, phone)
	return true, nil
}

// Pending returns the outstanding code for phone, if any.
func (s *MemoryStore) Pending(phone string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[phone]
	return code, ok
}
