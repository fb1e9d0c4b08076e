package database

import "sync"

// MemoryStore keeps pending confirmations in process memory. Requests are
// lost on restart; use BoltStore when durability matters.
type MemoryStore struct {
	mu      sync.Mutex
	pending map[string]PendingConfirmation
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[string]PendingConfirmation)}
}

// Add stores a new pending confirmation, rejecting a second record for the
// same message.
func (s *MemoryStore) Add(pc PendingConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[pc.MessageID]; ok {
		return ErrDuplicateConfirmation
	}
	pc.RequiredUserIDs = append([]string(nil), pc.RequiredUserIDs...)
	s.pending[pc.MessageID] = pc
	return nil
}

// Remove deletes the confirmation for a message. No-op if absent.
func (s *MemoryStore) Remove(messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, messageID)
	return nil
}

// ListPending returns a snapshot; later mutation of the store does not
// affect the returned slice.
func (s *MemoryStore) ListPending() ([]PendingConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PendingConfirmation, 0, len(s.pending))
	for _, pc := range s.pending {
		pc.RequiredUserIDs = append([]string(nil), pc.RequiredUserIDs...)
		out = append(out, pc)
	}
	return out, nil
}
