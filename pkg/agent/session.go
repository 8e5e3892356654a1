package agent

import "sync"

// Sessions keeps per-user conversation history in memory. History is
// append-only and unbounded; long-lived deployments should front this
// with their own retention policy. Concurrent turns for the same user
// are last-write-wins.
type Sessions struct {
	mu   sync.RWMutex
	byID map[string][]Message
}

// NewSessions creates an empty session store.
func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string][]Message)}
}

// History returns a copy of the session's messages. Unknown sessions
// return an empty history.
func (s *Sessions) History(sessionID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.byID[sessionID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds messages to the session, creating it if needed.
func (s *Sessions) Append(sessionID string, msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sessionID] = append(s.byID[sessionID], msgs...)
}

// Reset discards the session's history.
func (s *Sessions) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, sessionID)
}
