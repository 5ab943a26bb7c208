package oauthflow

import "sync"

// StateRepository holds the one-time oauth state nonce. At most one unconsumed
// nonce exists at a time, it is cleared after use or on failure and never
// reused.
type StateRepository interface {
	Get() string
	Set(state string)
	Clear()
}

// MemoryStateRepository is the ephemeral, process-scoped nonce store.
type MemoryStateRepository struct {
	mu    sync.Mutex
	state string
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{}
}

func (m *MemoryStateRepository) Get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MemoryStateRepository) Set(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

func (m *MemoryStateRepository) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = ""
}
