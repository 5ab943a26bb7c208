// Package tokenstore persists the bearer token pair the client authenticates
// with. Storage backends are interchangeable: a JSON file for single-user
// installs, Redis for shared or headless deployments and an in-memory map
// for tests.
package tokenstore

import (
	"context"
	"sync"
)

// TokenRepository is the durable key-value surface tokens live in. A missing
// token is reported as an empty string, not an error.
type TokenRepository interface {
	GetAccessToken(ctx context.Context) (string, error)
	GetRefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, accessToken string, refreshToken string) error
	ClearTokens(ctx context.Context) error
}

// MemoryRepository keeps the token pair in process memory.
type MemoryRepository struct {
	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) GetAccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken, nil
}

func (m *MemoryRepository) GetRefreshToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshToken, nil
}

func (m *MemoryRepository) SetTokens(ctx context.Context, accessToken string, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = accessToken
	m.refreshToken = refreshToken
	return nil
}

func (m *MemoryRepository) ClearTokens(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = ""
	m.refreshToken = ""
	return nil
}
