package tokenstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/admin-copilot/copilot-go/internal/config"
	"github.com/admin-copilot/copilot-go/internal/tokens"
)

// Store wraps a TokenRepository with the validity check the rest of the
// client relies on. Reads always go to the repository so every caller sees
// the single source of truth after a refresh.
type Store struct {
	repo TokenRepository
}

type StoreOption func(*Store) error

func WithRepository(repo TokenRepository) StoreOption {
	return func(s *Store) error {
		s.repo = repo
		return nil
	}
}

// WithConfig selects the repository backend from the storage configuration.
func WithConfig(storageConfig config.StorageConfig, redisConfig config.RedisConfig) StoreOption {
	return func(s *Store) error {
		switch storageConfig.Type {
		case config.StorageTypeFile:
			s.repo = NewFileRepository(storageConfig.TokenFile)
			return nil
		case config.StorageTypeRedis:
			repo, err := NewRedisRepository(WithRedisConfig(redisConfig))
			if err != nil {
				return err
			}
			s.repo = repo
			return nil
		case config.StorageTypeMemory:
			s.repo = NewMemoryRepository()
			return nil
		default:
			return fmt.Errorf("unrecognized storage type %v", storageConfig.Type)
		}
	}
}

func NewStore(options ...StoreOption) (*Store, error) {
	store := &Store{}
	for _, opt := range options {
		if err := opt(store); err != nil {
			return nil, err
		}
	}
	if store.repo == nil {
		return nil, fmt.Errorf("token repository not initialized")
	}
	return store, nil
}

func (s *Store) GetAccessToken(ctx context.Context) (string, error) {
	return s.repo.GetAccessToken(ctx)
}

func (s *Store) GetRefreshToken(ctx context.Context) (string, error) {
	return s.repo.GetRefreshToken(ctx)
}

func (s *Store) SetTokens(ctx context.Context, accessToken string, refreshToken string) error {
	return s.repo.SetTokens(ctx, accessToken, refreshToken)
}

func (s *Store) ClearTokens(ctx context.Context) error {
	return s.repo.ClearTokens(ctx)
}

// HasValidTokens reports whether a usable token pair is stored. An expired
// access token does not invalidate the pair since it is recoverable via a
// refresh, but an expired refresh token clears the whole pair as a side
// effect.
func (s *Store) HasValidTokens(ctx context.Context) bool {
	accessToken, err := s.repo.GetAccessToken(ctx)
	if err != nil {
		slog.Error("TOKEN STORE", "message", "reading access token failed", "error", err)
		return false
	}
	refreshToken, err := s.repo.GetRefreshToken(ctx)
	if err != nil {
		slog.Error("TOKEN STORE", "message", "reading refresh token failed", "error", err)
		return false
	}
	if accessToken == "" || refreshToken == "" {
		return false
	}
	if tokens.IsExpired(refreshToken) {
		slog.Debug("TOKEN STORE", "message", "refresh token is expired, clearing tokens")
		if err := s.repo.ClearTokens(ctx); err != nil {
			slog.Error("TOKEN STORE", "message", "clearing tokens failed", "error", err)
		}
		return false
	}
	return true
}
