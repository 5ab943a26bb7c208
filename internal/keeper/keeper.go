// Package keeper keeps a live session's access token fresh. It runs a
// periodic job that refreshes the token before it expires so long-running
// commands never hit a 401 mid flight.
package keeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin-copilot/copilot-go/internal/config"
	"github.com/admin-copilot/copilot-go/internal/tokens"
	"github.com/go-co-op/gocron"
)

// TokenRefresher refreshes the stored token pair through the backend.
type TokenRefresher interface {
	RefreshTokens(ctx context.Context) error
}

// TokenReader reads the currently stored tokens.
type TokenReader interface {
	GetAccessToken(ctx context.Context) (string, error)
	GetRefreshToken(ctx context.Context) (string, error)
}

type Keeper struct {
	refresher TokenRefresher
	store     TokenReader
	interval  time.Duration
	margin    time.Duration
	scheduler *gocron.Scheduler
}

type KeeperOption func(*Keeper) error

func WithRefresher(refresher TokenRefresher) KeeperOption {
	return func(k *Keeper) error {
		k.refresher = refresher
		return nil
	}
}

func WithTokenReader(store TokenReader) KeeperOption {
	return func(k *Keeper) error {
		k.store = store
		return nil
	}
}

func WithConfig(keeperConfig config.KeeperConfig) KeeperOption {
	return func(k *Keeper) error {
		if err := keeperConfig.Validate(); err != nil {
			return err
		}
		k.interval = time.Duration(keeperConfig.IntervalMinutes) * time.Minute
		k.margin = time.Duration(keeperConfig.ExpiryMarginMinutes) * time.Minute
		return nil
	}
}

func NewKeeper(options ...KeeperOption) (*Keeper, error) {
	keeper := &Keeper{
		interval: 5 * time.Minute,
		margin:   10 * time.Minute,
	}
	for _, opt := range options {
		if err := opt(keeper); err != nil {
			return nil, err
		}
	}
	if keeper.refresher == nil {
		return nil, fmt.Errorf("the token refresher is not initialized")
	}
	if keeper.store == nil {
		return nil, fmt.Errorf("the token store is not initialized")
	}
	return keeper, nil
}

// Start schedules the periodic check. It returns after scheduling, the job
// runs asynchronously until Stop is called.
func (k *Keeper) Start(ctx context.Context) error {
	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(k.interval).Do(func() {
		if err := k.Tick(ctx); err != nil {
			slog.Error("SESSION KEEPER", "message", "refresh check failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	scheduler.StartAsync()
	k.scheduler = scheduler
	slog.Debug("SESSION KEEPER", "message", "started", "interval", k.interval, "margin", k.margin)
	return nil
}

func (k *Keeper) Stop() {
	if k.scheduler != nil {
		k.scheduler.Stop()
	}
}

// Tick runs one refresh check. The access token is refreshed when it expires
// within the configured margin. A missing or expired refresh token stops the
// keeper from calling out, the next interactive request reports the expiry.
func (k *Keeper) Tick(ctx context.Context) error {
	accessToken, err := k.store.GetAccessToken(ctx)
	if err != nil {
		return err
	}
	if accessToken == "" {
		return nil
	}
	remaining := tokens.TimeRemaining(accessToken)
	if remaining > k.margin {
		slog.Debug("SESSION KEEPER", "message", "access token still fresh", "remaining", remaining)
		return nil
	}
	refreshToken, err := k.store.GetRefreshToken(ctx)
	if err != nil {
		return err
	}
	if refreshToken == "" || tokens.IsExpired(refreshToken) {
		slog.Debug("SESSION KEEPER", "message", "refresh token missing or expired, skipping refresh")
		return nil
	}
	slog.Debug("SESSION KEEPER", "message", "refreshing access token", "remaining", remaining)
	return k.refresher.RefreshTokens(ctx)
}
