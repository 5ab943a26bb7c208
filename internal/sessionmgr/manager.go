// Package sessionmgr orchestrates application-level auth state: bootstrap at
// startup, login, signup, logout and profile refresh. It is the only layer
// allowed to turn an error into a global session-clearing side effect.
package sessionmgr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/admin-copilot/copilot-go/internal/apiclient"
	"github.com/admin-copilot/copilot-go/internal/cperrors"
	"github.com/admin-copilot/copilot-go/internal/models"
	"github.com/admin-copilot/copilot-go/internal/oauthflow"
	"github.com/admin-copilot/copilot-go/internal/tokens"
	"github.com/admin-copilot/copilot-go/internal/tokenstore"
)

type State string

const (
	Uninitialized   State = "uninitialized"
	Loading         State = "loading"
	Authenticated   State = "authenticated"
	Unauthenticated State = "unauthenticated"
)

// NoticeFunc receives user-facing notices like "session expired".
type NoticeFunc func(message string)

type Manager struct {
	client *apiclient.Client
	store  *tokenstore.Store
	flow   *oauthflow.Flow
	notify NoticeFunc

	mu      sync.Mutex
	state   State
	user    *models.User
	profile *models.UserProfile
}

type ManagerOption func(*Manager) error

func WithClient(client *apiclient.Client) ManagerOption {
	return func(m *Manager) error {
		m.client = client
		return nil
	}
}

func WithTokenStore(store *tokenstore.Store) ManagerOption {
	return func(m *Manager) error {
		m.store = store
		return nil
	}
}

func WithFlow(flow *oauthflow.Flow) ManagerOption {
	return func(m *Manager) error {
		m.flow = flow
		return nil
	}
}

func WithNotifier(notify NoticeFunc) ManagerOption {
	return func(m *Manager) error {
		m.notify = notify
		return nil
	}
}

func NewManager(options ...ManagerOption) (*Manager, error) {
	manager := &Manager{state: Uninitialized, notify: func(string) {}}
	for _, opt := range options {
		if err := opt(manager); err != nil {
			return nil, err
		}
	}
	if manager.client == nil {
		return nil, fmt.Errorf("the api client is not initialized")
	}
	if manager.store == nil {
		return nil, fmt.Errorf("the token store is not initialized")
	}
	if manager.flow == nil {
		return nil, fmt.Errorf("the oauth flow is not initialized")
	}
	return manager, nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *Manager) Profile() *models.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// IsAuthenticated is true iff a user and profile are set and the token store
// still reports a usable pair.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	m.mu.Lock()
	hasIdentity := m.user != nil && m.profile != nil
	m.mu.Unlock()
	return hasIdentity && m.store.HasValidTokens(ctx)
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

func (m *Manager) setIdentity(user *models.User, profile *models.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.profile = profile
}

// Bootstrap initializes the session once at startup. It never leaves the
// manager in the Loading state: every path ends in Authenticated or
// Unauthenticated.
func (m *Manager) Bootstrap(ctx context.Context, redirectURL *url.URL) error {
	m.setState(Loading)
	// the oauth redirect handler runs ahead of normal session initialization
	// and can short-circuit it
	result, err := m.flow.HandleRedirect(ctx, redirectURL)
	if err != nil {
		slog.Debug("SESSION MANAGER", "message", "oauth callback handling failed", "error", err)
	}
	if result == oauthflow.Handled {
		// log the stripped URL only, the raw one may carry tokens in its fragment
		slog.Debug("SESSION MANAGER", "message", "oauth callback consumed", "url", oauthflow.CleanURL(redirectURL))
		if err := m.RefreshProfile(ctx); err != nil {
			m.clearSession(ctx)
			m.setState(Unauthenticated)
			return err
		}
		m.flow.ClearState()
		m.setState(Authenticated)
		return nil
	}

	accessToken, err := m.store.GetAccessToken(ctx)
	if err != nil {
		m.clearSession(ctx)
		m.setState(Unauthenticated)
		return err
	}
	refreshToken, err := m.store.GetRefreshToken(ctx)
	if err != nil {
		m.clearSession(ctx)
		m.setState(Unauthenticated)
		return err
	}
	if accessToken == "" || refreshToken == "" {
		slog.Debug("SESSION MANAGER", "message", "no stored tokens, login required")
		m.setState(Unauthenticated)
		return nil
	}
	if tokens.IsExpired(refreshToken) {
		slog.Debug("SESSION MANAGER", "message", "stored refresh token is expired, clearing tokens")
		if err := m.store.ClearTokens(ctx); err != nil {
			slog.Error("SESSION MANAGER", "message", "clearing tokens failed", "error", err)
		}
		m.setState(Unauthenticated)
		return nil
	}
	if tokens.IsExpired(accessToken) {
		slog.Debug("SESSION MANAGER", "message", "stored access token is expired, attempting refresh")
		if err := m.client.RefreshTokens(ctx); err != nil {
			if clearErr := m.store.ClearTokens(ctx); clearErr != nil {
				slog.Error("SESSION MANAGER", "message", "clearing tokens failed", "error", clearErr)
			}
			m.setState(Unauthenticated)
			return nil
		}
	}
	if err := m.RefreshProfile(ctx); err != nil {
		m.clearSession(ctx)
		m.setState(Unauthenticated)
		return err
	}
	m.setState(Authenticated)
	return nil
}

// Login authenticates with email and password and establishes a session.
func (m *Manager) Login(ctx context.Context, email string, password string) error {
	response, err := m.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if response.TokenPair().Empty() {
		return models.NewAPIError(cperrors.ErrMissingTokens.Error())
	}
	if err := m.store.SetTokens(ctx, response.Access, response.Refresh); err != nil {
		return err
	}
	if response.User != nil {
		// optimistic, the profile refresh below is authoritative
		m.setIdentity(response.User, m.Profile())
	}
	if err := m.RefreshProfile(ctx); err != nil {
		return err
	}
	m.setState(Authenticated)
	return nil
}

// Signup passes through to the backend. It does not establish a session, the
// backend issues a verification step out of band.
func (m *Manager) Signup(ctx context.Context, signup apiclient.SignupRequest) error {
	_, err := m.client.Signup(ctx, signup)
	return err
}

// Logout clears every piece of session state. It performs no network call
// and cannot fail.
func (m *Manager) Logout(ctx context.Context) {
	slog.Debug("SESSION MANAGER", "message", "logging out")
	if err := m.store.ClearTokens(ctx); err != nil {
		slog.Error("SESSION MANAGER", "message", "clearing tokens failed", "error", err)
	}
	m.flow.ClearState()
	m.setIdentity(nil, nil)
	m.setState(Unauthenticated)
}

func (m *Manager) clearSession(ctx context.Context) {
	if err := m.store.ClearTokens(ctx); err != nil {
		slog.Error("SESSION MANAGER", "message", "clearing tokens failed", "error", err)
	}
	m.flow.ClearState()
	m.setIdentity(nil, nil)
}

// isAuthFailure says whether a profile fetch failed for an authentication
// reason rather than a transient one.
func isAuthFailure(err error) bool {
	apiErr, ok := err.(*models.APIError)
	if ok && apiErr.Status == http.StatusUnauthorized {
		return true
	}
	message := err.Error()
	for _, phrase := range []string{"token", "401", "Unauthorized", "Session expired", "session expired"} {
		if strings.Contains(message, phrase) {
			return true
		}
	}
	return false
}

// RefreshProfile fetches the profile and replaces the locally held copy
// wholesale. The backend may answer with a bare profile object or a paginated
// envelope whose first result is the profile, both shapes are accepted - the
// envelope handling is a compatibility shim, the bare object is canonical.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	raw, err := m.client.GetProfile(ctx)
	if err != nil {
		if isAuthFailure(err) {
			slog.Debug("SESSION MANAGER", "message", "authentication failure during profile refresh", "error", err)
			m.clearSession(ctx)
			m.setState(Unauthenticated)
			m.notify("Your session has expired. Please log in again.")
		}
		return err
	}
	profile, err := normalizeProfile(raw)
	if err != nil {
		return err
	}
	m.setIdentity(&profile.User, profile)
	return nil
}

func normalizeProfile(raw json.RawMessage) (*models.UserProfile, error) {
	var envelope models.Paginated[models.UserProfile]
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Results) > 0 {
		return &envelope.Results[0], nil
	}
	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err == nil && profile.User.ID != 0 {
		return &profile, nil
	}
	return nil, models.NewAPIError(cperrors.ErrInvalidProfileData.Error())
}
