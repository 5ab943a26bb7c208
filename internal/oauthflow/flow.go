// Package oauthflow starts and completes the oauth login round-trip with the
// external identity provider. The code exchange itself goes through the
// backend, the client never holds a provider secret.
package oauthflow

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/admin-copilot/copilot-go/internal/config"
	"github.com/admin-copilot/copilot-go/internal/cperrors"
	"github.com/admin-copilot/copilot-go/internal/models"
	"github.com/admin-copilot/copilot-go/internal/tokenstore"
	"golang.org/x/oauth2"
)

// Result says whether an inbound redirect URL carried a usable oauth
// callback. A URL without any oauth artifacts is NotHandled and never an
// error, the page may simply have been loaded without any oauth context.
type Result int

const (
	NotHandled Result = iota
	Handled
)

// CodeExchanger exchanges a returned authorization code for a token pair.
// Implemented by the api client.
type CodeExchanger interface {
	ExchangeGoogleCode(ctx context.Context, state string, code string) (models.AuthResponse, error)
}

type Flow struct {
	oauthConfig    config.OAuthConfig
	store          *tokenstore.Store
	exchanger      CodeExchanger
	states         StateRepository
	nonceGenerator models.IDGenerator
}

type FlowOption func(*Flow) error

func WithConfig(oauthConfig config.OAuthConfig) FlowOption {
	return func(f *Flow) error {
		f.oauthConfig = oauthConfig
		return nil
	}
}

func WithTokenStore(store *tokenstore.Store) FlowOption {
	return func(f *Flow) error {
		f.store = store
		return nil
	}
}

func WithExchanger(exchanger CodeExchanger) FlowOption {
	return func(f *Flow) error {
		f.exchanger = exchanger
		return nil
	}
}

func WithStateRepository(states StateRepository) FlowOption {
	return func(f *Flow) error {
		f.states = states
		return nil
	}
}

func NewFlow(options ...FlowOption) (*Flow, error) {
	// 32 random bytes, well above the 128 bit minimum for the state nonce
	flow := &Flow{states: NewMemoryStateRepository(), nonceGenerator: models.NewRandomGenerator(32)}
	for _, opt := range options {
		if err := opt(flow); err != nil {
			return nil, err
		}
	}
	if flow.store == nil {
		return nil, fmt.Errorf("the token store is not initialized")
	}
	if flow.exchanger == nil {
		return nil, fmt.Errorf("the code exchanger is not initialized")
	}
	if err := flow.oauthConfig.Validate(); err != nil {
		return nil, err
	}
	return flow, nil
}

// Begin generates and stores a fresh state nonce and returns the provider
// authorization URL to navigate to.
func (f *Flow) Begin() (string, error) {
	state, err := f.nonceGenerator.ID()
	if err != nil {
		return "", err
	}
	f.states.Set(state)
	oauthCfg := oauth2.Config{
		ClientID:    f.oauthConfig.ClientID,
		RedirectURL: f.oauthConfig.RedirectURI,
		Scopes:      f.oauthConfig.Scopes,
		Endpoint:    oauth2.Endpoint{AuthURL: f.oauthConfig.AuthURL.String()},
	}
	authURL := oauthCfg.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return authURL, nil
}

// CallbackAddr is the listen address for the loopback callback server.
func (f *Flow) CallbackAddr() string {
	return f.oauthConfig.CallbackAddr
}

// ClearState drops any unconsumed nonce, used on logout and after failures.
func (f *Flow) ClearState() {
	f.states.Clear()
}

// HandleRedirect inspects an inbound redirect URL for the two supported
// return formats, fragment-token delivery first, then code exchange. A
// returned error means a callback was recognized but completing it failed.
func (f *Flow) HandleRedirect(ctx context.Context, redirectURL *url.URL) (Result, error) {
	if redirectURL == nil {
		return NotHandled, nil
	}
	// format 1: the fragment carries the token pair directly
	fragment, err := url.ParseQuery(redirectURL.Fragment)
	if err == nil {
		accessToken := fragment.Get("access")
		refreshToken := fragment.Get("refresh")
		if accessToken != "" && refreshToken != "" {
			slog.Debug("OAUTH FLOW", "message", "found token pair in the redirect fragment")
			if err := f.store.SetTokens(ctx, accessToken, refreshToken); err != nil {
				f.states.Clear()
				return NotHandled, err
			}
			f.states.Clear()
			return Handled, nil
		}
	}
	// format 2: code exchange through the backend
	query := redirectURL.Query()
	state := query.Get("state")
	code := query.Get("code")
	if state == "" || code == "" {
		return NotHandled, nil
	}
	storedState := f.states.Get()
	if storedState == "" || storedState != state {
		slog.Debug("OAUTH FLOW", "message", "ignoring callback", "error", cperrors.ErrStateMismatch)
		f.states.Clear()
		return NotHandled, nil
	}
	response, err := f.exchanger.ExchangeGoogleCode(ctx, state, code)
	if err != nil {
		f.states.Clear()
		return NotHandled, err
	}
	if response.TokenPair().Empty() {
		f.states.Clear()
		return NotHandled, nil
	}
	if err := f.store.SetTokens(ctx, response.Access, response.Refresh); err != nil {
		f.states.Clear()
		return NotHandled, err
	}
	f.states.Clear()
	return Handled, nil
}

// CleanURL strips oauth artifacts (the fragment and the state and code query
// parameters) from a redirect URL without touching anything else.
func CleanURL(redirectURL *url.URL) *url.URL {
	if redirectURL == nil {
		return nil
	}
	cleaned := *redirectURL
	cleaned.Fragment = ""
	cleaned.RawFragment = ""
	query := cleaned.Query()
	query.Del("state")
	query.Del("code")
	cleaned.RawQuery = query.Encode()
	return &cleaned
}
