package oauthflow

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/admin-copilot/copilot-go/internal/config"
	"github.com/admin-copilot/copilot-go/internal/models"
	"github.com/admin-copilot/copilot-go/internal/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type mockExchanger struct {
	calls    int
	response models.AuthResponse
	err      error
}

func (m *mockExchanger) ExchangeGoogleCode(ctx context.Context, state string, code string) (models.AuthResponse, error) {
	m.calls++
	return m.response, m.err
}

func testOAuthConfig(t *testing.T) config.OAuthConfig {
	t.Helper()
	authURL, err := url.Parse("https://accounts.google.com/o/oauth2/v2/auth")
	require.NoError(t, err)
	return config.OAuthConfig{
		AuthURL:      authURL,
		ClientID:     "test-client-id",
		RedirectURI:  "http://127.0.0.1:8631/callback",
		Scopes:       []string{"openid", "email", "profile"},
		CallbackAddr: "127.0.0.1:8631",
	}
}

func newTestFlow(t *testing.T, exchanger *mockExchanger) (*Flow, *tokenstore.Store) {
	t.Helper()
	store, err := tokenstore.NewStore(tokenstore.WithRepository(tokenstore.NewMemoryRepository()))
	require.NoError(t, err)
	flow, err := NewFlow(
		WithConfig(testOAuthConfig(t)),
		WithTokenStore(store),
		WithExchanger(exchanger),
	)
	require.NoError(t, err)
	return flow, store
}

func TestBegin(t *testing.T) {
	flow, _ := newTestFlow(t, &mockExchanger{})

	authURL, err := flow.Begin()
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "test-client-id", query.Get("client_id"))
	assert.Equal(t, "http://127.0.0.1:8631/callback", query.Get("redirect_uri"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "openid email profile", query.Get("scope"))
	// the nonce is stored and embedded as the state parameter
	state := query.Get("state")
	assert.Len(t, state, 64)
	assert.Equal(t, state, flow.states.Get())
}

func TestBeginReplacesPreviousNonce(t *testing.T) {
	flow, _ := newTestFlow(t, &mockExchanger{})

	firstURL, err := flow.Begin()
	require.NoError(t, err)
	secondURL, err := flow.Begin()
	require.NoError(t, err)

	assert.NotEqual(t, firstURL, secondURL)
	second, err := url.Parse(secondURL)
	require.NoError(t, err)
	assert.Equal(t, second.Query().Get("state"), flow.states.Get())
}

func TestHandleRedirectFragmentTokens(t *testing.T) {
	exchanger := &mockExchanger{}
	flow, store := newTestFlow(t, exchanger)
	redirectURL, err := url.Parse("http://127.0.0.1:8631/callback#access=A&refresh=R")
	require.NoError(t, err)

	result, err := flow.HandleRedirect(ctx, redirectURL)
	require.NoError(t, err)

	assert.Equal(t, Handled, result)
	assert.Equal(t, 0, exchanger.calls)
	accessToken, err := store.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", accessToken)
	refreshToken, err := store.GetRefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "R", refreshToken)
}

func TestHandleRedirectFragmentMissingParameter(t *testing.T) {
	flow, store := newTestFlow(t, &mockExchanger{})
	redirectURL, err := url.Parse("http://127.0.0.1:8631/callback#access=A")
	require.NoError(t, err)

	result, err := flow.HandleRedirect(ctx, redirectURL)
	require.NoError(t, err)

	assert.Equal(t, NotHandled, result)
	accessToken, err := store.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, accessToken)
}

func TestHandleRedirectCodeExchange(t *testing.T) {
	exchanger := &mockExchanger{response: models.AuthResponse{Access: "a1", Refresh: "r1"}}
	flow, store := newTestFlow(t, exchanger)
	flow.states.Set("expected-state")
	redirectURL, err := url.Parse("http://127.0.0.1:8631/callback?state=expected-state&code=auth-code")
	require.NoError(t, err)

	result, err := flow.HandleRedirect(ctx, redirectURL)
	require.NoError(t, err)

	assert.Equal(t, Handled, result)
	assert.Equal(t, 1, exchanger.calls)
	accessToken, err := store.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", accessToken)
	// the nonce is consumed
	assert.Empty(t, flow.states.Get())
}

func TestHandleRedirectStateMismatch(t *testing.T) {
	exchanger := &mockExchanger{response: models.AuthResponse{Access: "a1", Refresh: "r1"}}
	flow, store := newTestFlow(t, exchanger)
	flow.states.Set("stored-state")
	redirectURL, err := url.Parse("http://127.0.0.1:8631/callback?state=other-state&code=auth-code")
	require.NoError(t, err)

	result, err := flow.HandleRedirect(ctx, redirectURL)
	require.NoError(t, err)

	assert.Equal(t, NotHandled, result)
	// no exchange is attempted and the stale nonce is cleared
	assert.Equal(t, 0, exchanger.calls)
	assert.Empty(t, flow.states.Get())
	accessToken, err := store.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, accessToken)
}

func TestHandleRedirectMissingNonce(t *testing.T) {
	exchanger := &mockExchanger{}
	flow, _ := newTestFlow(t, exchanger)
	redirectURL, err := url.Parse("http://127.0.0.1:8631/callback?state=some-state&code=auth-code")
	require.NoError(t, err)

	result, err := flow.HandleRedirect(ctx, redirectURL)
	require.NoError(t, err)

	assert.Equal(t, NotHandled, result)
	assert.Equal(t, 0, exchanger.calls)
}

func TestHandleRedirectNoCallback(t *testing.T) {
	exchanger := &mockExchanger{}
	flow, store := newTestFlow(t, exchanger)
	redirectURL, err := url.Parse("http://127.0.0.1:8631/")
	require.NoError(t, err)

	result, err := flow.HandleRedirect(ctx, redirectURL)
	require.NoError(t, err)

	assert.Equal(t, NotHandled, result)
	assert.Equal(t, 0, exchanger.calls)
	accessToken, err := store.GetAccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, accessToken)
}

func TestHandleRedirectExchangeFailure(t *testing.T) {
	exchanger := &mockExchanger{err: fmt.Errorf("exchange failed")}
	flow, _ := newTestFlow(t, exchanger)
	flow.states.Set("expected-state")
	redirectURL, err := url.Parse("http://127.0.0.1:8631/callback?state=expected-state&code=auth-code")
	require.NoError(t, err)

	result, err := flow.HandleRedirect(ctx, redirectURL)

	assert.Equal(t, NotHandled, result)
	assert.Error(t, err)
	assert.Empty(t, flow.states.Get())
}

func TestCleanURL(t *testing.T) {
	redirectURL, err := url.Parse("http://127.0.0.1:8631/callback?state=S&code=C&other=keep#access=A&refresh=R")
	require.NoError(t, err)

	cleaned := CleanURL(redirectURL)

	assert.Empty(t, cleaned.Fragment)
	assert.Empty(t, cleaned.Query().Get("state"))
	assert.Empty(t, cleaned.Query().Get("code"))
	assert.Equal(t, "keep", cleaned.Query().Get("other"))
}
