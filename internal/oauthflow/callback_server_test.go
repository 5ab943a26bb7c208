package oauthflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

func TestCallbackServerCapturesCodeExchange(t *testing.T) {
	server := NewCallbackServer("127.0.0.1:0")
	ts := httptest.NewServer(server.e)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/callback?state=S&code=C")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	waitCtx, cancel := contextWithTimeout(t, time.Second)
	defer cancel()
	captured, err := server.Wait(waitCtx)
	require.NoError(t, err)
	assert.Equal(t, "S", captured.Query().Get("state"))
	assert.Equal(t, "C", captured.Query().Get("code"))
}

func TestCallbackServerRebuildsFragment(t *testing.T) {
	server := NewCallbackServer("127.0.0.1:0")
	ts := httptest.NewServer(server.e)
	t.Cleanup(ts.Close)

	// the forwarder page re-posts the fragment as a query string
	resp, err := http.Get(ts.URL + "/callback/tokens?access=A&refresh=R")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	waitCtx, cancel := contextWithTimeout(t, time.Second)
	defer cancel()
	captured, err := server.Wait(waitCtx)
	require.NoError(t, err)
	assert.Equal(t, "access=A&refresh=R", captured.Fragment)
}

func TestCallbackServerServesForwarderPage(t *testing.T) {
	server := NewCallbackServer("127.0.0.1:0")
	ts := httptest.NewServer(server.e)
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/callback")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// nothing was captured
	waitCtx, cancel := contextWithTimeout(t, 50*time.Millisecond)
	defer cancel()
	_, err = server.Wait(waitCtx)
	assert.Error(t, err)
}
