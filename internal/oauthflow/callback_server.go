package oauthflow

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// fragmentForwarder re-posts the URL fragment as a query string. Fragments
// never reach the server, so the page has to hand them over itself.
const fragmentForwarder = `<!DOCTYPE html>
<html>
<body>
<script>
if (window.location.hash.length > 1) {
	window.location.replace("/callback/tokens?" + window.location.hash.substring(1));
} else {
	document.body.textContent = "No login callback found. You can close this window.";
}
</script>
</body>
</html>`

const donePage = `<!DOCTYPE html>
<html><body>Login complete. You can close this window and return to the terminal.</body></html>`

// CallbackServer is a one-shot loopback listener that captures the redirect
// back from the identity provider. It stands in for the browser URL the
// original web client inspects at load time.
type CallbackServer struct {
	addr    string
	e       *echo.Echo
	results chan *url.URL
}

func NewCallbackServer(addr string) *CallbackServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	server := &CallbackServer{addr: addr, e: e, results: make(chan *url.URL, 1)}
	e.GET("/callback", server.getCallback)
	e.GET("/callback/tokens", server.getCallbackTokens)
	return server
}

func (s *CallbackServer) getCallback(c echo.Context) error {
	query := c.QueryParams()
	if query.Get("state") != "" && query.Get("code") != "" {
		s.deliver(c.Request().URL)
		return c.HTML(http.StatusOK, donePage)
	}
	// the tokens may be in the fragment, let the page forward them
	return c.HTML(http.StatusOK, fragmentForwarder)
}

func (s *CallbackServer) getCallbackTokens(c echo.Context) error {
	// rebuild the URL the way the browser saw it, with the forwarded
	// parameters back in the fragment
	captured := &url.URL{Path: "/callback", Fragment: c.QueryString()}
	s.deliver(captured)
	return c.HTML(http.StatusOK, donePage)
}

func (s *CallbackServer) deliver(redirectURL *url.URL) {
	select {
	case s.results <- redirectURL:
	default:
		// a callback was already captured, drop duplicates
	}
}

// Start begins listening on the configured loopback address.
func (s *CallbackServer) Start() error {
	errs := make(chan error, 1)
	go func() {
		err := s.e.Start(s.addr)
		if err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()
	select {
	case err := <-errs:
		return fmt.Errorf("starting the callback listener on %s failed: %w", s.addr, err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Wait blocks until a callback URL is captured or the context ends.
func (s *CallbackServer) Wait(ctx context.Context) (*url.URL, error) {
	select {
	case redirectURL := <-s.results:
		return redirectURL, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops the listener.
func (s *CallbackServer) Shutdown(ctx context.Context) {
	if err := s.e.Shutdown(ctx); err != nil {
		slog.Debug("OAUTH FLOW", "message", "callback listener shutdown failed", "error", err)
	}
}
