// Package apiclient performs every call to the copilot backend. Authenticated
// calls get automatic header attachment and token-refresh healing so callers
// never have to reason about token freshness.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/admin-copilot/copilot-go/internal/config"
	"github.com/admin-copilot/copilot-go/internal/cperrors"
	"github.com/admin-copilot/copilot-go/internal/models"
	"github.com/admin-copilot/copilot-go/internal/tokens"
	"github.com/admin-copilot/copilot-go/internal/tokenstore"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const refreshKey = "token-refresh"

// tokenErrorPhrases are backend error messages that signal an invalid or
// expired token. The HTTP 401 status is the primary signal, these are only a
// fallback heuristic for backends that return token errors with other codes.
var tokenErrorPhrases = []string{
	"token",
	"Given token not valid",
	"Token is invalid",
	"Authentication credentials were not provided",
}

// Client wraps the backend REST API. The refresh group is the single-slot
// coordination primitive that serializes concurrent token refreshes: any
// number of callers needing a fresh token share one network round-trip.
type Client struct {
	baseURL      *url.URL
	httpClient   *http.Client
	store        *tokenstore.Store
	refreshGroup singleflight.Group
	limiter      *rate.Limiter
	idGenerator  models.IDGenerator
	sessionID    string
}

type ClientOption func(*Client) error

func WithBaseURL(baseURL *url.URL) ClientOption {
	return func(c *Client) error {
		if baseURL == nil {
			return fmt.Errorf("the base URL cannot be nil")
		}
		c.baseURL = baseURL
		return nil
	}
}

func WithTokenStore(store *tokenstore.Store) ClientOption {
	return func(c *Client) error {
		c.store = store
		return nil
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		c.httpClient = httpClient
		return nil
	}
}

func WithRateLimits(limits config.RateLimits) ClientOption {
	return func(c *Client) error {
		if limits.Enabled {
			c.limiter = rate.NewLimiter(rate.Limit(limits.Rate), limits.Burst)
		}
		return nil
	}
}

func NewClient(options ...ClientOption) (*Client, error) {
	client := &Client{
		httpClient:  http.DefaultClient,
		idGenerator: models.ULIDGenerator{},
		sessionID:   uuid.NewString(),
	}
	for _, opt := range options {
		if err := opt(client); err != nil {
			return nil, err
		}
	}
	if client.baseURL == nil {
		return nil, fmt.Errorf("the base URL is not initialized")
	}
	if client.store == nil {
		return nil, fmt.Errorf("the token store is not initialized")
	}
	return client, nil
}

// do performs a single HTTP call and normalizes every failure into a
// models.APIError. A non-empty token is attached as a bearer credential.
func (c *Client) do(ctx context.Context, method string, path string, body io.Reader, contentType string, token string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return models.NewAPIError(err.Error())
		}
	}
	requestURL := strings.TrimRight(c.baseURL.String(), "/") + path
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return models.NewAPIError(err.Error())
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if requestID, err := c.idGenerator.ID(); err == nil {
		req.Header.Set("X-Request-ID", requestID)
	}
	req.Header.Set("X-Client-Session", c.sessionID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.NewAPIError(err.Error())
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.NewAPIError(err.Error())
	}
	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp.StatusCode, respBody)
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return models.NewAPIError(fmt.Sprintf("cannot parse the response from %s: %s", path, err.Error()))
	}
	return nil
}

func parseErrorResponse(status int, body []byte) *models.APIError {
	fallback := fmt.Sprintf("HTTP error! status: %d %s", status, http.StatusText(status))
	var errorData map[string]any
	if err := json.Unmarshal(body, &errorData); err != nil {
		return &models.APIError{Message: fallback, Status: status}
	}
	return models.APIErrorFromBody(errorData, status, fallback)
}

// postJSON is a convenience wrapper for unauthenticated JSON calls.
func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return models.NewAPIError(err.Error())
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", "", out)
}

// accessToken resolves a usable access token, proactively refreshing an
// expired one before it is attached to a request.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	token, err := c.store.GetAccessToken(ctx)
	if err != nil {
		return "", models.NewAPIError(err.Error())
	}
	if token == "" {
		return "", models.NewAPIError(cperrors.ErrNoAccessToken.Error())
	}
	if tokens.IsExpired(token) {
		slog.Debug("API CLIENT", "message", "access token expired, refreshing")
		if err := c.RefreshTokens(ctx); err != nil {
			return "", err
		}
		token, err = c.store.GetAccessToken(ctx)
		if err != nil || token == "" {
			return "", models.NewAPIError("failed to refresh token")
		}
	}
	return token, nil
}

// RefreshTokens obtains a new access token using the stored refresh token.
// Concurrent callers share a single in-flight refresh, only one network
// round-trip to the refresh endpoint occurs no matter how many callers
// needed it.
func (c *Client) RefreshTokens(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do(refreshKey, func() (any, error) {
		return nil, c.performTokenRefresh(ctx)
	})
	return err
}

func (c *Client) performTokenRefresh(ctx context.Context) error {
	refreshToken, err := c.store.GetRefreshToken(ctx)
	if err != nil {
		return models.NewAPIError(err.Error())
	}
	if refreshToken == "" {
		slog.Debug("API CLIENT", "message", "no refresh token stored, clearing tokens")
		c.clearTokens(ctx)
		return models.NewAPIError(cperrors.ErrNoRefreshToken.Error())
	}
	if tokens.IsExpired(refreshToken) {
		slog.Debug("API CLIENT", "message", "refresh token expired, clearing tokens")
		c.clearTokens(ctx)
		return models.NewAPIError(cperrors.ErrRefreshTokenExpired.Error())
	}
	var response models.RefreshResponse
	err = c.postJSON(ctx, "/token/refresh/", map[string]string{"refresh": refreshToken}, &response)
	if err != nil {
		slog.Debug("API CLIENT", "message", "token refresh failed", "error", err)
		c.clearTokens(ctx)
		return models.NewAPIError("token refresh failed, please login again")
	}
	// only the access token is replaced, the refresh token is carried over
	return c.store.SetTokens(ctx, response.Access, refreshToken)
}

func (c *Client) clearTokens(ctx context.Context) {
	if err := c.store.ClearTokens(ctx); err != nil {
		slog.Error("API CLIENT", "message", "clearing tokens failed", "error", err)
	}
}

func isTokenError(err error) bool {
	apiErr, ok := err.(*models.APIError)
	if !ok {
		return false
	}
	if apiErr.Status == http.StatusUnauthorized {
		return true
	}
	for _, phrase := range tokenErrorPhrases {
		if strings.Contains(apiErr.Message, phrase) {
			return true
		}
	}
	return false
}

// authenticatedRequest performs an HTTP call with a bearer token attached and
// a retry-once policy: a 401 (or a token-flavored error message) triggers one
// forced refresh and one retry, a second consecutive token failure clears the
// stored tokens and is terminal for the session.
func (c *Client) authenticatedRequest(ctx context.Context, method string, path string, body []byte, contentType string, out any) error {
	retried := false
	for {
		token, err := c.accessToken(ctx)
		if err != nil {
			return err
		}
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		err = c.do(ctx, method, path, reader, contentType, token, out)
		if err == nil {
			return nil
		}
		if !isTokenError(err) {
			return err
		}
		if retried {
			c.clearTokens(ctx)
			return models.NewAPIError(cperrors.ErrSessionExpired.Error())
		}
		slog.Debug("API CLIENT", "message", "token error detected, attempting refresh and retry", "path", path)
		if refreshErr := c.RefreshTokens(ctx); refreshErr != nil {
			c.clearTokens(ctx)
			return models.NewAPIError(cperrors.ErrSessionExpired.Error())
		}
		retried = true
	}
}

// getJSON performs an authenticated GET.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.authenticatedRequest(ctx, http.MethodGet, path, nil, "", out)
}

// sendJSON performs an authenticated call with a JSON payload.
func (c *Client) sendJSON(ctx context.Context, method string, path string, payload any, out any) error {
	var body []byte
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return models.NewAPIError(err.Error())
		}
		body = data
		contentType = "application/json"
	}
	return c.authenticatedRequest(ctx, method, path, body, contentType, out)
}

// delete performs an authenticated DELETE and ignores the response body.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.authenticatedRequest(ctx, http.MethodDelete, path, nil, "", nil)
}
