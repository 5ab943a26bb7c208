package config

import (
	"fmt"
	"net/url"
)

// OAuthConfig describes the external identity provider the client can send
// the user to. The code exchange itself happens through the backend, so no
// client secret lives here.
type OAuthConfig struct {
	AuthURL      *url.URL
	ClientID     string
	RedirectURI  string
	Scopes       []string
	CallbackAddr string
}

func (c *OAuthConfig) Validate() error {
	if c.AuthURL == nil || c.AuthURL.String() == "" {
		return fmt.Errorf("the oauth authorization URL is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("the oauth client ID is required")
	}
	if c.RedirectURI == "" {
		return fmt.Errorf("the oauth redirect URI is required")
	}
	if len(c.Scopes) == 0 {
		return fmt.Errorf("at least one oauth scope is required")
	}
	return nil
}

func (c *Config) validateBaseURL() error {
	if c.BaseURL == nil || c.BaseURL.String() == "" {
		return fmt.Errorf("the backend base URL is required")
	}
	return nil
}
