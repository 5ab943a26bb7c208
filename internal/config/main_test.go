package config

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getValidConfig(t *testing.T) Config {
	t.Helper()
	baseURL, err := url.Parse("https://copilot.example.com")
	require.NoError(t, err)
	authURL, err := url.Parse("https://accounts.google.com/o/oauth2/v2/auth")
	require.NoError(t, err)
	return Config{
		BaseURL: baseURL,
		OAuth: OAuthConfig{
			AuthURL:      authURL,
			ClientID:     "test-client-id",
			RedirectURI:  "http://127.0.0.1:8631/callback",
			Scopes:       []string{"openid", "email", "profile"},
			CallbackAddr: "127.0.0.1:8631",
		},
		Storage: StorageConfig{Type: StorageTypeFile, TokenFile: "/tmp/tokens.json"},
		Keeper:  KeeperConfig{Enabled: true, IntervalMinutes: 1, ExpiryMarginMinutes: 3},
	}
}

func TestValidConfig(t *testing.T) {
	config := getValidConfig(t)

	err := config.Validate()

	assert.NoError(t, err)
}

func TestMissingBaseURL(t *testing.T) {
	config := getValidConfig(t)
	config.BaseURL = nil

	err := config.Validate()

	assert.Error(t, err)
}

func TestInvalidOAuthConfig(t *testing.T) {
	config := getValidConfig(t)
	config.OAuth.ClientID = ""

	err := config.Validate()

	assert.Error(t, err)
}

func TestInvalidStorageConfig(t *testing.T) {
	config := getValidConfig(t)
	config.Storage.Type = "postgres"

	err := config.Validate()

	assert.Error(t, err)
}

func TestRedisConfigRequiredForRedisStorage(t *testing.T) {
	config := getValidConfig(t)
	config.Storage = StorageConfig{Type: StorageTypeRedis}

	err := config.Validate()

	assert.Error(t, err)

	config.Redis.Addresses = []string{"localhost:6379"}
	assert.NoError(t, config.Validate())
}

func TestInvalidKeeperConfig(t *testing.T) {
	config := getValidConfig(t)
	config.Keeper.IntervalMinutes = 0

	err := config.Validate()

	assert.Error(t, err)
}
