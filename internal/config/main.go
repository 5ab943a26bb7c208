package config

import "net/url"

type Config struct {
	BaseURL    *url.URL
	OAuth      OAuthConfig
	Storage    StorageConfig
	Redis      RedisConfig
	Keeper     KeeperConfig
	RateLimits RateLimits
	Monitoring MonitoringConfig
	DebugMode  bool
}

func (c *Config) Validate() error {
	if err := c.validateBaseURL(); err != nil {
		return err
	}
	if err := c.OAuth.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(c.Storage); err != nil {
		return err
	}
	return c.Keeper.Validate()
}
