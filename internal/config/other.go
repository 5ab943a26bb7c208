package config

import "fmt"

type SentryConfig struct {
	Enabled     bool
	Dsn         RedactedString
	Environment string
	SampleRate  float64
}

type MonitoringConfig struct {
	Sentry SentryConfig
}

type RateLimits struct {
	Enabled bool
	Rate    float64
	Burst   int
}

// KeeperConfig controls the background job that refreshes the access token
// ahead of its expiry while the client runs.
type KeeperConfig struct {
	Enabled             bool
	IntervalMinutes     int
	ExpiryMarginMinutes int
}

func (c KeeperConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.IntervalMinutes <= 0 {
		return fmt.Errorf("invalid value for IntervalMinutes (%d)", c.IntervalMinutes)
	}
	if c.ExpiryMarginMinutes <= 0 {
		return fmt.Errorf("invalid value for ExpiryMarginMinutes (%d)", c.ExpiryMarginMinutes)
	}
	return nil
}
