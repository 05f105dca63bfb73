package config

import (
	"fmt"
	"time"
)

type StabilityConfig struct {
	ApiUrl      string
	ApiKey      string
	AspectRatio string
	Polling     PollingConfig
}

// PollingConfig paces the wait for an asynchronous generation job. A zero
// Timeout waits until the job finishes or the caller gives up.
type PollingConfig struct {
	Interval          time.Duration
	MaxInterval       time.Duration
	BackoffMultiplier float64
	Timeout           time.Duration
}

func (c Config) GetStabilityConfig() (*StabilityConfig, error) {
	if c.secrets.StabilityApiKey == "" {
		return nil, fmt.Errorf("STABILITY_API_KEY must be set")
	}
	if c.Stability.ApiUrl == "" {
		return nil, fmt.Errorf("stability.api_url must be set")
	}

	maxInterval := c.Stability.PollMaxInterval
	if maxInterval < c.Stability.PollInterval {
		maxInterval = c.Stability.PollInterval
	}

	return &StabilityConfig{
		ApiUrl:      c.Stability.ApiUrl,
		ApiKey:      c.secrets.StabilityApiKey,
		AspectRatio: c.Stability.AspectRatio,
		Polling: PollingConfig{
			Interval:          c.Stability.PollInterval,
			MaxInterval:       maxInterval,
			BackoffMultiplier: c.Stability.PollBackoffMultiplier,
			Timeout:           c.Stability.PollTimeout,
		},
	}, nil
}
