package config

import "fmt"

type PexelsConfig struct {
	ApiUrl string
	ApiKey string
}

func (c Config) GetPexelsConfig() (*PexelsConfig, error) {
	if c.secrets.PexelsApiKey == "" {
		return nil, fmt.Errorf("PEXELS_API_KEY must be set")
	}
	if c.Pexels.ApiUrl == "" {
		return nil, fmt.Errorf("pexels.api_url must be set")
	}

	return &PexelsConfig{
		ApiUrl: c.Pexels.ApiUrl,
		ApiKey: c.secrets.PexelsApiKey,
	}, nil
}
