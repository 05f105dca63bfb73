package config

type AuthConfig struct {
	JwksUrl string
}

// GetAuthConfig returns nil when JWKS_URL is unset; the API then runs
// without authentication.
func (c Config) GetAuthConfig() *AuthConfig {
	if c.secrets.JwksUrl == "" {
		return nil
	}
	return &AuthConfig{JwksUrl: c.secrets.JwksUrl}
}
