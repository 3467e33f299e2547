package printvendor

import (
	"errors"
	"time"
)

const (
	defaultAPIBase = "https://api.lulu.com"
	defaultAuthURL = "https://api.lulu.com/auth/realms/glasstree/protocol/openid-connect/token"

	// Sandbox endpoints for testing:
	//   https://api.sandbox.lulu.com
	//   https://api.sandbox.lulu.com/auth/realms/glasstree/protocol/openid-connect/token
)

// LuluConfig contains configuration for the Lulu print API client
type LuluConfig struct {
	// APIBase is the API root, production or sandbox
	APIBase string
	// AuthURL is the OAuth2 token endpoint
	AuthURL string
	// ClientKey and ClientSecret for the client-credentials grant
	ClientKey    string
	ClientSecret string
	// TokenExpiryMargin re-authenticates this long before the cached
	// token actually expires
	TokenExpiryMargin time.Duration
	// HTTPTimeout bounds a single API call
	HTTPTimeout time.Duration
}

// Validate checks required configuration
func (c *LuluConfig) Validate() error {
	if c == nil {
		return errors.New("lulu configuration is required")
	}
	if c.ClientKey == "" {
		return errors.New("lulu client key is required")
	}
	if c.ClientSecret == "" {
		return errors.New("lulu client secret is required")
	}
	return nil
}

// applyDefaults fills unset fields with defaults
func (c *LuluConfig) applyDefaults() {
	if c.APIBase == "" {
		c.APIBase = defaultAPIBase
	}
	if c.AuthURL == "" {
		c.AuthURL = defaultAuthURL
	}
	if c.TokenExpiryMargin == 0 {
		c.TokenExpiryMargin = 30 * time.Second
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 30 * time.Second
	}
}
