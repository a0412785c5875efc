package config

import (
	"errors"
	"strings"

	jwtmisc "github.com/LeoCommon/tracker/internal/tracker/api/jwt/misc"
)

type AuthBasicSettings struct {
	Username string `toml:"username,omitempty"`
	Password string `toml:"password" comment:"required for basic authentication"`
}

func (a *AuthBasicSettings) Credentials() (string, string) {
	return a.Username, a.Password
}

type AuthBearerSettings struct {
	jwtmisc.TokenPair
	RefreshEndpoint string `toml:"refresh_endpoint,omitempty" comment:"custom relative url to the bearer refresh endpoint"`
	Scheme          string `toml:"scheme,omitempty" comment:"results in 'Authorization: <Scheme> <Token>', defaults to Bearer"`
}

type AuthSettings struct {
	Basic  *AuthBasicSettings  `toml:"basic,omitempty"`
	Bearer *AuthBearerSettings `toml:"bearer,omitempty" comment:"Bearer authentication settings"`
}

// ApiConfig describes how the location backend is reached
type ApiConfig struct {
	Auth            AuthSettings `toml:"auth"`
	RootCertificate string       `toml:"root_certificate,omitempty" validate:"omitempty,file"`
	Url             string       `toml:"url" validate:"required,url" comment:"base url of the location backend, e.g. http://localhost:5000/api"`
	Timeout         TOMLDuration `toml:"timeout,omitempty" validate:"gte=0" comment:"per request timeout"`
	AllowInsecure   bool         `toml:"allow_insecure,omitempty"`
}

// BaseURL returns the url without trailing slashes
func (a ApiConfig) BaseURL() string {
	return strings.TrimRight(a.Url, "/")
}

type ApiConfigManager struct {
	BaseConfigManager[ApiConfig]
}

// Verify verifies the "hard" conditions that the rest of the code relies on
func (a *ApiConfigManager) Verify() error {
	if err := validate.Struct(a.conf); err != nil {
		return err
	}

	if a.conf.Auth.Basic != nil && a.conf.Auth.Basic.Password == "" {
		return errors.New("empty password for auth basic")
	}

	if a.conf.Auth.Basic != nil && a.conf.Auth.Bearer != nil {
		return errors.New("basic and bearer authentication are mutually exclusive")
	}

	// we at-least need a refresh token
	if a.conf.Auth.Bearer != nil && a.conf.Auth.Bearer.Refresh == "" {
		return errors.New("bearer auth enabled but no refresh token specified")
	}

	return nil
}

func (a *ApiConfigManager) applyDefaults() {
	if a.conf.Url == "" {
		a.conf.Url = DefaultApiURL
	}

	if a.conf.Timeout <= 0 {
		a.conf.Timeout = TOMLDuration(DefaultRequestTimeout)
	}
}

func NewApiConfigManager(config *ApiConfig, mgr *Manager) *ApiConfigManager {
	j := ApiConfigManager{}
	j.conf = config
	j.mgr = mgr

	return &j
}
