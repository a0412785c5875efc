package misc

import (
	"errors"
	"time"
)

const (
	DefaultSchemeName      = "Bearer"
	DefaultRefreshEndpoint = "auth/refresh"

	// Refresh ahead of time, the backend clock might be skewed
	ExpiryOffset = 5 * time.Second
)

var (
	ErrInvalidJWTSettings  = errors.New("invalid JWT settings supplied")
	ErrRefreshTokenInvalid = errors.New("the refresh token is invalid")
	ErrTokenMissing        = errors.New("empty/missing token")
)

type TokenPair struct {
	Refresh string `json:"refresh_token" toml:"refresh_token,omitempty" comment:"required refresh token"`
	Access  string `json:"access_token"  toml:"access_token,omitempty" comment:"optional access token"`
}

func (p *TokenPair) HasRefreshToken() bool {
	return len(p.Refresh) > 0
}

func (p *TokenPair) HasAccessToken() bool {
	return len(p.Access) > 0
}

func (p *TokenPair) FullTokenPair() bool {
	return p.HasRefreshToken() && p.HasAccessToken()
}
