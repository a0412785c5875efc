package jwt

import (
	"encoding/json"
	"time"

	"github.com/LeoCommon/tracker/internal/tracker/api/jwt/misc"
	gojwt "github.com/golang-jwt/jwt/v5"
)

// Validate checks the time claims of a token without verifying its signature,
// the backend does the verification, we only want to know when to refresh.
func Validate(tokenString string) error {
	// empty on restarts when only the refresh token was persisted
	if len(tokenString) == 0 {
		return misc.ErrTokenMissing
	}

	token, _, err := gojwt.NewParser().ParseUnverified(tokenString, gojwt.MapClaims{})
	if err != nil {
		return err
	}

	now := time.Now()

	notBefore, err := token.Claims.GetNotBefore()
	if err != nil {
		return err
	}
	if notBefore != nil && notBefore.After(now) {
		return gojwt.ErrTokenNotValidYet
	}

	expiresAt, err := token.Claims.GetExpirationTime()
	if err != nil {
		return err
	}
	if expiresAt == nil {
		return gojwt.ErrTokenRequiredClaimMissing
	}

	if expiresAt.Before(now.Add(misc.ExpiryOffset)) {
		return gojwt.ErrTokenExpired
	}

	return nil
}

// PopulateTokenPairFromBody reads a token pair from a refresh response
func PopulateTokenPairFromBody(tokens *misc.TokenPair, body []byte) error {
	if len(body) == 0 {
		return misc.ErrTokenMissing
	}

	return json.Unmarshal(body, tokens)
}
