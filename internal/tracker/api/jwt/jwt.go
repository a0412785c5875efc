package jwt

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/LeoCommon/tracker/internal/tracker/api/helpers"
	"github.com/LeoCommon/tracker/internal/tracker/api/jwt/misc"
	"github.com/LeoCommon/tracker/internal/tracker/config"
	"github.com/LeoCommon/tracker/pkg/log"
	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

// Handler keeps the bearer token of the api client fresh.
// Refresh tokens are rotated, a refresh token can only be used once.
type Handler struct {
	mu    sync.Mutex
	cv    *sync.Cond
	c     *req.Client
	apiCM *config.ApiConfigManager

	// This is a copy of the bearer settings
	conf       config.AuthBearerSettings
	refreshing bool
}

func NewHandler(cm *config.ApiConfigManager, c *req.Client) (*Handler, error) {
	bearerSettings := cm.C().Auth.Bearer
	if bearerSettings == nil {
		return nil, misc.ErrInvalidJWTSettings
	}

	j := &Handler{
		c:     c,
		apiCM: cm,
		conf:  *bearerSettings,
	}

	if j.conf.RefreshEndpoint == "" {
		j.conf.RefreshEndpoint = misc.DefaultRefreshEndpoint
	}

	if j.conf.Scheme == "" {
		j.conf.Scheme = misc.DefaultSchemeName
	}

	j.cv = sync.NewCond(&j.mu)

	c.OnBeforeRequest(func(_ *req.Client, request *req.Request) error {
		// The refresh request carries its own authorization
		if skip, ok := request.Context().Value(helpers.ReqCtxSkipOnBeforeHook).(bool); ok && skip {
			return nil
		}

		return j.DoBearerRefreshIfNeeded(request)
	})

	return j, nil
}

func (j *Handler) authorization(token string) (string, string) {
	return "Authorization", j.conf.Scheme + " " + token
}

// Tokens returns the currently active token pair
func (j *Handler) Tokens() misc.TokenPair {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.conf.TokenPair
}

// RefreshBearerTokens trades the refresh token for a new token pair
func (j *Handler) RefreshBearerTokens(ctx context.Context, refreshToken string) (misc.TokenPair, error) {
	var tokens misc.TokenPair

	if err := Validate(refreshToken); err != nil {
		log.Error("refresh token not valid, wont be able to continue", zap.NamedError("reason", err))
		return tokens, misc.ErrRefreshTokenInvalid
	}

	resp, err := j.c.R().
		SetContext(context.WithValue(ctx, helpers.ReqCtxSkipOnBeforeHook, true)).
		SetHeader(j.authorization(refreshToken)).
		Post(j.conf.RefreshEndpoint)

	if err = helpers.ErrorFromResponse(err, resp); err != nil {
		var respErr *helpers.ResponseError
		if errors.As(err, &respErr) && (respErr.Code == http.StatusUnauthorized || respErr.Code == http.StatusForbidden) {
			return tokens, misc.ErrRefreshTokenInvalid
		}

		return tokens, err
	}

	if err := PopulateTokenPairFromBody(&tokens, resp.Bytes()); err != nil {
		log.Error("got invalid json reply from the refresh endpoint", zap.Error(err))
		return tokens, misc.ErrTokenMissing
	}

	// No full pair? The server sent something invalid
	if !tokens.FullTokenPair() {
		return tokens, misc.ErrTokenMissing
	}

	return tokens, nil
}

// DoBearerRefreshIfNeeded sets the authorization header of the request,
// refreshing the access token first if it expired. Concurrent callers wait for one refresh.
func (j *Handler) DoBearerRefreshIfNeeded(request *req.Request) error {
	j.mu.Lock()
	for j.refreshing {
		j.cv.Wait()
	}

	reason := Validate(j.conf.Access)
	if reason == nil {
		token := j.conf.Access
		j.mu.Unlock()

		request.SetHeader(j.authorization(token))
		return nil
	}

	log.Info("bearer access token not valid, refreshing", zap.NamedError("reason", reason))

	j.refreshing = true
	refreshToken := j.conf.Refresh
	j.mu.Unlock()

	tokens, err := j.RefreshBearerTokens(request.Context(), refreshToken)

	j.mu.Lock()
	j.refreshing = false
	if err == nil {
		j.conf.TokenPair = tokens
	}
	j.cv.Broadcast()
	j.mu.Unlock()

	if err != nil {
		log.Error("jwt refresh failed", zap.NamedError("reason", err))
		return err
	}

	request.SetHeader(j.authorization(tokens.Access))

	// Persist the rotated pair, the old refresh token is useless from now on
	j.apiCM.Set(func(c *config.ApiConfig) {
		if c.Auth.Bearer != nil {
			c.Auth.Bearer.TokenPair = tokens
		}
	})

	if err := j.apiCM.Save(); err != nil {
		log.Warn("could not persist refreshed bearer tokens", zap.Error(err))
	}

	log.Info("modified run-time bearer tokens")
	return nil
}
