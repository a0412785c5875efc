package main

import (
	"context"
	"crypto/x509"
	"errors"
	"net/http"
	"time"

	"github.com/LeoCommon/tracker/internal/tracker"
	"github.com/LeoCommon/tracker/internal/tracker/api/helpers"
	jwt "github.com/LeoCommon/tracker/internal/tracker/api/jwt/misc"
	"github.com/LeoCommon/tracker/pkg/log"
	"go.uber.org/zap"
)

const probeTimeout = 5 * time.Second

// explainBackendError turns common startup faults into an operator hint
func explainBackendError(e error) string {
	if errors.Is(e, jwt.ErrRefreshTokenInvalid) {
		return "the refresh token was rejected, configure a new one"
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(e, &unknownAuthority) {
		return "self signed certificate used without proper root_certificate entry"
	}

	var hostnameErr x509.HostnameError
	if errors.As(e, &hostnameErr) {
		return "certificate hostname error"
	}

	var invalidCert x509.CertificateInvalidError
	if errors.As(e, &invalidCert) {
		return "the encountered certificate was deemed invalid"
	}

	var respErr *helpers.ResponseError
	if errors.As(e, &respErr) {
		switch respErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "api denied our authentication"
		case http.StatusNotFound:
			return "no vehicle location available yet"
		default:
			return "(temporary) server error"
		}
	}

	return "backend unreachable"
}

// probeBackend does one location request so configuration problems show up in the log right away.
// Polling starts regardless of the outcome.
func probeBackend(app *tracker.App) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	if _, err := app.Api.GetVehicleLocation(ctx); err != nil {
		log.Warn("backend probe failed, polling anyway", zap.String("hint", explainBackendError(err)), zap.Error(err))
		return
	}

	log.Info("backend probe succeeded", zap.String("backend", app.Api.GetBaseURL()))
}
