package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	h "github.com/LeoCommon/tracker/internal/tracker/api/helpers"
	"github.com/LeoCommon/tracker/internal/tracker/api/jwt"
	"github.com/LeoCommon/tracker/internal/tracker/config"
	"github.com/LeoCommon/tracker/internal/tracker/geo"
	"github.com/LeoCommon/tracker/pkg/log"

	"github.com/imroc/req/v3"
)

var (
	ErrMalformedRoute    = errors.New("route response is not a list of points")
	ErrEmptyRoute        = errors.New("route response contains no points")
	ErrMalformedLocation = errors.New("vehicle location response is not an object")
)

type RestAPI struct {
	client *req.Client

	jwt *jwt.Handler

	cm *config.ApiConfigManager
}

func NewRestAPI(conf *config.Manager, debug bool) (*RestAPI, error) {
	a := RestAPI{}
	a.cm = conf.Api()

	a.client = req.C().SetLogger(log.Sugar())

	if debug {
		a.client.EnableDebugLog()
	}

	// Get a copy of the api config
	apiConf := a.cm.C()

	a.client.SetBaseURL(apiConf.BaseURL())

	rootCert := apiConf.RootCertificate
	if len(rootCert) > 0 {
		a.client.SetRootCertsFromFile(rootCert)
	}

	if apiConf.Auth.Bearer != nil {
		if err := jwt.Validate(apiConf.Auth.Bearer.Refresh); err != nil {
			log.Error("refresh token validation failed", zap.NamedError("reason", err))
			return nil, fmt.Errorf("trying to use bearer authentication with invalid refresh token")
		}

		log.Info("using bearer authorization")

		var err error
		a.jwt, err = jwt.NewHandler(a.cm, a.client)
		if err != nil {
			return nil, err
		}
	} else if apiConf.Auth.Basic != nil {
		username, password := apiConf.Auth.Basic.Credentials()
		log.Info("using basic auth mechanism", zap.String("username", username))
		a.client.SetCommonBasicAuth(username, password)
	} else {
		log.Debug("no api authentication scheme specified")
	}

	if apiConf.AllowInsecure {
		a.client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})

		log.Warn("!WARNING WARNING WARNING! DISABLED TLS CERTIFICATE VERIFICATION! !WARNING WARNING WARNING!")
	}

	a.client.SetTimeout(apiConf.Timeout.Value())
	a.client.SetCommonRetryCount(MaxRetries)

	return &a, nil
}

func (a *RestAPI) GetBaseURL() string {
	if a.client == nil {
		log.Panic("no client, cant get base url")
	}

	return a.client.BaseURL
}

// GetClient Use this for tests to set the transport to mock
func (a *RestAPI) GetClient() *req.Client {
	return a.client
}

// GetRoute fetches the recorded route of the given day
func (r *RestAPI) GetRoute(ctx context.Context, date string) (geo.Route, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(RoutePath + url.PathEscape(date))

	if err = h.ErrorFromResponse(err, resp); err != nil {
		return nil, err
	}

	var points []RoutePoint
	if err := json.Unmarshal(resp.Bytes(), &points); err != nil {
		log.Debug("could not decode route", zap.String("date", date), zap.Error(err))
		return nil, ErrMalformedRoute
	}

	if len(points) == 0 {
		return nil, ErrEmptyRoute
	}

	return toRoute(points), nil
}

// GetVehicleLocation fetches the latest reported position, the result may still be !Valid()
func (r *RestAPI) GetVehicleLocation(ctx context.Context) (VehicleLocation, error) {
	var loc VehicleLocation

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(VehicleLocationPath)

	if err = h.ErrorFromResponse(err, resp); err != nil {
		return loc, err
	}

	if err := json.Unmarshal(resp.Bytes(), &loc); err != nil {
		log.Debug("could not decode vehicle location", zap.Error(err))
		return VehicleLocation{}, ErrMalformedLocation
	}

	return loc, nil
}
