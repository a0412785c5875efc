package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/LeoCommon/tracker/internal/tracker/view"
	"github.com/LeoCommon/tracker/pkg/log"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

//go:embed assets/*
var embeddedAssets embed.FS

const ShutdownTimeout = 3 * time.Second

const apiPrefix = "/api"

// DateSelector switches the polled day
type DateSelector interface {
	SelectDate(date string) bool
}

func Handler(v *view.View, dates DateSelector) http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)

	assetsFS, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		log.Panic("embedded assets missing", zap.Error(err))
	}

	// Full API paths on the root router, a subrouter answers a wrong method with 404
	r.HandleFunc(apiPrefix+"/scene", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, v.Scene())
	}).Methods(http.MethodGet)

	r.HandleFunc(apiPrefix+"/route.geojson", func(w http.ResponseWriter, _ *http.Request) {
		b, err := v.GeoJSON().MarshalJSON()
		if err != nil {
			http.Error(w, "marshal failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write(b)
	}).Methods(http.MethodGet)

	r.HandleFunc(apiPrefix+"/path/show", func(w http.ResponseWriter, _ *http.Request) {
		v.ShowPath()
		writeJSON(w, v.Scene())
	}).Methods(http.MethodPost)

	r.HandleFunc(apiPrefix+"/path/hide", func(w http.ResponseWriter, _ *http.Request) {
		v.HidePath()
		writeJSON(w, v.Scene())
	}).Methods(http.MethodPost)

	r.HandleFunc(apiPrefix+"/date/{date}", func(w http.ResponseWriter, r *http.Request) {
		date := mux.Vars(r)["date"]
		if !v.HasDate(date) {
			http.Error(w, "unknown date", http.StatusBadRequest)
			return
		}

		dates.SelectDate(date)
		writeJSON(w, v.Scene())
	}).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	fileServer := http.FileServer(http.FS(assetsFS))
	r.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		fileServer.ServeHTTP(w, r)
	}))).Methods(http.MethodGet)

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		b, err := fs.ReadFile(assetsFS, "index.html")
		if err != nil {
			http.Error(w, "ui unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(b)
	}).Methods(http.MethodGet)

	return r
}

func writeJSON(w http.ResponseWriter, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}

// Serve runs the web server until ctx is done
func Serve(ctx context.Context, listenAddr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("web interface listening", zap.String("addr", listenAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("web server shutdown failed", zap.Error(err))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
