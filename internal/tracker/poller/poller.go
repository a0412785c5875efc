package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LeoCommon/tracker/internal/tracker/api"
	"github.com/LeoCommon/tracker/internal/tracker/geo"
	"github.com/LeoCommon/tracker/internal/tracker/view"
	"github.com/LeoCommon/tracker/pkg/log"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAlreadyStarted = errors.New("poller is already running")
	ErrShutdown       = errors.New("poller has been shut down")
)

// Backend is the part of the rest api the poller talks to
type Backend interface {
	GetRoute(ctx context.Context, date string) (geo.Route, error)
	GetVehicleLocation(ctx context.Context) (api.VehicleLocation, error)
}

// session is one run for a selected date, it ends when the date changes or on shutdown
type session struct {
	id         string
	date       string
	cancelFunc context.CancelFunc
	cancelOnce sync.Once
}

func (s *session) cancel() {
	s.cancelOnce.Do(func() {
		s.cancelFunc()
	})
}

type Poller struct {
	lock     sync.Mutex
	backend  Backend
	view     *view.View
	interval time.Duration

	// parent of every session, set by Start
	ctx      context.Context
	current  *session
	shutdown bool
	wg       sync.WaitGroup
}

func New(backend Backend, v *view.View, interval time.Duration) *Poller {
	return &Poller{
		backend:  backend,
		view:     v,
		interval: interval,
	}
}

// Start begins polling for the currently selected date
func (p *Poller) Start(ctx context.Context) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.shutdown {
		return ErrShutdown
	}

	if p.ctx != nil {
		return ErrAlreadyStarted
	}

	p.ctx = ctx
	p.startSession(p.view.SelectedDate())
	return nil
}

// SelectDate switches the view to another day. A running session is replaced by
// a new one, which fetches the route of the new day once.
func (p *Poller) SelectDate(date string) bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.view.SelectDate(date) {
		return false
	}

	log.Info("selected date changed", zap.String("date", date))

	if p.current != nil {
		p.current.cancel()
		p.current = nil
	}

	if p.ctx != nil && !p.shutdown {
		p.startSession(date)
	}

	return true
}

// Shutdown stops the running session and waits until all its requests returned
func (p *Poller) Shutdown() {
	p.lock.Lock()
	p.shutdown = true
	if p.current != nil {
		p.current.cancel()
		p.current = nil
	}
	p.lock.Unlock()

	p.wg.Wait()
}

// startSession has to be called with the lock held
func (p *Poller) startSession(date string) {
	ctx, cancel := context.WithCancel(p.ctx)

	s := &session{
		id:         uuid.NewString(),
		date:       date,
		cancelFunc: cancel,
	}
	p.current = s

	log.Debug("polling session started", zap.String("session", s.id), zap.String("date", date), zap.Duration("interval", p.interval))

	p.wg.Add(2)
	go p.fetchRoute(ctx, s)
	go p.pollLocation(ctx, s)
}

// apply runs fn only if s is still the active session
func (p *Poller) apply(s *session, fn func()) bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.current != s {
		log.Debug("discarding result of stale session", zap.String("session", s.id))
		return false
	}

	fn()
	return true
}

func (p *Poller) fetchRoute(ctx context.Context, s *session) {
	defer p.wg.Done()

	route, err := p.backend.GetRoute(ctx, s.date)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		if errors.Is(err, api.ErrEmptyRoute) || errors.Is(err, api.ErrMalformedRoute) {
			log.Error("no route data found or data is not in expected format", zap.String("date", s.date), zap.String("session", s.id), zap.Error(err))
			return
		}

		log.Error("error fetching route data", zap.String("date", s.date), zap.String("session", s.id), zap.Error(err))
		return
	}

	p.apply(s, func() {
		if p.view.ApplyRoute(route) {
			log.Info("route loaded", zap.String("date", s.date), zap.Int("points", len(route)), zap.Float64("length_km", route.LengthKM()))
		}
	})
}

func (p *Poller) pollLocation(ctx context.Context, s *session) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("polling session stopped", zap.String("session", s.id))
			return
		case <-ticker.C:
			p.fetchLocation(ctx, s)
		}
	}
}

func (p *Poller) fetchLocation(ctx context.Context, s *session) {
	loc, err := p.backend.GetVehicleLocation(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		log.Error("error fetching vehicle location", zap.String("session", s.id), zap.Error(err))
		return
	}

	if !loc.Valid() {
		log.Error("invalid data received from vehicle-location endpoint", zap.String("session", s.id))
		return
	}

	p.apply(s, func() {
		p.view.ApplyLiveLocation(loc.Point(), loc.Timestamp.At(p.view.Location()))
	})
}
