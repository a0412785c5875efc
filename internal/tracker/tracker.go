package tracker

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/LeoCommon/tracker/internal/tracker/api"
	"github.com/LeoCommon/tracker/internal/tracker/config"
	"github.com/LeoCommon/tracker/internal/tracker/poller"
	"github.com/LeoCommon/tracker/internal/tracker/view"
	"github.com/LeoCommon/tracker/internal/tracker/web"
	"github.com/LeoCommon/tracker/pkg/log"
	"go.uber.org/zap"
)

// App global app struct that contains all services
type App struct {
	// A global wait group, all go routines that should
	// terminate when the application ends should be registered here
	WG sync.WaitGroup

	ReloadSignal chan os.Signal
	ExitSignal   chan os.Signal

	Api  *api.RestAPI
	Conf *config.Manager

	View   *view.View
	Poller *poller.Poller

	ctx    context.Context
	cancel context.CancelFunc

	TestRunning bool
}

func (a *App) Shutdown() {
	if a.cancel != nil {
		a.cancel()
	}

	if a.Poller != nil {
		a.Poller.Shutdown()
	}

	a.WG.Wait()

	if a.ExitSignal != nil {
		signal.Stop(a.ExitSignal)
	}

	if a.ReloadSignal != nil {
		signal.Stop(a.ReloadSignal)
	}
}

func (a *App) loadConfiguration(configPath string, rootCert string, acceptEmptyConfig bool) error {
	a.Conf = config.NewManager()
	if err := a.Conf.Load(configPath, acceptEmptyConfig); err != nil {
		log.Error("an error occurred while trying to load the config file, trying default path", zap.String("path", configPath), zap.Error(err))

		a.Conf = config.NewManager()
		err = a.Conf.Load(config.DefaultConfigPath, acceptEmptyConfig)
		if err != nil {
			return err
		}
	}

	// Allow overwriting the root certificate
	if len(rootCert) != 0 {
		a.Conf.Api().Set(func(param *config.ApiConfig) {
			param.RootCertificate = rootCert
		})
	}

	return nil
}

// Run starts polling and the web interface, it does not block
func (a *App) Run() error {
	if err := a.Poller.Start(a.ctx); err != nil {
		return err
	}

	listen := a.Conf.Web().C().Listen

	a.WG.Add(1)
	go func() {
		defer a.WG.Done()

		if err := web.Serve(a.ctx, listen, web.Handler(a.View, a.Poller)); err != nil {
			log.Error("web interface stopped", zap.String("addr", listen), zap.Error(err))
		}
	}()

	return nil
}

// LogSnapshot writes the current view state to the log
func (a *App) LogSnapshot() {
	s := a.View.Snapshot()
	log.Info("tracker state",
		zap.String("date", s.SelectedDate),
		zap.Stringer("position", s.Position),
		zap.Int("route_points", len(s.Route)),
		zap.Float64("route_km", s.Route.LengthKM()),
		zap.Bool("path_visible", s.PathVisible),
		zap.String("time", s.Details.Time))
}

func Setup(instrumentation bool) (*App, error) {
	app := App{}

	// Skip cli flag parsing on testing
	var flags config.CLIFlags
	if !instrumentation {
		flags = config.ParseCLIFlags()
	} else {
		flags = config.CLIFlags{Debug: true}
		app.TestRunning = instrumentation
	}

	// Variables in the environment win over the dotenv file
	if err := config.LoadEnvFile(flags.EnvFile); err != nil {
		return nil, err
	}

	app.ExitSignal = make(chan os.Signal, 1)
	signal.Notify(app.ExitSignal, os.Interrupt, syscall.SIGTERM)

	app.ReloadSignal = make(chan os.Signal, 1)
	signal.Notify(app.ReloadSignal, syscall.SIGUSR1)

	log.Init(flags.Debug)

	log.Info("tracker starting")

	if err := app.loadConfiguration(flags.ConfigPath, flags.RootCert, instrumentation); err != nil {
		app.Shutdown()
		return nil, err
	}

	// The environment may enable debug logging as well
	debug := flags.Debug || app.Conf.Client().C().Debug
	if debug && !flags.Debug {
		log.Init(true)
	}

	var err error
	app.Api, err = api.NewRestAPI(app.Conf, debug)
	if err != nil {
		app.Shutdown()
		log.Error("Could not initialize api, aborting", zap.Error(err))
		return nil, err
	}

	tc := app.Conf.Tracker().C()
	app.View = view.New(view.OptionsFromConfig(tc, app.Conf.Web().C()))
	app.Poller = poller.New(app.Api, app.View, tc.PollInterval.Value())

	app.ctx, app.cancel = context.WithCancel(context.Background())

	log.Info("tracker ready",
		zap.String("name", app.Conf.Client().C().Name),
		zap.String("backend", app.Api.GetBaseURL()),
		zap.String("date", tc.DefaultDate),
		zap.Duration("poll_interval", tc.PollInterval.Value()))

	return &app, nil
}
