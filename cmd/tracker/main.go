package main

import (
	"fmt"
	"os"

	"github.com/LeoCommon/tracker/internal/tracker"
	"github.com/LeoCommon/tracker/pkg/log"
	"go.uber.org/zap"
)

func main() {
	app, err := tracker.Setup(false)
	if err != nil || app == nil {
		fmt.Printf("Initialization failed, error: %s\n", err)
		os.Exit(1)
	}

	probeBackend(app)

	if err := app.Run(); err != nil {
		log.Error("could not start tracking", zap.Error(err))
		app.Shutdown()
		os.Exit(1)
	}

	for {
		select {
		case <-app.ReloadSignal:
			app.LogSnapshot()

		case <-app.ExitSignal:
			log.Info("exit signal received - shutting down poller and web interface")

			app.Shutdown()

			log.Info("stopped tracking")
			log.Sync()
			return
		}
	}
}
