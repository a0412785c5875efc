package main

import (
	"flag"
	"os"

	"github.com/LeoCommon/tracker/internal/tracker/config"
	"github.com/LeoCommon/tracker/pkg/log"
	"go.uber.org/zap"
)

// Writes a config file with every default filled in
func main() {
	out := flag.String("out", "./config/config.toml", "where to write the sample config")
	flag.Parse()

	log.Init(true)

	if _, err := os.Stat(*out); err == nil {
		log.Fatal("refusing to overwrite existing config", zap.String("path", *out))
	}

	// Loading a missing file yields the defaults, saving writes them to the same path
	m := config.NewManager()
	if err := m.Load(*out, true); err != nil {
		log.Fatal("default config does not verify", zap.Error(err))
	}

	if err := m.Save(); err != nil {
		log.Fatal("failed to write config file", zap.String("path", *out), zap.Error(err))
	}

	log.Info("sample config written", zap.String("path", *out))
}
