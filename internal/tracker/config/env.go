package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/LeoCommon/tracker/pkg/log"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	EnvApiURL = "TRACKER_API_URL"
	EnvListen = "TRACKER_LISTEN"
	EnvDebug  = "TRACKER_DEBUG"
)

// LoadEnvFile populates the process environment from a dotenv file.
// Variables that are already set win, a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// applyEnvironment overrides file values with TRACKER_* variables
func applyEnvironment(c *MainConfig) {
	if v := os.Getenv(EnvApiURL); v != "" {
		log.Debug("api url overridden by environment", zap.String("url", v))
		c.Api.Url = v
	}

	if v := os.Getenv(EnvListen); v != "" {
		c.Web.Listen = v
	}

	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			log.Warn("ignoring malformed debug override", zap.String("value", v))
			return
		}
		c.Client.Debug = debug
	}
}
