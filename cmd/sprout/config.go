package main

import (
	"os"

	"github.com/vango-dev/sprout/internal/config"
	"github.com/vango-dev/sprout/internal/errors"
	"github.com/vango-dev/sprout/pkg/server"
)

// loadConfig loads the file named by --config, or the nearest sprout.json or
// sprout.yaml. Without either the defaults are used.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if errors.HasCode(err, "E141") {
			cfg, err = config.New(), nil
			if envErr := cfg.ApplyEnv(os.LookupEnv); envErr != nil {
				return nil, envErr
			}
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serverConfig translates the server section of cfg. Unset values keep the
// server defaults.
func serverConfig(cfg *config.Config) *server.ServerConfig {
	sc := server.DefaultServerConfig().WithAddress(cfg.DevAddress())
	sc.Title = cfg.Name
	sc.MaxSessions = cfg.Server.MaxSessions
	if d := config.Duration(cfg.Server.ShutdownTimeout); d > 0 {
		sc.ShutdownTimeout = d
	}

	sess := sc.SessionConfig
	if d := config.Duration(cfg.Server.ReadTimeout); d > 0 {
		sess.ReadTimeout = d
	}
	if d := config.Duration(cfg.Server.WriteTimeout); d > 0 {
		sess.WriteTimeout = d
	}
	if d := config.Duration(cfg.Server.HeartbeatInterval); d > 0 {
		sess.HeartbeatInterval = d
	}
	if cfg.Server.MaxMessageSize > 0 {
		sess.MaxMessageSize = cfg.Server.MaxMessageSize
	}
	return sc
}
