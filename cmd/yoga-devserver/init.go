package main

import (
	"time"

	"github.com/yogastudio/yoga/internal/config"
	"github.com/yogastudio/yoga/internal/version"
)

var loader *config.Loader

//nolint:gochecknoinit
func init() {
	rootCmd.Version = version.Version
	registerConfig()
}

func registerConfig() {
	loader = config.NewLoader(rootCmd.Flags())
	defaults := config.DefaultConfig().Devserver
	name := func(components ...string) config.Key { return append(config.Key{"devserver"}, components...) }

	loader.String(name("host"),
		defaults.Host, "interface to listen on")
	loader.Int(name("port"),
		defaults.Port, "port to listen on")
	loader.Bool(name("metrics"),
		defaults.Metrics, "expose prometheus metrics on /metrics")
	loader.String(name("security", "jwt-secret"),
		defaults.Security.JWTSecret, "secret signing the bearer tokens (random when empty)")
	loader.String(name("security", "token-ttl"),
		time.Duration(defaults.Security.TokenTTL).String(), "validity of issued tokens")
}
