package main

import (
	"github.com/yogastudio/yoga/internal/config"
	"github.com/yogastudio/yoga/internal/version"
)

var loader *config.Loader

//nolint:gochecknoinit
func init() {
	rootCmd.Version = version.Version
	rootCmd.AddCommand(newCompletionCmd(), newVersionCmd())
	registerConfig()
}

func registerConfig() {
	loader = config.NewLoader(rootCmd.Flags())
	defaults := config.DefaultConfig()
	name := func(components ...string) config.Key { return components }

	loader.String(name("api", "url"),
		defaults.API.URL, "base url of the studio backend")
	loader.Bool(name("console", "prompt"),
		defaults.Console.Prompt, "print a prompt before each command")
	loader.Bool(name("console", "color"),
		defaults.Console.Color, "color the login banners")
}
