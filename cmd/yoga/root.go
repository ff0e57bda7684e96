package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yogastudio/yoga/internal/api"
	"github.com/yogastudio/yoga/internal/auth"
	"github.com/yogastudio/yoga/internal/config"
	"github.com/yogastudio/yoga/internal/console"
	"github.com/yogastudio/yoga/internal/directory"
	"github.com/yogastudio/yoga/internal/prom"
	"github.com/yogastudio/yoga/internal/router"
	"github.com/yogastudio/yoga/internal/sessions"
	"github.com/yogastudio/yoga/internal/sessionstore"
	"github.com/yogastudio/yoga/internal/views"
	"github.com/yogastudio/yoga/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:          "yoga",
	Short:        "browse and book yoga studio sessions",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRoot(context.Background(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runRoot(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	logger.SetLogrus(cfg.Log)
	// Screens go to stdout.
	logger.SetOutput(os.Stderr)

	printable, err := cfg.Printable()
	if err != nil {
		return err
	}
	log.Debugf("yoga configuration: %s", printable)

	if err := prom.Register(prometheus.DefaultRegisterer); err != nil {
		return errors.Wrap(err, "registering metrics")
	}
	c, err := newConsole(cfg, out)
	if err != nil {
		return err
	}
	return c.Run(ctx, in)
}

func newConsole(cfg *config.Config, out io.Writer) (*console.Console, error) {
	store := sessionstore.New()
	client, err := api.NewClient(cfg.API.URL, store)
	if err != nil {
		return nil, errors.Wrap(err, "creating api client")
	}
	deps := views.Deps{
		Store:    store,
		Auth:     auth.NewGateway(client),
		Sessions: sessions.NewRepository(client),
		Teachers: directory.NewTeacherLookup(client),
		Users:    directory.NewUserLookup(client),
	}
	return console.New(deps, router.New(store), out, console.Options{
		Color:    cfg.Console.Color,
		Prompt:   cfg.Console.Prompt,
		Gatherer: prometheus.DefaultGatherer,
	}), nil
}
