package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yogastudio/yoga/internal/devserver"
	"github.com/yogastudio/yoga/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:          "yoga-devserver",
	Short:        "serve the studio REST API from memory",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runRoot(ctx)
	},
}

func runRoot(ctx context.Context) error {
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	logger.SetLogrus(cfg.Log)

	printable, err := cfg.Printable()
	if err != nil {
		return err
	}
	log.Infof("devserver configuration: %s", printable)

	srv, err := devserver.New(cfg.DevserverOptions())
	if err != nil {
		return err
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start(cfg.Devserver.ListenAddr())
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	return nil
}
