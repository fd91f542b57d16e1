package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	adminhttp "jinding-ha/internal/adapters/input/http"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the setup web page and admin API",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if a.ha.IsConfigured() {
			if err := a.setup.Refresh(ctx); err != nil {
				a.logger.Warn("initial refresh failed", zap.Error(err))
			}
		} else {
			a.logger.Info("home assistant not configured yet, log in from /admin")
		}

		addr := a.cfg.HTTP.Addr
		if flagAddr != "" {
			addr = flagAddr
		}
		server := adminhttp.NewServer(a.setup, a.logger.Named("http"))
		if err := server.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		a.logger.Info("admin server stopped")
		return nil
	}),
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (env: JINDING_HTTP_ADDR, overrides config)")
	rootCmd.AddCommand(serveCmd)
}
