package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve <scene.yaml>",
	Short: "Serve a scene's accessibility tree over HTTP",
	Long: `Loads a scene description, keeps it updating at a fixed rate and exposes
its accessibility tree, focus navigation and metrics as a JSON API.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		tps, _ := cmd.Flags().GetInt("tps")

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		scene, err := loadScene(args[0], cfg, logger, arbor.WithMetrics(arbor.NewMetrics(reg)))
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr: cfg.Server.Addr,
			Handler: server.NewHandler(scene.Accessibility(),
				server.WithLogger(logger), server.WithGatherer(reg)),
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go tick(ctx, scene, tps)

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("serving scene", "addr", srv.Addr, "scene", args[0])
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server: %w", err)
			}
			return nil

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			cancel()
			return shutdownServer(srv, logger)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	serveCmd.Flags().Int("tps", 30, "scene updates per second")
}

// tick drives scene.Update until ctx is done. The scene is only touched from
// this goroutine; HTTP handlers go through the mutex-guarded accessibility
// state.
func tick(ctx context.Context, scene *arbor.Scene, tps int) {
	if tps <= 0 {
		tps = 30
	}
	t := time.NewTicker(time.Second / time.Duration(tps))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			scene.Update()
		}
	}
}

func shutdownServer(srv *http.Server, logger *slog.Logger) error {
	// Give outstanding requests a deadline for completion.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
		return srv.Close()
	}
	logger.Info("server stopped gracefully")
	return nil
}
