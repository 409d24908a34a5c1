package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/arbor"
	"github.com/phanxgames/arbor/internal/config"
	"github.com/phanxgames/arbor/internal/logging"
	"github.com/phanxgames/arbor/internal/scenefile"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "arbor projects scene trees into accessibility trees",
	Long: `arbor loads a YAML scene description, projects it into an accessibility
tree, and lets you walk keyboard focus through it from the terminal or over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.config/arbor/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// setup loads configuration and builds the logger for cmd.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logging.New(level), nil
}

// loadScene builds a scene from the description at path. The file's title
// and scale factor win over the configured ones.
func loadScene(path string, cfg config.Config, logger *slog.Logger, opts ...arbor.Option) (*arbor.Scene, error) {
	f, err := scenefile.Load(path)
	if err != nil {
		return nil, err
	}
	if f.Title == "" {
		f.Title = cfg.Scene.Title
	}
	if f.ScaleFactor <= 0 {
		f.ScaleFactor = cfg.Scene.ScaleFactor
	}
	opts = append([]arbor.Option{arbor.WithDebug(cfg.Scene.Debug)}, opts...)
	return f.NewScene(logger, opts...)
}
