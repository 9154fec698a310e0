// Command server runs the food rotation HTTP API.
//
// Settings come from the environment (optionally a .env file) and may be
// overridden with flags:
//
//	server --port 9090 --db data/rotation.db --static public --log-level debug
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sakif/food-rotation/internal/config"
	"github.com/sakif/food-rotation/internal/server"
)

var (
	flagPort      int
	flagDBPath    string
	flagStaticDir string
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "server runs the food rotation API",
	Long:          "server tracks what you eat and tells you which foods are back in rotation.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().IntVar(&flagPort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.Flags().StringVar(&flagDBPath, "db", "", "Path to SQLite database (overrides DB_PATH)")
	rootCmd.Flags().StringVar(&flagStaticDir, "static", "", "Directory with the web UI (overrides STATIC_DIR)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = flagPort
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if cmd.Flags().Changed("static") {
		cfg.StaticDir = flagStaticDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating database directory %s: %w", dbDir, err)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Start()
}
