package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"buildmatrix/internal/history"
	"buildmatrix/internal/project"
	"buildmatrix/internal/server"

	"github.com/spf13/cobra"
)

var (
	serveConfigFile string
	logFile         string
	dbPath          string
	host            string
	port            int
	testMode        bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the matrix-resolution HTTP service",
	Long: `Start the HTTP service for central matrix resolution.

The service answers resolve requests against the loaded configuration and
records every resolution in a history database.`,
	RunE: runServe,
}

func init() {
	// Flags for serve command
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", getEnvOrDefault("BUILDMATRIX_CONFIG_FILE", ""), "Path to projects.json configuration file")
	serveCmd.Flags().StringVar(&logFile, "log", getEnvOrDefault("BUILDMATRIX_LOG_FILE", "./resolutions.log"), "Path to log file")
	serveCmd.Flags().StringVar(&dbPath, "db", getEnvOrDefault("BUILDMATRIX_DB_PATH", "./resolutions.db"), "Path to SQLite database")
	serveCmd.Flags().StringVar(&host, "host", getEnvOrDefault("BUILDMATRIX_HOST", "127.0.0.1"), "Host to bind to")
	serveCmd.Flags().IntVarP(&port, "port", "p", getEnvOrDefaultInt("BUILDMATRIX_PORT", 5000), "Port to listen on")
	serveCmd.Flags().BoolVar(&testMode, "test-mode", os.Getenv("BUILDMATRIX_SKIP_HISTORY") == "1", "Enable test mode (no history, no rate limits)")
}

func runServe(cmd *cobra.Command, args []string) error {
	configFile, err := findConfigFile(serveConfigFile)
	if err != nil {
		return err
	}

	// Set up logging
	logger, logFileHandle, err := setupLogging(logFile)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logFileHandle.Close()

	logger.Info("Starting buildmatrix")

	// Load configuration
	logger.Info("Loading configuration", "config", configFile)
	config, err := project.LoadConfig(configFile)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	registry := project.NewRegistry(config)
	logger.Info("Configuration validated successfully", "count", registry.Count())

	// Warn if no projects are configured
	if registry.Count() == 0 {
		logger.Warn("No projects configured in config file", "config", configFile)
		logger.Warn("The server will start but every resolution will rely on the defaults entry")
	}

	// Initialize history database
	var hist *history.History
	if !testMode {
		logger.Info("Initializing history database", "db", dbPath)
		hist, err = history.NewHistory(dbPath)
		if err != nil {
			logger.Error("Failed to initialize history database", "error", err)
			return fmt.Errorf("failed to initialize history database: %w", err)
		}
		defer hist.Close()
	}

	// Create and start server
	srv := server.NewServer(registry, hist, logger, testMode)

	logger.Info("Starting HTTP server", "host", host, "port", port)
	if err := srv.Start(host, port); err != nil {
		logger.Error("Server failed", "error", err)
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// setupLogging configures slog for file logging
// Returns both the logger and the file handle (caller must close the file)
func setupLogging(logPath string) (*slog.Logger, *os.File, error) {
	// Create log directory if needed
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open log file with secure permissions
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Create multi-writer to log to both file and console
	multiWriter := io.MultiWriter(os.Stdout, file)

	// Create JSON handler for structured logging
	handler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	logger := slog.New(handler)

	return logger, file, nil
}
