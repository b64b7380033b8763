package matchsim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/preset-app/matchmaking/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "matchsim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the match simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Matchcore Simulation Tool
=========================

A concurrent tool for exercising the matchmaking service: it prefetches
profile/gig pairs, reads compatibility scores back, and verifies that
recommendations are consistently ranked.

Usage:
  go run cmd/matchsim/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -profiles int
        Number of profiles to simulate (default 50)
  -gigs int
        Number of gigs to simulate (default 200)
  -batch int
        Gig IDs per prefetch request (default 25)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for simulation output (default: matchsim_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/matchsim/main.go

  # Heavier run against a local instance
  go run cmd/matchsim/main.go -profiles 200 -gigs 1000 -workers 16

Note: reads that reach the service before a pair is scored trigger an
on-demand oracle call, so the tool polls /stats until the prefetch
queue drains before verifying scores.
`)
}
