package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/preset-app/matchmaking/internal/matchsim"
)

// Default configuration constants.
const (
	defaultNumProfiles = 50
	defaultNumGigs     = 200
	defaultBatchSize   = 25
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultSimTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8080", "Base URL of the service")
		numProfiles = flag.Int("profiles", defaultNumProfiles, "Number of profiles to simulate")
		numGigs     = flag.Int("gigs", defaultNumGigs, "Number of gigs to simulate")
		batchSize   = flag.Int("batch", defaultBatchSize, "Gig IDs per prefetch request")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile     = flag.String("log", "", "Log file for simulation output (default: matchsim_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		matchsim.ShowHelp()
		return
	}

	// Setup logging
	if err := matchsim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultSimTimeout)
	defer cancel()

	// Create simulation configuration
	config := &matchsim.Config{
		BaseURL:     *baseURL,
		NumProfiles: *numProfiles,
		NumGigs:     *numGigs,
		BatchSize:   *batchSize,
		Workers:     *workers,
		Timeout:     *timeout,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the simulation
	if err := matchsim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
