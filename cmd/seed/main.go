package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/maulas/quiniela/internal/seed"
)

// Default configuration constants.
const (
	defaultMembers     = 14
	defaultRounds      = 20
	defaultPlayed      = 16
	defaultTimeout     = 30 * time.Second
	defaultSeedTimeout = 5 * time.Minute
)

func main() {
	var (
		dbPath     = flag.String("db", "quiniela.db", "SQLite database file to seed")
		baseURL    = flag.String("url", "", "Optional service URL to verify after seeding")
		numMembers = flag.Int("members", defaultMembers, "Number of pool members to create")
		numRounds  = flag.Int("rounds", defaultRounds, "Number of rounds to create")
		numPlayed  = flag.Int("played", defaultPlayed, "How many rounds carry official results")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout for verification")
		logFile    = flag.String("log", "", "Log file for seeder output (default: seed_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	// Setup logging
	if err := seed.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultSeedTimeout)
	defer cancel()

	config := &seed.Config{
		SQLitePath: *dbPath,
		BaseURL:    *baseURL,
		NumMembers: *numMembers,
		NumRounds:  *numRounds,
		NumPlayed:  *numPlayed,
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed failed: " + err.Error() + "\n")
		return
	}
}
