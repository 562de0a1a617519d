package seed

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/maulas/quiniela/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		logger.SetLevel(slog.LevelDebug)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
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

// ShowHelp prints usage information for the seeding tool.
func ShowHelp() {
	os.Stdout.WriteString(`Quiniela Demo Season Seeder
===========================

Fills a SQLite document store with a synthetic season: members, rounds
with official results, member predictions, the pooled doubles column and
a couple of manual incomes. Point the service at the same database file
afterwards to browse realistic data.

Usage:
  go run cmd/seed/main.go [options]

Options:
  -db string
        SQLite database file to seed (default "quiniela.db")
  -url string
        Optional service URL to verify after seeding (default: skip verification)
  -members int
        Number of pool members to create (default 14)
  -rounds int
        Number of rounds to create (default 20)
  -played int
        How many rounds carry official results (default 16)
  -timeout duration
        HTTP request timeout for verification (default 30s)
  -log string
        Log file for seeder output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed the default database
  go run cmd/seed/main.go

  # Seed a fresh file and verify against a running service
  go run cmd/seed/main.go -db demo.db -url http://localhost:9080
`)
}
