package seed

import (
	"time"

	"github.com/maulas/quiniela/internal/domain/model"
)

// Config holds configuration for the demo-season seeder.
type Config struct {
	SQLitePath string        // Database file to seed
	BaseURL    string        // Optional service URL to verify against
	NumMembers int           // Number of pool members to create
	NumRounds  int           // Number of rounds to create
	NumPlayed  int           // How many of those rounds carry official results
	Timeout    time.Duration // HTTP request timeout for verification
	LogFile    string        // Log file for seeder output
	Verbose    bool          // Enable verbose logging
}

// Season is the full set of generated documents.
type Season struct {
	Members     []model.Member
	Rounds      []model.Round
	Predictions []model.Prediction
	Doubles     []model.Prediction
	Incomes     []model.Income
}

// Stats holds seeding statistics.
type Stats struct {
	MembersCreated     int
	RoundsCreated      int
	PredictionsCreated int
	DoublesCreated     int
	IncomesCreated     int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
