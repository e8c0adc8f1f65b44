// Package resultsgen writes sample time-trial result files and checks that
// a running leaderboard serves them in the expected order.
package resultsgen

import "time"

// Config holds configuration for one generation run.
type Config struct {
	Rows          int           // Number of participant rows
	TieRate       float64       // Share of rows that copy an earlier time, 0..1
	MalformedRate float64       // Share of rows with an unreadable time, 0..1
	Seed          uint64        // Zero picks a random seed
	OutputFile    string        // Results file to write
	BaseURL       string        // Leaderboard to verify against; empty skips it
	Timeout       time.Duration // HTTP request timeout
	Settle        time.Duration // How long to wait for the reload to publish
}

// Row is one generated participant.
type Row struct {
	Player  string
	Time    string
	Profile string
}

// Stats holds run statistics.
type Stats struct {
	RowsGenerated int
	Ties          int
	Malformed     int
	RefreshSeq    uint64
	Verified      bool
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
