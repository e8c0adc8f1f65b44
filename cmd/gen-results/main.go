package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/podium/internal/resultsgen"
	"github.com/okian/podium/pkg/logger"
)

// Default configuration constants.
const (
	defaultRows       = 25
	defaultTimeout    = 10 * time.Second
	defaultSettle     = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		output    = flag.String("output", "results.csv", "Results file to write")
		rows      = flag.Int("rows", defaultRows, "Number of participant rows")
		ties      = flag.Float64("ties", 0.1, "Share of rows that repeat an earlier time (0..1)")
		malformed = flag.Float64("malformed", 0, "Share of rows with an unreadable time (0..1)")
		seed      = flag.Uint64("seed", 0, "Random seed; 0 picks one")
		baseURL   = flag.String("url", "", "Leaderboard to refresh and verify, e.g. http://localhost:9080")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle    = flag.Duration("settle", defaultSettle, "How long to wait for the reload to publish")
		logFormat = flag.String("log-format", logger.FormatText, "Log format: text or json")
	)
	flag.Parse()

	if err := logger.InitWithWriter(os.Stderr, *logFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	stats, err := resultsgen.Run(ctx, &resultsgen.Config{
		Rows:          *rows,
		TieRate:       *ties,
		MalformedRate: *malformed,
		Seed:          *seed,
		OutputFile:    *output,
		BaseURL:       *baseURL,
		Timeout:       *timeout,
		Settle:        *settle,
	})
	if err != nil {
		logger.Get().Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("rows", stats.RowsGenerated),
		logger.Int("ties", stats.Ties),
		logger.Int("malformed", stats.Malformed),
		logger.Bool("verified", stats.Verified),
		logger.Duration("duration", stats.Duration))
}
