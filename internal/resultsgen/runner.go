package resultsgen

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o640
	pollInterval        = 100 * time.Millisecond
)

type refreshAck struct {
	ID  string `json:"id"`
	Seq uint64 `json:"seq"`
}

// Run generates a results file and, when cfg.BaseURL is set, asks the
// leaderboard to reload it and verifies the served board.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("gen-results")

	log.Info(ctx, "generating results",
		logger.Int("rows", cfg.Rows),
		logger.Float64("tieRate", cfg.TieRate),
		logger.Float64("malformedRate", cfg.MalformedRate),
		logger.String("output", cfg.OutputFile))

	rows := Generate(cfg, stats)
	var buf bytes.Buffer
	if err := Write(&buf, rows); err != nil {
		return stats, fmt.Errorf("render results: %w", err)
	}
	if err := saveFile(cfg.OutputFile, buf.Bytes()); err != nil {
		return stats, err
	}
	log.Info(ctx, "results written",
		logger.String("file", cfg.OutputFile),
		logger.Int("ties", stats.Ties),
		logger.Int("malformed", stats.Malformed))

	if cfg.BaseURL != "" {
		expected := standings.NewBuilder().Load(buf.String())
		if err := verifyServer(ctx, cfg, expected, stats); err != nil {
			return stats, err
		}
		log.Info(ctx, "served board matches the file", logger.Uint64("seq", stats.RefreshSeq))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	return stats, nil
}

func saveFile(filename string, data []byte) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// verifyServer triggers a reload and polls /podium until a board at least
// as new as the reload is published, then compares it with expected.
func verifyServer(ctx context.Context, cfg *Config, expected types.Board, stats *Stats) error {
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.do(ctx, http.MethodGet, "/healthz", http.StatusOK, nil); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	var ack refreshAck
	if err := client.do(ctx, http.MethodPost, "/refresh", http.StatusAccepted, &ack); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	stats.RefreshSeq = ack.Seq

	deadline := time.Now().Add(cfg.Settle)
	for {
		var served types.Board
		err := client.do(ctx, http.MethodGet, "/podium", http.StatusOK, &served)
		if err == nil && served.Seq >= ack.Seq {
			if err := verifyBoard(expected, served); err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
			stats.Verified = true
			return nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return fmt.Errorf("board not published: %w", err)
			}
			return fmt.Errorf("board not published: still at seq %d, waiting for %d", served.Seq, ack.Seq)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for board: %w", ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}
