// Package repository holds the published leaderboard.
package repository

import (
	"context"

	"github.com/okian/podium/internal/domain/types"
)

// Store provides read/write access to the published board.
type Store interface {
	// Publish offers a board built for the request initiated at seq. It
	// is accepted only if no later-initiated board was published.
	Publish(ctx context.Context, seq uint64, board types.Board) bool

	// Current returns the latest board, or ErrNoBoard before the first publish.
	Current(ctx context.Context) (types.Board, error)

	// TopN returns at most n entries from the head of the ranking.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// Rank returns the best-placed entry whose name matches player
	// case-insensitively. Returns ErrNotFound if there is none.
	Rank(ctx context.Context, player string) (types.Entry, error)

	// Count returns the number of ranked entries.
	Count(ctx context.Context) int

	// Subscribe returns a channel of published boards and a cancel func.
	Subscribe() (<-chan types.Board, func())
}
