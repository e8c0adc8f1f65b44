package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNoBoard      = errors.New("no board published yet")
	ErrNotFound     = errors.New("player not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
