// Package types contains common types used across the application
package types

import "time"

// Entry is one ranked participant as renderers see it.
type Entry struct {
	Position   int    `json:"position"`
	Player     string `json:"player"`
	Time       string `json:"time"`
	DurationMS int64  `json:"duration_ms"`
	// Unparsed is set when strict ranking could not read Time.
	Unparsed bool              `json:"unparsed,omitempty"`
	Profile  string            `json:"profile"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// Board is one complete rendering of the ranked sequence: the podium, the
// secondary list and the full ranking behind them.
type Board struct {
	Seq      uint64    `json:"seq"`
	LoadID   string    `json:"load_id,omitempty"`
	Source   string    `json:"source,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`

	Total int `json:"total"`
	// PodiumComplete is false when fewer than a full podium of entries exist.
	PodiumComplete bool    `json:"podium_complete"`
	Podium         []Entry `json:"podium"`
	Others         []Entry `json:"others"`

	// Entries is the whole ranked sequence; Podium and Others are windows on it.
	Entries []Entry `json:"-"`
}

// Top returns at most n entries from the head of the ranking.
func (b Board) Top(n int) []Entry {
	if n < 0 {
		n = 0
	}
	if n > len(b.Entries) {
		n = len(b.Entries)
	}
	out := make([]Entry, n)
	copy(out, b.Entries[:n])
	return out
}

// Status describes the refresh machinery for /stats.
type Status struct {
	Started            bool       `json:"started"`
	Source             string     `json:"source,omitempty"`
	Workers            int        `json:"workers"`
	QueueSize          int        `json:"queue_size"`
	QueueLength        int        `json:"queue_length"`
	RefreshIntervalSec int        `json:"refresh_interval_sec"`
	BoardSeq           uint64     `json:"board_seq"`
	TotalEntries       int        `json:"total_entries"`
	LoadID             string     `json:"load_id,omitempty"`
	LoadedAt           *time.Time `json:"loaded_at,omitempty"`
	LastAttempt        *time.Time `json:"last_attempt,omitempty"`
	LastError          string     `json:"last_error,omitempty"`
}
