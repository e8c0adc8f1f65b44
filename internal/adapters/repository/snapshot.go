package repository

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/metrics"
)

// Snapshot is an immutable published board plus its lookup index.
type Snapshot struct {
	Board types.Board
	// byPlayer maps a folded player name to the index of its best entry.
	byPlayer map[string]int
}

func newSnapshot(board types.Board) *Snapshot {
	idx := make(map[string]int, len(board.Entries))
	for i, e := range board.Entries {
		key := strings.ToLower(strings.TrimSpace(e.Player))
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return &Snapshot{Board: board, byPlayer: idx}
}

// SnapshotStore keeps the latest board behind an atomic pointer so reads
// never block publishers.
type SnapshotStore struct {
	mu       sync.Mutex // serialises Publish and subscriber changes
	snapshot atomic.Pointer[Snapshot]
	seq      uint64
	closed   bool

	subscriberBuffer int
	subscribers      map[int]chan types.Board
	nextSubscriber   int
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		subscriberBuffer: 1,
		subscribers:      make(map[int]chan types.Board),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish stores board if seq is newer than the stored one.
func (s *SnapshotStore) Publish(_ context.Context, seq uint64, board types.Board) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || seq <= s.seq {
		metrics.RecordPublish(false)
		return false
	}
	board.Seq = seq
	s.seq = seq
	s.snapshot.Store(newSnapshot(board))
	metrics.RecordPublish(true)

	for _, ch := range s.subscribers {
		offer(ch, board)
	}
	return true
}

// offer delivers board, discarding the oldest pending one when full.
func offer(ch chan types.Board, board types.Board) {
	for {
		select {
		case ch <- board:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Seq returns the sequence of the current board, 0 before the first publish.
func (s *SnapshotStore) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Current returns the latest board.
func (s *SnapshotStore) Current(_ context.Context) (types.Board, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return types.Board{}, ErrNoBoard
	}
	return snap.Board, nil
}

// TopN returns at most n entries from the head of the ranking.
func (s *SnapshotStore) TopN(_ context.Context, n int) ([]types.Entry, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoBoard
	}
	return snap.Board.Top(n), nil
}

// Rank looks a player up by name.
func (s *SnapshotStore) Rank(_ context.Context, player string) (types.Entry, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return types.Entry{}, ErrNoBoard
	}
	i, ok := snap.byPlayer[strings.ToLower(strings.TrimSpace(player))]
	if !ok {
		return types.Entry{}, ErrNotFound
	}
	return snap.Board.Entries[i], nil
}

// Count returns the number of ranked entries.
func (s *SnapshotStore) Count(_ context.Context) int {
	snap := s.snapshot.Load()
	if snap == nil {
		return 0
	}
	return snap.Board.Total
}

// Subscribe registers a receiver of published boards. The current board,
// if any, is delivered first. A slow receiver only sees the newest boards.
func (s *SnapshotStore) Subscribe() (<-chan types.Board, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan types.Board, s.subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	if snap := s.snapshot.Load(); snap != nil {
		ch <- snap.Board
	}
	id := s.nextSubscriber
	s.nextSubscriber++
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(c)
			}
		})
	}
}

// Close ends all subscriptions and refuses further publishes.
func (s *SnapshotStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
	return nil
}
