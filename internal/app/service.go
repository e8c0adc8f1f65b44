// Package service wires the leaderboard pipeline together and implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	refreshqueue "github.com/okian/podium/internal/adapters/mq/queue"
	"github.com/okian/podium/internal/adapters/mq/worker"
	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/diagnostics"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
)

const (
	defaultWorkerCount = 1
	defaultQueueSize   = 64
)

// Service owns the published board and the machinery that refreshes it.
type Service struct {
	mu sync.RWMutex

	// Core components
	source   worker.Source
	builder  *standings.Builder
	store    *repository.SnapshotStore
	queue    *refreshqueue.InMemoryQueue
	pipeline *worker.Pipeline
	pool     *worker.Pool

	// Configuration
	workerCount     int
	queueSize       int
	refreshInterval time.Duration

	// State
	seq        atomic.Uint64
	started    bool
	stopped    bool
	cancel     context.CancelFunc
	tickerDone chan struct{}

	// Last pipeline attempt, guarded by statusMu.
	statusMu    sync.Mutex
	lastAttempt time.Time
	lastErr     error

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		builder:     standings.NewBuilder(),
		store:       repository.NewSnapshotStore(),
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start performs the initial load synchronously, then starts the workers
// and the periodic refresh. A failed initial load is logged, not returned:
// the service runs and serves the fallback until a load succeeds.
// A stopped service cannot be started again.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.stopped {
		return ErrStopped
	}
	if s.source == nil {
		return ErrNoSource
	}

	s.logger.Info(ctx, "starting leaderboard service...", logger.String("source", s.source.Name()))

	s.queue = refreshqueue.NewInMemoryQueue(refreshqueue.WithCapacity(s.queueSize))
	s.pipeline = worker.NewPipeline(s.source, s.builder, s.store)

	if _, err := s.run(ctx, s.newRequest(model.ReasonStartup)); err != nil {
		s.logger.Warn(ctx, "initial load failed; serving without a board", logger.Error(err))
	}

	// Workers outlive the caller's deadline; Stop ends them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool = worker.NewPool(s.workerCount, s.queue, runnerFunc(s.run))
	s.pool.Start(runCtx)

	s.tickerDone = make(chan struct{})
	go s.tick(runCtx, s.tickerDone)

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("refreshInterval", s.refreshInterval),
	)
	return nil
}

// runnerFunc adapts a function to worker.Runner.
type runnerFunc func(ctx context.Context, req model.RefreshRequest) (worker.Result, error)

func (f runnerFunc) Run(ctx context.Context, req model.RefreshRequest) (worker.Result, error) {
	return f(ctx, req)
}

// run executes the pipeline and records the attempt for stats.
func (s *Service) run(ctx context.Context, req model.RefreshRequest) (worker.Result, error) {
	res, err := s.pipeline.Run(ctx, req)

	s.statusMu.Lock()
	s.lastAttempt = time.Now()
	s.lastErr = err
	s.statusMu.Unlock()
	return res, err
}

func (s *Service) tick(ctx context.Context, done chan struct{}) {
	defer close(done)
	if s.refreshInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx, model.ReasonInterval); err != nil {
				s.logger.Warn(ctx, "periodic refresh skipped", logger.Error(err))
			}
		}
	}
}

// newRequest stamps a request with the next initiation sequence.
func (s *Service) newRequest(reason string) model.RefreshRequest {
	return model.RefreshRequest{
		ID:          uuid.NewString(),
		Seq:         s.seq.Add(1),
		Reason:      reason,
		RequestedAt: time.Now(),
	}
}

// Refresh queues a load. It returns the request on success, or
// refreshqueue.ErrFull / ErrClosed / ErrNotStarted.
func (s *Service) Refresh(ctx context.Context, reason string) (model.RefreshRequest, error) {
	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()
	if !started {
		return model.RefreshRequest{}, ErrNotStarted
	}

	req := s.newRequest(reason)
	if err := q.Enqueue(ctx, req); err != nil {
		return model.RefreshRequest{}, err
	}
	s.logger.Debug(ctx, "refresh queued", logger.String("load_id", req.ID), logger.Uint64("seq", req.Seq))
	return req, nil
}

// RefreshNow runs one load synchronously and returns its result.
func (s *Service) RefreshNow(ctx context.Context) (worker.Result, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return worker.Result{}, ErrNotStarted
	}
	return s.run(ctx, s.newRequest(model.ReasonManual))
}

// Board returns the current board.
func (s *Service) Board(ctx context.Context) (types.Board, error) {
	return s.store.Current(ctx)
}

// TopN returns the top N leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	return s.store.TopN(ctx, n)
}

// Rank returns the entry of the named player.
func (s *Service) Rank(ctx context.Context, player string) (types.Entry, error) {
	return s.store.Rank(ctx, player)
}

// Subscribe streams published boards; see repository.SnapshotStore.Subscribe.
func (s *Service) Subscribe() (<-chan types.Board, func()) {
	return s.store.Subscribe()
}

// Diagnostics fetches the source and reports data-quality issues in it.
func (s *Service) Diagnostics(ctx context.Context) (diagnostics.Report, error) {
	if s.source == nil {
		return diagnostics.Report{}, ErrNoSource
	}
	text, err := s.source.Fetch(ctx)
	if err != nil {
		return diagnostics.Report{}, fmt.Errorf("diagnostics: %w", err)
	}
	ranker := s.builder.Ranker()
	return diagnostics.Check(text, diagnostics.WithRanker(ranker)), nil
}

// Status reports the state of the refresh machinery.
func (s *Service) Status(ctx context.Context) types.Status {
	s.mu.RLock()
	st := types.Status{
		Started:            s.started,
		Workers:            s.workerCount,
		QueueSize:          s.queueSize,
		RefreshIntervalSec: int(s.refreshInterval / time.Second),
		BoardSeq:           s.store.Seq(),
		TotalEntries:       s.store.Count(ctx),
	}
	if s.source != nil {
		st.Source = s.source.Name()
	}
	if s.started {
		st.QueueLength = s.queue.Len()
	}
	s.mu.RUnlock()

	if board, err := s.store.Current(ctx); err == nil {
		st.LoadID = board.LoadID
		st.LoadedAt = &board.LoadedAt
	}

	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	if !s.lastAttempt.IsZero() {
		at := s.lastAttempt
		st.LastAttempt = &at
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// Stop gracefully shuts down the service and closes the board store.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.stopped = true
	pool, cancel, tickerDone := s.pool, s.cancel, s.tickerDone
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping leaderboard service...")

	if err := pool.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	cancel()
	<-tickerDone
	_ = s.store.Close()

	s.logger.Info(ctx, "leaderboard service stopped")
}
