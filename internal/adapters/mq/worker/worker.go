package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

const (
	defaultWorkerCount = 1
	drainTimeout       = 30 * time.Second
)

// Queue hands out refresh requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.RefreshRequest
}

// Runner executes one refresh request.
type Runner interface {
	Run(ctx context.Context, req model.RefreshRequest) (Result, error)
}

// Loop drains a queue into a Runner, one request at a time.
type Loop struct {
	queue  Queue
	runner Runner
	name   string
	logger logger.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewLoop creates a Loop; call Run to start it.
func NewLoop(queue Queue, runner Runner, opts ...Option) *Loop {
	l := &Loop{
		queue:  queue,
		runner: runner,
		name:   "worker",
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named(l.name)
	}
	return l
}

// Run consumes requests until ctx ends, Stop is called or the queue closes.
// A failed request leaves the previous board current.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	requests := l.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			if _, err := l.runner.Run(ctx, req); err != nil {
				l.logger.Debug(ctx, "refresh request failed",
					logger.String("load_id", req.ID), logger.Uint64("seq", req.Seq), logger.Error(err))
			}
		}
	}
}

// Stop asks the loop to return and waits for it, bounded by ctx.
func (l *Loop) Stop(ctx context.Context) error {
	l.stopOnce.Do(func() { close(l.stop) })
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: stop: %w", l.name, ctx.Err())
	}
}

// Pool runs several loops over one queue.
type Pool struct {
	loops  []*Loop
	queue  Queue
	logger logger.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewPool creates n loops sharing queue and runner; n below 1 means one.
func NewPool(n int, queue Queue, runner Runner) *Pool {
	if n < 1 {
		n = defaultWorkerCount
	}
	p := &Pool{
		loops:  make([]*Loop, n),
		queue:  queue,
		logger: logger.Get().Named("worker_pool"),
	}
	for i := range p.loops {
		p.loops[i] = NewLoop(queue, runner, WithName("worker-"+strconv.Itoa(i)))
	}
	return p
}

// Size returns the number of loops.
func (p *Pool) Size() int { return len(p.loops) }

// Start runs every loop in its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for _, l := range p.loops {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			l.Run(ctx)
		}()
	}
	metrics.UpdateWorkerCount(len(p.loops))
}

// Shutdown closes the queue so loops finish what they hold, then waits.
// Loops still busy after ctx or the drain timeout are canceled.
func (p *Pool) Shutdown(ctx context.Context) error {
	defer metrics.UpdateWorkerCount(0)
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "close refresh queue", logger.Error(err))
		}
	}

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()

	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	select {
	case <-drained:
		if p.cancel != nil {
			p.cancel()
		}
		return nil
	case <-ctx.Done():
		if p.cancel != nil {
			p.cancel()
		}
		p.logger.Warn(ctx, "workers did not drain in time", logger.Int("workers", len(p.loops)))
		return fmt.Errorf("drain workers: %w", ctx.Err())
	}
}
