package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/podium/internal/domain/diagnostics"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// Source yields the raw result text.
type Source interface {
	Fetch(ctx context.Context) (string, error)
	Name() string
}

// Publisher stores boards. Publish reports whether the board replaced the
// current one; a board from an earlier-initiated request is refused.
type Publisher interface {
	Publish(ctx context.Context, seq uint64, board types.Board) bool
}

// Result is the outcome of one successful pipeline run.
type Result struct {
	Board     types.Board
	Report    diagnostics.Report
	Published bool
}

// Pipeline is fetch -> parse -> rank -> split -> publish for one request.
// It is safe for concurrent use.
type Pipeline struct {
	source    Source
	builder   *standings.Builder
	publisher Publisher
	logger    logger.Logger
	now       func() time.Time
}

// NewPipeline creates a Pipeline.
func NewPipeline(src Source, builder *standings.Builder, pub Publisher, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		source:    src,
		builder:   builder,
		publisher: pub,
		logger:    logger.Get().Named("pipeline"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads the source once for req. A fetch failure returns an error and
// publishes nothing, so the previous board stays current.
func (p *Pipeline) Run(ctx context.Context, req model.RefreshRequest) (Result, error) {
	start := time.Now()
	log := p.logger.With(
		logger.String("load_id", req.ID),
		logger.Uint64("seq", req.Seq),
		logger.String("reason", req.Reason),
	)

	text, err := p.source.Fetch(ctx)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordLoad(metrics.ResultFetchError, latency)
		metrics.RecordErrorByComponent("source", "fetch")
		metrics.RecordErrorByType("fetch", "high")
		metrics.RecordErrorLatency("source", "fetch", latency)
		log.Error(ctx, "fetch failed; keeping previous board",
			logger.String("source", p.source.Name()),
			logger.Error(err),
		)
		return Result{}, fmt.Errorf("load %s: %w", req.ID, err)
	}

	board := p.builder.Load(text)
	board.Seq = req.Seq
	board.LoadID = req.ID
	board.Source = p.source.Name()
	board.LoadedAt = p.now()

	ranker := p.builder.Ranker()
	report := diagnostics.Check(text, diagnostics.WithRanker(ranker))
	for _, is := range report.Issues {
		metrics.RecordDiagnosticIssue(string(is.Kind))
	}
	if !report.Clean() {
		first := report.Issues[0]
		log.Warn(ctx, "result text has data-quality issues",
			logger.Int("issues", len(report.Issues)),
			logger.Int("first_line", first.Line),
			logger.String("first_kind", string(first.Kind)),
			logger.String("first_detail", first.Detail),
		)
	}
	metrics.UpdateLoadShape(board.Total, report.Count(diagnostics.KindMalformedTime))

	published := p.publisher.Publish(ctx, req.Seq, board)
	metrics.RecordLoad(metrics.ResultOK, float64(time.Since(start).Milliseconds()))

	if published {
		log.Info(ctx, "board published",
			logger.Int("records", board.Total),
			logger.Duration("took", time.Since(start)),
		)
	} else {
		log.Info(ctx, "board discarded; a later load already published",
			logger.Int("records", board.Total),
		)
	}
	return Result{Board: board, Report: report, Published: published}, nil
}
