// Package ranking orders parsed records by their elapsed time.
package ranking

import (
	"slices"

	"github.com/okian/podium/internal/domain/laptime"
	"github.com/okian/podium/internal/domain/record"
)

// DefaultTimeField is the column holding the M:S:C time.
const DefaultTimeField = "Tiempo"

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithTimeField sets the column read for each record's time.
func WithTimeField(name string) Option {
	return func(r *Ranker) {
		if name != "" {
			r.timeField = name
		}
	}
}

// WithStrictTimes makes malformed times sort last instead of first.
func WithStrictTimes() Option {
	return func(r *Ranker) {
		r.strict = true
	}
}

// WithParser sets the parser LoadRanked uses.
func WithParser(p *record.Parser) Option {
	return func(r *Ranker) {
		if p != nil {
			r.parser = p
		}
	}
}

// Ranker produces a stable ascending order over records. It holds only
// configuration and is safe for concurrent use.
type Ranker struct {
	timeField string
	strict    bool
	parser    *record.Parser
}

// New creates a Ranker with configuration options.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		timeField: DefaultTimeField,
		parser:    record.NewParser(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRanker = New() //nolint:gochecknoglobals // stateless default

// Rank orders records by the default Tiempo field.
func Rank(records []record.Record) []record.Record {
	return defaultRanker.Rank(records)
}

// LoadRanked parses text and ranks the result.
func LoadRanked(text string) []record.Record {
	return defaultRanker.LoadRanked(text)
}

// Rank returns a new slice with records sorted by ascending duration.
// Equal durations keep their input order. The input is left untouched.
//
// By default a malformed or missing time counts as zero and therefore ranks
// first. WithStrictTimes moves such records to the end instead.
func (r *Ranker) Rank(records []record.Record) []record.Record {
	type keyed struct {
		rec record.Record
		d   laptime.Duration
	}

	ks := make([]keyed, len(records))
	for i, rec := range records {
		ks[i] = keyed{rec: rec, d: r.Duration(rec)}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.d < b.d:
			return -1
		case a.d > b.d:
			return 1
		default:
			return 0
		}
	})

	out := make([]record.Record, len(ks))
	for i, k := range ks {
		out[i] = k.rec
	}
	return out
}

// LoadRanked is Rank applied to the Ranker's parser output.
func (r *Ranker) LoadRanked(text string) []record.Record {
	return r.Rank(r.parser.Parse(text))
}

// Duration returns the sort key for one record.
func (r *Ranker) Duration(rec record.Record) laptime.Duration {
	raw := rec.Get(r.timeField)
	if r.strict {
		d, _ := laptime.ParseStrict(raw)
		return d
	}
	return laptime.Parse(raw)
}

// Durations returns the sort key for each record, index-aligned.
func (r *Ranker) Durations(records []record.Record) []laptime.Duration {
	out := make([]laptime.Duration, len(records))
	for i, rec := range records {
		out[i] = r.Duration(rec)
	}
	return out
}

// TimeField returns the configured time column.
func (r *Ranker) TimeField() string { return r.timeField }

// Strict reports whether malformed times sort last.
func (r *Ranker) Strict() bool { return r.strict }

// Parser returns the parser used by LoadRanked.
func (r *Ranker) Parser() *record.Parser { return r.parser }
