// Package diagnostics reports data-quality issues in result text.
//
// Parsing and ranking accept any input; this package is the separate,
// optional place where questionable rows are surfaced. Checking never
// changes what Parse or Rank return.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/okian/podium/internal/domain/laptime"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/internal/domain/record"
)

// Kind classifies an issue.
type Kind string

// Issue kinds.
const (
	KindDuplicateHeader Kind = "duplicate_header"
	KindShortRow        Kind = "short_row"
	KindLongRow         Kind = "long_row"
	KindBlankRow        Kind = "blank_row"
	KindMissingTime     Kind = "missing_time"
	KindMalformedTime   Kind = "malformed_time"
)

// Issue is one finding. Line is 1-based within the trimmed text, the
// header being line 1.
type Issue struct {
	Line   int    `json:"line"`
	Kind   Kind   `json:"kind"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail"`
}

// Report summarises a check run.
type Report struct {
	Rows   int     `json:"rows"`
	Issues []Issue `json:"issues"`
}

// Count returns how many issues have the given kind.
func (r Report) Count(k Kind) int {
	n := 0
	for _, is := range r.Issues {
		if is.Kind == k {
			n++
		}
	}
	return n
}

// Clean reports whether no issues were found.
func (r Report) Clean() bool { return len(r.Issues) == 0 }

// Option applies a configuration option to a check.
type Option func(*checker)

// WithTimeField sets the column validated as an M:S:C time.
func WithTimeField(name string) Option {
	return func(c *checker) {
		if name != "" {
			c.timeField = name
		}
	}
}

// WithParser sets the parser whose delimiter and blank-line rules are checked.
func WithParser(p *record.Parser) Option {
	return func(c *checker) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithStrictTimes describes unreadable times as ranking last.
func WithStrictTimes(strict bool) Option {
	return func(c *checker) {
		c.strict = strict
	}
}

// WithRanker checks against the time field, parser and policy of r.
func WithRanker(r *ranking.Ranker) Option {
	return func(c *checker) {
		if r == nil {
			return
		}
		c.timeField = r.TimeField()
		c.parser = r.Parser()
		c.strict = r.Strict()
	}
}

type checker struct {
	timeField string
	parser    *record.Parser
	strict    bool
}

// ranksAs says where a row with an unreadable time ends up.
func (c *checker) ranksAs() string {
	if c.strict {
		return "ranks last"
	}
	return "ranks as " + laptime.Duration(0).String()
}

// Check inspects text the same way record.Parse reads it and lists every
// row that Parse would silently repair.
func Check(text string, opts ...Option) Report {
	c := &checker{timeField: ranking.DefaultTimeField, parser: record.NewParser()}
	for _, opt := range opts {
		opt(c)
	}

	rep := Report{Issues: []Issue{}}
	text = strings.TrimSpace(text)
	if text == "" {
		return rep
	}

	lines := strings.Split(text, "\n")
	header := c.parser.Split(lines[0])
	timeCol := -1
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if seen[h] {
			rep.Issues = append(rep.Issues, Issue{
				Line:   1,
				Kind:   KindDuplicateHeader,
				Field:  h,
				Detail: fmt.Sprintf("column %d repeats %q; the last one wins", i+1, h),
			})
		}
		seen[h] = true
		if h == c.timeField {
			timeCol = i
		}
	}
	if timeCol < 0 {
		rep.Issues = append(rep.Issues, Issue{
			Line:   1,
			Kind:   KindMissingTime,
			Field:  c.timeField,
			Detail: fmt.Sprintf("no %q column; every row %s", c.timeField, c.ranksAs()),
		})
	}

	for i, line := range lines[1:] {
		lineNo := i + 2
		if strings.TrimSpace(line) == "" {
			if c.parser.SkipsBlankLines() {
				rep.Issues = append(rep.Issues, Issue{Line: lineNo, Kind: KindBlankRow, Detail: "blank line skipped"})
				continue
			}
			rep.Rows++
			rep.Issues = append(rep.Issues, Issue{Line: lineNo, Kind: KindBlankRow, Detail: "blank line parsed as an empty record"})
			continue
		}
		rep.Rows++

		fields := c.parser.Split(line)
		switch {
		case len(fields) < len(header):
			rep.Issues = append(rep.Issues, Issue{
				Line:   lineNo,
				Kind:   KindShortRow,
				Detail: fmt.Sprintf("%d of %d fields; missing ones read as empty", len(fields), len(header)),
			})
		case len(fields) > len(header):
			rep.Issues = append(rep.Issues, Issue{
				Line:   lineNo,
				Kind:   KindLongRow,
				Detail: fmt.Sprintf("%d of %d fields; extra ones dropped", len(fields), len(header)),
			})
		}

		if timeCol < 0 {
			continue
		}
		raw := ""
		if timeCol < len(fields) {
			raw = strings.TrimSpace(fields[timeCol])
		}
		switch {
		case raw == "":
			rep.Issues = append(rep.Issues, Issue{
				Line:   lineNo,
				Kind:   KindMissingTime,
				Field:  c.timeField,
				Detail: "no time; " + c.ranksAs(),
			})
		case !laptime.Valid(raw):
			detail := fmt.Sprintf("%q is not M:S:C; ranks as %s", raw, laptime.Parse(raw))
			if c.strict {
				detail = fmt.Sprintf("%q is not M:S:C; ranks last", raw)
			}
			rep.Issues = append(rep.Issues, Issue{
				Line:   lineNo,
				Kind:   KindMalformedTime,
				Field:  c.timeField,
				Detail: detail,
			})
		}
	}
	return rep
}
