package record

import (
	"strings"
)

const defaultDelimiter = ','

// Option applies a configuration option to the Parser.
type Option func(*Parser)

// WithDelimiter sets the field delimiter. Zero and newline are ignored.
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		if d != 0 && d != '\n' {
			p.delimiter = d
		}
	}
}

// WithSkipBlankLines drops whitespace-only data lines instead of turning
// them into all-empty records.
func WithSkipBlankLines() Option {
	return func(p *Parser) {
		p.skipBlank = true
	}
}

// Parser splits delimited text into records. The zero value is not usable;
// build one with NewParser.
type Parser struct {
	delimiter rune
	skipBlank bool
}

// NewParser creates a parser with configuration options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{delimiter: defaultDelimiter}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser() //nolint:gochecknoglobals // stateless default

// Parse converts text using the default comma-delimited parser.
func Parse(text string) []Record {
	return defaultParser.Parse(text)
}

// Parse converts text into records, one per line after the header, in
// input order. The surrounding whitespace of the whole text is discarded
// first, so leading and trailing blank lines never produce records.
func (p *Parser) Parse(text string) []Record {
	records := []Record{}

	text = strings.TrimSpace(text)
	if text == "" {
		return records
	}

	lines := strings.Split(text, "\n")
	names, index := columns(p.split(lines[0]))

	for _, line := range lines[1:] {
		if p.skipBlank && trim(line) == "" {
			continue
		}
		records = append(records, build(names, index, p.split(line)))
	}
	return records
}

// SkipsBlankLines reports whether blank data lines are dropped.
func (p *Parser) SkipsBlankLines() bool { return p.skipBlank }

// Split exposes the line splitting used by Parse. Diagnostics uses it to
// inspect rows without duplicating the delimiter rules.
func (p *Parser) Split(line string) []string {
	return p.split(line)
}

func (p *Parser) split(line string) []string {
	return strings.Split(line, string(p.delimiter))
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
