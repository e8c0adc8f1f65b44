// Package standings shapes a ranked sequence into what a leaderboard view
// shows: a podium and a secondary list.
package standings

import (
	"github.com/okian/podium/internal/domain/laptime"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/internal/domain/record"
	"github.com/okian/podium/internal/domain/types"
)

// Defaults for field names and view sizes.
const (
	DefaultNameField    = "Jugador"
	DefaultTimeField    = ranking.DefaultTimeField
	DefaultProfileField = "Profile"
	DefaultProfile      = "img/profile.webp"
	DefaultPodiumSize   = 3
	DefaultListLimit    = 10
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithNameField sets the participant display name column.
func WithNameField(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.nameField = name
		}
	}
}

// WithTimeField sets the time column.
func WithTimeField(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.timeField = name
		}
	}
}

// WithProfileField sets the profile image column.
func WithProfileField(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.profileField = name
		}
	}
}

// WithDefaultProfile sets the image used when a record has none.
func WithDefaultProfile(ref string) Option {
	return func(b *Builder) {
		if ref != "" {
			b.defaultProfile = ref
		}
	}
}

// WithPodiumSize sets how many leading entries form the podium.
func WithPodiumSize(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.podiumSize = n
		}
	}
}

// WithListLimit sets the last position shown in the secondary list.
func WithListLimit(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.listLimit = n
		}
	}
}

// WithStrictTimes flags entries whose time could not be read strictly.
func WithStrictTimes(strict bool) Option {
	return func(b *Builder) {
		b.strict = strict
	}
}

// WithParser sets the parser used by the builder's ranker.
func WithParser(p *record.Parser) Option {
	return func(b *Builder) {
		if p != nil {
			b.parser = p
		}
	}
}

// Builder turns ranked records into boards.
type Builder struct {
	nameField      string
	timeField      string
	profileField   string
	defaultProfile string
	podiumSize     int
	listLimit      int
	strict         bool
	parser         *record.Parser
	ranker         *ranking.Ranker
}

// NewBuilder creates a Builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		nameField:      DefaultNameField,
		timeField:      DefaultTimeField,
		profileField:   DefaultProfileField,
		defaultProfile: DefaultProfile,
		podiumSize:     DefaultPodiumSize,
		listLimit:      DefaultListLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.listLimit < b.podiumSize {
		b.listLimit = b.podiumSize
	}
	rankOpts := []ranking.Option{ranking.WithTimeField(b.timeField)}
	if b.strict {
		rankOpts = append(rankOpts, ranking.WithStrictTimes())
	}
	if b.parser != nil {
		rankOpts = append(rankOpts, ranking.WithParser(b.parser))
	}
	b.ranker = ranking.New(rankOpts...)
	return b
}

// Ranker returns a ranker configured with the same time field and policy.
func (b *Builder) Ranker() *ranking.Ranker { return b.ranker }

// NameField returns the participant name column.
func (b *Builder) NameField() string { return b.nameField }

// Load parses and ranks text, then builds the board.
func (b *Builder) Load(text string) types.Board {
	return b.Build(b.ranker.LoadRanked(text))
}

// Build assigns 1-based positions to already ranked records and splits
// them. The podium is the first PodiumSize entries; the list holds the
// entries after it up to ListLimit. Short inputs give short views.
func (b *Builder) Build(ranked []record.Record) types.Board {
	entries := make([]types.Entry, len(ranked))
	for i, rec := range ranked {
		entries[i] = b.entry(i+1, rec)
	}

	podiumEnd := min(b.podiumSize, len(entries))
	listEnd := min(b.listLimit, len(entries))

	return types.Board{
		Total:          len(entries),
		PodiumComplete: len(entries) >= b.podiumSize,
		Podium:         entries[:podiumEnd:podiumEnd],
		Others:         entries[podiumEnd:listEnd:listEnd],
		Entries:        entries,
	}
}

func (b *Builder) entry(pos int, rec record.Record) types.Entry {
	d := b.ranker.Duration(rec)
	e := types.Entry{
		Position: pos,
		Player:   rec.Get(b.nameField),
		Time:     rec.Get(b.timeField),
		Profile:  rec.Get(b.profileField),
	}
	if d == laptime.Unparsed {
		e.Unparsed = true
	} else {
		e.DurationMS = d.Milliseconds()
	}
	if e.Profile == "" {
		e.Profile = b.defaultProfile
	}

	for _, name := range rec.Names() {
		if name == b.nameField || name == b.timeField || name == b.profileField {
			continue
		}
		if e.Fields == nil {
			e.Fields = make(map[string]string)
		}
		e.Fields[name] = rec.Get(name)
	}
	return e
}

var defaultBuilder = NewBuilder() //nolint:gochecknoglobals // stateless default

// Build splits ranked records with the default layout (podium 1-3, list 4-10).
func Build(ranked []record.Record) types.Board {
	return defaultBuilder.Build(ranked)
}
