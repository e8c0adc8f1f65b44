package resultsgen

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/podium/internal/domain/laptime"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	convey.Convey("Given a seeded config without ties or malformed rows", t, func() {
		cfg := &Config{Rows: 50, Seed: 42}
		stats := &Stats{}
		rows := Generate(cfg, stats)

		convey.Convey("Then every row is well formed", func() {
			convey.So(rows, convey.ShouldHaveLength, 50)
			convey.So(stats.RowsGenerated, convey.ShouldEqual, 50)
			convey.So(stats.Malformed, convey.ShouldEqual, 0)
			for _, r := range rows {
				convey.So(laptime.Valid(r.Time), convey.ShouldBeTrue)
				convey.So(r.Player, convey.ShouldNotBeBlank)
			}
		})

		convey.Convey("And the same seed gives the same times", func() {
			again := Generate(&Config{Rows: 50, Seed: 42}, &Stats{})
			for i := range rows {
				convey.So(again[i].Time, convey.ShouldEqual, rows[i].Time)
				convey.So(again[i].Player, convey.ShouldEqual, rows[i].Player)
			}
		})
	})

	convey.Convey("Given only malformed rows", t, func() {
		stats := &Stats{}
		rows := Generate(&Config{Rows: 20, Seed: 7, MalformedRate: 1}, stats)

		convey.Convey("Then none of the times parse strictly", func() {
			convey.So(stats.Malformed, convey.ShouldEqual, 20)
			for _, r := range rows {
				convey.So(laptime.Valid(r.Time), convey.ShouldBeFalse)
			}
		})
	})

	convey.Convey("Given only ties", t, func() {
		stats := &Stats{}
		rows := Generate(&Config{Rows: 20, Seed: 9, TieRate: 1}, stats)

		convey.Convey("Then every row after the first repeats an earlier time", func() {
			convey.So(stats.Ties, convey.ShouldEqual, 19)
			for _, r := range rows {
				convey.So(r.Time, convey.ShouldEqual, rows[0].Time)
			}
		})
	})
}

func TestWrite(t *testing.T) {
	convey.Convey("Given generated rows", t, func() {
		rows := []Row{
			{Player: "Ana 001", Time: "0:30:00", Profile: "img/a.webp"},
			{Player: "Luis 002", Time: "0:25:50"},
		}
		var buf bytes.Buffer
		convey.So(Write(&buf, rows), convey.ShouldBeNil)

		convey.Convey("Then the text loads into a board", func() {
			convey.So(buf.String(), convey.ShouldStartWith, Header+"\n")
			board := standings.NewBuilder().Load(buf.String())
			convey.So(board.Total, convey.ShouldEqual, 2)
			convey.So(board.Podium[0].Player, convey.ShouldEqual, "Luis 002")
			convey.So(board.Podium[1].Profile, convey.ShouldEqual, "img/a.webp")
		})
	})
}

// fakeLeaderboard reloads file on POST /refresh and serves the board.
type fakeLeaderboard struct {
	mu    sync.Mutex
	file  string
	seq   uint64
	board types.Board
	alter func(*types.Board)
}

func (f *fakeLeaderboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.URL.Path {
	case "/healthz":
		w.WriteHeader(http.StatusOK)
	case "/refresh":
		text, _ := os.ReadFile(f.file)
		f.seq++
		f.board = standings.NewBuilder().Load(string(text))
		f.board.Seq = f.seq
		if f.alter != nil {
			f.alter(&f.board)
		}
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "x", "seq": f.seq})
	case "/podium":
		_ = json.NewEncoder(w).Encode(f.board)
	default:
		http.NotFound(w, r)
	}
}

func TestRun(t *testing.T) {
	convey.Convey("Given a leaderboard serving the generated file", t, func() {
		out := filepath.Join(t.TempDir(), "out", "results.csv")
		lb := &fakeLeaderboard{file: out}
		srv := httptest.NewServer(lb)
		defer srv.Close()

		cfg := &Config{
			Rows:          30,
			Seed:          3,
			TieRate:       0.2,
			MalformedRate: 0.1,
			OutputFile:    out,
			BaseURL:       srv.URL,
			Timeout:       time.Second,
			Settle:        time.Second,
		}

		convey.Convey("When the run completes", func() {
			stats, err := Run(context.Background(), cfg)

			convey.Convey("Then the file is written and the board verified", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats.Verified, convey.ShouldBeTrue)
				convey.So(stats.RefreshSeq, convey.ShouldEqual, 1)
				data, readErr := os.ReadFile(out)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(strings.Count(string(data), "\n"), convey.ShouldEqual, 31)
			})
		})

		convey.Convey("When the leaderboard serves a different order", func() {
			lb.alter = func(b *types.Board) {
				b.Podium[0], b.Podium[1] = b.Podium[1], b.Podium[0]
			}
			stats, err := Run(context.Background(), cfg)

			convey.Convey("Then verification fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "podium slot 1")
				convey.So(stats.Verified, convey.ShouldBeFalse)
			})
		})
	})

	convey.Convey("Given no leaderboard URL", t, func() {
		out := filepath.Join(t.TempDir(), "results.csv")
		stats, err := Run(context.Background(), &Config{Rows: 5, Seed: 1, OutputFile: out})

		convey.Convey("Then only the file is written", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(stats.Verified, convey.ShouldBeFalse)
			convey.So(stats.RowsGenerated, convey.ShouldEqual, 5)
		})
	})
}
