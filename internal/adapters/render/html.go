// Package render turns boards into pages, spreadsheets and terminal tables.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/types"
)

// FallbackMessage is shown when no board could be loaded.
const FallbackMessage = "Unable to load leaderboard data."

//go:embed templates/leaderboard.html.tmpl
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/leaderboard.html.tmpl")) //nolint:gochecknoglobals // parsed once

// PageOptions controls the page chrome.
type PageOptions struct {
	Title          string
	DefaultProfile string
	RefreshPath    string
	// LivePath enables the websocket reload script when set.
	LivePath string
}

// DefaultPageOptions matches the routes served by the API package.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		Title:          "Leaderboard",
		DefaultProfile: standings.DefaultProfile,
		RefreshPath:    "/refresh",
		LivePath:       "/ws",
	}
}

type podiumSlot struct {
	Entry types.Entry
	Class string
}

type pageData struct {
	PageOptions
	Board    *types.Board
	Podium   []podiumSlot
	Clock    string
	Fallback string
	Seq      uint64
}

// HTML writes the leaderboard page. A nil board renders the fallback
// message. The podium is drawn only when it is complete, second place on
// the left and third on the right.
func HTML(w io.Writer, board *types.Board, now time.Time, opts PageOptions) error {
	data := pageData{
		PageOptions: opts,
		Board:       board,
		Clock:       Clock(now),
		Fallback:    FallbackMessage,
	}
	if board != nil {
		data.Seq = board.Seq
		if board.PodiumComplete && len(board.Podium) >= 3 {
			data.Podium = []podiumSlot{
				{Entry: board.Podium[1], Class: "second-place"},
				{Entry: board.Podium[0], Class: "first-place"},
				{Entry: board.Podium[2], Class: "third-place"},
			}
		}
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// Clock formats t as HH:MM.
func Clock(t time.Time) string {
	return t.Format("15:04")
}
