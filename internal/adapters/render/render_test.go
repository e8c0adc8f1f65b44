package render_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/okian/podium/internal/adapters/render"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

const results = "Jugador,Tiempo,Profile,Club\n" +
	"Ana,0:30:00,ana.png,Norte\n" +
	"Luis,0:25:50,,Sur\n" +
	"Beto,0:30:00,,Norte\n" +
	"Eva,0:40:00,,Este\n" +
	"Sol,1:00:00,,Oeste\n"

func sample() types.Board {
	b := standings.NewBuilder().Load(results)
	b.Seq = 7
	return b
}

func TestHTML(t *testing.T) {
	Convey("Given a loaded board", t, func() {
		board := sample()
		var buf bytes.Buffer
		at := time.Date(2026, 5, 4, 9, 7, 0, 0, time.UTC)

		err := render.HTML(&buf, &board, at, render.DefaultPageOptions())
		page := buf.String()

		Convey("Then the page shows the podium with second place first", func() {
			So(err, ShouldBeNil)
			second := strings.Index(page, `class="podium-position second-place"`)
			first := strings.Index(page, `class="podium-position first-place"`)
			third := strings.Index(page, `class="podium-position third-place"`)
			So(second, ShouldBeGreaterThan, 0)
			So(second, ShouldBeLessThan, first)
			So(first, ShouldBeLessThan, third)
			So(page, ShouldContainSubstring, "ana.png")
			So(page, ShouldContainSubstring, standings.DefaultProfile)
		})

		Convey("And the list starts at position 4", func() {
			So(page, ShouldContainSubstring, `<div class="rank-position">4</div>`)
			So(page, ShouldContainSubstring, `<div class="rank-position">5</div>`)
			So(page, ShouldNotContainSubstring, `<div class="rank-position">3</div>`)
		})

		Convey("And the clock shows HH:MM", func() {
			So(page, ShouldContainSubstring, `<span class="status-time">09:07</span>`)
		})

		Convey("And the live script is wired", func() {
			So(page, ShouldContainSubstring, "WebSocket")
			So(page, ShouldNotContainSubstring, render.FallbackMessage)
		})
	})

	Convey("Given no board", t, func() {
		var buf bytes.Buffer
		err := render.HTML(&buf, nil, time.Now(), render.PageOptions{Title: "x", RefreshPath: "/refresh"})

		Convey("Then the fallback message is shown", func() {
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, render.FallbackMessage)
			So(buf.String(), ShouldNotContainSubstring, "WebSocket")
		})
	})

	Convey("Given fewer entries than a podium", t, func() {
		board := standings.NewBuilder().Load("Jugador,Tiempo\nAna,0:30:00\nLuis,0:25:50")
		var buf bytes.Buffer
		So(render.HTML(&buf, &board, time.Now(), render.DefaultPageOptions()), ShouldBeNil)

		Convey("Then no podium is drawn", func() {
			So(buf.String(), ShouldNotContainSubstring, `class="podium-position`)
		})
	})

	Convey("Given a listed player name with markup", t, func() {
		board := standings.NewBuilder().Load("Jugador,Tiempo\n<b>x</b>,0:30:00\nA,0:01:00\nB,0:02:00\nC,0:03:00")
		var buf bytes.Buffer
		So(render.HTML(&buf, &board, time.Now(), render.DefaultPageOptions()), ShouldBeNil)

		Convey("Then it is escaped", func() {
			So(buf.String(), ShouldNotContainSubstring, "<b>x</b>")
			So(buf.String(), ShouldContainSubstring, "&lt;b&gt;x&lt;/b&gt;")
		})
	})
}

func TestXLSX(t *testing.T) {
	Convey("Given a loaded board", t, func() {
		f, err := render.XLSX(sample())
		So(err, ShouldBeNil)
		defer func() { _ = f.Close() }()

		Convey("Then the sheet holds the full ranking", func() {
			rows, err := f.GetRows(render.SheetName)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 6)
			So(rows[0], ShouldResemble, []string{"Pos", "Jugador", "Tiempo", "ms", "Club"})
			So(rows[1], ShouldResemble, []string{"1", "Luis", "0:25:50", "25500", "Sur"})
			So(rows[5][1], ShouldEqual, "Sol")
		})

		Convey("And the podium rows are styled apart from the rest", func() {
			gold, _ := f.GetCellStyle(render.SheetName, "A2")
			bronze, _ := f.GetCellStyle(render.SheetName, "A4")
			plain, _ := f.GetCellStyle(render.SheetName, "A5")
			So(gold, ShouldNotEqual, bronze)
			So(plain, ShouldEqual, 0)
		})
	})

	Convey("Given a board written to a stream", t, func() {
		var buf bytes.Buffer
		So(render.WriteXLSX(&buf, sample()), ShouldBeNil)

		Convey("Then the bytes open as a workbook", func() {
			f, err := excelize.OpenReader(&buf)
			So(err, ShouldBeNil)
			defer func() { _ = f.Close() }()
			So(f.GetSheetList(), ShouldResemble, []string{render.SheetName})
		})
	})
}

func TestText(t *testing.T) {
	Convey("Given a loaded board", t, func() {
		var buf bytes.Buffer
		So(render.Text(&buf, sample()), ShouldBeNil)
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

		Convey("Then the table lists the podium then the rest", func() {
			So(lines[0], ShouldStartWith, "POS")
			So(lines[1], ShouldContainSubstring, "Luis")
			So(lines[3], ShouldContainSubstring, "Beto")
			So(strings.TrimSpace(lines[4]), ShouldBeEmpty)
			So(lines[5], ShouldContainSubstring, "Eva")
		})
	})

	Convey("Given an empty board", t, func() {
		var buf bytes.Buffer
		So(render.Text(&buf, types.Board{}), ShouldBeNil)

		Convey("Then it says so", func() {
			So(buf.String(), ShouldEqual, "no entries\n")
		})
	})

	Convey("Given a clock time", t, func() {
		So(render.Clock(time.Date(2026, 1, 1, 23, 5, 0, 0, time.UTC)), ShouldEqual, "23:05")
	})
}
