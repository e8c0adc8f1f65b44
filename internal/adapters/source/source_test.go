package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/podium/internal/adapters/source"
	. "github.com/smartystreets/goconvey/convey"
)

const results = "Jugador,Tiempo\nAna,0:30:00\n"

func TestNew(t *testing.T) {
	Convey("Given locations of each kind", t, func() {
		Convey("Then URLs become HTTP sources", func() {
			So(source.New("https://example.com/r.csv"), ShouldHaveSameTypeAs, &source.HTTPSource{})
			So(source.New("HTTP://example.com/r.csv"), ShouldHaveSameTypeAs, &source.HTTPSource{})
		})

		Convey("Then paths become file sources", func() {
			s := source.New("file:///data/r.csv")
			So(s, ShouldHaveSameTypeAs, &source.FileSource{})
			So(s.Name(), ShouldEqual, "/data/r.csv")
			So(source.New("results.csv").Name(), ShouldEqual, "results.csv")
		})
	})
}

func TestFileSource(t *testing.T) {
	Convey("Given a results file", t, func() {
		path := filepath.Join(t.TempDir(), "results.csv")
		So(os.WriteFile(path, []byte(results), 0o600), ShouldBeNil)

		Convey("When fetched", func() {
			text, err := source.New(path).Fetch(context.Background())

			Convey("Then the whole text is returned", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, results)
			})
		})

		Convey("When the file is empty", func() {
			So(os.WriteFile(path, nil, 0o600), ShouldBeNil)
			text, err := source.New(path).Fetch(context.Background())

			Convey("Then an empty dataset is not a failure", func() {
				So(err, ShouldBeNil)
				So(text, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := source.New(filepath.Join(t.TempDir(), "nope.csv")).Fetch(context.Background())

		Convey("Then the failure is a not-found fetch error", func() {
			So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
			So(errors.Is(err, source.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := source.New("results.csv").Fetch(ctx)

		Convey("Then the fetch fails", func() {
			So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestHTTPSource(t *testing.T) {
	Convey("Given an HTTP server", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/results.csv":
				_, _ = w.Write([]byte(results))
			case "/broken.csv":
				w.WriteHeader(http.StatusInternalServerError)
			case "/slow.csv":
				time.Sleep(200 * time.Millisecond)
				_, _ = w.Write([]byte(results))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		Convey("When the results exist", func() {
			text, err := source.New(srv.URL + "/results.csv").Fetch(context.Background())

			Convey("Then the body is returned", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, results)
			})
		})

		Convey("When the server answers 404", func() {
			_, err := source.New(srv.URL + "/missing.csv").Fetch(context.Background())

			Convey("Then the failure is not-found", func() {
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
				So(errors.Is(err, source.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the server fails", func() {
			_, err := source.New(srv.URL + "/broken.csv").Fetch(context.Background())

			Convey("Then the failure carries the status", func() {
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
				So(errors.Is(err, source.ErrNotFound), ShouldBeFalse)
				So(err.Error(), ShouldContainSubstring, "status 500")
			})
		})

		Convey("When the server is slower than the timeout", func() {
			_, err := source.New(srv.URL+"/slow.csv", source.WithTimeout(20*time.Millisecond)).Fetch(context.Background())

			Convey("Then the fetch fails", func() {
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
			})
		})
	})
}

func TestStatic(t *testing.T) {
	Convey("Given a static source", t, func() {
		s := source.Static{Label: "stdin", Text: results}
		text, err := s.Fetch(context.Background())

		Convey("Then it returns its text", func() {
			So(err, ShouldBeNil)
			So(text, ShouldEqual, results)
			So(s.Name(), ShouldEqual, "stdin")
		})
	})
}
