package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/podium/internal/adapters/source"
	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/diagnostics"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const results = "Jugador,Tiempo\nAna,0:30:00\nLuis,0:25:50\nBeto,0:30:00\n"

func staticSource(text string) source.Source {
	return source.Static{Label: "static", Text: text}
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Fetch(context.Context) (string, error) {
	return "", source.ErrFetch
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			st := svc.Status(context.Background())
			So(st.Started, ShouldBeFalse)
			So(st.Workers, ShouldEqual, 1)
			So(st.BoardSeq, ShouldEqual, uint64(0))
		})

		Convey("Then it cannot start without a source", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoSource), ShouldBeTrue)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithSource(staticSource(results)),
			service.WithBuilder(standings.NewBuilder(standings.WithPodiumSize(2))),
			service.WithWorkerCount(4),
			service.WithQueueSize(8),
			service.WithRefreshInterval(time.Minute),
		)

		Convey("Then the options are reflected in the stats", func() {
			st := svc.Status(context.Background())
			So(st.Workers, ShouldEqual, 4)
			So(st.QueueSize, ShouldEqual, 8)
			So(st.RefreshIntervalSec, ShouldEqual, 60)
			So(st.Source, ShouldEqual, "static")
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a service over a results source", t, func() {
		svc := service.New(service.WithSource(staticSource(results)))
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then the initial load is published before Start returns", func() {
				So(err, ShouldBeNil)
				board, err := svc.Board(ctx)
				So(err, ShouldBeNil)
				So(board.Seq, ShouldEqual, 1)
				So(board.Podium[0].Player, ShouldEqual, "Luis")
				So(board.LoadID, ShouldNotBeEmpty)
			})

			Convey("And it should be marked as started", func() {
				st := svc.Status(context.Background())
				So(st.Started, ShouldBeTrue)
				So(st.TotalEntries, ShouldEqual, 3)
				So(st.QueueLength, ShouldEqual, 0)
				So(st.LoadedAt, ShouldNotBeNil)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service whose source fails", t, func() {
		svc := service.New(service.WithSource(failingSource{}))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it still starts without a board", func() {
				So(err, ShouldBeNil)
				_, err := svc.Board(ctx)
				So(err, ShouldNotBeNil)
				So(svc.Status(ctx).LastError, ShouldContainSubstring, "fetch failed")
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithSource(staticSource(results)))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				st := svc.Status(context.Background())
				So(st.Started, ShouldBeFalse)
			})

			Convey("And refreshes are refused", func() {
				_, err := svc.Refresh(ctx, model.ReasonManual)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				_, err = svc.RefreshNow(ctx)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})

			Convey("And stopping again is a no-op", func() {
				So(svc.Stop, ShouldNotPanic)
			})

			Convey("And it cannot be started again", func() {
				So(errors.Is(svc.Start(ctx), service.ErrStopped), ShouldBeTrue)
				So(svc.Status(context.Background()).Started, ShouldBeFalse)
				_, err := svc.RefreshNow(ctx)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithSource(staticSource(results)))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When asking for the top entries", func() {
			top, err := svc.TopN(ctx, 2)

			Convey("Then they come in rank order", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 2)
				So(top[0].Player, ShouldEqual, "Luis")
				So(top[1].Player, ShouldEqual, "Ana")
			})
		})

		Convey("When asking for a player's rank", func() {
			entry, err := svc.Rank(ctx, "beto")

			Convey("Then the entry is found case-insensitively", func() {
				So(err, ShouldBeNil)
				So(entry.Position, ShouldEqual, 3)
			})
		})

		Convey("When asking for diagnostics", func() {
			rep, err := svc.Diagnostics(ctx)

			Convey("Then the clean source reports no issues", func() {
				So(err, ShouldBeNil)
				So(rep.Clean(), ShouldBeTrue)
				So(rep.Rows, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a service over questionable text", t, func() {
		svc := service.New(service.WithSource(staticSource("Jugador,Tiempo\nAna,later\n")))
		ctx := context.Background()

		Convey("When asking for diagnostics", func() {
			rep, err := svc.Diagnostics(ctx)

			Convey("Then the issue is reported", func() {
				So(err, ShouldBeNil)
				So(rep.Count(diagnostics.KindMalformedTime), ShouldEqual, 1)
			})
		})
	})
}
