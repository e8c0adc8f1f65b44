package live_test

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/podium/internal/adapters/http/live"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeFeed hands out subscriptions that tests publish into.
type fakeFeed struct {
	mu   sync.Mutex
	subs []chan types.Board
}

func (f *fakeFeed) Subscribe() (<-chan types.Board, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan types.Board, 4)
	ch <- types.Board{Seq: 1, Total: 1}
	f.subs = append(f.subs, ch)
	return ch, func() {}
}

func (f *fakeFeed) publish(b types.Board) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		ch <- b
	}
}

func (f *fakeFeed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func dial(url string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	return conn, err
}

func TestHub(t *testing.T) {
	convey.Convey("Given a hub behind an HTTP server", t, func() {
		feed := &fakeFeed{}
		hub := live.NewHub(feed)
		srv := httptest.NewServer(hub)
		defer srv.Close()

		convey.Convey("When a viewer connects", func() {
			conn, err := dial(srv.URL)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = conn.Close() }()
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

			var first types.Board
			convey.So(conn.ReadJSON(&first), convey.ShouldBeNil)

			convey.Convey("Then it receives the current board", func() {
				convey.So(first.Seq, convey.ShouldEqual, 1)
				convey.So(hub.Viewers(), convey.ShouldEqual, 1)
			})

			convey.Convey("And every later board", func() {
				feed.publish(types.Board{Seq: 2, Total: 5})
				var next types.Board
				convey.So(conn.ReadJSON(&next), convey.ShouldBeNil)
				convey.So(next.Seq, convey.ShouldEqual, 2)
				convey.So(next.Total, convey.ShouldEqual, 5)
			})

			convey.Convey("And it is disconnected when the hub closes", func() {
				convey.So(hub.Close(), convey.ShouldBeNil)
				_, _, err := conn.ReadMessage()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(hub.Viewers(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When a plain HTTP request arrives", func() {
			rec := httptest.NewRecorder()
			hub.ServeHTTP(rec, httptest.NewRequest("GET", "/ws", nil))

			convey.Convey("Then the upgrade is refused without subscribing", func() {
				convey.So(rec.Code, convey.ShouldEqual, 400)
				convey.So(feed.count(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the hub is closed", func() {
			_ = hub.Close()
			rec := httptest.NewRecorder()
			hub.ServeHTTP(rec, httptest.NewRequest("GET", "/ws", nil))

			convey.Convey("Then new viewers are turned away", func() {
				convey.So(rec.Code, convey.ShouldEqual, 503)
			})
		})
	})
}
