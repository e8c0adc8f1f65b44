// Package live pushes published boards to browsers over websockets.
package live

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Subscriber streams published boards. The first board received is the
// current one, if any.
type Subscriber interface {
	Subscribe() (<-chan types.Board, func())
}

// Hub serves viewers. Each viewer gets its own subscription; a viewer that
// reads slowly only receives the newest board.
type Hub struct {
	subscriber Subscriber
	upgrader   websocket.Upgrader
	logger     logger.Logger

	viewers  atomic.Int64
	mu       sync.Mutex
	closed   bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewHub creates a Hub.
func NewHub(sub Subscriber) *Hub {
	return &Hub{
		subscriber: sub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger:   logger.Get().Named("live"),
		stopChan: make(chan struct{}),
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int { return int(h.viewers.Load()) }

// ServeHTTP upgrades the request and streams boards until the viewer leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	h.wg.Add(1)
	h.mu.Unlock()
	defer h.wg.Done()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.logger.Debug(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.viewers.Add(1)
	metrics.AddLiveViewers(1)
	defer func() {
		h.viewers.Add(-1)
		metrics.AddLiveViewers(-1)
	}()

	boards, cancel := h.subscriber.Subscribe()
	defer cancel()

	gone := make(chan struct{})
	go h.readPump(conn, gone)
	h.writePump(r.Context(), conn, boards, gone)
}

// readPump discards client messages and notices when the viewer leaves.
func (h *Hub) readPump(conn *websocket.Conn, gone chan struct{}) {
	defer close(gone)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(ctx context.Context, conn *websocket.Conn, boards <-chan types.Board, gone chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case <-h.stopChan:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case board, ok := <-boards:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(board); err != nil {
				h.logger.Debug(ctx, "websocket write failed", logger.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// Close disconnects every viewer and refuses new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.stopChan)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}
