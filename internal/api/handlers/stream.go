package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/stockaura/internal/metrics"
	"github.com/wonny/stockaura/internal/service"
	"github.com/wonny/stockaura/internal/store"
	"github.com/wonny/stockaura/pkg/logger"
)

const (
	// Ping/Pong settings
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
)

// EventSource publishes verdict change events
type EventSource interface {
	Subscribe() (<-chan service.VerdictEvent, func())
}

// StreamHandler pushes verdict events to websocket clients
// ⭐ SSOT: 실시간 판정 스트림은 이 핸들러에서만
type StreamHandler struct {
	events   EventSource
	logger   *logger.Logger
	metrics  *metrics.Recorder
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a stream handler; rec may be nil
func NewStreamHandler(events EventSource, log *logger.Logger, rec *metrics.Recorder) *StreamHandler {
	if rec == nil {
		rec = metrics.Nop()
	}
	return &StreamHandler{
		events:  events,
		logger:  log,
		metrics: rec,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Stream handles GET /api/stream?tickers=AAPL,MSFT
// An empty tickers filter receives every event.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	filter := tickerFilter(r.URL.Query().Get("tickers"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events, cancel := h.events.Subscribe()
	defer cancel()

	h.metrics.StreamConnected(1)
	defer h.metrics.StreamConnected(-1)

	h.logger.WithField("tickers", len(filter)).Info("Stream client connected")

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			h.logger.Debug("Stream client disconnected")
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if len(filter) > 0 && !filter[ev.Ticker] {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.WithError(err).Debug("stream write failed")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so pongs and close frames are processed
func (h *StreamHandler) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

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

func tickerFilter(raw string) map[string]bool {
	out := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		if t = store.NormalizeTicker(t); t != "" {
			out[t] = true
		}
	}
	return out
}
