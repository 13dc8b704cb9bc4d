// Package ws bridges websocket connections to the hub: one read loop and
// one write loop per client, with the hub's outbound channel in between.
package ws

import (
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"glade/server/internal/hub"
	"glade/server/internal/proto"
	"glade/server/internal/telemetry"
)

const (
	maxInboundBytes     = 64 * 1024
	defaultWriteTimeout = 10 * time.Second
)

type HandlerConfig struct {
	Log          *zap.SugaredLogger
	Metrics      *telemetry.Metrics
	WriteTimeout time.Duration
}

type Handler struct {
	hub          *hub.Hub
	log          *zap.SugaredLogger
	metrics      *telemetry.Metrics
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

func NewHandler(h *hub.Hub, cfg HandlerConfig) *Handler {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = &telemetry.Metrics{}
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}

	return &Handler{
		hub:          h,
		log:          log,
		metrics:      metrics,
		writeTimeout: timeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// Handle upgrades the request and runs the session until the peer goes
// away. The client only enters the world once it sends Connect.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sub := h.hub.Attach()
	h.log.Infow("websocket session started", "client", sub.ID(), "remote", r.RemoteAddr)

	go h.writePump(sub, conn)
	h.readPump(sub, conn)
}

// readPump parses inbound frames until the connection dies, then tears the
// client down. Malformed frames are dropped; the connection survives.
func (h *Handler) readPump(sub *hub.Subscriber, conn *websocket.Conn) {
	defer func() {
		h.hub.RemoveClient(sub.ID())
		conn.Close()
		h.log.Infow("websocket session ended", "client", sub.ID())
	}()

	conn.SetReadLimit(maxInboundBytes)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := proto.DecodeClientMessage(payload)
		if err != nil {
			h.metrics.DecodeErrors.Add(1)
			h.log.Warnw("discarding malformed message", "client", sub.ID(), "error", err)
			continue
		}

		h.hub.Update(sub.ID(), msg)
	}
}

// writePump drains the hub's outbound queue onto the socket. It ends when
// the hub closes the queue (client removed) or a write fails.
func (h *Handler) writePump(sub *hub.Subscriber, conn *websocket.Conn) {
	for data := range sub.Outbound() {
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			// readPump notices the broken socket and removes the client.
			conn.Close()
			return
		}
	}

	deadline := time.Now().Add(h.writeTimeout)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	conn.Close()
}
