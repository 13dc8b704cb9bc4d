// Package net assembles the server's HTTP surface: the websocket endpoint,
// health and diagnostics, the admin event toggle, and optional static
// serving for the web client.
package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"go.uber.org/zap"

	"glade/server/internal/config"
	"glade/server/internal/game"
	"glade/server/internal/hub"
	"glade/server/internal/net/ws"
	"glade/server/internal/telemetry"
)

type HTTPHandlerConfig struct {
	Config  config.Config
	Log     *zap.SugaredLogger
	Metrics *telemetry.Metrics
}

// eventNames maps the admin API's event names onto wire values.
var eventNames = map[string]game.SpecialEvent{
	"beach_day": game.EventBeachDay,
}

func NewHTTPHandler(h *hub.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = &telemetry.Metrics{}
	}

	mux := nethttp.NewServeMux()

	wsHandler := ws.NewHandler(h, ws.HandlerConfig{Log: log, Metrics: metrics})
	mux.HandleFunc("/ws", wsHandler.Handle)

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			Status     string         `json:"status"`
			ServerTime int64          `json:"serverTime"`
			TickRate   int            `json:"tickRate"`
			Telemetry  map[string]any `json:"telemetry"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			TickRate:   cfg.Config.TickRate,
			Telemetry:  metrics.Snapshot(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			nethttp.Error(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/admin/event", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Event  string `json:"event"`
			Active bool   `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			nethttp.Error(w, "invalid request body", nethttp.StatusBadRequest)
			return
		}

		event, ok := eventNames[req.Event]
		if !ok {
			nethttp.Error(w, "unknown event", nethttp.StatusBadRequest)
			return
		}

		h.SetSpecialEvent(event, req.Active)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"event":  req.Event,
			"active": h.SpecialEvent(event),
		})
	})

	if cfg.Config.StaticDir != "" {
		mux.Handle("/", nethttp.FileServer(nethttp.Dir(cfg.Config.StaticDir)))
	}

	return mux
}
