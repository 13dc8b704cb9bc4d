// Package telemetry collects cheap runtime counters for the diagnostics
// endpoint. All counters are updated with atomics so the simulation loop
// never blocks on them.
package telemetry

import "sync/atomic"

// Metrics tracks server activity since process start.
type Metrics struct {
	TickCount        atomic.Int64
	TotalTickNs      atomic.Int64
	MessagesIn       atomic.Int64
	MessagesOut      atomic.Int64
	DecodeErrors     atomic.Int64
	DroppedOutbound  atomic.Int64
	ClientsConnected atomic.Int64
	ObjectsSpawned   atomic.Int64
	ObjectsRemoved   atomic.Int64
}

// AddTick records one simulation step and its duration.
func (m *Metrics) AddTick(ns int64) {
	m.TickCount.Add(1)
	m.TotalTickNs.Add(ns)
}

// Snapshot returns a point-in-time copy for HTTP output.
func (m *Metrics) Snapshot() map[string]any {
	tick := m.TickCount.Load()
	total := m.TotalTickNs.Load()
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":        tick,
		"avg_tick_ms":       avgMs,
		"messages_in":       m.MessagesIn.Load(),
		"messages_out":      m.MessagesOut.Load(),
		"decode_errors":     m.DecodeErrors.Load(),
		"dropped_outbound":  m.DroppedOutbound.Load(),
		"clients_connected": m.ClientsConnected.Load(),
		"objects_spawned":   m.ObjectsSpawned.Load(),
		"objects_removed":   m.ObjectsRemoved.Load(),
	}
}
