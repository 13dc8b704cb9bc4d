// Package hub owns the authoritative world. All mutation funnels through a
// single mutex: websocket readers call Update, the simulation loop calls
// Tick, and the admin surface toggles special events.
package hub

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"glade/server/internal/config"
	"glade/server/internal/game"
	"glade/server/internal/game/objects"
	"glade/server/internal/proto"
	"glade/server/internal/telemetry"
	"glade/server/internal/wire"
)

// Subscriber is one connected transport. Messages are pushed onto Outbound
// without blocking; a full queue drops the message rather than stall the
// simulation.
type Subscriber struct {
	id   game.ClientID
	send chan []byte
}

// ID returns the client id assigned at attach time.
func (s *Subscriber) ID() game.ClientID { return s.id }

// Outbound is the channel the transport's write loop drains. It is closed
// when the client is removed.
func (s *Subscriber) Outbound() <-chan []byte { return s.send }

// Hub is the authoritative game server state.
type Hub struct {
	mu    sync.Mutex
	world *game.WorldState

	registry *game.Registry
	subs     map[game.ClientID]*Subscriber
	queued   []proto.ClientUpdate

	clientIDs game.ClientIDAllocator
	objectIDs game.ObjectIDAllocator

	cfg     config.Config
	blocked []string
	log     *zap.SugaredLogger
	metrics *telemetry.Metrics
}

// NewHub creates an empty world. A nil logger or metrics is replaced with a
// no-op implementation.
func NewHub(cfg config.Config, registry *game.Registry, log *zap.SugaredLogger, metrics *telemetry.Metrics) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if metrics == nil {
		metrics = &telemetry.Metrics{}
	}
	blocked := make([]string, 0, len(cfg.BlockedWords))
	for _, w := range cfg.BlockedWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			blocked = append(blocked, w)
		}
	}
	return &Hub{
		world:    game.NewWorldState(),
		registry: registry,
		subs:     make(map[game.ClientID]*Subscriber),
		cfg:      cfg,
		blocked:  blocked,
		log:      log,
		metrics:  metrics,
	}
}

// Attach reserves a client id and an outbound queue. The client does not
// exist in the world until it sends Connect.
func (h *Hub) Attach() *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		id:   h.clientIDs.Next(),
		send: make(chan []byte, h.cfg.SendQueue),
	}
	h.subs[sub.id] = sub
	h.metrics.ClientsConnected.Add(1)
	return sub
}

// RemoveClient drops the subscriber, removes its world entity, and tells
// everyone else. Safe to call for ids that never connected.
func (h *Hub) RemoveClient(id game.ClientID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(sub.send)
	h.metrics.ClientsConnected.Add(-1)

	// Drop any coalesced action so the next tick's batch cannot name a
	// client everyone was already told has left.
	for i := range h.queued {
		if h.queued[i].ID == id {
			h.queued = append(h.queued[:i], h.queued[i+1:]...)
			break
		}
	}

	if h.world.RemoveClient(id) {
		h.notifyLocked(proto.ClientLeft{ID: id}, allExcept(id))
	}
}

// Update handles one decoded client message.
func (h *Hub) Update(id game.ClientID, msg proto.ClientMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics.MessagesIn.Add(1)

	switch m := msg.(type) {
	case proto.Connect:
		h.handleConnectLocked(id, m.Name)

	case proto.Action:
		if h.world.ClientByID(id) == nil {
			return
		}
		for i := range h.queued {
			if h.queued[i].ID == id {
				h.queued[i].Action.Combine(m.Action)
				return
			}
		}
		h.queued = append(h.queued, proto.ClientUpdate{ID: id, Action: m.Action})

	case proto.Chat:
		if h.world.ClientByID(id) == nil {
			return
		}
		text := truncateRunes(m.Text, h.cfg.ChatLimit)
		if h.containsBlocked(text) {
			text = "*****"
		}
		h.notifyLocked(proto.ChatBroadcast{ID: id, Text: text}, all())

	case proto.ObjectUpdate:
		boxed, ok := h.world.Objects[m.ID]
		if !ok {
			return
		}
		data, err := boxed.Object.ServerMessage(m.Data)
		if err != nil {
			h.metrics.DecodeErrors.Add(1)
			h.log.Warnw("object message rejected", "object", m.ID, "client", id, "error", err)
			return
		}
		if data != nil {
			h.notifyLocked(proto.ObjectDelta{ID: m.ID, Data: data}, all())
		}
	}
}

func (h *Hub) handleConnectLocked(id game.ClientID, name string) {
	if h.containsBlocked(name) {
		name = "*****"
	}
	name = strings.TrimSpace(truncateRunes(name, h.cfg.NameLimit))
	if name == "" {
		name = game.DefaultName
	}

	// A second Connect from the same transport is ignored.
	if h.world.ClientByID(id) != nil {
		return
	}

	client := game.NewClient(id, name, game.Point{X: h.cfg.Spawn.X, Y: h.cfg.Spawn.Y})
	h.world.Clients = append(h.world.Clients, client)

	h.notifyLocked(proto.FullState{
		Client: client,
		World:  h.encodeWorldExceptLocked(id),
	}, only(id))
	h.notifyLocked(proto.NewClient{Client: client}, allExcept(id))

	h.log.Infow("client connected", "client", id, "name", name)
}

// encodeWorldExceptLocked snapshots the world without the given client, for
// the FullState handshake where the receiver carries its own entity
// separately.
func (h *Hub) encodeWorldExceptLocked(id game.ClientID) []byte {
	snapshot := game.WorldState{
		SpecialEvents: h.world.SpecialEvents,
		Objects:       h.world.Objects,
	}
	snapshot.Clients = make([]game.Client, 0, len(h.world.Clients))
	for _, c := range h.world.Clients {
		if c.ID != id {
			snapshot.Clients = append(snapshot.Clients, c)
		}
	}
	return game.EncodeWorld(&snapshot)
}

type collisionPair struct {
	receiver game.ObjectID
	source   game.ObjectID
}

type pendingHit struct {
	pair collisionPair
	info game.CollisionInfo
}

// Tick advances the world by deltaMS. Object order is sorted by id so a
// given world state always produces the same result.
func (h *Hub) Tick(deltaMS int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]game.ObjectID, 0, len(h.world.Objects))
	for id := range h.world.Objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// Collision state is sampled once, before anything moves, so every
	// object this tick sees the same world.
	type collected struct {
		id     game.ObjectID
		hitbox game.Rect
		info   game.CollisionInfo
	}
	hitboxes := make([]collected, 0, len(ids))
	for _, id := range ids {
		obj := h.world.Objects[id].Object
		if hb, ok := game.Hitbox(obj); ok {
			hitboxes = append(hitboxes, collected{id: id, hitbox: hb, info: obj.CollisionInfo()})
		}
	}

	delivered := make(map[collisionPair]bool)
	var pending []pendingHit

	for _, id := range ids {
		id := id
		tester := func(self game.Object) (game.CollisionInfo, bool) {
			hb, ok := game.Hitbox(self)
			if !ok {
				return game.CollisionInfo{}, false
			}
			info := self.CollisionInfo()
			for _, other := range hitboxes {
				if other.id == id || !hb.Intersects(other.hitbox) {
					continue
				}
				pair := collisionPair{receiver: id, source: other.id}
				if !delivered[pair] {
					delivered[pair] = true
					self.OnCollision(other.info)
				}
				pending = append(pending, pendingHit{
					pair: collisionPair{receiver: other.id, source: id},
					info: info,
				})
				return other.info, true
			}
			return game.CollisionInfo{}, false
		}
		h.world.Objects[id].Object.Tick(deltaMS, tester)
	}

	// Second pass hands each hit to the object that did not run its own
	// tester against it, so both sides of a pair see the collision exactly
	// once.
	for _, hit := range pending {
		if delivered[hit.pair] {
			continue
		}
		delivered[hit.pair] = true
		if boxed, ok := h.world.Objects[hit.pair.receiver]; ok {
			boxed.Object.OnCollision(hit.info)
		}
	}

	for _, id := range ids {
		data, err := h.world.Objects[id].Object.ServerTick()
		if err != nil {
			h.log.Warnw("object tick failed", "object", id, "error", err)
			continue
		}
		if data != nil {
			h.notifyLocked(proto.ObjectDelta{ID: id, Data: data}, all())
		}
	}

	if len(h.queued) == 0 {
		return
	}

	// Broadcast first, then apply, so the server and every client apply
	// the same batch to the same pre-tick state.
	updates := make([]proto.ClientUpdate, len(h.queued))
	copy(updates, h.queued)
	h.notifyLocked(proto.UpdateState{Updates: updates}, all())

	for _, update := range h.queued {
		if client := h.world.ClientByID(update.ID); client != nil {
			client.ApplyAction(update.Action)
		}
	}
	h.queued = h.queued[:0]
}

// RunSimulation drives Tick at the configured rate until stop closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	interval := time.Second / time.Duration(h.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			delta := now.Sub(last).Milliseconds()
			last = now
			if delta <= 0 {
				continue
			}
			start := time.Now()
			h.Tick(delta)
			h.metrics.AddTick(time.Since(start).Nanoseconds())
		}
	}
}

// SpecialEvent reports whether the event is active.
func (h *Hub) SpecialEvent(event game.SpecialEvent) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world.SpecialEvent(event)
}

// SetSpecialEvent toggles a world-wide event and spawns or removes the
// objects that come with it. Toggling to the current state is a no-op.
func (h *Hub) SetSpecialEvent(event game.SpecialEvent, active bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.world.SpecialEvent(event) == active {
		return
	}

	switch event {
	case game.EventBeachDay:
		if active {
			// Seeded so restarts recreate the same beach.
			rng := rand.New(rand.NewSource(0))
			for i := 0; i < 500; i++ {
				ball := objects.NewBeachBall(game.Point{
					X: rng.Int63n(4000) - 2000,
					Y: rng.Int63n(2000) - 1000,
				})
				h.addObjectLocked(game.Box(h.registry, ball))
			}
		} else if kind, ok := game.KindOf[*objects.BeachBall](h.registry); ok {
			var removed []game.ObjectID
			for id, boxed := range h.world.Objects {
				if boxed.Kind == kind {
					removed = append(removed, id)
				}
			}
			sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
			for _, id := range removed {
				h.removeObjectLocked(id)
			}
		}
	}

	h.world.SetSpecialEvent(event, active)
	h.notifyLocked(proto.SpecialEventToggle{Event: event, Active: active}, all())
	h.log.Infow("special event toggled", "event", event.String(), "active", active)
}

// SpawnObject inserts an object outside of any event, announcing it to all
// clients.
func (h *Hub) SpawnObject(boxed game.BoxedNetworkObject) game.ObjectID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addObjectLocked(boxed)
}

func (h *Hub) addObjectLocked(boxed game.BoxedNetworkObject) game.ObjectID {
	id := h.objectIDs.Next()
	var w wire.Writer
	boxed.Encode(&w)
	h.notifyLocked(proto.ObjectSpawn{ID: id, Object: w.Bytes()}, all())
	h.world.Objects[id] = boxed
	h.metrics.ObjectsSpawned.Add(1)
	return id
}

func (h *Hub) removeObjectLocked(id game.ObjectID) {
	delete(h.world.Objects, id)
	h.notifyLocked(proto.ObjectDespawn{ID: id}, all())
	h.metrics.ObjectsRemoved.Add(1)
}

type notifyTarget struct {
	mode uint8
	id   game.ClientID
}

const (
	targetAll = iota
	targetAllExcept
	targetOnly
)

func all() notifyTarget                       { return notifyTarget{mode: targetAll} }
func allExcept(id game.ClientID) notifyTarget { return notifyTarget{mode: targetAllExcept, id: id} }
func only(id game.ClientID) notifyTarget      { return notifyTarget{mode: targetOnly, id: id} }

// notifyLocked encodes msg once and enqueues it per target. Full queues
// drop the message; the websocket layer disconnects clients that stay
// behind.
func (h *Hub) notifyLocked(msg proto.ServerMessage, target notifyTarget) {
	data := proto.EncodeServerMessage(msg)
	for id, sub := range h.subs {
		switch target.mode {
		case targetAllExcept:
			if id == target.id {
				continue
			}
		case targetOnly:
			if id != target.id {
				continue
			}
		}
		select {
		case sub.send <- data:
			h.metrics.MessagesOut.Add(1)
		default:
			h.metrics.DroppedOutbound.Add(1)
			h.log.Warnw("outbound queue full, dropping message", "client", id)
		}
	}
}

func (h *Hub) containsBlocked(text string) bool {
	if len(h.blocked) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, word := range h.blocked {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
