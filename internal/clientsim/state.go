// Package clientsim is the client-side half of the protocol: a locally
// predicted mirror of the world that a frontend drives once per frame. It
// owns no I/O; messages leave through a send callback and arrive through
// HandleMessage.
package clientsim

import (
	"errors"
	"fmt"

	"glade/server/internal/game"
	"glade/server/internal/proto"
	"glade/server/internal/wire"
)

// ErrUnexpectedFullState is returned when a FullState arrives after the
// handshake. The connection layer consumes the first one via New.
var ErrUnexpectedFullState = errors.New("clientsim: unexpected FullState after handshake")

// ReconcilePolicy decides what happens when the server echoes the local
// player's own action back in an UpdateState batch.
type ReconcilePolicy uint8

const (
	// ReconcileRemoteOnly ignores the echo. Local prediction already
	// advanced past it, so server-side corrections of the local player are
	// never folded back in.
	ReconcileRemoteOnly ReconcilePolicy = iota

	// ReconcileServerAuthority re-applies the echo, snapping the local
	// player to whatever the server resolved.
	ReconcileServerAuthority
)

// forcedUpdatePeriods is how many tick periods may pass without sending
// before an unchanged state is pushed anyway.
const forcedUpdatePeriods = 15

// bubbleDurationMS is how long a chat bubble stays visible.
const bubbleDurationMS = 5000

// chatLogLimit caps the scrollback kept for the chat log.
const chatLogLimit = 256

// Bubble is a transient chat message attached to a client.
type Bubble struct {
	ClientID game.ClientID
	Text     string
	ExpiryMS int64
}

// The local player's hitbox, relative to its position.
var playerHitbox = game.Rect{
	Min: game.Point{X: 2, Y: 12},
	Max: game.Point{X: 30, Y: 32},
}

// GameState is the local world: the player's own predicted entity, a
// mirror of everyone else, and the replicated object set.
type GameState struct {
	client game.Client
	world  *game.WorldState

	registry *game.Registry
	policy   ReconcilePolicy

	timeMS     int64
	lastTickMS int64
	lastSentMS int64

	intent    game.Direction
	pending   game.ClientAction
	composing bool

	// localObjects are client-only decorations the player can bump into.
	// They never replicate.
	localObjects []game.Object

	bubbles []Bubble
	chatLog []string
}

// New builds the local state from the connect handshake. The world payload
// excludes the receiver, which arrives separately in fs.Client.
func New(registry *game.Registry, policy ReconcilePolicy, fs proto.FullState) (*GameState, error) {
	world, err := game.DecodeWorld(registry, fs.World)
	if err != nil && world == nil {
		return nil, fmt.Errorf("decode world: %w", err)
	}
	return &GameState{
		client:   fs.Client,
		world:    world,
		registry: registry,
		policy:   policy,
	}, nil
}

// Client returns the locally predicted player.
func (g *GameState) Client() game.Client { return g.client }

// World exposes the mirrored world for rendering.
func (g *GameState) World() *game.WorldState { return g.world }

// Composing reports whether the chat composer is open.
func (g *GameState) Composing() bool { return g.composing }

// Bubbles returns the currently visible chat bubbles.
func (g *GameState) Bubbles() []Bubble { return g.bubbles }

// ChatLog returns the chat scrollback, oldest first.
func (g *GameState) ChatLog() []string { return g.chatLog }

// AddLocalObject registers a client-only decoration.
func (g *GameState) AddLocalObject(obj game.Object) {
	g.localObjects = append(g.localObjects, obj)
}

// InteractableAt returns the object under the point that accepts
// interaction, replicated objects first, then local decorations. Frontends
// call this on click.
func (g *GameState) InteractableAt(pos game.Point) (game.Object, bool) {
	for _, boxed := range g.world.Objects {
		if game.InteractsWith(boxed.Object, pos) {
			return boxed.Object, true
		}
	}
	for _, obj := range g.localObjects {
		if game.InteractsWith(obj, pos) {
			return obj, true
		}
	}
	return nil, false
}

// PressDirection sets the movement intent. Ignored while composing.
func (g *GameState) PressDirection(d game.Direction) {
	if g.composing || d == game.DirNone {
		return
	}
	g.intent = d
}

// ReleaseDirection clears the intent only when d is still the active
// intent, so releasing a stale key cannot cancel a newer press.
func (g *GameState) ReleaseDirection(d game.Direction) {
	if g.composing || g.intent != d {
		return
	}
	g.intent = game.DirNone
	g.pending.SetMovement(g.client.Position, game.DirNone)
}

// StartComposing opens the chat composer, stopping movement and flagging
// the player as typing.
func (g *GameState) StartComposing() {
	if g.composing {
		return
	}
	g.composing = true
	g.intent = game.DirNone
	g.pending.SetTyping(true)
}

// CancelComposing closes the composer without sending.
func (g *GameState) CancelComposing() {
	if !g.composing {
		return
	}
	g.composing = false
	g.pending.SetTyping(false)
}

// SubmitChat sends the composed line and closes the composer.
func (g *GameState) SubmitChat(text string, send func(proto.ClientMessage)) {
	if !g.composing {
		return
	}
	g.composing = false
	g.pending.SetTyping(false)
	if text != "" {
		send(proto.Chat{Text: text})
	}
}

// Update advances the local simulation by deltaMS of wall-clock time and
// flushes any resulting action to the server.
func (g *GameState) Update(deltaMS int64, send func(proto.ClientMessage)) {
	g.timeMS += deltaMS

	action := g.pending
	g.pending = game.ClientAction{}

	tickAmt := (g.timeMS - g.lastTickMS) / game.TickInterval
	g.lastTickMS += tickAmt * game.TickInterval

	if !g.composing && g.intent != game.DirNone {
		delta := g.intent.Delta()
		position := g.client.Position.Add(game.Point{X: delta.X * tickAmt, Y: delta.Y * tickAmt})
		if g.collidesLocally(position) {
			// Blocked: keep facing that way but stay put.
			action.SetLook(g.intent)
		} else {
			action.SetMovement(position, g.intent)
		}
	}

	g.tickObjects(deltaMS, send)

	forced := g.timeMS-g.lastSentMS > game.TickInterval*forcedUpdatePeriods
	if action.Any() || forced {
		if forced && !action.Any() {
			action.SetMovement(g.client.Position, g.client.Movement)
			action.SetTyping(g.composing)
			g.lastSentMS = g.timeMS
		}
		g.client.ApplyAction(action)
		send(proto.Action{Action: action})
	}

	g.expireBubbles()
}

// collidesLocally checks the player's hitbox at position against the
// client-only decorations.
func (g *GameState) collidesLocally(position game.Point) bool {
	hitbox := playerHitbox.Translate(position)
	for _, obj := range g.localObjects {
		if other, ok := game.Hitbox(obj); ok && other.Intersects(hitbox) {
			return true
		}
	}
	return false
}

// tickObjects runs the replicated objects' local simulation, colliding
// them against the player and forwarding anything they want to tell the
// server.
func (g *GameState) tickObjects(deltaMS int64, send func(proto.ClientMessage)) {
	playerBox := playerHitbox.Translate(g.client.Position)
	center := g.client.Position.Add(playerHitbox.Min).Add(game.Point{
		X: (playerHitbox.Max.X - playerHitbox.Min.X) / 2,
		Y: (playerHitbox.Max.Y - playerHitbox.Min.Y) / 2,
	})
	var velocity game.Vec2
	if !g.composing && g.intent != game.DirNone {
		delta := g.intent.Delta()
		velocity = game.Vec2{X: float32(delta.X), Y: float32(delta.Y)}
	}
	playerInfo := game.PlayerCollision(center, velocity)

	for id, boxed := range g.world.Objects {
		tester := func(self game.Object) (game.CollisionInfo, bool) {
			hb, ok := game.Hitbox(self)
			if !ok || !hb.Intersects(playerBox) {
				return game.CollisionInfo{}, false
			}
			self.OnCollision(playerInfo)
			return playerInfo, true
		}
		boxed.Object.Tick(deltaMS, tester)

		data, err := boxed.Object.ClientTick()
		if err != nil || data == nil {
			continue
		}
		send(proto.ObjectUpdate{ID: id, Data: data})
	}
}

func (g *GameState) expireBubbles() {
	kept := g.bubbles[:0]
	for _, b := range g.bubbles {
		if b.ExpiryMS > g.timeMS {
			kept = append(kept, b)
		}
	}
	g.bubbles = kept
}

// HandleMessage folds one server message into the local state.
func (g *GameState) HandleMessage(msg proto.ServerMessage) error {
	switch m := msg.(type) {
	case proto.FullState:
		return ErrUnexpectedFullState

	case proto.NewClient:
		if m.Client.ID == g.client.ID || g.world.ClientByID(m.Client.ID) != nil {
			return nil
		}
		g.world.Clients = append(g.world.Clients, m.Client)

	case proto.ClientLeft:
		if m.ID != g.client.ID {
			g.world.RemoveClient(m.ID)
		}

	case proto.UpdateState:
		for _, update := range m.Updates {
			if update.ID == g.client.ID {
				if g.policy == ReconcileServerAuthority {
					g.client.ApplyAction(update.Action)
				}
				continue
			}
			if client := g.world.ClientByID(update.ID); client != nil {
				client.ApplyAction(update.Action)
			}
		}

	case proto.ChatBroadcast:
		g.handleChat(m)

	case proto.SpecialEventToggle:
		g.world.SetSpecialEvent(m.Event, m.Active)

	case proto.ObjectSpawn:
		boxed, err := g.registry.DecodeBoxed(wire.NewReader(m.Object))
		if err != nil {
			return fmt.Errorf("object %d: %w", m.ID, err)
		}
		g.world.Objects[m.ID] = boxed

	case proto.ObjectDelta:
		boxed, ok := g.world.Objects[m.ID]
		if !ok {
			return nil
		}
		if err := boxed.Object.ClientMessage(m.Data); err != nil {
			return fmt.Errorf("object %d: %w", m.ID, err)
		}

	case proto.ObjectDespawn:
		delete(g.world.Objects, m.ID)
	}
	return nil
}

func (g *GameState) handleChat(m proto.ChatBroadcast) {
	name := "Unknown"
	if m.ID == g.client.ID {
		g.client.Typing = false
		name = "You"
	} else if client := g.world.ClientByID(m.ID); client != nil {
		client.Typing = false
		name = client.Name
	}

	g.chatLog = append(g.chatLog, fmt.Sprintf("<%s> %s", name, m.Text))
	if len(g.chatLog) > chatLogLimit {
		g.chatLog = g.chatLog[1:]
	}

	g.bubbles = append(g.bubbles, Bubble{
		ClientID: m.ID,
		Text:     m.Text,
		ExpiryMS: g.timeMS + bubbleDurationMS,
	})
}
