// Package proto defines the two closed message sets exchanged between client
// and server and their binary codec. Variant tags follow declaration order
// and are part of the wire format.
package proto

import (
	"fmt"

	"glade/server/internal/game"
	"glade/server/internal/wire"
)

// ClientMessage is a message sent from a client to the server.
type ClientMessage interface {
	clientMessage()
}

// Connect requests entry into the world under the given display name.
type Connect struct {
	Name string
}

// Action carries a movement/typing intent delta.
type Action struct {
	Action game.ClientAction
}

// Chat carries a chat line.
type Chat struct {
	Text string
}

// ObjectUpdate pushes a kind-specific payload at one network object.
type ObjectUpdate struct {
	ID   game.ObjectID
	Data []byte
}

func (Connect) clientMessage()      {}
func (Action) clientMessage()       {}
func (Chat) clientMessage()         {}
func (ObjectUpdate) clientMessage() {}

// ServerMessage is a message sent from the server to one or more clients.
type ServerMessage interface {
	serverMessage()
}

// FullState is the one-time connect handshake: the receiver's own entity plus
// an encoded world snapshot that excludes it.
type FullState struct {
	Client game.Client
	World  []byte
}

// NewClient announces a player joining.
type NewClient struct {
	Client game.Client
}

// ClientLeft announces a player leaving.
type ClientLeft struct {
	ID game.ClientID
}

// ClientUpdate is one coalesced action applied to one client.
type ClientUpdate struct {
	ID     game.ClientID
	Action game.ClientAction
}

// UpdateState is the per-tick batch of every client action applied this tick.
type UpdateState struct {
	Updates []ClientUpdate
}

// ChatBroadcast relays a chat line, including back to its sender.
type ChatBroadcast struct {
	ID   game.ClientID
	Text string
}

// SpecialEventToggle announces a world-wide mode change.
type SpecialEventToggle struct {
	Event  game.SpecialEvent
	Active bool
}

// ObjectSpawn announces a new network object; Object is its boxed wire form.
type ObjectSpawn struct {
	ID     game.ObjectID
	Object []byte
}

// ObjectDelta carries a kind-specific state payload for one object.
type ObjectDelta struct {
	ID   game.ObjectID
	Data []byte
}

// ObjectDespawn announces a network object's removal.
type ObjectDespawn struct {
	ID game.ObjectID
}

func (FullState) serverMessage()          {}
func (NewClient) serverMessage()          {}
func (ClientLeft) serverMessage()         {}
func (UpdateState) serverMessage()        {}
func (ChatBroadcast) serverMessage()      {}
func (SpecialEventToggle) serverMessage() {}
func (ObjectSpawn) serverMessage()        {}
func (ObjectDelta) serverMessage()        {}
func (ObjectDespawn) serverMessage()      {}

const (
	tagConnect = iota
	tagAction
	tagChat
	tagObjectUpdate
)

const (
	tagFullState = iota
	tagNewClient
	tagClientLeft
	tagUpdateState
	tagChatBroadcast
	tagSpecialEvent
	tagObjectSpawn
	tagObjectDelta
	tagObjectDespawn
)

// EncodeClientMessage serializes one client message.
func EncodeClientMessage(msg ClientMessage) []byte {
	var w wire.Writer
	switch m := msg.(type) {
	case Connect:
		w.Uvarint(tagConnect)
		w.String(m.Name)
	case Action:
		w.Uvarint(tagAction)
		m.Action.Encode(&w)
	case Chat:
		w.Uvarint(tagChat)
		w.String(m.Text)
	case ObjectUpdate:
		w.Uvarint(tagObjectUpdate)
		w.Uvarint(uint64(m.ID))
		w.Blob(m.Data)
	default:
		panic(fmt.Sprintf("proto: unknown client message %T", msg))
	}
	return w.Bytes()
}

// DecodeClientMessage parses one client message.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	r := wire.NewReader(data)
	tag, err := r.Uvarint()
	if err != nil {
		return nil, fmt.Errorf("client message tag: %w", err)
	}
	switch tag {
	case tagConnect:
		name, err := r.String()
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		return Connect{Name: name}, nil
	case tagAction:
		action, err := game.DecodeAction(r)
		if err != nil {
			return nil, fmt.Errorf("action: %w", err)
		}
		return Action{Action: action}, nil
	case tagChat:
		text, err := r.String()
		if err != nil {
			return nil, fmt.Errorf("chat: %w", err)
		}
		return Chat{Text: text}, nil
	case tagObjectUpdate:
		id, err := r.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("object update: %w", err)
		}
		data, err := r.Blob()
		if err != nil {
			return nil, fmt.Errorf("object update: %w", err)
		}
		return ObjectUpdate{ID: game.ObjectID(id), Data: data}, nil
	default:
		return nil, fmt.Errorf("client message tag %d: %w", tag, wire.ErrInvalidData)
	}
}

// EncodeServerMessage serializes one server message.
func EncodeServerMessage(msg ServerMessage) []byte {
	var w wire.Writer
	switch m := msg.(type) {
	case FullState:
		w.Uvarint(tagFullState)
		m.Client.Encode(&w)
		w.Blob(m.World)
	case NewClient:
		w.Uvarint(tagNewClient)
		m.Client.Encode(&w)
	case ClientLeft:
		w.Uvarint(tagClientLeft)
		w.Uvarint(uint64(m.ID))
	case UpdateState:
		w.Uvarint(tagUpdateState)
		w.Uvarint(uint64(len(m.Updates)))
		for _, update := range m.Updates {
			w.Uvarint(uint64(update.ID))
			update.Action.Encode(&w)
		}
	case ChatBroadcast:
		w.Uvarint(tagChatBroadcast)
		w.Uvarint(uint64(m.ID))
		w.String(m.Text)
	case SpecialEventToggle:
		w.Uvarint(tagSpecialEvent)
		w.Uvarint(uint64(m.Event))
		w.Bool(m.Active)
	case ObjectSpawn:
		w.Uvarint(tagObjectSpawn)
		w.Uvarint(uint64(m.ID))
		w.Blob(m.Object)
	case ObjectDelta:
		w.Uvarint(tagObjectDelta)
		w.Uvarint(uint64(m.ID))
		w.Blob(m.Data)
	case ObjectDespawn:
		w.Uvarint(tagObjectDespawn)
		w.Uvarint(uint64(m.ID))
	default:
		panic(fmt.Sprintf("proto: unknown server message %T", msg))
	}
	return w.Bytes()
}

// DecodeServerMessage parses one server message.
func DecodeServerMessage(data []byte) (ServerMessage, error) {
	r := wire.NewReader(data)
	tag, err := r.Uvarint()
	if err != nil {
		return nil, fmt.Errorf("server message tag: %w", err)
	}
	switch tag {
	case tagFullState:
		client, err := game.DecodeClient(r)
		if err != nil {
			return nil, fmt.Errorf("full state: %w", err)
		}
		world, err := r.Blob()
		if err != nil {
			return nil, fmt.Errorf("full state: %w", err)
		}
		return FullState{Client: client, World: world}, nil
	case tagNewClient:
		client, err := game.DecodeClient(r)
		if err != nil {
			return nil, fmt.Errorf("new client: %w", err)
		}
		return NewClient{Client: client}, nil
	case tagClientLeft:
		id, err := r.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("client left: %w", err)
		}
		return ClientLeft{ID: game.ClientID(id)}, nil
	case tagUpdateState:
		count, err := r.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("update state: %w", err)
		}
		updates := make([]ClientUpdate, 0, count)
		for i := uint64(0); i < count; i++ {
			id, err := r.Uvarint()
			if err != nil {
				return nil, fmt.Errorf("update state entry %d: %w", i, err)
			}
			action, err := game.DecodeAction(r)
			if err != nil {
				return nil, fmt.Errorf("update state entry %d: %w", i, err)
			}
			updates = append(updates, ClientUpdate{ID: game.ClientID(id), Action: action})
		}
		return UpdateState{Updates: updates}, nil
	case tagChatBroadcast:
		id, err := r.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("chat broadcast: %w", err)
		}
		text, err := r.String()
		if err != nil {
			return nil, fmt.Errorf("chat broadcast: %w", err)
		}
		return ChatBroadcast{ID: game.ClientID(id), Text: text}, nil
	case tagSpecialEvent:
		event, err := r.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("special event: %w", err)
		}
		active, err := r.Bool()
		if err != nil {
			return nil, fmt.Errorf("special event: %w", err)
		}
		return SpecialEventToggle{Event: game.SpecialEvent(event), Active: active}, nil
	case tagObjectSpawn:
		id, err := r.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("object spawn: %w", err)
		}
		object, err := r.Blob()
		if err != nil {
			return nil, fmt.Errorf("object spawn: %w", err)
		}
		return ObjectSpawn{ID: game.ObjectID(id), Object: object}, nil
	case tagObjectDelta:
		id, err := r.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("object delta: %w", err)
		}
		data, err := r.Blob()
		if err != nil {
			return nil, fmt.Errorf("object delta: %w", err)
		}
		return ObjectDelta{ID: game.ObjectID(id), Data: data}, nil
	case tagObjectDespawn:
		id, err := r.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("object despawn: %w", err)
		}
		return ObjectDespawn{ID: game.ObjectID(id)}, nil
	default:
		return nil, fmt.Errorf("server message tag %d: %w", tag, wire.ErrInvalidData)
	}
}
