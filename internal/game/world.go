package game

import (
	"errors"
	"fmt"

	"glade/server/internal/wire"
)

// SpecialEvent names a world-wide toggleable mode. The numeric order is part
// of the wire format.
type SpecialEvent uint8

const (
	// EventBeachDay floods the world with beach balls.
	EventBeachDay SpecialEvent = iota
)

func (e SpecialEvent) String() string {
	switch e {
	case EventBeachDay:
		return "beach-day"
	default:
		return fmt.Sprintf("special-event-%d", uint8(e))
	}
}

// SpecialEventState holds the flag per known event.
type SpecialEventState struct {
	BeachDay bool
}

// WorldState is the authoritative world: every connected client's entity,
// the special-event flags, and every live network object.
type WorldState struct {
	Clients       []Client
	SpecialEvents SpecialEventState
	Objects       map[ObjectID]BoxedNetworkObject
}

// NewWorldState returns an empty world.
func NewWorldState() *WorldState {
	return &WorldState{
		Objects: make(map[ObjectID]BoxedNetworkObject),
	}
}

// ClientByID returns a pointer into Clients for the given id.
func (w *WorldState) ClientByID(id ClientID) *Client {
	for i := range w.Clients {
		if w.Clients[i].ID == id {
			return &w.Clients[i]
		}
	}
	return nil
}

// RemoveClient drops the client with the given id, reporting whether it was
// present.
func (w *WorldState) RemoveClient(id ClientID) bool {
	for i := range w.Clients {
		if w.Clients[i].ID == id {
			w.Clients = append(w.Clients[:i], w.Clients[i+1:]...)
			return true
		}
	}
	return false
}

// SpecialEvent reports whether the event is active.
func (w *WorldState) SpecialEvent(event SpecialEvent) bool {
	switch event {
	case EventBeachDay:
		return w.SpecialEvents.BeachDay
	default:
		return false
	}
}

// SetSpecialEvent flips the event flag.
func (w *WorldState) SetSpecialEvent(event SpecialEvent, active bool) {
	switch event {
	case EventBeachDay:
		w.SpecialEvents.BeachDay = active
	}
}

// Encode appends the world's full wire form: clients, event flags, then the
// object map as (instance id, boxed object) pairs.
func (w *WorldState) Encode(wr *wire.Writer) {
	wr.Uvarint(uint64(len(w.Clients)))
	for i := range w.Clients {
		w.Clients[i].Encode(wr)
	}
	wr.Bool(w.SpecialEvents.BeachDay)
	wr.Uvarint(uint64(len(w.Objects)))
	for id, boxed := range w.Objects {
		wr.Uvarint(uint64(id))
		boxed.Encode(wr)
	}
}

// EncodeWorld returns the world's wire form as a standalone payload.
func EncodeWorld(w *WorldState) []byte {
	var wr wire.Writer
	w.Encode(&wr)
	return wr.Bytes()
}

// DecodeWorld reconstructs a world snapshot. Objects of unknown kind are
// skipped rather than failing the whole snapshot; the returned error joins
// one ErrUnknownKind per skipped object and the world is still usable.
func DecodeWorld(registry *Registry, data []byte) (*WorldState, error) {
	rd := wire.NewReader(data)
	world := NewWorldState()

	clientCount, err := rd.Uvarint()
	if err != nil {
		return nil, fmt.Errorf("decode world clients: %w", err)
	}
	for i := uint64(0); i < clientCount; i++ {
		client, err := DecodeClient(rd)
		if err != nil {
			return nil, fmt.Errorf("decode world client %d: %w", i, err)
		}
		world.Clients = append(world.Clients, client)
	}

	beachDay, err := rd.Bool()
	if err != nil {
		return nil, fmt.Errorf("decode world events: %w", err)
	}
	world.SpecialEvents.BeachDay = beachDay

	objectCount, err := rd.Uvarint()
	if err != nil {
		return nil, fmt.Errorf("decode world objects: %w", err)
	}
	var skipped []error
	for i := uint64(0); i < objectCount; i++ {
		rawID, err := rd.Uvarint()
		if err != nil {
			return nil, fmt.Errorf("decode world object %d: %w", i, err)
		}
		boxed, err := registry.DecodeBoxed(rd)
		if err != nil {
			if errors.Is(err, ErrUnknownKind) {
				skipped = append(skipped, err)
				continue
			}
			return nil, fmt.Errorf("decode world object %d: %w", i, err)
		}
		world.Objects[ObjectID(rawID)] = boxed
	}

	return world, errors.Join(skipped...)
}
