package game

import (
	"fmt"

	"glade/server/internal/wire"
)

// Wire helpers for the core value types. Field order here is the schema:
// changing it breaks interoperability with every deployed peer.

// EncodePoint appends a point as two zigzag varints.
func EncodePoint(w *wire.Writer, p Point) {
	w.Varint(p.X)
	w.Varint(p.Y)
}

// DecodePoint reads a point written by EncodePoint.
func DecodePoint(r *wire.Reader) (Point, error) {
	x, err := r.Varint()
	if err != nil {
		return Point{}, err
	}
	y, err := r.Varint()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// EncodeVec2 appends a velocity as two float32 values.
func EncodeVec2(w *wire.Writer, v Vec2) {
	w.Float32(v.X)
	w.Float32(v.Y)
}

// DecodeVec2 reads a velocity written by EncodeVec2.
func DecodeVec2(r *wire.Reader) (Vec2, error) {
	x, err := r.Float32()
	if err != nil {
		return Vec2{}, err
	}
	y, err := r.Float32()
	if err != nil {
		return Vec2{}, err
	}
	return Vec2{X: x, Y: y}, nil
}

func decodeDirection(r *wire.Reader) (Direction, error) {
	v, err := r.Uvarint()
	if err != nil {
		return DirNone, err
	}
	if v > uint64(DirNone) {
		return DirNone, fmt.Errorf("direction %d: %w", v, wire.ErrInvalidData)
	}
	return Direction(v), nil
}

// Encode appends the client's wire form.
func (c Client) Encode(w *wire.Writer) {
	w.Uvarint(uint64(c.ID))
	w.String(c.Name)
	w.Bool(c.Typing)
	EncodePoint(w, c.Position)
	w.Uvarint(uint64(c.Movement))
	w.Uvarint(uint64(c.LookDirection))
}

// DecodeClient reads a client written by Client.Encode.
func DecodeClient(r *wire.Reader) (Client, error) {
	var c Client
	id, err := r.Uvarint()
	if err != nil {
		return c, err
	}
	c.ID = ClientID(id)
	if c.Name, err = r.String(); err != nil {
		return c, err
	}
	if c.Typing, err = r.Bool(); err != nil {
		return c, err
	}
	if c.Position, err = DecodePoint(r); err != nil {
		return c, err
	}
	if c.Movement, err = decodeDirection(r); err != nil {
		return c, err
	}
	if c.LookDirection, err = decodeDirection(r); err != nil {
		return c, err
	}
	return c, nil
}

// Encode appends the action's wire form: an optional movement (presence byte,
// variant tag, fields) followed by an optional typing flag.
func (a ClientAction) Encode(w *wire.Writer) {
	w.Bool(a.Movement != nil)
	if a.Movement != nil {
		w.Uvarint(uint64(a.Movement.Kind))
		switch a.Movement.Kind {
		case MovementMove:
			EncodePoint(w, a.Movement.Position)
			w.Uvarint(uint64(a.Movement.Direction))
		case MovementLook:
			w.Uvarint(uint64(a.Movement.Direction))
		}
	}
	w.Bool(a.Typing != nil)
	if a.Typing != nil {
		w.Bool(*a.Typing)
	}
}

// DecodeAction reads an action written by ClientAction.Encode.
func DecodeAction(r *wire.Reader) (ClientAction, error) {
	var a ClientAction

	hasMovement, err := r.Bool()
	if err != nil {
		return a, err
	}
	if hasMovement {
		kind, err := r.Uvarint()
		if err != nil {
			return a, err
		}
		switch MovementKind(kind) {
		case MovementMove:
			pos, err := DecodePoint(r)
			if err != nil {
				return a, err
			}
			dir, err := decodeDirection(r)
			if err != nil {
				return a, err
			}
			a.Movement = &ActionMovement{Kind: MovementMove, Position: pos, Direction: dir}
		case MovementLook:
			dir, err := decodeDirection(r)
			if err != nil {
				return a, err
			}
			a.Movement = &ActionMovement{Kind: MovementLook, Direction: dir}
		default:
			return a, fmt.Errorf("movement kind %d: %w", kind, wire.ErrInvalidData)
		}
	}

	hasTyping, err := r.Bool()
	if err != nil {
		return a, err
	}
	if hasTyping {
		typing, err := r.Bool()
		if err != nil {
			return a, err
		}
		a.Typing = &typing
	}
	return a, nil
}

// EncodeCollisionInfo appends a collision summary; beach balls and similar
// kinds ship these as their client-to-server push payloads.
func EncodeCollisionInfo(w *wire.Writer, c CollisionInfo) {
	EncodePoint(w, c.center)
	w.Bool(c.hasVelocity)
	if c.hasVelocity {
		EncodeVec2(w, c.velocity)
	}
	w.Bool(c.isPlayer)
}

// DecodeCollisionInfo reads a collision summary written by
// EncodeCollisionInfo.
func DecodeCollisionInfo(r *wire.Reader) (CollisionInfo, error) {
	var c CollisionInfo
	var err error
	if c.center, err = DecodePoint(r); err != nil {
		return c, err
	}
	if c.hasVelocity, err = r.Bool(); err != nil {
		return c, err
	}
	if c.hasVelocity {
		if c.velocity, err = DecodeVec2(r); err != nil {
			return c, err
		}
	}
	if c.isPlayer, err = r.Bool(); err != nil {
		return c, err
	}
	return c, nil
}
