package game

import (
	"errors"
	"testing"

	"glade/server/internal/wire"
)

func TestClientRoundTrip(t *testing.T) {
	orig := Client{
		ID:            ClientID(17),
		Name:          "Nayla",
		Typing:        true,
		Position:      Point{X: -120, Y: 88},
		Movement:      DirLeft,
		LookDirection: DirDown,
	}

	var w wire.Writer
	orig.Encode(&w)

	got, err := DecodeClient(wire.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("decode client: %v", err)
	}
	if got != orig {
		t.Fatalf("client round trip: got %+v want %+v", got, orig)
	}
}

func TestDecodeClientRejectsBadDirection(t *testing.T) {
	c := Client{ID: 1, Name: "x", Position: Point{}, Movement: DirNone, LookDirection: DirNone}

	var w wire.Writer
	w.Uvarint(uint64(c.ID))
	w.String(c.Name)
	w.Bool(false)
	EncodePoint(&w, c.Position)
	w.Uvarint(uint64(DirNone) + 1)
	w.Uvarint(uint64(DirNone))

	if _, err := DecodeClient(wire.NewReader(w.Bytes())); !errors.Is(err, wire.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData for out of range direction, got %v", err)
	}
}

func TestActionRoundTrip(t *testing.T) {
	typing := true
	cases := []struct {
		name   string
		action ClientAction
	}{
		{"empty", ClientAction{}},
		{"move", ClientAction{Movement: &ActionMovement{Kind: MovementMove, Position: Point{X: 4, Y: -9}, Direction: DirUp}}},
		{"stop", ClientAction{Movement: &ActionMovement{Kind: MovementMove, Position: Point{X: 0, Y: 0}, Direction: DirNone}}},
		{"look", ClientAction{Movement: &ActionMovement{Kind: MovementLook, Direction: DirRight}}},
		{"typing", ClientAction{Typing: &typing}},
		{"move and typing", ClientAction{
			Movement: &ActionMovement{Kind: MovementMove, Position: Point{X: 1, Y: 2}, Direction: DirDown},
			Typing:   &typing,
		}},
	}

	for _, tc := range cases {
		var w wire.Writer
		tc.action.Encode(&w)

		got, err := DecodeAction(wire.NewReader(w.Bytes()))
		if err != nil {
			t.Fatalf("%s: decode action: %v", tc.name, err)
		}
		if (got.Movement == nil) != (tc.action.Movement == nil) {
			t.Fatalf("%s: movement presence mismatch: got %+v", tc.name, got)
		}
		if got.Movement != nil && *got.Movement != *tc.action.Movement {
			t.Fatalf("%s: movement: got %+v want %+v", tc.name, *got.Movement, *tc.action.Movement)
		}
		if (got.Typing == nil) != (tc.action.Typing == nil) {
			t.Fatalf("%s: typing presence mismatch: got %+v", tc.name, got)
		}
		if got.Typing != nil && *got.Typing != *tc.action.Typing {
			t.Fatalf("%s: typing: got %v want %v", tc.name, *got.Typing, *tc.action.Typing)
		}
	}
}

func TestDecodeActionRejectsBadMovementKind(t *testing.T) {
	var w wire.Writer
	w.Bool(true)
	w.Uvarint(7)

	if _, err := DecodeAction(wire.NewReader(w.Bytes())); !errors.Is(err, wire.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData for unknown movement kind, got %v", err)
	}
}

func TestCollisionInfoRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		info CollisionInfo
	}{
		{"static", StaticCollision(Point{X: 10, Y: -3})},
		{"dynamic", DynamicCollision(Point{X: 0, Y: 7}, Vec2{X: 1.5, Y: -0.25})},
		{"player", PlayerCollision(Point{X: -50, Y: 50}, Vec2{X: 16, Y: 0})},
	}

	for _, tc := range cases {
		var w wire.Writer
		EncodeCollisionInfo(&w, tc.info)

		got, err := DecodeCollisionInfo(wire.NewReader(w.Bytes()))
		if err != nil {
			t.Fatalf("%s: decode collision info: %v", tc.name, err)
		}
		if got != tc.info {
			t.Fatalf("%s: round trip: got %+v want %+v", tc.name, got, tc.info)
		}
	}
}
