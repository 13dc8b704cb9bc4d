package objects

import (
	"testing"

	"glade/server/internal/game"
	"glade/server/internal/wire"
)

func almostEqual(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}

func TestBeachBallDampsToRest(t *testing.T) {
	ball := NewBeachBall(game.Point{X: 100, Y: 100})
	ball.velocity = game.Vec2{X: 3, Y: -2}

	for i := 0; i < 200; i++ {
		ball.Tick(game.TickInterval, nil)
	}

	if ball.velocity.X != 0 || ball.velocity.Y != 0 {
		t.Fatalf("ball should come to rest, velocity %+v", ball.velocity)
	}

	rest := ball.props.Position
	ball.Tick(game.TickInterval, nil)
	if ball.props.Position != rest {
		t.Fatalf("resting ball moved from %+v to %+v", rest, ball.props.Position)
	}
}

func TestBeachBallMovingPlayerPushesWithForce(t *testing.T) {
	ball := NewBeachBall(game.Point{})
	center := ball.CollisionInfo().Center()

	// Player 32px east of the ball's center, walking into it.
	player := game.PlayerCollision(game.Point{X: center.X + 32, Y: center.Y}, game.Vec2{X: -2})

	var w wire.Writer
	game.EncodeCollisionInfo(&w, player)
	data, err := ball.ServerMessage(w.Bytes())
	if err != nil {
		t.Fatalf("server message: %v", err)
	}
	if data == nil {
		t.Fatal("server message should answer with a state payload")
	}

	// Distance-scaled shove 16/32*0.5 plus the player impulse.
	want := float32(-0.25 - 1.2)
	if !almostEqual(ball.velocity.X, want) || !almostEqual(ball.velocity.Y, 0) {
		t.Fatalf("velocity after push: got %+v want X=%v", ball.velocity, want)
	}

	state, err := decodeBeachBallState(data)
	if err != nil {
		t.Fatalf("decode state payload: %v", err)
	}
	if state.velocity != ball.velocity {
		t.Fatalf("payload velocity %+v does not match ball %+v", state.velocity, ball.velocity)
	}
}

func TestBeachBallIdlePlayerPushesWithoutForce(t *testing.T) {
	ball := NewBeachBall(game.Point{})
	center := ball.CollisionInfo().Center()
	player := game.PlayerCollision(game.Point{X: center.X + 32, Y: center.Y}, game.Vec2{})

	ball.applyCollision(player)

	if !almostEqual(ball.velocity.X, -0.25) || !almostEqual(ball.velocity.Y, 0) {
		t.Fatalf("idle player should shove without the extra impulse, got %+v", ball.velocity)
	}
}

func TestBeachBallServerTickEmitsOnlyWhileMoving(t *testing.T) {
	ball := NewBeachBall(game.Point{})
	center := ball.CollisionInfo().Center()
	ball.OnCollision(game.PlayerCollision(game.Point{X: center.X + 32, Y: center.Y}, game.Vec2{X: -2}))

	data, err := ball.ServerTick()
	if err != nil {
		t.Fatalf("server tick: %v", err)
	}
	if data == nil {
		t.Fatal("moving ball should emit a state payload")
	}

	ball.velocity = game.Vec2{X: 0.05, Y: 0.05}
	data, err = ball.ServerTick()
	if err != nil {
		t.Fatalf("server tick: %v", err)
	}
	if data != nil {
		t.Fatalf("near-resting ball should stay silent, got %d bytes", len(data))
	}
}

func TestBeachBallClientTickForwardsQueuedCollision(t *testing.T) {
	ball := NewBeachBall(game.Point{X: 10, Y: 20})
	info := game.PlayerCollision(game.Point{X: 26, Y: 36}, game.Vec2{X: 1, Y: 1})
	ball.OnCollision(info)

	data, err := ball.ClientTick()
	if err != nil {
		t.Fatalf("client tick: %v", err)
	}
	got, err := game.DecodeCollisionInfo(wire.NewReader(data))
	if err != nil {
		t.Fatalf("decode forwarded collision: %v", err)
	}
	if got != info {
		t.Fatalf("forwarded collision: got %+v want %+v", got, info)
	}

	data, err = ball.ClientTick()
	if err != nil {
		t.Fatalf("client tick: %v", err)
	}
	if data != nil {
		t.Fatal("collision should be forwarded once")
	}
}

func TestBeachBallClientMessageOverridesLocalState(t *testing.T) {
	ball := NewBeachBall(game.Point{})
	authoritative := beachBallState{
		posF:     game.Vec2{X: 33.5, Y: -7.25},
		velocity: game.Vec2{X: 0.5, Y: 2},
	}

	if err := ball.ClientMessage(authoritative.encode()); err != nil {
		t.Fatalf("client message: %v", err)
	}
	if ball.posF != authoritative.posF || ball.velocity != authoritative.velocity {
		t.Fatalf("state not applied: posF %+v velocity %+v", ball.posF, ball.velocity)
	}
	want := game.Point{X: 33, Y: -7}
	if ball.props.Position != want {
		t.Fatalf("position: got %+v want %+v", ball.props.Position, want)
	}
}

func TestBeachBallEncodeStateRoundTrip(t *testing.T) {
	ball := NewBeachBall(game.Point{X: -40, Y: 12})
	ball.posF = game.Vec2{X: -39.5, Y: 12.75}
	ball.velocity = game.Vec2{X: 1.25, Y: -3}

	got, err := DecodeBeachBall(ball.EncodeState())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.props.Position != ball.props.Position {
		t.Fatalf("position: got %+v want %+v", got.props.Position, ball.props.Position)
	}
	if got.posF != ball.posF || got.velocity != ball.velocity {
		t.Fatalf("float state: got posF %+v velocity %+v", got.posF, got.velocity)
	}
	if got.props.Hitbox == nil || *got.props.Hitbox != *ball.props.Hitbox {
		t.Fatalf("hitbox: got %+v want %+v", got.props.Hitbox, ball.props.Hitbox)
	}
}

func TestBeachBallTickDeliversCollisionThroughTester(t *testing.T) {
	ball := NewBeachBall(game.Point{})
	other := game.StaticCollision(game.Point{X: 100, Y: 100})

	var sawSelf game.Object
	ball.Tick(game.TickInterval, func(self game.Object) (game.CollisionInfo, bool) {
		sawSelf = self
		return other, true
	})

	if sawSelf != game.Object(ball) {
		t.Fatal("tester should receive the ticking ball")
	}
}
