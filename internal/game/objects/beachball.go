// Package objects holds the shipped network object kinds and the startup
// registration that makes them decodable.
package objects

import (
	"math"

	"glade/server/internal/game"
	"glade/server/internal/wire"
)

const (
	beachBallSize = 32

	// pushForce is the extra impulse applied when a moving player shoves
	// a ball, so player pushes feel snappier than ball-on-ball drift.
	pushForce = 1.2

	// restSpeed is the per-component velocity below which a ball is
	// considered idle: no broadcast, components zeroed.
	restSpeed = 0.1
)

// BeachBall is a dynamic, pushable ball. The server owns its position;
// clients run the same integration locally for responsiveness and push
// collisions with their own avatar back to the server.
type BeachBall struct {
	props    game.ObjectProperties
	posF     game.Vec2
	velocity game.Vec2

	// angle is render-only spin; it never travels over the wire.
	angle float32

	queuedCollision *game.CollisionInfo
}

// NewBeachBall returns a ball at rest at position.
func NewBeachBall(position game.Point) *BeachBall {
	size := game.Size{Width: beachBallSize, Height: beachBallSize}
	bounds := game.RectFromSize(size)
	hitbox := bounds
	return &BeachBall{
		props: game.ObjectProperties{
			Position: position,
			Size:     size,
			Hitbox:   &hitbox,
			Bounds:   bounds,
		},
		posF: game.Vec2{X: float32(position.X), Y: float32(position.Y)},
	}
}

func (b *BeachBall) Properties() *game.ObjectProperties {
	return &b.props
}

func (b *BeachBall) CollisionInfo() game.CollisionInfo {
	return game.DynamicCollision(b.props.Position.Add(b.props.Size.Center()), b.velocity)
}

func (b *BeachBall) OnCollision(info game.CollisionInfo) {
	b.queuedCollision = &info
}

func (b *BeachBall) SetPosition(position game.Point) {
	b.posF = game.Vec2{X: float32(position.X), Y: float32(position.Y)}
	b.props.Position = position
}

// Velocity returns the ball's current velocity.
func (b *BeachBall) Velocity() game.Vec2 {
	return b.velocity
}

func (b *BeachBall) Tick(deltaMS int64, collide game.CollisionTester) {
	passedTicks := float32(deltaMS) / float32(game.TickInterval)

	// Exponential damping, normalized so the decay rate is framerate
	// independent.
	blend := 1 - float32(math.Pow(0.05, float64(passedTicks)))
	b.velocity.X *= blend
	b.velocity.Y *= blend
	if abs32(b.velocity.X) < restSpeed {
		b.velocity.X = 0
	}
	if abs32(b.velocity.Y) < restSpeed {
		b.velocity.Y = 0
	}

	if collide != nil {
		collide(b)
	}

	b.posF.X += b.velocity.X * passedTicks
	b.posF.Y += b.velocity.Y * passedTicks

	b.angle += (abs32(b.velocity.X) + abs32(b.velocity.Y)*0.5) * sign32(b.velocity.X) * 7.5 * passedTicks

	b.props.Position = game.Point{X: int64(b.posF.X), Y: int64(b.posF.Y)}
}

func (b *BeachBall) applyCollision(collision game.CollisionInfo) {
	info := b.CollisionInfo()
	if collision.IsPlayer() && !collision.Velocity().IsZero() {
		b.velocity = info.ApplyWithForce(collision, pushForce)
	} else {
		b.velocity = info.Apply(collision)
	}
}

// beachBallState is the delta payload broadcast whenever the ball moves.
type beachBallState struct {
	posF     game.Vec2
	velocity game.Vec2
}

func (s beachBallState) encode() []byte {
	var w wire.Writer
	game.EncodeVec2(&w, s.posF)
	game.EncodeVec2(&w, s.velocity)
	return w.Bytes()
}

func decodeBeachBallState(data []byte) (beachBallState, error) {
	r := wire.NewReader(data)
	var s beachBallState
	var err error
	if s.posF, err = game.DecodeVec2(r); err != nil {
		return s, err
	}
	if s.velocity, err = game.DecodeVec2(r); err != nil {
		return s, err
	}
	return s, nil
}

func (b *BeachBall) state() beachBallState {
	return beachBallState{posF: b.posF, velocity: b.velocity}
}

// EncodeState serializes the ball's replicated fields.
func (b *BeachBall) EncodeState() []byte {
	var w wire.Writer
	game.EncodePoint(&w, b.props.Position)
	game.EncodeVec2(&w, b.posF)
	game.EncodeVec2(&w, b.velocity)
	return w.Bytes()
}

// DecodeBeachBall reconstructs a ball from EncodeState output.
func DecodeBeachBall(data []byte) (*BeachBall, error) {
	r := wire.NewReader(data)
	position, err := game.DecodePoint(r)
	if err != nil {
		return nil, err
	}
	ball := NewBeachBall(position)
	if ball.posF, err = game.DecodeVec2(r); err != nil {
		return nil, err
	}
	if ball.velocity, err = game.DecodeVec2(r); err != nil {
		return nil, err
	}
	return ball, nil
}

// ServerMessage accepts a client-side collision push and answers with the
// resolved state for broadcast.
func (b *BeachBall) ServerMessage(data []byte) ([]byte, error) {
	collision, err := game.DecodeCollisionInfo(wire.NewReader(data))
	if err != nil {
		return nil, err
	}
	b.applyCollision(collision)
	return b.state().encode(), nil
}

// ClientMessage applies the server's authoritative position and velocity.
func (b *BeachBall) ClientMessage(data []byte) error {
	state, err := decodeBeachBallState(data)
	if err != nil {
		return err
	}
	b.posF = state.posF
	b.velocity = state.velocity
	b.props.Position = game.Point{X: int64(b.posF.X), Y: int64(b.posF.Y)}
	return nil
}

// ServerTick resolves any queued collision and reports the new state when
// the ball is still visibly moving. Idle balls produce no traffic.
func (b *BeachBall) ServerTick() ([]byte, error) {
	if b.queuedCollision != nil {
		collision := *b.queuedCollision
		b.queuedCollision = nil
		b.applyCollision(collision)
	}
	if abs32(b.velocity.X) > restSpeed || abs32(b.velocity.Y) > restSpeed {
		return b.state().encode(), nil
	}
	return nil, nil
}

// ClientTick forwards a locally observed collision (usually the player
// walking into the ball) to the server.
func (b *BeachBall) ClientTick() ([]byte, error) {
	if b.queuedCollision == nil {
		return nil, nil
	}
	collision := *b.queuedCollision
	b.queuedCollision = nil
	var w wire.Writer
	game.EncodeCollisionInfo(&w, collision)
	return w.Bytes(), nil
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sign32(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
