package game

import "math"

// maxCollisionSpeed bounds the components of any resolved velocity so one bad
// frame cannot blow up the simulation.
const maxCollisionSpeed = 5.0

// CollisionInfo is the per-tick physical summary of one body: where its
// center is, how it is moving, and whether it is a player avatar. A body
// without a velocity is static and never moves.
type CollisionInfo struct {
	center      Point
	velocity    Vec2
	hasVelocity bool
	isPlayer    bool
}

// StaticCollision describes an immovable body centered at center.
func StaticCollision(center Point) CollisionInfo {
	return CollisionInfo{center: center}
}

// DynamicCollision describes a movable body with the given velocity.
func DynamicCollision(center Point, velocity Vec2) CollisionInfo {
	return CollisionInfo{center: center, velocity: velocity, hasVelocity: true}
}

// PlayerCollision describes a player avatar. The player tag only selects the
// forceful response in colliding objects; it has no physical meaning.
func PlayerCollision(center Point, velocity Vec2) CollisionInfo {
	return CollisionInfo{center: center, velocity: velocity, hasVelocity: true, isPlayer: true}
}

// Center returns the body's center point.
func (c CollisionInfo) Center() Point {
	return c.center
}

// Velocity returns the body's velocity, zero for static bodies.
func (c CollisionInfo) Velocity() Vec2 {
	return c.velocity
}

// IsStatic reports whether the body is immovable.
func (c CollisionInfo) IsStatic() bool {
	return !c.hasVelocity
}

// IsPlayer reports whether the body is a player avatar.
func (c CollisionInfo) IsPlayer() bool {
	return c.isPlayer
}

// Apply resolves a collision of c against other and returns c's new
// velocity. Static bodies never move. Hitting a static body reflects the
// velocity across the contact normal; hitting a dynamic body pushes c away
// with a distance-scaled impulse.
func (c CollisionInfo) Apply(other CollisionInfo) Vec2 {
	nx, ny, dist := c.normalTo(other)
	return c.applyRaw(other, nx, ny, dist)
}

// ApplyWithForce resolves the collision like Apply and then adds an impulse
// of -normal*force. Used when the colliding body is a moving player, so
// player-pushed objects respond harder than passively drifting ones.
func (c CollisionInfo) ApplyWithForce(other CollisionInfo, force float32) Vec2 {
	nx, ny, dist := c.normalTo(other)
	v := c.applyRaw(other, nx, ny, dist)
	v.X = clampSpeed(v.X + -nx*force)
	v.Y = clampSpeed(v.Y + -ny*force)
	return v
}

func (c CollisionInfo) normalTo(other CollisionInfo) (nx, ny, dist float32) {
	nx = float32(other.center.X - c.center.X)
	ny = float32(other.center.Y - c.center.Y)
	dist = float32(math.Sqrt(float64(nx*nx + ny*ny)))
	if dist > 0 {
		nx /= dist
		ny /= dist
	}
	return nx, ny, dist
}

func (c CollisionInfo) applyRaw(other CollisionInfo, nx, ny, dist float32) Vec2 {
	if c.IsStatic() {
		return Vec2{}
	}

	v := c.velocity
	if other.IsStatic() {
		// Specular reflection: v' = v - 2(v.n)n.
		dot := v.X*nx + v.Y*ny
		v.X -= 2 * dot * nx
		v.Y -= 2 * dot * ny
	} else {
		// Distance-scaled shove. Not physical, but stable; the clamped
		// denominator keeps overlapping centers from dividing by zero.
		push := 16.0 / maxf(dist, 0.1) * 0.5
		v.X -= nx * push
		v.Y -= ny * push
	}

	v.X = clampSpeed(v.X)
	v.Y = clampSpeed(v.Y)
	return v
}

func clampSpeed(v float32) float32 {
	if v > maxCollisionSpeed {
		return maxCollisionSpeed
	}
	if v < -maxCollisionSpeed {
		return -maxCollisionSpeed
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
