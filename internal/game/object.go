package game

// ZOrder overrides the draw depth of an object when set.
type ZOrder int64

// ObjectProperties is the per-instance layout every object exposes.
//
// Position must stay constant for objects with a hitbox whose position is not
// synced from the server, because collisions are resolved server-side against
// the position the server knows.
type ObjectProperties struct {
	Position     Point
	Size         Size
	Hitbox       *Rect // relative to Position; nil means no collision
	Bounds       Rect  // relative render bounds
	Interactable bool
	ZOverride    *ZOrder
}

// CollisionTester lets an object discover, mid-tick, every other object whose
// start-of-tick hitbox intersects its own current hitbox. The first
// intersecting body's info is returned; every intersecting counterpart is
// also notified through OnCollision on both sides.
type CollisionTester func(self Object) (CollisionInfo, bool)

// Object is a world entity with a position, optional hitbox, and per-tick
// behavior.
type Object interface {
	// Tick advances the object by deltaMS. Objects that collide call the
	// tester with themselves; objects that don't may ignore it.
	Tick(deltaMS int64, collide CollisionTester)

	Properties() *ObjectProperties

	// CollisionInfo summarizes the object for this tick's collision pass.
	CollisionInfo() CollisionInfo

	// OnCollision delivers another body's pre-tick collision info.
	OnCollision(info CollisionInfo)

	SetPosition(position Point)
}

// Hitbox returns the object's hitbox in world space, or false if the object
// does not collide.
func Hitbox(o Object) (Rect, bool) {
	props := o.Properties()
	if props.Hitbox == nil {
		return Rect{}, false
	}
	return props.Hitbox.Translate(props.Position), true
}

// BoundsOf returns the object's render bounds in world space.
func BoundsOf(o Object) Rect {
	props := o.Properties()
	return props.Bounds.Translate(props.Position)
}

// InteractsWith reports whether an interactable object's hitbox (or bounds,
// when it has no hitbox) contains the point.
func InteractsWith(o Object, pos Point) bool {
	props := o.Properties()
	if !props.Interactable {
		return false
	}
	if hb, ok := Hitbox(o); ok {
		return hb.Contains(pos)
	}
	return BoundsOf(o).Contains(pos)
}

// StaticBehavior provides the no-op half of Object for stationary props.
// Embed it and supply Properties.
type StaticBehavior struct{}

func (StaticBehavior) Tick(int64, CollisionTester) {}

func (StaticBehavior) OnCollision(CollisionInfo) {}
