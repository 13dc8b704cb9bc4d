package objects

import "glade/server/internal/game"

// StaticProp is an immovable decoration with an optional hitbox, used for
// client-local scenery that players can bump into but that never replicates.
type StaticProp struct {
	game.StaticBehavior
	props game.ObjectProperties
}

// NewStaticProp places a prop at position. A nil hitbox makes it walkable.
func NewStaticProp(position game.Point, size game.Size, hitbox *game.Rect) *StaticProp {
	return &StaticProp{
		props: game.ObjectProperties{
			Position: position,
			Size:     size,
			Hitbox:   hitbox,
			Bounds:   game.RectFromSize(size),
		},
	}
}

func (p *StaticProp) Properties() *game.ObjectProperties {
	return &p.props
}

func (p *StaticProp) CollisionInfo() game.CollisionInfo {
	return game.StaticCollision(p.props.Position.Add(p.props.Size.Center()))
}

func (p *StaticProp) SetPosition(position game.Point) {
	p.props.Position = position
}
