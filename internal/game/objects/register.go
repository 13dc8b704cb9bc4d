package objects

import "glade/server/internal/game"

// RegisterAll registers every replicated object kind. Registration order is
// the wire contract; new kinds go at the end.
func RegisterAll(r *game.Registry) {
	game.Register(r, DecodeBeachBall)
}
