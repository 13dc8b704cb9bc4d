package game

// TickInterval is the fixed simulation period in milliseconds (60 Hz).
const TickInterval int64 = 1000 / 60

const (
	// NameLimit bounds player display names, in runes.
	NameLimit = 16
	// ChatLimit bounds chat messages, in runes.
	ChatLimit = 256
	// DefaultName replaces empty or whitespace-only names at connect time.
	DefaultName = "Anon"
)

// Direction is a movement or facing direction. The numeric order is part of
// the wire format and must not change.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
	DirNone
)

// Delta returns one tick of movement in the direction.
func (d Direction) Delta() Point {
	switch d {
	case DirUp:
		return Point{Y: -1}
	case DirDown:
		return Point{Y: 1}
	case DirLeft:
		return Point{X: -1}
	case DirRight:
		return Point{X: 1}
	default:
		return Point{}
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Client is the authoritative record of one connected player. The server is
// the only writer of Position; mirrors mutate it exclusively through
// ApplyAction.
type Client struct {
	ID            ClientID
	Name          string
	Typing        bool
	Position      Point
	Movement      Direction
	LookDirection Direction
}

// NewClient returns a client standing still at position.
func NewClient(id ClientID, name string, position Point) Client {
	return Client{
		ID:            id,
		Name:          name,
		Position:      position,
		Movement:      DirNone,
		LookDirection: DirNone,
	}
}

// ApplyAction folds a sparse action into the client. Absent fields leave the
// client untouched. LookDirection only picks up non-None movement directions,
// so facing persists after the player stops.
func (c *Client) ApplyAction(action ClientAction) {
	if action.Movement != nil {
		switch action.Movement.Kind {
		case MovementMove:
			c.Position = action.Movement.Position
			c.Movement = action.Movement.Direction
			if action.Movement.Direction != DirNone {
				c.LookDirection = action.Movement.Direction
			}
		case MovementLook:
			c.LookDirection = action.Movement.Direction
		}
	}
	if action.Typing != nil {
		c.Typing = *action.Typing
	}
}

// MovementKind distinguishes the two movement payloads an action can carry.
// The numeric order is part of the wire format.
type MovementKind uint8

const (
	// MovementMove carries a new position plus the direction of travel.
	MovementMove MovementKind = iota
	// MovementLook turns the avatar without moving it.
	MovementLook
)

// ActionMovement is the movement half of a client action.
type ActionMovement struct {
	Kind      MovementKind
	Position  Point // valid only for MovementMove
	Direction Direction
}

// ClientAction is a sparse delta of player intent. Nil fields mean "no
// change", which is what lets several actions inside one tick window coalesce
// without losing the newest value of each independent field.
type ClientAction struct {
	Movement *ActionMovement
	Typing   *bool
}

// SetMovement records a move to position facing direction, replacing any
// previously recorded movement.
func (a *ClientAction) SetMovement(position Point, direction Direction) {
	a.Movement = &ActionMovement{Kind: MovementMove, Position: position, Direction: direction}
}

// SetLook records a facing change. If the action already carries a move, the
// look folds into the move's direction instead of replacing the position.
func (a *ClientAction) SetLook(direction Direction) {
	if a.Movement != nil && a.Movement.Kind == MovementMove {
		a.Movement.Direction = direction
		return
	}
	a.Movement = &ActionMovement{Kind: MovementLook, Direction: direction}
}

// SetTyping records the chat-composer state.
func (a *ClientAction) SetTyping(typing bool) {
	a.Typing = &typing
}

// Any reports whether the action carries at least one field.
func (a ClientAction) Any() bool {
	return a.Movement != nil || a.Typing != nil
}

// Combine folds newer into a, field by field. A present field in newer wins;
// an absent one leaves a's value alone.
func (a *ClientAction) Combine(newer ClientAction) {
	if newer.Movement != nil {
		switch newer.Movement.Kind {
		case MovementMove:
			a.SetMovement(newer.Movement.Position, newer.Movement.Direction)
		case MovementLook:
			a.SetLook(newer.Movement.Direction)
		}
	}
	if newer.Typing != nil {
		a.Typing = newer.Typing
	}
}
