package game

// Point is a position on the world plane, in world units.
type Point struct {
	X int64
	Y int64
}

// Add returns the component-wise sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size is the width and height of an object, in world units.
type Size struct {
	Width  int64
	Height int64
}

// Center returns the offset from an origin to the middle of the size.
func (s Size) Center() Point {
	return Point{X: s.Width / 2, Y: s.Height / 2}
}

// Rect is an axis-aligned rectangle. Min is inclusive, Max exclusive.
type Rect struct {
	Min Point
	Max Point
}

// RectFromSize returns a rectangle anchored at the origin.
func RectFromSize(s Size) Rect {
	return Rect{Max: Point{X: s.Width, Y: s.Height}}
}

// Translate returns the rectangle shifted by offset.
func (r Rect) Translate(offset Point) Rect {
	return Rect{Min: r.Min.Add(offset), Max: r.Max.Add(offset)}
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.Min.X < other.Max.X &&
		r.Max.X > other.Min.X &&
		r.Min.Y < other.Max.Y &&
		r.Max.Y > other.Min.Y
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Vec2 is a velocity or impulse in world units per tick.
type Vec2 struct {
	X float32
	Y float32
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
