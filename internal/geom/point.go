// Package geom provides the small amount of plane geometry the simulation
// needs: a real-valued point and Euclidean distance.
package geom

import "math"

// Pt is a convenience constructor for Point.
func Pt(x, y float64) Point { return Point{x, y} }

// Point represents a position in <X,Y> 2-space. It is an immutable value
// type; all methods return copies.
type Point struct{ X, Y float64 }

// Equal returns true if both components of this point equal another's.
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// DistanceTo returns the Euclidean distance between this point and another.
func (p Point) DistanceTo(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Lerp returns the point a fraction u of the way from a to b. u is not
// clamped; callers keep it in [0,1].
func Lerp(a, b Point, u float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*u,
		Y: a.Y + (b.Y-a.Y)*u,
	}
}
