package models

import "math"

// Point is an ordered pair of finite 64-bit floats in millimetres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3 adds a Z axis for machine moves.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// XY drops the Z axis.
func (p Point3) XY() Point { return Point{X: p.X, Y: p.Y} }

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(o Point) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Dist3 returns the Euclidean distance between two 3D points.
func (p Point3) Dist3(o Point3) float64 {
	return math.Sqrt((o.X-p.X)*(o.X-p.X) + (o.Y-p.Y)*(o.Y-p.Y) + (o.Z-p.Z)*(o.Z-p.Z))
}

// Finite reports whether both coordinates are finite (not NaN/Inf), per the
// Point invariant in spec §3.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
