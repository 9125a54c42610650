/*
Package geom has the plane geometry helpers shared by the styling and
layout packages. Coordinates are in points, y growing downwards, the way
chemical drawing files store them.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 Norbert Pillmayer <norbert.pillmayer@gmx.de>
*/
package geom

import "math"

// Point is a position on the drawing plane.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Translated returns r moved by (dx, dy).
func (r Rect) Translated(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Scaled returns r with all four edges multiplied by f.
func (r Rect) Scaled(f float64) Rect {
	return Rect{Left: r.Left * f, Top: r.Top * f, Right: r.Right * f, Bottom: r.Bottom * f}
}

// Bounds returns the bounding box of the given points. An empty slice
// yields the zero Rect.
func Bounds(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Left: pts[0].X, Top: pts[0].Y, Right: pts[0].X, Bottom: pts[0].Y}
	for _, p := range pts[1:] {
		r.Left = math.Min(r.Left, p.X)
		r.Right = math.Max(r.Right, p.X)
		r.Top = math.Min(r.Top, p.Y)
		r.Bottom = math.Max(r.Bottom, p.Y)
	}
	return r
}

// Center returns the center of the bounding box of the given points.
func Center(pts []Point) Point {
	return Bounds(pts).Center()
}

// Translation returns the shift which moves the center of the bounding
// box of cur back onto the center of the bounding box of orig. Scaling a
// drawing in place uses this to keep it anchored.
func Translation(orig, cur []Point) (dx, dy float64) {
	oc := Center(orig)
	cc := Center(cur)
	return oc.X - cc.X, oc.Y - cc.Y
}

// Translate returns the points moved by (dx, dy).
func Translate(pts []Point, dx, dy float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// Scale returns the points multiplied by f, relative to the origin.
func Scale(pts []Point, f float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X * f, Y: p.Y * f}
	}
	return out
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Round2 rounds to two decimal places, the precision drawing files use
// for coordinates.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
