// Package geom holds the coordinate types shared by the shell, the layout
// engines and the renderers.
//
// Logical coordinates are what clients and layouts see. Physical coordinates
// are logical coordinates multiplied by the output scale.
package geom

import (
	"fmt"
	"math"
)

type Point struct {
	X int
	Y int
}

func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

func (p Point) ToF() PointF { return PointF{X: float64(p.X), Y: float64(p.Y)} }

// ToPhysical scales a logical point.
func (p Point) ToPhysical(scale Scale) Point {
	return Point{
		X: int(math.Round(float64(p.X) * scale.X)),
		Y: int(math.Round(float64(p.Y) * scale.Y)),
	}
}

func (p Point) String() string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

type PointF struct {
	X float64
	Y float64
}

func (p PointF) Add(o PointF) PointF { return PointF{X: p.X + o.X, Y: p.Y + o.Y} }

func (p PointF) Sub(o PointF) PointF { return PointF{X: p.X - o.X, Y: p.Y - o.Y} }

// Round converts to integer coordinates.
func (p PointF) Round() Point {
	return Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

func (p PointF) ToLogical(scale Scale) PointF {
	return PointF{X: p.X / scale.X, Y: p.Y / scale.Y}
}

type Size struct {
	W int
	H int
}

func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Max is the component-wise maximum.
func (s Size) Max(o Size) Size { return Size{W: max(s.W, o.W), H: max(s.H, o.H)} }

// Min is the component-wise minimum.
func (s Size) Min(o Size) Size { return Size{W: min(s.W, o.W), H: min(s.H, o.H)} }

func (s Size) ToPhysical(scale Scale) Size {
	return Size{
		W: int(math.Round(float64(s.W) * scale.X)),
		H: int(math.Round(float64(s.H) * scale.Y)),
	}
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Rect is an axis aligned rectangle. The right and bottom edges are exclusive.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func RectFrom(loc Point, size Size) Rect {
	return Rect{X: loc.X, Y: loc.Y, W: size.W, H: size.H}
}

func (r Rect) Loc() Point { return Point{X: r.X, Y: r.Y} }

func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Right() int { return r.X + r.W }

func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) Translate(p Point) Rect {
	r.X += p.X
	r.Y += p.Y
	return r
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(p PointF) bool {
	return p.X >= float64(r.X) && p.X < float64(r.Right()) &&
		p.Y >= float64(r.Y) && p.Y < float64(r.Bottom())
}

// Intersect returns the overlapping area and whether it is non-empty.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

func (r Rect) Overlaps(o Rect) bool {
	_, ok := r.Intersect(o)
	return ok
}

// Union returns the smallest rectangle containing both.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// OverlapsVertically is true if the two rectangles share part of the Y axis.
func (r Rect) OverlapsVertically(o Rect) bool {
	return r.Y < o.Bottom() && o.Y < r.Bottom()
}

// OverlapsHorizontally is true if the two rectangles share part of the X axis.
func (r Rect) OverlapsHorizontally(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right()
}

func (r Rect) ToPhysical(scale Scale) Rect {
	return RectFrom(r.Loc().ToPhysical(scale), r.Size().ToPhysical(scale))
}

func (r Rect) ToF() RectF {
	return RectF{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}

func (r Rect) String() string { return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.W, r.H) }

type RectF struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r RectF) Empty() bool { return r.W <= 0 || r.H <= 0 }

type Scale struct {
	X float64
	Y float64
}

// Uniform returns a scale with the same factor on both axes.
func Uniform(f float64) Scale { return Scale{X: f, Y: f} }

// Transform describes how a buffer is rotated or flipped before display.
type Transform uint8

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// TransformSize returns the size of an area after applying t.
func (t Transform) TransformSize(s Size) Size {
	switch t {
	case Transform90, Transform270, TransformFlipped90, TransformFlipped270:
		return Size{W: s.H, H: s.W}
	default:
		return s
	}
}

func (t Transform) String() string {
	switch t {
	case TransformNormal:
		return "normal"
	case Transform90:
		return "90"
	case Transform180:
		return "180"
	case Transform270:
		return "270"
	case TransformFlipped:
		return "flipped"
	case TransformFlipped90:
		return "flipped-90"
	case TransformFlipped180:
		return "flipped-180"
	case TransformFlipped270:
		return "flipped-270"
	default:
		return fmt.Sprintf("transform(%d)", uint8(t))
	}
}
