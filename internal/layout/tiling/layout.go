package tiling

import (
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
)

// Layout splits an area into slots.
type Layout interface {
	// Slots returns n slots inside area in reading order.
	Slots(n int, area geom.Rect) []geom.Rect
}

// Grid is the smallest near square grid that fits every window.
type Grid struct{}

// GridCount returns the columns and rows of a grid holding count cells.
func GridCount(count int) (xc, yc int) {
	for xc*yc < count {
		xc++
		if xc*yc >= count {
			break
		}
		yc++
	}
	return xc, yc
}

func (Grid) Slots(n int, area geom.Rect) []geom.Rect {
	if n <= 0 {
		return nil
	}
	xc, yc := GridCount(n)
	fw, fh := area.W/xc, area.H/yc

	slots := make([]geom.Rect, 0, n)
	for i := 0; i < yc; i++ {
		for j := 0; j < xc; j++ {
			if len(slots) == n {
				return slots
			}
			slots = append(slots, geom.Rect{X: area.X + fw*j, Y: area.Y + fh*i, W: fw, H: fh})
		}
	}
	return slots
}

// Pane is a slot given as fractions of the area.
type Pane struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Manual places windows in fixed panes. Windows without a pane fall back to
// a grid.
type Manual struct {
	Panes []Pane
}

func (l Manual) Slots(n int, area geom.Rect) []geom.Rect {
	if n > len(l.Panes) {
		return Grid{}.Slots(n, area)
	}

	slots := make([]geom.Rect, n)
	for i := range slots {
		p := l.Panes[i]
		x := area.X + int(p.X*float64(area.W))
		y := area.Y + int(p.Y*float64(area.H))
		slots[i] = geom.Rect{
			X: x,
			Y: y,
			W: area.X + int((p.X+p.W)*float64(area.W)) - x,
			H: area.Y + int((p.Y+p.H)*float64(area.H)) - y,
		}
	}
	return slots
}
