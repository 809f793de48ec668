// Package tiling arranges mapped windows in a mosaic.
package tiling

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-stackwm/internal/element"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/google/uuid"
)

var (
	ErrNotTiled     = errors.New("window is not tiled")
	ErrAlreadyTiled = errors.New("window is already tiled")
)

type node struct {
	id     uuid.UUID
	window *element.Mapped
	slot   geom.Rect
}

// Engine owns the tiled windows. The node id of each window is stored on the
// window for lookup.
type Engine struct {
	layout Layout
	gap    int
	nodes  map[uuid.UUID]*node
	order  []uuid.UUID
	area   geom.Rect
}

func NewEngine(layout Layout, gap int) *Engine {
	return &Engine{
		layout: layout,
		gap:    gap,
		nodes:  make(map[uuid.UUID]*node),
	}
}

// SetLayout changes the layout. The next Arrange uses it.
func (e *Engine) SetLayout(layout Layout) { e.layout = layout }

func (e *Engine) Len() int { return len(e.order) }

func (e *Engine) lookup(m *element.Mapped) (*node, bool) {
	id, ok := m.TilingNode()
	if !ok {
		return nil, false
	}
	n, ok := e.nodes[id]
	if !ok || n.window != m {
		return nil, false
	}
	return n, true
}

func (e *Engine) Contains(m *element.Mapped) bool {
	_, ok := e.lookup(m)
	return ok
}

// Windows returns the tiled windows in slot order.
func (e *Engine) Windows() []*element.Mapped {
	windows := make([]*element.Mapped, 0, len(e.order))
	for _, id := range e.order {
		windows = append(windows, e.nodes[id].window)
	}
	return windows
}

// Map adds m as the last slot.
func (e *Engine) Map(m *element.Mapped) (uuid.UUID, error) {
	if e.Contains(m) {
		return uuid.UUID{}, ErrAlreadyTiled
	}

	n := &node{id: uuid.New(), window: m}
	e.nodes[n.id] = n
	e.order = append(e.order, n.id)
	m.SetTilingNode(n.id)
	m.SetTiled(true)

	slog.Debug("Mapped tiled window", "func", "tiling.Engine.Map", "window", m.ID(), "node", n.id)
	return n.id, nil
}

// Unmap removes m. Its slot is given to the following windows.
func (e *Engine) Unmap(m *element.Mapped) error {
	n, ok := e.lookup(m)
	if !ok {
		return ErrNotTiled
	}

	delete(e.nodes, n.id)
	e.order = slices.DeleteFunc(e.order, func(id uuid.UUID) bool { return id == n.id })
	m.ClearTilingNode()
	m.SetTiled(false)
	return nil
}

// Replace puts next in the slot of old.
func (e *Engine) Replace(old, next *element.Mapped) error {
	n, ok := e.lookup(old)
	if !ok {
		return ErrNotTiled
	}

	old.ClearTilingNode()
	n.window = next
	next.SetTilingNode(n.id)
	next.SetTiled(true)
	return nil
}

// Swap exchanges the slots of a and b.
func (e *Engine) Swap(a, b *element.Mapped) error {
	na, ok := e.lookup(a)
	if !ok {
		return ErrNotTiled
	}
	nb, ok := e.lookup(b)
	if !ok {
		return ErrNotTiled
	}

	ia, ib := slices.Index(e.order, na.id), slices.Index(e.order, nb.id)
	e.order[ia], e.order[ib] = e.order[ib], e.order[ia]
	return nil
}

// Arrange places every window in its slot inside area and configures it.
// Fullscreen and maximized windows keep their size.
func (e *Engine) Arrange(area geom.Rect) {
	e.area = area
	slots := e.layout.Slots(len(e.order), area)
	for i, id := range e.order {
		n := e.nodes[id]
		n.slot = inset(slots[i], e.gap/2)

		size := n.slot.Size()
		if minSize := n.window.MinSize(); size.W < minSize.W || size.H < minSize.H {
			slog.Debug("Slot is smaller than window minimum", "func", "tiling.Engine.Arrange", "window", n.window.ID(), "slot", size, "min", minSize)
		}
		n.window.SetTiled(true)
		if n.window.IsFullscreen() || n.window.IsMaximized() {
			continue
		}
		n.window.SetSize(size)
		n.window.Configure()
	}
}

// Area is the area of the last Arrange.
func (e *Engine) Area() geom.Rect { return e.area }

// Geometry is the slot of m from the last Arrange.
func (e *Engine) Geometry(m *element.Mapped) (geom.Rect, bool) {
	n, ok := e.lookup(m)
	if !ok {
		return geom.Rect{}, false
	}
	return n.slot, true
}

// Neighbor finds the closest window in dir by slot centers. It does not wrap.
func (e *Engine) Neighbor(m *element.Mapped, dir element.Direction) (*element.Mapped, bool) {
	current, ok := e.lookup(m)
	if !ok {
		return nil, false
	}
	c := current.slot.Center()

	var best *node
	bestDist := 0
	for _, id := range e.order {
		n := e.nodes[id]
		if n == current {
			continue
		}
		nc := n.slot.Center()

		var inDirection bool
		switch dir {
		case element.DirectionUp:
			inDirection = nc.Y < c.Y
		case element.DirectionDown:
			inDirection = nc.Y > c.Y
		case element.DirectionLeft:
			inDirection = nc.X < c.X
		case element.DirectionRight:
			inDirection = nc.X > c.X
		}
		if !inDirection {
			continue
		}

		dist := abs(nc.X-c.X) + abs(nc.Y-c.Y)
		if best == nil || dist < bestDist {
			best, bestDist = n, dist
		}
	}

	if best == nil {
		return nil, false
	}
	return best.window, true
}

func inset(r geom.Rect, by int) geom.Rect {
	return geom.Rect{
		X: r.X + by,
		Y: r.Y + by,
		W: max(r.W-2*by, 0),
		H: max(r.H-2*by, 0),
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
