// Package element is the mapped window: one handle over a single window or a
// tabbed stack of windows, shared by the layout engines, input dispatch and
// rendering.
package element

import (
	"iter"
	"sync"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/input"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
	"github.com/google/uuid"
)

type Kind uint8

const (
	KindWindow Kind = iota
	KindStack
)

func (k Kind) String() string {
	switch k {
	case KindWindow:
		return "window"
	case KindStack:
		return "stack"
	default:
		return "unknown"
	}
}

type Direction uint8

const (
	DirectionLeft Direction = iota
	DirectionRight
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "unknown"
	}
}

// ParseDirection parses the output of Direction.String.
func ParseDirection(s string) (Direction, bool) {
	for _, d := range []Direction{DirectionLeft, DirectionRight, DirectionUp, DirectionDown} {
		if d.String() == s {
			return d, true
		}
	}
	return 0, false
}

// variant is implemented by *Window and *Stack only.
type variant interface {
	kind() Kind
	toplevels() iter.Seq[*protocol.Toplevel]
	activeWindow() *protocol.Toplevel
	headerHeight() int
	setActive(t *protocol.Toplevel) bool
	focus(dir Direction) bool
	setTiled(tiled bool)
	minSize() geom.Size
	maxSize() geom.Size
	decorate(width int, focused bool)
	headerElements(r render.Renderer, loc geom.Point, scale geom.Scale) ([]render.Element, error)
	headerClick(x float64) bool
}

var (
	_ variant = (*Window)(nil)
	_ variant = (*Stack)(nil)
)

// guarded is an optional value behind its own lock.
type guarded[T any] struct {
	mu sync.Mutex
	v  *T
}

func (g *guarded[T]) set(v T) {
	g.mu.Lock()
	g.v = &v
	g.mu.Unlock()
}

func (g *guarded[T]) clear() {
	g.mu.Lock()
	g.v = nil
	g.mu.Unlock()
}

func (g *guarded[T]) get() (T, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.v == nil {
		var zero T
		return zero, false
	}
	return *g.v, true
}

func (g *guarded[T]) take() (T, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.v == nil {
		var zero T
		return zero, false
	}
	v := *g.v
	g.v = nil
	return v, true
}

// Mapped is a window or stack placed on the output. It is shared by pointer.
//
// The tiling node, last geometry and resize state belong to the layout
// engines. Mapped only stores them.
type Mapped struct {
	id uuid.UUID
	v  variant

	cursors      *input.Cursors
	pointers     pointerFocus
	tilingNode   guarded[uuid.UUID]
	lastGeometry guarded[geom.Rect]
	resizeState  guarded[ResizeState]
	debug        guarded[DebugState]
	textures     textureCache
}

func newMapped(v variant) *Mapped {
	return &Mapped{
		id:      uuid.New(),
		v:       v,
		cursors: input.NewCursors(),
	}
}

func FromWindow(w *Window) *Mapped { return newMapped(w) }

func FromStack(s *Stack) *Mapped { return newMapped(s) }

func (m *Mapped) ID() uuid.UUID { return m.id }

func (m *Mapped) Kind() Kind { return m.v.kind() }

func (m *Mapped) Window() (*Window, bool) {
	w, ok := m.v.(*Window)
	return w, ok
}

func (m *Mapped) Stack() (*Stack, bool) {
	s, ok := m.v.(*Stack)
	return s, ok
}

// Windows yields every toplevel with the location of its content relative to
// the mapped window.
func (m *Mapped) Windows() iter.Seq2[*protocol.Toplevel, geom.Point] {
	return func(yield func(*protocol.Toplevel, geom.Point) bool) {
		offset := geom.Point{Y: m.v.headerHeight()}
		for t := range m.v.toplevels() {
			if !yield(t, offset) {
				return
			}
		}
	}
}

// Len is the number of toplevels.
func (m *Mapped) Len() int {
	n := 0
	for range m.v.toplevels() {
		n++
	}
	return n
}

// ActiveWindow is the visible toplevel.
func (m *Mapped) ActiveWindow() *protocol.Toplevel { return m.v.activeWindow() }

// HeaderHeight is the height of the title or tab bar, zero without one.
func (m *Mapped) HeaderHeight() int { return m.v.headerHeight() }

// ActiveWindowOffset is the bounding box of the active window placed below the
// header.
func (m *Mapped) ActiveWindowOffset() geom.Rect {
	bbox := surfaceBBox(m.v.activeWindow())
	return geom.RectFrom(geom.Point{Y: m.v.headerHeight()}, bbox.Size())
}

func (m *Mapped) CursorPosition(seat input.SeatID) (geom.PointF, bool) {
	return m.cursors.Get(seat)
}

// SetActive activates t on a stack. It does nothing on a window.
func (m *Mapped) SetActive(t *protocol.Toplevel) bool { return m.v.setActive(t) }

// FocusWindow activates the tab holding surface.
func (m *Mapped) FocusWindow(surface *protocol.Surface) bool {
	for t := range m.v.toplevels() {
		if t.Surface() == surface {
			return m.v.setActive(t)
		}
	}
	return false
}

// HandleFocus moves focus inside the mapped window. It reports false when
// focus should leave it instead.
func (m *Mapped) HandleFocus(dir Direction) bool { return m.v.focus(dir) }

// Surface is the surface that receives keyboard focus.
func (m *Mapped) Surface() *protocol.Surface { return m.v.activeWindow().Surface() }

func (m *Mapped) Title() string { return m.v.activeWindow().Attributes().Title }

func (m *Mapped) AppID() string { return m.v.activeWindow().Attributes().AppID }

// Geometry is the window geometry of the active window plus the header.
func (m *Mapped) Geometry() geom.Rect {
	g := m.v.activeWindow().Geometry()
	return geom.Rect{W: g.W, H: g.H + m.v.headerHeight()}
}

// BBox covers the header, the active window and its subsurfaces and popups.
func (m *Mapped) BBox() geom.Rect {
	hh := m.v.headerHeight()
	bbox := surfaceBBox(m.v.activeWindow()).Translate(geom.Point{Y: hh})
	if hh > 0 {
		bbox = bbox.Union(geom.Rect{W: m.Geometry().W, H: hh})
	}
	return bbox
}

func (m *Mapped) Alive() bool { return m.v.activeWindow().Alive() }

// SameClient reports whether the active window belongs to the client of t.
func (m *Mapped) SameClient(t *protocol.Toplevel) bool {
	return m.v.activeWindow().SameClient(t)
}

// Contains reports whether t is one of the toplevels.
func (m *Mapped) Contains(t *protocol.Toplevel) bool {
	for o := range m.v.toplevels() {
		if o == t {
			return true
		}
	}
	return false
}

func (m *Mapped) SetTilingNode(id uuid.UUID) { m.tilingNode.set(id) }

func (m *Mapped) ClearTilingNode() { m.tilingNode.clear() }

func (m *Mapped) TilingNode() (uuid.UUID, bool) { return m.tilingNode.get() }

func (m *Mapped) SetLastGeometry(r geom.Rect) { m.lastGeometry.set(r) }

func (m *Mapped) LastGeometry() (geom.Rect, bool) { return m.lastGeometry.get() }

// TakeLastGeometry returns and clears the last floating geometry.
func (m *Mapped) TakeLastGeometry() (geom.Rect, bool) { return m.lastGeometry.take() }

func (m *Mapped) SetResizeState(rs ResizeState) { m.resizeState.set(rs) }

func (m *Mapped) ResizeState() (ResizeState, bool) { return m.resizeState.get() }

func (m *Mapped) ClearResizeState() { m.resizeState.clear() }

// surfaceBBox covers the toplevel surface, its subsurfaces and popups,
// relative to the surface origin.
func surfaceBBox(t *protocol.Toplevel) geom.Rect {
	bbox := t.Geometry()
	protocol.WalkDown(t.Surface(), func(s *protocol.Surface, loc geom.Point) protocol.TraversalAction {
		bbox = bbox.Union(geom.RectFrom(loc, s.Size()))
		return protocol.DoChildren
	})
	for p, loc := range t.Popups() {
		bbox = bbox.Union(geom.RectFrom(loc, p.Surface().Size()))
	}
	return bbox
}
