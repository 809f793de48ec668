// Package floating places windows freely and runs interactive resizes.
package floating

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-stackwm/internal/element"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
)

var (
	ErrNotFloating     = errors.New("window is not floating")
	ErrAlreadyFloating = errors.New("window is already floating")
	ErrNotResizing     = errors.New("window is not resizing")
)

// Engine owns the floating windows. Windows are kept front to back.
type Engine struct {
	defaultSize geom.Size
	windows     []*element.Mapped
	geometry    map[*element.Mapped]geom.Rect
}

func NewEngine(defaultSize geom.Size) *Engine {
	return &Engine{
		defaultSize: defaultSize,
		geometry:    make(map[*element.Mapped]geom.Rect),
	}
}

func (e *Engine) Len() int { return len(e.windows) }

func (e *Engine) Contains(m *element.Mapped) bool {
	_, ok := e.geometry[m]
	return ok
}

// Windows returns the floating windows front to back.
func (e *Engine) Windows() []*element.Mapped { return slices.Clone(e.windows) }

func (e *Engine) Geometry(m *element.Mapped) (geom.Rect, bool) {
	r, ok := e.geometry[m]
	return r, ok
}

// Map floats m in front of the others. A window that floated before gets its
// last geometry back, otherwise it gets the default size at at.
func (e *Engine) Map(m *element.Mapped, at geom.Point) (geom.Rect, error) {
	if e.Contains(m) {
		return geom.Rect{}, ErrAlreadyFloating
	}

	r, ok := m.TakeLastGeometry()
	if !ok {
		r = geom.RectFrom(at, e.defaultSize)
	}
	r = geom.RectFrom(r.Loc(), clamp(m, r.Size()))

	e.windows = slices.Insert(e.windows, 0, m)
	e.geometry[m] = r
	m.SetTiled(false)
	m.SetSize(r.Size())
	m.Configure()

	slog.Debug("Mapped floating window", "func", "floating.Engine.Map", "window", m.ID(), "geometry", r, "restored", ok)
	return r, nil
}

// Unmap removes m and remembers its geometry for the next Map.
func (e *Engine) Unmap(m *element.Mapped) error {
	r, ok := e.geometry[m]
	if !ok {
		return ErrNotFloating
	}

	delete(e.geometry, m)
	e.windows = slices.DeleteFunc(e.windows, func(w *element.Mapped) bool { return w == m })
	m.SetLastGeometry(r)
	m.ClearResizeState()
	return nil
}

// Replace puts next where old was. The geometry is kept.
func (e *Engine) Replace(old, next *element.Mapped) error {
	r, ok := e.geometry[old]
	if !ok {
		return ErrNotFloating
	}

	delete(e.geometry, old)
	e.geometry[next] = r
	e.windows[slices.Index(e.windows, old)] = next
	next.SetTiled(false)
	next.SetSize(r.Size())
	next.Configure()
	return nil
}

// Raise moves m to the front.
func (e *Engine) Raise(m *element.Mapped) {
	i := slices.Index(e.windows, m)
	if i <= 0 {
		return
	}
	e.windows = slices.Insert(slices.Delete(e.windows, i, i+1), 0, m)
}

// SetGeometry moves and resizes m. The size is clamped to what m accepts.
func (e *Engine) SetGeometry(m *element.Mapped, r geom.Rect) (geom.Rect, error) {
	old, ok := e.geometry[m]
	if !ok {
		return geom.Rect{}, ErrNotFloating
	}

	size := clamp(m, r.Size())
	r.W, r.H = size.W, size.H
	e.geometry[m] = r
	if r.Size() != old.Size() {
		m.SetSize(size)
		m.Configure()
	}
	return r, nil
}

// ElementAt finds the front most window under p. The returned point is the
// window location.
func (e *Engine) ElementAt(p geom.PointF) (*element.Mapped, geom.Point, bool) {
	for _, m := range e.windows {
		r := e.geometry[m]
		if r.Contains(p) {
			return m, r.Loc(), true
		}
	}
	return nil, geom.Point{}, false
}

// ResizeBegin starts dragging edges of m from pointer.
func (e *Engine) ResizeBegin(m *element.Mapped, edges element.ResizeEdge, pointer geom.PointF) error {
	r, ok := e.geometry[m]
	if !ok {
		return ErrNotFloating
	}

	m.SetResizeState(element.ResizeState{
		Phase:           element.ResizeActive,
		Edges:           edges,
		InitialGeometry: r,
		InitialPointer:  pointer,
	})
	e.Raise(m)
	m.SetResizing(true)
	m.Configure()
	return nil
}

// ResizeMotion applies the pointer movement since ResizeBegin. Dragged left
// and top edges keep the opposite edge in place.
func (e *Engine) ResizeMotion(m *element.Mapped, pointer geom.PointF) (geom.Rect, error) {
	if !e.Contains(m) {
		return geom.Rect{}, ErrNotFloating
	}
	rs, ok := m.ResizeState()
	if !ok || rs.Phase != element.ResizeActive {
		return geom.Rect{}, ErrNotResizing
	}

	delta := pointer.Sub(rs.InitialPointer).Round()
	start := rs.InitialGeometry
	size := start.Size()
	if rs.Edges&element.EdgeLeft != 0 {
		size.W -= delta.X
	} else if rs.Edges&element.EdgeRight != 0 {
		size.W += delta.X
	}
	if rs.Edges&element.EdgeTop != 0 {
		size.H -= delta.Y
	} else if rs.Edges&element.EdgeBottom != 0 {
		size.H += delta.Y
	}
	size = clamp(m, size)

	r := geom.RectFrom(start.Loc(), size)
	if rs.Edges&element.EdgeLeft != 0 {
		r.X = start.Right() - size.W
	}
	if rs.Edges&element.EdgeTop != 0 {
		r.Y = start.Bottom() - size.H
	}

	e.geometry[m] = r
	m.SetSize(size)
	m.Configure()
	return r, nil
}

// ResizeEnd stops the resize. The state is kept until the client acknowledges
// the final configure, see Refresh.
func (e *Engine) ResizeEnd(m *element.Mapped) error {
	rs, ok := m.ResizeState()
	if !ok || rs.Phase != element.ResizeActive {
		return ErrNotResizing
	}

	m.SetResizing(false)
	m.Configure()

	configures := m.ActiveWindow().PendingConfigures()
	rs.Phase = element.ResizeWaitingForAck
	rs.Serial = configures[len(configures)-1].Serial
	m.SetResizeState(rs)
	return nil
}

// Refresh clears finished resizes whose final configure was acknowledged.
func (e *Engine) Refresh() {
	for _, m := range e.windows {
		rs, ok := m.ResizeState()
		if !ok || rs.Phase != element.ResizeWaitingForAck {
			continue
		}
		waiting := slices.ContainsFunc(m.ActiveWindow().PendingConfigures(), func(c protocol.Configure) bool {
			return c.Serial <= rs.Serial
		})
		if !waiting {
			m.ClearResizeState()
		}
	}
}

// clamp fits size, header included, between the minimum and maximum of m.
func clamp(m *element.Mapped, size geom.Size) geom.Size {
	hh := m.HeaderHeight()
	lo := m.MinSize()
	lo.H += hh
	hi := m.MaxSize()
	if hi.W > 0 {
		size.W = min(size.W, hi.W)
	}
	if hi.H > 0 {
		size.H = min(size.H, hi.H+hh)
	}
	return geom.Size{W: max(size.W, lo.W, 1), H: max(size.H, lo.H, 1)}
}
