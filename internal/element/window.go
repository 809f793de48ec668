package element

import (
	"iter"

	"github.com/ItsNotGoodName/x-stackwm/internal/decoration"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
)

// Window is a single toplevel with an optional title bar.
type Window struct {
	toplevel *protocol.Toplevel
	header   *decoration.Header
}

// NewWindow wraps toplevel. header may be nil.
func NewWindow(toplevel *protocol.Toplevel, header *decoration.Header) *Window {
	return &Window{
		toplevel: toplevel,
		header:   header,
	}
}

func (w *Window) Toplevel() *protocol.Toplevel { return w.toplevel }

func (w *Window) Header() *decoration.Header { return w.header }

func (w *Window) kind() Kind { return KindWindow }

func (w *Window) toplevels() iter.Seq[*protocol.Toplevel] {
	return func(yield func(*protocol.Toplevel) bool) {
		yield(w.toplevel)
	}
}

func (w *Window) activeWindow() *protocol.Toplevel { return w.toplevel }

func (w *Window) headerHeight() int {
	if w.header == nil {
		return 0
	}
	return w.header.Height()
}

func (w *Window) setActive(t *protocol.Toplevel) bool { return false }

func (w *Window) focus(dir Direction) bool { return false }

func (w *Window) setTiled(tiled bool) {
	w.toplevel.WithPendingState(func(s *protocol.ToplevelState) {
		s.States.Toggle(protocol.StateTiled, tiled)
	})
}

func (w *Window) minSize() geom.Size { return w.toplevel.Attributes().MinSize }

func (w *Window) maxSize() geom.Size { return w.toplevel.Attributes().MaxSize }

func (w *Window) decorate(width int, focused bool) {
	if w.header == nil {
		return
	}
	w.header.SetWidth(width)
	w.header.SetTitle(w.toplevel.Attributes().Title)
	w.header.SetFocused(focused)
}

func (w *Window) headerElements(r render.Renderer, loc geom.Point, scale geom.Scale) ([]render.Element, error) {
	if w.header == nil {
		return nil, nil
	}
	return w.header.RenderElements(r, loc, scale)
}

func (w *Window) headerClick(x float64) bool { return false }
