package element

import (
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
)

// setState changes flag in the pending state of every toplevel. Tabs share
// focus and visuals so they share these states.
func (m *Mapped) setState(flag protocol.State, on bool) {
	for t := range m.v.toplevels() {
		t.WithPendingState(func(s *protocol.ToplevelState) {
			s.States.Toggle(flag, on)
		})
	}
}

// isState reads the active window. Pending counts so the state does not
// flicker until the client acknowledges it.
func (m *Mapped) isState(flag protocol.State) bool {
	t := m.v.activeWindow()
	return t.CurrentState().States.Contains(flag) || t.PendingState().States.Contains(flag)
}

func (m *Mapped) SetResizing(resizing bool) { m.setState(protocol.StateResizing, resizing) }

func (m *Mapped) IsResizing() bool { return m.isState(protocol.StateResizing) }

func (m *Mapped) SetFullscreen(fullscreen bool) { m.setState(protocol.StateFullscreen, fullscreen) }

func (m *Mapped) IsFullscreen() bool { return m.isState(protocol.StateFullscreen) }

func (m *Mapped) SetMaximized(maximized bool) { m.setState(protocol.StateMaximized, maximized) }

func (m *Mapped) IsMaximized() bool { return m.isState(protocol.StateMaximized) }

func (m *Mapped) SetActivated(activated bool) { m.setState(protocol.StateActivated, activated) }

func (m *Mapped) IsActivated() bool { return m.isState(protocol.StateActivated) }

// SetTiled sets the tiled edges of a window. Stacks ignore it.
func (m *Mapped) SetTiled(tiled bool) { m.v.setTiled(tiled) }

// IsTiled reads the tiled left edge of the active window like the other states.
func (m *Mapped) IsTiled() bool { return m.isState(protocol.StateTiledLeft) }

// SetSize sets the pending size of every toplevel so that the mapped window,
// header included, is size.
func (m *Mapped) SetSize(size geom.Size) {
	content := geom.Size{W: size.W, H: max(size.H-m.v.headerHeight(), 0)}
	for t := range m.v.toplevels() {
		t.WithPendingState(func(s *protocol.ToplevelState) {
			s.Size = content
		})
	}
	m.v.decorate(size.W, m.IsActivated())
}

// Configure sends a configure to every toplevel.
func (m *Mapped) Configure() {
	for t := range m.v.toplevels() {
		t.SendConfigure()
	}
}

// SendClose asks the active window to close. Other tabs stay open.
func (m *Mapped) SendClose() { m.v.activeWindow().SendClose() }

// MinSize is the smallest size every toplevel accepts.
func (m *Mapped) MinSize() geom.Size { return m.v.minSize() }

// MaxSize is the largest size every toplevel accepts. Zero on an axis means
// unconstrained.
func (m *Mapped) MaxSize() geom.Size { return m.v.maxSize() }

// States is the union of the current and pending states of the active window.
func (m *Mapped) States() protocol.State {
	t := m.v.activeWindow()
	return t.CurrentState().States | t.PendingState().States
}
