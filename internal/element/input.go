package element

import (
	"slices"
	"sync"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/input"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
)

var (
	_ input.KeyboardTarget = (*Mapped)(nil)
	_ input.PointerTarget  = (*Mapped)(nil)
)

// Keyboard events go to the active window only.

func (m *Mapped) KeyboardEnter(seat *input.Seat, keys []input.Keysym, serial uint32) {
	m.v.activeWindow().KeyboardEnter(seat, keys, serial)
}

func (m *Mapped) KeyboardLeave(seat *input.Seat, serial uint32) {
	m.v.activeWindow().KeyboardLeave(seat, serial)
}

func (m *Mapped) Key(seat *input.Seat, ev input.KeyEvent) {
	m.v.activeWindow().Key(seat, ev)
}

func (m *Mapped) Modifiers(seat *input.Seat, mods input.Modifiers, serial uint32) {
	m.v.activeWindow().Modifiers(seat, mods, serial)
}

// Pointer locations are relative to the mapped window. The active window gets
// them relative to its content.

func (m *Mapped) PointerEnter(seat *input.Seat, ev input.MotionEvent) {
	m.cursors.Set(seat.ID(), ev.Location)
	active := m.v.activeWindow()
	m.pointers.enter(seat, active)
	active.PointerEnter(seat, m.toContent(ev))
}

func (m *Mapped) PointerMotion(seat *input.Seat, ev input.MotionEvent) {
	m.cursors.Set(seat.ID(), ev.Location)
	if m.retarget(seat, ev) {
		return
	}
	m.v.activeWindow().PointerMotion(seat, m.toContent(ev))
}

// PointerButton activates the clicked tab when pressed on a tab bar. The
// release of that press is dropped. Everything else is forwarded.
func (m *Mapped) PointerButton(seat *input.Seat, ev input.ButtonEvent) {
	switch ev.State {
	case input.ButtonPressed:
		if ev.Button == input.ButtonLeft {
			if loc, ok := m.cursors.Get(seat.ID()); ok && loc.Y < float64(m.v.headerHeight()) {
				if m.v.headerClick(loc.X) {
					m.pointers.swallow(seat.ID(), ev.Button)
					m.SyncPointer(ev.Serial, ev.Time)
					return
				}
			}
		}
	case input.ButtonReleased:
		if m.pointers.swallowed(seat.ID(), ev.Button) {
			return
		}
	}
	m.v.activeWindow().PointerButton(seat, ev)
}

func (m *Mapped) PointerAxis(seat *input.Seat, frame input.AxisFrame) {
	m.v.activeWindow().PointerAxis(seat, frame)
}

// PointerLeave is sent to the window that got the matching enter.
func (m *Mapped) PointerLeave(seat *input.Seat, serial, time uint32) {
	m.cursors.Remove(seat.ID())
	if target, ok := m.pointers.leave(seat.ID()); ok {
		target.PointerLeave(seat, serial, time)
		return
	}
	m.v.activeWindow().PointerLeave(seat, serial, time)
}

// SyncPointer moves the pointer focus of every seat inside m to the active
// window after the active tab changed.
func (m *Mapped) SyncPointer(serial, time uint32) {
	for _, seat := range m.pointers.seats() {
		loc, ok := m.cursors.Get(seat.ID())
		if !ok {
			continue
		}
		m.retarget(seat, input.MotionEvent{Location: loc, Serial: serial, Time: time})
	}
}

// retarget sends leave to the window seat entered and enter to the active
// window when they differ.
func (m *Mapped) retarget(seat *input.Seat, ev input.MotionEvent) bool {
	active := m.v.activeWindow()
	prev, ok := m.pointers.target(seat.ID())
	if !ok || prev == active {
		return false
	}
	prev.PointerLeave(seat, ev.Serial, ev.Time)
	m.pointers.enter(seat, active)
	active.PointerEnter(seat, m.toContent(ev))
	return true
}

type pointerEntry struct {
	seat      *input.Seat
	target    *protocol.Toplevel
	swallowed []uint32
}

// pointerFocus is the toplevel each seat's pointer entered.
type pointerFocus struct {
	mu      sync.Mutex
	entries map[input.SeatID]*pointerEntry
}

func (p *pointerFocus) enter(seat *input.Seat, target *protocol.Toplevel) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.entries == nil {
		p.entries = make(map[input.SeatID]*pointerEntry)
	}
	if e, ok := p.entries[seat.ID()]; ok {
		e.target = target
		return
	}
	p.entries[seat.ID()] = &pointerEntry{seat: seat, target: target}
}

func (p *pointerFocus) target(seat input.SeatID) (*protocol.Toplevel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[seat]
	if !ok {
		return nil, false
	}
	return e.target, true
}

func (p *pointerFocus) leave(seat input.SeatID) (*protocol.Toplevel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[seat]
	if !ok {
		return nil, false
	}
	delete(p.entries, seat)
	return e.target, true
}

func (p *pointerFocus) seats() []*input.Seat {
	p.mu.Lock()
	defer p.mu.Unlock()

	seats := make([]*input.Seat, 0, len(p.entries))
	for _, e := range p.entries {
		seats = append(seats, e.seat)
	}
	return seats
}

func (p *pointerFocus) swallow(seat input.SeatID, button uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.entries[seat]; ok {
		e.swallowed = append(e.swallowed, button)
	}
}

// swallowed removes button from the dropped buttons of seat.
func (p *pointerFocus) swallowed(seat input.SeatID, button uint32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[seat]
	if !ok {
		return false
	}
	i := slices.Index(e.swallowed, button)
	if i == -1 {
		return false
	}
	e.swallowed = slices.Delete(e.swallowed, i, i+1)
	return true
}

func (m *Mapped) toContent(ev input.MotionEvent) input.MotionEvent {
	ev.Location = ev.Location.Sub(geom.PointF{Y: float64(m.v.headerHeight())})
	return ev
}
