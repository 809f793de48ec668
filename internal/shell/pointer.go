package shell

import (
	"log/slog"

	"github.com/ItsNotGoodName/x-stackwm/internal/element"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/input"
)

// ElementAt finds the front most window under the output location p. The
// returned point is the window location.
func (s *Shell) ElementAt(p geom.PointF) (*element.Mapped, geom.Point, bool) {
	for _, m := range s.stacking() {
		geo, ok := s.geometry(m)
		if ok && geo.Contains(p) {
			return m, geo.Loc(), true
		}
	}
	return nil, geom.Point{}, false
}

// PointerMotion moves the pointer of seat to the output location loc.
func (s *Shell) PointerMotion(seat *input.Seat, loc geom.PointF, time uint32) {
	st := s.seatState(seat)
	st.pointerLoc = loc

	if st.resizing != nil {
		if _, err := s.floating.ResizeMotion(st.resizing, loc); err != nil {
			slog.Debug("Failed to resize", "func", "shell.Shell.PointerMotion", "window", st.resizing.ID(), "error", err)
			st.resizing = nil
		}
		return
	}

	m, origin, ok := s.ElementAt(loc)
	if !ok {
		s.pointerLeave(st)
		return
	}

	ev := input.MotionEvent{
		Location: loc.Sub(origin.ToF()),
		Serial:   s.display.NextSerial(),
		Time:     time,
	}
	if m != st.pointer {
		s.pointerLeave(st)
		st.pointer, st.pointerOrigin = m, origin
		m.PointerEnter(seat, ev)
		return
	}
	st.pointerOrigin = origin
	m.PointerMotion(seat, ev)
}

// PointerButton focuses the window under the pointer on press. Alt and the
// right button resize floating windows from the closest corner.
func (s *Shell) PointerButton(seat *input.Seat, ev input.ButtonEvent) {
	st := s.seatState(seat)

	if st.resizing != nil {
		if ev.State == input.ButtonReleased {
			if err := s.floating.ResizeEnd(st.resizing); err != nil {
				slog.Debug("Failed to end resize", "func", "shell.Shell.PointerButton", "error", err)
			}
			st.resizing = nil
		}
		return
	}

	m := st.pointer
	if m == nil {
		return
	}

	if ev.State == input.ButtonPressed {
		if st.keyboard != m {
			s.focus(st, m)
		}
		if st.mods.Alt && ev.Button == input.ButtonRight {
			if geo, ok := s.floating.Geometry(m); ok {
				if err := s.floating.ResizeBegin(m, edgesAt(geo, st.pointerLoc), st.pointerLoc); err == nil {
					st.resizing = m
					s.dirty = true
				}
				return
			}
		}
	}

	active := m.ActiveWindow()
	m.PointerButton(seat, ev)
	if m.ActiveWindow() != active {
		s.activeChanged(m)
		s.dirty = true
	}
}

func (s *Shell) PointerAxis(seat *input.Seat, frame input.AxisFrame) {
	if st := s.seatState(seat); st.pointer != nil {
		st.pointer.PointerAxis(seat, frame)
	}
}

func (s *Shell) pointerLeave(st *seatState) {
	if st.pointer == nil {
		return
	}
	st.pointer.PointerLeave(st.seat, s.display.NextSerial(), 0)
	st.pointer = nil
}

// edgesAt picks the edges of the quadrant of r that p is in.
func edgesAt(r geom.Rect, p geom.PointF) element.ResizeEdge {
	c := r.Center().ToF()
	edges := element.EdgeRight
	if p.X < c.X {
		edges = element.EdgeLeft
	}
	if p.Y < c.Y {
		return edges | element.EdgeTop
	}
	return edges | element.EdgeBottom
}
