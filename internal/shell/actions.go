package shell

import (
	"errors"
	"log/slog"

	"github.com/ItsNotGoodName/x-stackwm/internal/element"
	"github.com/ItsNotGoodName/x-stackwm/internal/input"
	"github.com/k0kubun/pp"
)

// MoveFocus moves between the tabs of the focused stack first, then to the
// tiled neighbour in dir.
func (s *Shell) MoveFocus(dir element.Direction) bool {
	return s.moveFocus(s.seats[0], dir)
}

func (s *Shell) moveFocus(st *seatState, dir element.Direction) bool {
	m := st.keyboard
	if m == nil {
		if n := len(s.windows); n > 0 {
			s.focus(st, s.windows[n-1])
			return true
		}
		return false
	}

	if m.HandleFocus(dir) {
		s.activeChanged(m)
		s.dirty = true
		return true
	}

	next, ok := s.tiling.Neighbor(m, dir)
	if !ok {
		return false
	}
	s.focus(st, next)
	return true
}

// SwapFocused swaps the focused tiled window with its neighbour in dir.
func (s *Shell) SwapFocused(dir element.Direction) error { return s.swapFocused(s.Focused(), dir) }

func (s *Shell) swapFocused(m *element.Mapped, dir element.Direction) error {
	if m == nil {
		return ErrNoFocus
	}
	next, ok := s.tiling.Neighbor(m, dir)
	if !ok {
		return nil
	}
	if err := s.tiling.Swap(m, next); err != nil {
		return err
	}
	s.arrange()
	s.dirty = true
	return nil
}

// StackFocused stacks the focused window onto its neighbour in dir.
func (s *Shell) StackFocused(dir element.Direction) error { return s.stackFocused(s.Focused(), dir) }

func (s *Shell) stackFocused(m *element.Mapped, dir element.Direction) error {
	if m == nil {
		return ErrNoFocus
	}
	target, ok := s.tiling.Neighbor(m, dir)
	if !ok {
		return nil
	}
	_, err := s.StackOnto(m, target)
	return err
}

// ToggleFloating moves the focused window between the tiling and floating
// layouts.
func (s *Shell) ToggleFloating() error { return s.toggleFloating(s.Focused()) }

func (s *Shell) toggleFloating(m *element.Mapped) error {
	if m == nil {
		return ErrNoFocus
	}

	if s.floating.Contains(m) {
		if err := s.floating.Unmap(m); err != nil {
			return err
		}
		if _, err := s.tiling.Map(m); err != nil {
			return err
		}
	} else {
		if err := s.tiling.Unmap(m); err != nil {
			return err
		}
		if err := s.place(m, true); err != nil {
			return err
		}
	}

	s.arrange()
	s.dirty = true
	return nil
}

func (s *Shell) ToggleFullscreen() error { return s.toggleFullscreen(s.Focused()) }

func (s *Shell) toggleFullscreen(m *element.Mapped) error {
	if m == nil {
		return ErrNoFocus
	}
	m.SetFullscreen(!m.IsFullscreen())
	s.restore(m)
	return nil
}

func (s *Shell) ToggleMaximized() error { return s.toggleMaximized(s.Focused()) }

func (s *Shell) toggleMaximized(m *element.Mapped) error {
	if m == nil {
		return ErrNoFocus
	}
	m.SetMaximized(!m.IsMaximized())
	s.restore(m)
	return nil
}

// restore sizes m for where it is now.
func (s *Shell) restore(m *element.Mapped) {
	if geo, ok := s.geometry(m); ok {
		m.SetSize(geo.Size())
	}
	m.Configure()
	s.dirty = true
}

// CloseFocused asks the active window of the focused window to close.
func (s *Shell) CloseFocused() error { return s.closeFocused(s.Focused()) }

func (s *Shell) closeFocused(m *element.Mapped) error {
	if m == nil {
		return ErrNoFocus
	}
	m.SendClose()
	return nil
}

// ToggleDebug toggles the debug overlay of the focused window.
func (s *Shell) ToggleDebug() error { return s.toggleDebug(s.Focused()) }

func (s *Shell) toggleDebug(m *element.Mapped) error {
	if m == nil {
		return ErrNoFocus
	}
	s.SetWindowDebug(m, !m.Debug())
	return nil
}

func (s *Shell) SetWindowDebug(m *element.Mapped, on bool) {
	m.SetDebug(on)
	s.dirty = true
}

// SetDebug sets the debug overlay of every window and of new windows.
func (s *Shell) SetDebug(on bool) {
	s.debug = on
	for _, m := range s.windows {
		m.SetDebug(on)
	}
	s.dirty = true
}

// ActivateTab activates tab i of the stack m.
func (s *Shell) ActivateTab(m *element.Mapped, i int) error {
	stack, ok := m.Stack()
	if !ok {
		return ErrNotStack
	}
	if err := stack.SetActiveIndex(i); err != nil {
		return err
	}
	s.activeChanged(m)
	s.dirty = true
	return nil
}

// Dump prints the shell state for debugging.
func (s *Shell) Dump() string {
	return pp.Sprint(s.Snapshot())
}

type binding struct {
	shift bool
	key   input.Keysym
	run   func(s *Shell, st *seatState) error
}

func direction(dir element.Direction) func(s *Shell, st *seatState) error {
	return func(s *Shell, st *seatState) error {
		s.moveFocus(st, dir)
		return nil
	}
}

func focused(fn func(s *Shell, m *element.Mapped) error) func(s *Shell, st *seatState) error {
	return func(s *Shell, st *seatState) error {
		if st.keyboard == nil {
			return nil
		}
		return fn(s, st.keyboard)
	}
}

func focusedDir(fn func(s *Shell, m *element.Mapped, dir element.Direction) error, dir element.Direction) func(s *Shell, st *seatState) error {
	return focused(func(s *Shell, m *element.Mapped) error { return fn(s, m, dir) })
}

// Alt is held for every binding.
var bindings = []binding{
	{key: input.KeyLeft, run: direction(element.DirectionLeft)},
	{key: input.KeyRight, run: direction(element.DirectionRight)},
	{key: input.KeyUp, run: direction(element.DirectionUp)},
	{key: input.KeyDown, run: direction(element.DirectionDown)},
	{shift: true, key: input.KeyLeft, run: focusedDir((*Shell).stackFocused, element.DirectionLeft)},
	{shift: true, key: input.KeyRight, run: focusedDir((*Shell).stackFocused, element.DirectionRight)},
	{shift: true, key: input.KeyUp, run: focusedDir((*Shell).swapFocused, element.DirectionUp)},
	{shift: true, key: input.KeyDown, run: focusedDir((*Shell).swapFocused, element.DirectionDown)},
	{key: input.KeyQ, run: focused((*Shell).closeFocused)},
	{key: input.KeyD, run: focused((*Shell).toggleDebug)},
	{key: input.KeyF, run: focused((*Shell).toggleFullscreen)},
	{key: input.KeyM, run: focused((*Shell).toggleMaximized)},
	{key: input.KeySpace, run: focused((*Shell).toggleFloating)},
	{key: input.KeyU, run: focused(func(s *Shell, m *element.Mapped) error {
		_, err := s.unstack(m)
		if errors.Is(err, ErrNotStack) {
			return nil
		}
		return err
	})},
	{key: input.KeyP, run: func(s *Shell, st *seatState) error {
		slog.Info("Shell state", "func", "shell.Shell.Dump", "state", s.Dump())
		return nil
	}},
	{shift: true, key: input.KeyQ, run: func(s *Shell, st *seatState) error { return ErrQuit }},
}

// Modifiers records the modifiers of seat and forwards them to its focus.
func (s *Shell) Modifiers(seat *input.Seat, mods input.Modifiers) {
	st := s.seatState(seat)
	if st.mods == mods {
		return
	}
	st.mods = mods
	if st.keyboard != nil {
		st.keyboard.Modifiers(seat, mods, s.display.NextSerial())
	}
}

// Key runs the binding of ev or forwards it to the keyboard focus of seat.
// It returns ErrQuit when the quit binding is pressed.
func (s *Shell) Key(seat *input.Seat, ev input.KeyEvent) error {
	st := s.seatState(seat)
	if st.mods.Alt {
		for _, b := range bindings {
			if b.key != ev.Keysym || b.shift != st.mods.Shift {
				continue
			}
			if ev.State != input.KeyPressed {
				return nil
			}
			return b.run(s, st)
		}
	}

	if st.keyboard != nil {
		st.keyboard.Key(seat, ev)
	}
	return nil
}
