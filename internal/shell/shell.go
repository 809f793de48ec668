// Package shell owns the mapped windows and decides where they go, who has
// focus and what is drawn.
package shell

import (
	"errors"
	"image/color"
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-stackwm/internal/decoration"
	"github.com/ItsNotGoodName/x-stackwm/internal/element"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/input"
	"github.com/ItsNotGoodName/x-stackwm/internal/layout/floating"
	"github.com/ItsNotGoodName/x-stackwm/internal/layout/tiling"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
	"github.com/google/uuid"
)

var (
	ErrNotMapped     = errors.New("window is not mapped")
	ErrAlreadyMapped = errors.New("window is already mapped")
	ErrNoFocus       = errors.New("no window has focus")
	ErrSameWindow    = errors.New("cannot stack a window onto itself")
	ErrNotStack      = errors.New("window is not a stack")
	ErrQuit          = errors.New("quit")
)

type Options struct {
	Output       geom.Size
	Scale        float64
	Theme        decoration.Theme
	Background   color.RGBA
	Layout       tiling.Layout
	Gap          int
	FloatingSize geom.Size
	// Debug turns on the debug overlay of new windows.
	Debug bool
	Seats []string
}

func DefaultOptions() Options {
	return Options{
		Output:       geom.Size{W: 1280, H: 720},
		Scale:        1,
		Theme:        decoration.DefaultTheme(),
		Background:   color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
		Layout:       tiling.Grid{},
		Gap:          8,
		FloatingSize: geom.Size{W: 480, H: 320},
		Seats:        []string{"seat0"},
	}
}

// MapOptions controls where a new toplevel goes.
type MapOptions struct {
	// Group joins the stack of the window mapped with the same group.
	Group    string
	Floating bool
}

type seatState struct {
	seat *input.Seat
	mods input.Modifiers

	keyboard    *element.Mapped
	keyboardTop *protocol.Toplevel

	pointer       *element.Mapped
	pointerLoc    geom.PointF
	pointerOrigin geom.Point
	resizing      *element.Mapped
}

// Shell is not safe for concurrent use. Other goroutines go through Do.
type Shell struct {
	display  *protocol.Display
	opts     Options
	output   geom.Rect
	scale    geom.Scale
	tiling   *tiling.Engine
	floating *floating.Engine

	windows []*element.Mapped
	groups  map[string]*element.Mapped
	seats   []*seatState
	debug   bool
	dirty   bool

	commandC chan command
}

func New(display *protocol.Display, opts Options) *Shell {
	if len(opts.Seats) == 0 {
		opts.Seats = []string{"seat0"}
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Layout == nil {
		opts.Layout = tiling.Grid{}
	}

	s := &Shell{
		display:  display,
		opts:     opts,
		output:   geom.RectFrom(geom.Point{}, opts.Output),
		scale:    geom.Uniform(opts.Scale),
		tiling:   tiling.NewEngine(opts.Layout, opts.Gap),
		floating: floating.NewEngine(opts.FloatingSize),
		groups:   make(map[string]*element.Mapped),
		debug:    opts.Debug,
		commandC: make(chan command),
	}
	for _, name := range opts.Seats {
		s.seats = append(s.seats, &seatState{seat: input.NewSeat(name)})
	}
	return s
}

func (s *Shell) Display() *protocol.Display { return s.display }

func (s *Shell) Output() geom.Rect { return s.output }

func (s *Shell) Scale() geom.Scale { return s.scale }

// Resize changes the output size and arranges the windows again.
func (s *Shell) Resize(size geom.Size) {
	if size == s.output.Size() {
		return
	}
	s.output = geom.RectFrom(geom.Point{}, size)
	s.arrange()
}

func (s *Shell) Seats() []*input.Seat {
	seats := make([]*input.Seat, len(s.seats))
	for i, st := range s.seats {
		seats[i] = st.seat
	}
	return seats
}

// DefaultSeat is the first seat. Operations without a seat use it.
func (s *Shell) DefaultSeat() *input.Seat { return s.seats[0].seat }

func (s *Shell) seatState(seat *input.Seat) *seatState {
	for _, st := range s.seats {
		if st.seat == seat {
			return st
		}
	}
	return s.seats[0]
}

// Windows returns the mapped windows in map order.
func (s *Shell) Windows() []*element.Mapped { return slices.Clone(s.windows) }

// Window finds a mapped window by id.
func (s *Shell) Window(id uuid.UUID) (*element.Mapped, bool) {
	i := slices.IndexFunc(s.windows, func(m *element.Mapped) bool { return m.ID() == id })
	if i == -1 {
		return nil, false
	}
	return s.windows[i], true
}

// WindowOf finds the mapped window holding t.
func (s *Shell) WindowOf(t *protocol.Toplevel) (*element.Mapped, bool) {
	i := slices.IndexFunc(s.windows, func(m *element.Mapped) bool { return m.Contains(t) })
	if i == -1 {
		return nil, false
	}
	return s.windows[i], true
}

// Focused is the keyboard focus of the default seat.
func (s *Shell) Focused() *element.Mapped { return s.seats[0].keyboard }

// FocusedBy is the keyboard focus of seat.
func (s *Shell) FocusedBy(seat *input.Seat) *element.Mapped { return s.seatState(seat).keyboard }

func (s *Shell) newHeader(t *protocol.Toplevel) *decoration.Header {
	return decoration.NewHeader(s.opts.Theme, t.Attributes().Title)
}

func (s *Shell) newTabBar() *decoration.TabBar {
	return decoration.NewTabBar(s.opts.Theme)
}

// MapToplevel maps t and focuses it.
func (s *Shell) MapToplevel(t *protocol.Toplevel, opts MapOptions) (*element.Mapped, error) {
	if _, ok := s.WindowOf(t); ok {
		return nil, ErrAlreadyMapped
	}

	if group, ok := s.groups[opts.Group]; ok && opts.Group != "" {
		m, err := s.addTab(group, t)
		if err != nil {
			return nil, err
		}
		s.groups[opts.Group] = m
		s.focus(s.seats[0], m)
		return m, nil
	}

	m := element.FromWindow(element.NewWindow(t, s.newHeader(t)))
	m.SetDebug(s.debug)
	if err := s.place(m, opts.Floating); err != nil {
		return nil, err
	}
	s.windows = append(s.windows, m)
	if opts.Group != "" {
		s.groups[opts.Group] = m
	}

	slog.Debug("Mapped toplevel", "func", "shell.Shell.MapToplevel", "window", m.ID(), "title", m.Title(), "floating", opts.Floating)
	s.focus(s.seats[0], m)
	s.arrange()
	s.dirty = true
	return m, nil
}

func (s *Shell) place(m *element.Mapped, float bool) error {
	if float {
		size := s.opts.FloatingSize
		at := s.output.Center().Sub(geom.Point{X: size.W / 2, Y: size.H / 2})
		_, err := s.floating.Map(m, at)
		return err
	}
	_, err := s.tiling.Map(m)
	return err
}

// addTab puts t into the stack of m. A window is turned into a stack first.
func (s *Shell) addTab(m *element.Mapped, t *protocol.Toplevel) (*element.Mapped, error) {
	if stack, ok := m.Stack(); ok {
		states := m.States()
		if err := stack.Add(t); err != nil {
			return nil, err
		}
		applyStates(m, states)
		s.resync(m)
		s.dirty = true
		return m, nil
	}

	w, _ := m.Window()
	next := element.FromStack(element.NewStack(s.newTabBar(), w.Toplevel(), t))
	next.SetActive(t)
	if err := s.replace(m, next); err != nil {
		return nil, err
	}
	return next, nil
}

// replace puts next where old was in layouts, focus and groups.
func (s *Shell) replace(old, next *element.Mapped) error {
	i := slices.Index(s.windows, old)
	if i == -1 {
		return ErrNotMapped
	}

	next.SetDebug(old.Debug())
	switch {
	case s.tiling.Contains(old):
		if err := s.tiling.Replace(old, next); err != nil {
			return err
		}
	case s.floating.Contains(old):
		if err := s.floating.Replace(old, next); err != nil {
			return err
		}
	}
	applyStates(next, old.States())

	s.windows[i] = next
	for group, m := range s.groups {
		if m == old {
			s.groups[group] = next
		}
	}
	for _, st := range s.seats {
		if st.keyboard == old {
			st.keyboard = next
		}
		if st.pointer == old {
			s.pointerLeave(st)
		}
		if st.resizing == old {
			st.resizing = nil
		}
	}

	s.resync(next)
	s.arrange()
	s.dirty = true
	return nil
}

// resync applies the size of m to new tabs and moves keyboard and pointer
// focus to the active tab.
func (s *Shell) resync(m *element.Mapped) {
	if geo, ok := s.geometry(m); ok {
		m.SetSize(geo.Size())
		m.Configure()
	}
	s.activeChanged(m)
}

// activeChanged moves keyboard and pointer focus inside m to its active tab.
func (s *Shell) activeChanged(m *element.Mapped) {
	for _, st := range s.seats {
		if st.keyboard == m {
			s.syncKeyboard(st)
		}
	}
	m.SyncPointer(s.display.NextSerial(), 0)
}

// UnmapToplevel removes t. A stack left with one tab becomes a window.
func (s *Shell) UnmapToplevel(t *protocol.Toplevel) error {
	m, ok := s.WindowOf(t)
	if !ok {
		return ErrNotMapped
	}
	s.dirty = true

	if stack, ok := m.Stack(); ok {
		if stack.Len() > 2 {
			if err := stack.Remove(t); err != nil {
				return err
			}
			s.dropKeyboard(t)
			s.resync(m)
			return nil
		}

		remaining := stack.Tabs()[0]
		if remaining == t {
			remaining = stack.Tabs()[1]
		}
		s.dropKeyboard(t)
		return s.replace(m, element.FromWindow(element.NewWindow(remaining, s.newHeader(remaining))))
	}

	s.dropKeyboard(t)
	return s.unmap(m)
}

// unmap removes m from everything and moves focus to the last window.
func (s *Shell) unmap(m *element.Mapped) error {
	i := slices.Index(s.windows, m)
	if i == -1 {
		return ErrNotMapped
	}

	if s.tiling.Contains(m) {
		_ = s.tiling.Unmap(m)
	}
	if s.floating.Contains(m) {
		_ = s.floating.Unmap(m)
	}
	s.windows = slices.Delete(s.windows, i, i+1)
	for group, g := range s.groups {
		if g == m {
			delete(s.groups, group)
		}
	}

	for _, st := range s.seats {
		if st.pointer == m {
			s.pointerLeave(st)
		}
		if st.resizing == m {
			st.resizing = nil
		}
		if st.keyboard == m {
			s.focus(st, nil)
			if n := len(s.windows); n > 0 {
				s.focus(st, s.windows[n-1])
			}
		}
	}

	slog.Debug("Unmapped window", "func", "shell.Shell.unmap", "window", m.ID())
	s.arrange()
	return nil
}

func (s *Shell) dropKeyboard(t *protocol.Toplevel) {
	for _, st := range s.seats {
		if st.keyboardTop == t {
			st.keyboardTop = nil
		}
	}
}

// Refresh unmaps toplevels whose clients destroyed them and finishes
// resizes.
func (s *Shell) Refresh() {
	var dead []*protocol.Toplevel
	for _, m := range s.windows {
		for t := range m.Windows() {
			if !t.Alive() {
				dead = append(dead, t)
			}
		}
	}
	for _, t := range dead {
		if err := s.UnmapToplevel(t); err != nil {
			slog.Error("Failed to unmap dead toplevel", "func", "shell.Shell.Refresh", "error", err)
		}
	}
	s.floating.Refresh()
}

// StackOnto moves every tab of m into target.
func (s *Shell) StackOnto(m, target *element.Mapped) (*element.Mapped, error) {
	if m == target {
		return nil, ErrSameWindow
	}
	if !slices.Contains(s.windows, m) || !slices.Contains(s.windows, target) {
		return nil, ErrNotMapped
	}

	var tabs []*protocol.Toplevel
	for t := range m.Windows() {
		tabs = append(tabs, t)
	}
	active := m.ActiveWindow()
	var focused []*seatState
	for _, st := range s.seats {
		if st.keyboard == m {
			focused = append(focused, st)
		}
	}

	if err := s.unmap(m); err != nil {
		return nil, err
	}
	for _, t := range tabs {
		next, err := s.addTab(target, t)
		if err != nil {
			return nil, err
		}
		target = next
	}
	target.SetActive(active)
	s.resync(target)
	for _, st := range focused {
		s.focus(st, target)
	}
	s.dirty = true
	return target, nil
}

// Unstack takes the active tab out of the focused stack and maps it next to
// the stack.
func (s *Shell) Unstack() (*element.Mapped, error) { return s.unstack(s.Focused()) }

func (s *Shell) unstack(m *element.Mapped) (*element.Mapped, error) {
	if m == nil {
		return nil, ErrNoFocus
	}
	if _, ok := m.Stack(); !ok {
		return nil, ErrNotStack
	}

	t := m.ActiveWindow()
	float := s.floating.Contains(m)
	if err := s.UnmapToplevel(t); err != nil {
		return nil, err
	}
	return s.MapToplevel(t, MapOptions{Floating: float})
}

// applyStates carries the shared states over to every toplevel of m.
func applyStates(m *element.Mapped, states protocol.State) {
	m.SetFullscreen(states.Contains(protocol.StateFullscreen))
	m.SetMaximized(states.Contains(protocol.StateMaximized))
	m.SetActivated(states.Contains(protocol.StateActivated))
}

// arrange tiles the windows and sizes fullscreen and maximized windows to the
// output.
func (s *Shell) arrange() {
	s.tiling.Arrange(s.output)
	for _, m := range s.windows {
		if m.IsFullscreen() || m.IsMaximized() {
			m.SetSize(s.output.Size())
			m.Configure()
		}
	}
}

// geometry is where m is on the output.
func (s *Shell) geometry(m *element.Mapped) (geom.Rect, bool) {
	if m.IsFullscreen() || m.IsMaximized() {
		return s.output, true
	}
	if r, ok := s.tiling.Geometry(m); ok {
		return r, true
	}
	return s.floating.Geometry(m)
}

// Geometry is where m is on the output.
func (s *Shell) Geometry(m *element.Mapped) (geom.Rect, bool) { return s.geometry(m) }

// stacking returns the windows front to back.
func (s *Shell) stacking() []*element.Mapped {
	var front, tiled []*element.Mapped
	for _, m := range s.windows {
		switch {
		case m.IsFullscreen() || m.IsMaximized():
			front = append(front, m)
		case s.tiling.Contains(m):
			tiled = append(tiled, m)
		}
	}
	slices.Reverse(front)
	return slices.Concat(front, s.floating.Windows(), tiled)
}

// focus gives keyboard focus of st to m. m may be nil.
func (s *Shell) focus(st *seatState, m *element.Mapped) {
	if st.keyboard == m {
		s.syncKeyboard(st)
		return
	}

	if old := st.keyboard; old != nil {
		if st.keyboardTop != nil && st.keyboardTop.Alive() {
			st.keyboardTop.KeyboardLeave(st.seat, s.display.NextSerial())
		}
		if !s.focusedByOther(st, old) {
			old.SetActivated(false)
			old.Configure()
		}
	}

	st.keyboard, st.keyboardTop = m, nil
	if m != nil {
		m.SetActivated(true)
		m.Configure()
		if s.floating.Contains(m) {
			s.floating.Raise(m)
		}
		s.syncKeyboard(st)
	}
	s.dirty = true
}

func (s *Shell) focusedByOther(st *seatState, m *element.Mapped) bool {
	for _, other := range s.seats {
		if other != st && other.keyboard == m {
			return true
		}
	}
	return false
}

// syncKeyboard moves the keyboard of st to the active tab of its focus.
func (s *Shell) syncKeyboard(st *seatState) {
	if st.keyboard == nil {
		return
	}
	active := st.keyboard.ActiveWindow()
	if st.keyboardTop == active {
		return
	}
	if st.keyboardTop != nil && st.keyboardTop.Alive() {
		st.keyboardTop.KeyboardLeave(st.seat, s.display.NextSerial())
	}
	st.keyboard.KeyboardEnter(st.seat, nil, s.display.NextSerial())
	st.keyboardTop = active
}

// Focus gives keyboard focus of the default seat to m.
func (s *Shell) Focus(m *element.Mapped) error {
	if !slices.Contains(s.windows, m) {
		return ErrNotMapped
	}
	s.focus(s.seats[0], m)
	return nil
}
