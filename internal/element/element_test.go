package element

import (
	"image"
	"iter"
	"testing"

	"github.com/ItsNotGoodName/x-stackwm/internal/decoration"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/input"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toplevelOpts struct {
	title string
	min   geom.Size
	max   geom.Size
	size  geom.Size
}

func newToplevel(d *protocol.Display, opts toplevelOpts) *protocol.Toplevel {
	s := d.CreateSurface()
	s.WithAttributes(func(attrs *protocol.Attributes) {
		attrs.Title = opts.title
		attrs.AppID = "test." + opts.title
		attrs.MinSize = opts.min
		attrs.MaxSize = opts.max
	})
	if !opts.size.Empty() {
		s.Attach(image.NewRGBA(image.Rect(0, 0, opts.size.W, opts.size.H)))
	}
	return d.CreateToplevel(s, uuid.New())
}

func newTestStack(d *protocol.Display, n int) (*Mapped, []*protocol.Toplevel) {
	tabs := make([]*protocol.Toplevel, n)
	for i := range tabs {
		tabs[i] = newToplevel(d, toplevelOpts{title: string(rune('a' + i)), size: geom.Size{W: 100, H: 80}})
	}
	return FromStack(NewStack(decoration.NewTabBar(decoration.DefaultTheme()), tabs[0], tabs[1:]...)), tabs
}

func collect(seq iter.Seq2[*protocol.Toplevel, geom.Point]) ([]*protocol.Toplevel, []geom.Point) {
	var ts []*protocol.Toplevel
	var ps []geom.Point
	for t, p := range seq {
		ts = append(ts, t)
		ps = append(ps, p)
	}
	return ts, ps
}

func TestMinSize(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()

	t.Run("window passes through", func(t *testing.T) {
		m := FromWindow(NewWindow(newToplevel(d, toplevelOpts{min: geom.Size{W: 30, H: 40}}), nil))
		assert.Equal(t, geom.Size{W: 30, H: 40}, m.MinSize())
	})

	t.Run("stack satisfies every tab", func(t *testing.T) {
		mins := []geom.Size{{W: 10, H: 90}, {W: 70, H: 5}, {W: 40, H: 40}}
		var tabs []*protocol.Toplevel
		for _, size := range mins {
			tabs = append(tabs, newToplevel(d, toplevelOpts{min: size}))
		}
		m := FromStack(NewStack(nil, tabs[0], tabs[1:]...))

		got := m.MinSize()
		assert.Equal(t, geom.Size{W: 70, H: 90}, got)
		for _, size := range mins {
			assert.GreaterOrEqual(t, got.W, size.W)
			assert.GreaterOrEqual(t, got.H, size.H)
		}
	})
}

func TestMaxSize(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()

	t.Run("mixed constraints", func(t *testing.T) {
		a := newToplevel(d, toplevelOpts{min: geom.Size{W: 100, H: 50}})
		b := newToplevel(d, toplevelOpts{min: geom.Size{W: 150, H: 40}, max: geom.Size{W: 300, H: 300}})
		m := FromStack(NewStack(nil, a, b))

		assert.Equal(t, geom.Size{W: 150, H: 50}, m.MinSize())
		assert.Equal(t, geom.Size{W: 300, H: 300}, m.MaxSize())
	})

	t.Run("window keeps zero", func(t *testing.T) {
		m := FromWindow(NewWindow(newToplevel(d, toplevelOpts{min: geom.Size{W: 10, H: 10}}), nil))
		assert.Equal(t, geom.Size{}, m.MaxSize())
	})

	tests := []struct {
		name string
		tabs []toplevelOpts
		want geom.Size
	}{
		{
			name: "all unconstrained clamps to min",
			tabs: []toplevelOpts{{min: geom.Size{W: 10, H: 20}}, {min: geom.Size{W: 5, H: 30}}},
			want: geom.Size{W: 10, H: 30},
		},
		{
			name: "max below another tab's min",
			tabs: []toplevelOpts{{min: geom.Size{W: 200, H: 10}}, {max: geom.Size{W: 100, H: 100}}},
			want: geom.Size{W: 200, H: 100},
		},
		{
			name: "one axis unconstrained",
			tabs: []toplevelOpts{{max: geom.Size{W: 0, H: 500}}, {max: geom.Size{W: 400, H: 0}}},
			want: geom.Size{W: 400, H: 500},
		},
		{
			name: "smallest max wins",
			tabs: []toplevelOpts{{max: geom.Size{W: 400, H: 500}}, {max: geom.Size{W: 300, H: 600}}},
			want: geom.Size{W: 300, H: 500},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tabs []*protocol.Toplevel
			for _, o := range tt.tabs {
				tabs = append(tabs, newToplevel(d, o))
			}
			m := FromStack(NewStack(nil, tabs[0], tabs[1:]...))

			got := m.MaxSize()
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.W, m.MinSize().W)
			assert.GreaterOrEqual(t, got.H, m.MinSize().H)
		})
	}
}

func TestPendingStateIsVisible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		set  func(m *Mapped, on bool)
		is   func(m *Mapped) bool
		flag protocol.State
	}{
		{"resizing", (*Mapped).SetResizing, (*Mapped).IsResizing, protocol.StateResizing},
		{"fullscreen", (*Mapped).SetFullscreen, (*Mapped).IsFullscreen, protocol.StateFullscreen},
		{"maximized", (*Mapped).SetMaximized, (*Mapped).IsMaximized, protocol.StateMaximized},
		{"activated", (*Mapped).SetActivated, (*Mapped).IsActivated, protocol.StateActivated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := protocol.NewDisplay()
			m, tabs := newTestStack(d, 3)

			assert.False(t, tt.is(m))
			tt.set(m, true)
			assert.True(t, tt.is(m), "visible before ack")

			for _, tab := range tabs {
				assert.True(t, tab.PendingState().States.Contains(tt.flag), "every tab")
				assert.False(t, tab.CurrentState().States.Contains(tt.flag))
			}

			m.Configure()
			for _, tab := range tabs {
				configures := tab.PendingConfigures()
				require.Len(t, configures, 1)
				require.NoError(t, tab.AckConfigure(configures[0].Serial))
			}
			assert.True(t, tt.is(m))

			tt.set(m, false)
			assert.True(t, tt.is(m), "current state still set")
		})
	}
}

func TestSetTiled(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()

	w := FromWindow(NewWindow(newToplevel(d, toplevelOpts{}), nil))
	w.SetTiled(true)
	assert.True(t, w.IsTiled())
	assert.True(t, w.ActiveWindow().PendingState().States.Contains(protocol.StateTiled))

	s, tabs := newTestStack(d, 2)
	s.SetTiled(true)
	assert.False(t, s.IsTiled())
	for _, tab := range tabs {
		assert.Zero(t, tab.PendingState().States&protocol.StateTiled)
	}

	tabs[1].WithPendingState(func(st *protocol.ToplevelState) {
		st.States.Toggle(protocol.StateTiled, true)
	})
	assert.False(t, s.IsTiled(), "inactive tab")
	tabs[0].WithPendingState(func(st *protocol.ToplevelState) {
		st.States.Toggle(protocol.StateTiled, true)
	})
	assert.True(t, s.IsTiled(), "pending state of the active tab counts")
}

func TestCursorTracking(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	m, tabs := newTestStack(d, 2)
	seat, other := input.NewSeat("seat0"), input.NewSeat("seat1")

	_, ok := m.CursorPosition(seat.ID())
	assert.False(t, ok)

	m.PointerEnter(seat, input.MotionEvent{Location: geom.PointF{X: 5, Y: 30}})
	m.PointerMotion(seat, input.MotionEvent{Location: geom.PointF{X: 6, Y: 40}})
	m.PointerEnter(other, input.MotionEvent{Location: geom.PointF{X: 1, Y: 1}})

	loc, ok := m.CursorPosition(seat.ID())
	require.True(t, ok)
	assert.Equal(t, geom.PointF{X: 6, Y: 40}, loc)

	local, ok := tabs[0].PointerLocation(seat.ID())
	require.True(t, ok, "active tab receives motion")
	assert.Equal(t, geom.PointF{X: 6, Y: 40 - float64(m.HeaderHeight())}, local)
	_, ok = tabs[1].PointerLocation(seat.ID())
	assert.False(t, ok)

	m.PointerButton(seat, input.ButtonEvent{Button: input.ButtonRight, State: input.ButtonPressed})
	m.PointerAxis(seat, input.AxisFrame{Vertical: 1})
	_, ok = m.CursorPosition(seat.ID())
	assert.True(t, ok, "button and axis keep the entry")

	m.PointerLeave(seat, 0, 0)
	_, ok = m.CursorPosition(seat.ID())
	assert.False(t, ok)
	_, ok = m.CursorPosition(other.ID())
	assert.True(t, ok)
	assert.Equal(t, 1, tabs[0].InputLog().Buttons)
	assert.Equal(t, 1, tabs[0].InputLog().Axes)
}

func TestKeyboardGoesToActiveTab(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	m, tabs := newTestStack(d, 3)
	seat := input.NewSeat("seat0")

	m.KeyboardEnter(seat, nil, 1)
	m.Key(seat, input.KeyEvent{Keysym: input.KeyA, State: input.KeyPressed})
	m.Modifiers(seat, input.Modifiers{Ctrl: true}, 2)

	assert.True(t, tabs[0].KeyboardFocused(seat.ID()))
	assert.Equal(t, 1, tabs[0].InputLog().Keys)
	assert.Equal(t, input.KeyA, tabs[0].InputLog().LastKey.Keysym)
	for _, tab := range tabs[1:] {
		assert.False(t, tab.KeyboardFocused(seat.ID()))
		assert.Zero(t, tab.InputLog().Keys)
	}

	m.KeyboardLeave(seat, 3)
	assert.False(t, tabs[0].KeyboardFocused(seat.ID()))
}

func TestTabBarClickActivatesTab(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	m, tabs := newTestStack(d, 2)
	m.SetSize(geom.Size{W: 200, H: 104})
	seat := input.NewSeat("seat0")

	m.PointerEnter(seat, input.MotionEvent{Location: geom.PointF{X: 150, Y: 5}})
	m.PointerButton(seat, input.ButtonEvent{Button: input.ButtonLeft, State: input.ButtonPressed})

	assert.Same(t, tabs[1], m.ActiveWindow())
	assert.Zero(t, tabs[0].InputLog().Buttons, "click on the bar is not forwarded")
	assert.Zero(t, tabs[1].InputLog().Buttons, "click on the bar is not forwarded")

	m.PointerMotion(seat, input.MotionEvent{Location: geom.PointF{X: 10, Y: 50}})
	m.PointerButton(seat, input.ButtonEvent{Button: input.ButtonLeft, State: input.ButtonPressed})
	assert.Equal(t, 1, tabs[1].InputLog().Buttons)
}

func TestTabChangeMovesPointerFocus(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	m, tabs := newTestStack(d, 2)
	m.SetSize(geom.Size{W: 200, H: 104})
	seat := input.NewSeat("seat0")

	m.PointerEnter(seat, input.MotionEvent{Location: geom.PointF{X: 150, Y: 5}})
	_, ok := tabs[0].PointerLocation(seat.ID())
	require.True(t, ok)

	m.PointerButton(seat, input.ButtonEvent{Button: input.ButtonLeft, State: input.ButtonPressed})
	require.Same(t, tabs[1], m.ActiveWindow())
	_, ok = tabs[0].PointerLocation(seat.ID())
	assert.False(t, ok, "old tab gets leave")
	_, ok = tabs[1].PointerLocation(seat.ID())
	assert.True(t, ok, "new tab gets enter")

	m.PointerMotion(seat, input.MotionEvent{Location: geom.PointF{X: 20, Y: 60}})
	m.PointerLeave(seat, 0, 0)
	for i, tab := range tabs {
		_, ok := tab.PointerLocation(seat.ID())
		assert.False(t, ok, "tab %d still has pointer after leave", i)
	}
}

func TestSyncPointer(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	m, tabs := newTestStack(d, 3)
	seat := input.NewSeat("seat0")

	m.PointerEnter(seat, input.MotionEvent{Location: geom.PointF{X: 10, Y: 40}})
	require.True(t, m.HandleFocus(DirectionRight))
	m.SyncPointer(1, 0)

	_, ok := tabs[0].PointerLocation(seat.ID())
	assert.False(t, ok)
	loc, ok := tabs[1].PointerLocation(seat.ID())
	require.True(t, ok)
	assert.Equal(t, geom.PointF{X: 10, Y: 40 - float64(m.HeaderHeight())}, loc)

	stack, _ := m.Stack()
	require.NoError(t, stack.SetActiveIndex(2))
	m.PointerMotion(seat, input.MotionEvent{Location: geom.PointF{X: 12, Y: 42}})
	_, ok = tabs[1].PointerLocation(seat.ID())
	assert.False(t, ok, "motion moves focus to the active tab")
	_, ok = tabs[2].PointerLocation(seat.ID())
	assert.True(t, ok)
}

func TestTabBarReleaseIsDropped(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	m, tabs := newTestStack(d, 2)
	m.SetSize(geom.Size{W: 200, H: 104})
	seat := input.NewSeat("seat0")

	m.PointerEnter(seat, input.MotionEvent{Location: geom.PointF{X: 150, Y: 5}})
	m.PointerButton(seat, input.ButtonEvent{Button: input.ButtonLeft, State: input.ButtonPressed})
	m.PointerMotion(seat, input.MotionEvent{Location: geom.PointF{X: 150, Y: 50}})
	m.PointerButton(seat, input.ButtonEvent{Button: input.ButtonLeft, State: input.ButtonReleased})
	assert.Zero(t, tabs[1].InputLog().Buttons)

	m.PointerButton(seat, input.ButtonEvent{Button: input.ButtonLeft, State: input.ButtonPressed})
	m.PointerButton(seat, input.ButtonEvent{Button: input.ButtonLeft, State: input.ButtonReleased})
	assert.Equal(t, 2, tabs[1].InputLog().Buttons)
}

func TestHasSurface(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	m, tabs := newTestStack(d, 3)

	for _, tab := range tabs {
		assert.True(t, m.HasSurface(tab.Surface(), SurfaceToplevel))
	}
	unrelated := newToplevel(d, toplevelOpts{})
	assert.False(t, m.HasSurface(unrelated.Surface(), SurfaceAll))

	sub := d.CreateSurface()
	nested := d.CreateSurface()
	tabs[0].Surface().AddSubsurface(sub, geom.Point{X: 5, Y: 5})
	sub.AddSubsurface(nested, geom.Point{X: 1, Y: 1})
	assert.False(t, m.HasSurface(nested, SurfaceToplevel))
	assert.True(t, m.HasSurface(nested, SurfaceSubsurface))

	popup := d.CreatePopup(tabs[1].Surface(), d.CreateSurface(), geom.Rect{X: 10, Y: 10, W: 20, H: 20})
	assert.False(t, m.HasSurface(popup.Surface(), SurfaceToplevel|SurfaceSubsurface))
	assert.True(t, m.HasSurface(popup.Surface(), SurfacePopup))
}

func TestSendCloseOnlyClosesActiveTab(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	m, tabs := newTestStack(d, 3)
	stack, ok := m.Stack()
	require.True(t, ok)
	require.NoError(t, stack.SetActiveIndex(1))

	m.SendClose()

	assert.Equal(t, 0, tabs[0].CloseRequests())
	assert.Equal(t, 1, tabs[1].CloseRequests())
	assert.Equal(t, 0, tabs[2].CloseRequests())

	got, _ := collect(m.Windows())
	assert.Equal(t, tabs, got)
}

func TestWindows(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()

	m, tabs := newTestStack(d, 2)
	got, offsets := collect(m.Windows())
	assert.Equal(t, tabs, got)
	hh := decoration.DefaultTheme().Height
	assert.Equal(t, []geom.Point{{Y: hh}, {Y: hh}}, offsets)

	again, _ := collect(m.Windows())
	assert.Equal(t, got, again, "restartable")

	for range m.Windows() {
		break
	}

	w := FromWindow(NewWindow(newToplevel(d, toplevelOpts{}), nil))
	_, offsets = collect(w.Windows())
	assert.Equal(t, []geom.Point{{}}, offsets)
	assert.Equal(t, 1, w.Len())
}

func TestActiveWindowOffset(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	top := newToplevel(d, toplevelOpts{size: geom.Size{W: 100, H: 80}})
	m := FromWindow(NewWindow(top, decoration.NewHeader(decoration.DefaultTheme(), "")))

	assert.Equal(t, geom.Rect{Y: 24, W: 100, H: 80}, m.ActiveWindowOffset())
	assert.Equal(t, geom.Rect{W: 100, H: 104}, m.Geometry())

	sub := d.CreateSurface()
	sub.Attach(image.NewRGBA(image.Rect(0, 0, 50, 50)))
	top.Surface().AddSubsurface(sub, geom.Point{X: 80, Y: 60})
	assert.Equal(t, geom.Rect{Y: 24, W: 130, H: 110}, m.ActiveWindowOffset())
	assert.Equal(t, geom.Rect{W: 130, H: 134}, m.BBox())
}

func TestSetActive(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()

	m, tabs := newTestStack(d, 3)
	assert.False(t, m.SetActive(tabs[0]), "already active")
	assert.True(t, m.SetActive(tabs[2]))
	assert.Same(t, tabs[2], m.ActiveWindow())
	assert.False(t, m.SetActive(newToplevel(d, toplevelOpts{})))

	assert.True(t, m.FocusWindow(tabs[1].Surface()))
	assert.Same(t, tabs[1].Surface(), m.Surface())

	top := newToplevel(d, toplevelOpts{})
	w := FromWindow(NewWindow(top, nil))
	assert.False(t, w.SetActive(top))
	assert.Same(t, top, w.ActiveWindow())
}

func TestHandleFocus(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()

	m, tabs := newTestStack(d, 3)
	stack, _ := m.Stack()
	require.Equal(t, 0, stack.ActiveIndex())

	assert.False(t, m.HandleFocus(DirectionLeft), "first tab")
	assert.True(t, m.HandleFocus(DirectionRight))
	assert.True(t, m.HandleFocus(DirectionRight))
	assert.Same(t, tabs[2], m.ActiveWindow())
	assert.False(t, m.HandleFocus(DirectionRight), "last tab")
	assert.False(t, m.HandleFocus(DirectionUp))
	assert.False(t, m.HandleFocus(DirectionDown))
	assert.Equal(t, 2, stack.Bar().Active())

	w := FromWindow(NewWindow(newToplevel(d, toplevelOpts{}), nil))
	for _, dir := range []Direction{DirectionLeft, DirectionRight, DirectionUp, DirectionDown} {
		assert.False(t, w.HandleFocus(dir))
	}
}

func TestStackMembership(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()

	a := newToplevel(d, toplevelOpts{title: "a"})
	b := newToplevel(d, toplevelOpts{title: "b"})
	c := newToplevel(d, toplevelOpts{title: "c"})
	s := NewStack(decoration.NewTabBar(decoration.DefaultTheme()), a)

	require.NoError(t, s.Add(b))
	assert.ErrorIs(t, s.Add(b), ErrDuplicate)
	require.NoError(t, s.Add(c))
	assert.Equal(t, []string{"a", "b", "c"}, s.Bar().Titles())
	assert.Same(t, c, s.Active())

	require.NoError(t, s.Remove(c))
	assert.Same(t, b, s.Active())
	require.NoError(t, s.Remove(a))
	assert.Same(t, b, s.Active())

	assert.ErrorIs(t, s.Remove(b), ErrLastTab)
	assert.ErrorIs(t, s.Remove(a), ErrNotFound)
	assert.Equal(t, 1, s.Len())
	assert.ErrorIs(t, s.SetActiveIndex(3), ErrNotFound)
}

func TestAuxFields(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	m := FromWindow(NewWindow(newToplevel(d, toplevelOpts{}), nil))

	_, ok := m.TilingNode()
	assert.False(t, ok)
	_, ok = m.LastGeometry()
	assert.False(t, ok)
	_, ok = m.ResizeState()
	assert.False(t, ok)
	assert.False(t, m.Debug())

	node := uuid.New()
	m.SetTilingNode(node)
	m.SetLastGeometry(geom.Rect{X: 1, Y: 2, W: 3, H: 4})
	m.SetResizeState(ResizeState{Edges: EdgeBottom | EdgeRight})

	got, ok := m.TilingNode()
	require.True(t, ok)
	assert.Equal(t, node, got)

	rs, ok := m.ResizeState()
	require.True(t, ok)
	assert.Equal(t, "bottom|right", rs.Edges.String())

	r, ok := m.TakeLastGeometry()
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: 1, Y: 2, W: 3, H: 4}, r)
	_, ok = m.LastGeometry()
	assert.False(t, ok)

	m.ClearTilingNode()
	_, ok = m.TilingNode()
	assert.False(t, ok)
	_, ok = m.ResizeState()
	assert.True(t, ok, "fields are independent")
}

func TestSetSize(t *testing.T) {
	t.Parallel()
	d := protocol.NewDisplay()
	m, tabs := newTestStack(d, 2)

	m.SetSize(geom.Size{W: 300, H: 224})
	for _, tab := range tabs {
		assert.Equal(t, geom.Size{W: 300, H: 200}, tab.PendingState().Size)
	}
	stack, _ := m.Stack()
	assert.Equal(t, 300, stack.Bar().Width())
}

func TestStateGlyphs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", StateGlyphs(0))
	assert.Equal(t, "MA<>", StateGlyphs(protocol.StateActivated|protocol.StateMaximized|protocol.StateTiledLeft|protocol.StateTiledRight))
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	d, ok := ParseDirection("up")
	require.True(t, ok)
	assert.Equal(t, DirectionUp, d)
	_, ok = ParseDirection("sideways")
	assert.False(t, ok)
}
