package protocol

import (
	"errors"
	"iter"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/input"
	"github.com/google/uuid"
)

var ErrUnknownSerial = errors.New("unknown configure serial")

// InputLog counts the input a toplevel has received.
type InputLog struct {
	Keys      int
	Modifiers int
	Buttons   int
	Axes      int
	LastKey   input.KeyEvent
}

// Toplevel is the protocol role of one application window.
type Toplevel struct {
	display *Display
	surface *Surface
	client  uuid.UUID

	current    ToplevelState
	pending    ToplevelState
	configures []Configure

	geometry *geom.Rect
	alive    bool

	closeRequests int
	onClose       func(t *Toplevel)

	keyboard map[input.SeatID]bool
	pointer  map[input.SeatID]geom.PointF
	inputLog InputLog
}

func newToplevel(d *Display, surface *Surface, client uuid.UUID) *Toplevel {
	return &Toplevel{
		display:  d,
		surface:  surface,
		client:   client,
		alive:    true,
		keyboard: make(map[input.SeatID]bool),
		pointer:  make(map[input.SeatID]geom.PointF),
	}
}

// Surface is the content surface of the toplevel.
func (t *Toplevel) Surface() *Surface { return t.surface }

func (t *Toplevel) Client() uuid.UUID { return t.client }

// SameClient reports whether both toplevels belong to the same client.
func (t *Toplevel) SameClient(o *Toplevel) bool { return t.client == o.client }

func (t *Toplevel) Alive() bool { return t.alive && t.surface.alive }

// Destroy is called by the client when it unmaps the window.
func (t *Toplevel) Destroy() {
	t.alive = false
	t.display.popups.DismissAll(t.surface)
	t.surface.destroy()
}

// CurrentState is the last state acknowledged by the client.
func (t *Toplevel) CurrentState() ToplevelState { return t.current }

// PendingState is the state the compositor will send with the next configure.
func (t *Toplevel) PendingState() ToplevelState { return t.pending }

// WithPendingState lets fn mutate the pending state.
func (t *Toplevel) WithPendingState(fn func(state *ToplevelState)) {
	fn(&t.pending)
}

// SendConfigure sends the pending state to the client and returns its serial.
func (t *Toplevel) SendConfigure() uint32 {
	c := Configure{
		Serial: t.display.NextSerial(),
		State:  t.pending,
	}
	t.configures = append(t.configures, c)
	return c.Serial
}

// SendPendingConfigure sends a configure only if the pending state differs
// from the last state sent or acknowledged.
func (t *Toplevel) SendPendingConfigure() (uint32, bool) {
	last := t.current
	if n := len(t.configures); n > 0 {
		last = t.configures[n-1].State
	}
	if last == t.pending {
		return 0, false
	}
	return t.SendConfigure(), true
}

// PendingConfigures lists configures sent and not yet acknowledged, oldest
// first.
func (t *Toplevel) PendingConfigures() []Configure {
	return append([]Configure(nil), t.configures...)
}

// AckConfigure makes the configure with serial current. Older configures are
// dropped.
func (t *Toplevel) AckConfigure(serial uint32) error {
	for i, c := range t.configures {
		if c.Serial == serial {
			t.current = c.State
			t.configures = t.configures[i+1:]
			return nil
		}
	}
	return ErrUnknownSerial
}

// SendClose asks the client to close the window. It does not wait.
func (t *Toplevel) SendClose() {
	t.closeRequests++
	if t.onClose != nil {
		t.onClose(t)
	}
}

// CloseRequests counts SendClose calls.
func (t *Toplevel) CloseRequests() int { return t.closeRequests }

// OnClose sets the client side handler of close requests.
func (t *Toplevel) OnClose(fn func(t *Toplevel)) { t.onClose = fn }

// SetGeometry sets the window geometry inside the surface. Clients use it to
// exclude shadows.
func (t *Toplevel) SetGeometry(r geom.Rect) { t.geometry = &r }

// Geometry is the window geometry, or the surface bounds when the client did
// not set one.
func (t *Toplevel) Geometry() geom.Rect {
	if t.geometry != nil {
		return *t.geometry
	}
	return geom.RectFrom(geom.Point{}, t.surface.Size())
}

func (t *Toplevel) Attributes() Attributes { return t.surface.Attributes() }

// Popups yields the popups of this toplevel with their location relative to
// the surface.
func (t *Toplevel) Popups() iter.Seq2[*Popup, geom.Point] {
	return t.display.popups.PopupsFor(t.surface)
}

func (t *Toplevel) KeyboardEnter(seat *input.Seat, keys []input.Keysym, serial uint32) {
	t.keyboard[seat.ID()] = true
}

func (t *Toplevel) KeyboardLeave(seat *input.Seat, serial uint32) {
	delete(t.keyboard, seat.ID())
}

func (t *Toplevel) Key(seat *input.Seat, ev input.KeyEvent) {
	t.inputLog.Keys++
	t.inputLog.LastKey = ev
}

func (t *Toplevel) Modifiers(seat *input.Seat, mods input.Modifiers, serial uint32) {
	t.inputLog.Modifiers++
}

func (t *Toplevel) PointerEnter(seat *input.Seat, ev input.MotionEvent) {
	t.pointer[seat.ID()] = ev.Location
}

func (t *Toplevel) PointerMotion(seat *input.Seat, ev input.MotionEvent) {
	t.pointer[seat.ID()] = ev.Location
}

func (t *Toplevel) PointerButton(seat *input.Seat, ev input.ButtonEvent) {
	t.inputLog.Buttons++
}

func (t *Toplevel) PointerAxis(seat *input.Seat, frame input.AxisFrame) {
	t.inputLog.Axes++
}

func (t *Toplevel) PointerLeave(seat *input.Seat, serial, time uint32) {
	delete(t.pointer, seat.ID())
}

// KeyboardFocused reports whether seat's keyboard focus is on the toplevel.
func (t *Toplevel) KeyboardFocused(seat input.SeatID) bool { return t.keyboard[seat] }

// PointerLocation is the last surface local pointer location of seat.
func (t *Toplevel) PointerLocation(seat input.SeatID) (geom.PointF, bool) {
	loc, ok := t.pointer[seat]
	return loc, ok
}

func (t *Toplevel) InputLog() InputLog { return t.inputLog }
