package x11

import (
	"github.com/ItsNotGoodName/x-stackwm/internal/backend"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/input"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X keycodes are evdev keycodes plus 8.
const evdevOffset = 8

// Keycodes of a QWERTY layout.
var keysyms = map[xproto.Keycode]input.Keysym{
	9:   input.KeyEscape,
	22:  input.KeyBackspace,
	23:  input.KeyTab,
	36:  input.KeyReturn,
	65:  input.KeySpace,
	111: input.KeyUp,
	113: input.KeyLeft,
	114: input.KeyRight,
	116: input.KeyDown,

	24: input.KeyQ, 25: input.KeyW, 26: input.KeyE, 27: input.KeyR, 28: input.KeyT,
	29: input.KeyY, 30: input.KeyU, 31: input.KeyI, 32: input.KeyO, 33: input.KeyP,
	38: input.KeyA, 39: input.KeyS, 40: input.KeyD, 41: input.KeyF, 42: input.KeyG,
	43: input.KeyH, 44: input.KeyJ, 45: input.KeyK, 46: input.KeyL,
	52: input.KeyZ, 53: input.KeyX, 54: input.KeyC, 55: input.KeyV, 56: input.KeyB,
	57: input.KeyN, 58: input.KeyM,
}

func keysym(keycode xproto.Keycode) input.Keysym {
	if sym, ok := keysyms[keycode]; ok {
		return sym
	}
	return input.KeyUnknown
}

func modifiers(state uint16) input.Modifiers {
	return input.Modifiers{
		Shift:    state&xproto.ModMaskShift != 0,
		Ctrl:     state&xproto.ModMaskControl != 0,
		Alt:      state&xproto.ModMask1 != 0,
		Logo:     state&xproto.ModMask4 != 0,
		CapsLock: state&xproto.ModMaskLock != 0,
		NumLock:  state&xproto.ModMask2 != 0,
	}
}

// X core buttons.
const (
	buttonLeft       = 1
	buttonMiddle     = 2
	buttonRight      = 3
	buttonWheelUp    = 4
	buttonWheelDown  = 5
	buttonWheelLeft  = 6
	buttonWheelRight = 7
)

// Scroll distance of one wheel click.
const wheelStep = 15

var buttons = map[xproto.Button]uint32{
	buttonLeft:   input.ButtonLeft,
	buttonMiddle: input.ButtonMiddle,
	buttonRight:  input.ButtonRight,
}

func axis(button xproto.Button, time xproto.Timestamp) (input.AxisFrame, bool) {
	frame := input.AxisFrame{Source: input.AxisSourceWheel, Time: uint32(time)}
	switch button {
	case buttonWheelUp:
		frame.Vertical = -wheelStep
	case buttonWheelDown:
		frame.Vertical = wheelStep
	case buttonWheelLeft:
		frame.Horizontal = -wheelStep
	case buttonWheelRight:
		frame.Horizontal = wheelStep
	default:
		return input.AxisFrame{}, false
	}
	return frame, true
}

func location(x, y int16) geom.PointF {
	return geom.PointF{X: float64(x), Y: float64(y)}
}

// translator turns X events of one window into backend events.
type translator struct {
	wid      xproto.Window
	wmDelete xproto.Atom
	size     geom.Size
}

func (t *translator) translate(ev xgb.Event) (backend.Event, bool) {
	switch ev := ev.(type) {
	case xproto.KeyPressEvent:
		return t.key(ev.Detail, ev.State, ev.Time, input.KeyPressed), true
	case xproto.KeyReleaseEvent:
		return t.key(ev.Detail, ev.State, ev.Time, input.KeyReleased), true
	case xproto.MotionNotifyEvent:
		return backend.EventMotion{
			Location: location(ev.EventX, ev.EventY),
			Mods:     modifiers(ev.State),
			Time:     uint32(ev.Time),
		}, true
	case xproto.ButtonPressEvent:
		if frame, ok := axis(ev.Detail, ev.Time); ok {
			return backend.EventAxis{Frame: frame, Mods: modifiers(ev.State)}, true
		}
		return t.button(ev.Detail, ev.State, ev.Time, ev.EventX, ev.EventY, input.ButtonPressed)
	case xproto.ButtonReleaseEvent:
		return t.button(ev.Detail, ev.State, ev.Time, ev.EventX, ev.EventY, input.ButtonReleased)
	case xproto.ConfigureNotifyEvent:
		if ev.Window != t.wid {
			return nil, false
		}
		size := geom.Size{W: int(ev.Width), H: int(ev.Height)}
		if size == t.size {
			return nil, false
		}
		t.size = size
		return backend.EventResize{Size: size}, true
	case xproto.ClientMessageEvent:
		if ev.Format == 32 && xproto.Atom(ev.Data.Data32[0]) == t.wmDelete {
			return backend.EventClose{}, true
		}
	case xproto.DestroyNotifyEvent:
		if ev.Window == t.wid {
			return backend.EventClose{}, true
		}
	}
	return nil, false
}

func (t *translator) key(detail xproto.Keycode, state uint16, time xproto.Timestamp, keyState input.KeyState) backend.Event {
	return backend.EventKey{
		Keycode: uint32(detail) - evdevOffset,
		Keysym:  keysym(detail),
		State:   keyState,
		Mods:    modifiers(state),
		Time:    uint32(time),
	}
}

func (t *translator) button(detail xproto.Button, state uint16, time xproto.Timestamp, x, y int16, buttonState input.ButtonState) (backend.Event, bool) {
	button, ok := buttons[detail]
	if !ok {
		return nil, false
	}
	return backend.EventButton{
		Button:   button,
		State:    buttonState,
		Location: location(x, y),
		Mods:     modifiers(state),
		Time:     uint32(time),
	}, true
}
