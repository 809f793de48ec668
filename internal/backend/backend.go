// Package backend defines what the compositor needs from the thing it runs
// on: an output to present frames to and a source of input events.
package backend

import (
	"errors"
	"image"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/input"
)

var ErrClosed = errors.New("backend closed")

// Event is one of the Event* types.
type Event interface{}

type EventKey struct {
	Keycode uint32
	Keysym  input.Keysym
	State   input.KeyState
	// Mods are the modifiers held before the key changed.
	Mods input.Modifiers
	Time uint32
}

type EventMotion struct {
	Location geom.PointF
	Mods     input.Modifiers
	Time     uint32
}

type EventButton struct {
	Button   uint32
	State    input.ButtonState
	Location geom.PointF
	Mods     input.Modifiers
	Time     uint32
}

type EventAxis struct {
	Frame input.AxisFrame
	Mods  input.Modifiers
}

type EventResize struct {
	Size geom.Size
}

// EventClose is sent when the output goes away.
type EventClose struct{}

type Backend interface {
	Size() geom.Size
	// Events is closed when the backend stops.
	Events() <-chan Event
	// Present shows the damaged regions of img.
	Present(img *image.RGBA, damage []geom.Rect) error
	Close() error
}
