// Package input defines seats, input events and the focus target contracts
// used by input dispatch.
package input

import (
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/google/uuid"
)

// SeatID identifies a seat for the lifetime of the process.
type SeatID uuid.UUID

func (id SeatID) String() string { return uuid.UUID(id).String() }

// Seat is an independent keyboard and pointer focus group.
type Seat struct {
	id   SeatID
	name string
}

func NewSeat(name string) *Seat {
	return &Seat{
		id:   SeatID(uuid.New()),
		name: name,
	}
}

func (s *Seat) ID() SeatID { return s.id }

func (s *Seat) Name() string { return s.name }

func (s *Seat) String() string { return "seat(" + s.name + ")" }

type KeyState uint8

const (
	KeyReleased KeyState = iota
	KeyPressed
)

type ButtonState uint8

const (
	ButtonReleased ButtonState = iota
	ButtonPressed
)

// Linux evdev button codes.
const (
	ButtonLeft   uint32 = 0x110
	ButtonRight  uint32 = 0x111
	ButtonMiddle uint32 = 0x112
)

// Keysym is a layout independent key symbol.
type Keysym uint32

const (
	KeyUnknown Keysym = iota
	KeyEscape
	KeyReturn
	KeySpace
	KeyTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyBackspace
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

type Modifiers struct {
	Shift    bool
	Ctrl     bool
	Alt      bool
	Logo     bool
	CapsLock bool
	NumLock  bool
}

type KeyEvent struct {
	Keycode uint32
	Keysym  Keysym
	State   KeyState
	Serial  uint32
	Time    uint32
}

// MotionEvent carries a pointer location relative to the target's origin.
type MotionEvent struct {
	Location geom.PointF
	Serial   uint32
	Time     uint32
}

type ButtonEvent struct {
	Button uint32
	State  ButtonState
	Serial uint32
	Time   uint32
}

type AxisSource uint8

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
)

type AxisFrame struct {
	Source     AxisSource
	Horizontal float64
	Vertical   float64
	Time       uint32
}

// KeyboardTarget receives keyboard focus and key events.
type KeyboardTarget interface {
	KeyboardEnter(seat *Seat, keys []Keysym, serial uint32)
	KeyboardLeave(seat *Seat, serial uint32)
	Key(seat *Seat, ev KeyEvent)
	Modifiers(seat *Seat, mods Modifiers, serial uint32)
}

// PointerTarget receives pointer focus and pointer events.
type PointerTarget interface {
	PointerEnter(seat *Seat, ev MotionEvent)
	PointerMotion(seat *Seat, ev MotionEvent)
	PointerButton(seat *Seat, ev ButtonEvent)
	PointerAxis(seat *Seat, frame AxisFrame)
	PointerLeave(seat *Seat, serial, time uint32)
}
