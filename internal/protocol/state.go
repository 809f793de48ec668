package protocol

import (
	"strings"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
)

// State is the set of toplevel states negotiated with a client.
type State uint16

const (
	StateActivated State = 1 << iota
	StateMaximized
	StateFullscreen
	StateTiledLeft
	StateTiledRight
	StateTiledTop
	StateTiledBottom
	StateResizing
)

// StateTiled is every tiled edge.
const StateTiled = StateTiledLeft | StateTiledRight | StateTiledTop | StateTiledBottom

var stateNames = []struct {
	state State
	name  string
}{
	{StateActivated, "activated"},
	{StateMaximized, "maximized"},
	{StateFullscreen, "fullscreen"},
	{StateTiledLeft, "tiled-left"},
	{StateTiledRight, "tiled-right"},
	{StateTiledTop, "tiled-top"},
	{StateTiledBottom, "tiled-bottom"},
	{StateResizing, "resizing"},
}

func (s State) Contains(flag State) bool { return s&flag == flag }

func (s *State) Set(flag State) { *s |= flag }

func (s *State) Unset(flag State) { *s &^= flag }

// Toggle sets or unsets flag.
func (s *State) Toggle(flag State, on bool) {
	if on {
		s.Set(flag)
	} else {
		s.Unset(flag)
	}
}

// Names lists the set flags in a stable order.
func (s State) Names() []string {
	var names []string
	for _, sn := range stateNames {
		if s.Contains(sn.state) {
			names = append(names, sn.name)
		}
	}
	return names
}

func (s State) String() string {
	if s == 0 {
		return "none"
	}
	return strings.Join(s.Names(), "|")
}

// ToplevelState is one side of the pending/current configuration split.
type ToplevelState struct {
	States State
	// Size is the requested content size. The zero size lets the client pick.
	Size geom.Size
}

// Configure is a configuration sent to the client and not yet acknowledged.
type Configure struct {
	Serial uint32
	State  ToplevelState
}
