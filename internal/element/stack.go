package element

import (
	"errors"
	"iter"
	"slices"

	"github.com/ItsNotGoodName/x-stackwm/internal/decoration"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
)

var (
	ErrLastTab   = errors.New("cannot remove the last tab of a stack")
	ErrNotFound  = errors.New("window not found")
	ErrDuplicate = errors.New("window already in stack")
)

// Stack is a non-empty group of toplevels sharing one tab bar. Exactly one tab
// is active.
type Stack struct {
	tabs   []*protocol.Toplevel
	active int
	bar    *decoration.TabBar
}

// NewStack creates a stack with first as the active tab.
func NewStack(bar *decoration.TabBar, first *protocol.Toplevel, rest ...*protocol.Toplevel) *Stack {
	s := &Stack{
		tabs: append([]*protocol.Toplevel{first}, rest...),
		bar:  bar,
	}
	s.syncBar()
	return s
}

func (s *Stack) Bar() *decoration.TabBar { return s.bar }

func (s *Stack) Len() int { return len(s.tabs) }

func (s *Stack) Tabs() []*protocol.Toplevel { return slices.Clone(s.tabs) }

func (s *Stack) Active() *protocol.Toplevel { return s.tabs[s.active] }

func (s *Stack) ActiveIndex() int { return s.active }

func (s *Stack) Index(t *protocol.Toplevel) int { return slices.Index(s.tabs, t) }

// Add appends t after the active tab and makes it active.
func (s *Stack) Add(t *protocol.Toplevel) error {
	if slices.Contains(s.tabs, t) {
		return ErrDuplicate
	}
	s.active++
	s.tabs = slices.Insert(s.tabs, s.active, t)
	s.syncBar()
	return nil
}

// Remove takes t out of the stack. The last tab cannot be removed, the caller
// replaces the stack with a window instead.
func (s *Stack) Remove(t *protocol.Toplevel) error {
	idx := slices.Index(s.tabs, t)
	if idx == -1 {
		return ErrNotFound
	}
	if len(s.tabs) == 1 {
		return ErrLastTab
	}

	s.tabs = slices.Delete(s.tabs, idx, idx+1)
	if s.active > idx || s.active == len(s.tabs) {
		s.active--
	}
	s.syncBar()
	return nil
}

// SetActiveIndex activates tab i.
func (s *Stack) SetActiveIndex(i int) error {
	if i < 0 || i >= len(s.tabs) {
		return ErrNotFound
	}
	s.active = i
	s.syncBar()
	return nil
}

func (s *Stack) syncBar() {
	if s.bar == nil {
		return
	}
	titles := make([]string, len(s.tabs))
	for i, t := range s.tabs {
		titles[i] = t.Attributes().Title
	}
	s.bar.SetTabs(titles, s.active)
}

func (s *Stack) kind() Kind { return KindStack }

func (s *Stack) toplevels() iter.Seq[*protocol.Toplevel] {
	return func(yield func(*protocol.Toplevel) bool) {
		for _, t := range s.tabs {
			if !yield(t) {
				return
			}
		}
	}
}

func (s *Stack) activeWindow() *protocol.Toplevel { return s.tabs[s.active] }

func (s *Stack) headerHeight() int {
	if s.bar == nil {
		return 0
	}
	return s.bar.Height()
}

func (s *Stack) setActive(t *protocol.Toplevel) bool {
	idx := slices.Index(s.tabs, t)
	if idx == -1 || idx == s.active {
		return false
	}
	s.active = idx
	s.syncBar()
	return true
}

// focus moves between tabs. It stops at either end so the caller can move
// focus past the stack.
func (s *Stack) focus(dir Direction) bool {
	switch dir {
	case DirectionLeft:
		if s.active == 0 {
			return false
		}
		s.active--
	case DirectionRight:
		if s.active == len(s.tabs)-1 {
			return false
		}
		s.active++
	default:
		return false
	}
	s.syncBar()
	return true
}

// Tab bars replace tiled hints on stacks.
func (s *Stack) setTiled(tiled bool) {}

func (s *Stack) minSize() geom.Size {
	size := s.tabs[0].Attributes().MinSize
	for _, t := range s.tabs[1:] {
		size = size.Max(t.Attributes().MinSize)
	}
	return size
}

// maxSize ignores axes a tab leaves unconstrained and never goes below
// minSize.
func (s *Stack) maxSize() geom.Size {
	var size geom.Size
	for _, t := range s.tabs {
		m := t.Attributes().MaxSize
		if m.W != 0 && (size.W == 0 || m.W < size.W) {
			size.W = m.W
		}
		if m.H != 0 && (size.H == 0 || m.H < size.H) {
			size.H = m.H
		}
	}
	return size.Max(s.minSize())
}

func (s *Stack) decorate(width int, focused bool) {
	if s.bar == nil {
		return
	}
	s.syncBar()
	s.bar.SetWidth(width)
	s.bar.SetFocused(focused)
}

func (s *Stack) headerElements(r render.Renderer, loc geom.Point, scale geom.Scale) ([]render.Element, error) {
	if s.bar == nil {
		return nil, nil
	}
	return s.bar.RenderElements(r, loc, scale)
}

// headerClick activates the tab under x.
func (s *Stack) headerClick(x float64) bool {
	if s.bar == nil {
		return false
	}
	i, ok := s.bar.TabAt(x)
	if !ok {
		return false
	}
	return s.setActive(s.tabs[i])
}
