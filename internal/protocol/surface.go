package protocol

import (
	"image"
	"sync"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/google/uuid"
)

const maxDamageHistory = 16

// Damage is the region a commit changed, in buffer coordinates.
type Damage struct {
	Commit uint64
	Rects  []geom.Rect
}

// Attributes are the client declared properties attached to a surface.
type Attributes struct {
	Title   string
	AppID   string
	MinSize geom.Size
	// MaxSize of zero on an axis means unconstrained on that axis.
	MaxSize geom.Size
}

type Surface struct {
	id       uuid.UUID
	parent   *Surface
	offset   geom.Point
	children []*Surface
	buffer   image.Image
	commit   uint64
	damage   []Damage
	alive    bool

	attrsMu sync.Mutex
	attrs   Attributes
}

func newSurface() *Surface {
	return &Surface{
		id:    uuid.New(),
		alive: true,
	}
}

func (s *Surface) ID() uuid.UUID { return s.id }

func (s *Surface) Parent() *Surface { return s.parent }

// Offset is the position relative to the parent surface.
func (s *Surface) Offset() geom.Point { return s.offset }

func (s *Surface) Alive() bool { return s.alive }

// AddSubsurface places child above s at offset.
func (s *Surface) AddSubsurface(child *Surface, offset geom.Point) {
	if child.parent != nil {
		child.parent.RemoveSubsurface(child)
	}
	child.parent = s
	child.offset = offset
	s.children = append(s.children, child)
}

func (s *Surface) RemoveSubsurface(child *Surface) {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Attach commits a new buffer. Without damage rectangles the whole buffer is
// damaged.
func (s *Surface) Attach(buffer image.Image, damage ...geom.Rect) {
	s.buffer = buffer
	s.commit++

	if len(damage) == 0 && buffer != nil {
		damage = []geom.Rect{geom.RectFrom(geom.Point{}, s.Size())}
	}
	s.damage = append(s.damage, Damage{Commit: s.commit, Rects: damage})
	if len(s.damage) > maxDamageHistory {
		s.damage = s.damage[len(s.damage)-maxDamageHistory:]
	}
}

func (s *Surface) Buffer() image.Image { return s.buffer }

// CommitCounter increases on every Attach.
func (s *Surface) CommitCounter() uint64 { return s.commit }

// Size is the size of the attached buffer.
func (s *Surface) Size() geom.Size {
	if s.buffer == nil {
		return geom.Size{}
	}
	b := s.buffer.Bounds()
	return geom.Size{W: b.Dx(), H: b.Dy()}
}

// DamageSince returns the buffer damage committed after commit. A nil commit,
// or one older than the kept history, damages the whole buffer.
func (s *Surface) DamageSince(commit *uint64) []geom.Rect {
	full := []geom.Rect{geom.RectFrom(geom.Point{}, s.Size())}
	if commit == nil {
		return full
	}
	if *commit == s.commit {
		return nil
	}
	if len(s.damage) == 0 || s.damage[0].Commit > *commit+1 || *commit > s.commit {
		return full
	}

	var rects []geom.Rect
	for _, d := range s.damage {
		if d.Commit > *commit {
			rects = append(rects, d.Rects...)
		}
	}
	return rects
}

// WithAttributes gives fn exclusive access to the surface attributes.
func (s *Surface) WithAttributes(fn func(attrs *Attributes)) {
	s.attrsMu.Lock()
	defer s.attrsMu.Unlock()
	fn(&s.attrs)
}

func (s *Surface) Attributes() Attributes {
	s.attrsMu.Lock()
	defer s.attrsMu.Unlock()
	return s.attrs
}

func (s *Surface) destroy() {
	s.alive = false
	for _, c := range s.children {
		c.destroy()
	}
}

type TraversalAction uint8

const (
	DoChildren TraversalAction = iota
	SkipChildren
	Stop
)

// WalkDown visits root and its subsurfaces depth first, parents before
// children. loc is the surface position relative to root. It returns false if
// fn stopped the walk early.
func WalkDown(root *Surface, fn func(s *Surface, loc geom.Point) TraversalAction) bool {
	return walkDown(root, geom.Point{}, fn)
}

func walkDown(s *Surface, loc geom.Point, fn func(*Surface, geom.Point) TraversalAction) bool {
	switch fn(s, loc) {
	case Stop:
		return false
	case SkipChildren:
		return true
	}

	for _, child := range s.children {
		if !walkDown(child, loc.Add(child.offset), fn) {
			return false
		}
	}
	return true
}
