package element

import (
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
)

// SurfaceKind selects which surfaces HasSurface looks at.
type SurfaceKind uint8

const (
	SurfaceToplevel SurfaceKind = 1 << iota
	SurfaceSubsurface
	SurfacePopup

	SurfaceAll = SurfaceToplevel | SurfaceSubsurface | SurfacePopup
)

// HasSurface reports whether surface belongs to one of the toplevels.
func (m *Mapped) HasSurface(surface *protocol.Surface, kind SurfaceKind) bool {
	for t := range m.v.toplevels() {
		root := t.Surface()
		if kind&SurfaceToplevel != 0 && root == surface {
			return true
		}
		if kind&SurfaceSubsurface != 0 && inTree(root, surface) {
			return true
		}
		if kind&SurfacePopup != 0 {
			for p := range t.Popups() {
				if inTree(p.Surface(), surface) {
					return true
				}
			}
		}
	}
	return false
}

func inTree(root, surface *protocol.Surface) bool {
	found := false
	protocol.WalkDown(root, func(s *protocol.Surface, _ geom.Point) protocol.TraversalAction {
		if s == surface {
			found = true
			return protocol.Stop
		}
		return protocol.DoChildren
	})
	return found
}
