package element

import (
	"strings"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
)

// ResizeEdge is the set of edges being dragged.
type ResizeEdge uint8

const (
	EdgeTop ResizeEdge = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight

	EdgeNone ResizeEdge = 0
)

func (e ResizeEdge) String() string {
	if e == EdgeNone {
		return "none"
	}
	var parts []string
	for _, x := range []struct {
		edge ResizeEdge
		name string
	}{{EdgeTop, "top"}, {EdgeBottom, "bottom"}, {EdgeLeft, "left"}, {EdgeRight, "right"}} {
		if e&x.edge != 0 {
			parts = append(parts, x.name)
		}
	}
	return strings.Join(parts, "|")
}

type ResizePhase uint8

const (
	ResizeActive ResizePhase = iota
	// ResizeWaitingForAck waits for the client to acknowledge the final size.
	ResizeWaitingForAck
)

// ResizeState is an interactive resize owned by the floating layout.
type ResizeState struct {
	Phase           ResizePhase
	Edges           ResizeEdge
	InitialGeometry geom.Rect
	InitialPointer  geom.PointF
	Serial          uint32
}
