package shell

import (
	"fmt"

	"github.com/ItsNotGoodName/x-stackwm/internal/element"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
)

// Elements returns what to draw, front to back, in physical coordinates.
func (s *Shell) Elements(r render.Renderer) ([]render.Element, error) {
	var out []render.Element
	for _, m := range s.stacking() {
		geo, ok := s.geometry(m)
		if !ok {
			continue
		}
		elements, err := m.RenderElements(r, geo.Loc().ToPhysical(s.scale), s.scale, 1)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", m.ID(), err)
		}
		out = append(out, element.AsElements(elements)...)
	}
	return out, nil
}

// Render draws the windows into frame. It returns the damage, nil when
// nothing changed.
func (s *Shell) Render(r render.Renderer, frame render.Frame, dt *render.DamageTracker) ([]geom.Rect, error) {
	elements, err := s.Elements(r)
	if err != nil {
		return nil, err
	}
	return dt.RenderOutput(frame, elements, s.opts.Background)
}

// NewDamageTracker returns a damage tracker for the output.
func (s *Shell) NewDamageTracker() *render.DamageTracker {
	return render.NewDamageTracker(s.output.Size().ToPhysical(s.scale), s.scale)
}
