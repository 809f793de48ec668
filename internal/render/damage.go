package render

import (
	"fmt"
	"image/color"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
)

type trackedElement struct {
	commit   Commit
	geometry geom.Rect
}

// DamageTracker renders element lists into frames of one output, redrawing
// only what changed since the previous call.
type DamageTracker struct {
	size  geom.Size
	scale geom.Scale
	last  map[ID]trackedElement
}

func NewDamageTracker(size geom.Size, scale geom.Scale) *DamageTracker {
	return &DamageTracker{
		size:  size,
		scale: scale,
	}
}

func (dt *DamageTracker) Scale() geom.Scale { return dt.scale }

// Reset makes the next frame a full redraw.
func (dt *DamageTracker) Reset() { dt.last = nil }

// Resize changes the output size and resets the tracker.
func (dt *DamageTracker) Resize(size geom.Size, scale geom.Scale) {
	dt.size = size
	dt.scale = scale
	dt.Reset()
}

// RenderOutput draws elements into frame and returns the damaged output
// regions. Nothing is drawn when nothing changed.
func (dt *DamageTracker) RenderOutput(frame Frame, elements []Element, clear color.Color) ([]geom.Rect, error) {
	output := geom.RectFrom(geom.Point{}, dt.size)
	current := make(map[ID]trackedElement, len(elements))

	var damage []geom.Rect
	addDamage := func(r geom.Rect) {
		if r, ok := r.Intersect(output); ok {
			damage = append(damage, r)
		}
	}

	for _, e := range elements {
		geo := e.Geometry(dt.scale)
		current[e.ID()] = trackedElement{commit: e.CurrentCommit(), geometry: geo}

		prev, ok := dt.last[e.ID()]
		if dt.last == nil || !ok || prev.geometry != geo {
			if ok {
				addDamage(prev.geometry)
			}
			addDamage(geo)
			continue
		}

		for _, d := range e.DamageSince(dt.scale, &prev.commit) {
			addDamage(d.Translate(geo.Loc()))
		}
	}
	for id, prev := range dt.last {
		if _, ok := current[id]; !ok {
			addDamage(prev.geometry)
		}
	}
	dt.last = current

	if len(damage) == 0 {
		return nil, nil
	}

	if err := frame.Clear(clear, damage...); err != nil {
		return nil, fmt.Errorf("clear: %w", err)
	}

	// Elements hidden behind an opaque element in front of them are skipped.
	visible := make([]bool, len(elements))
	var opaque []geom.Rect
	for i, e := range elements {
		geo := e.Geometry(dt.scale)
		visible[i] = !covered(geo, opaque)
		for _, r := range e.OpaqueRegions(dt.scale) {
			opaque = append(opaque, r.Translate(geo.Loc()))
		}
	}

	for i := len(elements) - 1; i >= 0; i-- {
		if !visible[i] {
			continue
		}
		e := elements[i]
		geo := e.Geometry(dt.scale)

		var local []geom.Rect
		for _, d := range damage {
			if d, ok := d.Intersect(geo); ok {
				local = append(local, d.Translate(geom.Point{X: -geo.X, Y: -geo.Y}))
			}
		}
		if len(local) == 0 {
			continue
		}

		if err := e.Draw(frame, e.Src(), geo, local); err != nil {
			return damage, fmt.Errorf("draw element %s: %w", e.ID(), err)
		}
	}

	return damage, nil
}

func covered(r geom.Rect, opaque []geom.Rect) bool {
	for _, o := range opaque {
		if i, ok := r.Intersect(o); ok && i == r {
			return true
		}
	}
	return false
}
