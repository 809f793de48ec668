package render

import (
	"image/color"
	"math"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
)

// SolidElement is a filled rectangle.
type SolidElement struct {
	id       ID
	commit   Commit
	geometry geom.Rect
	color    color.RGBA
}

// NewSolidElement creates a solid element covering the physical rectangle
// geometry.
func NewSolidElement(id ID, commit Commit, geometry geom.Rect, c color.RGBA) *SolidElement {
	return &SolidElement{
		id:       id,
		commit:   commit,
		geometry: geometry,
		color:    c,
	}
}

func (e *SolidElement) ID() ID { return e.id }

func (e *SolidElement) CurrentCommit() Commit { return e.commit }

func (e *SolidElement) Color() color.RGBA { return e.color }

func (e *SolidElement) Src() geom.RectF {
	return geom.RectF{W: float64(e.geometry.W), H: float64(e.geometry.H)}
}

func (e *SolidElement) Geometry(scale geom.Scale) geom.Rect { return e.geometry }

func (e *SolidElement) Location(scale geom.Scale) geom.Point { return e.geometry.Loc() }

func (e *SolidElement) Transform() geom.Transform { return geom.TransformNormal }

func (e *SolidElement) DamageSince(scale geom.Scale, commit *Commit) []geom.Rect {
	if commit != nil && *commit == e.commit {
		return nil
	}
	return []geom.Rect{geom.RectFrom(geom.Point{}, e.geometry.Size())}
}

func (e *SolidElement) OpaqueRegions(scale geom.Scale) []geom.Rect {
	if e.color.A != 0xff {
		return nil
	}
	return []geom.Rect{geom.RectFrom(geom.Point{}, e.geometry.Size())}
}

func (e *SolidElement) Draw(frame Frame, src geom.RectF, dst geom.Rect, damage []geom.Rect) error {
	return frame.DrawSolid(dst, damage, e.color)
}

// DamageFunc returns buffer damage committed after commit.
type DamageFunc func(commit *Commit) []geom.Rect

type TextureOptions struct {
	// Src defaults to the whole texture.
	Src *geom.RectF
	// Size is the physical destination size. It defaults to the transformed
	// source size.
	Size      *geom.Size
	Transform geom.Transform
	// Alpha defaults to 1.
	Alpha  *float32
	Opaque bool
	Damage DamageFunc
}

// TextureElement draws an imported texture.
type TextureElement struct {
	id        ID
	commit    Commit
	texture   Texture
	location  geom.Point
	src       geom.RectF
	size      geom.Size
	transform geom.Transform
	alpha     float32
	opaque    bool
	damage    DamageFunc
}

// NewTextureElement creates an element drawing tex at the physical location.
func NewTextureElement(id ID, commit Commit, tex Texture, location geom.Point, opts TextureOptions) *TextureElement {
	texSize := tex.Size()
	src := geom.RectF{W: float64(texSize.W), H: float64(texSize.H)}
	if opts.Src != nil {
		src = *opts.Src
	}

	size := opts.Transform.TransformSize(geom.Size{W: int(math.Round(src.W)), H: int(math.Round(src.H))})
	if opts.Size != nil {
		size = *opts.Size
	}

	alpha := float32(1)
	if opts.Alpha != nil {
		alpha = *opts.Alpha
	}

	return &TextureElement{
		id:        id,
		commit:    commit,
		texture:   tex,
		location:  location,
		src:       src,
		size:      size,
		transform: opts.Transform,
		alpha:     alpha,
		opaque:    opts.Opaque,
		damage:    opts.Damage,
	}
}

func (e *TextureElement) ID() ID { return e.id }

func (e *TextureElement) CurrentCommit() Commit { return e.commit }

func (e *TextureElement) Texture() Texture { return e.texture }

func (e *TextureElement) Alpha() float32 { return e.alpha }

func (e *TextureElement) Src() geom.RectF { return e.src }

func (e *TextureElement) Geometry(scale geom.Scale) geom.Rect {
	return geom.RectFrom(e.location, e.size)
}

func (e *TextureElement) Location(scale geom.Scale) geom.Point { return e.location }

func (e *TextureElement) Transform() geom.Transform { return e.transform }

func (e *TextureElement) DamageSince(scale geom.Scale, commit *Commit) []geom.Rect {
	if commit != nil && *commit == e.commit {
		return nil
	}

	full := []geom.Rect{geom.RectFrom(geom.Point{}, e.size)}
	if e.damage == nil || e.transform != geom.TransformNormal || e.src.Empty() {
		return full
	}

	sx, sy := float64(e.size.W)/e.src.W, float64(e.size.H)/e.src.H
	var out []geom.Rect
	for _, r := range e.damage(commit) {
		x0 := math.Floor((float64(r.X) - e.src.X) * sx)
		y0 := math.Floor((float64(r.Y) - e.src.Y) * sy)
		x1 := math.Ceil((float64(r.Right()) - e.src.X) * sx)
		y1 := math.Ceil((float64(r.Bottom()) - e.src.Y) * sy)
		d := geom.Rect{X: int(x0), Y: int(y0), W: int(x1 - x0), H: int(y1 - y0)}
		if d, ok := d.Intersect(full[0]); ok {
			out = append(out, d)
		}
	}
	return out
}

func (e *TextureElement) OpaqueRegions(scale geom.Scale) []geom.Rect {
	if !e.opaque || e.alpha < 1 {
		return nil
	}
	return []geom.Rect{geom.RectFrom(geom.Point{}, e.size)}
}

func (e *TextureElement) Draw(frame Frame, src geom.RectF, dst geom.Rect, damage []geom.Rect) error {
	return frame.DrawTexture(e.texture, src, dst, damage, e.transform, e.alpha)
}
