// Package multi renders with one primary soft adapter and copies finished
// frames to the other adapters.
package multi

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
	"github.com/ItsNotGoodName/x-stackwm/internal/render/soft"
)

var ErrUnknownAdapter = errors.New("unknown adapter")

// Texture is a texture imported through the multi renderer.
type Texture struct {
	owner *Renderer
	inner *soft.Texture
}

func (t *Texture) Size() geom.Size { return t.inner.Size() }

type Renderer struct {
	id       string
	primary  *soft.Renderer
	adapters map[string]*soft.Renderer
}

// New creates a multi renderer. The primary adapter does all drawing.
func New(id string, primary *soft.Renderer, others ...*soft.Renderer) *Renderer {
	adapters := map[string]*soft.Renderer{primary.ID(): primary}
	for _, o := range others {
		adapters[o.ID()] = o
	}
	return &Renderer{
		id:       id,
		primary:  primary,
		adapters: adapters,
	}
}

func (r *Renderer) ID() string { return r.id }

func (r *Renderer) Primary() *soft.Renderer { return r.primary }

func (r *Renderer) Adapter(id string) (*soft.Renderer, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

func (r *Renderer) ImportImage(img image.Image) (render.Texture, error) {
	tex, err := r.primary.ImportImage(img)
	if err != nil {
		return nil, render.Wrap(r.id, "import", err)
	}
	return &Texture{owner: r, inner: tex.(*soft.Texture)}, nil
}

// Render starts a frame whose result ends up on the target adapter.
func (r *Renderer) Render(target string) (*Frame, error) {
	adapter, ok := r.adapters[target]
	if !ok {
		return nil, render.Wrap(r.id, "render", fmt.Errorf("%w: %s", ErrUnknownAdapter, target))
	}
	if adapter.Size() != r.primary.Size() && adapter != r.primary {
		r.primary.Resize(adapter.Size())
	}

	primary, err := r.primary.Render()
	if err != nil {
		return nil, render.Wrap(r.id, "render", err)
	}
	return &Frame{renderer: r, primary: primary, target: adapter}, nil
}

type Frame struct {
	renderer *Renderer
	primary  *soft.Frame
	target   *soft.Renderer
}

func (f *Frame) Renderer() *Renderer { return f.renderer }

// Primary is the frame of the adapter that does the drawing.
func (f *Frame) Primary() *soft.Frame { return f.primary }

func (f *Frame) Size() geom.Size { return f.target.Size() }

func (f *Frame) Clear(c color.Color, regions ...geom.Rect) error {
	return render.Wrap(f.renderer.id, "clear", f.primary.Clear(c, regions...))
}

func (f *Frame) DrawSolid(dst geom.Rect, damage []geom.Rect, c color.Color) error {
	return render.Wrap(f.renderer.id, "draw_solid", f.primary.DrawSolid(dst, damage, c))
}

func (f *Frame) DrawTexture(tex render.Texture, src geom.RectF, dst geom.Rect, damage []geom.Rect, transform geom.Transform, alpha float32) error {
	t, ok := tex.(*Texture)
	if !ok || t.owner != f.renderer {
		return render.Wrap(f.renderer.id, "draw_texture", render.ErrForeignTexture)
	}
	return render.Wrap(f.renderer.id, "draw_texture", f.primary.DrawTexture(t.inner, src, dst, damage, transform, alpha))
}

// Finish ends the primary frame and copies the result to the target adapter.
func (f *Frame) Finish() error {
	if err := f.primary.Finish(); err != nil {
		return render.Wrap(f.renderer.id, "finish", err)
	}
	if f.target != f.renderer.primary {
		dst := f.target.Image()
		draw.Draw(dst, dst.Bounds(), f.renderer.primary.Image(), image.Point{}, draw.Src)
	}
	return nil
}
