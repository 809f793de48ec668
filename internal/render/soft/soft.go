// Package soft is a software renderer drawing into an *image.RGBA.
package soft

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

var ErrFrameInProgress = errors.New("frame in progress")

// Texture is an image copied into renderer memory.
type Texture struct {
	owner *Renderer
	img   *image.RGBA
}

func (t *Texture) Size() geom.Size {
	b := t.img.Bounds()
	return geom.Size{W: b.Dx(), H: b.Dy()}
}

func (t *Texture) Image() *image.RGBA { return t.img }

type Renderer struct {
	id     string
	target *image.RGBA
	kernel xdraw.Interpolator
	active bool
}

func New(id string, size geom.Size) *Renderer {
	return &Renderer{
		id:     id,
		target: image.NewRGBA(image.Rect(0, 0, size.W, size.H)),
		kernel: xdraw.ApproxBiLinear,
	}
}

func (r *Renderer) ID() string { return r.id }

// Image is the render target. It is only consistent between frames.
func (r *Renderer) Image() *image.RGBA { return r.target }

func (r *Renderer) Size() geom.Size {
	b := r.target.Bounds()
	return geom.Size{W: b.Dx(), H: b.Dy()}
}

// Resize replaces the render target. The content is lost.
func (r *Renderer) Resize(size geom.Size) {
	r.target = image.NewRGBA(image.Rect(0, 0, size.W, size.H))
}

// SetInterpolator changes the kernel used for scaled and transformed draws.
func (r *Renderer) SetInterpolator(kernel xdraw.Interpolator) { r.kernel = kernel }

func (r *Renderer) ImportImage(img image.Image) (render.Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("empty image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Texture{owner: r, img: dst}, nil
}

// Render starts a frame on the render target.
func (r *Renderer) Render() (*Frame, error) {
	if r.active {
		return nil, ErrFrameInProgress
	}
	r.active = true
	return &Frame{renderer: r, dst: r.target}, nil
}

type Frame struct {
	renderer *Renderer
	dst      *image.RGBA
	finished bool
}

func (f *Frame) Renderer() *Renderer { return f.renderer }

// Target is the image being drawn.
func (f *Frame) Target() *image.RGBA { return f.dst }

func (f *Frame) Size() geom.Size { return f.renderer.Size() }

func (f *Frame) Finished() bool { return f.finished }

func (f *Frame) Clear(c color.Color, regions ...geom.Rect) error {
	if f.finished {
		return render.ErrFrameFinished
	}
	if len(regions) == 0 {
		draw.Draw(f.dst, f.dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
		return nil
	}
	for _, r := range regions {
		draw.Draw(f.dst, toImage(r), image.NewUniform(c), image.Point{}, draw.Src)
	}
	return nil
}

func (f *Frame) DrawSolid(dst geom.Rect, damage []geom.Rect, c color.Color) error {
	if f.finished {
		return render.ErrFrameFinished
	}
	src := image.NewUniform(c)
	for _, clip := range clips(dst, damage) {
		draw.Draw(f.dst, toImage(clip), src, image.Point{}, draw.Over)
	}
	return nil
}

func (f *Frame) DrawTexture(tex render.Texture, src geom.RectF, dst geom.Rect, damage []geom.Rect, transform geom.Transform, alpha float32) error {
	if f.finished {
		return render.ErrFrameFinished
	}
	t, ok := tex.(*Texture)
	if !ok || t.owner != f.renderer {
		return render.ErrForeignTexture
	}
	if src.Empty() || dst.Empty() || alpha <= 0 {
		return nil
	}

	opts := &xdraw.Options{}
	if alpha < 1 {
		opts.SrcMask = image.NewUniform(color.Alpha{A: uint8(alpha * 0xff)})
	}

	m := matrix(src, dst, transform)
	sr := image.Rect(int(src.X), int(src.Y), int(src.X+src.W+0.5), int(src.Y+src.H+0.5)).Intersect(t.img.Bounds())
	for _, clip := range clips(dst, damage) {
		sub, ok := f.dst.SubImage(toImage(clip)).(*image.RGBA)
		if !ok || sub.Bounds().Empty() {
			continue
		}
		f.renderer.kernel.Transform(sub, m, t.img, sr, xdraw.Over, opts)
	}
	return nil
}

func (f *Frame) Finish() error {
	if f.finished {
		return render.ErrFrameFinished
	}
	f.finished = true
	f.renderer.active = false
	return nil
}

func toImage(r geom.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// clips turns damage relative to dst into absolute rectangles inside dst.
func clips(dst geom.Rect, damage []geom.Rect) []geom.Rect {
	out := make([]geom.Rect, 0, len(damage))
	for _, d := range damage {
		if r, ok := d.Translate(dst.Loc()).Intersect(dst); ok {
			out = append(out, r)
		}
	}
	return out
}

// matrix maps buffer coordinates of src to output coordinates of dst.
func matrix(src geom.RectF, dst geom.Rect, transform geom.Transform) f64.Aff3 {
	normalize := f64.Aff3{
		1 / src.W, 0, -src.X / src.W,
		0, 1 / src.H, -src.Y / src.H,
	}
	place := f64.Aff3{
		float64(dst.W), 0, float64(dst.X),
		0, float64(dst.H), float64(dst.Y),
	}
	return mul(place, mul(transformMatrix(transform), normalize))
}

// transformMatrix operates on the unit square.
func transformMatrix(t geom.Transform) f64.Aff3 {
	switch t {
	case geom.Transform90:
		return f64.Aff3{0, 1, 0, -1, 0, 1}
	case geom.Transform180:
		return f64.Aff3{-1, 0, 1, 0, -1, 1}
	case geom.Transform270:
		return f64.Aff3{0, -1, 1, 1, 0, 0}
	case geom.TransformFlipped:
		return f64.Aff3{-1, 0, 1, 0, 1, 0}
	case geom.TransformFlipped90:
		return f64.Aff3{0, 1, 0, 1, 0, 0}
	case geom.TransformFlipped180:
		return f64.Aff3{1, 0, 0, 0, -1, 1}
	case geom.TransformFlipped270:
		return f64.Aff3{0, -1, 1, -1, 0, 1}
	default:
		return f64.Aff3{1, 0, 0, 0, 1, 0}
	}
}

// mul returns a·b, which applies b first.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}
