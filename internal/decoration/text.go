package decoration

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

// LineHeight is the height of one line of text.
func LineHeight() int { return face.Metrics().Height.Ceil() }

func TextWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// DrawText draws s with its top left corner at at.
func DrawText(dst draw.Image, at image.Point, s string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(at.X, at.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// Ellipsize shortens s to fit width pixels.
func Ellipsize(s string, width int) string {
	if TextWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		out := string(runes) + "..."
		if TextWidth(out) <= width {
			return out
		}
	}
	return ""
}

// TextImage renders s on a transparent image just large enough to hold it.
func TextImage(s string, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(TextWidth(s), 1), LineHeight()))
	DrawText(img, image.Point{}, s, c)
	return img
}

type textKey struct {
	renderer string
	text     string
	color    color.RGBA
}

// textCache keeps imported text textures until the text changes.
type textCache struct {
	textures map[textKey]render.Texture
}

func (tc *textCache) get(r render.Renderer, s string, c color.RGBA) (render.Texture, error) {
	key := textKey{renderer: r.ID(), text: s, color: c}
	if tex, ok := tc.textures[key]; ok {
		return tex, nil
	}

	tex, err := r.ImportImage(TextImage(s, c))
	if err != nil {
		return nil, err
	}
	if tc.textures == nil {
		tc.textures = make(map[textKey]render.Texture)
	}
	tc.textures[key] = tex
	return tex, nil
}

func (tc *textCache) reset() { tc.textures = nil }

// textElement places tex vertically centered in the logical box. It returns
// nil when the box has no room for text.
func textElement(id render.ID, commit render.Commit, tex render.Texture, box geom.Rect, padding int, loc geom.Point, scale geom.Scale) *render.TextureElement {
	size := tex.Size()
	logical := geom.Point{
		X: box.X + padding,
		Y: box.Y + (box.H-size.H)/2,
	}
	visible := geom.Size{W: min(size.W, box.W-2*padding), H: size.H}
	if visible.Empty() {
		return nil
	}
	src := geom.RectF{W: float64(visible.W), H: float64(visible.H)}
	dst := visible.ToPhysical(scale)
	return render.NewTextureElement(id, commit, tex, loc.Add(logical.ToPhysical(scale)), render.TextureOptions{
		Src:  &src,
		Size: &dst,
	})
}
