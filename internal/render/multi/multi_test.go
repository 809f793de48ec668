package multi

import (
	"image"
	"image/color"
	"testing"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
	"github.com/ItsNotGoodName/x-stackwm/internal/render/soft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.RGBA{R: 0xff, A: 0xff}

func TestRenderCopiesToTarget(t *testing.T) {
	t.Parallel()

	primary := soft.New("gpu0", geom.Size{W: 8, H: 8})
	secondary := soft.New("gpu1", geom.Size{W: 8, H: 8})
	r := New("multi", primary, secondary)

	frame, err := r.Render("gpu1")
	require.NoError(t, err)
	assert.Same(t, primary, frame.Primary().Renderer())

	require.NoError(t, frame.Clear(red))
	require.NoError(t, frame.Finish())

	assert.Equal(t, red, secondary.Image().RGBAAt(3, 3))
}

func TestErrorsAreTranslated(t *testing.T) {
	t.Parallel()

	primary := soft.New("gpu0", geom.Size{W: 8, H: 8})
	r := New("multi", primary)

	_, err := r.Render("missing")
	var re *render.Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "multi", re.Renderer)
	assert.ErrorIs(t, err, ErrUnknownAdapter)

	foreign, err := soft.New("other", geom.Size{W: 1, H: 1}).ImportImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	require.NoError(t, err)

	frame, err := r.Render("gpu0")
	require.NoError(t, err)

	err = frame.DrawTexture(foreign, geom.RectF{W: 1, H: 1}, geom.Rect{W: 1, H: 1}, nil, geom.TransformNormal, 1)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "draw_texture", re.Op)
	assert.ErrorIs(t, err, render.ErrForeignTexture)

	require.NoError(t, frame.Finish())
	err = frame.DrawSolid(geom.Rect{W: 1, H: 1}, []geom.Rect{{W: 1, H: 1}}, red)
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, render.ErrFrameFinished)
}

func TestImportedTexturesDraw(t *testing.T) {
	t.Parallel()

	r := New("multi", soft.New("gpu0", geom.Size{W: 4, H: 4}))
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := range 2 {
		for y := range 2 {
			img.SetRGBA(x, y, red)
		}
	}
	tex, err := r.ImportImage(img)
	require.NoError(t, err)

	frame, err := r.Render("gpu0")
	require.NoError(t, err)
	require.NoError(t, frame.DrawTexture(tex, geom.RectF{W: 2, H: 2}, geom.Rect{W: 2, H: 2}, []geom.Rect{{W: 2, H: 2}}, geom.TransformNormal, 1))
	require.NoError(t, frame.Finish())

	assert.Equal(t, red, r.Primary().Image().RGBAAt(1, 1))
}
