package headless

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/ItsNotGoodName/x-stackwm/internal/backend"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresent(t *testing.T) {
	h := New(geom.Size{W: 10, H: 10})

	red := color.RGBA{R: 0xff, A: 0xff}
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	draw.Draw(img, img.Bounds(), image.NewUniform(red), image.Point{}, draw.Src)

	require.NoError(t, h.Present(img, []geom.Rect{{X: 2, Y: 2, W: 3, H: 3}}))
	assert.Equal(t, 1, h.Frames())

	out := h.Image()
	assert.Equal(t, red, out.RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(5, 5))
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	h := New(geom.Size{W: 10, H: 10})

	require.NoError(t, h.Send(ctx, backend.EventResize{Size: geom.Size{W: 20, H: 5}}))
	assert.Equal(t, geom.Size{W: 20, H: 5}, h.Size())
	assert.Equal(t, image.Rect(0, 0, 20, 5), h.Image().Bounds())

	ev := <-h.Events()
	assert.Equal(t, backend.EventResize{Size: geom.Size{W: 20, H: 5}}, ev)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	_, ok := <-h.Events()
	assert.False(t, ok)

	assert.ErrorIs(t, h.Send(ctx, backend.EventClose{}), backend.ErrClosed)
	assert.ErrorIs(t, h.Present(image.NewRGBA(image.Rect(0, 0, 1, 1)), nil), backend.ErrClosed)
}
