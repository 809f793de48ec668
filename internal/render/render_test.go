package render

import (
	"errors"
	"image/color"
	"testing"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawCall struct {
	dst    geom.Rect
	damage []geom.Rect
}

type recordingFrame struct {
	size    geom.Size
	cleared [][]geom.Rect
	solids  []drawCall
	drawErr error
}

func (f *recordingFrame) Size() geom.Size { return f.size }

func (f *recordingFrame) Clear(c color.Color, regions ...geom.Rect) error {
	f.cleared = append(f.cleared, regions)
	return nil
}

func (f *recordingFrame) DrawSolid(dst geom.Rect, damage []geom.Rect, c color.Color) error {
	if f.drawErr != nil {
		return f.drawErr
	}
	f.solids = append(f.solids, drawCall{dst: dst, damage: damage})
	return nil
}

func (f *recordingFrame) DrawTexture(tex Texture, src geom.RectF, dst geom.Rect, damage []geom.Rect, transform geom.Transform, alpha float32) error {
	return ErrUnsupported
}

func (f *recordingFrame) Finish() error { return nil }

type fakeTexture struct{ size geom.Size }

func (t fakeTexture) Size() geom.Size { return t.size }

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0x80}
)

func TestSolidElement(t *testing.T) {
	t.Parallel()

	id := NewID()
	e := NewSolidElement(id, 3, geom.Rect{X: 10, Y: 20, W: 30, H: 40}, red)

	assert.Equal(t, id, e.ID())
	assert.Equal(t, geom.Point{X: 10, Y: 20}, e.Location(geom.Uniform(1)))
	assert.Equal(t, geom.RectF{W: 30, H: 40}, e.Src())
	assert.Equal(t, []geom.Rect{{W: 30, H: 40}}, e.OpaqueRegions(geom.Uniform(1)))

	commit := Commit(3)
	assert.Empty(t, e.DamageSince(geom.Uniform(1), &commit))
	commit = 2
	assert.Equal(t, []geom.Rect{{W: 30, H: 40}}, e.DamageSince(geom.Uniform(1), &commit))

	translucent := NewSolidElement(NewID(), 0, geom.Rect{W: 1, H: 1}, blue)
	assert.Empty(t, translucent.OpaqueRegions(geom.Uniform(1)))
}

func TestTextureElementDamage(t *testing.T) {
	t.Parallel()

	tex := fakeTexture{size: geom.Size{W: 100, H: 50}}
	size := geom.Size{W: 200, H: 100}
	e := NewTextureElement(NewID(), 5, tex, geom.Point{X: 1, Y: 2}, TextureOptions{
		Size: &size,
		Damage: func(commit *Commit) []geom.Rect {
			return []geom.Rect{{X: 10, Y: 10, W: 5, H: 5}}
		},
	})

	assert.Equal(t, geom.Rect{X: 1, Y: 2, W: 200, H: 100}, e.Geometry(geom.Uniform(1)))
	assert.Equal(t, float32(1), e.Alpha())

	commit := Commit(4)
	assert.Equal(t, []geom.Rect{{X: 20, Y: 20, W: 10, H: 10}}, e.DamageSince(geom.Uniform(1), &commit))
	assert.Equal(t, []geom.Rect{{W: 200, H: 100}}, e.DamageSince(geom.Uniform(1), nil))

	rotated := NewTextureElement(NewID(), 0, tex, geom.Point{}, TextureOptions{Transform: geom.Transform90})
	assert.Equal(t, geom.Size{W: 50, H: 100}, rotated.Geometry(geom.Uniform(1)).Size())
}

func TestConvert(t *testing.T) {
	t.Parallel()

	elements := []*SolidElement{
		NewSolidElement(NewID(), 0, geom.Rect{W: 1, H: 1}, red),
		NewSolidElement(NewID(), 0, geom.Rect{W: 2, H: 2}, red),
	}
	out := Convert(elements, func(e *SolidElement) Element { return e })
	require.Len(t, out, 2)
	assert.Equal(t, elements[1].ID(), out[1].ID())
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Wrap("soft", "draw", nil))

	cause := errors.New("boom")
	err := Wrap("soft", "draw", cause)
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "soft", re.Renderer)
	assert.ErrorIs(t, err, cause)

	assert.Same(t, err, Wrap("multi", "finish", err))
}

func TestDamageTracker(t *testing.T) {
	t.Parallel()

	dt := NewDamageTracker(geom.Size{W: 100, H: 100}, geom.Uniform(1))
	bg := NewSolidElement(NewID(), 0, geom.Rect{W: 100, H: 100}, red)
	fg := NewSolidElement(NewID(), 0, geom.Rect{X: 10, Y: 10, W: 10, H: 10}, blue)

	t.Run("first frame draws everything back to front", func(t *testing.T) {
		frame := &recordingFrame{size: geom.Size{W: 100, H: 100}}
		damage, err := dt.RenderOutput(frame, []Element{fg, bg}, color.Black)
		require.NoError(t, err)
		assert.Contains(t, damage, geom.Rect{W: 100, H: 100})
		require.Len(t, frame.solids, 2)
		assert.Equal(t, bg.Geometry(geom.Uniform(1)), frame.solids[0].dst)
		assert.Equal(t, fg.Geometry(geom.Uniform(1)), frame.solids[1].dst)
	})

	t.Run("unchanged frame draws nothing", func(t *testing.T) {
		frame := &recordingFrame{}
		damage, err := dt.RenderOutput(frame, []Element{fg, bg}, color.Black)
		require.NoError(t, err)
		assert.Empty(t, damage)
		assert.Empty(t, frame.cleared)
		assert.Empty(t, frame.solids)
	})

	t.Run("moved element damages old and new geometry", func(t *testing.T) {
		moved := NewSolidElement(fg.ID(), 0, geom.Rect{X: 50, Y: 50, W: 10, H: 10}, blue)
		frame := &recordingFrame{}
		damage, err := dt.RenderOutput(frame, []Element{moved, bg}, color.Black)
		require.NoError(t, err)
		assert.ElementsMatch(t, []geom.Rect{{X: 10, Y: 10, W: 10, H: 10}, {X: 50, Y: 50, W: 10, H: 10}}, damage)
		require.Len(t, frame.solids, 2)
		assert.Equal(t, []geom.Rect{{W: 10, H: 10}}, frame.solids[1].damage)
	})

	t.Run("removed element damages its last geometry", func(t *testing.T) {
		frame := &recordingFrame{}
		damage, err := dt.RenderOutput(frame, []Element{bg}, color.Black)
		require.NoError(t, err)
		assert.Equal(t, []geom.Rect{{X: 50, Y: 50, W: 10, H: 10}}, damage)
	})

	t.Run("occluded element is skipped", func(t *testing.T) {
		dt := NewDamageTracker(geom.Size{W: 100, H: 100}, geom.Uniform(1))
		frame := &recordingFrame{}
		_, err := dt.RenderOutput(frame, []Element{bg, fg}, color.Black)
		require.NoError(t, err)
		require.Len(t, frame.solids, 1)
		assert.Equal(t, bg.Geometry(geom.Uniform(1)), frame.solids[0].dst)
	})

	t.Run("draw error is returned", func(t *testing.T) {
		dt := NewDamageTracker(geom.Size{W: 100, H: 100}, geom.Uniform(1))
		frame := &recordingFrame{drawErr: errors.New("lost")}
		_, err := dt.RenderOutput(frame, []Element{bg}, color.Black)
		assert.Error(t, err)
	})
}
