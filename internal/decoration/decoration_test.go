package decoration

import (
	"testing"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
	"github.com/ItsNotGoodName/x-stackwm/internal/render/soft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextWidth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, TextWidth(""))
	assert.Equal(t, 7*5, TextWidth("hello"))
	assert.Equal(t, 13, LineHeight())
}

func TestEllipsize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", Ellipsize("hello", 100))
	short := Ellipsize("hello world", 7*8)
	assert.Equal(t, "hello...", short)
	assert.Equal(t, "", Ellipsize("hello", 7))
}

func TestHeaderCommitChangesWithState(t *testing.T) {
	t.Parallel()

	h := NewHeader(DefaultTheme(), "term")
	c0 := h.Commit()

	h.SetWidth(100)
	c1 := h.Commit()
	assert.Greater(t, c1, c0)

	h.SetWidth(100)
	assert.Equal(t, c1, h.Commit())

	h.SetTitle("editor")
	h.SetFocused(true)
	assert.Equal(t, c1+2, h.Commit())
	assert.Equal(t, "editor", h.Title())
}

func TestHeaderRenderElements(t *testing.T) {
	t.Parallel()

	r := soft.New("soft", geom.Size{W: 200, H: 100})
	h := NewHeader(DefaultTheme(), "term")

	elements, err := h.RenderElements(r, geom.Point{}, geom.Uniform(1))
	require.NoError(t, err)
	assert.Empty(t, elements, "zero width")

	h.SetWidth(120)
	elements, err = h.RenderElements(r, geom.Point{X: 10, Y: 20}, geom.Uniform(2))
	require.NoError(t, err)
	require.Len(t, elements, 2)

	bg := elements[1]
	assert.Equal(t, geom.Rect{X: 10, Y: 20, W: 240, H: 48}, bg.Geometry(geom.Uniform(2)))

	text, ok := elements[0].(*render.TextureElement)
	require.True(t, ok)
	assert.Equal(t, geom.Size{W: TextWidth("term") * 2, H: LineHeight() * 2}, text.Geometry(geom.Uniform(2)).Size())
}

func TestTabBar(t *testing.T) {
	t.Parallel()

	tb := NewTabBar(DefaultTheme())
	tb.SetWidth(300)
	tb.SetTabs([]string{"a", "b", "c"}, 1)

	assert.Equal(t, geom.Rect{X: 100, W: 100, H: 24}, tb.TabRect(1))

	i, ok := tb.TabAt(250)
	require.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = tb.TabAt(300)
	assert.False(t, ok)

	commit := tb.Commit()
	tb.SetTabs([]string{"a", "b", "c"}, 1)
	assert.Equal(t, commit, tb.Commit())
	tb.SetTabs([]string{"a", "b", "c"}, 2)
	assert.Greater(t, tb.Commit(), commit)

	r := soft.New("soft", geom.Size{W: 300, H: 100})
	elements, err := tb.RenderElements(r, geom.Point{}, geom.Uniform(1))
	require.NoError(t, err)
	// three titles, three tabs and the bar
	require.Len(t, elements, 7)
	assert.Equal(t, geom.Rect{W: 300, H: 24}, elements[6].Geometry(geom.Uniform(1)))
}
