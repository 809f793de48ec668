// Package decoration draws the server side title bars of windows and stacks.
package decoration

import (
	"image/color"

	"github.com/ItsNotGoodName/x-stackwm/internal/core"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
)

type Theme struct {
	Height            int
	Padding           int
	Background        color.RGBA
	BackgroundFocused color.RGBA
	Tab               color.RGBA
	TabActive         color.RGBA
	Text              color.RGBA
	TextFocused       color.RGBA
}

func DefaultTheme() Theme {
	return Theme{
		Height:            24,
		Padding:           6,
		Background:        color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff},
		BackgroundFocused: color.RGBA{R: 0x28, G: 0x55, B: 0x77, A: 0xff},
		Tab:               color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff},
		TabActive:         color.RGBA{R: 0x3d, G: 0x6b, B: 0x8f, A: 0xff},
		Text:              color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff},
		TextFocused:       color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}

// Header is the title bar of a single window.
type Header struct {
	theme  Theme
	bgID   render.ID
	textID render.ID
	commit render.Commit
	cache  textCache

	title   *core.State[string]
	width   *core.State[int]
	focused *core.State[bool]
}

func NewHeader(theme Theme, title string) *Header {
	h := &Header{
		theme:   theme,
		bgID:    render.NewID(),
		textID:  render.NewID(),
		title:   core.NewState(title),
		width:   core.NewState(0),
		focused: core.NewState(false),
	}
	bump := func() { h.commit++ }
	h.title.AddEffect(bump)
	h.title.AddEffect(h.cache.reset)
	h.width.AddEffect(bump)
	h.focused.AddEffect(bump)
	return h
}

func (h *Header) Height() int { return h.theme.Height }

func (h *Header) Width() int { return h.width.V }

func (h *Header) SetWidth(width int) { h.width.Update(width) }

func (h *Header) Title() string { return h.title.V }

func (h *Header) SetTitle(title string) { h.title.Update(title) }

func (h *Header) Focused() bool { return h.focused.V }

func (h *Header) SetFocused(focused bool) { h.focused.Update(focused) }

func (h *Header) Commit() render.Commit { return h.commit }

// RenderElements returns the header elements, front to back, for a header
// whose top left corner is at the physical location loc.
func (h *Header) RenderElements(r render.Renderer, loc geom.Point, scale geom.Scale) ([]render.Element, error) {
	box := geom.Rect{W: h.width.V, H: h.theme.Height}
	if box.Empty() {
		return nil, nil
	}

	bg, fg := h.theme.Background, h.theme.Text
	if h.focused.V {
		bg, fg = h.theme.BackgroundFocused, h.theme.TextFocused
	}

	var elements []render.Element
	if title := Ellipsize(h.title.V, box.W-2*h.theme.Padding); title != "" {
		tex, err := h.cache.get(r, title, fg)
		if err != nil {
			return nil, err
		}
		if e := textElement(h.textID, h.commit, tex, box, h.theme.Padding, loc, scale); e != nil {
			elements = append(elements, e)
		}
	}
	elements = append(elements, render.NewSolidElement(h.bgID, h.commit, box.ToPhysical(scale).Translate(loc), bg))
	return elements, nil
}
