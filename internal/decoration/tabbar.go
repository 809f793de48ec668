package decoration

import (
	"slices"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
)

type tabIDs struct {
	bg   render.ID
	text render.ID
}

// TabBar is the header of a stack with one tab per window.
type TabBar struct {
	theme   Theme
	bgID    render.ID
	ids     []tabIDs
	commit  render.Commit
	cache   textCache
	width   int
	titles  []string
	active  int
	focused bool
}

func NewTabBar(theme Theme) *TabBar {
	return &TabBar{
		theme: theme,
		bgID:  render.NewID(),
	}
}

func (tb *TabBar) Height() int { return tb.theme.Height }

func (tb *TabBar) Width() int { return tb.width }

func (tb *TabBar) SetWidth(width int) {
	if tb.width == width {
		return
	}
	tb.width = width
	tb.commit++
}

func (tb *TabBar) SetFocused(focused bool) {
	if tb.focused == focused {
		return
	}
	tb.focused = focused
	tb.commit++
}

// SetTabs replaces the tab titles and the active tab.
func (tb *TabBar) SetTabs(titles []string, active int) {
	if active == tb.active && slices.Equal(titles, tb.titles) {
		return
	}
	if !slices.Equal(titles, tb.titles) {
		tb.cache.reset()
	}
	tb.titles = slices.Clone(titles)
	tb.active = active
	for len(tb.ids) < len(titles) {
		tb.ids = append(tb.ids, tabIDs{bg: render.NewID(), text: render.NewID()})
	}
	tb.commit++
}

func (tb *TabBar) Titles() []string { return slices.Clone(tb.titles) }

func (tb *TabBar) Active() int { return tb.active }

func (tb *TabBar) Commit() render.Commit { return tb.commit }

// TabRect is the logical rectangle of tab i relative to the bar.
func (tb *TabBar) TabRect(i int) geom.Rect {
	n := len(tb.titles)
	if n == 0 || i < 0 || i >= n {
		return geom.Rect{}
	}
	x0 := tb.width * i / n
	x1 := tb.width * (i + 1) / n
	return geom.Rect{X: x0, W: x1 - x0, H: tb.theme.Height}
}

// TabAt returns the tab under the logical x coordinate.
func (tb *TabBar) TabAt(x float64) (int, bool) {
	for i := range tb.titles {
		r := tb.TabRect(i)
		if x >= float64(r.X) && x < float64(r.Right()) {
			return i, true
		}
	}
	return 0, false
}

// RenderElements returns the tab bar elements, front to back, for a bar
// whose top left corner is at the physical location loc.
func (tb *TabBar) RenderElements(r render.Renderer, loc geom.Point, scale geom.Scale) ([]render.Element, error) {
	if tb.width <= 0 || tb.theme.Height <= 0 {
		return nil, nil
	}

	var texts, tabs []render.Element
	for i, title := range tb.titles {
		box := tb.TabRect(i)
		if box.Empty() {
			continue
		}

		bg, fg := tb.theme.Tab, tb.theme.Text
		if i == tb.active {
			bg = tb.theme.TabActive
			if tb.focused {
				fg = tb.theme.TextFocused
			}
		}

		// Leave a one pixel gap between tabs.
		inner := box
		if i > 0 {
			inner.X++
			inner.W--
		}
		tabs = append(tabs, render.NewSolidElement(tb.ids[i].bg, tb.commit, inner.ToPhysical(scale).Translate(loc), bg))

		title = Ellipsize(title, box.W-2*tb.theme.Padding)
		if title == "" {
			continue
		}
		tex, err := tb.cache.get(r, title, fg)
		if err != nil {
			return nil, err
		}
		if e := textElement(tb.ids[i].text, tb.commit, tex, box, tb.theme.Padding, loc, scale); e != nil {
			texts = append(texts, e)
		}
	}

	bar := geom.Rect{W: tb.width, H: tb.theme.Height}
	elements := append(texts, tabs...)
	return append(elements, render.NewSolidElement(tb.bgID, tb.commit, bar.ToPhysical(scale).Translate(loc), tb.theme.Background)), nil
}
