// Package client is a synthetic protocol client. It acknowledges configures
// and paints its windows so the shell has something to compose.
package client

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-stackwm/internal/decoration"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
	"github.com/google/uuid"
)

const (
	badgeSize   = 16
	badgeOffset = 4
)

var badgeColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

type Options struct {
	Title   string
	AppID   string
	Color   color.RGBA
	MinSize geom.Size
	MaxSize geom.Size
	// Badge adds a subsurface in the top left corner.
	Badge bool
}

type window struct {
	toplevel *protocol.Toplevel
	badge    *protocol.Surface
	title    string
	size     geom.Size
}

type Client struct {
	id      uuid.UUID
	display *protocol.Display
	opts    Options
	windows []*window
}

func New(display *protocol.Display, opts Options) *Client {
	return &Client{
		id:      uuid.New(),
		display: display,
		opts:    opts,
	}
}

func (c *Client) ID() uuid.UUID { return c.id }

func (c *Client) Options() Options { return c.opts }

// Toplevels lists the windows that are still open.
func (c *Client) Toplevels() []*protocol.Toplevel {
	var out []*protocol.Toplevel
	for _, w := range c.windows {
		if w.toplevel.Alive() {
			out = append(out, w.toplevel)
		}
	}
	return out
}

// Open creates a toplevel. It is painted once the first configure arrives.
// Close requests destroy the toplevel.
func (c *Client) Open(title string) *protocol.Toplevel {
	s := c.display.CreateSurface()
	s.WithAttributes(func(attrs *protocol.Attributes) {
		attrs.Title = title
		attrs.AppID = c.opts.AppID
		attrs.MinSize = c.opts.MinSize
		attrs.MaxSize = c.opts.MaxSize
	})

	w := &window{
		toplevel: c.display.CreateToplevel(s, c.id),
		title:    title,
	}
	if c.opts.Badge {
		w.badge = c.display.CreateSurface()
		paint(w.badge, geom.Size{W: badgeSize, H: badgeSize}, badgeColor, "")
		s.AddSubsurface(w.badge, geom.Point{X: badgeOffset, Y: badgeOffset})
	}
	w.toplevel.OnClose(func(t *protocol.Toplevel) {
		slog.Debug("Closing window", "func", "client.Client.Open", "client", c.id, "title", title)
		t.Destroy()
	})

	c.windows = append(c.windows, w)
	return w.toplevel
}

// OpenPopup opens a popup of t at geometry, relative to the surface of t.
func (c *Client) OpenPopup(t *protocol.Toplevel, geometry geom.Rect) *protocol.Popup {
	p := c.display.CreatePopup(t.Surface(), c.display.CreateSurface(), geometry)
	paint(p.Surface(), geometry.Size(), darken(c.opts.Color), "")
	return p
}

// Dispatch acknowledges the newest configure of every window and repaints
// windows whose size changed. It returns how many windows were painted.
func (c *Client) Dispatch() int {
	painted := 0
	for _, w := range c.windows {
		t := w.toplevel
		if !t.Alive() {
			continue
		}

		configures := t.PendingConfigures()
		if len(configures) == 0 {
			continue
		}
		last := configures[len(configures)-1]
		if err := t.AckConfigure(last.Serial); err != nil {
			slog.Error("Failed to ack configure", "func", "client.Client.Dispatch", "client", c.id, "error", err)
			continue
		}

		size := last.State.Size
		if size.Empty() || size == w.size {
			continue
		}
		w.size = size
		paint(t.Surface(), size, c.opts.Color, w.title)
		painted++
	}

	c.windows = slices.DeleteFunc(c.windows, func(w *window) bool { return !w.toplevel.Alive() })
	return painted
}

func paint(s *protocol.Surface, size geom.Size, c color.RGBA, title string) {
	img := image.NewRGBA(image.Rect(0, 0, size.W, size.H))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	if title != "" {
		at := image.Point{X: badgeSize + 2*badgeOffset, Y: badgeOffset}
		decoration.DrawText(img, at, decoration.Ellipsize(title, size.W-at.X), contrast(c))
	}
	s.Attach(img)
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

// contrast picks black or white text for background c.
func contrast(c color.RGBA) color.RGBA {
	if int(c.R)*299+int(c.G)*587+int(c.B)*114 > 128*1000 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}
