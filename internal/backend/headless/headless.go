// Package headless is a backend without a display. Frames are kept in memory
// and events are injected with Send.
package headless

import (
	"context"
	"image"
	"image/draw"
	"sync"

	"github.com/ItsNotGoodName/x-stackwm/internal/backend"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
)

type Headless struct {
	size   geom.Size
	eventC chan backend.Event

	mu     sync.Mutex
	closed bool
	frames int
	image  *image.RGBA
}

func New(size geom.Size) *Headless {
	return &Headless{
		size:   size,
		eventC: make(chan backend.Event, 64),
		image:  image.NewRGBA(image.Rect(0, 0, size.W, size.H)),
	}
}

func (h *Headless) Size() geom.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

func (h *Headless) Events() <-chan backend.Event {
	return h.eventC
}

// Send queues ev as if it came from a device. Resize events also resize the
// output.
func (h *Headless) Send(ctx context.Context, ev backend.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return backend.ErrClosed
	}

	if ev, ok := ev.(backend.EventResize); ok {
		h.size = ev.Size
		h.image = image.NewRGBA(image.Rect(0, 0, ev.Size.W, ev.Size.H))
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case h.eventC <- ev:
		return nil
	}
}

func (h *Headless) Present(img *image.RGBA, damage []geom.Rect) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return backend.ErrClosed
	}

	for _, r := range damage {
		rect := image.Rect(r.X, r.Y, r.Right(), r.Bottom())
		draw.Draw(h.image, rect, img, rect.Min, draw.Src)
	}
	h.frames++
	return nil
}

// Frames counts the calls to Present.
func (h *Headless) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Image returns a copy of what was presented.
func (h *Headless) Image() *image.RGBA {
	h.mu.Lock()
	defer h.mu.Unlock()
	img := image.NewRGBA(h.image.Bounds())
	draw.Draw(img, img.Bounds(), h.image, image.Point{}, draw.Src)
	return img
}

func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	close(h.eventC)
	return nil
}

var _ backend.Backend = (*Headless)(nil)
