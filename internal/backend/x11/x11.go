// Package x11 runs the compositor nested inside a window of an X server.
package x11

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/ItsNotGoodName/x-stackwm/internal/backend"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Size of a PutImage request without its data.
const putImageHeader = 24

type Options struct {
	Title string
	Size  geom.Size
}

type X11 struct {
	conn       *xgb.Conn
	wid        xproto.Window
	gc         xproto.Gcontext
	depth      byte
	maxRequest int
	eventC     chan backend.Event
	closeOnce  sync.Once
	translator translator

	mu     sync.Mutex
	size   geom.Size
	buf    []byte
	closed bool
}

// Open connects to the X server in $DISPLAY and maps the output window.
func Open(ctx context.Context, opts Options) (*X11, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}

	x, err := createWindow(conn, opts)
	if err != nil {
		conn.Close()
		return nil, err
	}

	go x.receiveEvents(ctx)

	return x, nil
}

func createWindow(conn *xgb.Conn, opts Options) (*X11, error) {
	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	cursor, err := createCursor(conn, cursorLeftPtr)
	if err != nil {
		return nil, err
	}

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}

	if err := xproto.CreateWindowChecked(conn, screen.RootDepth,
		wid, screen.Root,
		0, 0, uint16(opts.Size.W), uint16(opts.Size.H), 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask|xproto.CwCursor, // 1, 2, 3
		[]uint32{
			0, // 1
			xproto.EventMaskStructureNotify |
				xproto.EventMaskKeyPress |
				xproto.EventMaskKeyRelease |
				xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease |
				xproto.EventMaskPointerMotion, // 2
			uint32(cursor), // 3
		}).Check(); err != nil {
		return nil, err
	}

	if err := xproto.ChangePropertyChecked(conn, xproto.PropModeReplace, wid,
		xproto.AtomWmName, xproto.AtomString, 8,
		uint32(len(opts.Title)), []byte(opts.Title)).Check(); err != nil {
		return nil, err
	}

	wmDelete, err := setDeleteProtocol(conn, wid)
	if err != nil {
		return nil, err
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(wid), 0, nil).Check(); err != nil {
		return nil, err
	}

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		return nil, err
	}

	x := &X11{
		conn:       conn,
		wid:        wid,
		gc:         gc,
		depth:      screen.RootDepth,
		maxRequest: int(setup.MaximumRequestLength) * 4,
		eventC:     make(chan backend.Event),
		translator: translator{wid: wid, wmDelete: wmDelete, size: opts.Size},
		size:       opts.Size,
	}
	return x, nil
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

// setDeleteProtocol asks the window manager for a client message instead of
// killing the connection when the window is closed.
func setDeleteProtocol(conn *xgb.Conn, wid xproto.Window) (xproto.Atom, error) {
	protocols, err := internAtom(conn, "WM_PROTOCOLS")
	if err != nil {
		return 0, err
	}
	wmDelete, err := internAtom(conn, "WM_DELETE_WINDOW")
	if err != nil {
		return 0, err
	}

	data := make([]byte, 4)
	xgb.Put32(data, uint32(wmDelete))
	if err := xproto.ChangePropertyChecked(conn, xproto.PropModeReplace, wid,
		protocols, xproto.AtomAtom, 32, 1, data).Check(); err != nil {
		return 0, err
	}
	return wmDelete, nil
}

func (x *X11) receiveEvents(ctx context.Context) {
	defer close(x.eventC)
	slog := slog.With("func", "x11.X11.receiveEvents")

	for {
		xev, err := x.conn.WaitForEvent()
		if xev == nil && err == nil {
			slog.Debug("exit: no event or error")
			return
		}

		if err != nil {
			slog.Error("X request failed", "error", err)
			continue
		}

		ev, ok := x.translator.translate(xev)
		if !ok {
			continue
		}
		if ev, ok := ev.(backend.EventResize); ok {
			x.mu.Lock()
			x.size = ev.Size
			x.mu.Unlock()
		}

		select {
		case <-ctx.Done():
			return
		case x.eventC <- ev:
		}
	}
}

func (x *X11) Size() geom.Size {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.size
}

func (x *X11) Events() <-chan backend.Event {
	return x.eventC
}

// Present uploads the damaged regions of img with PutImage.
func (x *X11) Present(img *image.RGBA, damage []geom.Rect) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return backend.ErrClosed
	}

	bounds := geom.Rect{W: img.Rect.Dx(), H: img.Rect.Dy()}
	for _, d := range damage {
		r, ok := d.Intersect(bounds)
		if !ok {
			continue
		}
		for _, c := range chunks(r, x.maxRequest-putImageHeader) {
			x.buf = bgrx(x.buf, img, c)
			xproto.PutImage(x.conn, xproto.ImageFormatZPixmap, xproto.Drawable(x.wid), x.gc,
				uint16(c.W), uint16(c.H), int16(c.X), int16(c.Y), 0, x.depth, x.buf)
		}
	}
	x.conn.Sync()
	return nil
}

func (x *X11) Close() error {
	x.closeOnce.Do(func() {
		x.mu.Lock()
		x.closed = true
		x.mu.Unlock()

		xproto.DestroyWindow(x.conn, x.wid)
		x.conn.Close()
	})
	return nil
}

var _ backend.Backend = (*X11)(nil)

// chunks splits r into bands of rows that fit in maxBytes of 32 bit pixels.
func chunks(r geom.Rect, maxBytes int) []geom.Rect {
	rows := max(maxBytes/(r.W*4), 1)

	var out []geom.Rect
	for y := r.Y; y < r.Bottom(); y += rows {
		out = append(out, geom.Rect{X: r.X, Y: y, W: r.W, H: min(rows, r.Bottom()-y)})
	}
	return out
}

// bgrx converts r of img into the 32 bit ZPixmap layout of little endian
// TrueColor visuals.
func bgrx(buf []byte, img *image.RGBA, r geom.Rect) []byte {
	buf = buf[:0]
	for y := r.Y; y < r.Bottom(); y++ {
		i := img.PixOffset(img.Rect.Min.X+r.X, img.Rect.Min.Y+y)
		for x := 0; x < r.W; x++ {
			p := img.Pix[i : i+4 : i+4]
			buf = append(buf, p[2], p[1], p[0], 0)
			i += 4
		}
	}
	return buf
}
