// Package server wires the shell to a backend, demo clients and the control
// API and supervises them.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ItsNotGoodName/x-stackwm/internal/api"
	"github.com/ItsNotGoodName/x-stackwm/internal/backend"
	"github.com/ItsNotGoodName/x-stackwm/internal/bus"
	"github.com/ItsNotGoodName/x-stackwm/internal/client"
	"github.com/ItsNotGoodName/x-stackwm/internal/config"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/input"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
	"github.com/ItsNotGoodName/x-stackwm/internal/shell"
	"github.com/ItsNotGoodName/x-stackwm/pkg/sutureext"
	"github.com/thejerf/suture/v4"
)

type Compositor struct {
	shell    *shell.Shell
	backend  backend.Backend
	output   *Output
	clients  []*client.Client
	interval time.Duration
}

// New creates the shell of cfg on b and maps the configured clients.
func New(cfg config.Config, b backend.Backend) (*Compositor, error) {
	opts, err := ShellOptions(cfg)
	if err != nil {
		return nil, err
	}

	output, err := NewOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	s := shell.New(protocol.NewDisplay(), opts)
	c := &Compositor{
		shell:    s,
		backend:  b,
		output:   output,
		interval: time.Second / time.Duration(max(cfg.Output.FPS, 1)),
	}
	c.resize(b.Size())

	c.clients, err = SpawnClients(s, cfg.Clients)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Compositor) Shell() *shell.Shell { return c.shell }

// Serve runs the shell, the frame clock and the input pump until ctx is done
// or the shell quits. The API is served on address unless it is empty.
func (c *Compositor) Serve(ctx context.Context, address string) error {
	super := sutureext.NewSimple("server.Compositor")
	sutureext.Add(super, c.shell)
	sutureext.Add(super, sutureext.NewTicker("server.FrameClock", c.interval, c.tick))
	sutureext.Add(super, sutureext.NewServiceFunc("server.InputPump", c.inputPump))
	if address != "" {
		hub := bus.NewHub[shell.EventChanged](16).Register()
		defer hub.Close()
		sutureext.Add(super, NewHTTPServer(address, api.NewRouter(c.shell, hub)))
	}

	return sutureext.Serve(ctx, super)
}

func (c *Compositor) tick(ctx context.Context) error {
	return c.shell.Do(ctx, c.frame)
}

// frame lets the clients catch up and presents what changed. Draw failures
// only drop the frame.
func (c *Compositor) frame(s *shell.Shell) error {
	for _, cl := range c.clients {
		cl.Dispatch()
	}
	s.Refresh()

	img, damage, err := c.output.Render(s)
	if err != nil {
		slog.Error("Failed to render frame", "func", "server.Compositor.frame", "error", err)
		return nil
	}
	if len(damage) == 0 {
		return nil
	}

	if err := c.backend.Present(img, damage); err != nil {
		if errors.Is(err, backend.ErrClosed) {
			return suture.ErrTerminateSupervisorTree
		}
		slog.Error("Failed to present frame", "func", "server.Compositor.frame", "error", err)
	}
	return nil
}

func (c *Compositor) inputPump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-c.backend.Events():
			if !ok {
				return suture.ErrTerminateSupervisorTree
			}

			err := c.shell.Do(ctx, func(s *shell.Shell) error { return c.handle(s, ev) })
			if errors.Is(err, shell.ErrQuit) {
				slog.Info("Quitting", "func", "server.Compositor.inputPump")
				return suture.ErrTerminateSupervisorTree
			}
			if err != nil {
				return err
			}
		}
	}
}

// handle feeds a backend event to the default seat.
func (c *Compositor) handle(s *shell.Shell, ev backend.Event) error {
	seat := s.DefaultSeat()

	switch ev := ev.(type) {
	case backend.EventKey:
		s.Modifiers(seat, ev.Mods)
		return s.Key(seat, input.KeyEvent{
			Keycode: ev.Keycode,
			Keysym:  ev.Keysym,
			State:   ev.State,
			Serial:  s.Display().NextSerial(),
			Time:    ev.Time,
		})
	case backend.EventMotion:
		s.Modifiers(seat, ev.Mods)
		s.PointerMotion(seat, ev.Location.ToLogical(s.Scale()), ev.Time)
	case backend.EventButton:
		s.Modifiers(seat, ev.Mods)
		s.PointerMotion(seat, ev.Location.ToLogical(s.Scale()), ev.Time)
		s.PointerButton(seat, input.ButtonEvent{
			Button: ev.Button,
			State:  ev.State,
			Serial: s.Display().NextSerial(),
			Time:   ev.Time,
		})
	case backend.EventAxis:
		s.Modifiers(seat, ev.Mods)
		s.PointerAxis(seat, ev.Frame)
	case backend.EventResize:
		c.resize(ev.Size)
	case backend.EventClose:
		return shell.ErrQuit
	default:
		return fmt.Errorf("unknown backend event %T", ev)
	}
	return nil
}

// resize follows the physical size of the backend.
func (c *Compositor) resize(size geom.Size) {
	if size.Empty() {
		return
	}
	scale := c.shell.Scale()
	c.output.Resize(size)
	c.shell.Resize(geom.Size{
		W: int(float64(size.W) / scale.X),
		H: int(float64(size.H) / scale.Y),
	})
}

// NewHTTPServer serves handler on address until the service stops.
func NewHTTPServer(address string, handler http.Handler) sutureext.ServiceFunc {
	return sutureext.NewServiceFunc("server.HTTPServer", func(ctx context.Context) error {
		srv := &http.Server{
			Addr:    address,
			Handler: handler,
		}

		errC := make(chan error, 1)
		go func() {
			slog.Info("Listening", "func", "server.HTTPServer", "address", address)
			errC <- srv.ListenAndServe()
		}()

		select {
		case err := <-errC:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return ctx.Err()
		}
	})
}
