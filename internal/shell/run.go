package shell

import (
	"context"

	"github.com/ItsNotGoodName/x-stackwm/internal/bus"
)

// EventChanged is published after a command changed the windows.
type EventChanged struct {
	Windows []WindowInfo
}

type command struct {
	fn   func(s *Shell) error
	errC chan error
}

// Do runs fn on the goroutine running Run and waits for it.
func (s *Shell) Do(ctx context.Context, fn func(s *Shell) error) error {
	cmd := command{fn: fn, errC: make(chan error, 1)}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.commandC <- cmd:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-cmd.errC:
		return err
	}
}

func (s *Shell) String() string {
	return "shell.Shell"
}

func (s *Shell) Serve(ctx context.Context) error {
	return s.Run(ctx)
}

// Run executes commands from Do until ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-s.commandC:
			cmd.errC <- cmd.fn(s)
			s.publish()
		}
	}
}

func (s *Shell) publish() {
	if !s.dirty {
		return
	}
	s.dirty = false
	bus.Publish(EventChanged{Windows: s.Snapshot()})
}
