// Package sutureext wires suture supervisors into slog and adds small service
// helpers.
package sutureext

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
)

func NewSimple(name string) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook: EventHook(),
	})
}

// Serve runs super until ctx is done or a service asks to terminate the tree.
// Both count as a clean stop.
func Serve(ctx context.Context, super *suture.Supervisor) error {
	err := super.Serve(ctx)
	if errors.Is(err, suture.ErrTerminateSupervisorTree) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func EventHook() suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			slog.Warn("Service did not stop in time", source(e.SupervisorName, e.ServiceName)...)
		case suture.EventServicePanic:
			slog.Error("Service panicked", append(source(e.SupervisorName, e.ServiceName), "panic", e.PanicMsg)...)
			slog.Debug(e.Stacktrace)
		case suture.EventServiceTerminate:
			args := append(source(e.SupervisorName, e.ServiceName), "error", e.Err)
			if !e.Restarting {
				slog.Info("Service stopped", args...)
				return
			}
			slog.Error("Service failed, restarting", args...)
		case suture.EventBackoff:
			slog.Warn("Too many service failures, backing off", "package", "sutureext", "supervisor", e.SupervisorName)
		case suture.EventResume:
			slog.Info("Leaving backoff", "package", "sutureext", "supervisor", e.SupervisorName)
		default:
			b, _ := json.Marshal(e)
			slog.Warn("Unknown supervisor event", "package", "sutureext", "type", int(e.Type()), "event", string(b))
		}
	}
}

func source(supervisor, service string) []any {
	return []any{"package", "sutureext", "supervisor", supervisor, "service", service}
}

// Service forces the use of the String method
type Service interface {
	String() string
	suture.Service
}

func Add(super *suture.Supervisor, service Service) suture.ServiceToken {
	return super.Add(sanitizeService{Service: service})
}

type sanitizeService struct {
	Service
}

func (s sanitizeService) Serve(ctx context.Context) error {
	return SanitizeError(ctx, s.Service.Serve(ctx))
}

// SanitizeError hides context errors returned while ctx is still live, since
// suture stops a service for good when it returns one. The suture control
// errors survive.
func SanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	errs := []error{errors.New(err.Error())}
	for _, control := range []error{suture.ErrDoNotRestart, suture.ErrTerminateSupervisorTree} {
		if errors.Is(err, control) {
			errs = append(errs, control)
		}
	}
	return errors.Join(errs...)
}

type ServiceFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func NewServiceFunc(name string, fn func(ctx context.Context) error) ServiceFunc {
	return ServiceFunc{
		name: name,
		fn:   fn,
	}
}

func (s ServiceFunc) String() string {
	return s.name
}

func (s ServiceFunc) Serve(ctx context.Context) error {
	return s.fn(ctx)
}

// NewTicker calls fn every interval until ctx is done or fn fails.
func NewTicker(name string, interval time.Duration, fn func(ctx context.Context) error) ServiceFunc {
	return NewServiceFunc(name, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					return err
				}
			}
		}
	})
}
