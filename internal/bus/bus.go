package bus

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

var (
	_ctx   = context.Background()
	_ctxMu sync.RWMutex
)

func SetContext(ctx context.Context) {
	_ctxMu.Lock()
	_ctx = ctx
	_ctxMu.Unlock()
}

func currentContext() context.Context {
	_ctxMu.RLock()
	defer _ctxMu.RUnlock()
	return _ctx
}

type handler struct {
	fn func(ctx context.Context, event any)
}

var (
	subs   = make(map[string][]*handler)
	subsMu sync.RWMutex
)

func topic[T any]() string {
	return fmt.Sprintf("%T", *new(T))
}

// Subscribe calls fn for every published T until the returned func is called.
func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) func() {
	subsMu.Lock()
	defer subsMu.Unlock()

	t := topic[T]()
	h := &handler{fn: func(ctx context.Context, event any) {
		if err := fn(ctx, event.(T)); err != nil {
			slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
		}
	}}
	subs[t] = append(subs[t], h)

	return func() {
		subsMu.Lock()
		defer subsMu.Unlock()

		subs[t] = slices.DeleteFunc(subs[t], func(other *handler) bool { return other == h })
	}
}

func Publish[T any](event T) {
	subsMu.RLock()
	fns := slices.Clone(subs[topic[T]()])
	subsMu.RUnlock()

	ctx := currentContext()
	for _, h := range fns {
		h.fn(ctx, event)
	}
}

func NewHub[T any](buffer int) *Hub[T] {
	return &Hub[T]{
		buffer: buffer,
		subs:   make(map[*chan T]struct{}),
	}
}

// Hub fans events out to subscribers. A subscriber that falls behind misses
// events instead of blocking the publisher.
type Hub[T any] struct {
	buffer     int
	unregister func()

	mu   sync.Mutex
	subs map[*chan T]struct{}
}

func (h *Hub[T]) Broadcast(ctx context.Context, event T) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case *sub <- event:
		default:
			slog.Debug("Dropped event for slow subscriber", "package", "bus", "topic", topic[T]())
		}
	}

	return nil
}

// Register subscribes the hub to events of type T until Close.
func (h *Hub[T]) Register() *Hub[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unregister == nil {
		h.unregister = Subscribe("bus.Hub", h.Broadcast)
	}
	return h
}

// Close unsubscribes the hub from the bus.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	unregister := h.unregister
	h.unregister = nil
	h.mu.Unlock()

	if unregister != nil {
		unregister()
	}
}

func (h *Hub[T]) Subscribe(ctx context.Context) (<-chan T, func()) {
	h.mu.Lock()
	c := make(chan T, h.buffer)

	key := &c
	h.subs[key] = struct{}{}
	h.mu.Unlock()

	return c, func() {
		h.mu.Lock()
		delete(h.subs, key)
		h.mu.Unlock()
	}
}
