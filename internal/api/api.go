// Package api is the HTTP control API of the compositor.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/ItsNotGoodName/x-stackwm/internal/build"
	"github.com/ItsNotGoodName/x-stackwm/internal/bus"
	"github.com/ItsNotGoodName/x-stackwm/internal/element"
	"github.com/ItsNotGoodName/x-stackwm/internal/shell"
	"github.com/ItsNotGoodName/x-stackwm/pkg/chiext"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// NewRouter returns the router serving the API under /api.
func NewRouter(s *shell.Shell, hub *bus.Hub[shell.EventChanged]) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chiext.Logger())
	r.Use(middleware.Recoverer)

	config := huma.DefaultConfig("x-stackwm", build.Current.Version)
	config.OpenAPIPath = "/api/openapi"
	config.DocsPath = "/api/docs"
	config.SchemasPath = "/api/schemas"
	Register(humachi.New(r, config), NewHandler(s, hub))

	return r
}

func NewHandler(s *shell.Shell, hub *bus.Hub[shell.EventChanged]) *Handler {
	return &Handler{
		shell: s,
		hub:   hub,
	}
}

type Handler struct {
	shell *shell.Shell
	hub   *bus.Hub[shell.EventChanged]
}

func Register(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-build",
		Method:      http.MethodGet,
		Path:        "/api/build",
		Summary:     "Get build",
		Tags:        []string{"meta"},
	}, h.GetBuild)
	huma.Register(api, huma.Operation{
		OperationID: "list-windows",
		Method:      http.MethodGet,
		Path:        "/api/windows",
		Summary:     "List windows",
		Tags:        []string{"windows"},
	}, h.ListWindows)
	huma.Register(api, huma.Operation{
		OperationID: "close-window",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/close",
		Summary:     "Close the active tab of a window",
		Tags:        []string{"windows"},
	}, h.CloseWindow)
	huma.Register(api, huma.Operation{
		OperationID: "toggle-window-debug",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/debug",
		Summary:     "Toggle the debug overlay of a window",
		Tags:        []string{"windows"},
	}, h.ToggleDebug)
	huma.Register(api, huma.Operation{
		OperationID: "activate-tab",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/tabs/{index}/activate",
		Summary:     "Activate a tab of a stack",
		Tags:        []string{"windows"},
	}, h.ActivateTab)
	huma.Register(api, huma.Operation{
		OperationID: "move-focus",
		Method:      http.MethodPost,
		Path:        "/api/focus/{direction}",
		Summary:     "Move keyboard focus",
		Tags:        []string{"focus"},
	}, h.MoveFocus)
	sse.Register(api, huma.Operation{
		OperationID: "watch-windows",
		Method:      http.MethodGet,
		Path:        "/api/windows/events",
		Summary:     "Stream window changes",
		Tags:        []string{"windows"},
	}, map[string]any{
		"windows": []shell.WindowInfo{},
	}, h.WatchWindows)
}

type BuildOutput struct {
	Body build.Build
}

func (h *Handler) GetBuild(ctx context.Context, input *struct{}) (*BuildOutput, error) {
	return &BuildOutput{Body: build.Current}, nil
}

type WindowsOutput struct {
	Body []shell.WindowInfo
}

func (h *Handler) ListWindows(ctx context.Context, input *struct{}) (*WindowsOutput, error) {
	var windows []shell.WindowInfo
	err := h.shell.Do(ctx, func(s *shell.Shell) error {
		windows = s.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &WindowsOutput{Body: windows}, nil
}

type WindowInput struct {
	ID string `path:"id" format:"uuid" doc:"window id"`
}

func (h *Handler) CloseWindow(ctx context.Context, input *WindowInput) (*struct{}, error) {
	err := h.window(ctx, input.ID, func(s *shell.Shell, m *element.Mapped) error {
		m.SendClose()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

type WindowOutput struct {
	Body shell.WindowInfo
}

func (h *Handler) ToggleDebug(ctx context.Context, input *WindowInput) (*WindowOutput, error) {
	var info shell.WindowInfo
	err := h.window(ctx, input.ID, func(s *shell.Shell, m *element.Mapped) error {
		s.SetWindowDebug(m, !m.Debug())
		info = s.Info(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &WindowOutput{Body: info}, nil
}

type TabInput struct {
	ID    string `path:"id" format:"uuid" doc:"window id"`
	Index int    `path:"index" minimum:"0" doc:"tab index"`
}

func (h *Handler) ActivateTab(ctx context.Context, input *TabInput) (*WindowOutput, error) {
	var info shell.WindowInfo
	err := h.window(ctx, input.ID, func(s *shell.Shell, m *element.Mapped) error {
		if err := s.ActivateTab(m, input.Index); err != nil {
			return err
		}
		info = s.Info(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &WindowOutput{Body: info}, nil
}

type FocusInput struct {
	Direction string `path:"direction" enum:"left,right,up,down"`
}

type FocusResult struct {
	Moved  bool              `json:"moved"`
	Window *shell.WindowInfo `json:"window,omitempty"`
}

type FocusOutput struct {
	Body FocusResult
}

func (h *Handler) MoveFocus(ctx context.Context, input *FocusInput) (*FocusOutput, error) {
	dir, ok := element.ParseDirection(input.Direction)
	if !ok {
		return nil, huma.Error422UnprocessableEntity("invalid direction", errors.New(input.Direction))
	}

	var res FocusOutput
	err := h.shell.Do(ctx, func(s *shell.Shell) error {
		res.Body.Moved = s.MoveFocus(dir)
		if m := s.Focused(); m != nil {
			info := s.Info(m)
			res.Body.Window = &info
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// WatchWindows sends the windows now and after every change.
func (h *Handler) WatchWindows(ctx context.Context, input *struct{}, send sse.Sender) {
	eventC, unsubscribe := h.hub.Subscribe(ctx)
	defer unsubscribe()

	var windows []shell.WindowInfo
	err := h.shell.Do(ctx, func(s *shell.Shell) error {
		windows = s.Snapshot()
		return nil
	})
	if err != nil {
		return
	}
	if err := send.Data(windows); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventC:
			if err := send.Data(ev.Windows); err != nil {
				return
			}
		}
	}
}

// window runs fn with the window id on the shell goroutine.
func (h *Handler) window(ctx context.Context, id string, fn func(s *shell.Shell, m *element.Mapped) error) error {
	windowID, err := uuid.Parse(id)
	if err != nil {
		return huma.Error422UnprocessableEntity("invalid window id", err)
	}

	err = h.shell.Do(ctx, func(s *shell.Shell) error {
		m, ok := s.Window(windowID)
		if !ok {
			return shell.ErrNotMapped
		}
		return fn(s, m)
	})
	return convertError(err)
}

func convertError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shell.ErrNotMapped):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, shell.ErrNotStack), errors.Is(err, element.ErrNotFound):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		return err
	}
}
