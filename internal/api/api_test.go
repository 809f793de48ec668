package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ItsNotGoodName/x-stackwm/internal/bus"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
	"github.com/ItsNotGoodName/x-stackwm/internal/shell"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	shell   *shell.Shell
	router  http.Handler
	stack   *protocol.Toplevel
	tab     *protocol.Toplevel
	window  *protocol.Toplevel
	windows []shell.WindowInfo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	opts := shell.DefaultOptions()
	opts.Output = geom.Size{W: 400, H: 300}
	opts.Gap = 0
	s := shell.New(protocol.NewDisplay(), opts)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Run(ctx)

	hub := bus.NewHub[shell.EventChanged](8).Register()
	t.Cleanup(hub.Close)

	f := &fixture{
		shell:  s,
		router: NewRouter(s, hub),
	}
	open := func(title string) *protocol.Toplevel {
		surface := s.Display().CreateSurface()
		surface.WithAttributes(func(attrs *protocol.Attributes) { attrs.Title = title })
		return s.Display().CreateToplevel(surface, uuid.New())
	}
	f.stack, f.tab, f.window = open("a"), open("b"), open("c")

	err := s.Do(ctx, func(s *shell.Shell) error {
		if _, err := s.MapToplevel(f.stack, shell.MapOptions{Group: "g"}); err != nil {
			return err
		}
		if _, err := s.MapToplevel(f.tab, shell.MapOptions{Group: "g"}); err != nil {
			return err
		}
		if _, err := s.MapToplevel(f.window, shell.MapOptions{}); err != nil {
			return err
		}
		f.windows = s.Snapshot()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, f.windows, 2)

	return f
}

func (f *fixture) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListWindows(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/windows")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var windows []shell.WindowInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &windows))
	require.Len(t, windows, 2)
	assert.Equal(t, "stack", windows[0].Kind)
	assert.Len(t, windows[0].Tabs, 2)
	assert.Equal(t, "c", windows[1].Title)
	assert.True(t, windows[1].Focused)
}

func TestCloseWindow(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/windows/"+f.windows[1].ID.String()+"/close")
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	var requests int
	require.NoError(t, f.shell.Do(context.Background(), func(s *shell.Shell) error {
		requests = f.window.CloseRequests()
		return nil
	}))
	assert.Equal(t, 1, requests)

	rec = f.do(t, http.MethodPost, "/api/windows/"+uuid.NewString()+"/close")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/windows/nope/close")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestToggleDebug(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/windows/"+f.windows[0].ID.String()+"/debug")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var info shell.WindowInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.True(t, info.Debug)
}

func TestActivateTab(t *testing.T) {
	f := newFixture(t)
	stack := f.windows[0].ID.String()

	rec := f.do(t, http.MethodPost, "/api/windows/"+stack+"/tabs/0/activate")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var info shell.WindowInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "a", info.Title)
	assert.True(t, info.Tabs[0].Active)

	rec = f.do(t, http.MethodPost, "/api/windows/"+stack+"/tabs/5/activate")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/windows/"+f.windows[1].ID.String()+"/tabs/0/activate")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMoveFocus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/focus/left")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Moved  bool              `json:"moved"`
		Window *shell.WindowInfo `json:"window"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Moved)
	require.NotNil(t, res.Window)
	assert.Equal(t, f.windows[0].ID, res.Window.ID)

	rec = f.do(t, http.MethodPost, "/api/focus/sideways")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWatchWindows(t *testing.T) {
	f := newFixture(t)
	server := httptest.NewServer(f.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/windows/events", nil)
	require.NoError(t, err)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	buf := make([]byte, 4096)
	n, err := res.Body.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "event: windows")
}
