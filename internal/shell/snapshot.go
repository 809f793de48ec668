package shell

import (
	"github.com/ItsNotGoodName/x-stackwm/internal/element"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/google/uuid"
)

type TabInfo struct {
	Title  string `json:"title"`
	AppID  string `json:"app_id"`
	Active bool   `json:"active"`
}

// WindowInfo is a serializable view of a mapped window.
type WindowInfo struct {
	ID       uuid.UUID `json:"id"`
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	AppID    string    `json:"app_id"`
	Geometry geom.Rect `json:"geometry"`
	MinSize  geom.Size `json:"min_size"`
	MaxSize  geom.Size `json:"max_size"`
	Floating bool      `json:"floating"`
	Tiled    bool      `json:"tiled"`
	Focused  bool      `json:"focused"`
	Debug    bool      `json:"debug"`
	States   []string  `json:"states"`
	Tabs     []TabInfo `json:"tabs,omitempty"`
}

// Snapshot describes the mapped windows in map order.
func (s *Shell) Snapshot() []WindowInfo {
	infos := make([]WindowInfo, 0, len(s.windows))
	for _, m := range s.windows {
		infos = append(infos, s.Info(m))
	}
	return infos
}

// Info describes m.
func (s *Shell) Info(m *element.Mapped) WindowInfo {
	geo, _ := s.geometry(m)
	info := WindowInfo{
		ID:       m.ID(),
		Kind:     m.Kind().String(),
		Title:    m.Title(),
		AppID:    m.AppID(),
		Geometry: geo,
		MinSize:  m.MinSize(),
		MaxSize:  m.MaxSize(),
		Floating: s.floating.Contains(m),
		Tiled:    s.tiling.Contains(m),
		Focused:  s.Focused() == m,
		Debug:    m.Debug(),
		States:   m.States().Names(),
	}
	if stack, ok := m.Stack(); ok {
		for i, t := range stack.Tabs() {
			attrs := t.Attributes()
			info.Tabs = append(info.Tabs, TabInfo{
				Title:  attrs.Title,
				AppID:  attrs.AppID,
				Active: i == stack.ActiveIndex(),
			})
		}
	}
	return info
}
