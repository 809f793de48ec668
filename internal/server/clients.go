package server

import (
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-stackwm/internal/client"
	"github.com/ItsNotGoodName/x-stackwm/internal/config"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/shell"
)

var popupGeometry = geom.Rect{X: 32, Y: 32, W: 120, H: 60}

// SpawnClients starts the demo clients of cfgs and maps their windows. It
// must run on the shell goroutine.
func SpawnClients(s *shell.Shell, cfgs []config.Client) ([]*client.Client, error) {
	var clients []*client.Client
	for _, cfg := range cfgs {
		c, err := spawnClient(s, cfg)
		if err != nil {
			return nil, fmt.Errorf("client %q: %w", cfg.Title, err)
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func spawnClient(s *shell.Shell, cfg config.Client) (*client.Client, error) {
	color, err := config.ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}

	c := client.New(s.Display(), client.Options{
		Title:   cfg.Title,
		AppID:   cfg.AppID,
		Color:   color,
		MinSize: geom.Size{W: cfg.MinWidth, H: cfg.MinHeight},
		MaxSize: geom.Size{W: cfg.MaxWidth, H: cfg.MaxHeight},
		Badge:   cfg.Badge,
	})

	count := max(cfg.Windows, 1)
	for i := range count {
		title := cfg.Title
		if count > 1 {
			title = fmt.Sprintf("%s %d", cfg.Title, i+1)
		}

		t := c.Open(title)
		if _, err := s.MapToplevel(t, shell.MapOptions{Group: cfg.Group, Floating: cfg.Floating}); err != nil {
			return nil, err
		}
		if cfg.Popup && i == 0 {
			c.OpenPopup(t, popupGeometry)
		}
	}

	slog.Debug("Spawned client", "func", "server.spawnClient", "client", c.ID(), "uuid", cfg.UUID, "windows", count)
	return c, nil
}
