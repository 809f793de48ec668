package server

import (
	"fmt"
	"image/color"

	"github.com/ItsNotGoodName/x-stackwm/internal/config"
	"github.com/ItsNotGoodName/x-stackwm/internal/decoration"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/layout/tiling"
	"github.com/ItsNotGoodName/x-stackwm/internal/shell"
)

// ShellOptions builds the shell options of cfg.
func ShellOptions(cfg config.Config) (shell.Options, error) {
	if err := config.Validate(cfg); err != nil {
		return shell.Options{}, err
	}

	opts := shell.DefaultOptions()
	opts.Output = geom.Size{W: cfg.Output.Width, H: cfg.Output.Height}
	opts.Scale = cfg.Output.Scale
	opts.Gap = cfg.Tiling.Gap
	opts.FloatingSize = geom.Size{W: cfg.Floating.Width, H: cfg.Floating.Height}
	opts.Debug = cfg.Debug
	if len(cfg.Seats) > 0 {
		opts.Seats = cfg.Seats
	}

	var err error
	if opts.Theme, err = Theme(cfg.Decoration); err != nil {
		return shell.Options{}, err
	}
	if opts.Background, err = config.ParseColor(cfg.Background); err != nil {
		return shell.Options{}, err
	}

	switch cfg.Tiling.Mode {
	case config.TilingManual:
		panes := make([]tiling.Pane, 0, len(cfg.Tiling.Panes))
		for _, p := range cfg.Tiling.Panes {
			panes = append(panes, tiling.Pane(p))
		}
		opts.Layout = tiling.Manual{Panes: panes}
	default:
		opts.Layout = tiling.Grid{}
	}

	return opts, nil
}

func Theme(cfg config.Decoration) (decoration.Theme, error) {
	theme := decoration.DefaultTheme()
	if cfg.Height > 0 {
		theme.Height = cfg.Height
	}
	if cfg.Padding > 0 {
		theme.Padding = cfg.Padding
	}

	for _, c := range []struct {
		name string
		src  string
		dst  *color.RGBA
	}{
		{"background", cfg.Background, &theme.Background},
		{"background_focused", cfg.BackgroundFocused, &theme.BackgroundFocused},
		{"tab", cfg.Tab, &theme.Tab},
		{"tab_active", cfg.TabActive, &theme.TabActive},
		{"text", cfg.Text, &theme.Text},
		{"text_focused", cfg.TextFocused, &theme.TextFocused},
	} {
		rgba, err := config.ParseColor(c.src)
		if err != nil {
			return decoration.Theme{}, fmt.Errorf("decoration %s: %w", c.name, err)
		}
		*c.dst = rgba
	}

	return theme, nil
}
