package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Driver interface {
	Exists() (bool, error)
	Write(config Config) error
	Read() (Config, error)
}

// Default returns a copy of the config written on first start.
func Default() Config {
	cfg := defaultConfig
	cfg.Seats = append([]string(nil), defaultConfig.Seats...)
	cfg.Clients = append([]Client(nil), defaultConfig.Clients...)
	return cfg
}

func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(Default()); err != nil {
			return Store{}, err
		}
	}

	return Store{
		driver: driver,
	}, nil
}

type Store struct {
	driver Driver
}

func (p *Store) GetConfig() (Config, error) {
	return p.driver.Read()
}

func (p *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	cfg, err := p.driver.Read()
	if err != nil {
		return err
	}

	cfg, err = fn(cfg)
	if err != nil {
		return err
	}

	return p.driver.Write(cfg)
}

// Normalize gives every client an id.
func Normalize(store *Store) error {
	return store.UpdateConfig(func(cfg Config) (Config, error) {
		for i := range cfg.Clients {
			if cfg.Clients[i].UUID == "" {
				cfg.Clients[i].UUID = uuid.NewString()
			}
		}

		return cfg, nil
	})
}

func Validate(cfg Config) error {
	var errs []error
	if cfg.Output.Width <= 0 || cfg.Output.Height <= 0 {
		errs = append(errs, fmt.Errorf("output size %dx%d is empty", cfg.Output.Width, cfg.Output.Height))
	}
	if cfg.Output.Scale <= 0 {
		errs = append(errs, fmt.Errorf("output scale %v must be positive", cfg.Output.Scale))
	}
	switch cfg.Output.Renderer {
	case RendererSoft:
	case RendererMulti:
		if len(cfg.Output.Adapters) == 0 {
			errs = append(errs, errors.New("multi renderer needs adapters"))
		}
	default:
		errs = append(errs, fmt.Errorf("renderer %q not supported", cfg.Output.Renderer))
	}
	switch cfg.Tiling.Mode {
	case TilingGrid:
	case TilingManual:
		for i, p := range cfg.Tiling.Panes {
			if p.X < 0 || p.Y < 0 || p.W <= 0 || p.H <= 0 || p.X+p.W > 1 || p.Y+p.H > 1 {
				errs = append(errs, fmt.Errorf("pane %d is outside the output", i))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("tiling mode %q not supported", cfg.Tiling.Mode))
	}
	for _, c := range []string{
		cfg.Background,
		cfg.Decoration.Background,
		cfg.Decoration.BackgroundFocused,
		cfg.Decoration.Tab,
		cfg.Decoration.TabActive,
		cfg.Decoration.Text,
		cfg.Decoration.TextFocused,
	} {
		if _, err := ParseColor(c); err != nil {
			errs = append(errs, err)
		}
	}
	for i, c := range cfg.Clients {
		if _, err := ParseColor(c.Color); err != nil {
			errs = append(errs, fmt.Errorf("client %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// ParseColor parses #rrggbb and #rrggbbaa.
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
