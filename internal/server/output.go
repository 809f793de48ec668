package server

import (
	"errors"
	"fmt"
	"image"

	"github.com/ItsNotGoodName/x-stackwm/internal/config"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
	"github.com/ItsNotGoodName/x-stackwm/internal/render/multi"
	"github.com/ItsNotGoodName/x-stackwm/internal/render/soft"
	"github.com/ItsNotGoodName/x-stackwm/internal/shell"
)

// Output renders the shell into the image that is presented.
type Output struct {
	primary *soft.Renderer
	multi   *multi.Renderer
	target  *soft.Renderer
	damage  *render.DamageTracker
}

// NewOutput creates the renderers of cfg. The multi renderer draws on the
// first adapter and presents from the last one.
func NewOutput(cfg config.Output) (*Output, error) {
	size := geom.Size{W: cfg.Width, H: cfg.Height}.ToPhysical(geom.Uniform(cfg.Scale))

	switch cfg.Renderer {
	case config.RendererSoft:
		r := soft.New(config.RendererSoft, size)
		return &Output{primary: r, target: r}, nil
	case config.RendererMulti:
		if len(cfg.Adapters) == 0 {
			return nil, errors.New("multi renderer needs adapters")
		}
		primary := soft.New(cfg.Adapters[0], size)
		var others []*soft.Renderer
		for _, id := range cfg.Adapters[1:] {
			others = append(others, soft.New(id, size))
		}
		target := primary
		if len(others) > 0 {
			target = others[len(others)-1]
		}
		return &Output{
			primary: primary,
			multi:   multi.New(config.RendererMulti, primary, others...),
			target:  target,
		}, nil
	default:
		return nil, fmt.Errorf("renderer %q not supported", cfg.Renderer)
	}
}

func (o *Output) Renderer() render.Renderer {
	if o.multi != nil {
		return o.multi
	}
	return o.primary
}

// Size is the physical size of the presented image.
func (o *Output) Size() geom.Size { return o.target.Size() }

// Resize changes the physical size of every adapter.
func (o *Output) Resize(size geom.Size) {
	if size == o.target.Size() {
		return
	}
	o.primary.Resize(size)
	if o.target != o.primary {
		o.target.Resize(size)
	}
	if o.damage != nil {
		o.damage.Resize(size, o.damage.Scale())
	}
}

// Render draws s and returns the presented image with its damage. The
// damage is empty when nothing changed.
func (o *Output) Render(s *shell.Shell) (*image.RGBA, []geom.Rect, error) {
	if o.damage == nil {
		o.damage = s.NewDamageTracker()
	}

	var frame render.Frame
	if o.multi != nil {
		f, err := o.multi.Render(o.target.ID())
		if err != nil {
			return nil, nil, err
		}
		frame = f
	} else {
		f, err := o.primary.Render()
		if err != nil {
			return nil, nil, err
		}
		frame = f
	}

	damage, err := s.Render(o.Renderer(), frame, o.damage)
	if ferr := frame.Finish(); ferr != nil {
		err = errors.Join(err, ferr)
	}
	if err != nil {
		// The next frame redraws everything.
		o.damage.Reset()
		return nil, nil, err
	}

	return o.target.Image(), damage, nil
}
