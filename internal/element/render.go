package element

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
	"github.com/google/uuid"
)

type RenderKind uint8

const (
	RenderContent RenderKind = iota
	RenderDecoration
	RenderDebug
)

// RenderElement is one drawable of a mapped window.
type RenderElement struct {
	render.Element
	Kind RenderKind
}

// AsElements converts a render element list for a damage tracker.
func AsElements(elements []RenderElement) []render.Element {
	return render.Convert(elements, func(e RenderElement) render.Element { return e })
}

type composer interface {
	compose(r render.Renderer, loc geom.Point, scale geom.Scale, alpha float32) ([]RenderElement, error)
}

// RenderElements returns the elements of the mapped window, front to back, for
// a window whose top left corner is at the physical location loc.
func (m *Mapped) RenderElements(r render.Renderer, loc geom.Point, scale geom.Scale, alpha float32) ([]RenderElement, error) {
	var c composer = variantStage{m: m}
	if m.Debug() {
		c = debugStage{next: c, m: m}
	}
	return c.compose(r, loc, scale, alpha)
}

type variantStage struct {
	m *Mapped
}

func (s variantStage) compose(r render.Renderer, loc geom.Point, scale geom.Scale, alpha float32) ([]RenderElement, error) {
	m := s.m
	m.v.decorate(m.Geometry().W, m.IsActivated())

	header, err := m.v.headerElements(r, loc, scale)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	content, err := m.contentElements(r, loc, scale, alpha)
	if err != nil {
		return nil, err
	}

	elements := make([]RenderElement, 0, len(header)+len(content))
	for _, e := range header {
		elements = append(elements, RenderElement{Element: e, Kind: RenderDecoration})
	}
	for _, e := range content {
		elements = append(elements, RenderElement{Element: e, Kind: RenderContent})
	}
	return elements, nil
}

// debugStage puts the debug overlay in front of the next stage. A failing
// overlay is left out of the frame.
type debugStage struct {
	next composer
	m    *Mapped
}

func (s debugStage) compose(r render.Renderer, loc geom.Point, scale geom.Scale, alpha float32) ([]RenderElement, error) {
	elements, err := s.next.compose(r, loc, scale, alpha)
	if err != nil {
		return nil, err
	}

	overlay, err := s.m.debugElement(r, loc, scale)
	if err != nil {
		slog.Debug("Failed to render debug overlay", "window", s.m.id, "error", err)
		return elements, nil
	}

	return append([]RenderElement{{Element: overlay, Kind: RenderDebug}}, elements...), nil
}

// contentElements draws the active window with popups in front of
// subsurfaces in front of the toplevel surface.
func (m *Mapped) contentElements(r render.Renderer, loc geom.Point, scale geom.Scale, alpha float32) ([]render.Element, error) {
	t := m.v.activeWindow()
	origin := geom.Point{Y: m.v.headerHeight()}
	seen := make(map[uuid.UUID]struct{})

	var popups [][]render.Element
	for p, at := range t.Popups() {
		elements, err := m.surfaceElements(r, p.Surface(), origin.Add(at), loc, scale, alpha, seen)
		if err != nil {
			return nil, err
		}
		popups = append(popups, elements)
	}

	var elements []render.Element
	for i := len(popups) - 1; i >= 0; i-- {
		elements = append(elements, popups[i]...)
	}

	tree, err := m.surfaceElements(r, t.Surface(), origin, loc, scale, alpha, seen)
	if err != nil {
		return nil, err
	}
	elements = append(elements, tree...)

	m.textures.retain(r.ID(), seen)
	return elements, nil
}

func (m *Mapped) surfaceElements(r render.Renderer, root *protocol.Surface, origin, loc geom.Point, scale geom.Scale, alpha float32, seen map[uuid.UUID]struct{}) ([]render.Element, error) {
	type placed struct {
		surface *protocol.Surface
		at      geom.Point
	}
	var tree []placed
	protocol.WalkDown(root, func(s *protocol.Surface, at geom.Point) protocol.TraversalAction {
		if !s.Alive() {
			return protocol.SkipChildren
		}
		tree = append(tree, placed{surface: s, at: at})
		return protocol.DoChildren
	})

	var elements []render.Element
	for i := len(tree) - 1; i >= 0; i-- {
		s := tree[i].surface
		if s.Buffer() == nil {
			continue
		}

		tex, err := m.textures.get(r, s)
		if err != nil {
			return nil, fmt.Errorf("import surface %s: %w", s.ID(), err)
		}
		seen[s.ID()] = struct{}{}

		size := s.Size().ToPhysical(scale)
		elements = append(elements, render.NewTextureElement(
			render.ID(s.ID()),
			render.Commit(s.CommitCounter()),
			tex,
			loc.Add(origin.Add(tree[i].at).ToPhysical(scale)),
			render.TextureOptions{
				Size:   &size,
				Alpha:  &alpha,
				Damage: surfaceDamage(s),
			},
		))
	}
	return elements, nil
}

func surfaceDamage(s *protocol.Surface) render.DamageFunc {
	return func(commit *render.Commit) []geom.Rect {
		if commit == nil {
			return s.DamageSince(nil)
		}
		c := uint64(*commit)
		return s.DamageSince(&c)
	}
}

type textureKey struct {
	renderer string
	surface  uuid.UUID
}

type cachedTexture struct {
	commit  uint64
	texture render.Texture
}

// textureCache keeps one imported texture per surface and renderer until the
// surface commits a new buffer.
type textureCache struct {
	mu      sync.Mutex
	entries map[textureKey]cachedTexture
}

func (c *textureCache) get(r render.Renderer, s *protocol.Surface) (render.Texture, error) {
	key := textureKey{renderer: r.ID(), surface: s.ID()}

	c.mu.Lock()
	cached, ok := c.entries[key]
	c.mu.Unlock()
	if ok && cached.commit == s.CommitCounter() {
		return cached.texture, nil
	}

	tex, err := r.ImportImage(s.Buffer())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[textureKey]cachedTexture)
	}
	c.entries[key] = cachedTexture{commit: s.CommitCounter(), texture: tex}
	c.mu.Unlock()
	return tex, nil
}

// retain drops the textures of renderer whose surface was not drawn.
func (c *textureCache) retain(renderer string, seen map[uuid.UUID]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.renderer != renderer {
			continue
		}
		if _, ok := seen[key.surface]; !ok {
			delete(c.entries, key)
		}
	}
}
