package element

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/ItsNotGoodName/x-stackwm/internal/decoration"
	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/ItsNotGoodName/x-stackwm/internal/protocol"
	"github.com/ItsNotGoodName/x-stackwm/internal/render"
	"github.com/ItsNotGoodName/x-stackwm/internal/render/multi"
	"github.com/ItsNotGoodName/x-stackwm/internal/render/soft"
	xdraw "golang.org/x/image/draw"
)

var ErrDebugUnsupported = errors.New("debug overlay not supported by renderer")

const (
	debugPadding = 4
	debugPlotW   = 120
	debugPlotH   = 48
	debugAlpha   = 0xcc
)

var (
	debugBackground = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	debugText       = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	debugMinColor   = color.RGBA{R: 0x4a, G: 0x90, B: 0xe2, A: 0xff}
	debugCurColor   = color.RGBA{R: 0x7e, G: 0xd3, B: 0x21, A: 0xff}
	debugMaxColor   = color.RGBA{R: 0xd0, G: 0x02, B: 0x1b, A: 0xff}
)

// DebugState is the overlay of a mapped window in debug mode.
type DebugState struct {
	id          render.ID
	commit      render.Commit
	fingerprint debugInfo
}

// SetDebug turns the debug overlay on or off.
func (m *Mapped) SetDebug(on bool) {
	if !on {
		m.debug.clear()
		return
	}
	if _, ok := m.debug.get(); !ok {
		m.debug.set(DebugState{id: render.NewID()})
	}
}

func (m *Mapped) Debug() bool {
	_, ok := m.debug.get()
	return ok
}

type debugInfo struct {
	Title   string
	AppID   string
	Glyphs  string
	Min     geom.Size
	Current geom.Size
	Max     geom.Size
}

// StateGlyphs has one glyph per set state.
func StateGlyphs(s protocol.State) string {
	var b strings.Builder
	for _, g := range []struct {
		state protocol.State
		glyph byte
	}{
		{protocol.StateMaximized, 'M'},
		{protocol.StateFullscreen, 'F'},
		{protocol.StateActivated, 'A'},
		{protocol.StateResizing, 'R'},
		{protocol.StateTiledLeft, '<'},
		{protocol.StateTiledRight, '>'},
		{protocol.StateTiledTop, '^'},
		{protocol.StateTiledBottom, 'v'},
	} {
		if s.Contains(g.state) {
			b.WriteByte(g.glyph)
		}
	}
	return b.String()
}

func (m *Mapped) collectDebugInfo() debugInfo {
	t := m.v.activeWindow()
	return debugInfo{
		Title:   t.Attributes().Title,
		AppID:   t.Attributes().AppID,
		Glyphs:  StateGlyphs(t.CurrentState().States),
		Min:     m.MinSize(),
		Current: t.Geometry().Size(),
		Max:     m.MaxSize(),
	}
}

func (m *Mapped) debugElement(r render.Renderer, loc geom.Point, scale geom.Scale) (*debugElement, error) {
	switch r.(type) {
	case *soft.Renderer, *multi.Renderer:
	default:
		return nil, fmt.Errorf("%w: %T", ErrDebugUnsupported, r)
	}

	state, ok := m.debug.get()
	if !ok {
		return nil, errors.New("debug mode is off")
	}

	geo := m.Geometry()
	if geo.Empty() {
		return nil, errors.New("window has no size")
	}

	info := m.collectDebugInfo()
	if info != state.fingerprint {
		state.fingerprint = info
		state.commit++
		m.debug.set(state)
	}

	img := drawOverlay(info)
	if scale != geom.Uniform(1) {
		b := img.Bounds()
		size := geom.Size{W: b.Dx(), H: b.Dy()}.ToPhysical(scale)
		scaled := image.NewRGBA(image.Rect(0, 0, size.W, size.H))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
		img = scaled
	}

	// Top right corner of the content.
	at := geom.Point{X: max(geo.W-img.Bounds().Dx(), 0), Y: m.v.headerHeight()}
	return &debugElement{
		id:       state.id,
		commit:   state.commit,
		img:      img,
		location: loc.Add(at.ToPhysical(scale)),
	}, nil
}

func drawOverlay(info debugInfo) *image.RGBA {
	lines := []string{info.Title, info.AppID, info.Glyphs}
	lines = append(lines, fmt.Sprintf("%s < %s < %s", info.Min, info.Current, info.Max))

	width := debugPlotW
	for _, l := range lines {
		width = max(width, decoration.TextWidth(l))
	}
	width += 2 * debugPadding
	height := len(lines)*decoration.LineHeight() + debugPlotH + 3*debugPadding

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(debugBackground), image.Point{}, draw.Src)

	y := debugPadding
	for _, l := range lines {
		decoration.DrawText(img, image.Point{X: debugPadding, Y: y}, l, debugText)
		y += decoration.LineHeight()
	}

	plot := image.Rect(debugPadding, y+debugPadding, debugPadding+debugPlotW, y+debugPadding+debugPlotH)
	drawSizePlot(img, plot, info)
	return img
}

// drawSizePlot outlines the max, current and min sizes anchored at the top
// left of plot. An unconstrained max axis spans the plot.
func drawSizePlot(img *image.RGBA, plot image.Rectangle, info debugInfo) {
	refW := max(info.Min.W, info.Current.W, info.Max.W, 1)
	refH := max(info.Min.H, info.Current.H, info.Max.H, 1)
	f := min(float64(plot.Dx())/float64(refW), float64(plot.Dy())/float64(refH))

	rect := func(s geom.Size) image.Rectangle {
		w, h := int(float64(s.W)*f), int(float64(s.H)*f)
		return image.Rect(plot.Min.X, plot.Min.Y, plot.Min.X+w, plot.Min.Y+h)
	}

	maxRect := rect(info.Max)
	if info.Max.W == 0 {
		maxRect.Max.X = plot.Max.X
	}
	if info.Max.H == 0 {
		maxRect.Max.Y = plot.Max.Y
	}

	outline(img, maxRect, debugMaxColor)
	outline(img, rect(info.Current), debugCurColor)
	outline(img, rect(info.Min), debugMinColor)
}

func outline(img *image.RGBA, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(img, edge, src, image.Point{}, draw.Src)
	}
}

// debugElement draws straight into soft frames.
type debugElement struct {
	id       render.ID
	commit   render.Commit
	img      *image.RGBA
	location geom.Point
}

func (e *debugElement) size() geom.Size {
	b := e.img.Bounds()
	return geom.Size{W: b.Dx(), H: b.Dy()}
}

func (e *debugElement) ID() render.ID { return e.id }

func (e *debugElement) CurrentCommit() render.Commit { return e.commit }

func (e *debugElement) Src() geom.RectF {
	s := e.size()
	return geom.RectF{W: float64(s.W), H: float64(s.H)}
}

func (e *debugElement) Geometry(scale geom.Scale) geom.Rect {
	return geom.RectFrom(e.location, e.size())
}

func (e *debugElement) Location(scale geom.Scale) geom.Point { return e.location }

func (e *debugElement) Transform() geom.Transform { return geom.TransformNormal }

func (e *debugElement) DamageSince(scale geom.Scale, commit *render.Commit) []geom.Rect {
	if commit != nil && *commit == e.commit {
		return nil
	}
	return []geom.Rect{geom.RectFrom(geom.Point{}, e.size())}
}

func (e *debugElement) OpaqueRegions(scale geom.Scale) []geom.Rect { return nil }

func (e *debugElement) Draw(frame render.Frame, src geom.RectF, dst geom.Rect, damage []geom.Rect) error {
	switch f := frame.(type) {
	case *soft.Frame:
		return e.drawSoft(f, dst, damage)
	case *multi.Frame:
		return render.Wrap(f.Renderer().ID(), "debug_overlay", e.drawSoft(f.Primary(), dst, damage))
	default:
		return fmt.Errorf("%w: %T", render.ErrUnsupported, frame)
	}
}

func (e *debugElement) drawSoft(f *soft.Frame, dst geom.Rect, damage []geom.Rect) error {
	if f.Finished() {
		return render.ErrFrameFinished
	}
	mask := image.NewUniform(color.Alpha{A: debugAlpha})
	for _, d := range damage {
		clip, ok := d.Translate(dst.Loc()).Intersect(dst)
		if !ok {
			continue
		}
		r := image.Rect(clip.X, clip.Y, clip.Right(), clip.Bottom())
		sp := image.Point{X: clip.X - dst.X, Y: clip.Y - dst.Y}
		draw.DrawMask(f.Target(), r, e.img, sp, mask, image.Point{}, draw.Over)
	}
	return nil
}
