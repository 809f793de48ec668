// Package render is the renderer abstraction shared by the render element
// producers and the draw backends.
//
// Element lists are ordered front to back: the first element is drawn last.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/google/uuid"
)

var (
	ErrForeignTexture = errors.New("texture belongs to another renderer")
	ErrFrameFinished  = errors.New("frame already finished")
	ErrUnsupported    = errors.New("unsupported by renderer")
)

// ID is the stable identity of an element across frames.
type ID uuid.UUID

func NewID() ID { return ID(uuid.New()) }

func (id ID) String() string { return uuid.UUID(id).String() }

// Commit counts content changes of an element.
type Commit uint64

// Texture is image data imported into a renderer.
type Texture interface {
	Size() geom.Size
}

// Renderer imports images and starts frames.
type Renderer interface {
	ID() string
	ImportImage(img image.Image) (Texture, error)
}

// Frame is one draw pass. Rectangles are physical and absolute to the
// frame's target unless noted otherwise.
type Frame interface {
	Size() geom.Size
	Clear(c color.Color, regions ...geom.Rect) error
	// DrawSolid fills dst clipped to damage. Damage is relative to dst.
	DrawSolid(dst geom.Rect, damage []geom.Rect, c color.Color) error
	// DrawTexture draws the src region of tex into dst clipped to damage.
	// Damage is relative to dst.
	DrawTexture(tex Texture, src geom.RectF, dst geom.Rect, damage []geom.Rect, transform geom.Transform, alpha float32) error
	Finish() error
}

// Element is a drawable primitive with damage and geometry metadata.
type Element interface {
	ID() ID
	CurrentCommit() Commit
	// Src is the source region in buffer coordinates.
	Src() geom.RectF
	// Geometry is the physical destination rectangle.
	Geometry(scale geom.Scale) geom.Rect
	Location(scale geom.Scale) geom.Point
	Transform() geom.Transform
	// DamageSince returns damage relative to Geometry since commit. A nil
	// commit damages everything.
	DamageSince(scale geom.Scale, commit *Commit) []geom.Rect
	// OpaqueRegions are relative to Geometry.
	OpaqueRegions(scale geom.Scale) []geom.Rect
	Draw(frame Frame, src geom.RectF, dst geom.Rect, damage []geom.Rect) error
}

// Convert maps elements into the caller's primitive type.
func Convert[E any, C any](elements []E, fn func(E) C) []C {
	out := make([]C, 0, len(elements))
	for _, e := range elements {
		out = append(out, fn(e))
	}
	return out
}

// Error is the renderer independent error returned by delegating renderers.
type Error struct {
	Renderer string
	Op       string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render: %s: %s: %v", e.Renderer, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap translates a backend error into an *Error. Nil stays nil.
func Wrap(renderer, op string, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	return &Error{Renderer: renderer, Op: op, Err: err}
}
