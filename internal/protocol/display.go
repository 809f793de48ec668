// Package protocol is an in-memory model of the window protocol objects the
// shell talks to: surfaces, toplevels, popups and the clients behind them.
package protocol

import (
	"sync/atomic"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/google/uuid"
)

// Display owns the protocol object registries shared by every client.
type Display struct {
	serial atomic.Uint32
	popups *PopupManager
}

func NewDisplay() *Display {
	return &Display{
		popups: NewPopupManager(),
	}
}

// NextSerial returns a new event serial.
func (d *Display) NextSerial() uint32 {
	return d.serial.Add(1)
}

func (d *Display) Popups() *PopupManager { return d.popups }

func (d *Display) CreateSurface() *Surface {
	return newSurface()
}

// CreateToplevel gives surface the toplevel role for client.
func (d *Display) CreateToplevel(surface *Surface, client uuid.UUID) *Toplevel {
	return newToplevel(d, surface, client)
}

// CreatePopup gives surface the popup role, parented to the toplevel surface
// root.
func (d *Display) CreatePopup(root, surface *Surface, geometry geom.Rect) *Popup {
	p := &Popup{
		surface:  surface,
		root:     root,
		geometry: geometry,
	}
	d.popups.Track(p)
	return p
}
