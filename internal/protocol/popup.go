package protocol

import (
	"iter"
	"slices"
	"sync"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/google/uuid"
)

// Popup is a transient surface parented to a toplevel surface.
type Popup struct {
	surface *Surface
	root    *Surface
	// geometry is relative to the root surface.
	geometry geom.Rect
}

func (p *Popup) Surface() *Surface { return p.surface }

func (p *Popup) Root() *Surface { return p.root }

func (p *Popup) Geometry() geom.Rect { return p.geometry }

// PopupManager is the registry of popups by the toplevel surface they belong
// to.
type PopupManager struct {
	mu     sync.Mutex
	popups map[uuid.UUID][]*Popup
}

func NewPopupManager() *PopupManager {
	return &PopupManager{
		popups: make(map[uuid.UUID][]*Popup),
	}
}

func (pm *PopupManager) Track(p *Popup) {
	pm.mu.Lock()
	pm.popups[p.root.id] = append(pm.popups[p.root.id], p)
	pm.mu.Unlock()
}

func (pm *PopupManager) Dismiss(p *Popup) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	popups := pm.popups[p.root.id]
	if idx := slices.Index(popups, p); idx != -1 {
		popups = slices.Delete(popups, idx, idx+1)
	}
	if len(popups) == 0 {
		delete(pm.popups, p.root.id)
	} else {
		pm.popups[p.root.id] = popups
	}
	p.surface.destroy()
}

// PopupsFor yields the popups of root, oldest first, with their location
// relative to root.
func (pm *PopupManager) PopupsFor(root *Surface) iter.Seq2[*Popup, geom.Point] {
	return func(yield func(*Popup, geom.Point) bool) {
		pm.mu.Lock()
		popups := slices.Clone(pm.popups[root.id])
		pm.mu.Unlock()

		for _, p := range popups {
			if !yield(p, p.geometry.Loc()) {
				return
			}
		}
	}
}

// DismissAll removes every popup of root.
func (pm *PopupManager) DismissAll(root *Surface) {
	pm.mu.Lock()
	popups := pm.popups[root.id]
	delete(pm.popups, root.id)
	pm.mu.Unlock()

	for _, p := range popups {
		p.surface.destroy()
	}
}
