package input

import (
	"sync"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
)

// Cursors tracks the last pointer location of every seat whose pointer is
// currently inside a target. An entry exists from enter until leave.
type Cursors struct {
	mu        sync.Mutex
	locations map[SeatID]geom.PointF
}

func NewCursors() *Cursors {
	return &Cursors{
		locations: make(map[SeatID]geom.PointF),
	}
}

func (c *Cursors) Set(seat SeatID, location geom.PointF) {
	c.mu.Lock()
	c.locations[seat] = location
	c.mu.Unlock()
}

func (c *Cursors) Remove(seat SeatID) {
	c.mu.Lock()
	delete(c.locations, seat)
	c.mu.Unlock()
}

func (c *Cursors) Get(seat SeatID) (geom.PointF, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	location, ok := c.locations[seat]
	return location, ok
}

func (c *Cursors) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.locations)
}
