package input

import (
	"sync"
	"testing"

	"github.com/ItsNotGoodName/x-stackwm/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorsSetGetRemove(t *testing.T) {
	t.Parallel()

	c := NewCursors()
	a, b := NewSeat("a"), NewSeat("b")

	_, ok := c.Get(a.ID())
	assert.False(t, ok)

	c.Set(a.ID(), geom.PointF{X: 1, Y: 2})
	c.Set(b.ID(), geom.PointF{X: 3, Y: 4})
	c.Set(a.ID(), geom.PointF{X: 5, Y: 6})

	loc, ok := c.Get(a.ID())
	require.True(t, ok)
	assert.Equal(t, geom.PointF{X: 5, Y: 6}, loc)
	assert.Equal(t, 2, c.Len())

	c.Remove(a.ID())
	_, ok = c.Get(a.ID())
	assert.False(t, ok)

	loc, ok = c.Get(b.ID())
	require.True(t, ok)
	assert.Equal(t, geom.PointF{X: 3, Y: 4}, loc)
}

func TestCursorsConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := NewCursors()
	seats := []*Seat{NewSeat("0"), NewSeat("1"), NewSeat("2"), NewSeat("3")}

	var wg sync.WaitGroup
	for i, seat := range seats {
		wg.Add(1)
		go func(i int, seat *Seat) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(seat.ID(), geom.PointF{X: float64(i), Y: float64(j)})
				c.Get(seat.ID())
			}
		}(i, seat)
	}
	wg.Wait()

	assert.Equal(t, len(seats), c.Len())
}

func TestSeatIDsAreUnique(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, NewSeat("x").ID(), NewSeat("x").ID())
}
