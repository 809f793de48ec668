package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Rect
		want Rect
		ok   bool
	}{
		{"overlap", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, Rect{5, 5, 5, 5}, true},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 2, 2, 2}, Rect{2, 2, 2, 2}, true},
		{"touching edges", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, Rect{}, false},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 1, 1}, Rect{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tc.a.Intersect(tc.b)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRectUnionIgnoresEmpty(t *testing.T) {
	t.Parallel()

	r := Rect{1, 1, 2, 2}
	assert.Equal(t, r, Rect{}.Union(r))
	assert.Equal(t, r, r.Union(Rect{}))
	assert.Equal(t, Rect{0, 0, 3, 3}, r.Union(Rect{0, 0, 1, 1}))
}

func TestRectContains(t *testing.T) {
	t.Parallel()

	r := Rect{10, 10, 5, 5}
	assert.True(t, r.Contains(PointF{10, 10}))
	assert.True(t, r.Contains(PointF{14.9, 14.9}))
	assert.False(t, r.Contains(PointF{15, 10}))
	assert.False(t, r.Contains(PointF{9.99, 12}))
}

func TestSizeMinMax(t *testing.T) {
	t.Parallel()

	a, b := Size{100, 50}, Size{150, 40}
	assert.Equal(t, Size{150, 50}, a.Max(b))
	assert.Equal(t, Size{100, 40}, a.Min(b))
}

func TestToPhysical(t *testing.T) {
	t.Parallel()

	r := Rect{X: 10, Y: 5, W: 100, H: 20}
	assert.Equal(t, Rect{X: 15, Y: 8, W: 150, H: 30}, r.ToPhysical(Uniform(1.5)))
}

func TestTransformSize(t *testing.T) {
	t.Parallel()

	s := Size{W: 4, H: 2}
	assert.Equal(t, s, TransformNormal.TransformSize(s))
	assert.Equal(t, Size{W: 2, H: 4}, Transform90.TransformSize(s))
	assert.Equal(t, Size{W: 2, H: 4}, TransformFlipped270.TransformSize(s))
	assert.Equal(t, s, Transform180.TransformSize(s))
}
