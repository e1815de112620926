package util

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

type cell struct{ x, y int64 }

func walk(sx, sy, ex, ey float64) []cell {
	var visited []cell
	WalkGrid2D(sx, sy, ex, ey, func(x, y int64) bool {
		visited = append(visited, cell{x, y})
		return true
	})
	return visited
}

func TestWalkGrid2D(t *testing.T) {
	tests := []struct {
		name           string
		sx, sy, ex, ey float64
		want           []cell
	}{
		{"single_cell", 0.2, 0.2, 0.8, 0.9, []cell{{0, 0}}},
		{"horizontal", 0.5, 0.5, 3.5, 0.5, []cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"vertical_backwards", 1.5, 2.5, 1.5, 0.5, []cell{{1, 2}, {1, 1}, {1, 0}}},
		{"diagonal_through_corners", 0.5, 0.5, 2.5, 2.5, []cell{
			{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2}, {2, 2},
		}},
		{"shallow", 0.5, 0.5, 2.5, 1.5, []cell{{0, 0}, {1, 0}, {1, 1}, {2, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, walk(tt.sx, tt.sy, tt.ex, tt.ey))
		})
	}
}

func TestWalkGrid2DStopsEarly(t *testing.T) {
	var visited []cell
	complete := WalkGrid2D(0.5, 0.5, 3.5, 0.5, func(x, y int64) bool {
		visited = append(visited, cell{x, y})
		return x < 2
	})
	assert.False(t, complete)
	assert.Equal(t, []cell{{0, 0}, {1, 0}, {2, 0}}, visited)
}

func TestRaycast2DHitInfo(t *testing.T) {
	hit := Raycast2D(0.5, 0.5, 3.5, 0.5, func(x, y int64) bool { return x == 2 })
	assert.True(t, hit.Hit)
	assert.Equal(t, int64(2), hit.GridX)
	assert.Equal(t, West, hit.Side)
	assert.InDelta(t, 0.5, hit.Fraction, 1e-9)

	back := Raycast2D(2.5, 0.5, 0.5, 0.5, func(x, y int64) bool { return x == 0 })
	assert.True(t, back.Hit)
	assert.Equal(t, East, back.Side)

	miss := Raycast2D(0.5, 0.5, 3.5, 0.5, func(x, y int64) bool { return false })
	assert.False(t, miss.Hit)
	assert.Equal(t, 1.0, miss.Fraction)
}

func TestRoundToGrid(t *testing.T) {
	x, z, ok := RoundToGrid(mgl32.Vec3{1.4, 7, 2.6}, 1)
	assert.True(t, ok)
	assert.Equal(t, int64(1), x)
	assert.Equal(t, int64(3), z)

	x, z, ok = RoundToGrid(mgl32.Vec3{1.3, 0, -0.8}, 0.5)
	assert.True(t, ok)
	assert.Equal(t, int64(3), x)
	assert.Equal(t, int64(-2), z)

	_, _, ok = RoundToGrid(mgl32.Vec3{1, 0, 1}, 0)
	assert.False(t, ok)
	_, _, ok = RoundToGrid(mgl32.Vec3{float32(math.NaN()), 0, 1}, 1)
	assert.False(t, ok)
	_, _, ok = RoundToGrid(mgl32.Vec3{math.MaxFloat32, 0, 1}, 1e-30)
	assert.False(t, ok)
}
