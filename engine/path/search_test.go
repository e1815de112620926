package path

import (
	"iter"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell [2]int

// testGrid is a 4-way grid read from rows of text: '#' is blocked, anything else open.
type testGrid struct {
	rows []string
}

func newTestGrid(layout string) testGrid {
	return testGrid{rows: strings.Split(strings.TrimSpace(layout), "\n")}
}

func (g testGrid) open(c cell) bool {
	if c[1] < 0 || c[1] >= len(g.rows) || c[0] < 0 || c[0] >= len(g.rows[c[1]]) {
		return false
	}
	return g.rows[c[1]][c[0]] != '#'
}

func (g testGrid) Translation(c cell) mgl32.Vec3 {
	return mgl32.Vec3{float32(c[0]), 0, float32(c[1])}
}

func (g testGrid) Successors(c cell) iter.Seq[cell] {
	return func(yield func(cell) bool) {
		for _, d := range []cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			next := cell{c[0] + d[0], c[1] + d[1]}
			if g.open(next) && !yield(next) {
				return
			}
		}
	}
}

// LineOfSight samples the segment densely; good enough for the small test layouts.
func (g testGrid) LineOfSight(from, to cell) bool {
	steps := 64
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := math.Round(float64(from[0]) + t*float64(to[0]-from[0]))
		z := math.Round(float64(from[1]) + t*float64(to[1]-from[1]))
		if !g.open(cell{int(x), int(z)}) {
			return false
		}
	}
	return true
}

const corridorLayout = `
.....
.###.
.#...
.#.#.
...#.
`

func collect(t *testing.T, sequence iter.Seq[cell], ok bool) []cell {
	t.Helper()
	require.True(t, ok)
	return slices.Collect(sequence)
}

type search interface {
	LazyPath(graph testGrid, start, end cell) (iter.Seq[cell], bool)
}

func run(t *testing.T, method search, grid testGrid, start, end cell) []cell {
	t.Helper()
	sequence, ok := method.LazyPath(grid, start, end)
	return collect(t, sequence, ok)
}

func assertConnected(t *testing.T, g testGrid, nodes []cell) {
	t.Helper()
	for i := 1; i < len(nodes); i++ {
		dx := nodes[i][0] - nodes[i-1][0]
		dz := nodes[i][1] - nodes[i-1][1]
		assert.Equal(t, 1, abs(dx)+abs(dz), "step %d from %v to %v", i, nodes[i-1], nodes[i])
		assert.True(t, g.open(nodes[i]))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestAStarFindsShortestPath(t *testing.T) {
	grid := newTestGrid(corridorLayout)
	nodes := run(t, AStar[cell, testGrid]{}, grid, cell{0, 4}, cell{2, 2})

	assert.Equal(t, cell{0, 4}, nodes[0])
	assert.Equal(t, cell{2, 2}, nodes[len(nodes)-1])
	assertConnected(t, grid, nodes)
	// down the left column, across the bottom, up through the gap
	assert.Len(t, nodes, 5)
}

func TestAStarUnreachable(t *testing.T) {
	grid := newTestGrid(`
..#..
..#..
`)
	_, ok := AStar[cell, testGrid]{}.LazyPath(grid, cell{0, 0}, cell{4, 1})
	assert.False(t, ok)
}

func TestAStarMaxExpanded(t *testing.T) {
	grid := newTestGrid(corridorLayout)
	_, ok := AStar[cell, testGrid]{MaxExpanded: 2}.LazyPath(grid, cell{0, 0}, cell{4, 4})
	assert.False(t, ok)

	_, ok = AStar[cell, testGrid]{MaxExpanded: 100}.LazyPath(grid, cell{0, 0}, cell{4, 4})
	assert.True(t, ok)
}

func TestThetaStarSkipsVisibleCells(t *testing.T) {
	grid := newTestGrid(`
......
......
......
`)
	nodes := run(t, ThetaStar[cell, testGrid]{}, grid, cell{0, 0}, cell{5, 2})

	assert.Equal(t, []cell{{0, 0}, {5, 2}}, nodes)
}

func TestThetaStarRespectsWalls(t *testing.T) {
	grid := newTestGrid(corridorLayout)
	nodes := run(t, ThetaStar[cell, testGrid]{}, grid, cell{0, 4}, cell{4, 2})

	assert.Equal(t, cell{0, 4}, nodes[0])
	assert.Equal(t, cell{4, 2}, nodes[len(nodes)-1])
	for i := 1; i < len(nodes); i++ {
		assert.True(t, grid.LineOfSight(nodes[i-1], nodes[i]), "segment %v to %v", nodes[i-1], nodes[i])
	}
}

func TestDijkstraBudget(t *testing.T) {
	grid := newTestGrid(corridorLayout)
	dist, prev := Dijkstra[cell](grid, cell{0, 0}, 2)

	assert.Equal(t, map[cell]float64{
		{0, 0}: 0,
		{1, 0}: 1,
		{2, 0}: 2,
		{0, 1}: 1,
		{0, 2}: 2,
	}, dist)
	assert.Equal(t, cell{1, 0}, prev[cell{2, 0}])
	_, hasSource := prev[cell{0, 0}]
	assert.False(t, hasSource)
}

func TestDijkstraPathMatchesAStarLength(t *testing.T) {
	grid := newTestGrid(corridorLayout)
	viaDijkstra := run(t, DijkstraPath[cell, testGrid]{}, grid, cell{0, 0}, cell{4, 4})
	viaAStar := run(t, AStar[cell, testGrid]{}, grid, cell{0, 0}, cell{4, 4})

	assertConnected(t, grid, viaDijkstra)
	assert.Len(t, viaDijkstra, len(viaAStar))

	_, ok := DijkstraPath[cell, testGrid]{MaxCost: 3}.LazyPath(grid, cell{0, 0}, cell{4, 4})
	assert.False(t, ok)
}

func TestPriorityQueueOrdersByPriority(t *testing.T) {
	queue := NewPriorityQueue[string]()
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	queue.Update(a, 3)
	queue.Update(b, 1)
	queue.Update(c, 2)
	queue.Update(a, 0)

	assert.Equal(t, 0.0, a.GetPriority())

	var order []string
	for !queue.IsEmpty() {
		order = append(order, queue.PopItem().GetValue())
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.False(t, a.IsQueued())
}
