package path

import (
	"iter"
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineGraph places node i at (i, 0, 0) for i in [0, size).
type lineGraph struct {
	size  int
	naive map[int]NaivePath
}

func (g lineGraph) Node(world mgl32.Vec3) (int, bool) {
	index := int(math.Round(float64(world.X())))
	if index < 0 || index >= g.size || world.Z() < -0.5 || world.Z() >= 0.5 {
		return 0, false
	}
	return index, true
}

func (g lineGraph) Translation(node int) mgl32.Vec3 {
	return mgl32.Vec3{float32(node), 0, 0}
}

func (g lineGraph) Successors(node int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if node > 0 && !yield(node-1) {
			return
		}
		if node < g.size-1 {
			yield(node + 1)
		}
	}
}

func (g lineGraph) NaivePath(_ mgl32.Vec3, to int, _ float32) NaivePath {
	return g.naive[to]
}

type countingSearch struct {
	calls  int
	result []int
	ok     bool
}

func (c *countingSearch) method() LazyPathFunc[int, lineGraph] {
	return func(_ lineGraph, _, _ int) (iter.Seq[int], bool) {
		c.calls++
		if !c.ok {
			return nil, false
		}
		return slices.Values(c.result), true
	}
}

func TestComputePathSameNodeSkipsSearch(t *testing.T) {
	search := &countingSearch{}
	planner := NewPlanner[int](lineGraph{size: 4}, search.method())

	start := mgl32.Vec3{1.1, 0, 0.2}
	end := mgl32.Vec3{0.9, 0, -0.1}
	waypoints, ok := planner.ComputePath(start, end, 0.3)

	require.True(t, ok)
	assert.Equal(t, []mgl32.Vec3{start, end}, waypoints)
	assert.Equal(t, 0, search.calls)
}

func TestComputePathCorrections(t *testing.T) {
	start := mgl32.Vec3{0.2, 0, 0.1}
	end := mgl32.Vec3{3.1, 0, -0.2}
	approach := mgl32.Vec3{0.5, 0, 0}
	retreat := mgl32.Vec3{2.5, 0, 0}

	tests := []struct {
		name  string
		naive map[int]NaivePath
		want  []mgl32.Vec3
	}{
		{
			name: "cannot_compute_keeps_centres",
			want: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}},
		},
		{
			name:  "ok_uses_literal_endpoints",
			naive: map[int]NaivePath{1: NaiveOk(), 2: NaiveOk()},
			want:  []mgl32.Vec3{start, {1, 0, 0}, {2, 0, 0}, end},
		},
		{
			name:  "partial_inserts_approach_points",
			naive: map[int]NaivePath{1: NaivePartialUntil(approach), 2: NaivePartialUntil(retreat)},
			want:  []mgl32.Vec3{start, approach, {1, 0, 0}, {2, 0, 0}, retreat, end},
		},
		{
			name:  "mixed",
			naive: map[int]NaivePath{1: NaiveOk(), 2: NaiveCannotCompute()},
			want:  []mgl32.Vec3{start, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search := &countingSearch{result: []int{0, 1, 2, 3}, ok: true}
			planner := NewPlanner[int](lineGraph{size: 4, naive: tt.naive}, search.method())

			waypoints, ok := planner.ComputePath(start, end, 0.25)

			require.True(t, ok)
			assert.Equal(t, tt.want, waypoints)
			assert.Equal(t, 1, search.calls)
		})
	}
}

func TestComputePathTwoNodes(t *testing.T) {
	search := &countingSearch{result: []int{0, 1}, ok: true}
	graph := lineGraph{size: 2, naive: map[int]NaivePath{0: NaiveOk(), 1: NaiveOk()}}
	planner := NewPlanner[int](graph, search.method())

	start := mgl32.Vec3{0.1, 0, 0}
	end := mgl32.Vec3{0.8, 0, 0}
	waypoints, ok := planner.ComputePath(start, end, 0)

	require.True(t, ok)
	assert.Equal(t, []mgl32.Vec3{start, end}, waypoints)
}

func TestComputePathSingleNodeSequence(t *testing.T) {
	search := &countingSearch{result: []int{2}, ok: true}
	graph := lineGraph{size: 4, naive: map[int]NaivePath{2: NaiveOk()}}
	planner := NewPlanner[int](graph, search.method())

	waypoints, ok := planner.ComputePath(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 0, 0}, 0)

	require.True(t, ok)
	assert.Equal(t, []mgl32.Vec3{{2, 0, 0}}, waypoints)
}

func TestComputePathFailures(t *testing.T) {
	tests := []struct {
		name   string
		search *countingSearch
		start  mgl32.Vec3
		end    mgl32.Vec3
		radius float32
	}{
		{
			name:   "unmappable_start",
			search: &countingSearch{result: []int{0, 1}, ok: true},
			start:  mgl32.Vec3{-3, 0, 0},
			end:    mgl32.Vec3{1, 0, 0},
		},
		{
			name:   "unmappable_end",
			search: &countingSearch{result: []int{0, 1}, ok: true},
			start:  mgl32.Vec3{0, 0, 0},
			end:    mgl32.Vec3{1, 0, 7},
		},
		{
			name:   "negative_radius",
			search: &countingSearch{result: []int{0, 1}, ok: true},
			start:  mgl32.Vec3{0, 0, 0},
			end:    mgl32.Vec3{1, 0, 0},
			radius: -1,
		},
		{
			name:   "search_failed",
			search: &countingSearch{},
			start:  mgl32.Vec3{0, 0, 0},
			end:    mgl32.Vec3{3, 0, 0},
		},
		{
			name:   "empty_sequence",
			search: &countingSearch{ok: true},
			start:  mgl32.Vec3{0, 0, 0},
			end:    mgl32.Vec3{3, 0, 0},
		},
		{
			name:   "wrong_endpoints",
			search: &countingSearch{result: []int{1, 2}, ok: true},
			start:  mgl32.Vec3{0, 0, 0},
			end:    mgl32.Vec3{3, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := NewPlanner[int](lineGraph{size: 4}, tt.search.method())

			waypoints, ok := planner.ComputePath(tt.start, tt.end, tt.radius)

			assert.False(t, ok)
			assert.Nil(t, waypoints)
		})
	}
}

func TestNaivePathToString(t *testing.T) {
	assert.Equal(t, "Ok", NaiveOk().ToString())
	assert.Equal(t, "CannotCompute", NaivePath{}.ToString())
	assert.Equal(t, "PartialUntil(1.000, 0.000, 2.500)", NaivePartialUntil(mgl32.Vec3{1, 0, 2.5}).ToString())
}
