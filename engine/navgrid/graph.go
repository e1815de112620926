package navgrid

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/tilemap"
	"github.com/memmaker/tilenav/engine/util"
	"github.com/pkg/errors"
)

// Node is an integer grid coordinate. Y addresses the world Z axis.
type Node struct {
	X, Y uint32
}

func (n Node) ToString() string {
	return fmt.Sprintf("[%d, %d]", n.X, n.Y)
}

func (n Node) Offset(dx, dy int64) (Node, bool) {
	x := int64(n.X) + dx
	y := int64(n.Y) + dy
	if x < 0 || y < 0 || x > math.MaxUint32 || y > math.MaxUint32 {
		return Node{}, false
	}
	return Node{X: uint32(x), Y: uint32(y)}, true
}

// GridGraph is an immutable snapshot of a flat navigation grid. A node exists only
// where walkable content exists. Obstacles are a separate overlay and need not have
// a matching node.
type GridGraph struct {
	Nodes     map[Node]mgl32.Vec3
	Obstacles map[Node]struct{}
	Context   GridContext
}

// FromTileGrid builds the base graph of a parsed map: walkable cells become nodes
// centred at index * cellDistance, obstacle cells become obstacles.
func FromTileGrid(grid tilemap.Grid, cellDistance, elevation float32) (GridGraph, error) {
	context, err := NewGridContext(grid.Size.X, grid.Size.Z, cellDistance)
	if err != nil {
		return GridGraph{}, errors.Wrap(err, "build grid graph")
	}
	graph := GridGraph{
		Nodes:     make(map[Node]mgl32.Vec3),
		Obstacles: make(map[Node]struct{}),
		Context:   context,
	}
	for key, cell := range grid.Cells {
		node := Node{X: key.X, Y: key.Z}
		if cell.Walkable() {
			graph.Nodes[node] = mgl32.Vec3{float32(key.X) * cellDistance, elevation, float32(key.Z) * cellDistance}
		}
		if cell.IsObstacle() {
			graph.Obstacles[node] = struct{}{}
		}
	}
	util.LogNavInfo(fmt.Sprintf("[NavGrid] Built %s with %d nodes and %d obstacles", context.ToString(), len(graph.Nodes), len(graph.Obstacles)))
	return graph, nil
}

// LocateNode maps a world position to the node under it.
func (g GridGraph) LocateNode(world mgl32.Vec3) (Node, error) {
	if g.Context.CellDistance == 0 {
		return Node{}, ErrCellDistanceZero
	}
	x, z, ok := util.RoundToGrid(world, g.Context.CellDistance)
	if !ok || x < 0 || z < 0 || x > math.MaxUint32 || z > math.MaxUint32 {
		return Node{}, ErrUnmappable
	}
	node := Node{X: uint32(x), Y: uint32(z)}
	if _, exists := g.Nodes[node]; !exists {
		return Node{}, ErrUnmappable
	}
	return node, nil
}

// Translation returns the stored node position, or the computed cell centre for
// cells that are not nodes.
func (g GridGraph) Translation(n Node) mgl32.Vec3 {
	if translation, ok := g.Nodes[n]; ok {
		return translation
	}
	cd := g.Context.CellDistance
	return mgl32.Vec3{float32(n.X) * cd, g.Elevation(), float32(n.Y) * cd}
}

func (g GridGraph) HasNode(n Node) bool {
	_, ok := g.Nodes[n]
	return ok
}

func (g GridGraph) IsObstacle(n Node) bool {
	_, ok := g.Obstacles[n]
	return ok
}

// Walkable reports a node that is not covered by the obstacle overlay.
func (g GridGraph) Walkable(n Node) bool {
	return g.HasNode(n) && !g.IsObstacle(n)
}

// Elevation is the height of the grid plane, taken from the lowest-keyed node.
func (g GridGraph) Elevation() float32 {
	var best Node
	found := false
	for n := range g.Nodes {
		if !found || n.Y < best.Y || (n.Y == best.Y && n.X < best.X) {
			best = n
			found = true
		}
	}
	if !found {
		return 0
	}
	return g.Nodes[best].Y()
}

// MinCorner is the world position of grid index (0, 0).
func (g GridGraph) MinCorner() mgl32.Vec3 {
	return mgl32.Vec3{0, g.Elevation(), 0}
}

func (g GridGraph) Clone() GridGraph {
	clone := GridGraph{
		Nodes:     make(map[Node]mgl32.Vec3, len(g.Nodes)),
		Obstacles: make(map[Node]struct{}, len(g.Obstacles)),
		Context:   g.Context,
	}
	for n, t := range g.Nodes {
		clone.Nodes[n] = t
	}
	for n := range g.Obstacles {
		clone.Obstacles[n] = struct{}{}
	}
	return clone
}
