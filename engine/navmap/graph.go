package navmap

import (
	"fmt"
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/path"
	"github.com/memmaker/tilenav/engine/tilemap"
	"github.com/memmaker/tilenav/engine/util"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/simple"
)

var ErrInvalidCellDistance = errors.New("cell distance must be positive")

// MapGraph is the navigation graph derived from a parsed map: one node per walkable
// cell, edges to the eight neighbours. A diagonal edge exists only when the corner
// between the two cells is walkable on all four sides.
type MapGraph struct {
	grid         tilemap.Grid
	cellDistance float32
	elevation    float32
	graph        *simple.WeightedUndirectedGraph
}

func NewMapGraph(grid tilemap.Grid, cellDistance, elevation float32) (*MapGraph, error) {
	if !(cellDistance > 0) {
		return nil, errors.Wrapf(ErrInvalidCellDistance, "%v", cellDistance)
	}
	m := &MapGraph{
		grid:         grid,
		cellDistance: cellDistance,
		elevation:    elevation,
		graph:        simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}
	straight := float64(cellDistance)
	diagonal := straight * math.Sqrt2

	for key, cell := range grid.Cells {
		if !cell.Walkable() {
			continue
		}
		id := m.id(key)
		if m.graph.Node(id) == nil {
			m.graph.AddNode(simple.Node(id))
		}
		// Each edge is added from its lower-keyed end only.
		if right := (tilemap.UInt2{X: key.X + 1, Z: key.Z}); m.walkable(right) {
			m.addEdge(key, right, straight)
		}
		if down := (tilemap.UInt2{X: key.X, Z: key.Z + 1}); m.walkable(down) {
			m.addEdge(key, down, straight)
		}
		if corner, ok := grid.HalfOffsetCellAtCorner(key.X+1, key.Z+1); ok && corner.Walkable() {
			m.addEdge(key, tilemap.UInt2{X: key.X + 1, Z: key.Z + 1}, diagonal)
		}
		if key.X > 0 {
			if corner, ok := grid.HalfOffsetCellAtCorner(key.X, key.Z+1); ok && corner.Walkable() {
				m.addEdge(key, tilemap.UInt2{X: key.X - 1, Z: key.Z + 1}, diagonal)
			}
		}
	}
	util.LogNavInfo(fmt.Sprintf("[MapGraph] Derived %d nodes and %d edges from a %s map", m.graph.Nodes().Len(), m.graph.Edges().Len(), grid.Size.ToString()))
	return m, nil
}

func (m *MapGraph) id(key tilemap.UInt2) int64 {
	return int64(key.Z)*int64(m.grid.Size.X) + int64(key.X)
}

func (m *MapGraph) key(id int64) tilemap.UInt2 {
	width := int64(m.grid.Size.X)
	return tilemap.UInt2{X: uint32(id % width), Z: uint32(id / width)}
}

func (m *MapGraph) walkable(key tilemap.UInt2) bool {
	return key.X < m.grid.Size.X && key.Z < m.grid.Size.Z && m.grid.Cell(key).Walkable()
}

func (m *MapGraph) addEdge(from, to tilemap.UInt2, weight float64) {
	m.graph.SetWeightedEdge(m.graph.NewWeightedEdge(simple.Node(m.id(from)), simple.Node(m.id(to)), weight))
}

func (m *MapGraph) Grid() tilemap.Grid {
	return m.grid
}

func (m *MapGraph) CellDistance() float32 {
	return m.cellDistance
}

func (m *MapGraph) NodeCount() int {
	return m.graph.Nodes().Len()
}

func (m *MapGraph) Node(world mgl32.Vec3) (tilemap.UInt2, bool) {
	x, z, ok := util.RoundToGrid(world, m.cellDistance)
	if !ok || x < 0 || z < 0 || x > math.MaxUint32 || z > math.MaxUint32 {
		return tilemap.UInt2{}, false
	}
	key := tilemap.UInt2{X: uint32(x), Z: uint32(z)}
	return key, m.walkable(key)
}

func (m *MapGraph) Translation(key tilemap.UInt2) mgl32.Vec3 {
	return mgl32.Vec3{float32(key.X) * m.cellDistance, m.elevation, float32(key.Z) * m.cellDistance}
}

func (m *MapGraph) Successors(key tilemap.UInt2) iter.Seq[tilemap.UInt2] {
	return func(yield func(tilemap.UInt2) bool) {
		if !m.walkable(key) {
			return
		}
		neighbors := m.graph.From(m.id(key))
		for neighbors.Next() {
			if !yield(m.key(neighbors.Node().ID())) {
				return
			}
		}
	}
}

// Cost returns the edge weight, or +Inf for cells that are not adjacent.
func (m *MapGraph) Cost(from, to tilemap.UInt2) float64 {
	weight, ok := m.graph.Weight(m.id(from), m.id(to))
	if !ok {
		return math.Inf(1)
	}
	return weight
}

func (m *MapGraph) IsObstacle(key tilemap.UInt2) bool {
	return !m.walkable(key)
}

func (m *MapGraph) LineOfSight(from, to tilemap.UInt2) bool {
	return m.rayIsWalkable(
		float64(from.X)+0.5, float64(from.Z)+0.5,
		float64(to.X)+0.5, float64(to.Z)+0.5,
	)
}

// NaivePath casts three rays towards the node centre: the centre line and two
// parallels offset sideways by the agent radius. The result is Ok only when all
// three stay on walkable cells.
func (m *MapGraph) NaivePath(origin mgl32.Vec3, to tilemap.UInt2, agentRadius float32) path.NaivePath {
	if agentRadius < 0 || math.IsNaN(float64(agentRadius)) {
		return path.NaiveCannotCompute()
	}
	if _, ok := m.Node(origin); !ok || !m.walkable(to) {
		return path.NaiveCannotCompute()
	}
	cd := float64(m.cellDistance)
	startX, startZ := float64(origin.X())/cd+0.5, float64(origin.Z())/cd+0.5
	endX, endZ := float64(to.X)+0.5, float64(to.Z)+0.5

	directionX, directionZ := endX-startX, endZ-startZ
	length := math.Hypot(directionX, directionZ)
	if length == 0 {
		return path.NaiveOk()
	}
	offset := float64(agentRadius) / cd
	sideX, sideZ := -directionZ/length*offset, directionX/length*offset
	for _, side := range []float64{0, 1, -1} {
		dx, dz := side*sideX, side*sideZ
		if !m.rayIsWalkable(startX+dx, startZ+dz, endX+dx, endZ+dz) {
			return path.NaiveCannotCompute()
		}
	}
	return path.NaiveOk()
}

func (m *MapGraph) rayIsWalkable(startX, startZ, endX, endZ float64) bool {
	return util.WalkGrid2D(startX, startZ, endX, endZ, func(x, z int64) bool {
		if x < 0 || z < 0 || x > math.MaxUint32 || z > math.MaxUint32 {
			return false
		}
		return m.walkable(tilemap.UInt2{X: uint32(x), Z: uint32(z)})
	})
}
