package navmap

import (
	"fmt"
	"iter"
	"math"

	"github.com/memmaker/tilenav/engine/tilemap"
	"github.com/memmaker/tilenav/engine/util"
	"gonum.org/v1/gonum/graph"
	gpath "gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// GonumAStar runs gonum's A* over the weighted map graph with a straight-line
// heuristic in world units.
type GonumAStar struct{}

func (GonumAStar) LazyPath(m *MapGraph, start, end tilemap.UInt2) (iter.Seq[tilemap.UInt2], bool) {
	if !m.walkable(start) || !m.walkable(end) {
		return nil, false
	}
	heuristic := func(x, y graph.Node) float64 {
		a, b := m.key(x.ID()), m.key(y.ID())
		return float64(m.Translation(a).Sub(m.Translation(b)).Len())
	}
	shortest, expanded := gpath.AStar(simple.Node(m.id(start)), simple.Node(m.id(end)), m.graph, heuristic)
	nodes, weight := shortest.To(m.id(end))
	if len(nodes) == 0 || math.IsInf(weight, 1) {
		util.LogSearchDebug(fmt.Sprintf("[MapGraph] No route from %s to %s after expanding %d nodes", start.ToString(), end.ToString(), expanded))
		return nil, false
	}
	return func(yield func(tilemap.UInt2) bool) {
		for _, node := range nodes {
			if !yield(m.key(node.ID())) {
				return
			}
		}
	}, true
}
