package path

import (
	"fmt"
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/util"
)

// LazyPathMethod is a pluggable search. It returns the node sequence from start to
// end, or ok=false when no path exists. The sequence is consumed once.
type LazyPathMethod[N comparable, G any] interface {
	LazyPath(graph G, start, end N) (nodes iter.Seq[N], ok bool)
}

type LazyPathFunc[N comparable, G any] func(graph G, start, end N) (iter.Seq[N], bool)

func (f LazyPathFunc[N, G]) LazyPath(graph G, start, end N) (iter.Seq[N], bool) {
	return f(graph, start, end)
}

type PlannerGraph[N comparable] interface {
	NodeLocator[N]
	Translator[N]
	NaivePather[N]
}

// Planner turns world-space path requests into waypoints. It is a value type and
// holds no state between queries.
type Planner[N comparable, G PlannerGraph[N]] struct {
	Graph  G
	Method LazyPathMethod[N, G]
}

func NewPlanner[N comparable, G PlannerGraph[N]](graph G, method LazyPathMethod[N, G]) Planner[N, G] {
	return Planner[N, G]{Graph: graph, Method: method}
}

// ComputePath returns waypoints from start to end. Movement inside a single node
// returns [start, end] without searching. The first and last cell centres are
// replaced by the literal endpoints (or an approach point) whenever the graph
// reports a direct walk as safe.
func (p Planner[N, G]) ComputePath(start, end mgl32.Vec3, agentRadius float32) ([]mgl32.Vec3, bool) {
	if agentRadius < 0 || math.IsNaN(float64(agentRadius)) {
		return nil, false
	}
	startNode, ok := p.Graph.Node(start)
	if !ok {
		return nil, false
	}
	endNode, ok := p.Graph.Node(end)
	if !ok {
		return nil, false
	}
	if startNode == endNode {
		return []mgl32.Vec3{start, end}, true
	}

	sequence, ok := p.Method.LazyPath(p.Graph, startNode, endNode)
	if !ok || sequence == nil {
		return nil, false
	}
	var nodes []N
	for node := range sequence {
		nodes = append(nodes, node)
	}
	switch {
	case len(nodes) == 0:
		return nil, false
	case len(nodes) == 1:
		return []mgl32.Vec3{p.Graph.Translation(nodes[0])}, true
	case nodes[0] != startNode || nodes[len(nodes)-1] != endNode:
		util.LogNavWarning(fmt.Sprintf("[Planner] Search returned a path from %v to %v, expected %v to %v", nodes[0], nodes[len(nodes)-1], startNode, endNode))
		return nil, false
	}

	last := len(nodes) - 1
	waypoints := make([]mgl32.Vec3, 0, len(nodes)+2)
	waypoints = append(waypoints, p.startWaypoints(start, nodes[0], nodes[1], agentRadius)...)
	for _, node := range nodes[1:last] {
		waypoints = append(waypoints, p.Graph.Translation(node))
	}
	waypoints = append(waypoints, p.endWaypoints(end, nodes[last], nodes[last-1], agentRadius)...)
	return waypoints, true
}

func (p Planner[N, G]) startWaypoints(start mgl32.Vec3, startNode, next N, agentRadius float32) []mgl32.Vec3 {
	naive := p.Graph.NaivePath(start, next, agentRadius)
	switch naive.Kind {
	case NaivePathOk:
		return []mgl32.Vec3{start}
	case NaivePathPartial:
		return []mgl32.Vec3{start, naive.Until}
	}
	return []mgl32.Vec3{p.Graph.Translation(startNode)}
}

func (p Planner[N, G]) endWaypoints(end mgl32.Vec3, endNode, previous N, agentRadius float32) []mgl32.Vec3 {
	naive := p.Graph.NaivePath(end, previous, agentRadius)
	switch naive.Kind {
	case NaivePathOk:
		return []mgl32.Vec3{end}
	case NaivePathPartial:
		return []mgl32.Vec3{naive.Until, end}
	}
	return []mgl32.Vec3{p.Graph.Translation(endNode)}
}
