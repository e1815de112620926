package path

import (
	"fmt"
	"iter"
	"slices"

	"github.com/memmaker/tilenav/engine/util"
)

type AStarGraph[N comparable] interface {
	SuccessorSource[N]
	Translator[N]
}

type ThetaStarGraph[N comparable] interface {
	AStarGraph[N]
	LineOfSighter[N]
}

// AStar searches with a straight-line heuristic between node translations.
// MaxExpanded bounds the number of settled nodes, 0 means unlimited.
type AStar[N comparable, G AStarGraph[N]] struct {
	MaxExpanded int
}

func (a AStar[N, G]) LazyPath(graph G, start, end N) (iter.Seq[N], bool) {
	nodes, ok := bestFirst(graph, start, end, a.MaxExpanded, nil)
	if !ok {
		return nil, false
	}
	return slices.Values(nodes), true
}

// ThetaStar is the any-angle variant of AStar: a node may take its grandparent as
// parent when the two see each other, so the result skips intermediate cells and
// consecutive nodes need not be neighbours.
type ThetaStar[N comparable, G ThetaStarGraph[N]] struct {
	MaxExpanded int
}

func (t ThetaStar[N, G]) LazyPath(graph G, start, end N) (iter.Seq[N], bool) {
	nodes, ok := bestFirst(graph, start, end, t.MaxExpanded, graph.LineOfSight)
	if !ok {
		return nil, false
	}
	return slices.Values(nodes), true
}

func bestFirst[N comparable, G AStarGraph[N]](graph G, start, end N, maxExpanded int, lineOfSight func(from, to N) bool) ([]N, bool) {
	target := graph.Translation(end)
	heuristic := func(n N) float64 {
		return float64(graph.Translation(n).Sub(target).Len())
	}

	cost := map[N]float64{start: 0}
	prev := make(map[N]N)
	items := make(map[N]*PqItem[N])
	closed := make(map[N]struct{})

	queue := NewPriorityQueue[N]()
	startItem := NewNode(start)
	items[start] = startItem
	queue.Update(startItem, heuristic(start))

	expanded := 0
	for !queue.IsEmpty() {
		current := queue.PopItem().GetValue()
		if current == end {
			nodes := reconstruct(prev, start, end)
			return nodes, nodes != nil
		}
		closed[current] = struct{}{}
		expanded++
		if maxExpanded > 0 && expanded > maxExpanded {
			util.LogSearchDebug(fmt.Sprintf("[Search] Gave up after expanding %d nodes", maxExpanded))
			return nil, false
		}

		parent, hasParent := prev[current]
		for neighbor := range graph.Successors(current) {
			if _, done := closed[neighbor]; done {
				continue
			}
			from := current
			alt := cost[current] + edgeCost(graph, current, neighbor)
			if lineOfSight != nil && hasParent && lineOfSight(parent, neighbor) {
				from = parent
				alt = cost[parent] + euclidean(graph, parent, neighbor)
			}
			if old, seen := cost[neighbor]; seen && alt >= old {
				continue
			}
			cost[neighbor] = alt
			prev[neighbor] = from
			item, exists := items[neighbor]
			if !exists {
				item = NewNode(neighbor)
				items[neighbor] = item
			}
			queue.Update(item, alt+heuristic(neighbor))
		}
	}
	return nil, false
}
