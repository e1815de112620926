package path

import (
	"iter"
	"math"
	"slices"
)

type DijkstraGraph[N comparable] interface {
	SuccessorSource[N]
	Translator[N]
}

// Dijkstra explores everything reachable from source with a total cost of at most
// maxCost. dist holds the cheapest known cost per reached node, prev the predecessor
// on that route.
func Dijkstra[N comparable, G DijkstraGraph[N]](graph G, source N, maxCost float64) (dist map[N]float64, prev map[N]N) {
	return dijkstra(graph, source, maxCost, nil)
}

func dijkstra[N comparable, G DijkstraGraph[N]](graph G, source N, maxCost float64, stopAt func(N) bool) (dist map[N]float64, prev map[N]N) {
	dist = map[N]float64{source: 0}
	prev = make(map[N]N)
	items := make(map[N]*PqItem[N])
	closed := make(map[N]struct{})

	queue := NewPriorityQueue[N]()
	sourceItem := NewNode(source)
	items[source] = sourceItem
	queue.Update(sourceItem, 0)

	for !queue.IsEmpty() {
		current := queue.PopItem().GetValue()
		if stopAt != nil && stopAt(current) {
			return
		}
		closed[current] = struct{}{}
		for neighbor := range graph.Successors(current) {
			if _, done := closed[neighbor]; done {
				continue
			}
			alt := dist[current] + edgeCost(graph, current, neighbor)
			if alt > maxCost {
				continue
			}
			if old, seen := dist[neighbor]; seen && alt >= old {
				continue
			}
			dist[neighbor] = alt
			prev[neighbor] = current
			item, exists := items[neighbor]
			if !exists {
				item = NewNode(neighbor)
				items[neighbor] = item
			}
			queue.Update(item, alt)
		}
	}
	return
}

// DijkstraPath is a lazy path method that runs Dijkstra until the end node is
// settled. A MaxCost of zero means no budget.
type DijkstraPath[N comparable, G DijkstraGraph[N]] struct {
	MaxCost float64
}

func (d DijkstraPath[N, G]) LazyPath(graph G, start, end N) (iter.Seq[N], bool) {
	budget := d.MaxCost
	if budget <= 0 {
		budget = math.Inf(1)
	}
	dist, prev := dijkstra(graph, start, budget, func(n N) bool { return n == end })
	if _, reached := dist[end]; !reached {
		return nil, false
	}
	nodes := reconstruct(prev, start, end)
	if nodes == nil {
		return nil, false
	}
	return slices.Values(nodes), true
}

func reconstruct[N comparable](prev map[N]N, start, end N) []N {
	nodes := []N{end}
	for current := end; current != start; {
		previous, ok := prev[current]
		if !ok {
			return nil
		}
		nodes = append(nodes, previous)
		current = previous
	}
	slices.Reverse(nodes)
	return nodes
}

func edgeCost[N comparable, G Translator[N]](graph G, from, to N) float64 {
	if costs, ok := any(graph).(CostSource[N]); ok {
		return costs.Cost(from, to)
	}
	return euclidean(graph, from, to)
}

func euclidean[N comparable, G Translator[N]](graph G, from, to N) float64 {
	return float64(graph.Translation(from).Sub(graph.Translation(to)).Len())
}
