package game

import (
	"slices"

	"github.com/memmaker/tilenav/engine/navgrid"
	"github.com/memmaker/tilenav/engine/path"
)

// MovementRange holds every node an agent can reach from its position within a
// movement budget, with the cheapest route to each.
type MovementRange struct {
	navigator       *navgrid.Navigator
	origin          navgrid.Node
	budget          float64
	previousNodeMap map[navgrid.Node]navgrid.Node
	distanceMap     map[navgrid.Node]float64
	validTargets    []navgrid.Node
}

func NewMovementRange(navigator *navgrid.Navigator, origin navgrid.Node, budget float64) *MovementRange {
	m := &MovementRange{
		navigator:       navigator,
		origin:          origin,
		budget:          budget,
		previousNodeMap: make(map[navgrid.Node]navgrid.Node),
		distanceMap:     make(map[navgrid.Node]float64),
	}
	m.updateTargetData()
	return m
}

func (m *MovementRange) IsValidTarget(target navgrid.Node) bool {
	distance, ok := m.distanceMap[target]
	return ok && target != m.origin && distance <= m.budget
}

// GetValidTargets returns the reachable nodes ordered by cost, the origin excluded.
func (m *MovementRange) GetValidTargets() []navgrid.Node {
	return m.validTargets
}

// GetPath returns the nodes to walk from the origin to target, without the origin.
// Unreachable targets give an empty path.
func (m *MovementRange) GetPath(target navgrid.Node) []navgrid.Node {
	if !m.IsValidTarget(target) {
		return nil
	}
	pathToTarget := make([]navgrid.Node, 0)
	current := target
	for {
		pathToTarget = append(pathToTarget, current)
		if prev, ok := m.previousNodeMap[current]; ok {
			current = prev
		} else {
			break
		}
	}
	// remove last element, which is the origin
	pathToTarget = pathToTarget[:len(pathToTarget)-1]
	slices.Reverse(pathToTarget)
	return pathToTarget
}

func (m *MovementRange) GetCost(target navgrid.Node) float64 {
	return m.distanceMap[target]
}

func (m *MovementRange) updateTargetData() {
	if !m.navigator.Graph().Walkable(m.origin) {
		return
	}
	dist, prevNodeMap := path.Dijkstra[navgrid.Node](m.navigator, m.origin, m.budget)
	var valid []navgrid.Node
	for node, distance := range dist {
		m.distanceMap[node] = distance
		if node == m.origin {
			continue
		}
		valid = append(valid, node)
	}
	for node, prevNode := range prevNodeMap {
		m.previousNodeMap[node] = prevNode
	}
	slices.SortFunc(valid, func(a, b navgrid.Node) int {
		switch da, db := dist[a], dist[b]; {
		case da < db:
			return -1
		case da > db:
			return 1
		case a.Y != b.Y:
			return int(int64(a.Y) - int64(b.Y))
		}
		return int(int64(a.X) - int64(b.X))
	})
	m.validTargets = valid
}
