package navgrid

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/path"
	"github.com/memmaker/tilenav/engine/util"
	"github.com/pkg/errors"
)

type SearchMethod = path.LazyPathMethod[Node, *Navigator]

const (
	SearchAStar     = "astar"
	SearchThetaStar = "theta"
	SearchDijkstra  = "dijkstra"
)

// MethodByName resolves a search method name as used in level files and on the
// command line. The empty name selects A*.
func MethodByName(name string, maxExpanded int) (SearchMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SearchAStar:
		return path.AStar[Node, *Navigator]{MaxExpanded: maxExpanded}, nil
	case SearchThetaStar:
		return path.ThetaStar[Node, *Navigator]{MaxExpanded: maxExpanded}, nil
	case SearchDijkstra:
		return path.DijkstraPath[Node, *Navigator]{}, nil
	}
	return nil, errors.Errorf("unknown search method %q", name)
}

// Planner is the flat-grid planner. Unlike path.Planner it reports why a query
// failed.
type Planner struct {
	Navigator *Navigator
	Method    SearchMethod
}

func NewPlanner(navigator *Navigator, method SearchMethod) Planner {
	if method == nil {
		method = path.AStar[Node, *Navigator]{}
	}
	return Planner{Navigator: navigator, Method: method}
}

func (p Planner) ComputePath(start, end mgl32.Vec3, agentRadius float32) ([]mgl32.Vec3, error) {
	if agentRadius < 0 || math.IsNaN(float64(agentRadius)) {
		return nil, errors.Wrapf(ErrNegativeRadius, "radius %v", agentRadius)
	}
	graph := p.Navigator.Graph()
	if _, err := graph.LocateNode(start); err != nil {
		return nil, errors.Wrapf(err, "start %v", start)
	}
	if _, err := graph.LocateNode(end); err != nil {
		return nil, errors.Wrapf(err, "end %v", end)
	}
	waypoints, ok := path.NewPlanner[Node](p.Navigator, p.Method).ComputePath(start, end, agentRadius)
	if !ok {
		util.LogNavDebug(fmt.Sprintf("[Planner] No path from %v to %v", start, end))
		return nil, errors.Wrapf(ErrNoPath, "from %v to %v", start, end)
	}
	return waypoints, nil
}
