package navgrid

import (
	"fmt"
	"iter"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/memmaker/tilenav/engine/path"
	"github.com/memmaker/tilenav/engine/util"
)

// Navigator exposes a GridGraph through the path capability interfaces.
// Straight-walk checks run against a chipmunk space holding one static box per run
// of blocked cells. The space is built on first use and shared by all queries.
type Navigator struct {
	graph GridGraph

	spaceLock sync.Mutex
	space     *cp.Space
}

func NewNavigator(graph GridGraph) *Navigator {
	return &Navigator{graph: graph}
}

func (n *Navigator) Graph() GridGraph {
	return n.graph
}

func (n *Navigator) Node(world mgl32.Vec3) (Node, bool) {
	node, err := n.graph.LocateNode(world)
	return node, err == nil
}

func (n *Navigator) Translation(node Node) mgl32.Vec3 {
	return n.graph.Translation(node)
}

var neighborOffsets = [8][2]int64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// Successors yields the walkable neighbours of a node. Diagonal moves need both
// adjacent orthogonal cells to be walkable.
func (n *Navigator) Successors(node Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, offset := range neighborOffsets {
			next, ok := node.Offset(offset[0], offset[1])
			if !ok || !n.graph.Walkable(next) {
				continue
			}
			if offset[0] != 0 && offset[1] != 0 && !n.cornerIsOpen(node, offset[0], offset[1]) {
				continue
			}
			if !yield(next) {
				return
			}
		}
	}
}

func (n *Navigator) cornerIsOpen(node Node, dx, dy int64) bool {
	alongX, okX := node.Offset(dx, 0)
	alongY, okY := node.Offset(0, dy)
	return okX && okY && n.graph.Walkable(alongX) && n.graph.Walkable(alongY)
}

// Cost is the Euclidean distance between the node translations.
func (n *Navigator) Cost(from, to Node) float64 {
	return float64(n.graph.Translation(from).Sub(n.graph.Translation(to)).Len())
}

// LineOfSight walks every cell touched by the segment between the two cell centres.
func (n *Navigator) LineOfSight(from, to Node) bool {
	return util.WalkGrid2D(
		float64(from.X)+0.5, float64(from.Y)+0.5,
		float64(to.X)+0.5, float64(to.Y)+0.5,
		func(x, y int64) bool {
			if x < 0 || y < 0 || x > math.MaxUint32 || y > math.MaxUint32 {
				return false
			}
			return n.graph.Walkable(Node{X: uint32(x), Y: uint32(y)})
		},
	)
}

func (n *Navigator) IsObstacle(node Node) bool {
	return !n.graph.Walkable(node)
}

// NaivePath sweeps a circle of the agent radius from origin to the node's centre.
// A clear sweep is Ok. Otherwise, for a cardinal neighbour, the agent may first
// line up with the centre line of its own cell and walk straight from there.
func (n *Navigator) NaivePath(origin mgl32.Vec3, to Node, agentRadius float32) path.NaivePath {
	if agentRadius < 0 || math.IsNaN(float64(agentRadius)) {
		return path.NaiveCannotCompute()
	}
	originNode, err := n.graph.LocateNode(origin)
	if err != nil || !n.graph.Walkable(to) {
		return path.NaiveCannotCompute()
	}
	target := n.graph.Translation(to)
	if n.sweepIsClear(origin, target, agentRadius) {
		return path.NaiveOk()
	}

	dx := int64(to.X) - int64(originNode.X)
	dy := int64(to.Y) - int64(originNode.Y)
	if dx*dx+dy*dy != 1 {
		return path.NaiveCannotCompute()
	}
	centre := n.graph.Translation(originNode)
	approach := centre
	if dx != 0 {
		approach[0] = origin.X()
	} else {
		approach[2] = origin.Z()
	}
	if n.sweepIsClear(origin, approach, agentRadius) && n.sweepIsClear(approach, target, agentRadius) {
		return path.NaivePartialUntil(approach)
	}
	return path.NaiveCannotCompute()
}

func (n *Navigator) sweepIsClear(from, to mgl32.Vec3, radius float32) bool {
	n.spaceLock.Lock()
	defer n.spaceLock.Unlock()
	if n.space == nil {
		n.space = n.buildSpace()
	}
	start := cp.Vector{X: float64(from.X()), Y: float64(from.Z())}
	end := cp.Vector{X: float64(to.X()), Y: float64(to.Z())}
	info := n.space.SegmentQueryFirst(start, end, float64(radius), cp.SHAPE_FILTER_ALL)
	return info.Shape == nil
}

// buildSpace covers every blocked cell of the grid with static boxes, merging
// horizontal runs, and walls the grid in. World Z maps to the space's Y axis.
func (n *Navigator) buildSpace() *cp.Space {
	space := cp.NewSpace()
	cd := float64(n.graph.Context.CellDistance)
	half := cd / 2
	countX := n.graph.Context.CellCountX
	countZ := n.graph.Context.CellCountZ

	addBox := func(bb cp.BB) {
		space.AddShape(cp.NewBox2(space.StaticBody, bb, 0))
	}

	boxes := 0
	for z := uint32(0); z < countZ; z++ {
		for x := uint32(0); x < countX; {
			if n.graph.Walkable(Node{X: x, Y: z}) {
				x++
				continue
			}
			run := uint32(1)
			for x+run < countX && !n.graph.Walkable(Node{X: x + run, Y: z}) {
				run++
			}
			addBox(cp.BB{
				L: float64(x)*cd - half,
				B: float64(z)*cd - half,
				R: float64(x+run)*cd - half,
				T: float64(z)*cd + half,
			})
			boxes++
			x += run
		}
	}

	minX, minZ := -half, -half
	maxX := float64(countX)*cd - half
	maxZ := float64(countZ)*cd - half
	addBox(cp.BB{L: minX - cd, B: minZ - cd, R: maxX + cd, T: minZ})
	addBox(cp.BB{L: minX - cd, B: maxZ, R: maxX + cd, T: maxZ + cd})
	addBox(cp.BB{L: minX - cd, B: minZ, R: minX, T: maxZ})
	addBox(cp.BB{L: maxX, B: minZ, R: maxX + cd, T: maxZ})

	util.LogNavDebug(fmt.Sprintf("[Navigator] Built collision space with %d blocked runs for %s", boxes, n.graph.Context.ToString()))
	return space
}
