package path

import (
	"fmt"
	"iter"

	"github.com/go-gl/mathgl/mgl32"
)

// The navigation graph is split into one interface per capability so that a graph
// implements only what its consumers need and test doubles can fake each part.

type NodeLocator[N comparable] interface {
	// Node maps a world position to a node. ok is false outside navigable space.
	Node(world mgl32.Vec3) (node N, ok bool)
}

type Translator[N comparable] interface {
	// Translation is the canonical world position of a node, usually its cell centre.
	Translation(node N) mgl32.Vec3
}

type SuccessorSource[N comparable] interface {
	Successors(node N) iter.Seq[N]
}

type LineOfSighter[N comparable] interface {
	LineOfSight(from, to N) bool
}

type ObstacleChecker[N comparable] interface {
	IsObstacle(node N) bool
}

type NaivePather[N comparable] interface {
	// NaivePath tells whether an agent of the given radius can walk straight from
	// origin to the node.
	NaivePath(origin mgl32.Vec3, to N, agentRadius float32) NaivePath
}

// CostSource lets a graph override the Euclidean edge cost used by the searches.
type CostSource[N comparable] interface {
	Cost(from, to N) float64
}

type NaivePathKind int

const (
	// NaivePathCannotCompute is the zero value: nothing can be said about the walk.
	NaivePathCannotCompute NaivePathKind = iota
	NaivePathOk
	NaivePathPartial
)

type NaivePath struct {
	Kind NaivePathKind
	// Until is the point up to which the direct walk is safe, set for NaivePathPartial.
	Until mgl32.Vec3
}

func NaiveOk() NaivePath {
	return NaivePath{Kind: NaivePathOk}
}

func NaivePartialUntil(point mgl32.Vec3) NaivePath {
	return NaivePath{Kind: NaivePathPartial, Until: point}
}

func NaiveCannotCompute() NaivePath {
	return NaivePath{Kind: NaivePathCannotCompute}
}

func (n NaivePath) ToString() string {
	switch n.Kind {
	case NaivePathOk:
		return "Ok"
	case NaivePathPartial:
		return fmt.Sprintf("PartialUntil(%.3f, %.3f, %.3f)", n.Until.X(), n.Until.Y(), n.Until.Z())
	}
	return "CannotCompute"
}
