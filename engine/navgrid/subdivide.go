package navgrid

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/util"
	"github.com/pkg/errors"
)

// ToSubdivided refines the grid by factor subdivisions+1 per axis. Every source cell
// becomes a factor x factor block that inherits node presence and the obstacle flag.
// Zero subdivisions returns an identical copy.
func (g GridGraph) ToSubdivided(subdivisions uint8) (GridGraph, error) {
	if subdivisions == 0 {
		return g.Clone(), nil
	}
	factor := uint32(subdivisions) + 1

	countX, ok := mulUint32(g.Context.CellCountX, factor)
	if !ok {
		return GridGraph{}, errors.Wrapf(ErrCellCountMaxedOut, "%d cells along x times %d", g.Context.CellCountX, factor)
	}
	countZ, ok := mulUint32(g.Context.CellCountZ, factor)
	if !ok {
		return GridGraph{}, errors.Wrapf(ErrCellCountMaxedOut, "%d cells along z times %d", g.Context.CellCountZ, factor)
	}
	cellDistance := g.Context.CellDistance / float32(factor)
	if cellDistance == 0 {
		return GridGraph{}, errors.Wrapf(ErrCellDistanceZero, "%v divided by %d", g.Context.CellDistance, factor)
	}

	result := GridGraph{
		Nodes:     make(map[Node]mgl32.Vec3, capacityHint(len(g.Nodes), factor)),
		Obstacles: make(map[Node]struct{}, capacityHint(len(g.Obstacles), factor)),
		Context:   GridContext{CellCountX: countX, CellCountZ: countZ, CellDistance: cellDistance},
	}

	// Positions are accumulated step by step rather than computed as
	// corner + index*cellDistance, so large grids drift slightly.
	corner := g.MinCorner()
	x := corner.X()
	for newX := uint32(0); newX < countX; newX++ {
		z := corner.Z()
		for newZ := uint32(0); newZ < countZ; newZ++ {
			source := Node{X: newX / factor, Y: newZ / factor}
			target := Node{X: newX, Y: newZ}
			if _, isNode := g.Nodes[source]; isNode {
				result.Nodes[target] = mgl32.Vec3{x, corner.Y(), z}
			}
			if _, isObstacle := g.Obstacles[source]; isObstacle {
				result.Obstacles[target] = struct{}{}
			}
			z += cellDistance
		}
		x += cellDistance
	}

	util.LogNavInfo(fmt.Sprintf("[NavGrid] Subdivided %s into %s", g.Context.ToString(), result.Context.ToString()))
	return result, nil
}

func mulUint32(a, b uint32) (uint32, bool) {
	product := uint64(a) * uint64(b)
	if product > math.MaxUint32 {
		return 0, false
	}
	return uint32(product), true
}

func capacityHint(count int, factor uint32) int {
	hint := uint64(count) * uint64(factor) * uint64(factor)
	if hint > 1<<20 {
		return 1 << 20
	}
	return int(hint)
}
