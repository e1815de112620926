// Package navdebug renders navigation grids and paths for inspection: as text,
// as a glTF scene and as a PNG plot.
package navdebug

import (
	"bufio"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/tilenav/engine/navgrid"
	"github.com/memmaker/tilenav/engine/util"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33;1m"
	ansiGrey   = "\x1b[90m"
)

// PathCells returns the grid cells touched by the polyline through the waypoints.
func PathCells(graph navgrid.GridGraph, waypoints []mgl32.Vec3) map[navgrid.Node]struct{} {
	cells := make(map[navgrid.Node]struct{})
	cd := float64(graph.Context.CellDistance)
	if cd <= 0 || len(waypoints) == 0 {
		return cells
	}
	mark := func(x, y int64) bool {
		if x >= 0 && y >= 0 && x <= math.MaxUint32 && y <= math.MaxUint32 {
			node := navgrid.Node{X: uint32(x), Y: uint32(y)}
			if graph.Context.Contains(node) {
				cells[node] = struct{}{}
			}
		}
		return true
	}
	toCell := func(p mgl32.Vec3) (float64, float64) {
		return float64(p.X())/cd + 0.5, float64(p.Z())/cd + 0.5
	}
	if len(waypoints) == 1 {
		x, y := toCell(waypoints[0])
		mark(int64(math.Floor(x)), int64(math.Floor(y)))
		return cells
	}
	for i := 1; i < len(waypoints); i++ {
		fromX, fromY := toCell(waypoints[i-1])
		toX, toY := toCell(waypoints[i])
		util.WalkGrid2D(fromX, fromY, toX, toY, mark)
	}
	return cells
}

// RenderASCII writes one line per grid row: '.' node, '#' obstacle, '*' path,
// ' ' no content.
func RenderASCII(w io.Writer, graph navgrid.GridGraph, waypoints []mgl32.Vec3, colour bool) error {
	onPath := PathCells(graph, waypoints)
	out := bufio.NewWriter(w)
	for y := uint32(0); y < graph.Context.CellCountZ; y++ {
		for x := uint32(0); x < graph.Context.CellCountX; x++ {
			node := navgrid.Node{X: x, Y: y}
			symbol, style := " ", ""
			switch _, isPath := onPath[node]; {
			case isPath:
				symbol, style = "*", ansiYellow
			case graph.IsObstacle(node):
				symbol, style = "#", ansiRed
			case graph.HasNode(node):
				symbol, style = ".", ansiGrey
			}
			if colour && style != "" {
				symbol = style + symbol + ansiReset
			}
			if _, err := out.WriteString(symbol); err != nil {
				return err
			}
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return out.Flush()
}
