package navgrid

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrCellCountZero     = errors.New("cell count is zero")
	ErrCellDistanceZero  = errors.New("cell distance is zero")
	ErrCellCountMaxedOut = errors.New("cell count exceeds the maximum grid size")

	ErrUnmappable     = errors.New("position is outside navigable space")
	ErrNoPath         = errors.New("no path found")
	ErrNegativeRadius = errors.New("agent radius is negative")
)

// GridContext describes a grid's dimensions and the world-space size of one cell.
type GridContext struct {
	CellCountX   uint32
	CellCountZ   uint32
	CellDistance float32
}

// NewGridContext validates that all three values are positive.
func NewGridContext(cellCountX, cellCountZ uint32, cellDistance float32) (GridContext, error) {
	if cellCountX == 0 || cellCountZ == 0 {
		return GridContext{}, errors.Wrapf(ErrCellCountZero, "grid %dx%d", cellCountX, cellCountZ)
	}
	if !(cellDistance > 0) {
		return GridContext{}, errors.Wrapf(ErrCellDistanceZero, "cell distance %v", cellDistance)
	}
	return GridContext{CellCountX: cellCountX, CellCountZ: cellCountZ, CellDistance: cellDistance}, nil
}

func (c GridContext) Contains(n Node) bool {
	return n.X < c.CellCountX && n.Y < c.CellCountZ
}

func (c GridContext) ToString() string {
	return fmt.Sprintf("%dx%d cells of %.3f", c.CellCountX, c.CellCountZ, c.CellDistance)
}
