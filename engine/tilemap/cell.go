package tilemap

import "fmt"

// UInt2 is an integer grid key on the horizontal plane.
type UInt2 struct {
	X, Z uint32
}

func (u UInt2) ToString() string {
	return fmt.Sprintf("(%d, %d)", u.X, u.Z)
}

type CellKind uint8

const (
	// CellNone marks a position that is absent from the source map.
	CellNone CellKind = iota
	CellFloor
	CellWall
	CellPit
)

func (k CellKind) String() string {
	switch k {
	case CellNone:
		return "none"
	case CellFloor:
		return "floor"
	case CellWall:
		return "wall"
	case CellPit:
		return "pit"
	}
	return fmt.Sprintf("CellKind(%d)", uint8(k))
}

// Cell is the semantic terrain unit of a grid position. The zero value is the
// "non-existent" cell.
type Cell struct {
	Kind CellKind
	// Tile selects a visual variant, it has no navigation meaning.
	Tile uint8
}

func (c Cell) Exists() bool {
	return c.Kind != CellNone
}

func (c Cell) Walkable() bool {
	return c.Kind == CellFloor
}

func (c Cell) IsObstacle() bool {
	return c.Kind == CellWall || c.Kind == CellPit
}

type Direction uint8

const (
	DirZ Direction = iota
	DirX
	DirNegX
	DirNegZ
)

func (d Direction) String() string {
	switch d {
	case DirZ:
		return "Z"
	case DirX:
		return "X"
	case DirNegX:
		return "NegX"
	case DirNegZ:
		return "NegZ"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

type DirectionalCell struct {
	Direction Direction
	Cell      Cell
}

// HalfOffsetCell describes the area around the corner shared by four cells. In the
// 45 degree rotated corner space Z and NegZ are one diagonal pair, X and NegX the other.
type HalfOffsetCell struct {
	Z    Cell
	X    Cell
	NegX Cell
	NegZ Cell
}

// NewHalfOffsetCell assembles a corner from directional samples. Directions that are
// not sampled keep the default cell.
func NewHalfOffsetCell(samples ...DirectionalCell) HalfOffsetCell {
	var h HalfOffsetCell
	for _, sample := range samples {
		switch sample.Direction {
		case DirZ:
			h.Z = sample.Cell
		case DirX:
			h.X = sample.Cell
		case DirNegX:
			h.NegX = sample.Cell
		case DirNegZ:
			h.NegZ = sample.Cell
		}
	}
	return h
}

// Samples returns the four corner samples in Z, X, NegX, NegZ order.
func (h HalfOffsetCell) Samples() [4]DirectionalCell {
	return [4]DirectionalCell{
		{Direction: DirZ, Cell: h.Z},
		{Direction: DirX, Cell: h.X},
		{Direction: DirNegX, Cell: h.NegX},
		{Direction: DirNegZ, Cell: h.NegZ},
	}
}

func (h HalfOffsetCell) Walkable() bool {
	return h.Z.Walkable() && h.X.Walkable() && h.NegX.Walkable() && h.NegZ.Walkable()
}

func (h HalfOffsetCell) Blocked() bool {
	return h.Z.IsObstacle() || h.X.IsObstacle() || h.NegX.IsObstacle() || h.NegZ.IsObstacle()
}

// cornerSampleKeys returns the cell keys around corner (x, z) with their direction
// tags, in sample order. x and z must be at least 1.
func cornerSampleKeys(x, z uint32) [4]struct {
	Key       UInt2
	Direction Direction
} {
	return [4]struct {
		Key       UInt2
		Direction Direction
	}{
		{Key: UInt2{X: x, Z: z}, Direction: DirZ},
		{Key: UInt2{X: x, Z: z - 1}, Direction: DirX},
		{Key: UInt2{X: x - 1, Z: z}, Direction: DirNegX},
		{Key: UInt2{X: x - 1, Z: z - 1}, Direction: DirNegZ},
	}
}
