package tilemap

import (
	"fmt"

	"github.com/memmaker/tilenav/engine/util"
)

// MinMapSize is the smallest navigable map edge in cells.
const MinMapSize = 2

type MapSizeErrorKind int

const (
	MapEmpty MapSizeErrorKind = iota
	MapTooSmall
)

// MapSizeError reports a map that produced no cells or resolved to fewer than
// MinMapSize cells along an axis.
type MapSizeError struct {
	Kind MapSizeErrorKind
	Size UInt2
}

func (e *MapSizeError) Error() string {
	if e.Kind == MapEmpty {
		return "map is empty"
	}
	return fmt.Sprintf("map size %dx%d is below the minimum of %dx%d", e.Size.X, e.Size.Z, MinMapSize, MinMapSize)
}

// Grid is the parsed cell layout of a level.
type Grid struct {
	Cells           map[UInt2]Cell
	HalfOffsetCells map[UInt2]HalfOffsetCell
	Size            UInt2
}

// Cell returns the cell at key, or the default cell when absent.
func (g Grid) Cell(key UInt2) Cell {
	return g.Cells[key]
}

// HalfOffsetCellAtCorner returns the corner cell shared by (x-1, z-1) .. (x, z).
func (g Grid) HalfOffsetCellAtCorner(x, z uint32) (HalfOffsetCell, bool) {
	if x == 0 || z == 0 {
		return HalfOffsetCell{}, false
	}
	h, ok := g.HalfOffsetCells[UInt2{X: x - 1, Z: z - 1}]
	return h, ok
}

// TryParse converts layer 0 of a pixel buffer into a grid, one pixel per cell.
func TryParse(pixels PixelBuffer, lookup CellLookup) (Grid, error) {
	width, height := pixels.Size()
	cells := make(map[UInt2]Cell)
	var maxX, maxZ uint32
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c, ok := ColorFromBytes(pixels.PixelBytes(x, y, 0))
			if !ok {
				continue
			}
			cell, ok := lookup.CellFor(c)
			if !ok {
				continue
			}
			key := UInt2{X: uint32(x), Z: uint32(y)}
			cells[key] = cell
			if key.X > maxX {
				maxX = key.X
			}
			if key.Z > maxZ {
				maxZ = key.Z
			}
		}
	}

	if len(cells) == 0 {
		return Grid{}, &MapSizeError{Kind: MapEmpty}
	}
	size := UInt2{X: maxX + 1, Z: maxZ + 1}
	if size.X < MinMapSize || size.Z < MinMapSize {
		return Grid{}, &MapSizeError{Kind: MapTooSmall, Size: size}
	}

	halfOffsetCells := make(map[UInt2]HalfOffsetCell, int(size.X-1)*int(size.Z-1))
	for x := uint32(1); x < size.X; x++ {
		for z := uint32(1); z < size.Z; z++ {
			var samples [4]DirectionalCell
			for i, sample := range cornerSampleKeys(x, z) {
				samples[i] = DirectionalCell{Direction: sample.Direction, Cell: cells[sample.Key]}
			}
			halfOffsetCells[UInt2{X: x - 1, Z: z - 1}] = NewHalfOffsetCell(samples[:]...)
		}
	}

	util.LogMapInfo(fmt.Sprintf("[TileMap] Parsed %d cells, size %dx%d, %d corners", len(cells), size.X, size.Z, len(halfOffsetCells)))
	return Grid{Cells: cells, HalfOffsetCells: halfOffsetCells, Size: size}, nil
}
