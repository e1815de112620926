package tilemap

import (
	"encoding/hex"
	"image/color"
	"strings"

	"github.com/pkg/errors"
)

// CellLookup maps a pixel colour to a cell. ok is false for colours that do not
// describe any cell; those pixels stay absent from the grid.
type CellLookup interface {
	CellFor(c color.NRGBA) (cell Cell, ok bool)
}

// CellLookupFunc adapts a function to CellLookup.
type CellLookupFunc func(c color.NRGBA) (Cell, bool)

func (f CellLookupFunc) CellFor(c color.NRGBA) (Cell, bool) {
	return f(c)
}

// Palette is an exact-match colour table.
type Palette map[color.NRGBA]Cell

func (p Palette) CellFor(c color.NRGBA) (Cell, bool) {
	cell, ok := p[c]
	return cell, ok
}

// ParseHexColor accepts "#rrggbb" or "#rrggbbaa", the leading '#' is optional.
func ParseHexColor(s string) (color.NRGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return color.NRGBA{}, errors.Errorf("invalid colour %q: expected 6 or 8 hex digits", s)
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid colour %q", s)
	}
	c := color.NRGBA{R: decoded[0], G: decoded[1], B: decoded[2], A: 0xff}
	if len(decoded) == 4 {
		c.A = decoded[3]
	}
	return c, nil
}

func ParseCellKind(s string) (CellKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return CellNone, nil
	case "floor":
		return CellFloor, nil
	case "wall":
		return CellWall, nil
	case "pit":
		return CellPit, nil
	}
	return CellNone, errors.Errorf("unknown cell kind %q", s)
}
