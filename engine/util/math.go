package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RoundToGrid divides by cellDistance and rounds each horizontal axis to the nearest integer.
// ok is false for a zero cell distance or when the result does not fit an int64.
func RoundToGrid(position mgl32.Vec3, cellDistance float32) (x, z int64, ok bool) {
	if cellDistance == 0 {
		return 0, 0, false
	}
	fx := math.Round(float64(position.X()) / float64(cellDistance))
	fz := math.Round(float64(position.Z()) / float64(cellDistance))
	if !fitsInt64(fx) || !fitsInt64(fz) {
		return 0, 0, false
	}
	return int64(fx), int64(fz), true
}

func fitsInt64(f float64) bool {
	return !math.IsNaN(f) && f >= math.MinInt64 && f < math.MaxInt64
}
