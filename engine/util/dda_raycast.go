package util

import (
	"math"
)

type CardinalDirection int

const (
	North CardinalDirection = iota
	East
	South
	West
)

type HitInfo2D struct {
	Hit          bool
	GridX, GridY int64
	// Side is the face of the hit cell the ray entered through.
	Side CardinalDirection
	// Fraction of the segment travelled before entering the hit cell.
	Fraction float64
}

// WalkGrid2D visits every unit cell touched by the segment from start to end,
// beginning with the cell containing start and finishing with the cell containing end.
// Cell (i, j) covers [i, i+1) x [j, j+1). When the segment passes exactly through a
// cell corner both side cells are visited. Walking stops early when visit returns
// false; the return value reports whether the whole segment was walked.
func WalkGrid2D(startX, startY, endX, endY float64, visit func(x, y int64) bool) bool {
	return !Raycast2D(startX, startY, endX, endY, func(x, y int64) bool { return !visit(x, y) }).Hit
}

// Raycast2D steps a ray cell by cell (DDA) from start towards end and returns the
// first cell for which shouldStopRay reports true.
func Raycast2D(startX, startY, endX, endY float64, shouldStopRay func(x, y int64) bool) HitInfo2D {
	mapX := int64(math.Floor(startX))
	mapY := int64(math.Floor(startY))
	endMapX := int64(math.Floor(endX))
	endMapY := int64(math.Floor(endY))

	if shouldStopRay(mapX, mapY) {
		return HitInfo2D{Hit: true, GridX: mapX, GridY: mapY}
	}

	directionX := endX - startX
	directionY := endY - startY

	var mapStepX, mapStepY int64
	deltaDistX := math.Inf(1)
	deltaDistY := math.Inf(1)
	sideDistX := math.Inf(1)
	sideDistY := math.Inf(1)

	// distances are measured in fractions of the segment length
	if directionX < 0 {
		mapStepX = -1
		deltaDistX = -1 / directionX
		sideDistX = (startX - float64(mapX)) * deltaDistX
	} else if directionX > 0 {
		mapStepX = 1
		deltaDistX = 1 / directionX
		sideDistX = (float64(mapX) + 1.0 - startX) * deltaDistX
	}
	if directionY < 0 {
		mapStepY = -1
		deltaDistY = -1 / directionY
		sideDistY = (startY - float64(mapY)) * deltaDistY
	} else if directionY > 0 {
		mapStepY = 1
		deltaDistY = 1 / directionY
		sideDistY = (float64(mapY) + 1.0 - startY) * deltaDistY
	}

	sideOf := func(eastWest bool) CardinalDirection {
		if eastWest {
			if mapStepX > 0 {
				return West
			}
			return East
		}
		if mapStepY > 0 {
			return North
		}
		return South
	}

	remainingSteps := absInt64(endMapX-mapX) + absInt64(endMapY-mapY)
	for remainingSteps > 0 {
		stepX := sideDistX < sideDistY
		stepY := sideDistY < sideDistX
		if mapX == endMapX {
			stepX, stepY = false, true
		} else if mapY == endMapY {
			stepX, stepY = true, false
		}

		if !stepX && !stepY {
			// exact corner crossing, both neighbours count as touched
			fraction := sideDistX
			if shouldStopRay(mapX+mapStepX, mapY) {
				return HitInfo2D{Hit: true, GridX: mapX + mapStepX, GridY: mapY, Side: sideOf(true), Fraction: fraction}
			}
			if shouldStopRay(mapX, mapY+mapStepY) {
				return HitInfo2D{Hit: true, GridX: mapX, GridY: mapY + mapStepY, Side: sideOf(false), Fraction: fraction}
			}
			mapX += mapStepX
			mapY += mapStepY
			sideDistX += deltaDistX
			sideDistY += deltaDistY
			remainingSteps -= 2
			if shouldStopRay(mapX, mapY) {
				return HitInfo2D{Hit: true, GridX: mapX, GridY: mapY, Side: sideOf(true), Fraction: fraction}
			}
			continue
		}

		var fraction float64
		if stepX {
			fraction = sideDistX
			mapX += mapStepX
			sideDistX += deltaDistX
		} else {
			fraction = sideDistY
			mapY += mapStepY
			sideDistY += deltaDistY
		}
		remainingSteps--
		if shouldStopRay(mapX, mapY) {
			return HitInfo2D{Hit: true, GridX: mapX, GridY: mapY, Side: sideOf(stepX), Fraction: math.Min(fraction, 1)}
		}
	}
	return HitInfo2D{Hit: false, GridX: mapX, GridY: mapY, Fraction: 1}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
