package cblock

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

var faceNames = map[cube.Face]string{
	cube.FaceDown:  "down",
	cube.FaceUp:    "up",
	cube.FaceNorth: "north",
	cube.FaceSouth: "south",
	cube.FaceWest:  "west",
	cube.FaceEast:  "east",
}

var faceVectors = map[cube.Face]mgl64.Vec3{
	cube.FaceDown:  {0, -1, 0},
	cube.FaceUp:    {0, 1, 0},
	cube.FaceNorth: {0, 0, -1},
	cube.FaceSouth: {0, 0, 1},
	cube.FaceWest:  {-1, 0, 0},
	cube.FaceEast:  {1, 0, 0},
}

// AllFaces lists every face in the order down, up, north, south, west, east.
func AllFaces() []cube.Face {
	return []cube.Face{cube.FaceDown, cube.FaceUp, cube.FaceNorth, cube.FaceSouth, cube.FaceWest, cube.FaceEast}
}

// HorizontalFaces lists the four horizontal faces in the order north, east, south, west.
func HorizontalFaces() []cube.Face {
	return []cube.Face{cube.FaceNorth, cube.FaceEast, cube.FaceSouth, cube.FaceWest}
}

// FaceName returns the lower-case name of f, e.g. "north".
func FaceName(f cube.Face) string {
	if n, ok := faceNames[f]; ok {
		return n
	}
	return "unknown"
}

// ParseFace returns the face named s.
func ParseFace(s string) (cube.Face, bool) {
	for f, n := range faceNames {
		if n == s {
			return f, true
		}
	}
	return 0, false
}

// FaceVector returns the unit vector pointing out of face f.
func FaceVector(f cube.Face) mgl64.Vec3 {
	return faceVectors[f]
}

// NearestFace returns the candidate face whose direction is closest to look.
// Ties resolve to the earliest candidate. It returns false if candidates is empty
// or look is the zero vector.
func NearestFace(look mgl64.Vec3, candidates []cube.Face) (cube.Face, bool) {
	if len(candidates) == 0 || look.Len() == 0 {
		return 0, false
	}
	best, bestDot := candidates[0], math.Inf(-1)
	for _, f := range candidates {
		if d := look.Dot(faceVectors[f]); d > bestDot {
			best, bestDot = f, d
		}
	}
	return best, true
}
