// Package geo resolves named location queries into bounding boxes, first
// through a static alias table and then through a remote place search.
package geo

import "fmt"

// BoundingBox is a rectangular geographic region: west/south is the
// south-west corner, east/north the north-east corner.
type BoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Coords flattens the box into the coordinate order the streaming endpoint
// expects.
func (b BoundingBox) Coords() []float64 {
	return []float64{b.West, b.South, b.East, b.North}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%g,%g,%g,%g]", b.West, b.South, b.East, b.North)
}

// FromCoords builds a box from a four-element coordinate slice.
func FromCoords(coords []float64) (BoundingBox, error) {
	if len(coords) != 4 {
		return BoundingBox{}, fmt.Errorf("bounding box requires exactly 4 coordinates, got %d", len(coords))
	}
	return BoundingBox{West: coords[0], South: coords[1], East: coords[2], North: coords[3]}, nil
}
