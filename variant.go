package autotile

import (
	"fmt"
)

// Variant is the id of a tile variant; it is also the index of the sprite
// within the 5x3 tileset sheet (row = id / 5, col = id % 5).
type Variant int

const (
	// Default is drawn for coordinates that are not in the grid.
	// It is never stored.
	Default Variant = 6

	// Filled marks a cell the user placed. Resolution never overwrites it.
	Filled Variant = 13

	// sheet geometry, in tiles
	sheetColumns = 5
	sheetRows    = 3
)

// Resolved returns if v is one of the edge / corner variants the pattern
// table may produce.
func (v Variant) Resolved() bool {
	return v >= 0 && v < Filled && v != Default
}

func (v Variant) String() string {
	switch v {
	case Default:
		return "default"
	case Filled:
		return "filled"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Point is a grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is a single stored grid entry.
type Cell struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Variant Variant `json:"variant"`
}
