package autotile

// Editor represents something we can paint tiles onto
type Editor interface {
	// AddTile fills (x,y), resolving the cells around it
	AddTile(x, y int)

	// RemoveTile empties (x,y), resolving the cells around it
	RemoveTile(x, y int)

	// ClearTiles empties everything
	ClearTiles()

	// Get returns the variant shown at (x,y) if it is stored
	Get(x, y int) (Variant, bool)

	// SetTileset sets the tileset by path, validating its geometry
	SetTileset(path string) error
}

var _ Editor = (*Engine)(nil)
