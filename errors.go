package autotile

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTileset is returned when a tileset is not a 5x3 sheet of
	// square tiles (height*5 must equal width*3).
	ErrInvalidTileset = errors.New("invalid tileset")

	// ErrNoTileset is returned by exporters that need sheet geometry when
	// no tileset has been installed.
	ErrNoTileset = errors.New("no tileset set")

	// ErrEmptyGrid is returned by exporters when there is nothing to lay out.
	ErrEmptyGrid = errors.New("grid is empty")

	// ErrOutOfRange is returned by exporters when cells sit too close to the
	// int limits for the layout (plus its margin) to be addressed.
	ErrOutOfRange = errors.New("cells too close to the coordinate limits")

	// ErrInvalidRule is returned when building a pattern table from a
	// malformed rule.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrInvalidDocument is returned when decoding a malformed map document.
	ErrInvalidDocument = errors.New("invalid map document")
)

// TilesetError is returned by Engine.Restore when the map was loaded but its
// tileset could not be installed.
type TilesetError struct {
	Path string
	Err  error
}

func (e *TilesetError) Error() string {
	return fmt.Sprintf("map loaded without tileset %s: %v", e.Path, e.Err)
}

func (e *TilesetError) Unwrap() error {
	return e.Err
}
