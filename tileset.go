package autotile

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/mitchellh/go-homedir"
)

// TilesetLoader reads the geometry of the tileset found at path.
type TilesetLoader func(path string) (*Tileset, error)

// Tileset describes a sprite sheet of 5 columns by 3 rows of square tiles.
// Only the geometry is held here, pixels are the renderer's problem.
type Tileset struct {
	Path   string
	Width  int // in pixels
	Height int // in pixels
}

// NewTileset returns a tileset after checking the sheet is 5x3 square tiles.
func NewTileset(path string, width, height int) (*Tileset, error) {
	if width <= 0 || height <= 0 || height*sheetColumns != width*sheetRows {
		return nil, fmt.Errorf("%w: %s is %dx%d, expected a %d:%d sheet", ErrInvalidTileset, path, width, height, sheetColumns, sheetRows)
	}
	return &Tileset{Path: path, Width: width, Height: height}, nil
}

// LoadTileset reads just the image header of the file at path (~ is
// expanded) and checks its geometry.
func LoadTileset(path string) (*Tileset, error) {
	fpath, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTileset, path, err)
	}

	return NewTileset(path, cfg.Width, cfg.Height)
}

// TileSize returns the width (and height) of a single tile in pixels.
func (t *Tileset) TileSize() int {
	return t.Height / sheetRows
}

// Rect returns where on the sheet the sprite for v is.
func (t *Tileset) Rect(v Variant) image.Rectangle {
	return SourceRect(v, t.TileSize())
}

// SourceRect returns the sheet rectangle of variant v given the tile size
// in pixels.
func SourceRect(v Variant, size int) image.Rectangle {
	row := int(v) / sheetColumns
	col := int(v) % sheetColumns
	return image.Rect(col*size, row*size, col*size+size, row*size+size)
}
