package autotile

import (
	"image"
	"math"
)

// Placement says which sprite to draw where.
type Placement struct {
	// grid coordinate
	Point
	Variant Variant

	// sprite rectangle on the tileset sheet
	Src image.Rectangle

	// rectangle on the output image
	Dst image.Rectangle
}

// Layout is every sprite needed to draw the grid, plus one cell of margin
// on each side, onto a single image.
type Layout struct {
	// grid rectangle covered, Max exclusive
	Bounds image.Rectangle

	// tile width & height in pixels
	TileSize int

	// x major, so all of column Bounds.Min.X first
	Placements []Placement
}

// Size returns the output image size in pixels.
func (l *Layout) Size() (int, int) {
	return l.Bounds.Dx() * l.TileSize, l.Bounds.Dy() * l.TileSize
}

// Layout computes where every sprite goes in an exported image.
// Coordinates with no stored cell are drawn as Default.
func (e *Engine) Layout() (*Layout, error) {
	if e.tileset == nil {
		return nil, ErrNoTileset
	}

	lo, hi, ok := e.grid.extent()
	if !ok {
		return nil, ErrEmptyGrid
	}
	// the margin, and Max being exclusive, need room either side
	if lo.X == math.MinInt || lo.Y == math.MinInt || hi.X >= math.MaxInt-1 || hi.Y >= math.MaxInt-1 {
		return nil, ErrOutOfRange
	}
	bnds := image.Rect(lo.X-1, lo.Y-1, hi.X+2, hi.Y+2)

	size := e.tileset.TileSize()
	l := &Layout{
		Bounds:     bnds,
		TileSize:   size,
		Placements: make([]Placement, 0, bnds.Dx()*bnds.Dy()),
	}

	for x := bnds.Min.X; x < bnds.Max.X; x++ {
		for y := bnds.Min.Y; y < bnds.Max.Y; y++ {
			v, ok := e.grid.Get(x, y)
			if !ok {
				v = Default
			}

			dx := (x - bnds.Min.X) * size
			dy := (y - bnds.Min.Y) * size
			l.Placements = append(l.Placements, Placement{
				Point:   Point{X: x, Y: y},
				Variant: v,
				Src:     SourceRect(v, size),
				Dst:     image.Rect(dx, dy, dx+size, dy+size),
			})
		}
	}

	return l, nil
}
