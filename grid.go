package autotile

import (
	"image"
	"sort"
)

// View is read only access to a grid.
type View interface {
	// Get returns the variant stored at (x,y), if any
	Get(x, y int) (Variant, bool)

	// Contains returns if (x,y) has a stored variant
	Contains(x, y int) bool

	// Each calls fn for every stored cell ordered by x, then y
	Each(fn func(x, y int, v Variant))

	// Bounds returns the smallest rectangle (in grid coordinates, Max
	// exclusive) holding every stored cell
	Bounds() (image.Rectangle, bool)

	// Len returns the number of stored cells
	Len() int
}

// Grid is a sparse, unbounded store of column (x) -> row (y) -> variant.
//
// A column emptied by Remove is deleted. Engine.resolve may leave an empty
// column behind via ensureColumn; readers skip those explicitly.
type Grid struct {
	cols map[int]map[int]Variant
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{cols: map[int]map[int]Variant{}}
}

// Get returns the variant stored at (x,y).
func (g *Grid) Get(x, y int) (Variant, bool) {
	col, ok := g.cols[x]
	if !ok {
		return 0, false
	}
	v, ok := col[y]
	return v, ok
}

// Contains returns if (x,y) has an entry.
func (g *Grid) Contains(x, y int) bool {
	_, ok := g.Get(x, y)
	return ok
}

// Set inserts or overwrites (x,y), creating the column if needed.
func (g *Grid) Set(x, y int, v Variant) {
	g.ensureColumn(x)[y] = v
}

// Remove deletes (x,y). If the column is then empty it is deleted too.
func (g *Grid) Remove(x, y int) {
	col, ok := g.cols[x]
	if !ok {
		return
	}
	delete(col, y)
	if len(col) == 0 {
		delete(g.cols, x)
	}
}

// Clear removes everything.
func (g *Grid) Clear() {
	g.cols = map[int]map[int]Variant{}
}

// hasColumn returns if a column (possibly empty) exists for x
func (g *Grid) hasColumn(x int) bool {
	_, ok := g.cols[x]
	return ok
}

// ensureColumn returns the column for x, creating an empty one if needed.
func (g *Grid) ensureColumn(x int) map[int]Variant {
	col, ok := g.cols[x]
	if !ok {
		col = map[int]Variant{}
		g.cols[x] = col
	}
	return col
}

// Columns returns the x of every non empty column, ascending.
func (g *Grid) Columns() []int {
	xs := make([]int, 0, len(g.cols))
	for x, col := range g.cols {
		if len(col) == 0 {
			continue
		}
		xs = append(xs, x)
	}
	sort.Ints(xs)
	return xs
}

// Rows returns the y of every entry in column x, ascending.
func (g *Grid) Rows(x int) []int {
	col := g.cols[x]
	ys := make([]int, 0, len(col))
	for y := range col {
		ys = append(ys, y)
	}
	sort.Ints(ys)
	return ys
}

// Each calls fn for every entry ordered by x, then y.
func (g *Grid) Each(fn func(x, y int, v Variant)) {
	for _, x := range g.Columns() {
		col := g.cols[x]
		for _, y := range g.Rows(x) {
			fn(x, y, col[y])
		}
	}
}

// Cells returns every entry ordered by x, then y.
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.Len())
	g.Each(func(x, y int, v Variant) {
		cells = append(cells, Cell{X: x, Y: y, Variant: v})
	})
	return cells
}

// Len returns the number of entries.
func (g *Grid) Len() int {
	n := 0
	for _, col := range g.cols {
		n += len(col)
	}
	return n
}

// Bounds returns the rectangle covering every entry, Max exclusive.
// Returns false if the grid has no entries. Max wraps for entries at
// math.MaxInt; use extent where that matters.
func (g *Grid) Bounds() (image.Rectangle, bool) {
	lo, hi, ok := g.extent()
	if !ok {
		return image.Rectangle{}, false
	}
	return image.Rect(lo.X, lo.Y, hi.X+1, hi.Y+1), true
}

// extent returns the smallest & largest coordinates held, inclusive
func (g *Grid) extent() (image.Point, image.Point, bool) {
	found := false
	lo, hi := image.Point{}, image.Point{}

	for x, col := range g.cols {
		// empty columns are placeholders left by Engine.resolve, not cells
		for y := range col {
			if !found {
				lo, hi = image.Pt(x, y), image.Pt(x, y)
				found = true
				continue
			}
			if x < lo.X {
				lo.X = x
			}
			if y < lo.Y {
				lo.Y = y
			}
			if x > hi.X {
				hi.X = x
			}
			if y > hi.Y {
				hi.Y = y
			}
		}
	}

	return lo, hi, found
}
