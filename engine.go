package autotile

import (
	"fmt"
	"math"
)

// Engine holds the grid of placed tiles and keeps every cell around them
// resolved to the right edge / corner variant as tiles are added & removed.
//
// An Engine has no internal locking; callers sharing one between goroutines
// must serialize access themselves.
type Engine struct {
	table  *PatternTable
	grid   *Grid
	loader TilesetLoader

	tileset     *Tileset
	tilesetPath string
}

// New returns an engine with an empty grid.
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rules := cfg.Rules
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	table, err := NewPatternTable(rules)
	if err != nil {
		return nil, err
	}

	loader := cfg.Loader
	if loader == nil {
		loader = LoadTileset
	}

	return &Engine{
		table:  table,
		grid:   NewGrid(),
		loader: loader,
	}, nil
}

// AddTile fills (x,y) and re-resolves the 8 cells around it.
// (x,y) itself always reads Filled afterwards.
func (e *Engine) AddTile(x, y int) {
	e.grid.Set(x, y, Filled)

	window(x, y, func(i, j int) {
		if i == x && j == y {
			return
		}
		e.resolve(i, j)
	})
}

// RemoveTile deletes (x,y) and re-resolves the 3x3 window around it,
// including (x,y). Nothing happens if there is no column at x.
func (e *Engine) RemoveTile(x, y int) {
	if !e.grid.hasColumn(x) {
		return
	}

	e.grid.Remove(x, y)

	window(x, y, e.resolve)
}

// ClearTiles removes every cell.
func (e *Engine) ClearTiles() {
	e.grid.Clear()
}

// resolve picks the variant for (x,y) from the occupancy around it.
// Filled cells are never touched. An all empty window removes the cell.
// A window no rule covers leaves whatever is stored as it is.
func (e *Engine) resolve(x, y int) {
	col := e.grid.ensureColumn(x)
	if v, ok := col[y]; ok && v == Filled {
		return
	}

	p := e.pattern(x, y)

	if v, ok := e.table.Lookup(p); ok {
		col[y] = v
		return
	}

	if p == Empty {
		e.grid.Remove(x, y)
	}
}

// pattern returns the occupancy of the 3x3 window centered on (x,y).
// Cells past the int limits read as empty.
func (e *Engine) pattern(x, y int) Pattern {
	var p Pattern
	for dy := -1; dy <= 1; dy++ {
		j, rowOK := offset(y, dy)
		for dx := -1; dx <= 1; dx++ {
			p <<= 1
			i, colOK := offset(x, dx)
			if !rowOK || !colOK {
				continue
			}
			if v, ok := e.grid.Get(i, j); ok && v == Filled {
				p |= 1
			}
		}
	}
	return p
}

// window calls fn for each cell of the 3x3 window centered on (x,y), rows
// outer, skipping cells past the int limits.
func window(x, y int, fn func(x, y int)) {
	for dy := -1; dy <= 1; dy++ {
		j, ok := offset(y, dy)
		if !ok {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			i, ok := offset(x, dx)
			if !ok {
				continue
			}
			fn(i, j)
		}
	}
}

// offset returns v+d, or false if that overflows
func offset(v, d int) (int, bool) {
	if (d > 0 && v > math.MaxInt-d) || (d < 0 && v < math.MinInt-d) {
		return 0, false
	}
	return v + d, true
}

// Pattern returns the occupancy of the 3x3 window centered on (x,y).
func (e *Engine) Pattern(x, y int) Pattern {
	return e.pattern(x, y)
}

// Get returns the variant stored at (x,y). Coordinates not in the grid
// render as Default.
func (e *Engine) Get(x, y int) (Variant, bool) {
	return e.grid.Get(x, y)
}

// View returns read only access to the grid.
func (e *Engine) View() View {
	return e.grid
}

// Cells returns every stored cell ordered by x, then y.
func (e *Engine) Cells() []Cell {
	return e.grid.Cells()
}

// Table returns the pattern table in use.
func (e *Engine) Table() *PatternTable {
	return e.table
}

// SetTileset records path as the map's tileset & installs it if its
// geometry is valid. On error any previously installed tileset is kept,
// but the path is still recorded (& saved) as given.
func (e *Engine) SetTileset(path string) error {
	e.tilesetPath = path

	ts, err := e.loader(path)
	if err != nil {
		return fmt.Errorf("failed to set tileset %s: %w", path, err)
	}

	e.tileset = ts
	return nil
}

// HasTileset returns if a valid tileset is installed.
func (e *Engine) HasTileset() bool {
	return e.tileset != nil
}

// Tileset returns the installed tileset, or nil.
func (e *Engine) Tileset() *Tileset {
	return e.tileset
}

// TilesetPath returns the tileset path as last given to SetTileset.
func (e *Engine) TilesetPath() string {
	return e.tilesetPath
}
