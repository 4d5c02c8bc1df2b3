package autotile

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	e := newTestEngine(t)
	require.Nil(t, e.SetTileset("sheet.png"))
	e.AddTile(0, 0)

	l, err := e.Layout()
	require.Nil(t, err)

	// one cell of margin around the 3x3 of stored cells
	assert.Equal(t, image.Rect(-2, -2, 3, 3), l.Bounds)
	assert.Equal(t, 32, l.TileSize)
	assert.Len(t, l.Placements, 25)

	w, h := l.Size()
	assert.Equal(t, 160, w)
	assert.Equal(t, 160, h)

	first := l.Placements[0]
	assert.Equal(t, Point{-2, -2}, first.Point)
	assert.Equal(t, Default, first.Variant)
	assert.Equal(t, image.Rect(32, 32, 64, 64), first.Src)
	assert.Equal(t, image.Rect(0, 0, 32, 32), first.Dst)

	// x major: column -2 then -1 then 0, 5 rows each
	center := l.Placements[12]
	assert.Equal(t, Point{0, 0}, center.Point)
	assert.Equal(t, Filled, center.Variant)
	assert.Equal(t, image.Rect(96, 64, 128, 96), center.Src)
	assert.Equal(t, image.Rect(64, 64, 96, 96), center.Dst)

	right := l.Placements[17]
	assert.Equal(t, Point{1, 0}, right.Point)
	assert.Equal(t, Variant(5), right.Variant)
	assert.Equal(t, image.Rect(0, 32, 32, 64), right.Src)
}

func TestLayoutDefaultsOnlyOutsideGrid(t *testing.T) {
	e := newTestEngine(t)
	require.Nil(t, e.SetTileset("sheet.png"))
	addAll(e, Point{0, 0}, Point{4, 4})

	l, err := e.Layout()
	require.Nil(t, err)

	for _, p := range l.Placements {
		v, ok := e.Get(p.X, p.Y)
		if ok {
			assert.Equal(t, v, p.Variant, "%v", p.Point)
		} else {
			assert.Equal(t, Default, p.Variant, "%v", p.Point)
		}
	}
}

func TestLayoutNoTileset(t *testing.T) {
	e := newTestEngine(t)
	e.AddTile(0, 0)

	_, err := e.Layout()

	assert.Equal(t, ErrNoTileset, err)
}

func TestLayoutEmptyGrid(t *testing.T) {
	e := newTestEngine(t)
	require.Nil(t, e.SetTileset("sheet.png"))

	_, err := e.Layout()
	assert.Equal(t, ErrEmptyGrid, err)

	e.AddTile(0, 0)
	e.RemoveTile(0, 0)

	_, err = e.Layout()
	assert.Equal(t, ErrEmptyGrid, err)
}

func TestLayoutAtIntLimits(t *testing.T) {
	for _, p := range []Point{{math.MaxInt, 0}, {0, math.MaxInt}, {math.MinInt, 0}, {0, math.MinInt}} {
		e := newTestEngine(t)
		require.Nil(t, e.SetTileset("sheet.png"))
		e.AddTile(p.X, p.Y)

		_, err := e.Layout()
		assert.Equal(t, ErrOutOfRange, err, "%v", p)

		_, err = e.TMX()
		assert.Equal(t, ErrOutOfRange, err, "%v", p)
	}
}
