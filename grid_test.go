package autotile

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestGridSetGet(t *testing.T) {
	g := NewGrid()

	g.Set(3, -2, Filled)
	g.Set(3, 4, 5)

	v, ok := g.Get(3, -2)
	assert.True(t, ok)
	assert.Equal(t, Filled, v)

	v, ok = g.Get(3, 4)
	assert.True(t, ok)
	assert.Equal(t, Variant(5), v)

	assert.False(t, g.Contains(3, 0))
	assert.False(t, g.Contains(0, -2))
	assert.Equal(t, 2, g.Len())
}

func TestGridRemoveDropsColumn(t *testing.T) {
	g := NewGrid()
	g.Set(1, 1, Filled)
	g.Set(1, 2, Filled)

	g.Remove(1, 1)
	assert.True(t, g.hasColumn(1))

	g.Remove(1, 2)
	assert.False(t, g.hasColumn(1))
	assert.Equal(t, 0, g.Len())

	// removing from a missing column is fine
	g.Remove(7, 7)
	assert.False(t, g.hasColumn(7))
}

func TestGridEachOrder(t *testing.T) {
	g := NewGrid()
	g.Set(2, 0, 1)
	g.Set(-1, 5, 2)
	g.Set(2, -3, 3)
	g.Set(-1, -1, 4)

	expect := []Cell{
		{X: -1, Y: -1, Variant: 4},
		{X: -1, Y: 5, Variant: 2},
		{X: 2, Y: -3, Variant: 3},
		{X: 2, Y: 0, Variant: 1},
	}

	if diff := cmp.Diff(expect, g.Cells()); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{-1, 2}, g.Columns())
	assert.Equal(t, []int{-3, 0}, g.Rows(2))
}

func TestGridPlaceholderColumns(t *testing.T) {
	g := NewGrid()
	g.Set(0, 0, Filled)
	g.ensureColumn(10)
	g.ensureColumn(-10)

	assert.Equal(t, []int{0}, g.Columns())
	assert.Equal(t, 1, g.Len())

	bnds, ok := g.Bounds()
	assert.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 1, 1), bnds)
}

func TestGridBounds(t *testing.T) {
	g := NewGrid()

	_, ok := g.Bounds()
	assert.False(t, ok)

	g.Set(-2, 3, Filled)
	g.Set(4, -1, 7)

	bnds, ok := g.Bounds()
	assert.True(t, ok)
	assert.Equal(t, image.Rect(-2, -1, 5, 4), bnds)
}

func TestGridClear(t *testing.T) {
	g := NewGrid()
	g.Set(0, 0, Filled)
	g.Set(9, 9, 3)

	g.Clear()

	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Columns())
	_, ok := g.Bounds()
	assert.False(t, ok)
}
