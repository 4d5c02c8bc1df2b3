package autotile

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const encodedDoc = `{
    "tileset": "sheet.png",
    "tiles": {
        "-2": [
            5
        ],
        "0": [
            0,
            1
        ]
    }
}
`

func TestDocumentEncode(t *testing.T) {
	e := newTestEngine(t)
	require.Nil(t, e.SetTileset("sheet.png"))
	addAll(e, Point{0, 1}, Point{-2, 5}, Point{0, 0})

	buf := bytes.Buffer{}
	err := e.Document().Encode(&buf)

	assert.Nil(t, err)
	assert.Equal(t, encodedDoc, buf.String())
}

func TestDocumentEncodeEmpty(t *testing.T) {
	e := newTestEngine(t)

	buf := bytes.Buffer{}
	err := e.Document().Encode(&buf)

	assert.Nil(t, err)
	assert.Equal(t, "{\n    \"tileset\": \"\",\n    \"tiles\": {}\n}\n", buf.String())
}

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(encodedDoc))

	assert.Nil(t, err)
	assert.Equal(t, "sheet.png", doc.Tileset)
	assert.Equal(t, Occupancy{{X: -2, Rows: []int{5}}, {X: 0, Rows: []int{0, 1}}}, doc.Tiles)
	assert.Equal(t, 3, doc.Tiles.Len())
}

func TestDecodeKeepsDocumentOrder(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"tileset": "a.png", "tiles": {"5": [1], "-1": [2, 0]}}`))

	assert.Nil(t, err)
	assert.Equal(t, Occupancy{{X: 5, Rows: []int{1}}, {X: -1, Rows: []int{2, 0}}}, doc.Tiles)

	seen := []Point{}
	doc.Tiles.Each(func(x, y int) {
		seen = append(seen, Point{x, y})
	})
	assert.Equal(t, []Point{{5, 1}, {-1, 2}, {-1, 0}}, seen)
}

func TestDecodeMissingFields(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{}`))

	assert.Nil(t, err)
	assert.Equal(t, "", doc.Tileset)
	assert.Equal(t, 0, doc.Tiles.Len())
}

func TestDecodeInvalid(t *testing.T) {
	cases := []string{
		``,
		`not json`,
		`[]`,
		`{"tiles": []}`,
		`{"tiles": {"a": [1]}}`,
		`{"tiles": {"0": 5}}`,
		`{"tiles": {"0": [1.5]}}`,
		`{"tiles": {"0": ["1"]}}`,
		`{"tileset": 5, "tiles": {}}`,
	}

	for _, in := range cases {
		_, err := Decode(strings.NewReader(in))
		assert.True(t, errors.Is(err, ErrInvalidDocument), "%q: %v", in, err)
	}
}

func TestDocumentJSONUnmarshal(t *testing.T) {
	doc := Document{}

	err := json.Unmarshal([]byte(`{"tileset": "x.png", "tiles": {"3": [-1]}}`), &doc)

	assert.Nil(t, err)
	assert.Equal(t, "x.png", doc.Tileset)
	assert.Equal(t, Occupancy{{X: 3, Rows: []int{-1}}}, doc.Tiles)
}

func TestRestoreSingleTile(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"tileset": "", "tiles": {"0": [0]}}`))
	require.Nil(t, err)

	e := newTestEngine(t)
	err = e.Restore(doc)
	assert.Nil(t, err)

	expect := newTestEngine(t)
	expect.AddTile(0, 0)

	assert.Equal(t, expect.Cells(), e.Cells())
}

func TestRestoreReplacesGrid(t *testing.T) {
	e := newTestEngine(t)
	addAll(e, Point{10, 10}, Point{11, 10})

	err := e.Restore(&Document{Tiles: Occupancy{{X: 0, Rows: []int{0}}}})
	assert.Nil(t, err)

	_, ok := e.Get(10, 10)
	assert.False(t, ok)
	assert.Equal(t, 9, e.View().Len())
}

func TestRestoreInvalidTilesetStillLoads(t *testing.T) {
	e := newTestEngine(t)

	err := e.Restore(&Document{Tileset: "bad.png", Tiles: Occupancy{{X: 0, Rows: []int{0}}}})

	var tsErr *TilesetError
	assert.True(t, errors.As(err, &tsErr))
	assert.Equal(t, "bad.png", tsErr.Path)
	assert.True(t, errors.Is(err, ErrInvalidTileset))

	assert.False(t, e.HasTileset())
	assert.Equal(t, "bad.png", e.TilesetPath())

	v, ok := e.Get(0, 0)
	assert.True(t, ok)
	assert.Equal(t, Filled, v)
	assert.Equal(t, 9, e.View().Len())
}

func TestRestoreEmptyTilesetKeepsCurrent(t *testing.T) {
	e := newTestEngine(t)
	require.Nil(t, e.SetTileset("sheet.png"))

	err := e.Restore(&Document{Tiles: Occupancy{{X: 0, Rows: []int{0}}}})

	assert.Nil(t, err)
	assert.True(t, e.HasTileset())
	assert.Equal(t, "sheet.png", e.TilesetPath())
}

func TestSaveLoad(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "map.json")

	e := newTestEngine(t)
	require.Nil(t, e.SetTileset("sheet.png"))
	addAll(e, Point{0, 0}, Point{1, 0}, Point{1, 1}, Point{-4, 2})

	err := e.Save(fname)
	require.Nil(t, err)

	out := newTestEngine(t)
	err = out.Load(fname)

	assert.Nil(t, err)
	assert.Equal(t, e.Cells(), out.Cells())
	assert.Equal(t, "sheet.png", out.TilesetPath())
	assert.True(t, out.HasTileset())
}

func TestLoadMissingFileLeavesEngine(t *testing.T) {
	e := newTestEngine(t)
	e.AddTile(0, 0)
	before := e.Cells()

	err := e.Load(filepath.Join(t.TempDir(), "nope.json"))

	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, before, e.Cells())
}

func TestLoadMalformedFileLeavesEngine(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "broken.json")
	require.Nil(t, ioutil.WriteFile(fname, []byte(`{"tiles": {"0": [`), 0644))

	e := newTestEngine(t)
	e.AddTile(0, 0)
	before := e.Cells()

	err := e.Load(fname)

	assert.True(t, errors.Is(err, ErrInvalidDocument))
	assert.Equal(t, before, e.Cells())
}

func TestOccupancySkipsResolvedColumns(t *testing.T) {
	e := newTestEngine(t)
	addAll(e, Point{0, 0}, Point{0, 3})

	occ := e.Occupancy()

	assert.Equal(t, Occupancy{{X: 0, Rows: []int{0, 3}}}, occ)
}
