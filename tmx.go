/* this file is a simplified set of structs for writing TMX files.

Much of this code was lifted from github.com/bcvery1/tilepix including
the encode functions (all credit to authors).

We only need a small part of the feature set of TMX in order to hand a
resolved grid to Tiled (doc.mapeditor.org) so we only bother to write those.
*/
package autotile

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
)

const (
	// Property types
	// see doc.mapeditor.org/en/stable/reference/tmx-map-format/#properties
	PropInt = "int"

	// map properties giving the grid coordinate of the top left tile
	PropOriginX = "origin_x"
	PropOriginY = "origin_y"

	tmxLayerName = "autotile"
)

// TMXMap is a TMX file structure representing the map as a whole.
// We support only a subset of TMX:
// - one tileset, being the 5x3 sheet
// - one tile layer, CSV encoded without compression
// - the 'orthogonal' orientation
type TMXMap struct {
	XMLName        xml.Name      `xml:"map"`              // sets top level xml name
	Orientation    string        `xml:"orientation,attr"` // we only support "orthogonal"
	Width          int           `xml:"width,attr"`       // in tiles
	Height         int           `xml:"height,attr"`      // in tiles
	TileWidth      int           `xml:"tilewidth,attr"`   // in pixels
	TileHeight     int           `xml:"tileheight,attr"`  // in pixels
	RootProperties []*Property   `xml:"properties>property"`
	Tilesets       []*TMXTileset `xml:"tileset"`
	TileLayers     []*TileLayer  `xml:"layer"`
}

// TMXTileset is a TMX file structure which represents a Tiled Tileset
type TMXTileset struct {
	FirstGID   uint   `xml:"firstgid,attr"`
	Name       string `xml:"name,attr"`
	TileWidth  int    `xml:"tilewidth,attr"`
	TileHeight int    `xml:"tileheight,attr"`
	TileCount  int    `xml:"tilecount,attr"`
	Columns    int    `xml:"columns,attr"`
	Image      *Image `xml:"image"`
}

// Property is a TMX file structure which holds a Tiled property.
type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Type  string `xml:"type,attr"` // string (default), int, bool + other (we don't use)
}

// Image is an image file in TMX
type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// TileLayer is a TMX file structure holding one layer of tiles.
type TileLayer struct {
	ID     uint   `xml:"id,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Name   string `xml:"name,attr"`
	Data   Data   `xml:"data"`
	gids   []uint // row major
}

// Data is a TMX file structure holding data.
type Data struct {
	Encoding    string `xml:"encoding,attr"`
	Compression string `xml:"compression,attr,omitempty"`
	RawData     []byte `xml:",innerxml"`
}

// encodeCSV turns our list of tile ids into csv format
func (d *Data) encodeCSV(width, height int, in []uint) ([]byte, error) {
	if len(in) != width*height {
		return nil, fmt.Errorf("expected %d tiles, got %d", width*height, len(in))
	}

	values := make([]string, height)

	for row := 0; row < height; row++ {
		csvrow := make([]string, width)
		for col := 0; col < width; col++ {
			csvrow[col] = strconv.Itoa(int(in[row*width+col]))
		}
		values[row] = strings.Join(csvrow, ",")
	}

	return []byte("\n" + strings.Join(values, ",\n") + "\n"), nil
}

// Property returns the value of a map property, if set.
func (m *TMXMap) Property(name string) (string, bool) {
	for _, p := range m.RootProperties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// At returns the gid at (x,y), relative to the top left of the map.
// 0 is the nil tile.
func (m *TMXMap) At(x, y int) uint {
	if len(m.TileLayers) == 0 || x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.TileLayers[0].gids[y*m.Width+x]
}

// TMX lays out the grid (with a cell of margin, as Layout) as a Tiled map.
// Every cell, including Default ones, gets gid variant+1.
func (e *Engine) TMX() (*TMXMap, error) {
	l, err := e.Layout()
	if err != nil {
		return nil, err
	}

	width, height := l.Bounds.Dx(), l.Bounds.Dy()
	m := &TMXMap{
		Orientation: "orthogonal",
		Width:       width,
		Height:      height,
		TileWidth:   l.TileSize,
		TileHeight:  l.TileSize,
		RootProperties: []*Property{
			{Name: PropOriginX, Value: strconv.Itoa(l.Bounds.Min.X), Type: PropInt},
			{Name: PropOriginY, Value: strconv.Itoa(l.Bounds.Min.Y), Type: PropInt},
		},
		Tilesets: []*TMXTileset{{
			FirstGID:   1,
			Name:       "tileset",
			TileWidth:  l.TileSize,
			TileHeight: l.TileSize,
			TileCount:  sheetColumns * sheetRows,
			Columns:    sheetColumns,
			Image: &Image{
				Source: e.tileset.Path,
				Width:  e.tileset.Width,
				Height: e.tileset.Height,
			},
		}},
	}

	layer := &TileLayer{
		ID:     1,
		Width:  width,
		Height: height,
		Name:   tmxLayerName,
		Data:   Data{Encoding: "csv"},
		gids:   make([]uint, width*height),
	}
	for _, p := range l.Placements {
		// the reverse of index = y * width + x
		tx := p.X - l.Bounds.Min.X
		ty := p.Y - l.Bounds.Min.Y
		layer.gids[ty*width+tx] = uint(p.Variant) + m.Tilesets[0].FirstGID
	}
	m.TileLayers = []*TileLayer{layer}

	return m, nil
}

// Encode the map as XML to a io.Writer stream
func (m *TMXMap) Encode(w io.Writer) error {
	for _, tl := range m.TileLayers {
		tdata, err := tl.Data.encodeCSV(m.Width, m.Height, tl.gids)
		if err != nil {
			return err
		}
		tl.Data.RawData = tdata
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	return enc.Encode(m)
}

// WriteFile writes the map to disk as a .tmx
func (m *TMXMap) WriteFile(fname string) error {
	fpath, err := homedir.Expand(fname)
	if err != nil {
		return err
	}

	buff := bytes.Buffer{}
	err = m.Encode(&buff)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}
