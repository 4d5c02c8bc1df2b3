/* file holds the on disk JSON map format.

	{ "tileset": "sheet.png",
	  "tiles": { "0": [0, 1], "-2": [5] } }

Only Filled cells are written; everything else is derived again by replaying
AddTile when the map is loaded.
*/
package autotile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/mitchellh/go-homedir"
	"github.com/tidwall/gjson"
)

// Column is a single x and the filled rows in it.
type Column struct {
	X    int
	Rows []int
}

// Occupancy is the set of Filled cells, column by column.
//
// It is an ordered list rather than a map so that the order columns appear
// in a document is the order they are replayed in.
type Occupancy []Column

// Each calls fn for every (x,y) in order.
func (o Occupancy) Each(fn func(x, y int)) {
	for _, col := range o {
		for _, y := range col.Rows {
			fn(col.X, y)
		}
	}
}

// Len returns the number of cells.
func (o Occupancy) Len() int {
	n := 0
	for _, col := range o {
		n += len(col.Rows)
	}
	return n
}

// MarshalJSON writes an object keyed by decimal x, in list order.
func (o Occupancy) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}
	buf.WriteByte('{')
	for i, col := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(col.X)))
		buf.WriteByte(':')

		rows := col.Rows
		if rows == nil {
			rows = []int{}
		}
		data, err := json.Marshal(rows)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by decimal x keeping document order.
func (o *Occupancy) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: tiles is not valid json", ErrInvalidDocument)
	}
	occ, err := parseOccupancy(gjson.ParseBytes(data))
	if err != nil {
		return err
	}
	*o = occ
	return nil
}

// parseOccupancy walks a gjson object in document order
func parseOccupancy(res gjson.Result) (Occupancy, error) {
	if !res.Exists() || res.Type == gjson.Null {
		return Occupancy{}, nil
	}
	if !res.IsObject() {
		return nil, fmt.Errorf("%w: tiles must be an object", ErrInvalidDocument)
	}

	occ := Occupancy{}
	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		x, perr := strconv.Atoi(key.String())
		if perr != nil {
			err = fmt.Errorf("%w: column %q is not an integer", ErrInvalidDocument, key.String())
			return false
		}
		if !value.IsArray() {
			err = fmt.Errorf("%w: column %d must be an array", ErrInvalidDocument, x)
			return false
		}

		col := Column{X: x, Rows: []int{}}
		for _, y := range value.Array() {
			if y.Type != gjson.Number || y.Num != float64(int(y.Num)) {
				err = fmt.Errorf("%w: column %d has non integer row %s", ErrInvalidDocument, x, y.Raw)
				return false
			}
			col.Rows = append(col.Rows, int(y.Int()))
		}
		occ = append(occ, col)
		return true
	})

	return occ, err
}

// Document is a saved map.
type Document struct {
	// path to the tileset image, recorded verbatim
	Tileset string `json:"tileset"`

	// filled cells
	Tiles Occupancy `json:"tiles"`
}

// Encode the document as indented JSON to a io.Writer stream
func (d *Document) Encode(w io.Writer) error {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Decode an input JSON map document
func Decode(r io.Reader) (*Document, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid json", ErrInvalidDocument)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidDocument)
	}

	tileset := root.Get("tileset")
	if tileset.Exists() && tileset.Type != gjson.String && tileset.Type != gjson.Null {
		return nil, fmt.Errorf("%w: tileset must be a string", ErrInvalidDocument)
	}

	tiles, err := parseOccupancy(root.Get("tiles"))
	if err != nil {
		return nil, err
	}

	return &Document{Tileset: tileset.String(), Tiles: tiles}, nil
}

// Open reads a document from disk (~ is expanded).
func Open(fname string) (*Document, error) {
	fpath, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// WriteFile writes the document to disk (~ is expanded).
func (d *Document) WriteFile(fname string) error {
	fpath, err := homedir.Expand(fname)
	if err != nil {
		return err
	}

	buff := bytes.Buffer{}
	err = d.Encode(&buff)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}

// Occupancy returns every Filled cell, column by column, both ascending.
// Columns with no Filled cell (only resolved cells, or the empty
// placeholders left by resolve) are skipped.
func (e *Engine) Occupancy() Occupancy {
	occ := Occupancy{}
	for _, x := range e.grid.Columns() {
		rows := []int{}
		for _, y := range e.grid.Rows(x) {
			if v, _ := e.grid.Get(x, y); v == Filled {
				rows = append(rows, y)
			}
		}
		if len(rows) == 0 {
			continue
		}
		occ = append(occ, Column{X: x, Rows: rows})
	}
	return occ
}

// Document returns the engine state as a saveable document.
func (e *Engine) Document() *Document {
	return &Document{Tileset: e.tilesetPath, Tiles: e.Occupancy()}
}

// Restore replaces the engine state with the document: the tileset is set
// (a bad one is reported as a *TilesetError but doesn't stop the load), the
// grid cleared and every filled cell replayed through AddTile in document
// order.
func (e *Engine) Restore(doc *Document) error {
	var tsErr error
	if doc.Tileset != "" {
		if err := e.SetTileset(doc.Tileset); err != nil {
			tsErr = &TilesetError{Path: doc.Tileset, Err: err}
			Logf("autotile: %v", tsErr)
		}
	}

	e.ClearTiles()
	doc.Tiles.Each(e.AddTile)

	return tsErr
}

// Save writes the engine state to a JSON document on disk.
func (e *Engine) Save(fname string) error {
	return e.Document().WriteFile(fname)
}

// Load reads a JSON document from disk and restores it. If the file can't
// be read or parsed the engine is left untouched.
func (e *Engine) Load(fname string) error {
	doc, err := Open(fname)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", fname, err)
	}
	return e.Restore(doc)
}
