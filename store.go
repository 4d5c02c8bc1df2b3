package autotile

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mitchellh/go-homedir"
)

const (
	sqlFillTile  = `INSERT INTO tiles (id, x, y) VALUES (:id, :x, :y) ON CONFLICT (id) DO NOTHING;`
	sqlEraseTile = `DELETE FROM tiles WHERE id=:id;`
	sqlSetMeta   = `INSERT INTO meta (key, value) VALUES (:key, :value) ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value;`
	sqlGetMeta   = `SELECT value FROM meta WHERE key=?;`

	metaTileset = "tileset"
)

// namedExec allows us to use either a transaction.NamedExec or DB.NamedExec
// in our sub functions.
type namedExec func(string, interface{}) (sql.Result, error)

// Store keeps the Filled cells of a map in a sqlite database, so a map
// survives restarts of a long running editor (see internal/httpapi).
//
// Like a Document only Filled cells are kept; resolved cells are derived
// again when the store is loaded into an Engine.
type Store struct {
	filename string
	db       *sqlx.DB
}

// NewStore creates a store with a random name in the os tempdir.
func NewStore() (*Store, error) {
	fname := filepath.Join(os.TempDir(), fmt.Sprintf("autotile.%s.sqlite", uuid.NewString()))
	return OpenStore(fname)
}

// OpenStore given it's filename (database file) on disk.
// Will create if it doesn't exist.
func OpenStore(fname string) (*Store, error) {
	fpath, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite3", fpath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, filename: fpath}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Filename returns the path to the database on disk
func (s *Store) Filename() string {
	return s.filename
}

// Close the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Fill marks (x,y) as Filled
func (s *Store) Fill(x, y int) error {
	_, err := s.db.NamedExec(sqlFillTile, newDBTile(x, y))
	return err
}

// Erase removes (x,y)
func (s *Store) Erase(x, y int) error {
	_, err := s.db.NamedExec(sqlEraseTile, newDBTile(x, y))
	return err
}

// Clear removes every tile. The tileset is kept.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM tiles;`)
	return err
}

// SetTileset records the tileset path
func (s *Store) SetTileset(path string) error {
	return setMeta(s.db.NamedExec, metaTileset, path)
}

// Tileset returns the recorded tileset path, or "" if none is set
func (s *Store) Tileset() (string, error) {
	var value string
	err := s.db.Get(&value, sqlGetMeta, metaTileset)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// Occupancy returns every Filled cell ordered by x, then y
func (s *Store) Occupancy() (Occupancy, error) {
	tiles := []dbTile{}
	err := s.db.Select(&tiles, `SELECT id,x,y FROM tiles ORDER BY x, y;`)
	if err != nil {
		return nil, err
	}
	return toOccupancy(tiles), nil
}

// Region returns the Filled cells in the rectangle (x0,y0,x1,y1), x1 & y1
// exclusive.
func (s *Store) Region(x0, y0, x1, y1 int) (Occupancy, error) {
	if x1 <= x0 || y1 <= y0 {
		return nil, fmt.Errorf("requested region (%d,%d)->(%d,%d) is invalid", x0, y0, x1, y1)
	}

	rows, err := s.db.NamedQuery(
		"SELECT id,x,y FROM tiles WHERE x>=:x0 AND x<:x1 AND y>=:y0 AND y<:y1 ORDER BY x, y;",
		map[string]interface{}{
			"x0": x0, "x1": x1,
			"y0": y0, "y1": y1,
		},
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tiles := []dbTile{}
	for rows.Next() {
		t := dbTile{}
		if err := rows.StructScan(&t); err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}

	return toOccupancy(tiles), rows.Err()
}

// Document returns the stored map as a Document
func (s *Store) Document() (*Document, error) {
	tileset, err := s.Tileset()
	if err != nil {
		return nil, err
	}
	occ, err := s.Occupancy()
	if err != nil {
		return nil, err
	}
	return &Document{Tileset: tileset, Tiles: occ}, nil
}

// Save replaces the stored map with the engine state, in a transaction.
func (s *Store) Save(e *Engine) error {
	doc := e.Document()

	txn, err := s.db.Beginx()
	if err != nil {
		return err
	}

	_, err = txn.Exec(`DELETE FROM tiles;`)
	if err != nil {
		txn.Rollback()
		return err
	}

	stmt, err := txn.PrepareNamed(sqlFillTile)
	if err != nil {
		txn.Rollback()
		return err
	}
	defer stmt.Close()

	for _, col := range doc.Tiles {
		for _, y := range col.Rows {
			_, err = stmt.Exec(newDBTile(col.X, y))
			if err != nil {
				txn.Rollback()
				return err
			}
		}
	}

	err = setMeta(txn.NamedExec, metaTileset, doc.Tileset)
	if err != nil {
		txn.Rollback()
		return err
	}

	return txn.Commit()
}

// Load restores the stored map into the engine (see Engine.Restore).
// If the store can't be read the engine is left untouched.
func (s *Store) Load(e *Engine) error {
	doc, err := s.Document()
	if err != nil {
		return fmt.Errorf("failed to read store %s: %w", s.filename, err)
	}
	return e.Restore(doc)
}

// init creates some DB tables for us if they don't exist
func (s *Store) init() error {
	createTiles := `CREATE TABLE IF NOT EXISTS tiles(
		id TEXT PRIMARY KEY,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL
	    );`
	_, err := s.db.Exec(createTiles)
	if err != nil {
		return err
	}

	createMeta := `CREATE TABLE IF NOT EXISTS meta(
		key TEXT PRIMARY KEY,
		value TEXT
	    );`

	_, err = s.db.Exec(createMeta)
	return err
}

// setMeta upserts a single meta key
func setMeta(do namedExec, key, value string) error {
	_, err := do(sqlSetMeta, dbMeta{Key: key, Value: value})
	return err
}

// toOccupancy groups tiles (sorted by x, y) into columns
func toOccupancy(tiles []dbTile) Occupancy {
	occ := Occupancy{}
	for _, t := range tiles {
		if len(occ) == 0 || occ[len(occ)-1].X != t.X {
			occ = append(occ, Column{X: t.X, Rows: []int{}})
		}
		last := &occ[len(occ)-1]
		last.Rows = append(last.Rows, t.Y)
	}
	return occ
}

// dbTile object encodes a single Filled cell.
// The ID here is used to insert/delete on a unique tile by it's (x,y)
// with a more straight forward query.
type dbTile struct {
	ID string `db:"id"`
	X  int    `db:"x"`
	Y  int    `db:"y"`
}

// newDBTile crafts a dbTile struct given it's inputs
func newDBTile(x, y int) dbTile {
	return dbTile{ID: fmt.Sprintf("%d,%d", x, y), X: x, Y: y}
}

// dbMeta is a single key / value setting
type dbMeta struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}
