package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voidshard/autotile"
	"github.com/voidshard/autotile/render"

	"github.com/alecthomas/kong"
)

const desc = `Renders an autotile map (.json map file or store database) to a .png image or a .tmx Tiled map.`

var cli struct {
	// where to find the input map
	Input string `short:"i" help:"input .json map file"`
	DB    string `help:"input store database file (instead of --input)"`

	Output string `short:"o" help:"where to write output, .png or .tmx by extension. Defaults to input + .png. Overwrites output file if it exists."`

	Config  string `short:"c" help:"yaml config file"`
	Tileset string `short:"t" help:"tileset image, overrides the one named by the map"`
	Scale   int    `default:"0" help:"multiply output png size by this (0 uses the config scale)"`

	// restrict a store render to a rectangle of filled tiles
	X0 int `default:"0" help:"x coord of region, top left corner (--db only)"`
	Y0 int `default:"0" help:"y coord of region, top left corner (--db only)"`
	X1 int `default:"0" help:"x coord of region, bottom right corner, exclusive (--db only)"`
	Y1 int `default:"0" help:"y coord of region, bottom right corner, exclusive (--db only)"`
}

func main() {
	kong.Parse(&cli, kong.Name("autotile-render"), kong.Description(desc))

	if cli.Input == "" && cli.DB == "" {
		panic("one of --input or --db is required")
	}
	if cli.Output == "" {
		src := cli.Input
		if src == "" {
			src = cli.DB
		}
		cli.Output = fmt.Sprintf("%s.png", src)
	}

	cfg := loadConfig()
	if cli.Scale <= 0 {
		cli.Scale = cfg.Scale
	}

	e, err := autotile.New(cfg)
	if err != nil {
		panic(err)
	}

	doc, err := readDocument()
	if err != nil {
		panic(err)
	}
	if cli.Tileset != "" {
		doc.Tileset = cli.Tileset
	} else if doc.Tileset == "" {
		doc.Tileset = cfg.Tileset
	}

	err = e.Restore(doc)
	if err != nil {
		panic(err)
	}
	if !e.HasTileset() {
		panic(autotile.ErrNoTileset)
	}

	switch strings.ToLower(filepath.Ext(cli.Output)) {
	case ".tmx":
		m, err := e.TMX()
		if err != nil {
			panic(err)
		}
		err = m.WriteFile(cli.Output)
		if err != nil {
			panic(err)
		}
	default:
		sheet, err := render.LoadSheet(e.Tileset().Path)
		if err != nil {
			panic(err)
		}
		im, err := render.Engine(e, sheet, cli.Scale)
		if err != nil {
			panic(err)
		}
		err = render.SavePNG(cli.Output, im)
		if err != nil {
			panic(err)
		}
	}

	fmt.Printf("wrote %s (%d filled tiles)\n", cli.Output, doc.Tiles.Len())
}

// readDocument from either the --input map or the --db store
func readDocument() (*autotile.Document, error) {
	if cli.DB == "" {
		return autotile.Open(cli.Input)
	}

	if !fileExists(cli.DB) {
		return nil, fmt.Errorf("input file not found: %s", cli.DB)
	}

	st, err := autotile.OpenStore(cli.DB)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	doc, err := st.Document()
	if err != nil {
		return nil, err
	}

	if cli.X1 > cli.X0 && cli.Y1 > cli.Y0 {
		doc.Tiles, err = st.Region(cli.X0, cli.Y0, cli.X1, cli.Y1)
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// loadConfig reads --config if given
func loadConfig() *autotile.Config {
	if cli.Config == "" {
		return autotile.DefaultConfig()
	}
	cfg, err := autotile.LoadConfig(cli.Config)
	if err != nil {
		panic(err)
	}
	return cfg
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
