package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/voidshard/autotile"
)

const desc = `Edits an autotile .json map file from the command line.

Edits are applied in order: --tileset, --clear, every --add, every --remove.
Tiles are given as x:y; use the --add=-1:2 form for negative coordinates.`

var cli struct {
	Input  string `short:"i" help:"map .json file to edit (created if it doesn't exist)"`
	Output string `short:"o" help:"where to write the map. Defaults to overwriting --input"`

	Config  string `short:"c" help:"yaml config file"`
	Tileset string `short:"t" help:"set the map tileset image"`

	Clear  bool     `help:"remove every tile before adding / removing"`
	Add    []string `short:"a" help:"fill tiles (x:y)"`
	Remove []string `short:"r" help:"remove tiles (x:y)"`

	Print  bool `short:"p" help:"print the resolved grid"`
	DryRun bool `help:"don't write anything"`
}

func main() {
	kong.Parse(&cli, kong.Name("autotile-edit"), kong.Description(desc))

	if cli.Input == "" {
		panic("--input is required")
	}
	if cli.Output == "" {
		cli.Output = cli.Input
	}

	cfg := loadConfig()
	e, err := autotile.New(cfg)
	if err != nil {
		panic(err)
	}

	if fileExists(cli.Input) {
		var tsErr *autotile.TilesetError
		err = e.Load(cli.Input)
		if errors.As(err, &tsErr) {
			fmt.Printf("warning: %v\n", err)
		} else if err != nil {
			panic(err)
		}
	} else if cfg.Tileset != "" && cli.Tileset == "" {
		cli.Tileset = cfg.Tileset
	}

	if cli.Tileset != "" {
		err = e.SetTileset(cli.Tileset)
		if err != nil {
			fmt.Printf("warning: %v\n", err)
		}
	}

	if cli.Clear {
		e.ClearTiles()
	}

	adds, err := parsePoints(cli.Add)
	if err != nil {
		panic(err)
	}
	removes, err := parsePoints(cli.Remove)
	if err != nil {
		panic(err)
	}
	for _, p := range adds {
		e.AddTile(p.X, p.Y)
	}
	for _, p := range removes {
		e.RemoveTile(p.X, p.Y)
	}

	if cli.Print {
		printGrid(e.View())
	}

	doc := e.Document()
	fmt.Printf("map has %d filled tiles, %d cells\n", doc.Tiles.Len(), e.View().Len())

	if cli.DryRun {
		fmt.Println("dry-run detected: doing nothing")
		return
	}

	err = doc.WriteFile(cli.Output)
	if err != nil {
		panic(err)
	}
	fmt.Printf("wrote %s\n", cli.Output)
}

// parsePoints reads "x:y" pairs
func parsePoints(in []string) ([]autotile.Point, error) {
	out := []autotile.Point{}
	for _, s := range in {
		bits := strings.SplitN(s, ":", 2)
		if len(bits) != 2 {
			return nil, fmt.Errorf("expected x:y, got %q", s)
		}
		x, err := strconv.Atoi(strings.TrimSpace(bits[0]))
		if err != nil {
			return nil, fmt.Errorf("bad x in %q: %v", s, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(bits[1]))
		if err != nil {
			return nil, fmt.Errorf("bad y in %q: %v", s, err)
		}
		out = append(out, autotile.Point{X: x, Y: y})
	}
	return out, nil
}

// printGrid writes the stored cells as a table of variants;
// '#' is filled, '.' default (not stored)
func printGrid(v autotile.View) {
	bnds, ok := v.Bounds()
	if !ok {
		fmt.Println("(empty)")
		return
	}

	fmt.Printf("origin (%d,%d)\n", bnds.Min.X, bnds.Min.Y)
	for y := bnds.Min.Y; y < bnds.Max.Y; y++ {
		row := make([]string, 0, bnds.Dx())
		for x := bnds.Min.X; x < bnds.Max.X; x++ {
			id, ok := v.Get(x, y)
			switch {
			case !ok:
				row = append(row, " .")
			case id == autotile.Filled:
				row = append(row, " #")
			default:
				row = append(row, fmt.Sprintf("%2d", int(id)))
			}
		}
		fmt.Println(strings.Join(row, " "))
	}
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
