package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io/ioutil"
	"os"

	"github.com/alecthomas/kong"
	"github.com/nfnt/resize"

	"github.com/voidshard/autotile"
	"github.com/voidshard/autotile/render"
)

const desc = `Cuts a 5x3 autotile tileset into one image per tile variant, named <name>.<variant>.png.`

var cli struct {
	Input string `short:"i" help:"input tileset image"`

	Name string `short:"n" default:"tile" help:"output name prefix"`

	// resize each tile, eg. to upscale pixel art
	Size int `default:"0" help:"resize each tile to this many px square (0 keeps the sheet size)"`

	// tell us it's ok to overwrite existing stuff (default: no)
	Overwrite bool `help:"overwrite existing file(s) if found"`

	// don't write anything
	DryRun bool `help:"print out what you're planning"`
}

func main() {
	kong.Parse(
		&cli,
		kong.Name("autotile-slice"),
		kong.Description(desc),
	)

	sheet, err := render.LoadSheet(cli.Input)
	if err != nil {
		panic(err)
	}

	bnds := sheet.Bounds()
	ts, err := autotile.NewTileset(cli.Input, bnds.Dx(), bnds.Dy())
	if err != nil {
		panic(err)
	}

	for v := autotile.Variant(0); v <= autotile.Filled+1; v++ {
		src := ts.Rect(v).Add(bnds.Min)
		fname := fmt.Sprintf("%s.%02d.png", cli.Name, int(v))

		fmt.Printf("copying %v (%v) -> %s\n", src, v, fname)
		if cli.DryRun {
			continue
		}

		var tile image.Image = render.Crop(sheet, src)
		if cli.Size > 0 {
			tile = resize.Resize(uint(cli.Size), uint(cli.Size), tile, resize.NearestNeighbor)
		}

		if fileExists(fname) && !cli.Overwrite {
			fmt.Println("skipping", fname, "exists")
			continue
		}
		err = savePng(fname, tile)
		if err != nil {
			panic(err)
		}
	}
}

// savePng to disk
func savePng(fpath string, in image.Image) error {
	buff := new(bytes.Buffer)
	err := png.Encode(buff, in)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
