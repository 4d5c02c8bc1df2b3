/* Package render draws an autotile Layout into an image.

The engine only works out which sprite goes where; this package does the
pixel work: cropping sprites from the tileset sheet, compositing them and
writing the result.
*/
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/fogleman/gg"
	"github.com/mitchellh/go-homedir"
	"github.com/nfnt/resize"

	"github.com/voidshard/autotile"
)

// LoadSheet reads the tileset image at path (~ is expanded) & checks it
// has the geometry the engine expects.
func LoadSheet(path string) (image.Image, error) {
	fpath, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	im, err := gg.LoadImage(fpath)
	if err != nil {
		return nil, err
	}

	b := im.Bounds()
	if _, err := autotile.NewTileset(path, b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	return im, nil
}

// Composite draws every placement in the layout, cropped from sheet.
func Composite(l *autotile.Layout, sheet image.Image) (image.Image, error) {
	if l == nil || sheet == nil {
		return nil, fmt.Errorf("layout and sheet are required")
	}

	w, h := l.Size()
	dc := gg.NewContext(w, h)

	origin := sheet.Bounds().Min
	for _, p := range l.Placements {
		src := p.Src.Add(origin)
		if !src.In(sheet.Bounds()) {
			return nil, fmt.Errorf("sprite %v for %v is outside the sheet %v", src, p.Variant, sheet.Bounds())
		}
		dc.DrawImage(Crop(sheet, src), p.Dst.Min.X, p.Dst.Min.Y)
	}

	return dc.Image(), nil
}

// Crop cuts the rectangle `r` out of the given image into a new image
// whose bounds start at (0,0); gg places images by their bounds
func Crop(in image.Image, r image.Rectangle) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), in, r.Min, draw.Src)
	return out
}

// Scale multiplies the image size by factor, keeping hard pixel edges.
func Scale(in image.Image, factor int) image.Image {
	if factor <= 1 {
		return in
	}
	b := in.Bounds()
	return resize.Resize(uint(b.Dx()*factor), uint(b.Dy()*factor), in, resize.NearestNeighbor)
}

// Engine lays out & draws the engine's grid with the given sheet, scaled
// by factor.
func Engine(e *autotile.Engine, sheet image.Image, factor int) (image.Image, error) {
	l, err := e.Layout()
	if err != nil {
		return nil, err
	}

	im, err := Composite(l, sheet)
	if err != nil {
		return nil, err
	}
	return Scale(im, factor), nil
}

// EncodePNG writes the image as a png to a io.Writer stream
func EncodePNG(w io.Writer, in image.Image) error {
	return png.Encode(w, in)
}

// SavePNG to disk (~ is expanded)
func SavePNG(fpath string, in image.Image) error {
	p, err := homedir.Expand(fpath)
	if err != nil {
		return err
	}
	return gg.SavePNG(p, in)
}

// PNG returns the image encoded as a png
func PNG(in image.Image) ([]byte, error) {
	buff := new(bytes.Buffer)
	err := png.Encode(buff, in)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}
