package render

import (
	"image"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure is a plot with its physical size, ready to rasterize.
type Figure struct {
	Plot       *plot.Plot
	Width      vg.Length
	Height     vg.Length
	Background color.Color
}

// Pixels returns the raster size of the figure at dpi.
func (f Figure) Pixels(dpi int) image.Point {
	return image.Point{
		X: int(f.Width.Dots(float64(dpi)) + 0.5),
		Y: int(f.Height.Dots(float64(dpi)) + 0.5),
	}
}

// Image draws the figure onto a fresh raster canvas at dpi.
func (f Figure) Image(dpi int) image.Image {
	c := vgimg.NewWith(
		vgimg.UseWH(f.Width, f.Height),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(f.Background),
	)
	f.Plot.Draw(draw.New(c))
	return c.Image()
}
