package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Layer is an image scaled into Rect of a composite.
type Layer struct {
	Image image.Image
	Rect  image.Rectangle
}

// Compose pastes each layer, resized with Catmull-Rom, onto a size canvas
// filled with background. Later layers cover earlier ones; anything outside
// the canvas is clipped.
func Compose(size image.Point, background color.Color, layers []Layer) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)
	for _, l := range layers {
		if l.Image == nil || l.Rect.Empty() {
			continue
		}
		xdraw.CatmullRom.Scale(dst, l.Rect, l.Image, l.Image.Bounds(), xdraw.Src, nil)
	}
	return dst
}

// At places an image of size w x h with its top-left corner at (x, y).
func At(img image.Image, x, y, w, h int) Layer {
	return Layer{Image: img, Rect: image.Rect(x, y, x+w, y+h)}
}
