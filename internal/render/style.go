// Package render draws the weekly charts with gonum/plot and composes the
// final images.
package render

import (
	"image/color"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/tidyviz/internal/domain"
)

// Spam week palette.
var (
	SpamBackground = Hex("#0C0404")
	SpamLabel      = Hex("#F5FEFD")
	radarGrid      = HexAlpha("#555555", 0.6)
	radarDisc      = Hex("#1B1B1B")
)

// ClassStyle is the color set of one email class.
type ClassStyle struct {
	General  color.Color
	Fill     color.Color
	Whiskers color.Color
	Outliers color.Color
	Median   color.Color
}

var (
	HamStyle = ClassStyle{
		General:  Hex("#00f275"),
		Fill:     HexAlpha("#26ff8f", 0.8),
		Whiskers: Hex("#00bf5c"),
		Outliers: Hex("#00A550"),
		Median:   Hex("#008d44"),
	}
	SpamStyle = ClassStyle{
		General:  Hex("#d22730"),
		Fill:     HexAlpha("#fb0700", 0.8),
		Whiskers: Hex("#CD5C5C"),
		Outliers: Hex("#CD5C5C"),
		Median:   Hex("#ff4e49"),
	}
)

// Sleep week palette.
var (
	SleepBackground = Hex("#252B48")
	SleepText       = Hex("#f8f8ff")
	legendEdge      = Hex("#E4C9C9")
)

// Hex parses a "#rrggbb" color.
func Hex(s string) color.Color {
	return drawing.ColorFromHex(s)
}

// HexAlpha parses a "#rrggbb" color and applies an opacity in [0, 1].
func HexAlpha(s string, alpha float64) color.Color {
	a := math.Round(math.Max(0, math.Min(1, alpha)) * 255)
	return drawing.ColorFromHex(s).WithAlpha(uint8(a))
}

func withAlpha(c color.Color, alpha float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(alpha * 255))
	return n
}

// textStyle builds a plain text style in typeface tf, or the fallback face
// when tf is not registered.
func textStyle(tf font.Typeface, size vg.Length, c color.Color) text.Style {
	return text.Style{
		Color:   c,
		Font:    fontFor(tf, size),
		XAlign:  draw.XCenter,
		YAlign:  draw.YBottom,
		Handler: plot.DefaultTextHandler,
	}
}

func xAlign(a domain.HAlign) text.XAlignment {
	switch a {
	case domain.AlignLeft:
		return draw.XLeft
	case domain.AlignRight:
		return draw.XRight
	default:
		return draw.XCenter
	}
}

// newCanvasPlot returns a plot with hidden axes over a square data window
// [-limit, limit], for charts that draw their own geometry.
func newCanvasPlot(limit float64, bg color.Color) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = bg
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0
	p.X.Min, p.X.Max = -limit, limit
	p.Y.Min, p.Y.Max = -limit, limit
	return p
}
