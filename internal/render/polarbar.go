package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/tidyviz/internal/domain"
)

// FlagPixels is the edge of a rasterized circle flag. Flags are drawn at
// FlagPixels*zoom points, matching an image shown at one point per pixel.
const FlagPixels = 512

const (
	sleepSize        = 40 * vg.Inch
	sleepLabelSize   = 19
	sleepTitleSize   = 64
	sleepLegendSize  = 18
	sleepMarker      = 12
	sleepLineSpacing = 1.5
	bedIconZoom      = 2
	degree           = math.Pi / 180
)

// SleepTitle is printed in the empty middle of the chart.
const SleepTitle = "How many hours\nwe stay in bed\n\nsleeping or not"

// Title and icon positions: the title is centered slightly above the middle,
// the bed icon hangs just below it.
var (
	sleepTitleY = 0.54
	bedIconAt   = domain.Point{X: 0.5, Y: -4}
)

// SleepAssets are the optional images of the sleep chart. Missing flags and a
// nil icon are simply not drawn.
type SleepAssets struct {
	Flags   map[string]image.Image // keyed by lowercase ISO2
	BedIcon image.Image
}

// SleepChart renders one wedge per country, longest sleepers last, on a 40x40
// inch canvas.
func SleepChart(layout domain.WedgeLayout, assets SleepAssets) (Figure, error) {
	if len(layout.Wedges) == 0 {
		return Figure{}, domain.ErrEmptyDataset
	}

	p := newCanvasPlot(layout.Limit, SleepBackground)
	p.Add(&wedgePlotter{layout: layout, assets: assets})

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle = textStyle("", sleepLegendSize, SleepText)
	p.Legend.TextStyle.XAlign = draw.XLeft
	p.Legend.ThumbnailWidth = 2 * sleepMarker
	p.Legend.Padding = sleepLegendSize
	p.Legend.XOffs = vg.Points(24)
	p.Legend.YOffs = -vg.Points(24)

	entries := append([]string{"Region"}, domain.RegionLegend...)
	p.Legend.Add(entries[0])
	for _, region := range domain.RegionLegend {
		p.Legend.Add(region, circleThumb{color: Hex(domain.RegionColor(region))})
	}
	p.Add(legendFrame{entries: entries})

	return Figure{Plot: p, Width: sleepSize, Height: sleepSize, Background: SleepBackground}, nil
}

type wedgePlotter struct {
	layout domain.WedgeLayout
	assets SleepAssets
}

func (w *wedgePlotter) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	at := func(pt domain.Point) vg.Point {
		return vg.Point{X: trX(pt.X), Y: trY(pt.Y)}
	}

	for _, wg := range w.layout.Wedges {
		c.FillPolygon(Hex(wg.Color), wedgePolygon(at, wg))
	}

	for _, wg := range w.layout.Wedges {
		if flag, ok := w.assets.Flags[wg.Country.ISO2]; ok && flag != nil {
			size := vg.Points(FlagPixels * wg.FlagZoom)
			drawRotated(c, flag, at(wg.Flag), size, domain.FlagRotation(wg.Angle)*degree)
		}

		lbl := domain.WedgeLabel(wg.Country.Name, wg.Country.Hours, wg.Angle)
		sty := textStyle("", sleepLabelSize, SleepText)
		sty.Rotation = lbl.Rotation * degree
		sty.YAlign = draw.YCenter
		sty.XAlign = draw.XLeft
		if lbl.Anchor == domain.AnchorRight {
			sty.XAlign = draw.XRight
		}
		c.FillText(sty, at(wg.Label), lbl.Text)
	}

	w.drawTitle(c)

	if icon := w.assets.BedIcon; icon != nil {
		b := icon.Bounds()
		size := vg.Points(float64(max(b.Dx(), b.Dy())) * bedIconZoom)
		drawRotated(c, icon, at(bedIconAt), size, 0)
	}
}

// drawTitle spaces the title lines at 1.5 times the font size, centered on a
// point at 54% of the canvas height.
func (w *wedgePlotter) drawTitle(c draw.Canvas) {
	sty := textStyle("", sleepTitleSize, SleepText)
	sty.YAlign = draw.YCenter

	lines := strings.Split(SleepTitle, "\n")
	step := vg.Length(sleepLineSpacing) * sty.Font.Size
	center := vg.Point{
		X: c.Min.X + (c.Max.X-c.Min.X)/2,
		Y: c.Min.Y + (c.Max.Y-c.Min.Y)*vg.Length(sleepTitleY),
	}
	top := center.Y + step*vg.Length(len(lines)-1)/2
	for i, line := range lines {
		if line == "" {
			continue
		}
		c.FillText(sty, vg.Point{X: center.X, Y: top - step*vg.Length(i)}, line)
	}
}

func (w *wedgePlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	l := w.layout.Limit
	return -l, l, -l, l
}

// wedgePolygon outlines the annular sector of a wedge: the outer arc from
// start to end, then the inner arc back.
func wedgePolygon(at func(domain.Point) vg.Point, wg domain.Wedge) []vg.Point {
	inner := wg.Length - wg.BarLength
	steps := max(2, int(math.Ceil(wg.End-wg.Start)))

	pts := make([]vg.Point, 0, 2*(steps+1))
	for i := 0; i <= steps; i++ {
		a := wg.Start + (wg.End-wg.Start)*float64(i)/float64(steps)
		pts = append(pts, at(domain.PolarPoint(wg.Length, a, 0)))
	}
	for i := steps; i >= 0; i-- {
		a := wg.Start + (wg.End-wg.Start)*float64(i)/float64(steps)
		pts = append(pts, at(domain.PolarPoint(inner, a, 0)))
	}
	return pts
}

// drawRotated draws img as a size x size square centered on pt, rotated
// counter-clockwise by rad.
func drawRotated(c draw.Canvas, img image.Image, pt vg.Point, size vg.Length, rad float64) {
	half := size / 2
	c.Push()
	c.Translate(pt)
	if rad != 0 {
		c.Rotate(rad)
	}
	c.DrawImage(vg.Rectangle{
		Min: vg.Point{X: -half, Y: -half},
		Max: vg.Point{X: half, Y: half},
	}, img)
	c.Pop()
}

// circleThumb is a round legend marker.
type circleThumb struct {
	color color.Color
}

func (t circleThumb) Thumbnail(c *draw.Canvas) {
	c.DrawGlyph(draw.GlyphStyle{
		Color:  t.color,
		Radius: vg.Points(sleepMarker),
		Shape:  draw.CircleGlyph{},
	}, c.Center())
}

// legendFrame paints the box behind the legend, sized from the legend's own
// text metrics.
type legendFrame struct {
	entries []string
}

func (f legendFrame) Plot(c draw.Canvas, p *plot.Plot) {
	l := p.Legend
	sty := l.TextStyle

	var width, entry vg.Length
	for _, e := range f.entries {
		r := sty.Rectangle(e)
		width = max(width, r.Max.X-r.Min.X)
		entry = max(entry, r.Max.Y)
	}
	n := vg.Length(len(f.entries))
	height := n*entry + (n-1)*l.Padding + sty.FontExtents().Descent

	pad := vg.Points(sleepLegendSize)
	left := c.Min.X + l.XOffs - pad
	top := c.Max.Y + l.YOffs + pad
	rect := vg.Rectangle{
		Min: vg.Point{X: left, Y: top - height - 2*pad},
		Max: vg.Point{X: left + l.ThumbnailWidth + sty.Rectangle(" ").Max.X + width + 2*pad, Y: top},
	}

	c.FillPolygon(SleepBackground, rectPoints(rect))
	c.StrokeLines(draw.LineStyle{Color: legendEdge, Width: vg.Points(1)}, append(rectPoints(rect), rect.Min))
}

func rectPoints(r vg.Rectangle) []vg.Point {
	return []vg.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}
