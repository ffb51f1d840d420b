package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/tidyviz/internal/domain"
)

// Radar chart geometry, in percent units of the data window.
const (
	radarSize       = 12 * vg.Inch
	radarLimit      = domain.RadarMax * 1.3
	radarLabelPos   = domain.RadarMax * 1.1
	radarFillAlpha  = 0.25
	radarLabelSize  = 30
	radarTickSize   = 10
	circleSegments  = 180
	radarTitleSpace = 0.6 * vg.Inch
)

// RadarSeries is one closed polygon of the radar chart.
type RadarSeries struct {
	Name   string
	Values []float64
	Color  color.Color
}

// radarPlotter draws a polar grid with filled series on a plot whose data
// window is centered on the origin.
type radarPlotter struct {
	labels []string
	series []RadarSeries
}

// RadarChart renders symbol presence per class as a 12x12 inch radar chart.
func RadarChart(presence domain.SymbolPresence) (Figure, error) {
	n := len(presence.Labels)
	if n < 3 {
		return Figure{}, fmt.Errorf("radar chart needs at least 3 axes, got %d", n)
	}
	if len(presence.Spam) != n || len(presence.Ham) != n {
		return Figure{}, fmt.Errorf("radar chart: %d labels but %d/%d values", n, len(presence.Spam), len(presence.Ham))
	}

	p := newCanvasPlot(radarLimit, SpamBackground)
	p.Title.Text = "Presence of symbols/words"
	p.Title.TextStyle = textStyle("", radarLabelSize, SpamLabel)
	p.Title.TextStyle.YAlign = draw.YTop
	p.Title.Padding = radarTitleSpace

	p.Add(&radarPlotter{
		labels: presence.Labels,
		series: []RadarSeries{
			{Name: domain.ClassSpam, Values: presence.Spam, Color: SpamStyle.General},
			{Name: domain.ClassHam, Values: presence.Ham, Color: HamStyle.General},
		},
	})
	return Figure{Plot: p, Width: radarSize, Height: radarSize, Background: SpamBackground}, nil
}

func (r *radarPlotter) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	at := func(radius, theta float64) vg.Point {
		phi := domain.RadarScreenAngle(theta)
		return vg.Point{X: trX(radius * math.Cos(phi)), Y: trY(radius * math.Sin(phi))}
	}
	angles := domain.RadarAngles(len(r.labels))

	c.FillPolygon(radarDisc, ring(at, domain.RadarMax))

	grid := draw.LineStyle{Color: radarGrid, Width: vg.Points(0.8)}
	for _, tick := range domain.RadarTicks {
		if tick >= domain.RadarMax {
			// The outer ring is the spine, painted in the figure background.
			continue
		}
		c.StrokeLines(grid, ring(at, tick))
	}
	for _, theta := range angles {
		c.StrokeLines(grid, []vg.Point{at(0, theta), at(domain.RadarMax, theta)})
	}

	for _, s := range r.series {
		values := domain.CloseLoop(s.Values)
		thetas := append(append([]float64(nil), angles...), angles[0])
		pts := make([]vg.Point, len(values))
		for i, v := range values {
			pts[i] = at(v, thetas[i])
		}
		c.FillPolygon(withAlpha(s.Color, radarFillAlpha), pts)
		c.StrokeLines(draw.LineStyle{Color: s.Color, Width: vg.Points(1)}, pts)
	}

	label := textStyle("", radarLabelSize, SpamLabel)
	label.YAlign = draw.YCenter
	for i, theta := range angles {
		label.XAlign = xAlign(domain.RadarLabelAlign(theta))
		c.FillText(label, at(radarLabelPos, theta), r.labels[i])
	}

	tick := textStyle("", radarTickSize, SpamLabel)
	tick.XAlign = draw.XLeft
	tick.YAlign = draw.YBottom
	tickTheta := domain.RadarTickAngle(len(r.labels))
	for _, v := range domain.RadarTicks {
		c.FillText(tick, at(v, tickTheta), strconv.FormatFloat(v, 'f', -1, 64))
	}
}

func (r *radarPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -radarLimit, radarLimit, -radarLimit, radarLimit
}

// ring approximates a circle of the given data radius.
func ring(at func(radius, theta float64) vg.Point, radius float64) []vg.Point {
	pts := make([]vg.Point, circleSegments+1)
	for i := range pts {
		pts[i] = at(radius, 2*math.Pi*float64(i)/circleSegments)
	}
	return pts
}
