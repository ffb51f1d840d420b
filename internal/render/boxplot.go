package render

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/tidyviz/internal/domain"
)

const (
	boxplotSize  = 12 * vg.Inch
	boxWidth     = 2 * vg.Inch
	outlierSize  = 3
	boxTickSize  = 15
	boxTitleSize = 30
)

// Boxplots renders the character counts of not-spam (left) and spam (right)
// emails on a shared y axis.
func Boxplots(ham, spam []float64) (Figure, error) {
	if len(ham) == 0 || len(spam) == 0 {
		return Figure{}, fmt.Errorf("boxplots: %d not-spam and %d spam values: %w", len(ham), len(spam), domain.ErrEmptyDataset)
	}

	p := plot.New()
	p.BackgroundColor = SpamBackground
	p.Title.Text = "Number of characters"
	p.Title.TextStyle = textStyle("", boxTitleSize, SpamLabel)
	p.Title.TextStyle.YAlign = draw.YTop
	p.Title.Padding = 0.5 * vg.Inch

	p.HideX()
	p.X.Padding = 0
	p.Y.Width = 0
	p.Y.Tick.LineStyle = draw.LineStyle{Color: SpamLabel, Width: vg.Points(0.5)}
	p.Y.Tick.Label = textStyle("", boxTickSize, SpamLabel)
	p.Y.Tick.Label.XAlign = draw.XRight
	p.Y.Tick.Label.YAlign = draw.YCenter

	for i, class := range []struct {
		values []float64
		style  ClassStyle
	}{
		{ham, HamStyle},
		{spam, SpamStyle},
	} {
		b, err := newBox(float64(i), class.values, class.style)
		if err != nil {
			return Figure{}, err
		}
		p.Add(b)
	}

	p.X.Min, p.X.Max = -0.5, 1.5

	return Figure{Plot: p, Width: boxplotSize, Height: boxplotSize, Background: SpamBackground}, nil
}

func newBox(loc float64, values []float64, style ClassStyle) (*plotter.BoxPlot, error) {
	b, err := plotter.NewBoxPlot(boxWidth, loc, plotter.Values(values))
	if err != nil {
		return nil, fmt.Errorf("boxplot: %w", err)
	}
	b.FillColor = style.Fill
	b.BoxStyle = draw.LineStyle{Color: style.General, Width: vg.Points(1)}
	b.WhiskerStyle = draw.LineStyle{Color: style.Whiskers, Width: vg.Points(1)}
	b.MedianStyle = draw.LineStyle{Color: style.Median, Width: vg.Points(1)}
	b.GlyphStyle = draw.GlyphStyle{
		Color:  style.Outliers,
		Radius: vg.Points(outlierSize),
		Shape:  draw.RingGlyph{},
	}
	return b, nil
}
