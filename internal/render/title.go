package render

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	titlePanelWidth  = 12 * vg.Inch
	titlePanelHeight = 3.5 * vg.Inch
)

// Subtitle is the two-line summary under the spam title.
const Subtitle = "Spam emails tend to be  l o n g e r,\n" +
	`mention more the term "make money" or include symbols like the ! and the $`

// textItem is a string placed in unit coordinates of the data window.
type textItem struct {
	X, Y  float64
	Text  string
	Style text.Style
}

// textLayer draws free-standing text items.
type textLayer []textItem

func (l textLayer) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for _, it := range l {
		c.FillText(it.Style, vg.Point{X: trX(it.X), Y: trY(it.Y)}, it.Text)
	}
}

// TitlePanel renders the "Characteristics of NO $PAM e-mails" banner.
func TitlePanel() Figure {
	p := plot.New()
	p.BackgroundColor = SpamBackground
	p.HideAxes()
	p.X.Padding, p.Y.Padding = 0, 0
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	heading := textStyle(HeadingFace, 30, SpamLabel)
	no := textStyle(SlabFace, 100, HamStyle.General)
	no.XAlign = draw.XRight
	spam := textStyle(SlabFace, 100, SpamStyle.General)
	spam.XAlign = draw.XLeft
	sub := textStyle(LightFace, 20, SpamLabel)
	sub.YAlign = draw.YCenter

	p.Add(textLayer{
		{X: 0.5, Y: 0.9, Text: "Characteristics of", Style: heading},
		{X: 0.44, Y: 0.41, Text: "NO ", Style: no},
		{X: 0.44, Y: 0.41, Text: "$PAM", Style: spam},
		{X: 0.5, Y: 0.25, Text: "e-mails", Style: heading},
		{X: 0.5, Y: 0.08, Text: Subtitle, Style: sub},
	})
	return Figure{Plot: p, Width: titlePanelWidth, Height: titlePanelHeight, Background: SpamBackground}
}
