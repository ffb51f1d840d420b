package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Angular span of the sleep chart, in degrees. The gap between 90° and 100°
// separates the shortest and the longest sleepers.
const (
	WedgeStartAngle = 100.0
	WedgeEndAngle   = 450.0
)

const (
	wedgePadRatio     = 0.2
	innerPaddingRatio = 1.1
	limitRatio        = 1.3
	flagZoomRatio     = 0.0022
	flagOffsetRatio   = 0.03
	labelOffsetRatio  = 0.05
)

// Point is a position in chart data coordinates.
type Point struct {
	X, Y float64
}

// Wedge is the placement of one country on the polar bar chart. Angles are in
// degrees; lengths are in hours.
type Wedge struct {
	Country CountrySleep

	Start, End, Angle float64

	// Length is the outer radius; the bar covers [Length-BarLength, Length].
	Length    float64
	BarLength float64

	FlagZoom float64
	Flag     Point
	Label    Point
	Color    string
}

// WedgeLayout is the complete geometry of the sleep chart.
type WedgeLayout struct {
	Size         float64 // angular width per country, padding included
	Pad          float64
	InnerPadding float64 // empty radius in the middle, room for the title
	Limit        float64 // half-width of the square data window
	Wedges       []Wedge
}

// LayoutWedges places rows, already sorted, around the chart. Rows take
// consecutive slots, so the last wedge always ends at WedgeEndAngle.
func LayoutWedges(rows []CountrySleep) (WedgeLayout, error) {
	if len(rows) == 0 {
		return WedgeLayout{}, ErrEmptyDataset
	}

	lo, hi := rows[0].Hours, rows[0].Hours
	for _, r := range rows[1:] {
		lo = math.Min(lo, r.Hours)
		hi = math.Max(hi, r.Hours)
	}

	size := (WedgeEndAngle - WedgeStartAngle) / float64(len(rows))
	layout := WedgeLayout{
		Size:         size,
		Pad:          wedgePadRatio * size,
		InnerPadding: innerPaddingRatio * lo,
	}
	layout.Limit = (layout.InnerPadding + hi) * limitRatio

	layout.Wedges = make([]Wedge, len(rows))
	for i, r := range rows {
		length := r.Hours + layout.InnerPadding
		start := WedgeStartAngle + float64(i)*size + layout.Pad
		end := WedgeStartAngle + float64(i+1)*size
		angle := (start + end) / 2

		layout.Wedges[i] = Wedge{
			Country:   r,
			Start:     start,
			End:       end,
			Angle:     angle,
			Length:    length,
			BarLength: r.Hours,
			FlagZoom:  flagZoomRatio * length,
			Flag:      PolarPoint(length, angle, flagOffsetRatio*length),
			Label:     PolarPoint(length, angle, labelOffsetRatio*length),
			Color:     RegionColor(r.Region),
		}
	}
	return layout, nil
}

// PolarPoint returns the point at radius length+padding along angle degrees.
func PolarPoint(length, angle, padding float64) Point {
	rad := angle * math.Pi / 180
	r := length + padding
	return Point{X: math.Cos(rad) * r, Y: math.Sin(rad) * r}
}

// Anchor is the side of a rotated label that sits on its anchor point.
type Anchor int

const (
	AnchorLeft Anchor = iota
	AnchorRight
)

// Label is the text placed at the tip of a wedge.
type Label struct {
	Text     string
	Rotation float64 // degrees, counter-clockwise
	Anchor   Anchor
}

// WedgeLabel builds the text for a wedge. On the left half the text is flipped
// so it reads outward from the center and ends at the wedge tip.
func WedgeLabel(country string, hours, angle float64) Label {
	score := FormatHours(hours)
	if angle < 270 {
		return Label{
			Text:     fmt.Sprintf("%s (%s)", country, score),
			Rotation: angle - 180,
			Anchor:   AnchorRight,
		}
	}
	return Label{
		Text:     fmt.Sprintf("(%s) %s", score, country),
		Rotation: angle,
		Anchor:   AnchorLeft,
	}
}

// FlagRotation keeps flags upright relative to their label.
func FlagRotation(angle float64) float64 {
	if angle > 270 {
		return angle
	}
	return angle - 180
}

// FormatHours prints the shortest exact decimal, keeping one fractional digit
// for whole numbers ("9.0", "9.25").
func FormatHours(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
