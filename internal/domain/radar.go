package domain

import "math"

// RadarMax is the outer ring of the radar chart, in percent.
const RadarMax = 100.0

// RadarTicks are the labelled rings.
var RadarTicks = []float64{20, 40, 60, 80, 100}

// RadarAngles splits the circle into n axes starting at 0 radians.
func RadarAngles(n int) []float64 {
	angles := make([]float64, n)
	for k := range angles {
		angles[k] = 2 * math.Pi * float64(k) / float64(n)
	}
	return angles
}

// CloseLoop appends the first value so a polygon returns to its start.
func CloseLoop(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values), len(values)+1)
	copy(out, values)
	return append(out, values[0])
}

// RadarScreenAngle converts an axis angle to a drawing angle: the first axis
// points at 12 o'clock and axes advance clockwise.
func RadarScreenAngle(theta float64) float64 {
	return math.Pi/2 - theta
}

// HAlign is a horizontal text alignment.
type HAlign int

const (
	AlignCenter HAlign = iota
	AlignLeft
	AlignRight
)

const angleEpsilon = 1e-9

// RadarLabelAlign aligns axis labels away from the circle: centered at the top
// and bottom, left-aligned on the right half, right-aligned on the left half.
func RadarLabelAlign(theta float64) HAlign {
	switch {
	case math.Abs(theta) < angleEpsilon || math.Abs(theta-math.Pi) < angleEpsilon:
		return AlignCenter
	case theta > 0 && theta < math.Pi:
		return AlignLeft
	default:
		return AlignRight
	}
}

// RadarTickAngle is the axis angle, in radians, along which ring values are
// printed: halfway between the first two axes.
func RadarTickAngle(n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Pi / float64(n)
}
