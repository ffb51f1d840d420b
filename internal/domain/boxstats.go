package domain

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// whiskerReach is the Tukey fence distance, in interquartile ranges.
const whiskerReach = 1.5

// BoxStats summarizes one boxplot.
type BoxStats struct {
	N        int
	Min, Max float64
	Q1, Q3   float64
	Median   float64
	Mean     float64

	// Whiskers end at the most extreme values inside the Tukey fences.
	LowWhisker, HighWhisker float64
	Outliers                []float64
}

// Summarize computes box statistics for values. The input is not modified.
func Summarize(values []float64) (BoxStats, error) {
	if len(values) == 0 {
		return BoxStats{}, ErrEmptyDataset
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := BoxStats{
		N:      len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Mean:   stat.Mean(sorted, nil),
	}

	iqr := s.Q3 - s.Q1
	lowFence := s.Q1 - whiskerReach*iqr
	highFence := s.Q3 + whiskerReach*iqr

	s.LowWhisker, s.HighWhisker = s.Q1, s.Q3
	for _, v := range sorted {
		if v >= lowFence {
			s.LowWhisker = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= highFence {
			s.HighWhisker = sorted[i]
			break
		}
	}
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			s.Outliers = append(s.Outliers, v)
		}
	}
	return s, nil
}
