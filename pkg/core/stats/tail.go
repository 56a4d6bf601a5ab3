package stats

import "math"

// minTailSamples is the floor below which the tail diagnostics are too noisy
// to report. Matches the cut-off used in the announcement study.
const minTailSamples = 20

// RightTailConcentration measures how far the 95th percentile sits above the
// median, scaled by the interquartile range: (P95 - median) / IQR. Values
// well above ~1.5 indicate the distribution's payoff is carried by a small
// right tail — the signature of informed positioning ahead of a disclosure.
func RightTailConcentration(values []float64) float64 {
	s := clean(values)
	if len(s) < minTailSamples {
		return math.NaN()
	}
	iqr := IQR(s)
	if iqr == 0 {
		return math.NaN()
	}
	return (Percentile(s, 95) - Median(s)) / iqr
}

// TopDecileIntensity is mean(top 10%) / median. It answers "how many times
// the typical outcome does the best decile capture".
func TopDecileIntensity(values []float64) float64 {
	s := clean(values)
	if len(s) < minTailSamples {
		return math.NaN()
	}
	med := Median(s)
	if med == 0 {
		return math.NaN()
	}
	cut := Percentile(s, 90)
	top := make([]float64, 0, len(s)/10+1)
	for _, v := range s {
		if v >= cut {
			top = append(top, v)
		}
	}
	return Mean(top) / med
}

// HistogramBin is one bar of a distribution chart.
type HistogramBin struct {
	Center float64 `json:"center"`
	Count  int     `json:"count"`
}

// Histogram buckets the samples into `bins` equal-width bins across the
// observed range. Returns nil when there is nothing to plot.
func Histogram(values []float64, bins int) []HistogramBin {
	s := clean(values)
	if len(s) == 0 || bins < 1 {
		return nil
	}
	lo, hi := s[0], s[len(s)-1]
	if lo == hi {
		return []HistogramBin{{Center: lo, Count: len(s)}}
	}
	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Center = lo + width*(float64(i)+0.5)
	}
	for _, v := range s {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1 // hi itself lands in the last bin
		}
		out[idx].Count++
	}
	return out
}
