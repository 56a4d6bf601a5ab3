// Package stats implements the aggregation primitives the dashboards share:
// central tendency, dispersion, distribution shape, and the tail diagnostics
// used by the announcement-behavior study. Everything operates on plain
// float64 slices, ignores NaN inputs, and returns NaN where a statistic is
// undefined rather than erroring.
package stats

import (
	"math"
	"sort"
)

// clean drops NaN/Inf entries and returns a sorted copy.
func clean(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// Mean returns the arithmetic mean, NaN on an empty input.
func Mean(values []float64) float64 {
	s := clean(values)
	if len(s) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

// Median returns the 50th percentile.
func Median(values []float64) float64 {
	return Percentile(values, 50)
}

// Percentile returns the p-th percentile (0..100) using linear
// interpolation between closest ranks, matching numpy's default.
func Percentile(values []float64, p float64) float64 {
	s := clean(values)
	n := len(s)
	if n == 0 || p < 0 || p > 100 {
		return math.NaN()
	}
	if n == 1 {
		return s[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return s[lo]
	}
	frac := rank - float64(lo)
	return s[lo]*(1-frac) + s[hi]*frac
}

// IQR is the interquartile range, P75 - P25.
func IQR(values []float64) float64 {
	return Percentile(values, 75) - Percentile(values, 25)
}

// StdDev returns the sample standard deviation (n-1 denominator).
func StdDev(values []float64) float64 {
	s := clean(values)
	n := len(s)
	if n < 2 {
		return math.NaN()
	}
	m := Mean(s)
	ss := 0.0
	for _, v := range s {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// Skewness returns the adjusted Fisher-Pearson sample skewness.
func Skewness(values []float64) float64 {
	s := clean(values)
	n := float64(len(s))
	if n < 3 {
		return math.NaN()
	}
	m := Mean(s)
	sd := StdDev(s)
	if sd == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range s {
		z := (v - m) / sd
		sum += z * z * z
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// ExcessKurtosis returns sample excess kurtosis (0 for a normal
// distribution), using the standard bias-corrected estimator.
func ExcessKurtosis(values []float64) float64 {
	s := clean(values)
	n := float64(len(s))
	if n < 4 {
		return math.NaN()
	}
	m := Mean(s)
	sd := StdDev(s)
	if sd == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range s {
		z := (v - m) / sd
		sum += z * z * z * z
	}
	return n*(n+1)/((n-1)*(n-2)*(n-3))*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}

// PositiveRate returns the fraction (0..1) of samples strictly above the
// threshold. Win rate is PositiveRate(rets, 20), double rate
// PositiveRate(rets, 100) when returns are expressed in percent.
func PositiveRate(values []float64, threshold float64) float64 {
	s := clean(values)
	if len(s) == 0 {
		return math.NaN()
	}
	hits := 0
	for _, v := range s {
		if v > threshold {
			hits++
		}
	}
	return float64(hits) / float64(len(s))
}

// GrowthRate returns (current - prior) / |prior|, NaN when prior is zero.
func GrowthRate(current, prior float64) float64 {
	if prior == 0 {
		return math.NaN()
	}
	return (current - prior) / math.Abs(prior)
}

// Round1 rounds to one decimal, the display precision the dashboards use.
func Round1(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*10) / 10
}
