package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeanAndMedian(t *testing.T) {
	values := []float64{3, 1, 2}

	if m := Mean(values); !almostEqual(m, 2) {
		t.Errorf("Mean = %f, want 2", m)
	}
	if m := Median(values); !almostEqual(m, 2) {
		t.Errorf("Median = %f, want 2", m)
	}

	// Even count interpolates between the middle pair.
	if m := Median([]float64{1, 2, 3, 4}); !almostEqual(m, 2.5) {
		t.Errorf("Median = %f, want 2.5", m)
	}

	if !math.IsNaN(Mean(nil)) {
		t.Error("Mean of empty input should be NaN")
	}
}

func TestMedianIgnoresNaN(t *testing.T) {
	// NaN values come from NULL growth columns; they must not poison the
	// aggregate the way AVG over a dirty float slice would.
	values := []float64{math.NaN(), 10, 20, math.NaN(), 30}
	if m := Median(values); !almostEqual(m, 20) {
		t.Errorf("Median = %f, want 20", m)
	}
}

func TestPercentileAndIQR(t *testing.T) {
	// 1..9: P25 = 3, P75 = 7, IQR = 4 (linear interpolation on 8 intervals).
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}

	if p := Percentile(values, 25); !almostEqual(p, 3) {
		t.Errorf("P25 = %f, want 3", p)
	}
	if p := Percentile(values, 75); !almostEqual(p, 7) {
		t.Errorf("P75 = %f, want 7", p)
	}
	if v := IQR(values); !almostEqual(v, 4) {
		t.Errorf("IQR = %f, want 4", v)
	}
	if p := Percentile(values, 100); !almostEqual(p, 9) {
		t.Errorf("P100 = %f, want 9", p)
	}
}

func TestStdDev(t *testing.T) {
	// Sample stddev of {2,4,4,4,5,5,7,9}: mean 5, sum sq dev 32, 32/7 ~ 4.571
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	want := math.Sqrt(32.0 / 7.0)
	if sd := StdDev(values); !almostEqual(sd, want) {
		t.Errorf("StdDev = %f, want %f", sd, want)
	}
	if !math.IsNaN(StdDev([]float64{1})) {
		t.Error("StdDev of a single sample is undefined")
	}
}

func TestSkewnessDirection(t *testing.T) {
	// A heavy right tail must produce positive skew; mirroring it flips the sign.
	right := []float64{1, 1, 1, 2, 2, 3, 10, 50}
	left := make([]float64, len(right))
	for i, v := range right {
		left[i] = -v
	}

	if s := Skewness(right); s <= 0 {
		t.Errorf("right-tailed data should have positive skew, got %f", s)
	}
	if s := Skewness(left); s >= 0 {
		t.Errorf("left-tailed data should have negative skew, got %f", s)
	}
}

func TestExcessKurtosisFlat(t *testing.T) {
	// A uniform-ish distribution is platykurtic: excess kurtosis below zero.
	flat := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if k := ExcessKurtosis(flat); k >= 0 {
		t.Errorf("uniform data should have negative excess kurtosis, got %f", k)
	}
}

func TestPositiveRate(t *testing.T) {
	rets := []float64{-10, 5, 25, 30, 150}

	// Win rate: strictly above 20% -> 3 of 5.
	if r := PositiveRate(rets, 20); !almostEqual(r, 0.6) {
		t.Errorf("PositiveRate(20) = %f, want 0.6", r)
	}
	// Double rate: above 100% -> 1 of 5.
	if r := PositiveRate(rets, 100); !almostEqual(r, 0.2) {
		t.Errorf("PositiveRate(100) = %f, want 0.2", r)
	}
}

func TestGrowthRate(t *testing.T) {
	if g := GrowthRate(120, 100); !almostEqual(g, 0.2) {
		t.Errorf("GrowthRate = %f, want 0.2", g)
	}
	// Negative prior: growth against |prior| keeps the direction meaningful.
	if g := GrowthRate(-50, -100); !almostEqual(g, 0.5) {
		t.Errorf("GrowthRate = %f, want 0.5", g)
	}
	if !math.IsNaN(GrowthRate(10, 0)) {
		t.Error("GrowthRate with zero prior should be NaN")
	}
}

func TestRound1(t *testing.T) {
	if v := Round1(3.14159); !almostEqual(v, 3.1) {
		t.Errorf("Round1 = %f, want 3.1", v)
	}
	if v := Round1(-2.55); !almostEqual(v, -2.5) && !almostEqual(v, -2.6) {
		t.Errorf("Round1 = %f", v)
	}
}
