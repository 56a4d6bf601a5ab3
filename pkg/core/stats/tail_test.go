package stats

import (
	"math"
	"testing"
)

// symmetric spread of 21 values around 50 with no outliers.
func symmetricSample() []float64 {
	out := make([]float64, 0, 21)
	for i := -10; i <= 10; i++ {
		out = append(out, 50+float64(i))
	}
	return out
}

func TestRightTailConcentration(t *testing.T) {
	sym := symmetricSample()
	base := RightTailConcentration(sym)
	if math.IsNaN(base) {
		t.Fatal("symmetric sample above the floor should produce a value")
	}

	// Graft a fat right tail on and the concentration must rise: the P95
	// moves out while the median and IQR barely move.
	tailed := append(append([]float64{}, sym...), 400, 500, 900)
	if rtc := RightTailConcentration(tailed); rtc <= base {
		t.Errorf("fat right tail should raise RTC: base %f, tailed %f", base, rtc)
	}
}

func TestRightTailConcentrationSmallSample(t *testing.T) {
	// Under 20 samples the estimate is noise; report NaN instead.
	small := []float64{1, 2, 3, 4, 5}
	if !math.IsNaN(RightTailConcentration(small)) {
		t.Error("small sample should yield NaN")
	}
	if !math.IsNaN(TopDecileIntensity(small)) {
		t.Error("small sample should yield NaN")
	}
}

func TestTopDecileIntensity(t *testing.T) {
	// Median 50. Push the top decile to ~10x the median.
	values := symmetricSample()
	values = append(values, 480, 500, 520)

	tdir := TopDecileIntensity(values)
	if math.IsNaN(tdir) {
		t.Fatal("expected a value")
	}
	if tdir < 5 {
		t.Errorf("top decile at ~10x median should give a large TDIR, got %f", tdir)
	}
}

func TestHistogram(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}
	bins := Histogram(values, 5)

	if len(bins) != 5 {
		t.Fatalf("expected 5 bins, got %d", len(bins))
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != len(values) {
		t.Errorf("histogram dropped samples: counted %d of %d", total, len(values))
	}
	// Max value lands in the last bin, not out of range.
	if bins[4].Count == 0 {
		t.Error("upper edge sample missing from last bin")
	}
}

func TestHistogramDegenerate(t *testing.T) {
	bins := Histogram([]float64{7, 7, 7}, 10)
	if len(bins) != 1 || bins[0].Count != 3 {
		t.Errorf("constant input should collapse to a single bin, got %+v", bins)
	}
	if Histogram(nil, 5) != nil {
		t.Error("empty input should return nil")
	}
}
