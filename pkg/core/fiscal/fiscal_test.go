package fiscal

import (
	"testing"
	"time"
)

func TestPeriodsForAnalysisYear2024(t *testing.T) {
	// 2024 = ROC 113. The investable disclosure set is ROC 112 December
	// (announced 2024-01-10) through ROC 113 November (announced 2024-12-10).
	year, err := NewAnalysisYear(2024)
	if err != nil {
		t.Fatalf("NewAnalysisYear(2024) failed: %v", err)
	}

	periods := PeriodsForAnalysisYear(year)
	if len(periods) != 12 {
		t.Fatalf("expected 12 periods, got %d", len(periods))
	}

	if periods[0] != (DisclosurePeriod{ROCYear: 112, Month: 12}) {
		t.Errorf("first period should be 112_12, got %s", periods[0])
	}
	if periods[11] != (DisclosurePeriod{ROCYear: 113, Month: 11}) {
		t.Errorf("last period should be 113_11, got %s", periods[11])
	}

	// Strictly increasing, and the current year's December must never appear
	// (it is only announced the following January).
	for i := 1; i < len(periods); i++ {
		if !periods[i-1].Before(periods[i]) {
			t.Errorf("periods not strictly increasing at index %d: %s >= %s", i, periods[i-1], periods[i])
		}
	}
	for _, p := range periods {
		if p.ROCYear == 113 && p.Month == 12 {
			t.Error("113_12 leaked into the 2024 window (look-ahead)")
		}
	}
}

func TestReportMonthKeys(t *testing.T) {
	year, _ := NewAnalysisYear(2024)
	keys := ReportMonthKeys(year)

	if keys[0] != "112_12" {
		t.Errorf("expected 112_12, got %s", keys[0])
	}
	if keys[1] != "113_01" {
		t.Errorf("months must be zero-padded: expected 113_01, got %s", keys[1])
	}
	if keys[11] != "113_11" {
		t.Errorf("expected 113_11, got %s", keys[11])
	}
}

func TestAnnouncementDate(t *testing.T) {
	cases := []struct {
		rocYear, month int
		want           time.Time
	}{
		// ROC 112 December is announced 2024-01-10: the carry bumps both the
		// ROC year and the Gregorian year. This exact boundary is where the
		// old inline SQL variants kept breaking.
		{112, 12, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{113, 11, time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)},
		{113, 12, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{113, 1, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		p := DisclosurePeriod{ROCYear: c.rocYear, Month: c.month}
		got := p.AnnouncementDate()
		if !got.Equal(c.want) {
			t.Errorf("AnnouncementDate(%s) = %s, want %s", p, got.Format("2006-01-02"), c.want.Format("2006-01-02"))
		}
	}
}

func TestAnnouncementRoundTrip(t *testing.T) {
	// Every disclosure relevant to year Y is announced during Y itself.
	for _, y := range []int{1912, 1950, 2020, 2024, 2025} {
		year, err := NewAnalysisYear(y)
		if err != nil {
			t.Fatalf("NewAnalysisYear(%d) failed: %v", y, err)
		}
		for _, p := range PeriodsForAnalysisYear(year) {
			if got := p.AnnouncementDate().Year(); got != y {
				t.Errorf("period %s of analysis year %d announced in %d", p, y, got)
			}
		}
	}
}

func TestAnnouncementDatesParallel(t *testing.T) {
	year, _ := NewAnalysisYear(2024)
	keys := ReportMonthKeys(year)
	dates := AnnouncementDates(year)

	if len(keys) != len(dates) {
		t.Fatalf("keys/dates length mismatch: %d vs %d", len(keys), len(dates))
	}
	if !dates[0].Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first announcement should be 2024-01-10, got %s", dates[0].Format("2006-01-02"))
	}
	if !dates[11].Equal(time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last announcement should be 2024-12-10, got %s", dates[11].Format("2006-01-02"))
	}
}

func TestROCEpochBoundary(t *testing.T) {
	// 1912 is the first valid analysis year; its window starts at ROC year 0
	// December. The store has no ROC 0 data, so callers get empty result
	// sets rather than an error.
	year, err := NewAnalysisYear(1912)
	if err != nil {
		t.Fatalf("1912 should be accepted: %v", err)
	}
	periods := PeriodsForAnalysisYear(year)
	if periods[0].ROCYear != 0 || periods[0].Month != 12 {
		t.Errorf("expected 0_12 first, got %s", periods[0])
	}

	if _, err := NewAnalysisYear(1911); err == nil {
		t.Error("1911 has no ROC counterpart and must be rejected")
	}
}

func TestNewDisclosurePeriodValidation(t *testing.T) {
	if _, err := NewDisclosurePeriod(113, 0); err != ErrInvalidMonth {
		t.Errorf("month 0: want ErrInvalidMonth, got %v", err)
	}
	if _, err := NewDisclosurePeriod(113, 13); err != ErrInvalidMonth {
		t.Errorf("month 13: want ErrInvalidMonth, got %v", err)
	}
	if _, err := NewDisclosurePeriod(-1, 6); err != ErrInvalidYear {
		t.Errorf("ROC -1: want ErrInvalidYear, got %v", err)
	}
	if _, err := NewDisclosurePeriod(0, 12); err != nil {
		t.Errorf("ROC 0 December must be constructible: %v", err)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("113_01")
	if err != nil {
		t.Fatalf("ParsePeriod: %v", err)
	}
	if p.ROCYear != 113 || p.Month != 1 {
		t.Errorf("parsed %+v", p)
	}
	if p.String() != "113_01" {
		t.Errorf("round trip produced %s", p.String())
	}

	if _, err := ParsePeriod("113_13"); err == nil {
		t.Error("month 13 should fail validation")
	}
	if _, err := ParsePeriod("nonsense"); err == nil {
		t.Error("garbage should not parse")
	}
}

func TestNext(t *testing.T) {
	p := DisclosurePeriod{ROCYear: 112, Month: 12}
	n := p.Next()
	if n.ROCYear != 113 || n.Month != 1 {
		t.Errorf("Next(112_12) = %s, want 113_01", n)
	}
}
