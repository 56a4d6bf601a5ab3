package fiscal

import (
	"testing"
	"time"
)

func TestWindowsFor(t *testing.T) {
	// ROC 113 October is announced 2024-11-10.
	p := DisclosurePeriod{ROCYear: 113, Month: 10}
	w := WindowsFor(p)

	anchor := time.Date(2024, 11, 10, 0, 0, 0, 0, time.UTC)
	if !w.Anchor.Equal(anchor) {
		t.Fatalf("anchor = %s, want %s", w.Anchor, anchor)
	}

	check := func(name string, win Window, from, to int) {
		t.Helper()
		wantStart := anchor.AddDate(0, 0, from)
		wantEnd := anchor.AddDate(0, 0, to)
		if !win.Start.Equal(wantStart) || !win.End.Equal(wantEnd) {
			t.Errorf("%s = [%s, %s), want [%s, %s)", name,
				win.Start.Format("2006-01-02"), win.End.Format("2006-01-02"),
				wantStart.Format("2006-01-02"), wantEnd.Format("2006-01-02"))
		}
	}

	check("PreMonth", w.PreMonth, -38, -9)
	check("PreWeek", w.PreWeek, -9, -3)
	check("AnnounceWeek", w.AnnounceWeek, -3, 4)
	check("PostWeek", w.PostWeek, 4, 11)
	check("PostMonth", w.PostMonth, 11, 30)
}

func TestWindowsAreContiguous(t *testing.T) {
	// PreWeek, AnnounceWeek, PostWeek and PostMonth tile without gap or
	// overlap, so a weekly bar lands in exactly one of them.
	w := WindowsFor(DisclosurePeriod{ROCYear: 113, Month: 3})

	if !w.PreWeek.End.Equal(w.AnnounceWeek.Start) {
		t.Error("gap between PreWeek and AnnounceWeek")
	}
	if !w.AnnounceWeek.End.Equal(w.PostWeek.Start) {
		t.Error("gap between AnnounceWeek and PostWeek")
	}
	if !w.PostWeek.End.Equal(w.PostMonth.Start) {
		t.Error("gap between PostWeek and PostMonth")
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{
		Start: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 11, 8, 0, 0, 0, 0, time.UTC),
	}

	if !w.Contains(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("start is inclusive")
	}
	if w.Contains(time.Date(2024, 11, 8, 0, 0, 0, 0, time.UTC)) {
		t.Error("end is exclusive")
	}
	if w.Days() != 7 {
		t.Errorf("Days() = %d, want 7", w.Days())
	}
}

func TestWindowsDecemberCarry(t *testing.T) {
	// A December disclosure anchors in January of the NEXT Gregorian year;
	// its pre-month window reaches back into the old year.
	w := WindowsFor(DisclosurePeriod{ROCYear: 113, Month: 12})

	if w.Anchor.Year() != 2025 || w.Anchor.Month() != time.January {
		t.Fatalf("anchor = %s, want January 2025", w.Anchor.Format("2006-01-02"))
	}
	if w.PreMonth.Start.Year() != 2024 {
		t.Errorf("pre-month window should start in 2024, got %d", w.PreMonth.Start.Year())
	}
}
