package fiscal

import "time"

// Window is a half-open date interval [Start, End) on the trading calendar.
// Windows are derived on demand and never persisted.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Days returns the window length in calendar days.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// StudyWindows holds the five fixed event-study intervals around one
// announcement date. Offsets come from the announcement-behavior study:
// the pre-month window is where informed positioning would show up, the
// announce week is the market-consensus reaction, the post windows measure
// follow-through and digestion.
type StudyWindows struct {
	Anchor       time.Time
	PreMonth     Window // [a-38d, a-9d)
	PreWeek      Window // [a-9d, a-3d)
	AnnounceWeek Window // [a-3d, a+4d)
	PostWeek     Window // [a+4d, a+11d)
	PostMonth    Window // [a+11d, a+30d)
}

func windowAt(anchor time.Time, fromDays, toDays int) Window {
	return Window{
		Start: anchor.AddDate(0, 0, fromDays),
		End:   anchor.AddDate(0, 0, toDays),
	}
}

// WindowsFor derives the study windows anchored on the period's
// announcement date.
func WindowsFor(p DisclosurePeriod) StudyWindows {
	a := p.AnnouncementDate()
	return StudyWindows{
		Anchor:       a,
		PreMonth:     windowAt(a, -38, -9),
		PreWeek:      windowAt(a, -9, -3),
		AnnounceWeek: windowAt(a, -3, 4),
		PostWeek:     windowAt(a, 4, 11),
		PostMonth:    windowAt(a, 11, 30),
	}
}
