// Package fiscal maps Taiwan's ROC (Minguo) monthly revenue disclosure
// calendar onto Gregorian trading dates. Listed companies must publish the
// revenue for calendar month M by the 10th of month M+1, so the set of
// disclosures an investor could actually act on during a Gregorian year runs
// from the prior year's December report through the current year's November
// report. Every query in this system derives its period filters from here
// instead of rebuilding the offset arithmetic in SQL.
package fiscal

import (
	"errors"
	"fmt"
	"time"
)

// ROCEpoch is the Gregorian year of ROC year 1.
const ROCEpoch = 1911

var (
	// ErrInvalidMonth is returned when a disclosure month is outside [1,12].
	ErrInvalidMonth = errors.New("fiscal: month must be in [1,12]")
	// ErrInvalidYear is returned when a year would produce a negative ROC year.
	ErrInvalidYear = errors.New("fiscal: year precedes the ROC epoch")
)

// DisclosurePeriod identifies one company-month revenue disclosure.
// It is stored upstream as "{rocYear}_{month:02d}", e.g. "113_01".
type DisclosurePeriod struct {
	ROCYear int
	Month   int
}

// NewDisclosurePeriod validates and constructs a period.
// ROC year 0 is admitted: PeriodsForAnalysisYear(1912) legitimately yields
// (0, 12) as its first entry. Negative ROC years are rejected.
func NewDisclosurePeriod(rocYear, month int) (DisclosurePeriod, error) {
	if rocYear < 0 {
		return DisclosurePeriod{}, ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return DisclosurePeriod{}, ErrInvalidMonth
	}
	return DisclosurePeriod{ROCYear: rocYear, Month: month}, nil
}

// String renders the storage key used by the monthly_revenue table.
func (p DisclosurePeriod) String() string {
	return fmt.Sprintf("%d_%02d", p.ROCYear, p.Month)
}

// ParsePeriod is the inverse of String.
func ParsePeriod(s string) (DisclosurePeriod, error) {
	var rocYear, month int
	if _, err := fmt.Sscanf(s, "%d_%d", &rocYear, &month); err != nil {
		return DisclosurePeriod{}, fmt.Errorf("fiscal: malformed period %q: %w", s, err)
	}
	return NewDisclosurePeriod(rocYear, month)
}

// GregorianYear returns the Gregorian calendar year the disclosed month
// belongs to (not the year it was announced in).
func (p DisclosurePeriod) GregorianYear() int {
	return p.ROCYear + ROCEpoch
}

// Next returns the following calendar month's period.
func (p DisclosurePeriod) Next() DisclosurePeriod {
	if p.Month == 12 {
		return DisclosurePeriod{ROCYear: p.ROCYear + 1, Month: 1}
	}
	return DisclosurePeriod{ROCYear: p.ROCYear, Month: p.Month + 1}
}

// Before reports whether p is chronologically earlier than q.
func (p DisclosurePeriod) Before(q DisclosurePeriod) bool {
	if p.ROCYear != q.ROCYear {
		return p.ROCYear < q.ROCYear
	}
	return p.Month < q.Month
}

// AnnouncementDate returns the legally mandated public disclosure date for
// the period: the 10th of the following Gregorian month. A December report
// rolls into January of the next year, which increments BOTH the ROC year
// and the Gregorian year — the carry every ad-hoc variant of this logic has
// gotten wrong at least once.
func (p DisclosurePeriod) AnnouncementDate() time.Time {
	year := p.ROCYear + ROCEpoch
	month := p.Month + 1
	if p.Month == 12 {
		year++
		month = 1
	}
	return time.Date(year, time.Month(month), 10, 0, 0, 0, 0, time.UTC)
}

// AnalysisYear is the Gregorian calendar year under study.
type AnalysisYear int

// NewAnalysisYear validates external input (e.g. a year selector) before it
// enters the mapper. Years before 1912 have no ROC counterpart.
func NewAnalysisYear(year int) (AnalysisYear, error) {
	if year < ROCEpoch+1 {
		return 0, ErrInvalidYear
	}
	return AnalysisYear(year), nil
}

// ROCYear converts to the Minguo year.
func (y AnalysisYear) ROCYear() int {
	return int(y) - ROCEpoch
}

// PeriodsForAnalysisYear returns the exactly 12 disclosures that were public
// at some point during the analysis year, in chronological order: the prior
// year's December (announced Jan 10) through the current year's November
// (announced Dec 10). The current year's December disclosure is announced
// the following January; including it would leak look-ahead information
// into any same-year return study.
func PeriodsForAnalysisYear(y AnalysisYear) []DisclosurePeriod {
	roc := y.ROCYear()
	periods := make([]DisclosurePeriod, 0, 12)
	periods = append(periods, DisclosurePeriod{ROCYear: roc - 1, Month: 12})
	for m := 1; m <= 11; m++ {
		periods = append(periods, DisclosurePeriod{ROCYear: roc, Month: m})
	}
	return periods
}

// ReportMonthKeys returns the storage keys for PeriodsForAnalysisYear,
// ready to bind as a text[] parameter.
func ReportMonthKeys(y AnalysisYear) []string {
	periods := PeriodsForAnalysisYear(y)
	keys := make([]string, len(periods))
	for i, p := range periods {
		keys[i] = p.String()
	}
	return keys
}

// AnnouncementDates returns the announcement date of each period from
// PeriodsForAnalysisYear, parallel to ReportMonthKeys. All twelve fall
// inside the analysis year itself.
func AnnouncementDates(y AnalysisYear) []time.Time {
	periods := PeriodsForAnalysisYear(y)
	dates := make([]time.Time, len(periods))
	for i, p := range periods {
		dates[i] = p.AnnouncementDate()
	}
	return dates
}
