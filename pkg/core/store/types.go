package store

import "fmt"

// GrowthMetric selects which revenue growth column a study runs on. It is a
// closed enum mapped to a whitelisted column name — user input never reaches
// the SQL text directly.
type GrowthMetric string

const (
	MetricYoY GrowthMetric = "yoy" // year-over-year growth, the long-trend signal
	MetricMoM GrowthMetric = "mom" // month-over-month growth, the burst signal
)

// ParseGrowthMetric validates external input into a GrowthMetric.
func ParseGrowthMetric(s string) (GrowthMetric, error) {
	switch GrowthMetric(s) {
	case MetricYoY, MetricMoM:
		return GrowthMetric(s), nil
	default:
		return "", fmt.Errorf("store: unknown growth metric %q", s)
	}
}

// Column returns the monthly_revenue column backing the metric.
func (m GrowthMetric) Column() string {
	if m == MetricMoM {
		return "mom_pct"
	}
	return "yoy_pct"
}

// Aggregate selects the statistic computed per heatmap cell.
type Aggregate string

const (
	AggMedian Aggregate = "median" // robust to the market's extreme outliers
	AggMean   Aggregate = "mean"
)

// ParseAggregate validates external input into an Aggregate.
func ParseAggregate(s string) (Aggregate, error) {
	switch Aggregate(s) {
	case AggMedian, AggMean:
		return Aggregate(s), nil
	default:
		return "", fmt.Errorf("store: unknown aggregate %q", s)
	}
}

// sqlExpr returns the aggregation expression over the metric alias used in
// the heatmap CTE.
func (a Aggregate) sqlExpr() string {
	if a == AggMean {
		return "AVG(m.metric)"
	}
	return "percentile_cont(0.5) WITHIN GROUP (ORDER BY m.metric)"
}

// HeatmapCell is one (return-bin, report-month) cell of the annual heatmap.
type HeatmapCell struct {
	ReturnBin   string  `json:"return_bin"`
	ReportMonth string  `json:"report_month"`
	Value       float64 `json:"value"`
	StockCount  int     `json:"stock_count"`
}

// BinLeader is one row of the per-bin leaderboard.
type BinLeader struct {
	StockID      string  `json:"stock_id"`
	StockName    string  `json:"stock_name"`
	AnnualReturn float64 `json:"annual_return_pct"`
	AvgYoY       float64 `json:"avg_yoy_pct"`
	AvgMoM       float64 `json:"avg_mom_pct"`
	Remark       string  `json:"remark"`
}

// BurstBucket groups stocks by how many monthly disclosures landed inside
// the configured growth band during the analysis year's window.
type BurstBucket struct {
	Hits       int     `json:"hits"`
	StockCount int     `json:"stock_count"`
	AvgReturn  float64 `json:"avg_return_pct"`
	WinRate    float64 `json:"win_rate_pct"`    // share with annual return > 20%
	DoubleRate float64 `json:"double_rate_pct"` // share with annual return > 100%
}

// BurstMember is one stock inside a burst bucket.
type BurstMember struct {
	StockID      string  `json:"stock_id"`
	StockName    string  `json:"stock_name"`
	AnnualReturn float64 `json:"annual_return_pct"`
	AvgYoY       float64 `json:"avg_yoy_pct"`
	Remarks      string  `json:"remarks"`
}

// WindowEvent is one first-burst disclosure event with the average weekly
// return inside each study window. Window fields are NaN when no weekly bar
// fell inside the interval, so this struct is aggregated by the stats layer
// rather than serialized directly.
type WindowEvent struct {
	StockID      string
	StockName    string
	ReportMonth  string
	Growth       float64
	Remark       string
	PreMonth     float64
	PreWeek      float64
	AnnounceWeek float64
	PostWeek     float64
	PostMonth    float64
}

// BurstBehavior summarizes price action around every first-burst event:
// the disclosure month itself (before the figure is public) versus the month
// after announcement.
type BurstBehavior struct {
	Events       int     `json:"events"`
	AvgPreRun    float64 `json:"avg_pre_run_pct"`
	PreRunRate   float64 `json:"pre_run_rate_pct"` // disclosure-month gain > 5%
	AvgPostRun   float64 `json:"avg_post_run_pct"`
	ChaseRate    float64 `json:"chase_rate_pct"`     // post-announcement gain > 5%
	SellNewsRate float64 `json:"sell_news_rate_pct"` // post-announcement drop > 5%
}
