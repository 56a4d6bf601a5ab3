package store

import (
	"context"
	"fmt"
	"math"

	"stockrevenuelab/pkg/core/fiscal"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PriceRepo answers the event-study questions: what did the price do around
// each first-burst disclosure. Announcement dates are computed by the fiscal
// mapper in Go and bound as a date array; the old SQL that re-derived the
// December carry with string surgery is gone.
type PriceRepo struct {
	pool  *pgxpool.Pool
	cache *QueryCache
}

// NewPriceRepo creates a repo. cache may be nil to disable caching.
func NewPriceRepo(pool *pgxpool.Pool, cache *QueryCache) *PriceRepo {
	return &PriceRepo{pool: pool, cache: cache}
}

// FetchAnnouncementWindows returns one row per first-burst event (growth
// crossed the threshold and the previous month was below it) with the
// average weekly return inside each study window around the announcement
// date. The prior-December disclosure participates only as the LAG seed; it
// is never itself an event, because its announcement belongs to the study
// year but its burst status was set the year before.
func (r *PriceRepo) FetchAnnouncementWindows(ctx context.Context, year fiscal.AnalysisYear, metric GrowthMetric, threshold float64, keyword string) ([]WindowEvent, error) {
	key := Key("announce_windows", year, metric, threshold, keyword)
	if cached, ok := r.cache.Get(key); ok {
		return cached.([]WindowEvent), nil
	}

	periods := fiscal.PeriodsForAnalysisYear(year)
	seed := periods[0].String()

	// Window offsets mirror fiscal.WindowsFor: [-38,-9), [-9,-3), [-3,4),
	// [4,11), [11,30) days around the bound announcement date. The pre-month
	// average is scaled by 4 to a roughly monthly figure, matching how the
	// other windows read as "one week of drift".
	query := fmt.Sprintf(`
		WITH ann AS (
			SELECT * FROM unnest($1::text[], $2::date[]) AS t(report_month, base_date)
		),
		raw AS (
			SELECT stock_id, stock_name, report_month, %[1]s AS growth, remark,
				LAG(%[1]s) OVER (PARTITION BY stock_id ORDER BY report_month) AS prev
			FROM monthly_revenue
			WHERE report_month = ANY($1)
		),
		evt AS (
			SELECT r.stock_id, r.stock_name, r.report_month, r.growth, r.remark, a.base_date
			FROM raw r
			JOIN ann a ON r.report_month = a.report_month
			WHERE r.growth >= $3
				AND (r.prev < $3 OR r.prev IS NULL)
				AND r.report_month <> $4
				AND (r.remark LIKE '%%' || $5 || '%%' OR r.stock_name LIKE '%%' || $5 || '%%')
		),
		wk AS (
			SELECT symbol, date,
				(w_close - LAG(w_close) OVER (PARTITION BY symbol ORDER BY date))
					/ NULLIF(LAG(w_close) OVER (PARTITION BY symbol ORDER BY date), 0) * 100 AS ret
			FROM stock_weekly_k
		)
		SELECT e.stock_id, e.stock_name, e.report_month, e.growth, COALESCE(e.remark, ''),
			AVG(CASE WHEN wk.date >= e.base_date - 38 AND wk.date < e.base_date - 9 THEN wk.ret END) * 4,
			AVG(CASE WHEN wk.date >= e.base_date - 9  AND wk.date < e.base_date - 3 THEN wk.ret END),
			AVG(CASE WHEN wk.date >= e.base_date - 3  AND wk.date < e.base_date + 4 THEN wk.ret END),
			AVG(CASE WHEN wk.date >= e.base_date + 4  AND wk.date < e.base_date + 11 THEN wk.ret END),
			AVG(CASE WHEN wk.date >= e.base_date + 11 AND wk.date < e.base_date + 30 THEN wk.ret END)
		FROM evt e
		JOIN wk ON e.stock_id = SPLIT_PART(wk.symbol, '.', 1)
		GROUP BY e.stock_id, e.stock_name, e.report_month, e.growth, e.remark, e.base_date
		ORDER BY e.report_month, e.stock_id
	`, metric.Column())

	rows, err := r.pool.Query(ctx, query,
		fiscal.ReportMonthKeys(year), fiscal.AnnouncementDates(year), threshold, seed, keyword)
	if err != nil {
		return nil, fmt.Errorf("announcement windows query failed: %w", err)
	}
	defer rows.Close()

	var events []WindowEvent
	for rows.Next() {
		var e WindowEvent
		var preM, preW, annW, postW, postM *float64
		if err := rows.Scan(&e.StockID, &e.StockName, &e.ReportMonth, &e.Growth, &e.Remark,
			&preM, &preW, &annW, &postW, &postM); err != nil {
			return nil, fmt.Errorf("announcement windows scan failed: %w", err)
		}
		e.PreMonth = derefNaN(preM)
		e.PreWeek = derefNaN(preW)
		e.AnnounceWeek = derefNaN(annW)
		e.PostWeek = derefNaN(postW)
		e.PostMonth = derefNaN(postM)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("announcement windows rows failed: %w", err)
	}

	r.cache.Put(key, events)
	return events, nil
}

// FetchFirstBurstBehavior aggregates the monthly-bar behavior around every
// first burst of the year: the disclosure month itself (the figure is not
// public yet — any gain there is informed positioning) versus the month the
// announcement lands in.
func (r *PriceRepo) FetchFirstBurstBehavior(ctx context.Context, year fiscal.AnalysisYear, threshold float64) (*BurstBehavior, error) {
	key := Key("first_burst", year, threshold)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*BurstBehavior), nil
	}

	periods := fiscal.PeriodsForAnalysisYear(year)
	keys := make([]string, len(periods))
	nextKeys := make([]string, len(periods))
	for i, p := range periods {
		keys[i] = p.String()
		nextKeys[i] = p.Next().String()
	}
	seed := keys[0]

	query := `
		WITH cal AS (
			SELECT * FROM unnest($1::text[], $2::text[]) AS t(report_month, next_month)
		),
		raw AS (
			SELECT stock_id, report_month, yoy_pct,
				LAG(yoy_pct) OVER (PARTITION BY stock_id ORDER BY report_month) AS prev_yoy
			FROM monthly_revenue
			WHERE report_month = ANY($1)
		),
		first_events AS (
			SELECT r.stock_id, r.report_month, c.next_month
			FROM raw r
			JOIN cal c ON r.report_month = c.report_month
			WHERE r.yoy_pct >= $3
				AND (r.prev_yoy < $3 OR r.prev_yoy IS NULL)
				AND r.report_month <> $4
		),
		price_behavior AS (
			SELECT f.stock_id,
				((p1.m_close - p1.m_open) / NULLIF(p1.m_open, 0) * 100) AS pre_run_ret,
				((p2.m_close - p2.m_open) / NULLIF(p2.m_open, 0) * 100) AS post_run_ret
			FROM first_events f
			JOIN stock_monthly_k p1
				ON f.stock_id = SPLIT_PART(p1.symbol, '.', 1) AND p1.report_month = f.report_month
			LEFT JOIN stock_monthly_k p2
				ON p1.symbol = p2.symbol AND p2.report_month = f.next_month
		)
		SELECT COUNT(*),
			ROUND(COALESCE(AVG(pre_run_ret), 0)::numeric, 1),
			ROUND(COALESCE(COUNT(*) FILTER (WHERE pre_run_ret > 5) * 100.0 / NULLIF(COUNT(*), 0), 0)::numeric, 1),
			ROUND(COALESCE(AVG(post_run_ret), 0)::numeric, 1),
			ROUND(COALESCE(COUNT(*) FILTER (WHERE post_run_ret > 5) * 100.0 / NULLIF(COUNT(*), 0), 0)::numeric, 1),
			ROUND(COALESCE(COUNT(*) FILTER (WHERE post_run_ret < -5) * 100.0 / NULLIF(COUNT(*), 0), 0)::numeric, 1)
		FROM price_behavior
	`

	var b BurstBehavior
	err := r.pool.QueryRow(ctx, query, keys, nextKeys, threshold, seed).Scan(
		&b.Events, &b.AvgPreRun, &b.PreRunRate, &b.AvgPostRun, &b.ChaseRate, &b.SellNewsRate)
	if err != nil {
		return nil, fmt.Errorf("first burst behavior query failed: %w", err)
	}

	r.cache.Put(key, &b)
	return &b, nil
}

func derefNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
