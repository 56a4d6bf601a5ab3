package store

import (
	"context"
	"fmt"

	"stockrevenuelab/pkg/core/fiscal"

	"github.com/jackc/pgx/v5/pgxpool"
)

// returnBinExpr buckets an annual return into the heatmap's row labels:
// below zero, eleven 100-point buckets, and a 1000%+ catch-all. The LPAD
// keeps the labels lexicographically sortable.
const returnBinExpr = `CASE
	WHEN (year_close - year_open) / year_open < 0 THEN '00. loss'
	WHEN (year_close - year_open) / year_open >= 10 THEN '11. 1000%+'
	ELSE LPAD(FLOOR((year_close - year_open) / year_open)::text, 2, '0') || '. ' ||
		(FLOOR((year_close - year_open) / year_open)*100)::text || '-' ||
		((FLOOR((year_close - year_open) / year_open)+1)*100)::text || '%'
END`

// RevenueRepo answers the heatmap, leaderboard and burst-probability
// questions over monthly_revenue joined to stock_annual_k.
type RevenueRepo struct {
	pool  *pgxpool.Pool
	cache *QueryCache
}

// NewRevenueRepo creates a repo. cache may be nil to disable caching.
func NewRevenueRepo(pool *pgxpool.Pool, cache *QueryCache) *RevenueRepo {
	return &RevenueRepo{pool: pool, cache: cache}
}

// FetchHeatmap returns one cell per (return bin, report month) for the
// analysis year. The 12 report months come from the fiscal mapper, so the
// matrix can never include the look-ahead December disclosure.
func (r *RevenueRepo) FetchHeatmap(ctx context.Context, year fiscal.AnalysisYear, metric GrowthMetric, agg Aggregate) ([]HeatmapCell, error) {
	key := Key("heatmap", year, metric, agg)
	if cached, ok := r.cache.Get(key); ok {
		return cached.([]HeatmapCell), nil
	}

	// Column and aggregate are validated enums; only their whitelisted SQL
	// fragments are spliced in. Everything else is bound.
	query := fmt.Sprintf(`
		WITH annual_bins AS (
			SELECT symbol, %s AS return_bin
			FROM stock_annual_k
			WHERE year = $1
		),
		monthly_stats AS (
			SELECT stock_id, report_month, %s AS metric
			FROM monthly_revenue
			WHERE report_month = ANY($2)
		)
		SELECT b.return_bin, m.report_month, %s AS val,
			COUNT(DISTINCT b.symbol) AS stock_count
		FROM annual_bins b
		JOIN monthly_stats m ON SPLIT_PART(b.symbol, '.', 1) = m.stock_id
		WHERE m.metric IS NOT NULL
		GROUP BY b.return_bin, m.report_month
		ORDER BY b.return_bin, m.report_month
	`, returnBinExpr, metric.Column(), agg.sqlExpr())

	rows, err := r.pool.Query(ctx, query, fmt.Sprint(int(year)), fiscal.ReportMonthKeys(year))
	if err != nil {
		return nil, fmt.Errorf("heatmap query failed: %w", err)
	}
	defer rows.Close()

	var cells []HeatmapCell
	for rows.Next() {
		var c HeatmapCell
		if err := rows.Scan(&c.ReturnBin, &c.ReportMonth, &c.Value, &c.StockCount); err != nil {
			return nil, fmt.Errorf("heatmap scan failed: %w", err)
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("heatmap rows failed: %w", err)
	}

	r.cache.Put(key, cells)
	return cells, nil
}

// FetchBinLeaders lists the top stocks inside one return bin, with their
// window-average growth and the latest non-empty revenue remark. keyword
// filters by stock name or remark substring; empty matches everything.
func (r *RevenueRepo) FetchBinLeaders(ctx context.Context, year fiscal.AnalysisYear, bin, keyword string, limit int) ([]BinLeader, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	key := Key("bin_leaders", year, bin, keyword, limit)
	if cached, ok := r.cache.Get(key); ok {
		return cached.([]BinLeader), nil
	}

	query := fmt.Sprintf(`
		WITH target_stocks AS (
			SELECT symbol, ((year_close - year_open) / year_open) * 100 AS annual_ret
			FROM stock_annual_k
			WHERE year = $1 AND %s = $2
		),
		latest_remarks AS (
			SELECT DISTINCT ON (stock_id) stock_id, remark
			FROM monthly_revenue
			WHERE report_month = ANY($3)
				AND remark IS NOT NULL AND remark <> '-' AND remark <> ''
			ORDER BY stock_id, report_month DESC
		)
		SELECT m.stock_id, m.stock_name,
			ROUND(t.annual_ret::numeric, 1),
			ROUND(AVG(m.yoy_pct)::numeric, 1),
			ROUND(AVG(m.mom_pct)::numeric, 1),
			COALESCE(r.remark, '')
		FROM monthly_revenue m
		JOIN target_stocks t ON m.stock_id = SPLIT_PART(t.symbol, '.', 1)
		LEFT JOIN latest_remarks r ON m.stock_id = r.stock_id
		WHERE m.report_month = ANY($3)
			AND (m.stock_name LIKE '%%' || $4 || '%%' OR m.remark LIKE '%%' || $4 || '%%')
		GROUP BY m.stock_id, m.stock_name, t.annual_ret, r.remark
		ORDER BY t.annual_ret DESC
		LIMIT $5
	`, returnBinExpr)

	rows, err := r.pool.Query(ctx, query,
		fmt.Sprint(int(year)), bin, fiscal.ReportMonthKeys(year), keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("bin leaders query failed: %w", err)
	}
	defer rows.Close()

	var leaders []BinLeader
	for rows.Next() {
		var l BinLeader
		var avgYoY, avgMoM *float64
		if err := rows.Scan(&l.StockID, &l.StockName, &l.AnnualReturn, &avgYoY, &avgMoM, &l.Remark); err != nil {
			return nil, fmt.Errorf("bin leaders scan failed: %w", err)
		}
		l.AvgYoY = deref(avgYoY)
		l.AvgMoM = deref(avgMoM)
		leaders = append(leaders, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bin leaders rows failed: %w", err)
	}

	r.cache.Put(key, leaders)
	return leaders, nil
}

// FetchBurstProbability groups the market by how many of the year's 12
// disclosures landed in the [low, high) growth band, and reports the annual
// return statistics per group. This is the "how many times did revenue pop,
// and did the stock double" table.
func (r *RevenueRepo) FetchBurstProbability(ctx context.Context, year fiscal.AnalysisYear, metric GrowthMetric, low, high float64) ([]BurstBucket, error) {
	key := Key("burst_prob", year, metric, low, high)
	if cached, ok := r.cache.Get(key); ok {
		return cached.([]BurstBucket), nil
	}

	query := fmt.Sprintf(`
		WITH hit_table AS (
			SELECT stock_id, COUNT(*) AS hits
			FROM monthly_revenue
			WHERE report_month = ANY($1)
				AND %[1]s >= $2 AND %[1]s < $3
			GROUP BY stock_id
		),
		perf_table AS (
			SELECT SPLIT_PART(symbol, '.', 1) AS stock_id,
				((year_close - year_open) / year_open) * 100 AS ret
			FROM stock_annual_k
			WHERE year = $4
		)
		SELECT h.hits, COUNT(*) AS stock_count,
			ROUND(AVG(p.ret)::numeric, 1),
			ROUND((COUNT(*) FILTER (WHERE p.ret > 20) * 100.0 / COUNT(*))::numeric, 1),
			ROUND((COUNT(*) FILTER (WHERE p.ret > 100) * 100.0 / COUNT(*))::numeric, 1)
		FROM hit_table h
		JOIN perf_table p ON h.stock_id = p.stock_id
		GROUP BY h.hits
		ORDER BY h.hits DESC
	`, metric.Column())

	rows, err := r.pool.Query(ctx, query,
		fiscal.ReportMonthKeys(year), low, high, fmt.Sprint(int(year)))
	if err != nil {
		return nil, fmt.Errorf("burst probability query failed: %w", err)
	}
	defer rows.Close()

	var buckets []BurstBucket
	for rows.Next() {
		var b BurstBucket
		if err := rows.Scan(&b.Hits, &b.StockCount, &b.AvgReturn, &b.WinRate, &b.DoubleRate); err != nil {
			return nil, fmt.Errorf("burst probability scan failed: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("burst probability rows failed: %w", err)
	}

	r.cache.Put(key, buckets)
	return buckets, nil
}

// FetchBurstMembers lists the stocks behind one row of the probability
// table: everything that hit the band exactly `hits` times.
func (r *RevenueRepo) FetchBurstMembers(ctx context.Context, year fiscal.AnalysisYear, metric GrowthMetric, low, high float64, hits int) ([]BurstMember, error) {
	key := Key("burst_members", year, metric, low, high, hits)
	if cached, ok := r.cache.Get(key); ok {
		return cached.([]BurstMember), nil
	}

	query := fmt.Sprintf(`
		WITH hit_table AS (
			SELECT stock_id, COUNT(*) AS hits
			FROM monthly_revenue
			WHERE report_month = ANY($1)
				AND %[1]s >= $2 AND %[1]s < $3
			GROUP BY stock_id
		)
		SELECT h.stock_id, m.stock_name,
			ROUND(((k.year_close - k.year_open) / k.year_open * 100)::numeric, 1),
			ROUND(AVG(m.yoy_pct)::numeric, 1),
			COALESCE(STRING_AGG(DISTINCT m.remark, ' | ')
				FILTER (WHERE m.remark <> '-' AND m.remark <> ''), '')
		FROM hit_table h
		JOIN stock_annual_k k
			ON h.stock_id = SPLIT_PART(k.symbol, '.', 1) AND k.year = $4
		JOIN monthly_revenue m
			ON h.stock_id = m.stock_id AND m.report_month = ANY($1)
		WHERE h.hits = $5
		GROUP BY h.stock_id, m.stock_name, k.year_close, k.year_open
		ORDER BY 3 DESC
	`, metric.Column())

	rows, err := r.pool.Query(ctx, query,
		fiscal.ReportMonthKeys(year), low, high, fmt.Sprint(int(year)), hits)
	if err != nil {
		return nil, fmt.Errorf("burst members query failed: %w", err)
	}
	defer rows.Close()

	var members []BurstMember
	for rows.Next() {
		var m BurstMember
		var avgYoY *float64
		if err := rows.Scan(&m.StockID, &m.StockName, &m.AnnualReturn, &avgYoY, &m.Remarks); err != nil {
			return nil, fmt.Errorf("burst members scan failed: %w", err)
		}
		m.AvgYoY = deref(avgYoY)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("burst members rows failed: %w", err)
	}

	r.cache.Put(key, members)
	return members, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
