package ingest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const upsertRevenueSQL = `
	INSERT INTO monthly_revenue (report_month, stock_id, stock_name, revenue, mom_pct, yoy_pct, remark)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (report_month, stock_id) DO UPDATE SET
		stock_name = EXCLUDED.stock_name,
		revenue    = EXCLUDED.revenue,
		mom_pct    = EXCLUDED.mom_pct,
		yoy_pct    = EXCLUDED.yoy_pct,
		remark     = EXCLUDED.remark
`

// UpsertRevenue writes parsed rows in one batch. Re-running an ingest for a
// period is safe; companies occasionally restate a month and MOPS serves the
// corrected figure on the same page.
func UpsertRevenue(ctx context.Context, pool *pgxpool.Pool, rows []RevenueRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertRevenueSQL,
			row.ReportMonth, row.StockID, row.StockName,
			row.Revenue, row.MoMPct, row.YoYPct, row.Remark)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range rows {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("upsert failed at row %d (%s %s): %w",
				i, rows[i].ReportMonth, rows[i].StockID, err)
		}
	}
	return len(rows), nil
}
