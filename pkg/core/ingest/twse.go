// Package ingest pulls monthly revenue disclosures from the TWSE MOPS site
// and loads them into the monthly_revenue table.
// Report pages: https://mops.twse.com.tw/nas/t21/sii/t21sc03_{rocYear}_{month}_0.html
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"stockrevenuelab/pkg/core/fiscal"
)

const (
	// TWSEReportURL takes ROC year and month. The trailing 0 selects the
	// domestic-company aggregate page.
	TWSEReportURL = "https://mops.twse.com.tw/nas/t21/sii/t21sc03_%d_%d_0.html"

	userAgent = "StockRevenueLab/1.0 (research use)"
)

// RevenueRow is one company's monthly revenue disclosure.
type RevenueRow struct {
	StockID     string
	StockName   string
	Revenue     float64 // current month, thousand TWD
	MoMPct      float64 // vs previous month
	YoYPct      float64 // vs same month last year
	Remark      string
	ReportMonth string // disclosure period key, e.g. "113_01"
}

// TWSEClient fetches and parses MOPS monthly revenue report pages.
type TWSEClient struct {
	httpClient *http.Client
	baseURL    string // override for tests
}

// NewTWSEClient creates a client with a sane timeout.
func NewTWSEClient() *TWSEClient {
	return &TWSEClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchMonthlyRevenue downloads and parses one period's report. Periods whose
// announcement deadline is still in the future are rejected up front so a
// backfill loop can stop cleanly at the present.
func (c *TWSEClient) FetchMonthlyRevenue(ctx context.Context, period fiscal.DisclosurePeriod) ([]RevenueRow, error) {
	if period.AnnouncementDate().After(time.Now()) {
		return nil, fmt.Errorf("period %s not yet announced", period)
	}

	url := fmt.Sprintf(TWSEReportURL, period.ROCYear, period.Month)
	if c.baseURL != "" {
		url = fmt.Sprintf("%s/t21sc03_%d_%d_0.html", c.baseURL, period.ROCYear, period.Month)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build MOPS request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("MOPS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("MOPS returned %d for %s", resp.StatusCode, period)
	}

	rows, err := ParseRevenueTable(resp.Body, period)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report for %s: %w", period, err)
	}
	return rows, nil
}

// ParseRevenueTable extracts per-company rows from a MOPS report page.
// The page is a pile of nested tables grouped by industry; company rows are
// identified by a numeric stock code in the first cell, which also skips
// header rows and the per-industry "合計" subtotal rows.
func ParseRevenueTable(r io.Reader, period fiscal.DisclosurePeriod) ([]RevenueRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var rows []RevenueRow
	doc.Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 7 {
			return
		}

		stockID := strings.TrimSpace(cells.Eq(0).Text())
		if !isStockCode(stockID) {
			return
		}

		row := RevenueRow{
			StockID:     stockID,
			StockName:   strings.TrimSpace(cells.Eq(1).Text()),
			Revenue:     parseNumber(cells.Eq(2).Text()),
			MoMPct:      parseNumber(cells.Eq(5).Text()),
			YoYPct:      parseNumber(cells.Eq(6).Text()),
			ReportMonth: period.String(),
		}
		if cells.Length() > 10 {
			row.Remark = strings.TrimSpace(cells.Eq(10).Text())
		}
		if row.Remark == "-" {
			row.Remark = ""
		}
		rows = append(rows, row)
	})

	if len(rows) == 0 {
		return nil, fmt.Errorf("no company rows found")
	}
	return rows, nil
}

// isStockCode accepts 4 to 6 digit TWSE codes.
func isStockCode(s string) bool {
	if len(s) < 4 || len(s) > 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseNumber handles MOPS number formatting: thousands separators and
// placeholder dashes for missing values.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
