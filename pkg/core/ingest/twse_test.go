package ingest

import (
	"strings"
	"testing"

	"stockrevenuelab/pkg/core/fiscal"
)

// A trimmed MOPS report page: one industry header, two company rows, one
// subtotal row that must be skipped.
const sampleReport = `
<html><body>
<table>
<tr><th>公司代號</th><th>公司名稱</th><th>當月營收</th><th>上月營收</th><th>去年當月營收</th>
<th>上月比較增減(%)</th><th>去年同月增減(%)</th><th>當月累計營收</th><th>去年累計營收</th>
<th>前期比較增減(%)</th><th>備註</th></tr>
<tr><td>2330</td><td>台積電</td><td>278,163,276</td><td>276,058,773</td><td>215,785,127</td>
<td>0.76</td><td>28.91</td><td>278,163,276</td><td>215,785,127</td><td>28.91</td><td>-</td></tr>
<tr><td>2317</td><td>鴻海</td><td>541,451,130</td><td>655,843,622</td><td>460,668,733</td>
<td>-17.44</td><td>17.53</td><td>541,451,130</td><td>460,668,733</td><td>17.53</td><td>新產品出貨</td></tr>
<tr><td>合計</td><td></td><td>819,614,406</td><td>931,902,395</td><td>676,453,860</td>
<td>-12.05</td><td>21.16</td><td>819,614,406</td><td>676,453,860</td><td>21.16</td><td></td></tr>
</table>
</body></html>`

func TestParseRevenueTable(t *testing.T) {
	period, err := fiscal.NewDisclosurePeriod(113, 1)
	if err != nil {
		t.Fatalf("NewDisclosurePeriod: %v", err)
	}

	rows, err := ParseRevenueTable(strings.NewReader(sampleReport), period)
	if err != nil {
		t.Fatalf("ParseRevenueTable: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 company rows, got %d", len(rows))
	}

	tsmc := rows[0]
	if tsmc.StockID != "2330" || tsmc.StockName != "台積電" {
		t.Errorf("row 0 identity = %s %s", tsmc.StockID, tsmc.StockName)
	}
	if tsmc.Revenue != 278163276 {
		t.Errorf("revenue = %v, comma separators not handled", tsmc.Revenue)
	}
	if tsmc.YoYPct != 28.91 || tsmc.MoMPct != 0.76 {
		t.Errorf("growth = yoy %v mom %v", tsmc.YoYPct, tsmc.MoMPct)
	}
	if tsmc.Remark != "" {
		t.Errorf("dash remark should map to empty, got %q", tsmc.Remark)
	}
	if tsmc.ReportMonth != "113_01" {
		t.Errorf("report month = %q", tsmc.ReportMonth)
	}

	honhai := rows[1]
	if honhai.MoMPct != -17.44 {
		t.Errorf("negative growth = %v", honhai.MoMPct)
	}
	if honhai.Remark != "新產品出貨" {
		t.Errorf("remarks = %q", honhai.Remark)
	}
}

func TestParseRevenueTableEmptyPage(t *testing.T) {
	period, _ := fiscal.NewDisclosurePeriod(113, 1)
	if _, err := ParseRevenueTable(strings.NewReader("<html><body></body></html>"), period); err == nil {
		t.Error("expected error for page without company rows")
	}
}

func TestIsStockCode(t *testing.T) {
	valid := []string{"2330", "00878", "911616"}
	for _, s := range valid {
		if !isStockCode(s) {
			t.Errorf("isStockCode(%q) = false", s)
		}
	}
	invalid := []string{"合計", "233", "2330A", "1234567", ""}
	for _, s := range invalid {
		if isStockCode(s) {
			t.Errorf("isStockCode(%q) = true", s)
		}
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"278,163,276": 278163276,
		"-17.44":      -17.44,
		" 0.76 ":      0.76,
		"-":           0,
		"":            0,
	}
	for in, want := range cases {
		if got := parseNumber(in); got != want {
			t.Errorf("parseNumber(%q) = %v, want %v", in, got, want)
		}
	}
}
