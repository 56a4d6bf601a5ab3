// Package timing serves the announcement behavior study: weekly returns in
// five windows around each first-burst disclosure date, with right-tail
// diagnostics and a ready-to-use analysis prompt.
package timing

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"stockrevenuelab/pkg/core/fiscal"
	"stockrevenuelab/pkg/core/prompt"
	"stockrevenuelab/pkg/core/stats"
	"stockrevenuelab/pkg/core/store"
)

// Handler provides the HTTP handler for the timing study.
type Handler struct {
	repo *store.PriceRepo
}

// NewHandler creates a timing handler.
func NewHandler(repo *store.PriceRepo) *Handler {
	return &Handler{repo: repo}
}

// Request defines the event: growth metric crossing a threshold for the
// first time within the year's disclosure window.
type Request struct {
	Year      int     `json:"year"`
	Metric    string  `json:"metric,omitempty"` // "yoy" (default) or "mom"
	Threshold float64 `json:"threshold"`        // percent, e.g. 100
	Keyword   string  `json:"keyword,omitempty"`
}

// WindowStat summarizes one study window across all events. Mean and Median
// are nil when no weekly bar fell inside the window for any event.
type WindowStat struct {
	Window       string   `json:"window"`
	Mean         *float64 `json:"mean"`
	Median       *float64 `json:"median"`
	PositiveRate *float64 `json:"positive_rate"`
	Samples      int      `json:"samples"`
}

// Response carries the full study output. The tail diagnostics are computed
// on the pre-announcement month, where informed positioning would show up.
type Response struct {
	Year       int                             `json:"year"`
	ROCYear    int                             `json:"roc_year"`
	Metric     string                          `json:"metric"`
	Threshold  float64                         `json:"threshold"`
	EventCount int                             `json:"event_count"`
	Windows    []WindowStat                    `json:"windows"`
	RightTail  *float64                        `json:"right_tail_concentration"`
	TopDecile  *float64                        `json:"top_decile_intensity"`
	Histograms map[string][]stats.HistogramBin `json:"histograms"`
	PromptText string                          `json:"prompt_text"`
}

const histogramBins = 25

var windowOrder = []string{"pre_month", "pre_week", "announce_week", "post_week", "post_month"}

var windowLabels = map[string]string{
	"pre_month":     "T-1月",
	"pre_week":      "T-1周",
	"announce_week": "T周",
	"post_week":     "T+1周",
	"post_month":    "T+1月",
}

// HandleTiming runs the study for one year, threshold and keyword filter.
func (h *Handler) HandleTiming(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Threshold <= 0 {
		http.Error(w, "threshold must be positive", http.StatusBadRequest)
		return
	}

	year, err := fiscal.NewAnalysisYear(req.Year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metric := store.MetricYoY
	if req.Metric != "" {
		metric, err = store.ParseGrowthMetric(req.Metric)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	fmt.Printf("[TIMING] year=%d metric=%s threshold=%.0f keyword=%q\n",
		req.Year, metric, req.Threshold, req.Keyword)

	events, err := h.repo.FetchAnnouncementWindows(r.Context(), year, metric, req.Threshold, req.Keyword)
	if err != nil {
		fmt.Printf("[TIMING] query error: %v\n", err)
		http.Error(w, "Failed to load announcement windows", http.StatusInternalServerError)
		return
	}

	series := collectSeries(events)

	resp := Response{
		Year:       req.Year,
		ROCYear:    year.ROCYear(),
		Metric:     string(metric),
		Threshold:  req.Threshold,
		EventCount: len(events),
		Histograms: make(map[string][]stats.HistogramBin, len(windowOrder)),
	}

	for _, name := range windowOrder {
		vals := series[name]
		resp.Windows = append(resp.Windows, WindowStat{
			Window:       name,
			Mean:         finitePtr(stats.Round1(stats.Mean(vals))),
			Median:       finitePtr(stats.Round1(stats.Median(vals))),
			PositiveRate: finitePtr(stats.Round1(stats.PositiveRate(vals, 0) * 100)),
			Samples:      countFinite(vals),
		})
		resp.Histograms[name] = stats.Histogram(vals, histogramBins)
	}

	resp.RightTail = finitePtr(stats.Round1(stats.RightTailConcentration(series["pre_month"])))
	resp.TopDecile = finitePtr(stats.Round1(stats.TopDecileIntensity(series["pre_month"])))
	resp.PromptText = buildPrompt(req, year, metric, resp)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// collectSeries transposes per-event window returns into per-window series.
func collectSeries(events []store.WindowEvent) map[string][]float64 {
	series := make(map[string][]float64, len(windowOrder))
	for _, e := range events {
		series["pre_month"] = append(series["pre_month"], e.PreMonth)
		series["pre_week"] = append(series["pre_week"], e.PreWeek)
		series["announce_week"] = append(series["announce_week"], e.AnnounceWeek)
		series["post_week"] = append(series["post_week"], e.PostWeek)
		series["post_month"] = append(series["post_month"], e.PostMonth)
	}
	return series
}

// buildPrompt renders the analysis prompt from the registry, falling back to
// a minimal summary if the template is missing or broken.
func buildPrompt(req Request, year fiscal.AnalysisYear, metric store.GrowthMetric, resp Response) string {
	var table strings.Builder
	for _, ws := range resp.Windows {
		table.WriteString(fmt.Sprintf("%s 平均 %s%% / 中位 %s%% / 正報酬率 %s%%\n",
			windowLabels[ws.Window], fmtPtr(ws.Mean), fmtPtr(ws.Median), fmtPtr(ws.PositiveRate)))
	}

	ctx := prompt.NewContext().
		Set("Year", req.Year).
		Set("ROCYear", year.ROCYear()).
		Set("Metric", string(metric)).
		Set("Threshold", req.Threshold).
		Set("EventCount", resp.EventCount).
		Set("WindowTable", table.String()).
		Set("RightTail", fmtPtr(resp.RightTail)).
		Set("TopDecile", fmtPtr(resp.TopDecile))

	text, err := prompt.Get().Render("analysis.timing", ctx)
	if err != nil {
		fmt.Printf("[TIMING] prompt render error: %v\n", err)
		return fmt.Sprintf("分析台股 %d 年營收爆發（樣本 %d）。\n%s右尾 RTC %s / TDIR %s",
			req.Year, resp.EventCount, table.String(), fmtPtr(resp.RightTail), fmtPtr(resp.TopDecile))
	}
	return text
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}

func countFinite(vals []float64) int {
	n := 0
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			n++
		}
	}
	return n
}
