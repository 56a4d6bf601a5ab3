// Package heatmap serves the annual return-bin vs report-month matrix.
package heatmap

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"stockrevenuelab/pkg/core/fiscal"
	"stockrevenuelab/pkg/core/store"
)

// Handler provides HTTP handlers for the heatmap view.
type Handler struct {
	repo *store.RevenueRepo
}

// NewHandler creates a heatmap handler.
func NewHandler(repo *store.RevenueRepo) *Handler {
	return &Handler{repo: repo}
}

// Request selects the analysis year and how cells are computed.
type Request struct {
	Year      int    `json:"year"`
	Metric    string `json:"metric,omitempty"`    // "yoy" (default) or "mom"
	Aggregate string `json:"aggregate,omitempty"` // "median" (default) or "mean"
}

// Response is the full matrix plus the month axis the client should render.
type Response struct {
	Year         int                 `json:"year"`
	ROCYear      int                 `json:"roc_year"`
	Metric       string              `json:"metric"`
	Aggregate    string              `json:"aggregate"`
	ReportMonths []string            `json:"report_months"`
	Cells        []store.HeatmapCell `json:"cells"`
}

// LeadersRequest selects one return bin to drill into.
type LeadersRequest struct {
	Year    int    `json:"year"`
	Bin     string `json:"bin"`
	Keyword string `json:"keyword,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandleHeatmap returns the matrix for one analysis year.
func (h *Handler) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
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

	year, metric, agg, err := resolveParams(req.Year, req.Metric, req.Aggregate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fmt.Printf("[HEATMAP] year=%d metric=%s agg=%s\n", req.Year, metric, agg)

	cells, err := h.repo.FetchHeatmap(r.Context(), year, metric, agg)
	if err != nil {
		fmt.Printf("[HEATMAP] query error: %v\n", err)
		http.Error(w, "Failed to load heatmap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{
		Year:         req.Year,
		ROCYear:      year.ROCYear(),
		Metric:       string(metric),
		Aggregate:    string(agg),
		ReportMonths: fiscal.ReportMonthKeys(year),
		Cells:        cells,
	})
}

// HandleLeaders lists the top stocks inside one bin.
func (h *Handler) HandleLeaders(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LeadersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Bin == "" {
		http.Error(w, "bin is required", http.StatusBadRequest)
		return
	}

	year, err := fiscal.NewAnalysisYear(req.Year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	leaders, err := h.repo.FetchBinLeaders(r.Context(), year, req.Bin, req.Keyword, req.Limit)
	if err != nil {
		fmt.Printf("[HEATMAP] leaders query error: %v\n", err)
		http.Error(w, "Failed to load bin leaders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(leaders)
}

// HandleExport streams one bin's leaderboard as CSV. GET with query params
// year, bin, keyword, limit.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	yearNum, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		http.Error(w, "year must be an integer", http.StatusBadRequest)
		return
	}
	bin := q.Get("bin")
	if bin == "" {
		http.Error(w, "bin is required", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	year, err := fiscal.NewAnalysisYear(yearNum)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	leaders, err := h.repo.FetchBinLeaders(r.Context(), year, bin, q.Get("keyword"), limit)
	if err != nil {
		fmt.Printf("[HEATMAP] export query error: %v\n", err)
		http.Error(w, "Failed to load bin leaders", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("bin_leaders_%d_%s.csv", yearNum, uuid.New().String()[:8])
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	cw.Write([]string{"stock_id", "stock_name", "annual_return_pct", "avg_yoy_pct", "avg_mom_pct", "remark"})
	for _, l := range leaders {
		cw.Write([]string{
			l.StockID, l.StockName,
			strconv.FormatFloat(l.AnnualReturn, 'f', 1, 64),
			strconv.FormatFloat(l.AvgYoY, 'f', 1, 64),
			strconv.FormatFloat(l.AvgMoM, 'f', 1, 64),
			l.Remark,
		})
	}
	cw.Flush()
}

func resolveParams(yearNum int, metricStr, aggStr string) (fiscal.AnalysisYear, store.GrowthMetric, store.Aggregate, error) {
	year, err := fiscal.NewAnalysisYear(yearNum)
	if err != nil {
		return 0, "", "", err
	}

	metric := store.MetricYoY
	if metricStr != "" {
		metric, err = store.ParseGrowthMetric(metricStr)
		if err != nil {
			return 0, "", "", err
		}
	}

	agg := store.AggMedian
	if aggStr != "" {
		agg, err = store.ParseAggregate(aggStr)
		if err != nil {
			return 0, "", "", err
		}
	}
	return year, metric, agg, nil
}
