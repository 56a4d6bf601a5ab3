// Package probability serves the burst-frequency study: how often revenue
// growth landed in a band, and what the stock did that year.
package probability

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stockrevenuelab/pkg/core/fiscal"
	"stockrevenuelab/pkg/core/store"
)

// Handler provides HTTP handlers for the burst probability study.
type Handler struct {
	repo *store.RevenueRepo
}

// NewHandler creates a probability handler.
func NewHandler(repo *store.RevenueRepo) *Handler {
	return &Handler{repo: repo}
}

// Request selects the year and the growth band. High defaults to an
// effectively open upper bound.
type Request struct {
	Year   int     `json:"year"`
	Metric string  `json:"metric,omitempty"` // "yoy" (default) or "mom"
	Low    float64 `json:"low"`
	High   float64 `json:"high,omitempty"`
	Hits   int     `json:"hits,omitempty"` // members endpoint only
}

// Response is the bucket table plus the context it was computed under.
type Response struct {
	Year    int                 `json:"year"`
	ROCYear int                 `json:"roc_year"`
	Metric  string              `json:"metric"`
	Low     float64             `json:"low"`
	High    float64             `json:"high"`
	Buckets []store.BurstBucket `json:"buckets"`
}

const openUpperBound = 1e9

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*Request, fiscal.AnalysisYear, store.GrowthMetric, bool) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return nil, 0, "", false
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, 0, "", false
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, 0, "", false
	}
	if req.High == 0 {
		req.High = openUpperBound
	}
	if req.High <= req.Low {
		http.Error(w, "high must be greater than low", http.StatusBadRequest)
		return nil, 0, "", false
	}

	year, err := fiscal.NewAnalysisYear(req.Year)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, 0, "", false
	}

	metric := store.MetricYoY
	if req.Metric != "" {
		metric, err = store.ParseGrowthMetric(req.Metric)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil, 0, "", false
		}
	}
	return &req, year, metric, true
}

// HandleProbability returns the hit-count buckets for one year and band.
func (h *Handler) HandleProbability(w http.ResponseWriter, r *http.Request) {
	req, year, metric, ok := h.decode(w, r)
	if !ok {
		return
	}

	fmt.Printf("[PROBABILITY] year=%d metric=%s band=[%.0f,%.0f)\n", req.Year, metric, req.Low, req.High)

	buckets, err := h.repo.FetchBurstProbability(r.Context(), year, metric, req.Low, req.High)
	if err != nil {
		fmt.Printf("[PROBABILITY] query error: %v\n", err)
		http.Error(w, "Failed to load burst probability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{
		Year:    req.Year,
		ROCYear: year.ROCYear(),
		Metric:  string(metric),
		Low:     req.Low,
		High:    req.High,
		Buckets: buckets,
	})
}

// HandleMembers lists the stocks behind one bucket row.
func (h *Handler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	req, year, metric, ok := h.decode(w, r)
	if !ok {
		return
	}
	if req.Hits <= 0 {
		http.Error(w, "hits must be positive", http.StatusBadRequest)
		return
	}

	members, err := h.repo.FetchBurstMembers(r.Context(), year, metric, req.Low, req.High, req.Hits)
	if err != nil {
		fmt.Printf("[PROBABILITY] members query error: %v\n", err)
		http.Error(w, "Failed to load bucket members", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(members)
}
