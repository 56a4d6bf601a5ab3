// Package insider serves the pre-run vs follow-through study: does the price
// move in the revenue month itself, before the figure is public.
package insider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"stockrevenuelab/pkg/core/fiscal"
	"stockrevenuelab/pkg/core/prompt"
	"stockrevenuelab/pkg/core/store"
)

// Handler provides the HTTP handler for the insider study.
type Handler struct {
	repo *store.PriceRepo
}

// NewHandler creates an insider-study handler.
func NewHandler(repo *store.PriceRepo) *Handler {
	return &Handler{repo: repo}
}

// Request sets the year and the first-burst YoY threshold.
type Request struct {
	Year      int     `json:"year"`
	Threshold float64 `json:"threshold"`
}

// Response carries the aggregate behavior plus a ready-made analysis prompt
// and a link that opens a chat session pre-filled with it.
type Response struct {
	Year       int                 `json:"year"`
	ROCYear    int                 `json:"roc_year"`
	Threshold  float64             `json:"threshold"`
	Behavior   store.BurstBehavior `json:"behavior"`
	PromptText string              `json:"prompt_text"`
	ChatURL    string              `json:"chat_url"`
}

// HandleInsider runs the study for one year and threshold.
func (h *Handler) HandleInsider(w http.ResponseWriter, r *http.Request) {
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

	fmt.Printf("[INSIDER] year=%d threshold=%.0f\n", req.Year, req.Threshold)

	behavior, err := h.repo.FetchFirstBurstBehavior(r.Context(), year, req.Threshold)
	if err != nil {
		fmt.Printf("[INSIDER] query error: %v\n", err)
		http.Error(w, "Failed to load burst behavior", http.StatusInternalServerError)
		return
	}

	promptText := h.buildPrompt(req, year, behavior)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{
		Year:       req.Year,
		ROCYear:    year.ROCYear(),
		Threshold:  req.Threshold,
		Behavior:   *behavior,
		PromptText: promptText,
		ChatURL:    "https://chatgpt.com/?q=" + url.QueryEscape(promptText),
	})
}

func (h *Handler) buildPrompt(req Request, year fiscal.AnalysisYear, b *store.BurstBehavior) string {
	disclosure := fmt.Sprintf("平均漲幅 %.1f%% / 預跑率(漲幅>5%%) %.1f%%", b.AvgPreRun, b.PreRunRate)
	follow := fmt.Sprintf("平均漲幅 %.1f%% / 追價率(漲幅>5%%) %.1f%% / 利多出盡率(跌幅>5%%) %.1f%%",
		b.AvgPostRun, b.ChaseRate, b.SellNewsRate)

	ctx := prompt.NewContext().
		Set("Year", req.Year).
		Set("ROCYear", year.ROCYear()).
		Set("Threshold", req.Threshold).
		Set("EventCount", b.Events).
		Set("DisclosureTable", disclosure).
		Set("FollowTable", follow)

	text, err := prompt.Get().Render("analysis.insider", ctx)
	if err != nil {
		fmt.Printf("[INSIDER] prompt render error: %v\n", err)
		return fmt.Sprintf(
			"我正在分析台股營收爆發後的股價行為。當門檻設為 %.0f%% 時：\n"+
				"- 總樣本：%d 件\n- 公告當月：%s\n- 公告次月：%s\n"+
				"請分析市場對營收消息的反應是『領先反應』還是『落後補漲』？",
			req.Threshold, b.Events, disclosure, follow)
	}
	return text
}
