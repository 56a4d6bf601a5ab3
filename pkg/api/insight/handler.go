// Package insight generates AI memos over study results and keeps a history
// of them.
package insight

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	coreinsight "stockrevenuelab/pkg/core/insight"
	"stockrevenuelab/pkg/core/store"
	"stockrevenuelab/pkg/core/utils"
)

// Handler provides memo generation and history endpoints.
type Handler struct {
	memos *store.MemoRepo
}

// NewHandler creates an insight handler. memos may be nil to disable history.
func NewHandler(memos *store.MemoRepo) *Handler {
	return &Handler{memos: memos}
}

// MemoRequest carries the study identity and the rendered study prompt
// (the prompt_text from the timing or insider endpoints).
type MemoRequest struct {
	Study  string          `json:"study"` // "timing" or "insider"
	Year   int             `json:"year"`
	Params json.RawMessage `json:"params,omitempty"`
	Prompt string          `json:"prompt"`
}

// MemoResponse is the generated memo plus its history ID when persisted.
type MemoResponse struct {
	ID   int64                 `json:"id,omitempty"`
	Memo coreinsight.StudyMemo `json:"memo"`
}

// HandleMemo generates a memo for a completed study and stores it.
func (h *Handler) HandleMemo(w http.ResponseWriter, r *http.Request) {
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

	var req MemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Study != "timing" && req.Study != "insider" {
		http.Error(w, "study must be timing or insider", http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	agent, err := coreinsight.NewStudyAgent(r.Context())
	if err != nil {
		fmt.Printf("[INSIGHT] agent init failed: %v\n", err)
		http.Error(w, "AI memo writer unavailable", http.StatusServiceUnavailable)
		return
	}
	defer agent.Close()

	title := fmt.Sprintf("%s study %d", req.Study, req.Year)
	memo, err := agent.Summarize(r.Context(), title, req.Prompt)
	if err != nil {
		fmt.Printf("[INSIGHT] generation failed: %v\n", err)
		http.Error(w, "Memo generation failed", http.StatusBadGateway)
		return
	}
	memo.Content = utils.CleanMarkdown(memo.Content)

	resp := MemoResponse{Memo: memo}
	if h.memos != nil {
		rec := &store.StudyRecord{
			Study:  req.Study,
			Year:   req.Year,
			Params: req.Params,
			Memo:   memo.Content,
			Model:  memo.Model,
		}
		if id, err := h.memos.Save(r.Context(), rec); err != nil {
			// History is best-effort; the memo itself still goes back.
			fmt.Printf("[INSIGHT] memo persist failed: %v\n", err)
		} else {
			resp.ID = id
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHistory lists recent memos for a study. GET with query params
// study, limit.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.memos == nil {
		http.Error(w, "Memo history not configured", http.StatusServiceUnavailable)
		return
	}

	study := r.URL.Query().Get("study")
	if study == "" {
		http.Error(w, "study is required", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.memos.Recent(r.Context(), study, limit)
	if err != nil {
		fmt.Printf("[INSIGHT] history query failed: %v\n", err)
		http.Error(w, "Failed to load memo history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
