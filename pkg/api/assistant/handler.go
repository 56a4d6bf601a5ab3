// Package assistant runs study summaries through the configured LLM provider
// and returns either a Markdown memo or a structured verdict.
package assistant

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stockrevenuelab/pkg/core/agent"
	"stockrevenuelab/pkg/core/prompt"
	"stockrevenuelab/pkg/core/utils"
)

// Handler provides HTTP handlers for AI analysis.
type Handler struct {
	agentMgr *agent.Manager
}

// NewHandler creates an assistant handler.
func NewHandler(mgr *agent.Manager) *Handler {
	return &Handler{agentMgr: mgr}
}

// AnalyzeRequest carries a study summary (typically the prompt_text returned
// by the timing or insider endpoints) and the desired output mode.
type AnalyzeRequest struct {
	Summary string `json:"summary"`
	Mode    string `json:"mode,omitempty"` // "memo" (default) or "verdict"
}

// Verdict is the structured reading of a study.
type Verdict struct {
	Verdict    string  `json:"verdict"` // pre_announcement | post_announcement | inconclusive
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// AnalyzeResponse holds whichever output mode produced.
type AnalyzeResponse struct {
	Mode    string   `json:"mode"`
	Memo    string   `json:"memo,omitempty"`
	Verdict *Verdict `json:"verdict,omitempty"`
}

// HandleAnalyze runs the summary through the active provider.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
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

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Summary == "" {
		http.Error(w, "summary is required", http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = "memo"
	}

	switch req.Mode {
	case "memo":
		h.handleMemo(w, r, req)
	case "verdict":
		h.handleVerdict(w, r, req)
	default:
		http.Error(w, "mode must be memo or verdict", http.StatusBadRequest)
	}
}

func (h *Handler) handleMemo(w http.ResponseWriter, r *http.Request, req AnalyzeRequest) {
	systemPrompt, err := prompt.Get().SystemPrompt("analysis.timing")
	if err != nil {
		systemPrompt = "You are a quantitative analyst. Answer in Traditional Chinese Markdown."
	}

	fmt.Printf("[ASSISTANT] memo request (%d chars)\n", len(req.Summary))

	raw, err := h.agentMgr.ExecutePrompt(r.Context(), "assistant", req.Summary, systemPrompt, nil)
	if err != nil {
		fmt.Printf("[ASSISTANT] provider error: %v\n", err)
		http.Error(w, "AI provider failed", http.StatusBadGateway)
		return
	}

	memo := utils.CleanMarkdown(raw)
	if !utils.ValidateMarkdown(memo) {
		http.Error(w, "AI returned unusable output", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AnalyzeResponse{Mode: "memo", Memo: memo})
}

func (h *Handler) handleVerdict(w http.ResponseWriter, r *http.Request, req AnalyzeRequest) {
	registry := prompt.Get()
	systemPrompt, err := registry.SystemPrompt("assistant.verdict")
	if err != nil {
		http.Error(w, "verdict prompt not configured", http.StatusInternalServerError)
		return
	}

	userPrompt, err := registry.Render("assistant.verdict", prompt.NewContext().Set("Summary", req.Summary))
	if err != nil {
		http.Error(w, "verdict prompt render failed", http.StatusInternalServerError)
		return
	}

	fmt.Printf("[ASSISTANT] verdict request (%d chars)\n", len(req.Summary))

	options := map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	}
	raw, err := h.agentMgr.ExecutePrompt(r.Context(), "verdict", userPrompt, systemPrompt, options)
	if err != nil {
		fmt.Printf("[ASSISTANT] provider error: %v\n", err)
		http.Error(w, "AI provider failed", http.StatusBadGateway)
		return
	}

	// Providers wander off strict JSON often enough that we parse leniently.
	var verdict Verdict
	if _, err := utils.SmartParse(raw, &verdict); err != nil {
		fmt.Printf("[ASSISTANT] unparseable verdict: %v\n", err)
		http.Error(w, "AI returned unparseable verdict", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AnalyzeResponse{Mode: "verdict", Verdict: &verdict})
}
