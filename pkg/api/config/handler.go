// Package config exposes runtime provider configuration.
package config

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stockrevenuelab/pkg/core/agent"
)

// Response describes the current provider setup.
type Response struct {
	ActiveProvider string   `json:"active_provider"`
	Available      []string `json:"available"`
}

// SwitchRequest selects a new global provider.
type SwitchRequest struct {
	Provider string `json:"provider"`
}

// Handler holds dependencies for config endpoints.
type Handler struct {
	agentMgr *agent.Manager
}

// NewHandler creates a config handler.
func NewHandler(mgr *agent.Manager) *Handler {
	return &Handler{agentMgr: mgr}
}

// HandleConfig reports the active and available providers.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{
		ActiveProvider: h.agentMgr.GetActiveProvider(),
		Available:      h.agentMgr.Available(),
	})
}

// HandleSwitch changes the global provider at runtime.
func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
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

	var req SwitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.agentMgr.SetGlobalProvider(req.Provider); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fmt.Fprintf(w, "Success: Switched to %s", req.Provider)
}
