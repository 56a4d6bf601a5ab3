package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"stockrevenuelab/pkg/api/assistant"
	"stockrevenuelab/pkg/api/config"
	"stockrevenuelab/pkg/api/heatmap"
	"stockrevenuelab/pkg/api/insider"
	"stockrevenuelab/pkg/api/insight"
	"stockrevenuelab/pkg/api/probability"
	"stockrevenuelab/pkg/api/timing"
	"stockrevenuelab/pkg/core/agent"
	"stockrevenuelab/pkg/core/prompt"
	"stockrevenuelab/pkg/core/store"
)

// DashboardConfig is the shape of config/dashboard.yaml.
type DashboardConfig struct {
	Port            int `yaml:"port"`
	CacheTTLMinutes int `yaml:"cache_ttl_minutes"`
}

func main() {
	// Load environment variables
	godotenv.Load()

	// Built-ins first so every prompt ID resolves, then let files on disk
	// override them.
	prompt.RegisterBuiltins()
	resourcesPath := "resources/prompts"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources", "prompts")
	}
	if n, err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to built-in prompts")
	} else {
		fmt.Printf("[PROMPT] Loaded %d prompts from %s (%d total)\n", n, resourcesPath, prompt.Get().Count())
	}

	// Provider routing from config
	var agentCfg agent.Config
	if data, err := os.ReadFile("config/models.yaml"); err == nil {
		yaml.Unmarshal(data, &agentCfg)
	}
	if agentCfg.ActiveProvider == "" {
		agentCfg.ActiveProvider = "gemini"
	}
	agentMgr := agent.NewManager(agentCfg)

	// Dashboard settings
	dashCfg := DashboardConfig{Port: 8080, CacheTTLMinutes: 60}
	if data, err := os.ReadFile("config/dashboard.yaml"); err == nil {
		yaml.Unmarshal(data, &dashCfg)
	}

	// Database
	if err := store.InitDB(context.Background()); err != nil {
		fmt.Printf("[FATAL] Database initialization failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	cache := store.NewQueryCache(time.Duration(dashCfg.CacheTTLMinutes) * time.Minute)
	revenueRepo := store.NewRevenueRepo(store.GetPool(), cache)
	priceRepo := store.NewPriceRepo(store.GetPool(), cache)

	// Config endpoints
	configHandler := config.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Heatmap endpoints
	heatmapHandler := heatmap.NewHandler(revenueRepo)
	http.HandleFunc("/api/heatmap", heatmapHandler.HandleHeatmap)
	http.HandleFunc("/api/heatmap/leaders", heatmapHandler.HandleLeaders)
	http.HandleFunc("/api/heatmap/export", heatmapHandler.HandleExport)

	// Burst probability endpoints
	probabilityHandler := probability.NewHandler(revenueRepo)
	http.HandleFunc("/api/probability", probabilityHandler.HandleProbability)
	http.HandleFunc("/api/probability/members", probabilityHandler.HandleMembers)

	// Announcement timing study
	timingHandler := timing.NewHandler(priceRepo)
	http.HandleFunc("/api/timing", timingHandler.HandleTiming)

	// Insider pre-run study
	insiderHandler := insider.NewHandler(priceRepo)
	http.HandleFunc("/api/insider", insiderHandler.HandleInsider)

	// AI analysis
	assistantHandler := assistant.NewHandler(agentMgr)
	http.HandleFunc("/api/assistant/analyze", assistantHandler.HandleAnalyze)

	// AI memos with history
	insightHandler := insight.NewHandler(store.NewMemoRepo(store.GetPool()))
	http.HandleFunc("/api/insight/memo", insightHandler.HandleMemo)
	http.HandleFunc("/api/insight/history", insightHandler.HandleHistory)

	addr := fmt.Sprintf(":%d", dashCfg.Port)
	fmt.Printf("API server starting on %s...\n", addr)
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - POST /api/heatmap")
	fmt.Println("  - POST /api/heatmap/leaders")
	fmt.Println("  - GET  /api/heatmap/export")
	fmt.Println("  - POST /api/probability")
	fmt.Println("  - POST /api/probability/members")
	fmt.Println("  - POST /api/timing")
	fmt.Println("  - POST /api/insider")
	fmt.Println("  - POST /api/assistant/analyze")
	fmt.Println("  - POST /api/insight/memo")
	fmt.Println("  - GET  /api/insight/history")

	if err := http.ListenAndServe(addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
