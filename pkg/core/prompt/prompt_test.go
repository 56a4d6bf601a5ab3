package prompt

import (
	"strings"
	"testing"
)

func TestRegisterAndRender(t *testing.T) {
	registry := Get()
	err := registry.Register(&Template{
		ID:             "test.render",
		SystemPrompt:   "system",
		UserPromptTmpl: "年度 {{.Year}}，樣本 {{.EventCount}} 件",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	ctx := NewContext().Set("Year", 2024).Set("EventCount", 42)
	out, err := registry.Render("test.render", ctx)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "年度 2024，樣本 42 件" {
		t.Errorf("rendered = %q", out)
	}
}

func TestRegisterRejectsEmptyID(t *testing.T) {
	if err := Get().Register(&Template{}); err == nil {
		t.Error("expected error for empty ID")
	}
}

func TestRenderUnknownID(t *testing.T) {
	if _, err := Get().Render("no.such.prompt", NewContext()); err == nil {
		t.Error("expected error for unknown prompt")
	}
}

func TestBuiltinsCoverStudyPrompts(t *testing.T) {
	RegisterBuiltins()
	registry := Get()

	for _, id := range []string{"analysis.timing", "analysis.insider", "assistant.verdict"} {
		tmpl, err := registry.GetPrompt(id)
		if err != nil {
			t.Errorf("builtin %s missing: %v", id, err)
			continue
		}
		if tmpl.SystemPrompt == "" {
			t.Errorf("builtin %s has empty system prompt", id)
		}
	}

	// The timing template must render with the variables the handler sets.
	ctx := NewContext().
		Set("Year", 2024).Set("ROCYear", 113).Set("Metric", "yoy").
		Set("Threshold", 100.0).Set("EventCount", 57).
		Set("WindowTable", "T-1月 平均 3.2% / 中位 1.1%\n").
		Set("RightTail", "2.4").Set("TopDecile", "8.1")
	out, err := registry.Render("analysis.timing", ctx)
	if err != nil {
		t.Fatalf("render analysis.timing: %v", err)
	}
	if !strings.Contains(out, "113") || !strings.Contains(out, "57") {
		t.Errorf("rendered prompt missing variables: %q", out)
	}
}

func TestIDFromPath(t *testing.T) {
	got := idFromPath("resources/prompts", "resources/prompts/analysis/timing.json")
	if got != "analysis.timing" {
		t.Errorf("idFromPath = %q", got)
	}
}
