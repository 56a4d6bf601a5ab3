package utils

import (
	"strings"
	"testing"
)

func TestCleanMarkdownStripsFence(t *testing.T) {
	input := "```markdown\n## 分析\n\n行情集中在公告前。\n```"
	got := CleanMarkdown(input)
	if strings.Contains(got, "```") {
		t.Errorf("fence not stripped: %q", got)
	}
	if !strings.HasPrefix(got, "## 分析") {
		t.Errorf("content damaged: %q", got)
	}
}

func TestCleanMarkdownLeavesPlainText(t *testing.T) {
	input := "## 分析\n\n內文含 ```code``` 片段。"
	if got := CleanMarkdown(input); got != input {
		t.Errorf("plain markdown modified: %q", got)
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("## heading\n\nsome text") {
		t.Error("valid markdown rejected")
	}
	if ValidateMarkdown("   ") {
		t.Error("blank input accepted")
	}
}

func TestSmartParseStrictJSON(t *testing.T) {
	var out struct {
		Verdict string `json:"verdict"`
	}
	if _, err := SmartParse(`{"verdict": "pre_announcement"}`, &out); err != nil {
		t.Fatalf("strict parse failed: %v", err)
	}
	if out.Verdict != "pre_announcement" {
		t.Errorf("verdict = %q", out.Verdict)
	}
}

func TestSmartParseRepairsSingleQuotes(t *testing.T) {
	var out struct {
		Verdict    string  `json:"verdict"`
		Confidence float64 `json:"confidence"`
	}
	input := "{'verdict': 'post_announcement', 'confidence': 0.7,}"
	if _, err := SmartParse(input, &out); err != nil {
		t.Fatalf("repair parse failed: %v", err)
	}
	if out.Verdict != "post_announcement" || out.Confidence != 0.7 {
		t.Errorf("got %+v", out)
	}
}

func TestSmartParseHjsonComments(t *testing.T) {
	var out struct {
		Verdict string `json:"verdict"`
	}
	input := "{\n  # model note\n  verdict: inconclusive\n}"
	if _, err := SmartParse(input, &out); err != nil {
		t.Fatalf("hjson parse failed: %v", err)
	}
	if out.Verdict != "inconclusive" {
		t.Errorf("verdict = %q", out.Verdict)
	}
}

func TestSmartParseGarbageFails(t *testing.T) {
	var out struct{}
	if _, err := SmartParse("not even close [[[", &out); err == nil {
		t.Error("expected failure on garbage input")
	}
}
