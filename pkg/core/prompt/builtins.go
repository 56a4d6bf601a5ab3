package prompt

// RegisterBuiltins installs the fallback templates used when no prompt files
// are found on disk. These are intentionally terse versions of the JSON
// templates under resources/prompts.
func RegisterBuiltins() {
	registry := Get()

	registry.Register(&Template{
		ID:          "analysis.timing",
		Name:        "Announcement Timing Study",
		Category:    "analysis",
		Description: "Interprets return statistics around monthly revenue announcement dates",
		SystemPrompt: "You are a quantitative analyst specializing in the Taiwan stock market. " +
			"You receive return statistics for windows around monthly revenue announcement dates. " +
			"Monthly revenue must be disclosed by the 10th of the following month, so the anchor " +
			"date is the announcement deadline, not the revenue month itself. " +
			"Answer in Traditional Chinese, in concise Markdown, and never invent numbers " +
			"that are not in the data you were given.",
		UserPromptTmpl: "分析年度: {{.Year}} (民國 {{.ROCYear}} 年營收)\n" +
			"事件定義: {{.Metric}} 首次突破 {{.Threshold}}%\n" +
			"事件樣本數: {{.EventCount}}\n\n" +
			"各時間窗報酬統計 (週K為單位, %):\n{{.WindowTable}}\n\n" +
			"右尾診斷:\n" +
			"- 右尾集中度 (P95-中位數)/IQR: {{.RightTail}}\n" +
			"- 前十分位強度 (前10%均值/中位數): {{.TopDecile}}\n\n" +
			"請判斷: 1) 行情主要發生在公告前還是公告後 2) 報酬分布是否由少數極端樣本拉動 " +
			"3) 對等權買進持有策略的含意。",
		Version: "1.0",
	})

	registry.Register(&Template{
		ID:          "analysis.insider",
		Name:        "Pre-run Follow-through Study",
		Category:    "analysis",
		Description: "Interprets whether pre-announcement run-ups continue after disclosure",
		SystemPrompt: "You are a quantitative analyst specializing in the Taiwan stock market. " +
			"You receive monthly return statistics comparing the disclosure month and the month " +
			"after it, for stocks whose revenue growth first crossed a threshold. " +
			"Answer in Traditional Chinese, in concise Markdown, and never invent numbers " +
			"that are not in the data you were given.",
		UserPromptTmpl: "分析年度: {{.Year}} (民國 {{.ROCYear}} 年營收)\n" +
			"事件定義: 年增率首次突破 {{.Threshold}}%\n" +
			"事件樣本數: {{.EventCount}}\n\n" +
			"公告當月月報酬統計 (%):\n{{.DisclosureTable}}\n\n" +
			"公告次月月報酬統計 (%):\n{{.FollowTable}}\n\n" +
			"請判斷: 1) 公告當月的漲幅是否已提前反應 2) 次月是否仍有跟進動能 " +
			"3) 當月與次月正報酬率的落差說明了什麼。",
		Version: "1.0",
	})

	registry.Register(&Template{
		ID:          "assistant.verdict",
		Name:        "Assistant Structured Verdict",
		Category:    "assistant",
		Description: "Produces a structured JSON verdict from a free-form study summary",
		SystemPrompt: "You are a research assistant. Given a quantitative study summary, respond " +
			"with a JSON object only, with keys: \"verdict\" (one of \"pre_announcement\", " +
			"\"post_announcement\", \"inconclusive\"), \"confidence\" (0 to 1), and " +
			"\"rationale\" (one sentence, Traditional Chinese). No prose outside the JSON.",
		UserPromptTmpl: "研究摘要:\n{{.Summary}}",
		Version:        "1.0",
	})
}
