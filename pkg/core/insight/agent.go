// Package insight produces short AI-written memos over completed studies.
// Unlike the assistant flow, which routes through the provider manager, the
// memo writer talks to Gemini directly so it can pin a known-good model.
package insight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// StudyMemo is one generated commentary over a study result.
type StudyMemo struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// StudyAgent writes memos summarizing study statistics.
type StudyAgent struct {
	client       *genai.Client
	modelName    string
	systemPrompt string
}

const memoSystemPrompt = "You are a quantitative analyst covering the Taiwan stock market. " +
	"You receive pre-computed statistics from an event study around monthly revenue " +
	"announcements. Write a short Markdown memo in Traditional Chinese. Only cite " +
	"numbers present in the input."

// NewStudyAgent builds a memo writer against the Gemini API.
func NewStudyAgent(ctx context.Context) (*StudyAgent, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &StudyAgent{
		client:       client,
		modelName:    "gemini-2.0-flash-exp",
		systemPrompt: memoSystemPrompt,
	}, nil
}

// Close releases the underlying API client.
func (a *StudyAgent) Close() error {
	return a.client.Close()
}

// Summarize turns a rendered study prompt into a memo.
func (a *StudyAgent) Summarize(ctx context.Context, title string, studyPrompt string) (StudyMemo, error) {
	model := a.client.GenerativeModel(a.modelName)
	model.SetTemperature(0.4)

	fullPrompt := fmt.Sprintf("%s\n\nTask: %s", a.systemPrompt, studyPrompt)

	resp, err := model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return StudyMemo{}, fmt.Errorf("memo generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return StudyMemo{}, fmt.Errorf("memo generation returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return StudyMemo{
		Title:     title,
		Content:   sb.String(),
		Model:     a.modelName,
		Timestamp: time.Now(),
	}, nil
}
