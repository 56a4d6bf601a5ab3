package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements the Provider interface for Google's Gemini models.
type GeminiProvider struct {
	Model string // e.g. "gemini-2.0-flash-exp"
}

// Ensure interface compliance
var _ Provider = (*GeminiProvider)(nil)

// GenerateResponse sends a generateContent request to the Gemini API.
func (p *GeminiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	model := p.Model
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	// Market commentary reads better with a little temperature; structured
	// verdicts get JSON mode below.
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.3)),
	}

	if val, ok := options["response_format"].(map[string]interface{}); ok {
		if val["type"] == "json_object" {
			config.ResponseMIMEType = "application/json"
		}
	} else if strings.Contains(strings.ToLower(systemPrompt), "json") {
		config.ResponseMIMEType = "application/json"
	}

	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		}
	}

	// Grounding lets the model pull in the news behind a revenue remark.
	if val, ok := options["google_search"].(bool); ok && val {
		config.Tools = []*genai.Tool{
			{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}},
		}
	}

	result, err := client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := result.Text()

	// Append grounding citations when search was used.
	if len(result.Candidates) > 0 {
		cand := result.Candidates[0]
		if cand.GroundingMetadata != nil && len(cand.GroundingMetadata.GroundingChunks) > 0 {
			var citations []string
			for _, chunk := range cand.GroundingMetadata.GroundingChunks {
				if chunk.Web != nil {
					citations = append(citations, fmt.Sprintf("[%s](%s)", chunk.Web.Title, chunk.Web.URI))
				}
			}
			if len(citations) > 0 {
				text = fmt.Sprintf("%s\n\n**Sources:**\n%s", text, strings.Join(citations, "\n"))
			}
		}
	}

	return text, nil
}

func (p *GeminiProvider) AdaptInstructions(raw string) string {
	return raw
}
