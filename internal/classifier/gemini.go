// Package classifier labels notification text with a spending category using
// Gemini. The model is constrained to a fixed label set; anything outside it is
// treated as a classification failure rather than silently coerced.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Labels is the closed output vocabulary. The merchant dictionary is free to
// use labels outside this set; the model is not.
var Labels = []string{
	"Bills",
	"Credit",
	"Entertainment",
	"Food",
	"Miscellaneous",
	"Online Shopping",
	"Stationery",
	"Transfer",
	"Travel",
}

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

// Gemini classifies transaction text via the GenAI API. Credentials come from
// the environment (GEMINI_API_KEY / GOOGLE_API_KEY), same as the rest of the
// Google clients in this repo.
type Gemini struct {
	model  string
	byNorm map[string]string // normalized label -> canonical label
}

// NewGemini creates a classifier for the given model name; empty means
// DefaultModelName.
func NewGemini(model string) *Gemini {
	if model == "" {
		model = DefaultModelName
	}
	byNorm := make(map[string]string, len(Labels))
	for _, l := range Labels {
		byNorm[normalizeLabel(l)] = l
	}
	return &Gemini{model: model, byNorm: byNorm}
}

// Classify sends the text to the model and returns exactly one label from
// Labels. The response is normalized before validation so minor formatting
// noise (case, quotes, a trailing period) does not fail the record.
func (g *Gemini) Classify(ctx context.Context, text string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("classify: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildPrompt(text)},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("classify: generate content: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return "", fmt.Errorf("classify: empty response from model")
	}

	label, ok := g.byNorm[normalizeLabel(raw)]
	if !ok {
		return "", fmt.Errorf("classify: model returned %q, not in the label set", raw)
	}
	return label, nil
}

func buildPrompt(text string) string {
	return "You are an expense classifier for bank and payment notification text.\n\n" +
		"Task:\n" +
		"- Read the notification text below.\n" +
		"- Answer with EXACTLY ONE of these labels and nothing else:\n" +
		"  " + strings.Join(Labels, ", ") + "\n\n" +
		"Rules:\n" +
		"- Output only the label. No punctuation, no quotes, no explanation.\n" +
		"- If the signal is weak, still pick the single most likely label.\n\n" +
		"Text:\n" + text + "\n"
}

func normalizeLabel(s string) string {
	return strings.ToUpper(strings.Trim(strings.TrimSpace(s), "\"'`."))
}
