// Package advisor drafts farmer-facing fertilizer recommendations from soil test results.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"farmhith/constants"
	"farmhith/models/report"

	"google.golang.org/genai"
)

// ErrDisabled is returned when no Gemini API key is configured.
var ErrDisabled = errors.New("recommendation drafting is not configured")

// Advisor writes a recommendations paragraph for a report with results.
type Advisor interface {
	DraftRecommendations(ctx context.Context, r *report.SoilReport, cropType string) (string, error)
}

// Disabled is the Advisor used when GEMINI_API_KEY is unset.
type Disabled struct{}

func (Disabled) DraftRecommendations(context.Context, *report.SoilReport, string) (string, error) {
	return "", ErrDisabled
}

// generator is the part of the genai client used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiAdvisor struct {
	models generator
	model  string
}

// NewGeminiAdvisor returns Disabled when apiKey is empty.
func NewGeminiAdvisor(ctx context.Context, apiKey, model string) (Advisor, error) {
	if apiKey == "" {
		return Disabled{}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiAdvisor{models: client.Models, model: model}, nil
}

type draft struct {
	Recommendations string `json:"recommendations"`
}

func (a *GeminiAdvisor) DraftRecommendations(ctx context.Context, r *report.SoilReport, cropType string) (string, error) {
	if !r.HasResults() {
		return "", fmt.Errorf("report %s has no results yet", r.TrackingID)
	}

	content := &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: buildPrompt(r, cropType)}},
	}

	result, err := a.models.GenerateContent(
		ctx,
		a.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.3)),
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate recommendations: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return "", fmt.Errorf("empty response from model")
	}

	var d draft
	if err := json.Unmarshal([]byte(extractJSONFromMarkdown(responseText)), &d); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w", err)
	}
	d.Recommendations = strings.TrimSpace(d.Recommendations)
	if d.Recommendations == "" {
		return "", fmt.Errorf("model returned no recommendations")
	}
	return d.Recommendations, nil
}

func buildPrompt(r *report.SoilReport, cropType string) string {
	if cropType == "" {
		cropType = "not specified"
	}
	return fmt.Sprintf(`You are an agronomist advising a smallholder farmer in India. Using the soil test
results below, write short, practical fertilizer and soil-correction recommendations in simple
English (at most 120 words). Mention quantities per acre where you can. Return ONLY valid JSON.

Soil results:
- pH: %.2f
- Nitrogen (kg/ha): %.2f
- Phosphorus (kg/ha): %.2f
- Potassium (kg/ha): %.2f
- Organic carbon (%%): %.2f
Crop: %s
Known crops in the region: %s

Required JSON format:
{"recommendations": string}`,
		*r.PHLevel, *r.Nitrogen, *r.Phosphorus, *r.Potassium, *r.OrganicCarbon,
		cropType, strings.Join(constants.CropTypes, ", "))
}

// extractJSONFromMarkdown strips a ```json ... ``` or ``` ... ``` fence if present.
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}
