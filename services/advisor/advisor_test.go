package advisor

import (
	"context"
	"errors"
	"testing"

	"farmhith/models/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func f64(v float64) *float64 { return &v }

func completedReport() *report.SoilReport {
	return &report.SoilReport{
		TrackingID:    "FH12345678",
		Status:        report.StatusCompleted,
		PHLevel:       f64(6.5),
		Nitrogen:      f64(210),
		Phosphorus:    f64(18),
		Potassium:     f64(160),
		OrganicCarbon: f64(0.45),
	}
}

func TestGeminiAdvisor_ParsesFencedJSON(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n{\"recommendations\": \"Apply 50 kg DAP per acre.\"}\n```"}
	a := &GeminiAdvisor{models: gen, model: "test-model"}

	got, err := a.DraftRecommendations(context.Background(), completedReport(), "Wheat")
	require.NoError(t, err)
	assert.Equal(t, "Apply 50 kg DAP per acre.", got)
	assert.Contains(t, gen.prompt, "pH: 6.50")
	assert.Contains(t, gen.prompt, "Crop: Wheat")
}

func TestGeminiAdvisor_RequiresResults(t *testing.T) {
	a := &GeminiAdvisor{models: &fakeGenerator{}, model: "test-model"}

	_, err := a.DraftRecommendations(context.Background(), &report.SoilReport{TrackingID: "FH1"}, "")
	assert.Error(t, err)
}

func TestGeminiAdvisor_PropagatesModelError(t *testing.T) {
	a := &GeminiAdvisor{models: &fakeGenerator{err: errors.New("quota exceeded")}, model: "test-model"}

	_, err := a.DraftRecommendations(context.Background(), completedReport(), "")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestNewGeminiAdvisor_DisabledWithoutKey(t *testing.T) {
	a, err := NewGeminiAdvisor(context.Background(), "", "model")
	require.NoError(t, err)

	_, err = a.DraftRecommendations(context.Background(), completedReport(), "")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestExtractJSONFromMarkdown(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONFromMarkdown(`  {"a":1}  `))
}
