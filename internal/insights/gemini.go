package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/AdamSweetapple/garmin-to-notion/internal/config"
	"github.com/AdamSweetapple/garmin-to-notion/internal/sync"
)

// Generator produces a short daily digest from a day's numbers.
type Generator interface {
	DailyDigest(ctx context.Context, snap sync.Snapshot) (string, error)
	Close() error
}

// geminiGenerator is a digest generator backed by the Google Gemini API.
type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGenerator creates a new Gemini-backed digest generator.
func NewGeminiGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-pro")
	return &geminiGenerator{client: client, model: model}, nil
}

// DailyDigest asks the model for a one-sentence comment on the day.
func (g *geminiGenerator) DailyDigest(ctx context.Context, snap sync.Snapshot) (string, error) {
	prompt := fmt.Sprintf(
		"In one short sentence, comment on this day's nutrition for %s: "+
			"%d kcal eaten, %d kcal burned through exercise (%d net), "+
			"%dg protein, %dg carbs, %dg fat, %dml water. "+
			"Be factual and encouraging. No emojis.",
		snap.Date, snap.CaloriesIn, snap.CaloriesOut, snap.NetCalories,
		snap.ProteinG, snap.CarbsG, snap.FatsG, snap.WaterML,
	)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate digest: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("generated content is not text")
	}

	return strings.TrimSpace(string(text)), nil
}

// Close closes the underlying Gemini client.
func (g *geminiGenerator) Close() error {
	return g.client.Close()
}
