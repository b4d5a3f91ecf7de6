package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aireadiness/internal/config"
	"aireadiness/internal/scoring"
)

// RecommenderService generates free-text readiness recommendations from
// category scores via the Gemini API. Without an API key it falls back
// to a deterministic mock so local development works end to end. API
// failures are returned to the caller, which must treat them as
// recoverable: the attempt stays completed with recommendations pending.
type RecommenderService struct {
	config *config.AIConfig
	client *http.Client
}

// NewRecommenderService creates a new recommender service
func NewRecommenderService() *RecommenderService {
	cfg := config.DefaultAIConfig()
	return &RecommenderService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Generate produces recommendation text for one completed assessment
func (s *RecommenderService) Generate(ctx context.Context, categories []scoring.CategoryScore, industry string) (string, error) {
	if !s.config.IsEnabled() {
		return s.mockRecommendations(categories), nil
	}

	prompt := s.buildPrompt(categories, industry)
	response, err := s.callGemini(ctx, prompt)
	if err != nil {
		return "", err
	}

	var result struct {
		Recommendations string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return "", fmt.Errorf("unexpected recommender response: %w", err)
	}
	if result.Recommendations == "" {
		return "", fmt.Errorf("empty recommendations from model")
	}

	return result.Recommendations, nil
}

// callGemini makes a request to the Gemini API
func (s *RecommenderService) callGemini(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

func (s *RecommenderService) buildPrompt(categories []scoring.CategoryScore, industry string) string {
	var sb strings.Builder
	for _, c := range categories {
		sb.WriteString(fmt.Sprintf("- %s: %.1f/10\n", c.Category, c.NormalizedScore))
	}

	industryLine := ""
	if industry != "" {
		industryLine = "Industry: " + industry + "\n"
	}

	return fmt.Sprintf(`You are an AI adoption consultant. An organization completed an AI
readiness assessment. Return ONLY valid JSON:
{
  "recommendations": "3-5 short paragraphs of concrete, prioritized advice"
}

%sCategory scores (0 = not ready, 10 = fully ready):
%s
Focus on the weakest categories first. Be specific and actionable; avoid
generic praise. Address the organization directly.`, industryLine, sb.String())
}

// mockRecommendations builds placeholder advice from the weakest categories
func (s *RecommenderService) mockRecommendations(categories []scoring.CategoryScore) string {
	weakest := ""
	lowest := 11.0
	for _, c := range categories {
		if c.NormalizedScore < lowest {
			lowest = c.NormalizedScore
			weakest = c.Category
		}
	}

	var sb strings.Builder
	sb.WriteString("Mock recommendations - configure GEMINI_API_KEY for real insights.\n\n")
	if weakest != "" {
		sb.WriteString(fmt.Sprintf("Your weakest area is %q (%.1f/10). Start improvement efforts there.\n", weakest, lowest))
	}
	for _, c := range categories {
		sb.WriteString(fmt.Sprintf("- %s scored %.1f/10.\n", c.Category, c.NormalizedScore))
	}
	return sb.String()
}
