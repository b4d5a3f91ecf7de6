package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"aireadiness/internal/config"
	"aireadiness/internal/model"
	"aireadiness/internal/scoring"
)

// RenderClient wraps the external PDF render service. Rendering is
// best-effort: the lifecycle controller calls it once per completion
// event; transient upstream errors are retried here with backoff, but a
// final failure is reported and never re-opens the completion.
type RenderClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// NewRenderClient creates a new render service client
func NewRenderClient() *RenderClient {
	cfg := config.DefaultRendererConfig()
	if !cfg.IsEnabled() {
		log.Println("Warning: PDF_RENDER_URL not set, PDF generation disabled")
	}

	return &RenderClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		maxRetries: 3,
	}
}

// IsEnabled reports whether a render service is configured
func (c *RenderClient) IsEnabled() bool {
	return c.baseURL != ""
}

type renderRequest struct {
	AttemptID       string                  `json:"attemptId"`
	SurveyID        string                  `json:"surveyId"`
	Score           *int                    `json:"score"`
	CompletedOn     *time.Time              `json:"completedOn"`
	Recommendations string                  `json:"recommendations,omitempty"`
	Categories      []scoring.CategoryScore `json:"categories"`
}

type renderResponse struct {
	ArtifactRef string `json:"artifactRef"`
}

// Render requests a PDF report and returns the artifact reference
func (c *RenderClient) Render(ctx context.Context, attempt *model.AssessmentAttempt, categories []scoring.CategoryScore) (string, error) {
	if !c.IsEnabled() {
		return "", fmt.Errorf("render service not configured")
	}

	recommendations := ""
	if attempt.Recommendations != nil {
		recommendations = *attempt.Recommendations
	}

	body, err := json.Marshal(renderRequest{
		AttemptID:       attempt.ID,
		SurveyID:        attempt.SurveyID,
		Score:           attempt.Score,
		CompletedOn:     attempt.CompletedOn,
		Recommendations: recommendations,
		Categories:      categories,
	})
	if err != nil {
		return "", err
	}

	var lastErr error
	for try := 0; try < c.maxRetries; try++ {
		if try > 0 {
			// Exponential backoff before retrying transient failures
			backoff := time.Duration(math.Pow(2, float64(try))) * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		ref, retryable, err := c.doRender(ctx, body)
		if err == nil {
			return ref, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return "", lastErr
}

func (c *RenderClient) doRender(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("render service returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("render service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var rendered renderResponse
	if err := json.Unmarshal(respBody, &rendered); err != nil {
		return "", false, err
	}
	if rendered.ArtifactRef == "" {
		return "", false, fmt.Errorf("render service returned no artifact reference")
	}
	return rendered.ArtifactRef, false, nil
}
