package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aireadiness/internal/model"
	"aireadiness/internal/scoring"
)

func newTestRenderClient(baseURL string) *RenderClient {
	return &RenderClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		maxRetries: 1,
	}
}

func renderedAttempt() *model.AssessmentAttempt {
	score := 50
	now := time.Now().UTC()
	return &model.AssessmentAttempt{
		ID:          "attempt-1",
		SurveyID:    testSurveyID,
		Status:      model.StatusCompleted,
		Score:       &score,
		CompletedOn: &now,
	}
}

func TestRenderReturnsArtifactRef(t *testing.T) {
	var got renderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/render", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(renderResponse{ArtifactRef: "reports/attempt-1.pdf"})
	}))
	defer srv.Close()

	c := newTestRenderClient(srv.URL)
	ref, err := c.Render(context.Background(), renderedAttempt(), []scoring.CategoryScore{
		{Category: "Strategy & Vision", NormalizedScore: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, "reports/attempt-1.pdf", ref)
	assert.Equal(t, "attempt-1", got.AttemptID)
}

func TestDoRenderClassifiesRetryableStatuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
		wantErr   bool
	}{
		{"success", http.StatusOK, `{"artifactRef":"r.pdf"}`, false, false},
		{"server error", http.StatusInternalServerError, "", true, true},
		{"rate limited", http.StatusTooManyRequests, "", true, true},
		{"bad request", http.StatusBadRequest, "", false, true},
		{"missing ref", http.StatusOK, `{}`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestRenderClient(srv.URL)
			ref, retryable, err := c.doRender(context.Background(), []byte(`{}`))
			assert.Equal(t, tt.retryable, retryable)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "r.pdf", ref)
			}
		})
	}
}

func TestRenderDoesNotRetryPermanentFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestRenderClient(srv.URL)
	c.maxRetries = 3
	_, err := c.Render(context.Background(), renderedAttempt(), nil)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
