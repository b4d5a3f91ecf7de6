package config

import "os"

// AIConfig holds configuration for the recommendation generator
type AIConfig struct {
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		// Recommendations run after completion, off the request path,
		// so a quality model is fine here.
		Model:     getEnvOrDefault("GEMINI_MODEL_RECOMMEND", "gemini-2.0-flash"),
		TimeoutMS: 30000,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for the configured model
func (c *AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}

// RendererConfig holds configuration for the external PDF render service
type RendererConfig struct {
	BaseURL   string `json:"baseUrl"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultRendererConfig returns the renderer configuration from env.
// An empty BaseURL disables PDF generation.
func DefaultRendererConfig() *RendererConfig {
	return &RendererConfig{
		BaseURL:   os.Getenv("PDF_RENDER_URL"),
		TimeoutMS: 30000,
	}
}

// IsEnabled returns true if a render service is configured
func (c *RendererConfig) IsEnabled() bool {
	return c.BaseURL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
