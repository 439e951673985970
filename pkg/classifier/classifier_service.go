// Package classifier asks a chat completion model for a calorie estimate.
package classifier

import (
	"Snack-Tracker/pkg/metrics"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	ImagePrompt = "Analyze the product shown in this image and return its calories as a number. " +
		"If the analysis is ambiguous or the product cannot be recognized, return 0. Return only the number."
	namePromptFormat = "Analyze the product name: %s. Return only the calories as a number. " +
		"If the product is ambiguous or unknown, return 0."

	defaultMaxTokens = 300
	// maxErrorText caps, in runes, a plain-text error body quoted in StatusError.
	maxErrorText = 200
)

var (
	ErrAPIKeyMissing = errors.New("classification API key not configured")
	ErrEmptyResponse = errors.New("classification response has no choices")
)

// StatusError is a non-2xx reply from the chat completion endpoint.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("classification API call failed: HTTP %d", e.Code)
	}
	return fmt.Sprintf("classification API call failed: HTTP %d - %s", e.Code, e.Message)
}

type (
	Client interface {
		// EstimateFromImage returns the model's raw reply for the image.
		EstimateFromImage(ctx context.Context, imageURL string) (string, error)
		// EstimateFromName returns the model's raw reply for a product name.
		EstimateFromName(ctx context.Context, productName string) (string, error)
	}

	Config struct {
		APIKey     string
		Model      string
		BaseURL    string
		MaxTokens  int
		RPS        float64
		HTTPClient *http.Client
	}

	classifierService struct {
		cfg     Config
		client  *http.Client
		limiter *rate.Limiter
	}
)

func NewClassifierService(cfg Config) Client {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}

	return &classifierService{cfg: cfg, client: client, limiter: limiter}
}

func NamePrompt(productName string) string {
	return fmt.Sprintf(namePromptFormat, productName)
}

func (s *classifierService) EstimateFromImage(ctx context.Context, imageURL string) (string, error) {
	return s.complete(ctx, "image", ImageContent(ImagePrompt, imageURL))
}

func (s *classifierService) EstimateFromName(ctx context.Context, productName string) (string, error) {
	return s.complete(ctx, "name", TextContent(NamePrompt(productName)))
}

func (s *classifierService) complete(ctx context.Context, operation string, content MessageContent) (text string, err error) {
	start := time.Now()
	defer func() { metrics.Observe(metrics.ServiceClassifier, operation, start, err) }()

	if s.cfg.APIKey == "" {
		return "", ErrAPIKeyMissing
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	requestJSON, err := json.Marshal(ChatRequest{
		Model:     s.cfg.Model,
		Messages:  []ChatMessage{{Role: "user", Content: content}},
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/chat/completions", bytes.NewReader(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Message: errorMessage(body)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse classification response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// errorMessage pulls error.message out of a provider error body, falling
// back to the trimmed body text.
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
		return msg.String()
	}
	text := strings.TrimSpace(string(body))
	if runes := []rune(text); len(runes) > maxErrorText {
		text = string(runes[:maxErrorText])
	}
	return text
}
