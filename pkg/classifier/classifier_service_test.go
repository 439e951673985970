package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string, seen *ChatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			raw, err := io.ReadAll(r.Body)
			if assert.NoError(t, err) {
				assert.NoError(t, json.Unmarshal(raw, seen))
			}
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) Client {
	return NewClassifierService(Config{APIKey: "test-key", BaseURL: baseURL, Model: "test-model"})
}

func TestEstimateFromName_SendsTextPrompt(t *testing.T) {
	var seen ChatRequest
	srv := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":" 150 \n"}}]}`, &seen)

	text, err := newTestClient(srv.URL).EstimateFromName(context.Background(), "Choco Pie")
	require.NoError(t, err)
	assert.Equal(t, "150", text)

	assert.Equal(t, "test-model", seen.Model)
	assert.Equal(t, defaultMaxTokens, seen.MaxTokens)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
	assert.Equal(t, NamePrompt("Choco Pie"), seen.Messages[0].Content.Text)
	assert.Empty(t, seen.Messages[0].Content.ImageURL)
}

func TestEstimateFromImage_SendsImagePart(t *testing.T) {
	var seen ChatRequest
	srv := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":"90"}}]}`, &seen)

	text, err := newTestClient(srv.URL).EstimateFromImage(context.Background(), "https://cdn.example.com/images/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "90", text)

	require.Len(t, seen.Messages, 1)
	assert.Equal(t, ImagePrompt, seen.Messages[0].Content.Text)
	assert.Equal(t, "https://cdn.example.com/images/1.jpg", seen.Messages[0].Content.ImageURL)
}

func TestComplete_NonSuccessStatus(t *testing.T) {
	srv := newTestServer(t, http.StatusInternalServerError, `{"error":{"message":"upstream exploded"}}`, nil)

	_, err := newTestClient(srv.URL).EstimateFromImage(context.Background(), "https://x/y.jpg")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, "upstream exploded", statusErr.Message)
	assert.Contains(t, err.Error(), "500")
}

func TestComplete_PlainTextErrorBody(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, "slow down", nil)

	_, err := newTestClient(srv.URL).EstimateFromName(context.Background(), "gum")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "slow down", statusErr.Message)
}

func TestErrorMessage_TruncatesOnRuneBoundary(t *testing.T) {
	msg := errorMessage([]byte(strings.Repeat("ラ", 300)))
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, maxErrorText, utf8.RuneCountInString(msg))

	assert.Equal(t, "short", errorMessage([]byte("  short \n")))
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"choices":[]}`, nil)

	_, err := newTestClient(srv.URL).EstimateFromName(context.Background(), "gum")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestComplete_MalformedBody(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `not json`, nil)

	_, err := newTestClient(srv.URL).EstimateFromName(context.Background(), "gum")
	assert.Error(t, err)
}

func TestComplete_MissingAPIKey(t *testing.T) {
	_, err := NewClassifierService(Config{}).EstimateFromName(context.Background(), "gum")
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestMessageContent_JSONShapes(t *testing.T) {
	text, err := json.Marshal(TextContent("hi"))
	require.NoError(t, err)
	assert.JSONEq(t, `"hi"`, string(text))

	image, err := json.Marshal(ImageContent("look", "https://x/y.jpg"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"text","text":"look"},{"type":"image_url","image_url":{"url":"https://x/y.jpg"}}]`, string(image))
}
