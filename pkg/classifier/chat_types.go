package classifier

import (
	"encoding/json"
)

type (
	ChatRequest struct {
		Model     string        `json:"model"`
		Messages  []ChatMessage `json:"messages"`
		MaxTokens int           `json:"max_tokens"`
	}

	ChatMessage struct {
		Role    string         `json:"role"`
		Content MessageContent `json:"content"`
	}

	// MessageContent is either plain text or text paired with an image URL.
	// The text-only form is sent as a JSON string, the image form as a
	// list of typed parts.
	MessageContent struct {
		Text     string
		ImageURL string
	}

	contentPart struct {
		Type     string    `json:"type"`
		Text     string    `json:"text,omitempty"`
		ImageURL *imageRef `json:"image_url,omitempty"`
	}

	imageRef struct {
		URL string `json:"url"`
	}

	ChatResponse struct {
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
)

func TextContent(text string) MessageContent {
	return MessageContent{Text: text}
}

func ImageContent(text, imageURL string) MessageContent {
	return MessageContent{Text: text, ImageURL: imageURL}
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.ImageURL == "" {
		return json.Marshal(c.Text)
	}
	return json.Marshal([]contentPart{
		{Type: "text", Text: c.Text},
		{Type: "image_url", ImageURL: &imageRef{URL: c.ImageURL}},
	})
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = MessageContent{Text: text}
		return nil
	}
	var parts []contentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	*c = MessageContent{}
	for _, p := range parts {
		switch p.Type {
		case "text":
			c.Text = p.Text
		case "image_url":
			if p.ImageURL != nil {
				c.ImageURL = p.ImageURL.URL
			}
		}
	}
	return nil
}
