// Package llm generates output directly against an OpenAI-compatible API, as
// an alternative to the backend's generation side-channel. Both surfaces
// satisfy the same generator contract.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/promptdojo/promptdojo/internal/model"
)

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api        *openai.Client
	model      string
	imageModel string
}

// New creates a direct generation client. baseURL may point at any
// OpenAI-compatible endpoint (a local model server works).
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:        openai.NewClientWithConfig(config),
		model:      modelName,
		imageModel: openai.CreateImageModelDallE3,
	}
}

// Ping verifies the endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM endpoint: %w", err)
	}
	return nil
}

// GenerateText runs the user's prompt as-is and returns the completion. The
// prompt is not augmented: the learner's prompt quality is what is being
// practiced.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage renders the prompt as an image and returns it as a data URI
// so it can flow through the draft like a pasted URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*model.GeneratedImage, error) {
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("image API call: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("image API returned no images")
	}
	return &model.GeneratedImage{
		ImageURL:    DataURI(resp.Data[0].B64JSON),
		Description: "AI generated image based on: " + prompt,
	}, nil
}

// DataURI wraps base64 PNG bytes in a data URI.
func DataURI(b64 string) string {
	return "data:image/png;base64," + b64
}
