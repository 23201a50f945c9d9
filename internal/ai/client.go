// Package ai wraps the Gemini text-generation client.
package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Client is a thin wrapper over the Gemini SDK bound to one model.
// It is constructed once at startup from a static API key and shared by all
// requests.
type Client struct {
	client *genai.Client
	model  string
}

// New constructs a Gemini client for the given model.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("missing API key")
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: c, model: model}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// GenerateText submits a prompt for a single-shot, non-streamed completion
// and returns the generated text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
