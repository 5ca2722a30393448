// Package answerer implements the model client for OpenAI-compatible chat
// APIs with vision input.
package answerer

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/chessvlm/rulebench/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

type OpenAIAnswerer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAIAnswerer(cfg *config.Configuration) *OpenAIAnswerer {
	clientConfig := openai.DefaultConfig(cfg.Model.APIKey)
	if cfg.Model.BaseURL != "" {
		clientConfig.BaseURL = cfg.Model.BaseURL
	}
	return &OpenAIAnswerer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model.Name,
		maxTokens: 500,
	}
}

func (a *OpenAIAnswerer) ModelName() string {
	return a.model
}

// Answer sends the prompt with every board image attached inline and returns
// the raw completion text.
func (a *OpenAIAnswerer) Answer(ctx context.Context, prompt string, imagePaths []string) (string, error) {
	parts := make([]openai.ChatMessagePart, 0, len(imagePaths)+1)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: prompt,
	})
	for _, path := range imagePaths {
		dataURL, err := encodeImage(path)
		if err != nil {
			return "", err
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    dataURL,
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", path, err)
	}
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(data), nil
}
