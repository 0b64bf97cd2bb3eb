package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ChatConfig points at an OpenAI-compatible server (vLLM, LocalAI, TGI, ...).
type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// SamplingParams control a single completion request. Zero values are left
// to the server defaults.
type SamplingParams struct {
	MaxTokens   int
	Temperature float32
	TopP        float32
}

type OpenAICompatibleClient struct {
	client *openai.Client
	model  string
}

func NewOpenAICompatibleClient(cfg ChatConfig) *OpenAICompatibleClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAICompatibleClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

func (c *OpenAICompatibleClient) Model() string {
	return c.model
}

// CheckModel verifies the server is reachable and, when it lists models,
// that the configured model is among them.
func (c *OpenAICompatibleClient) CheckModel(ctx context.Context) error {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models failed: %w", err)
	}
	if len(list.Models) == 0 {
		return nil
	}
	for _, m := range list.Models {
		if m.ID == c.model {
			return nil
		}
	}
	return fmt.Errorf("model %q is not served by the endpoint", c.model)
}

// Complete returns the text of every returned choice, in order.
func (c *OpenAICompatibleClient) Complete(
	ctx context.Context,
	messages []openai.ChatCompletionMessage,
	params SamplingParams,
) ([]string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.request(messages, params, false))
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}

	texts := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		texts = append(texts, choice.Message.Content)
	}
	return texts, nil
}

func (c *OpenAICompatibleClient) StreamComplete(
	ctx context.Context,
	messages []openai.ChatCompletionMessage,
	params SamplingParams,
	onChunk func(chunk string) error,
) (string, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, c.request(messages, params, true))
	if err != nil {
		return "", fmt.Errorf("llm stream request failed: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("llm stream recv failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		text := resp.Choices[0].Delta.Content
		if text == "" {
			continue
		}

		full.WriteString(text)
		if err := onChunk(text); err != nil {
			return "", err
		}
	}
	return full.String(), nil
}

func (c *OpenAICompatibleClient) request(messages []openai.ChatCompletionMessage, params SamplingParams, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
		Stream:      stream,
	}
}
