package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/sashabaranov/go-openai"

	"recipesnap/internal/ai"
)

// Captioner describes an image in natural language.
type Captioner interface {
	// Caption returns the generated candidates, best first. No candidates is not an error.
	Caption(ctx context.Context, img image.Image) ([]string, error)
}

// OpenAICaptioner asks an image-to-text model served behind an
// OpenAI-compatible endpoint for a caption.
type OpenAICaptioner struct {
	client *ai.OpenAICompatibleClient
	prompt string
	params ai.SamplingParams
}

func NewOpenAICaptioner(client *ai.OpenAICompatibleClient, prompt string, params ai.SamplingParams) *OpenAICaptioner {
	if prompt == "" {
		prompt = "Describe this image in one short sentence."
	}
	return &OpenAICaptioner{client: client, prompt: prompt, params: params}
}

func (c *OpenAICaptioner) Caption(ctx context.Context, img image.Image) ([]string, error) {
	dataURL, err := EncodeDataURL(img)
	if err != nil {
		return nil, err
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: c.prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		},
	}

	captions, err := c.client.Complete(ctx, messages, c.params)
	if err != nil {
		return nil, fmt.Errorf("caption: %w", err)
	}
	return captions, nil
}

// EncodeDataURL re-encodes img as a JPEG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
