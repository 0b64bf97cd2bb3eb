package ai

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// TextGenerator produces completions for a plain prompt.
type TextGenerator interface {
	// Generate returns the generated candidates; an empty slice is not an error.
	Generate(ctx context.Context, prompt string) ([]string, error)
	Stream(ctx context.Context, prompt string, onChunk func(string) error) (string, error)
}

// RecipeGenerator sends the prompt as a single user turn with fixed sampling params.
type RecipeGenerator struct {
	client *OpenAICompatibleClient
	params SamplingParams
}

func NewRecipeGenerator(client *OpenAICompatibleClient, params SamplingParams) *RecipeGenerator {
	return &RecipeGenerator{client: client, params: params}
}

func (g *RecipeGenerator) Generate(ctx context.Context, prompt string) ([]string, error) {
	return g.client.Complete(ctx, userPrompt(prompt), g.params)
}

func (g *RecipeGenerator) Stream(ctx context.Context, prompt string, onChunk func(string) error) (string, error) {
	return g.client.StreamComplete(ctx, userPrompt(prompt), g.params, onChunk)
}

func userPrompt(prompt string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
}
