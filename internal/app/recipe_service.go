package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"recipesnap/internal/model"
	"recipesnap/internal/recipe"
	"recipesnap/internal/registry"
)

type RecipeService struct {
	models *registry.Registry
}

type GenerateRecipesInput struct {
	Ingredients  []string
	ImageCaption string
}

func NewRecipeService(models *registry.Registry) *RecipeService {
	return &RecipeService{models: models}
}

// Generate asks the text generator for recipes and keeps the first
// completion. No completion yields an empty result, not an error.
func (s *RecipeService) Generate(ctx context.Context, input GenerateRecipesInput) (*model.RecipeResult, error) {
	generator, ok := s.models.Generator()
	if !ok {
		return nil, ErrModelsNotReady
	}

	prompt := recipe.BuildPrompt(input.Ingredients, input.ImageCaption)
	zerolog.Ctx(ctx).Debug().Strs("ingredients", input.Ingredients).Msg("generating recipes")

	completions, err := generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	text := ""
	if len(completions) > 0 {
		text = completions[0]
	}
	return newRecipeResult(text), nil
}

// Stream is Generate with each chunk passed to onChunk as it arrives.
func (s *RecipeService) Stream(
	ctx context.Context,
	input GenerateRecipesInput,
	onChunk func(string) error,
) (*model.RecipeResult, error) {
	generator, ok := s.models.Generator()
	if !ok {
		return nil, ErrModelsNotReady
	}

	prompt := recipe.BuildPrompt(input.Ingredients, input.ImageCaption)
	full, err := generator.Stream(ctx, prompt, onChunk)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}
	return newRecipeResult(full), nil
}

func newRecipeResult(text string) *model.RecipeResult {
	return &model.RecipeResult{
		GeneratedText: text,
		Recipes:       recipe.Parse(strings.TrimSpace(text)),
	}
}
