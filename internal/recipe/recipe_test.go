package recipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt_WithoutCaption(t *testing.T) {
	p := BuildPrompt([]string{"egg", "flour"}, "")

	assert.Contains(t, p, "I have the following ingredients: egg, flour.")
	assert.NotContains(t, p, "The image shows:")
	assert.Contains(t, p, "5. Difficulty level (Easy, Medium, Hard)")
	assert.False(t, strings.HasPrefix(p, " "), "template is dedented")
	assert.False(t, strings.Contains(p, "\t"))
}

func TestBuildPrompt_WithCaption(t *testing.T) {
	p := BuildPrompt([]string{"tomato"}, "a plate of tomatoes")

	assert.Contains(t, p, "The image shows: a plate of tomatoes.")
	lines := strings.Split(p, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "I have the following ingredients: tomato.", lines[0])
	assert.Equal(t, "The image shows: a plate of tomatoes.", lines[1])
	assert.Equal(t, "Please suggest 3 delicious recipes I can make with these ingredients.", lines[2])
}

func TestBuildPrompt_BlankCaptionIsOmitted(t *testing.T) {
	assert.NotContains(t, BuildPrompt([]string{"rice"}, "   "), "The image shows:")
}

func TestParse(t *testing.T) {
	text := `Here are some ideas.

Recipe 1: Name: Fluffy Pancakes
Ingredients: 2 eggs, 1 cup flour

Whisk and fry.
Recipe 2:
Egg noodles
Knead the dough.
recipe 3 - Crepes`

	recipes := Parse(text)
	require.Len(t, recipes, 4)

	assert.Equal(t, "Recipe 1", recipes[0].Name, "leading text has no colon on its first line")
	assert.Equal(t, "", recipes[0].Content)

	assert.Equal(t, "Fluffy Pancakes", recipes[1].Name)
	assert.Equal(t, "Ingredients: 2 eggs, 1 cup flour\nWhisk and fry.", recipes[1].Content)

	// The marker consumes the colon, so a bare "Recipe 2:" header yields a
	// positional name.
	assert.Equal(t, "Recipe 3", recipes[2].Name)
	assert.Equal(t, "Knead the dough.", recipes[2].Content)

	assert.Equal(t, "Recipe 4", recipes[3].Name)
	assert.Equal(t, "", recipes[3].Content)
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("Recipe 1:\n\n  "))
}
