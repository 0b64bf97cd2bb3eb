// Package recipe builds recipe prompts and splits generated text into recipes.
package recipe

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

const promptTemplate = `
	I have the following ingredients: %s.
	%s
	Please suggest 3 delicious recipes I can make with these ingredients.
	For each recipe, provide:
	1. Recipe name
	2. Ingredients list (including quantities)
	3. Step-by-step cooking instructions
	4. Approximate cooking time
	5. Difficulty level (Easy, Medium, Hard)
`

// BuildPrompt renders the recipe request. The caption line is left empty
// when caption is blank.
func BuildPrompt(ingredients []string, caption string) string {
	captionLine := ""
	if caption = strings.TrimSpace(caption); caption != "" {
		captionLine = fmt.Sprintf("The image shows: %s.", caption)
	}
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(promptTemplate)), strings.Join(ingredients, ", "), captionLine)
}
