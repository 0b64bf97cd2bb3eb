package recipe

import (
	"fmt"
	"regexp"
	"strings"

	"recipesnap/internal/model"
)

var recipeMarker = regexp.MustCompile(`(?i)Recipe\s*\d*:?`)

// Parse splits generated text on "Recipe N:" markers. The name comes from
// the first line of a block when it carries a colon, otherwise it is
// numbered by position.
func Parse(text string) []model.Recipe {
	recipes := make([]model.Recipe, 0)
	for _, block := range recipeMarker.Split(text, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		lines := nonEmptyLines(block)

		name := fmt.Sprintf("Recipe %d", len(recipes)+1)
		if strings.Contains(lines[0], ":") {
			name = strings.TrimSpace(strings.Split(lines[0], ":")[1])
		}

		recipes = append(recipes, model.Recipe{
			Name:    name,
			Content: strings.Join(lines[1:], "\n"),
		})
	}
	return recipes
}

func nonEmptyLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
