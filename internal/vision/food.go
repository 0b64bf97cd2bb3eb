package vision

import (
	"strings"

	"recipesnap/internal/model"
)

// FoodCategories are matched as substrings of the lowercased detector label.
// Tableware is included because it tends to appear next to food.
var FoodCategories = []string{
	"apple", "orange", "banana", "broccoli", "carrot", "hot dog", "pizza",
	"donut", "cake", "sandwich", "tomato", "bowl", "bottle", "wine glass",
	"cup", "fork", "knife", "spoon", "dining table", "food", "fruit", "vegetable",
}

func IsFoodLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, category := range FoodCategories {
		if strings.Contains(lower, category) {
			return true
		}
	}
	return false
}

// FilterFood keeps food-related detections and preserves their order.
func FilterFood(detections []Detection) []model.DetectedIngredient {
	ingredients := make([]model.DetectedIngredient, 0, len(detections))
	for _, d := range detections {
		if !IsFoodLabel(d.Label) {
			continue
		}
		ingredients = append(ingredients, model.DetectedIngredient{
			Name:       d.Label,
			Confidence: float64(d.Score),
		})
	}
	return ingredients
}
