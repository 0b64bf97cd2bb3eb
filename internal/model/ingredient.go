package model

// DetectedIngredient is a food-related detection returned by /analyze.
type DetectedIngredient struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is the caption plus the filtered detections, in detector order.
type AnalysisResult struct {
	Caption     string               `json:"caption"`
	Ingredients []DetectedIngredient `json:"ingredients"`
}
