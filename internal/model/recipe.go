package model

type Recipe struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type RecipeResult struct {
	GeneratedText string   `json:"generated_text"`
	Recipes       []Recipe `json:"recipes"`
}
