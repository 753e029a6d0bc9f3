package types

import "time"

// RecipeSummary is one row of the owner's recipe list
type RecipeSummary struct {
	ID                     uint      `json:"id"`
	Title                  string    `json:"title"`
	Cuisine                string    `json:"cuisine"`
	PreparationTimeMinutes int       `json:"preparationTimeMinutes"`
	CookingTimeMinutes     int       `json:"cookingTimeMinutes"`
	Difficulty             int       `json:"difficulty"`
	CostLevel              int       `json:"costLevel"`
	Servings               int       `json:"servings"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// RecipeDetail is the full view of a single recipe
type RecipeDetail struct {
	ID                     uint      `json:"id"`
	OwnerID                uint      `json:"ownerId"`
	AuthorName             string    `json:"authorName"`
	Title                  string    `json:"title"`
	Ingredients            string    `json:"ingredients"`
	Instructions           string    `json:"instructions"`
	Cuisine                string    `json:"cuisine"`
	PreparationTimeMinutes int       `json:"preparationTimeMinutes"`
	CookingTimeMinutes     int       `json:"cookingTimeMinutes"`
	PreparationSteps       int       `json:"preparationSteps"`
	Difficulty             int       `json:"difficulty"`
	CostLevel              int       `json:"costLevel"`
	Servings               int       `json:"servings"`
	DietaryOptionIDs       []uint    `json:"dietaryOptionIds"`
	AllergyOptionIDs       []uint    `json:"allergyOptionIds"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// BrowseRecipe is one row of the public listing, tags given by name
type BrowseRecipe struct {
	RecipeSummary
	AuthorName     string   `json:"authorName"`
	AuthorEmail    string   `json:"authorEmail"`
	DietaryOptions []string `json:"dietaryOptions"`
	AllergyOptions []string `json:"allergyOptions"`
}
