package types

// SignUpRequest represents the request body for creating an account
type SignUpRequest struct {
	FirstName string `json:"firstName" binding:"required,notblank,max=100"`
	LastName  string `json:"lastName" binding:"required,notblank,max=100"`
	Email     string `json:"email" binding:"required,notblank,max=255"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
}

// SignInRequest represents the request body for signing in
type SignInRequest struct {
	Email    string `json:"email" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest replaces the caller's names and email. The password is
// only changed when supplied.
type UpdateProfileRequest struct {
	FirstName string  `json:"firstName" binding:"required,notblank,max=100"`
	LastName  string  `json:"lastName" binding:"required,notblank,max=100"`
	Email     string  `json:"email" binding:"required,notblank,max=255"`
	Password  *string `json:"password,omitempty" binding:"omitempty,min=6,max=72"`
}

// PreferencesRequest replaces both preference sets of the caller
type PreferencesRequest struct {
	DietaryOptionIDs []uint `json:"dietaryOptionIds"`
	AllergyOptionIDs []uint `json:"allergyOptionIds"`
}

// RecipeRequest is the full recipe payload used by create and update.
// Numeric fields are clamped into range rather than rejected.
type RecipeRequest struct {
	Title                  string `json:"title" binding:"required,notblank"`
	Ingredients            string `json:"ingredients" binding:"required,notblank"`
	Instructions           string `json:"instructions" binding:"required,notblank"`
	Cuisine                string `json:"cuisine" binding:"required,notblank"`
	PreparationTimeMinutes int    `json:"preparationTimeMinutes"`
	CookingTimeMinutes     int    `json:"cookingTimeMinutes"`
	PreparationSteps       int    `json:"preparationSteps"`
	Difficulty             int    `json:"difficulty"`
	CostLevel              int    `json:"costLevel"`
	Servings               int    `json:"servings"`
	DietaryOptionIDs       []uint `json:"dietaryOptionIds"`
	AllergyOptionIDs       []uint `json:"allergyOptionIds"`
}

// BrowseFilter narrows the public recipe listing. Nil pointers mean "no
// constraint".
type BrowseFilter struct {
	Search           string `form:"q"`
	MaxPrepTime      *int   `form:"prepTimeMax" binding:"omitempty,min=0"`
	MaxCookTime      *int   `form:"cookTimeMax" binding:"omitempty,min=0"`
	MinServings      *int   `form:"servingsMin" binding:"omitempty,min=0"`
	Difficulty       *int   `form:"difficulty" binding:"omitempty,min=1,max=5"`
	CostLevel        *int   `form:"costLevel" binding:"omitempty,min=1,max=5"`
	DietaryOptionIDs []uint `form:"dietary"`
	AllergyOptionIDs []uint `form:"allergy"`
	Limit            int    `form:"limit" binding:"omitempty,min=0"`
	Offset           int    `form:"offset" binding:"omitempty,min=0"`
}

// SeedRecipe is one entry of a seed file. Tags are given by option name.
type SeedRecipe struct {
	Title                  string   `json:"title" yaml:"title"`
	Ingredients            string   `json:"ingredients" yaml:"ingredients"`
	Instructions           string   `json:"instructions" yaml:"instructions"`
	Cuisine                string   `json:"cuisine" yaml:"cuisine"`
	PreparationTimeMinutes int      `json:"preparationTimeMinutes" yaml:"preparationTimeMinutes"`
	CookingTimeMinutes     int      `json:"cookingTimeMinutes" yaml:"cookingTimeMinutes"`
	PreparationSteps       int      `json:"preparationSteps" yaml:"preparationSteps"`
	Difficulty             int      `json:"difficulty" yaml:"difficulty"`
	CostLevel              int      `json:"costLevel" yaml:"costLevel"`
	Servings               int      `json:"servings" yaml:"servings"`
	DietaryOptions         []string `json:"dietaryOptions" yaml:"dietaryOptions"`
	AllergyOptions         []string `json:"allergyOptions" yaml:"allergyOptions"`
}
