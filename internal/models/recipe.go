package models

import "time"

type Recipe struct {
	ID                     uint      `gorm:"primarykey" json:"id"`
	UserID                 uint      `gorm:"not null;index" json:"ownerId"`
	Title                  string    `gorm:"size:255;not null" json:"title"`
	Ingredients            string    `gorm:"type:text;not null" json:"ingredients"`
	Instructions           string    `gorm:"type:text;not null" json:"instructions"`
	Cuisine                string    `gorm:"size:255;not null" json:"cuisine"`
	PreparationTimeMinutes int       `gorm:"not null" json:"preparationTimeMinutes"`
	CookingTimeMinutes     int       `gorm:"not null" json:"cookingTimeMinutes"`
	PreparationSteps       int       `gorm:"not null" json:"preparationSteps"`
	DifficultyRating       int       `gorm:"not null" json:"difficulty"`
	CostLevel              int       `gorm:"not null" json:"costLevel"`
	Servings               int       `gorm:"not null" json:"servings"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `gorm:"index" json:"updatedAt"`
}

func (Recipe) TableName() string {
	return "recipes"
}

type RecipeDietaryOption struct {
	RecipeID        uint `gorm:"primaryKey;autoIncrement:false"`
	DietaryOptionID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (RecipeDietaryOption) TableName() string {
	return "recipe_dietary_options"
}

type RecipeAllergyOption struct {
	RecipeID        uint `gorm:"primaryKey;autoIncrement:false"`
	AllergyOptionID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (RecipeAllergyOption) TableName() string {
	return "recipe_allergy_options"
}

// All returns every model in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&DietaryOption{},
		&AllergyOption{},
		&UserDietaryOption{},
		&UserAllergyOption{},
		&Recipe{},
		&RecipeDietaryOption{},
		&RecipeAllergyOption{},
	}
}
