package service

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mealmajor/mealmajor/backend/internal/models"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

const recipeColumns = "recipes.id, recipes.user_id, recipes.title, recipes.ingredients, recipes.instructions, " +
	"recipes.cuisine, recipes.preparation_time_minutes, recipes.cooking_time_minutes, recipes.preparation_steps, " +
	"recipes.difficulty_rating, recipes.cost_level, recipes.servings, recipes.created_at, recipes.updated_at, " +
	"users.first_name AS author_first_name, users.last_name AS author_last_name, users.email AS author_email"

// recipeRow is a recipe joined with its author.
type recipeRow struct {
	ID                     uint
	UserID                 uint
	Title                  string
	Ingredients            string
	Instructions           string
	Cuisine                string
	PreparationTimeMinutes int
	CookingTimeMinutes     int
	PreparationSteps       int
	DifficultyRating       int
	CostLevel              int
	Servings               int
	CreatedAt              time.Time
	UpdatedAt              time.Time
	AuthorFirstName        string
	AuthorLastName         string
	AuthorEmail            string
}

func (r *recipeRow) summary() types.RecipeSummary {
	return types.RecipeSummary{
		ID:                     r.ID,
		Title:                  r.Title,
		Cuisine:                r.Cuisine,
		PreparationTimeMinutes: r.PreparationTimeMinutes,
		CookingTimeMinutes:     r.CookingTimeMinutes,
		Difficulty:             r.DifficultyRating,
		CostLevel:              r.CostLevel,
		Servings:               r.Servings,
		UpdatedAt:              r.UpdatedAt,
	}
}

func (r *recipeRow) authorName() string {
	return models.User{FirstName: r.AuthorFirstName, LastName: r.AuthorLastName}.FullName()
}

// linkedOptionIDs returns the option ids linked to a recipe, ascending.
func linkedOptionIDs(db *gorm.DB, c Catalog, recipeID uint) ([]uint, error) {
	ids := []uint{}
	err := db.Model(c.recipeLinkModel()).
		Where("recipe_id = ?", recipeID).
		Order(c.linkColumn()).
		Pluck(c.linkColumn(), &ids).Error
	if err != nil {
		return nil, internalError("failed to load "+string(c)+" options", err)
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

// tagNamesByRecipe loads option names for a page of recipes in one query.
func tagNamesByRecipe(db *gorm.DB, c Catalog, recipeIDs []uint) (map[uint][]string, error) {
	names := make(map[uint][]string, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return names, nil
	}

	var rows []struct {
		RecipeID uint
		Name     string
	}
	linkTable := "recipe_" + c.optionTable()
	err := db.Table(linkTable+" AS l").
		Select("l.recipe_id, o.name").
		Joins("JOIN "+c.optionTable()+" AS o ON o.id = l."+c.linkColumn()).
		Where("l.recipe_id IN ?", recipeIDs).
		Order("o.name").
		Scan(&rows).Error
	if err != nil {
		return nil, internalError("failed to load "+string(c)+" option names", err)
	}
	for _, row := range rows {
		names[row.RecipeID] = append(names[row.RecipeID], row.Name)
	}
	return names, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
