package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmajor/mealmajor/backend/internal/service"
	"github.com/mealmajor/mealmajor/backend/internal/testhelpers"
)

func TestDefaultRecipes(t *testing.T) {
	recipes, err := DefaultRecipes()
	require.NoError(t, err)
	require.NotEmpty(t, recipes)

	titles := make(map[string]bool)
	for _, r := range recipes {
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.Ingredients)
		assert.NotEmpty(t, r.Instructions)
		assert.NotEmpty(t, r.Cuisine)
		assert.False(t, titles[r.Title], "duplicate title %q", r.Title)
		titles[r.Title] = true
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "recipes.yaml", `
- title: Toast
  ingredients: bread
  instructions: toast it
  cuisine: British
  servings: 1
  dietaryOptions: [Vegetarian]
  allergyOptions: [Wheat]
`)

	recipes, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Toast", recipes[0].Title)
	assert.Equal(t, 1, recipes[0].Servings)
	assert.Equal(t, []string{"Vegetarian"}, recipes[0].DietaryOptions)
	assert.Equal(t, []string{"Wheat"}, recipes[0].AllergyOptions)
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "recipes.json", `[{"title":"Toast","ingredients":"bread","instructions":"toast","cuisine":"British"}]`)

	recipes, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "British", recipes[0].Cuisine)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(writeFile(t, "recipes.txt", "[]"))
	assert.ErrorContains(t, err, "unsupported seed file extension")

	_, err = LoadFile(writeFile(t, "recipes.json", `[{"name":"Toast"}]`))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read seed file")
}

func TestDefaultRecipesSeedTwice(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	seeder := service.NewSeedService(db, nil, nil)

	recipes, err := DefaultRecipes()
	require.NoError(t, err)

	first, err := seeder.Seed(context.Background(), recipes)
	require.NoError(t, err)
	assert.Equal(t, len(recipes), first.Created)

	second, err := seeder.Seed(context.Background(), recipes)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, len(recipes), second.Updated)
	assert.Equal(t, first.OwnerID, second.OwnerID)
}
