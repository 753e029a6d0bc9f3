// Package seed loads default recipe definitions for the seeder.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mealmajor/mealmajor/backend/internal/types"
)

//go:embed default-recipes.json
var defaultRecipes []byte

// DefaultRecipes returns the built-in recipe set
func DefaultRecipes() ([]types.SeedRecipe, error) {
	return decodeJSON(defaultRecipes)
}

// LoadFile reads recipes from a JSON or YAML file, chosen by extension
func LoadFile(path string) ([]types.SeedRecipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported seed file extension %q", filepath.Ext(path))
	}
}

func decodeJSON(data []byte) ([]types.SeedRecipe, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var recipes []types.SeedRecipe
	if err := dec.Decode(&recipes); err != nil {
		return nil, fmt.Errorf("failed to decode seed recipes: %w", err)
	}
	return recipes, nil
}

func decodeYAML(data []byte) ([]types.SeedRecipe, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var recipes []types.SeedRecipe
	if err := dec.Decode(&recipes); err != nil {
		return nil, fmt.Errorf("failed to decode seed recipes: %w", err)
	}
	return recipes, nil
}
