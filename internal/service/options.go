package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealmajor/mealmajor/backend/internal/models"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

// Catalog names one of the two option catalogs.
type Catalog string

const (
	CatalogDietary Catalog = "dietary"
	CatalogAllergy Catalog = "allergy"
)

func (c Catalog) optionTable() string {
	if c == CatalogAllergy {
		return "allergy_options"
	}
	return "dietary_options"
}

// linkColumn is the option id column used by both the user and recipe link
// tables of this catalog.
func (c Catalog) linkColumn() string {
	if c == CatalogAllergy {
		return "allergy_option_id"
	}
	return "dietary_option_id"
}

func (c Catalog) recipeLinkModel() interface{} {
	if c == CatalogAllergy {
		return &models.RecipeAllergyOption{}
	}
	return &models.RecipeDietaryOption{}
}

func (c Catalog) userLinkModel() interface{} {
	if c == CatalogAllergy {
		return &models.UserAllergyOption{}
	}
	return &models.UserDietaryOption{}
}

func (c Catalog) recipeLinks(recipeID uint, ids []uint) interface{} {
	if c == CatalogAllergy {
		rows := make([]models.RecipeAllergyOption, len(ids))
		for i, id := range ids {
			rows[i] = models.RecipeAllergyOption{RecipeID: recipeID, AllergyOptionID: id}
		}
		return &rows
	}
	rows := make([]models.RecipeDietaryOption, len(ids))
	for i, id := range ids {
		rows[i] = models.RecipeDietaryOption{RecipeID: recipeID, DietaryOptionID: id}
	}
	return &rows
}

func (c Catalog) userLinks(userID uint, ids []uint) interface{} {
	if c == CatalogAllergy {
		rows := make([]models.UserAllergyOption, len(ids))
		for i, id := range ids {
			rows[i] = models.UserAllergyOption{UserID: userID, AllergyOptionID: id}
		}
		return &rows
	}
	rows := make([]models.UserDietaryOption, len(ids))
	for i, id := range ids {
		rows[i] = models.UserDietaryOption{UserID: userID, DietaryOptionID: id}
	}
	return &rows
}

func (c Catalog) newOptions(names []string) interface{} {
	if c == CatalogAllergy {
		rows := make([]models.AllergyOption, len(names))
		for i, name := range names {
			rows[i] = models.AllergyOption{Name: name}
		}
		return &rows
	}
	rows := make([]models.DietaryOption, len(names))
	for i, name := range names {
		rows[i] = models.DietaryOption{Name: name}
	}
	return &rows
}

// normalizeIDs collapses duplicates and sorts ascending.
func normalizeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// normalizeNames trims, drops empties and collapses duplicates, keeping the
// first occurrence order.
func normalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// validateOptionIDs checks that every id exists in the catalog and returns the
// normalized set. The first missing id (in ascending order) is reported.
func validateOptionIDs(tx *gorm.DB, c Catalog, ids []uint) ([]uint, error) {
	ids = normalizeIDs(ids)
	if len(ids) == 0 {
		return ids, nil
	}

	var found []uint
	if err := tx.Table(c.optionTable()).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, internalError("failed to validate "+string(c)+" options", err)
	}
	if len(found) == len(ids) {
		return ids, nil
	}

	present := make(map[uint]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			return nil, unknownReferenceError("Unknown %s option id: %d.", c, id)
		}
	}
	return ids, nil
}

// resolveOptionNames maps option names to ids, sorted ascending. Any name not
// in the catalog aborts with unknown_reference.
func resolveOptionNames(tx *gorm.DB, c Catalog, names []string) ([]uint, error) {
	names = normalizeNames(names)
	if len(names) == 0 {
		return []uint{}, nil
	}

	var rows []models.Option
	if err := tx.Table(c.optionTable()).Select("id", "name").Where("name IN ?", names).Find(&rows).Error; err != nil {
		return nil, internalError("failed to resolve "+string(c)+" options", err)
	}

	byName := make(map[string]uint, len(rows))
	for _, row := range rows {
		byName[row.Name] = row.ID
	}

	ids := make([]uint, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return nil, unknownReferenceError("Unknown %s option: %q.", c, name)
		}
		ids = append(ids, id)
	}
	return normalizeIDs(ids), nil
}

// ensureOptionNames inserts any names that are not yet in the catalog.
func ensureOptionNames(tx *gorm.DB, c Catalog, names []string) error {
	names = normalizeNames(names)
	if len(names) == 0 {
		return nil
	}
	err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(c.newOptions(names)).Error
	if err != nil {
		return internalError("failed to create "+string(c)+" options", err)
	}
	return nil
}

func listCatalog(tx *gorm.DB, c Catalog) ([]models.Option, error) {
	options := []models.Option{}
	if err := tx.Table(c.optionTable()).Select("id", "name").Order("name").Find(&options).Error; err != nil {
		return nil, internalError("failed to list "+string(c)+" options", err)
	}
	return options, nil
}

// OptionCache stores the serialized catalog listing. Redis backs it in
// production.
type OptionCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const optionCatalogsCacheKey = "options:catalogs"

// OptionService lists the read-only option catalogs
type OptionService struct {
	db     *gorm.DB
	cache  OptionCache
	ttl    time.Duration
	logger *zap.Logger
}

var _ IOptionService = (*OptionService)(nil)

// NewOptionService creates a new OptionService. cache may be nil.
func NewOptionService(db *gorm.DB, cache OptionCache, ttl time.Duration, logger *zap.Logger) *OptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptionService{db: db, cache: cache, ttl: ttl, logger: logger}
}

// ListCatalogs returns both catalogs ordered by name
func (s *OptionService) ListCatalogs(ctx context.Context) (*types.OptionCatalogs, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, optionCatalogsCacheKey); err == nil {
			var catalogs types.OptionCatalogs
			if err := json.Unmarshal(cached, &catalogs); err == nil {
				return &catalogs, nil
			}
			s.logger.Warn("discarding malformed option cache entry")
		} else {
			s.logger.Debug("option cache miss", zap.Error(err))
		}
	}

	db := s.db.WithContext(ctx)
	dietary, err := listCatalog(db, CatalogDietary)
	if err != nil {
		return nil, err
	}
	allergy, err := listCatalog(db, CatalogAllergy)
	if err != nil {
		return nil, err
	}
	catalogs := &types.OptionCatalogs{DietaryOptions: dietary, AllergyOptions: allergy}

	if s.cache != nil && s.ttl > 0 {
		payload, err := json.Marshal(catalogs)
		if err == nil {
			err = s.cache.Set(ctx, optionCatalogsCacheKey, payload, s.ttl)
		}
		if err != nil {
			s.logger.Warn("failed to cache option catalogs", zap.Error(err))
		}
	}
	return catalogs, nil
}
