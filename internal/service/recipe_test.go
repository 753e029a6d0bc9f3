package service_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mealmajor/mealmajor/backend/internal/events"
	"github.com/mealmajor/mealmajor/backend/internal/models"
	"github.com/mealmajor/mealmajor/backend/internal/service"
	"github.com/mealmajor/mealmajor/backend/internal/testhelpers"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.RecipeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.RecipeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type recipeFixture struct {
	db         *gorm.DB
	svc        *service.RecipeService
	publisher  *recordingPublisher
	owner      *models.User
	other      *models.User
	vegan      uint
	glutenFree uint
	keto       uint
	peanuts    uint
	shellfish  uint
}

func setupRecipeTest(t *testing.T) *recipeFixture {
	db := testhelpers.SetupTestDB(t)
	publisher := &recordingPublisher{}

	dietary := testhelpers.CreateDietaryOptions(t, db, "Vegan", "Gluten-Free", "Keto")
	allergy := testhelpers.CreateAllergyOptions(t, db, "Peanuts", "Shellfish")

	return &recipeFixture{
		db:         db,
		svc:        service.NewRecipeService(db, publisher, nil),
		publisher:  publisher,
		owner:      testhelpers.CreateTestUser(t, db, "Ada", "Lovelace", "ada@example.com"),
		other:      testhelpers.CreateTestUser(t, db, "Grace", "Hopper", "grace@example.com"),
		vegan:      dietary[0],
		glutenFree: dietary[1],
		keto:       dietary[2],
		peanuts:    allergy[0],
		shellfish:  allergy[1],
	}
}

func validRecipe() *types.RecipeRequest {
	return &types.RecipeRequest{
		Title:                  "Chickpea Curry",
		Ingredients:            "chickpeas, tomatoes, coconut milk",
		Instructions:           "Simmer everything for 20 minutes.",
		Cuisine:                "Indian",
		PreparationTimeMinutes: 10,
		CookingTimeMinutes:     20,
		PreparationSteps:       4,
		Difficulty:             2,
		CostLevel:              1,
		Servings:               4,
	}
}

func (f *recipeFixture) countRows(t *testing.T, model interface{}) int64 {
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func TestCreateRecipe(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	req := validRecipe()
	req.Title = "  Chickpea Curry  "
	req.DietaryOptionIDs = []uint{f.glutenFree, f.vegan, f.vegan}
	req.AllergyOptionIDs = []uint{f.peanuts}

	id, err := f.svc.CreateRecipe(ctx, f.owner.ID, req)
	require.NoError(t, err)
	assert.NotZero(t, id)

	detail, err := f.svc.GetRecipe(ctx, id, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chickpea Curry", detail.Title)
	assert.Equal(t, f.owner.ID, detail.OwnerID)
	assert.Equal(t, "Ada Lovelace", detail.AuthorName)
	assert.Equal(t, []uint{f.vegan, f.glutenFree}, detail.DietaryOptionIDs)
	assert.Equal(t, []uint{f.peanuts}, detail.AllergyOptionIDs)
	assert.Equal(t, int64(2), f.countRows(t, &models.RecipeDietaryOption{}))

	assert.Equal(t, []events.EventType{events.RecipeCreated}, f.publisher.types())
	assert.Equal(t, id, f.publisher.events[0].RecipeID)
	assert.Equal(t, f.owner.ID, f.publisher.events[0].OwnerID)
}

func TestCreateRecipeClampsNumericFields(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	req := validRecipe()
	req.PreparationTimeMinutes = 0
	req.CookingTimeMinutes = -5
	req.PreparationSteps = 0
	req.Difficulty = 9
	req.CostLevel = -1
	req.Servings = 0

	id, err := f.svc.CreateRecipe(ctx, f.owner.ID, req)
	require.NoError(t, err)

	detail, err := f.svc.GetRecipe(ctx, id, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.PreparationTimeMinutes)
	assert.Equal(t, 0, detail.CookingTimeMinutes)
	assert.Equal(t, 1, detail.PreparationSteps)
	assert.Equal(t, 5, detail.Difficulty)
	assert.Equal(t, 1, detail.CostLevel)
	assert.Equal(t, 1, detail.Servings)
	assert.Empty(t, detail.DietaryOptionIDs)
	assert.NotNil(t, detail.DietaryOptionIDs)
}

func TestCreateRecipeClampsOversizedNumbers(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	req := validRecipe()
	req.PreparationTimeMinutes = 3000000000
	req.CookingTimeMinutes = math.MaxInt64
	req.PreparationSteps = 1 << 40
	req.Servings = 5000000000

	id, err := f.svc.CreateRecipe(ctx, f.owner.ID, req)
	require.NoError(t, err)

	detail, err := f.svc.GetRecipe(ctx, id, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, detail.PreparationTimeMinutes)
	assert.Equal(t, math.MaxInt32, detail.CookingTimeMinutes)
	assert.Equal(t, math.MaxInt32, detail.PreparationSteps)
	assert.Equal(t, math.MaxInt32, detail.Servings)
}

func TestCreateRecipeValidation(t *testing.T) {
	f := setupRecipeTest(t)

	tests := []struct {
		name    string
		mutate  func(*types.RecipeRequest)
		message string
	}{
		{"blank title", func(r *types.RecipeRequest) { r.Title = "   " }, "Title is required."},
		{"missing ingredients", func(r *types.RecipeRequest) { r.Ingredients = "" }, "Ingredients is required."},
		{"missing instructions", func(r *types.RecipeRequest) { r.Instructions = "\n" }, "Instructions is required."},
		{"missing cuisine", func(r *types.RecipeRequest) { r.Cuisine = "" }, "Cuisine is required."},
		{"long title", func(r *types.RecipeRequest) { r.Title = strings.Repeat("a", 256) }, "Title must be at most 255 characters."},
		{"long cuisine", func(r *types.RecipeRequest) { r.Cuisine = strings.Repeat("b", 256) }, "Cuisine must be at most 255 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRecipe()
			tt.mutate(req)
			_, err := f.svc.CreateRecipe(context.Background(), f.owner.ID, req)
			require.Error(t, err)
			assert.Equal(t, service.KindValidation, service.KindOf(err))
			assert.EqualError(t, err, tt.message)
		})
	}
	assert.Zero(t, f.countRows(t, &models.Recipe{}))
	assert.Empty(t, f.publisher.types())
}

func TestCreateRecipeUnknownOption(t *testing.T) {
	f := setupRecipeTest(t)

	req := validRecipe()
	req.DietaryOptionIDs = []uint{f.vegan}
	req.AllergyOptionIDs = []uint{f.peanuts, 999}

	_, err := f.svc.CreateRecipe(context.Background(), f.owner.ID, req)
	require.Error(t, err)
	assert.Equal(t, service.KindUnknownReference, service.KindOf(err))
	assert.Contains(t, err.Error(), "allergy")
	assert.Contains(t, err.Error(), "999")

	assert.Zero(t, f.countRows(t, &models.Recipe{}))
	assert.Zero(t, f.countRows(t, &models.RecipeDietaryOption{}))
	assert.Empty(t, f.publisher.types())
}

func TestUpdateRecipeReplacesTagSets(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	req := validRecipe()
	req.DietaryOptionIDs = []uint{f.vegan, f.glutenFree}
	req.AllergyOptionIDs = []uint{f.peanuts}
	id, err := f.svc.CreateRecipe(ctx, f.owner.ID, req)
	require.NoError(t, err)

	before, err := f.svc.GetRecipe(ctx, id, f.owner.ID)
	require.NoError(t, err)

	update := validRecipe()
	update.Title = "Chickpea Curry (spicy)"
	update.Servings = 6
	update.DietaryOptionIDs = []uint{f.keto}
	update.AllergyOptionIDs = nil
	require.NoError(t, f.svc.UpdateRecipe(ctx, id, f.owner.ID, update))

	after, err := f.svc.GetRecipe(ctx, id, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chickpea Curry (spicy)", after.Title)
	assert.Equal(t, 6, after.Servings)
	assert.Equal(t, []uint{f.keto}, after.DietaryOptionIDs)
	assert.Empty(t, after.AllergyOptionIDs)
	assert.Equal(t, before.CreatedAt.Unix(), after.CreatedAt.Unix())
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))

	assert.Equal(t, int64(1), f.countRows(t, &models.RecipeDietaryOption{}))
	assert.Zero(t, f.countRows(t, &models.RecipeAllergyOption{}))
	assert.Equal(t, []events.EventType{events.RecipeCreated, events.RecipeUpdated}, f.publisher.types())
}

func TestUpdateRecipeWithSameFieldsSucceeds(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	req := validRecipe()
	req.DietaryOptionIDs = []uint{f.vegan}
	id, err := f.svc.CreateRecipe(ctx, f.owner.ID, req)
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateRecipe(ctx, id, f.owner.ID, req))
	detail, err := f.svc.GetRecipe(ctx, id, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.vegan}, detail.DietaryOptionIDs)
}

func TestUpdateRecipeNotOwned(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	req := validRecipe()
	req.DietaryOptionIDs = []uint{f.vegan}
	id, err := f.svc.CreateRecipe(ctx, f.owner.ID, req)
	require.NoError(t, err)

	update := validRecipe()
	update.Title = "Hijacked"
	err = f.svc.UpdateRecipe(ctx, id, f.other.ID, update)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)

	err = f.svc.UpdateRecipe(ctx, id+100, f.owner.ID, update)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))

	detail, err := f.svc.GetRecipe(ctx, id, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chickpea Curry", detail.Title)
	assert.Equal(t, []uint{f.vegan}, detail.DietaryOptionIDs)
}

func TestUpdateRecipeUnknownOptionRollsBack(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	req := validRecipe()
	req.DietaryOptionIDs = []uint{f.vegan}
	req.AllergyOptionIDs = []uint{f.shellfish}
	id, err := f.svc.CreateRecipe(ctx, f.owner.ID, req)
	require.NoError(t, err)

	update := validRecipe()
	update.Title = "Changed"
	update.DietaryOptionIDs = []uint{f.keto, 4242}
	err = f.svc.UpdateRecipe(ctx, id, f.owner.ID, update)
	require.Error(t, err)
	assert.Equal(t, service.KindUnknownReference, service.KindOf(err))

	detail, err := f.svc.GetRecipe(ctx, id, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chickpea Curry", detail.Title)
	assert.Equal(t, []uint{f.vegan}, detail.DietaryOptionIDs)
	assert.Equal(t, []uint{f.shellfish}, detail.AllergyOptionIDs)
}

func TestDeleteRecipe(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	req := validRecipe()
	req.DietaryOptionIDs = []uint{f.vegan, f.keto}
	req.AllergyOptionIDs = []uint{f.peanuts}
	id, err := f.svc.CreateRecipe(ctx, f.owner.ID, req)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, id, f.other.ID), service.ErrRecipeNotFound)
	assert.Equal(t, int64(1), f.countRows(t, &models.Recipe{}))

	require.NoError(t, f.svc.DeleteRecipe(ctx, id, f.owner.ID))
	assert.Zero(t, f.countRows(t, &models.Recipe{}))
	assert.Zero(t, f.countRows(t, &models.RecipeDietaryOption{}))
	assert.Zero(t, f.countRows(t, &models.RecipeAllergyOption{}))

	_, err = f.svc.GetRecipe(ctx, id, f.owner.ID)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, id, f.owner.ID), service.ErrRecipeNotFound)
	assert.Equal(t, []events.EventType{events.RecipeCreated, events.RecipeDeleted}, f.publisher.types())
}

func TestGetRecipeIsOwnerOnly(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	id, err := f.svc.CreateRecipe(ctx, f.owner.ID, validRecipe())
	require.NoError(t, err)

	_, err = f.svc.GetRecipe(ctx, id, f.other.ID)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)

	detail, err := f.svc.GetBrowseRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", detail.AuthorName)

	_, err = f.svc.GetBrowseRecipe(ctx, id+1)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestListRecipes(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	titles := []string{"First", "Second", "Third"}
	ids := make([]uint, len(titles))
	for i, title := range titles {
		req := validRecipe()
		req.Title = title
		id, err := f.svc.CreateRecipe(ctx, f.owner.ID, req)
		require.NoError(t, err)
		ids[i] = id
	}
	_, err := f.svc.CreateRecipe(ctx, f.other.ID, validRecipe())
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []uint{ids[1], ids[2], ids[0]} {
		require.NoError(t, f.db.Model(&models.Recipe{}).Where("id = ?", id).
			UpdateColumn("updated_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	summaries, err := f.svc.ListRecipes(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "First", summaries[0].Title)
	assert.Equal(t, "Third", summaries[1].Title)
	assert.Equal(t, "Second", summaries[2].Title)

	empty, err := f.svc.ListRecipes(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBrowseRecipes(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	curry := validRecipe()
	curry.DietaryOptionIDs = []uint{f.vegan, f.glutenFree}
	curryID, err := f.svc.CreateRecipe(ctx, f.owner.ID, curry)
	require.NoError(t, err)

	steak := validRecipe()
	steak.Title = "Pepper Steak"
	steak.Cuisine = "French"
	steak.PreparationTimeMinutes = 30
	steak.CookingTimeMinutes = 15
	steak.Difficulty = 4
	steak.CostLevel = 5
	steak.Servings = 2
	steak.DietaryOptionIDs = []uint{f.keto, f.glutenFree}
	steak.AllergyOptionIDs = []uint{f.shellfish}
	steakID, err := f.svc.CreateRecipe(ctx, f.other.ID, steak)
	require.NoError(t, err)

	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name   string
		filter types.BrowseFilter
		want   []uint
	}{
		{"no filter", types.BrowseFilter{}, []uint{steakID, curryID}},
		{"search title", types.BrowseFilter{Search: "pepper"}, []uint{steakID}},
		{"search cuisine", types.BrowseFilter{Search: "INDIAN"}, []uint{curryID}},
		{"search author name", types.BrowseFilter{Search: "grace hop"}, []uint{steakID}},
		{"search author email", types.BrowseFilter{Search: "ada@"}, []uint{curryID}},
		{"search escapes wildcards", types.BrowseFilter{Search: "%"}, []uint{}},
		{"max prep time", types.BrowseFilter{MaxPrepTime: intPtr(10)}, []uint{curryID}},
		{"max cook time", types.BrowseFilter{MaxCookTime: intPtr(15)}, []uint{steakID}},
		{"min servings", types.BrowseFilter{MinServings: intPtr(3)}, []uint{curryID}},
		{"difficulty", types.BrowseFilter{Difficulty: intPtr(4)}, []uint{steakID}},
		{"cost level", types.BrowseFilter{CostLevel: intPtr(1)}, []uint{curryID}},
		{"shared dietary tag", types.BrowseFilter{DietaryOptionIDs: []uint{f.glutenFree}}, []uint{steakID, curryID}},
		{"all dietary tags required", types.BrowseFilter{DietaryOptionIDs: []uint{f.glutenFree, f.vegan}}, []uint{curryID}},
		{"allergy tag", types.BrowseFilter{AllergyOptionIDs: []uint{f.shellfish}}, []uint{steakID}},
		{"combined", types.BrowseFilter{Search: "curry", Difficulty: intPtr(4)}, []uint{}},
		{"limit", types.BrowseFilter{Limit: 1}, []uint{steakID}},
		{"offset", types.BrowseFilter{Limit: 1, Offset: 1}, []uint{curryID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := tt.filter
			results, err := f.svc.BrowseRecipes(ctx, &filter)
			require.NoError(t, err)
			got := make([]uint, len(results))
			for i, r := range results {
				got[i] = r.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}

	results, err := f.svc.BrowseRecipes(ctx, &types.BrowseFilter{Search: "steak"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Grace Hopper", results[0].AuthorName)
	assert.Equal(t, "grace@example.com", results[0].AuthorEmail)
	assert.Equal(t, []string{"Gluten-Free", "Keto"}, results[0].DietaryOptions)
	assert.Equal(t, []string{"Shellfish"}, results[0].AllergyOptions)
}

func TestRecipeEventFailureDoesNotFailWrite(t *testing.T) {
	f := setupRecipeTest(t)
	f.publisher.err = errors.New("broker down")

	id, err := f.svc.CreateRecipe(context.Background(), f.owner.ID, validRecipe())
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, int64(1), f.countRows(t, &models.Recipe{}))
}

func TestConcurrentUpdatesKeepTagSetsSeparate(t *testing.T) {
	f := setupRecipeTest(t)
	ctx := context.Background()

	first, err := f.svc.CreateRecipe(ctx, f.owner.ID, validRecipe())
	require.NoError(t, err)
	second, err := f.svc.CreateRecipe(ctx, f.owner.ID, validRecipe())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, job := range []struct {
		id   uint
		tags []uint
	}{
		{first, []uint{f.vegan}},
		{second, []uint{f.keto, f.glutenFree}},
	} {
		wg.Add(1)
		go func(id uint, tags []uint) {
			defer wg.Done()
			req := validRecipe()
			req.DietaryOptionIDs = tags
			errs <- f.svc.UpdateRecipe(ctx, id, f.owner.ID, req)
		}(job.id, job.tags)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	a, err := f.svc.GetRecipe(ctx, first, f.owner.ID)
	require.NoError(t, err)
	b, err := f.svc.GetRecipe(ctx, second, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.vegan}, a.DietaryOptionIDs)
	assert.ElementsMatch(t, []uint{f.glutenFree, f.keto}, b.DietaryOptionIDs)
}
