package recipe

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/entities"
	"Recipe-Generator/pkg/generation"
	"Recipe-Generator/pkg/ingredient"
	"Recipe-Generator/pkg/store"
	"Recipe-Generator/pkg/store/storetest"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type stubGenerator struct {
	raw   string
	err   error
	calls []generation.ObjectRequest
}

func (g *stubGenerator) GenerateJSON(_ context.Context, req generation.ObjectRequest) ([]byte, error) {
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return []byte(g.raw), nil
}

func (g *stubGenerator) Provider() string { return "stub" }

type stubS3 struct {
	folder, name string
	body         []byte
}

func (s *stubS3) UploadJSON(_ context.Context, folder, name string, body []byte) (string, error) {
	s.folder, s.name, s.body = folder, name, body
	return folder + "/" + name, nil
}

func (s *stubS3) GetPublicLinkKey(key string) string { return "https://bucket.example/" + key }

// linkedStore strips a deleted recipe's id from the Recipes links of joins and
// instructions, the way Airtable maintains linked-record fields.
type linkedStore struct {
	store.RecordStore
}

func (l linkedStore) Delete(ctx context.Context, table, id string) error {
	if err := l.RecordStore.Delete(ctx, table, id); err != nil {
		return err
	}
	if table != store.TableRecipes {
		return nil
	}
	for _, linked := range []string{store.TableJoins, store.TableInstructions} {
		records, err := l.RecordStore.List(ctx, linked, store.ListOptions{})
		if err != nil {
			return err
		}
		for _, rec := range records {
			kept := []string{}
			for _, v := range linkIDs(rec.Fields[entities.FieldRecipes]) {
				if v != id {
					kept = append(kept, v)
				}
			}
			if _, err := l.RecordStore.Update(ctx, linked, rec.ID, entities.Fields{entities.FieldRecipes: kept}); err != nil {
				return err
			}
		}
	}
	return nil
}

func linkIDs(v any) []string {
	switch ids := v.(type) {
	case []string:
		return ids
	case []any:
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if s, ok := id.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func candidateJSON(title string, serving float64, ingID, ingName string) map[string]any {
	return map[string]any{
		"title":           title,
		"description":     "A simple dish",
		"serving":         serving,
		"preparationTime": 10,
		"cookingTime":     20,
		"difficulty":      "easy",
		"type":            nil,
		"ingredients": []map[string]any{
			{"id": ingID, "name": ingName, "quantity": 150 * serving, "unit": "g"},
		},
		"instructions": []map[string]any{
			{"text": "Cut", "order": 1},
			{"text": "Cook", "order": 2},
		},
	}
}

func recipesJSON(items ...map[string]any) string {
	raw, _ := json.Marshal(map[string]any{"recipes": items})
	return string(raw)
}

type RecipeServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	store       store.RecordStore
	generator   *stubGenerator
	s3          *stubS3
	ingredients ingredient.IngredientService
	service     RecipeService
}

func (s *RecipeServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = storetest.NewSQLite(s.T())
	s.generator = &stubGenerator{}
	s.s3 = &stubS3{}
	s.ingredients = ingredient.NewIngredientService(ingredient.NewIngredientRepository(s.store))
	s.service = NewRecipeService(NewRecipeRepository(s.store), s.ingredients, s.generator, s.s3, "English")
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}

func (s *RecipeServiceTestSuite) addIngredient(name string) string {
	ing, err := s.ingredients.AddIngredient(s.ctx, domain.AddIngredientRequest{Name: name})
	s.Require().NoError(err)
	return ing.ID
}

func (s *RecipeServiceTestSuite) saveCandidate(title string, ingredientIDs ...string) string {
	c := &domain.RecipeCandidate{Title: title, Instructions: []domain.CandidateInstruction{{Text: "Serve", Order: 1}}}
	for _, id := range ingredientIDs {
		c.Ingredients = append(c.Ingredients, domain.CandidateIngredient{ID: id, Name: id, Quantity: 1, Unit: "pc"})
	}
	res, err := s.service.SaveRecipe(s.ctx, domain.SaveRecipeRequest{Recipe: c})
	s.Require().NoError(err)
	return res.ID
}

func (s *RecipeServiceTestSuite) TestGenerateReturnsCandidatesForServing() {
	s.generator.raw = recipesJSON(
		candidateJSON("Tarte", 2, "rec1", "Pomme"),
		candidateJSON("Compote", 2, "rec1", "Pomme"),
		candidateJSON("Crumble", 2, "rec1", "Pomme"),
		candidateJSON("Beignets", 2, "rec1", "Pomme"),
	)

	res, err := s.service.GenerateRecipes(s.ctx, domain.GenerateRecipesRequest{
		Ingredients: []domain.IngredientRef{{ID: "rec1", Name: "Pomme"}},
		Serving:     2,
	})
	s.Require().NoError(err)
	s.Equal(4, res.Total)
	s.GreaterOrEqual(len(res.Recipes), domain.MinRecipeCandidates)
	for _, c := range res.Recipes {
		s.NotEmpty(c.DraftID)
		s.Require().NotNil(c.Serving)
		s.Equal(2.0, *c.Serving)
		s.Equal("Pomme", c.Ingredients[0].Name)
		s.Equal(300.0, c.Ingredients[0].Quantity)
	}

	s.Require().Len(s.generator.calls, 1)
	call := s.generator.calls[0]
	s.Contains(call.System, "English")
	s.Contains(call.Prompt, `"name":"Pomme"`)
	s.Contains(call.Prompt, "Intolerances to avoid: none")
	s.Contains(call.Prompt, "Servings: 2")
	s.Equal(recipeTemperature, call.Temperature)
}

func (s *RecipeServiceTestSuite) TestGenerateTruncatesToMaximum() {
	items := make([]map[string]any, 0, 12)
	for i := 0; i < 12; i++ {
		items = append(items, candidateJSON(fmt.Sprintf("Recipe %d", i), 1, "rec1", "Pomme"))
	}
	s.generator.raw = recipesJSON(items...)

	res, err := s.service.GenerateRecipes(s.ctx, domain.GenerateRecipesRequest{
		Ingredients: []domain.IngredientRef{{ID: "rec1", Name: "Pomme"}},
	})
	s.Require().NoError(err)
	s.Len(res.Recipes, domain.MaxRecipeCandidates)
}

func (s *RecipeServiceTestSuite) TestGenerateDropsInvalidAndMismatchedCandidates() {
	noTitle := candidateJSON("", 1, "rec1", "Pomme")
	noServing := candidateJSON("Salade", 1, "rec1", "Pomme")
	delete(noServing, "serving")
	s.generator.raw = recipesJSON(
		noTitle,
		candidateJSON("Pour deux", 2, "rec1", "Pomme"),
		noServing,
		candidateJSON("Tarte", 1, "rec1", "Pomme"),
	)

	res, err := s.service.GenerateRecipes(s.ctx, domain.GenerateRecipesRequest{
		Ingredients: []domain.IngredientRef{{ID: "rec1", Name: "Pomme"}},
		Serving:     1,
	})
	s.Require().NoError(err)
	s.Require().Len(res.Recipes, 2)
	s.Equal("Salade", res.Recipes[0].Title)
	s.Equal(1.0, *res.Recipes[0].Serving)
	s.Equal("Tarte", res.Recipes[1].Title)
}

func (s *RecipeServiceTestSuite) TestGenerateEmptyResultIsGenerationError() {
	s.generator.raw = `{"recipes": []}`

	_, err := s.service.GenerateRecipes(s.ctx, domain.GenerateRecipesRequest{
		Ingredients:  []domain.IngredientRef{{ID: "rec1", Name: "Pomme"}},
		Intolerances: []string{"pomme"},
	})
	var genErr *domain.GenerationError
	s.Require().True(errors.As(err, &genErr))
	s.ErrorIs(err, domain.ErrNoFeasibleRecipe)
	s.Contains(s.generator.calls[0].Prompt, "Intolerances to avoid: pomme")
}

func (s *RecipeServiceTestSuite) TestGenerateRejectsEmptyIngredients() {
	_, err := s.service.GenerateRecipes(s.ctx, domain.GenerateRecipesRequest{})
	var verr *domain.ValidationError
	s.Require().True(errors.As(err, &verr))
	s.Equal("ingredients", verr.Field)
	s.Empty(s.generator.calls)
}

func (s *RecipeServiceTestSuite) TestGenerateWithoutGenerator() {
	svc := NewRecipeService(NewRecipeRepository(s.store), s.ingredients, nil, nil, "")
	_, err := svc.GenerateRecipes(s.ctx, domain.GenerateRecipesRequest{
		Ingredients: []domain.IngredientRef{{ID: "rec1", Name: "Pomme"}},
	})
	s.ErrorIs(err, domain.ErrGenerationUnavailable)
}

func (s *RecipeServiceTestSuite) TestSaveDropsUnknownIngredients() {
	pomme := s.addIngredient("Pomme")
	serving := 2.0

	res, err := s.service.SaveRecipe(s.ctx, domain.SaveRecipeRequest{Recipe: &domain.RecipeCandidate{
		Title:   "Tarte aux pommes",
		Serving: &serving,
		Ingredients: []domain.CandidateIngredient{
			{ID: pomme, Name: "Pomme", Quantity: 300, Unit: "g"},
			{ID: "recUnknown", Name: "Beurre", Quantity: 50, Unit: "g"},
		},
		Instructions: []domain.CandidateInstruction{
			{Text: "Bake", Order: 2},
			{Text: "Slice", Order: 1},
		},
	}})
	s.Require().NoError(err)
	s.NotEmpty(res.ID)
	s.Equal(1, res.IngredientsSaved)
	s.Equal([]string{"recUnknown"}, res.IngredientsSkipped)
	s.Equal(2, res.InstructionsSaved)

	view, err := s.service.GetRecipeDetail(s.ctx, res.ID)
	s.Require().NoError(err)
	s.Equal("Tarte aux pommes", view.Title)
	s.Equal(&serving, view.Serving)
	s.Nil(view.CookingTime)
	s.Equal([]domain.RecipeIngredient{{ID: pomme, Name: "Pomme", Quantity: 300, Unit: "g"}}, view.Ingredients)
	s.Equal([]domain.RecipeInstruction{{Text: "Slice", Order: 1}, {Text: "Bake", Order: 2}}, view.Instructions)
}

func (s *RecipeServiceTestSuite) TestSaveRejectsInvalidCandidate() {
	_, err := s.service.SaveRecipe(s.ctx, domain.SaveRecipeRequest{Recipe: &domain.RecipeCandidate{Title: "No steps"}})
	var verr *domain.ValidationError
	s.Require().True(errors.As(err, &verr))

	list, err := s.service.GetRecipes(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *RecipeServiceTestSuite) TestGetRecipesSortedAndLimited() {
	for _, title := range []string{"Soupe", "Crumble", "Omelette"} {
		s.saveCandidate(title)
	}

	all, err := s.service.GetRecipes(s.ctx, 0)
	s.Require().NoError(err)
	titles := []string{}
	for _, v := range all {
		titles = append(titles, v.Title)
		s.NotNil(v.Ingredients)
		s.Len(v.Instructions, 1)
	}
	s.Equal([]string{"Crumble", "Omelette", "Soupe"}, titles)

	limited, err := s.service.GetRecipes(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(limited, 2)

	_, err = s.service.GetRecipes(s.ctx, -1)
	var verr *domain.ValidationError
	s.True(errors.As(err, &verr))
}

func (s *RecipeServiceTestSuite) TestDeleteCascadesAndDetachesSharedRows() {
	pomme := s.addIngredient("Pomme")
	a := s.saveCandidate("A", pomme)
	b := s.saveCandidate("B", pomme)

	_, err := s.store.Create(s.ctx, store.TableJoins, entities.JoinFields{
		Recipes:    []string{a, b},
		Ingredient: []string{pomme},
		Quantity:   entities.NumberQuantity(2),
	}.ToFields())
	s.Require().NoError(err)
	order := 5
	_, err = s.store.Create(s.ctx, store.TableInstructions, entities.InstructionFields{
		Recipes:     []string{b, a},
		Instruction: "Share",
		Order:       &order,
	}.ToFields())
	s.Require().NoError(err)

	res, err := s.service.DeleteRecipe(s.ctx, domain.DeleteRecipeRequest{RecipeID: a})
	s.Require().NoError(err)
	s.Equal(domain.DeleteRecipeResponse{
		ID:                   a,
		JoinsDeleted:         1,
		JoinsDetached:        1,
		InstructionsDeleted:  1,
		InstructionsDetached: 1,
	}, res)

	_, err = s.service.GetRecipeDetail(s.ctx, a)
	var se *domain.StoreError
	s.Require().True(errors.As(err, &se))
	s.True(se.NotFound())

	view, err := s.service.GetRecipeDetail(s.ctx, b)
	s.Require().NoError(err)
	s.Len(view.Ingredients, 2)
	s.Len(view.Instructions, 2)

	joins, err := s.store.List(s.ctx, store.TableJoins, store.ListOptions{})
	s.Require().NoError(err)
	s.Len(joins, 2)
}

func (s *RecipeServiceTestSuite) TestDeleteCascadesWhenStoreStripsLinks() {
	linked := linkedStore{RecordStore: s.store}
	s.service = NewRecipeService(NewRecipeRepository(linked), s.ingredients, s.generator, s.s3, "English")
	pomme := s.addIngredient("Pomme")
	a := s.saveCandidate("A", pomme)
	b := s.saveCandidate("B", pomme)

	_, err := s.store.Create(s.ctx, store.TableJoins, entities.JoinFields{
		Recipes:    []string{a, b},
		Ingredient: []string{pomme},
		Quantity:   entities.NumberQuantity(2),
	}.ToFields())
	s.Require().NoError(err)

	res, err := s.service.DeleteRecipe(s.ctx, domain.DeleteRecipeRequest{RecipeID: a})
	s.Require().NoError(err)
	s.Equal(1, res.JoinsDeleted)
	s.Equal(1, res.JoinsDetached)
	s.Equal(1, res.InstructionsDeleted)

	joins, err := s.store.List(s.ctx, store.TableJoins, store.ListOptions{})
	s.Require().NoError(err)
	s.Len(joins, 2)
	for _, j := range joins {
		s.Equal([]string{b}, linkIDs(j.Fields[entities.FieldRecipes]))
	}
	steps, err := s.store.List(s.ctx, store.TableInstructions, store.ListOptions{})
	s.Require().NoError(err)
	s.Require().Len(steps, 1)
	s.Equal([]string{b}, linkIDs(steps[0].Fields[entities.FieldRecipes]))

	_, err = s.service.DeleteRecipe(s.ctx, domain.DeleteRecipeRequest{RecipeID: b})
	s.Require().NoError(err)
	joins, err = s.store.List(s.ctx, store.TableJoins, store.ListOptions{})
	s.Require().NoError(err)
	s.Empty(joins)
	steps, err = s.store.List(s.ctx, store.TableInstructions, store.ListOptions{})
	s.Require().NoError(err)
	s.Empty(steps)
}

func (s *RecipeServiceTestSuite) TestReadsIgnoreStoredTextLength() {
	long := strings.Repeat("x", 1001)
	_, err := s.store.Create(s.ctx, store.TableIngredients, entities.IngredientFields{Name: long}.ToFields())
	s.Require().NoError(err)
	_, err = s.store.Create(s.ctx, store.TableRecipes, entities.RecipeFields{Title: "Soupe", Description: long}.ToFields())
	s.Require().NoError(err)

	views, err := s.service.GetRecipes(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(views, 1)
	s.Equal(long, views[0].Description)
}

func (s *RecipeServiceTestSuite) TestDeleteMissingRecipeIsStoreError() {
	_, err := s.service.DeleteRecipe(s.ctx, domain.DeleteRecipeRequest{RecipeID: "recMissing"})
	var se *domain.StoreError
	s.Require().True(errors.As(err, &se))
	s.True(se.NotFound())
}

func (s *RecipeServiceTestSuite) TestExportUploadsDenormalizedRecipes() {
	pomme := s.addIngredient("Pomme")
	s.saveCandidate("Tarte", pomme)
	s.service.(*recipeService).now = func() time.Time {
		return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	}

	res, err := s.service.ExportRecipes(s.ctx)
	s.Require().NoError(err)
	s.Equal("exports/recipes-20250304T050607Z.json", res.Key)
	s.Equal("https://bucket.example/"+res.Key, res.URL)
	s.Equal(1, res.Count)

	var doc struct {
		Count   int                 `json:"count"`
		Recipes []domain.RecipeView `json:"recipes"`
	}
	s.Require().NoError(json.Unmarshal(s.s3.body, &doc))
	s.Equal(1, doc.Count)
	s.Equal("Pomme", doc.Recipes[0].Ingredients[0].Name)
	s.True(strings.HasPrefix(s.s3.name, "recipes-"))
}

func (s *RecipeServiceTestSuite) TestExportWithoutStorage() {
	svc := NewRecipeService(NewRecipeRepository(s.store), s.ingredients, s.generator, nil, "")
	_, err := svc.ExportRecipes(s.ctx)
	s.ErrorIs(err, domain.ErrExportNotConfigured)
}
