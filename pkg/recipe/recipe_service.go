package recipe

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/entities"
	"Recipe-Generator/internal/utils"
	"Recipe-Generator/internal/utils/storage"
	"Recipe-Generator/pkg/generation"
	"Recipe-Generator/pkg/ingredient"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const exportFolder = "exports"

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, limit int) ([]domain.RecipeView, error)
		GetRecipeDetail(ctx context.Context, recipeID string) (domain.RecipeView, error)
		GenerateRecipes(ctx context.Context, req domain.GenerateRecipesRequest) (domain.GenerateRecipesResponse, error)
		SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest) (domain.SaveRecipeResponse, error)
		DeleteRecipe(ctx context.Context, req domain.DeleteRecipeRequest) (domain.DeleteRecipeResponse, error)
		ExportRecipes(ctx context.Context) (domain.ExportRecipesResponse, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		ingredientService ingredient.IngredientService
		drafter           *recipeDrafter
		s3                storage.AwsS3
		now               func() time.Time
	}
)

// NewRecipeService wires the recipe use cases. generator and s3 may be nil:
// generation and export then fail with a configuration error.
func NewRecipeService(
	recipeRepository RecipeRepository,
	ingredientService ingredient.IngredientService,
	generator generation.Generator,
	s3 storage.AwsS3,
	language string,
) RecipeService {
	s := &recipeService{
		recipeRepository:  recipeRepository,
		ingredientService: ingredientService,
		s3:                s3,
		now:               time.Now,
	}
	if generator != nil {
		s.drafter = newRecipeDrafter(generator, language)
	}
	return s
}

func (s *recipeService) GetRecipes(ctx context.Context, limit int) ([]domain.RecipeView, error) {
	if limit < 0 {
		return nil, &domain.ValidationError{Field: "limit", Constraint: "min", Param: "0", Value: limit}
	}
	recipes, err := s.recipeRepository.GetRecipes(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, recipes)
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string) (domain.RecipeView, error) {
	if strings.TrimSpace(recipeID) == "" {
		return domain.RecipeView{}, &domain.ValidationError{Field: "id", Constraint: "required"}
	}
	rec, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeView{}, err
	}
	views, err := s.reconcile(ctx, []entities.RecipeRecord{rec})
	if err != nil {
		return domain.RecipeView{}, err
	}
	return views[0], nil
}

func (s *recipeService) reconcile(ctx context.Context, recipes []entities.RecipeRecord) ([]domain.RecipeView, error) {
	if len(recipes) == 0 {
		return []domain.RecipeView{}, nil
	}
	joins, err := s.recipeRepository.GetJoins(ctx)
	if err != nil {
		return nil, err
	}
	instructions, err := s.recipeRepository.GetInstructions(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.ingredientService.NameIndex(ctx)
	if err != nil {
		return nil, err
	}
	return Reconcile(recipes, joins, instructions, names), nil
}

func (s *recipeService) GenerateRecipes(ctx context.Context, req domain.GenerateRecipesRequest) (domain.GenerateRecipesResponse, error) {
	if s.drafter == nil {
		return domain.GenerateRecipesResponse{}, &domain.GenerationError{
			Message: "recipe generation unavailable",
			Err:     domain.ErrGenerationUnavailable,
		}
	}
	if req.Serving == 0 {
		req.Serving = domain.DefaultServing
	}
	if err := utils.ValidateStruct(req); err != nil {
		return domain.GenerateRecipesResponse{}, err
	}

	candidates, err := s.drafter.draft(ctx, req)
	if err != nil {
		return domain.GenerateRecipesResponse{}, err
	}
	log.Infow("recipes generated", "count", len(candidates), "ingredients", len(req.Ingredients), "serving", req.Serving)
	return domain.GenerateRecipesResponse{Recipes: candidates, Total: len(candidates)}, nil
}

// SaveRecipe persists a candidate as a recipe plus its join and instruction
// rows. Ingredient ids unknown to the store are skipped. Nothing is rolled
// back when a later write fails.
func (s *recipeService) SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest) (domain.SaveRecipeResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return domain.SaveRecipeResponse{}, err
	}
	c := req.Recipe

	names, err := s.ingredientService.NameIndex(ctx)
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	rec, err := s.recipeRepository.CreateRecipe(ctx, entities.RecipeFields{
		Title:           strings.TrimSpace(c.Title),
		Description:     c.Description,
		Serving:         c.Serving,
		PreparationTime: c.PreparationTime,
		CookingTime:     c.CookingTime,
		Difficulty:      c.Difficulty,
		Cuisine:         c.Cuisine,
		Type:            c.Type,
	})
	if err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	res := domain.SaveRecipeResponse{ID: rec.ID, IngredientsSkipped: []string{}}

	joins := make([]entities.JoinFields, 0, len(c.Ingredients))
	for _, ing := range c.Ingredients {
		if _, ok := names[ing.ID]; !ok {
			log.Warnw("skipping unknown ingredient", "recipe", rec.ID, "ingredient", ing.ID, "name", ing.Name)
			res.IngredientsSkipped = append(res.IngredientsSkipped, ing.ID)
			continue
		}
		joins = append(joins, entities.JoinFields{
			Recipes:    []string{rec.ID},
			Ingredient: []string{ing.ID},
			Quantity:   entities.NumberQuantity(ing.Quantity),
			Unit:       ing.Unit,
		})
	}
	if res.IngredientsSaved, err = s.recipeRepository.CreateJoins(ctx, joins); err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	steps := make([]entities.InstructionFields, 0, len(c.Instructions))
	for _, in := range c.Instructions {
		order := in.Order
		steps = append(steps, entities.InstructionFields{
			Recipes:     []string{rec.ID},
			Instruction: in.Text,
			Order:       &order,
		})
	}
	if res.InstructionsSaved, err = s.recipeRepository.CreateInstructions(ctx, steps); err != nil {
		return domain.SaveRecipeResponse{}, err
	}

	log.Infow("recipe saved", "id", rec.ID, "ingredients", res.IngredientsSaved, "skipped", len(res.IngredientsSkipped), "instructions", res.InstructionsSaved)
	return res, nil
}

// DeleteRecipe removes the recipe, then every join and instruction that
// belonged to it alone. Rows shared with other recipes only lose the id.
// Links must be read before the recipe is deleted: Airtable strips a deleted
// record's id from every linked field that pointed at it.
func (s *recipeService) DeleteRecipe(ctx context.Context, req domain.DeleteRecipeRequest) (domain.DeleteRecipeResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return domain.DeleteRecipeResponse{}, err
	}
	id := req.RecipeID
	if _, err := s.recipeRepository.GetRecipeByID(ctx, id); err != nil {
		return domain.DeleteRecipeResponse{}, err
	}

	joins, err := s.recipeRepository.GetJoins(ctx)
	if err != nil {
		return domain.DeleteRecipeResponse{}, err
	}
	var orphanJoins []string
	sharedJoins := map[string][]string{}
	for _, j := range joins {
		rest, member := without(j.Fields.Recipes, id)
		switch {
		case !member:
		case len(rest) == 0:
			orphanJoins = append(orphanJoins, j.ID)
		default:
			sharedJoins[j.ID] = rest
		}
	}

	instructions, err := s.recipeRepository.GetInstructions(ctx)
	if err != nil {
		return domain.DeleteRecipeResponse{}, err
	}
	var orphanSteps []string
	sharedSteps := map[string][]string{}
	for _, in := range instructions {
		rest, member := without(in.Fields.Recipes, id)
		switch {
		case !member:
		case len(rest) == 0:
			orphanSteps = append(orphanSteps, in.ID)
		default:
			sharedSteps[in.ID] = rest
		}
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		return domain.DeleteRecipeResponse{}, err
	}
	res := domain.DeleteRecipeResponse{ID: id}

	for joinID, rest := range sharedJoins {
		if err := s.recipeRepository.SetJoinRecipes(ctx, joinID, rest); err != nil {
			return res, err
		}
		res.JoinsDetached++
	}
	if err := s.recipeRepository.DeleteJoins(ctx, orphanJoins); err != nil {
		return res, err
	}
	res.JoinsDeleted = len(orphanJoins)

	for stepID, rest := range sharedSteps {
		if err := s.recipeRepository.SetInstructionRecipes(ctx, stepID, rest); err != nil {
			return res, err
		}
		res.InstructionsDetached++
	}
	if err := s.recipeRepository.DeleteInstructions(ctx, orphanSteps); err != nil {
		return res, err
	}
	res.InstructionsDeleted = len(orphanSteps)

	log.Infow("recipe deleted", "id", id, "joins_deleted", res.JoinsDeleted, "joins_detached", res.JoinsDetached,
		"instructions_deleted", res.InstructionsDeleted, "instructions_detached", res.InstructionsDetached)
	return res, nil
}

func (s *recipeService) ExportRecipes(ctx context.Context) (domain.ExportRecipesResponse, error) {
	if s.s3 == nil {
		return domain.ExportRecipesResponse{}, domain.ErrExportNotConfigured
	}
	views, err := s.GetRecipes(ctx, 0)
	if err != nil {
		return domain.ExportRecipesResponse{}, err
	}

	now := s.now().UTC()
	body, err := json.Marshal(struct {
		ExportedAt string              `json:"exportedAt"`
		Count      int                 `json:"count"`
		Recipes    []domain.RecipeView `json:"recipes"`
	}{now.Format(time.RFC3339), len(views), views})
	if err != nil {
		return domain.ExportRecipesResponse{}, err
	}

	key, err := s.s3.UploadJSON(ctx, exportFolder, "recipes-"+now.Format("20060102T150405Z")+".json", body)
	if err != nil {
		return domain.ExportRecipesResponse{}, err
	}
	log.Infow("recipes exported", "key", key, "count", len(views))
	return domain.ExportRecipesResponse{Key: key, URL: s.s3.GetPublicLinkKey(key), Count: len(views)}, nil
}

// without returns ids minus every occurrence of id and whether id was there.
func without(ids []string, id string) ([]string, bool) {
	rest := make([]string, 0, len(ids))
	found := false
	for _, v := range ids {
		if v == id {
			found = true
			continue
		}
		rest = append(rest, v)
	}
	return rest, found
}
