package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessGenerateRecipes = "recipes generated successfully"
	MessageSuccessSaveRecipe      = "recipe saved successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessExportRecipes   = "recipes exported successfully"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedGenerateRecipes = "failed to generate recipes"
	MessageFailedSaveRecipe      = "failed to save recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedExportRecipes   = "failed to export recipes"

	ErrExportNotConfigured   = errors.New("recipe export storage is not configured")
	ErrNoFeasibleRecipe      = errors.New("no feasible recipe for the given ingredients and intolerances; change the ingredients or relax the restrictions")
	ErrGenerationUnavailable = errors.New("recipe generator is not configured")
)

const (
	MinRecipeCandidates = 3
	MaxRecipeCandidates = 10
	DefaultServing      = 1

	UntitledRecipe = "Untitled recipe"
)

type (
	IngredientRef struct {
		ID   string `json:"id" validate:"required"`
		Name string `json:"name" validate:"required,max=100"`
	}

	GenerateRecipesRequest struct {
		Ingredients  []IngredientRef `json:"ingredients" validate:"required,min=1,dive"`
		Intolerances []string        `json:"intolerances" validate:"omitempty,dive,required,max=100"`
		Serving      int             `json:"serving" validate:"omitempty,min=1,max=50"`
		Genre        string          `json:"genre,omitempty" validate:"omitempty,max=50"`
	}

	CandidateIngredient struct {
		ID       string  `json:"id" validate:"required"`
		Name     string  `json:"name" validate:"required,max=100"`
		Quantity float64 `json:"quantity" validate:"min=0"`
		Unit     string  `json:"unit" validate:"max=50"`
	}

	CandidateInstruction struct {
		Text  string `json:"text" validate:"required,max=2000"`
		Order int    `json:"order" validate:"min=1"`
	}

	// RecipeCandidate is one generated recipe, either freshly produced by the
	// generator or sent back by the client to be saved. Numeric fields that
	// the generator may omit are pointers: nil means unknown, not zero.
	RecipeCandidate struct {
		DraftID         string                 `json:"draftId,omitempty"`
		Title           string                 `json:"title" validate:"required,max=200"`
		Description     string                 `json:"description" validate:"max=1000"`
		Serving         *float64               `json:"serving,omitempty" validate:"omitempty,min=1,max=50"`
		PreparationTime *float64               `json:"preparationTime,omitempty" validate:"omitempty,min=0,max=1440"`
		CookingTime     *float64               `json:"cookingTime,omitempty" validate:"omitempty,min=0,max=1440"`
		Difficulty      string                 `json:"difficulty,omitempty" validate:"max=50"`
		Cuisine         string                 `json:"cuisine,omitempty" validate:"max=50"`
		Type            string                 `json:"type,omitempty" validate:"max=50"`
		Ingredients     []CandidateIngredient  `json:"ingredients" validate:"required,min=1,dive"`
		Instructions    []CandidateInstruction `json:"instructions" validate:"required,min=1,dive"`
	}

	GenerateRecipesResponse struct {
		Recipes []RecipeCandidate `json:"recipes"`
		Total   int               `json:"total"`
	}

	SaveRecipeRequest struct {
		Recipe *RecipeCandidate `json:"recipe" validate:"required"`
	}

	SaveRecipeResponse struct {
		ID                 string   `json:"id"`
		IngredientsSaved   int      `json:"ingredients_saved"`
		IngredientsSkipped []string `json:"ingredients_skipped"`
		InstructionsSaved  int      `json:"instructions_saved"`
	}

	DeleteRecipeRequest struct {
		RecipeID string `json:"recipeId" validate:"required"`
	}

	DeleteRecipeResponse struct {
		ID                   string `json:"id"`
		JoinsDeleted         int    `json:"joins_deleted"`
		JoinsDetached        int    `json:"joins_detached"`
		InstructionsDeleted  int    `json:"instructions_deleted"`
		InstructionsDetached int    `json:"instructions_detached"`
	}

	RecipeIngredient struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
	}

	RecipeInstruction struct {
		Text  string `json:"text"`
		Order int    `json:"order"`
	}

	// RecipeView is a stored recipe with its ingredient and instruction lists
	// resolved from the join tables at read time.
	RecipeView struct {
		ID              string              `json:"id"`
		CreatedTime     string              `json:"createdTime,omitempty"`
		Title           string              `json:"title"`
		Description     string              `json:"description"`
		Serving         *float64            `json:"serving"`
		PreparationTime *float64            `json:"preparationTime"`
		CookingTime     *float64            `json:"cookingTime"`
		Difficulty      string              `json:"difficulty,omitempty"`
		Cuisine         string              `json:"cuisine,omitempty"`
		Type            string              `json:"type,omitempty"`
		Ingredients     []RecipeIngredient  `json:"ingredients"`
		Instructions    []RecipeInstruction `json:"instructions"`
	}

	ExportRecipesResponse struct {
		Key   string `json:"key"`
		URL   string `json:"url"`
		Count int    `json:"count"`
	}
)
