package handlers

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/internal/api/presenters"
	"Recipe-Generator/internal/utils"
	"Recipe-Generator/pkg/nutrition"
	"Recipe-Generator/pkg/recipe"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		GenerateRecipes(c *fiber.Ctx) error
		SaveRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AnalyzeNutrition(c *fiber.Ctx) error
		ExportRecipes(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService    recipe.RecipeService
		nutritionService nutrition.NutritionService
		validator        *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, nutritionService nutrition.NutritionService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService:    recipeService,
		nutritionService: nutritionService,
		validator:        validator,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			verr := &domain.ValidationError{Field: "limit", Constraint: "type", Param: "int", Value: raw}
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, verr)
		}
		limit = n
	}

	res, err := h.recipeService.GetRecipes(c.Context(), limit)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeDetail(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) GenerateRecipes(c *fiber.Ctx) error {
	req := new(domain.GenerateRecipesRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := utils.ToValidationErrors(h.validator.Struct(req)); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateRecipes, err)
	}

	res, err := h.recipeService.GenerateRecipes(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGenerateRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGenerateRecipes)
}

func (h *recipeHandler) SaveRecipe(c *fiber.Ctx) error {
	req := new(domain.SaveRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := utils.ToValidationErrors(h.validator.Struct(req)); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveRecipe, err)
	}

	res, err := h.recipeService.SaveRecipe(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedSaveRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSaveRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	req := new(domain.DeleteRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := utils.ToValidationErrors(h.validator.Struct(req)); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteRecipe, err)
	}

	res, err := h.recipeService.DeleteRecipe(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedDeleteRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) AnalyzeNutrition(c *fiber.Ctx) error {
	req := new(domain.AnalyzeNutritionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := utils.ToValidationErrors(h.validator.Struct(req)); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnalyzeNutrition, err)
	}

	res, err := h.nutritionService.AnalyzeNutrition(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedAnalyzeNutrition, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAnalyzeNutrition)
}

func (h *recipeHandler) ExportRecipes(c *fiber.Ctx) error {
	res, err := h.recipeService.ExportRecipes(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedExportRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessExportRecipes)
}
