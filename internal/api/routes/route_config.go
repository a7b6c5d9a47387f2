package routes

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/internal/api/handlers"
	"Recipe-Generator/internal/metrics"
	"Recipe-Generator/internal/middleware"
	"Recipe-Generator/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	IngredientHandler handlers.IngredientHandler
	RecipeHandler     handlers.RecipeHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Ingredients()
	c.Recipes()
	c.GuestRoute()
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("", c.IngredientHandler.GetIngredients)
	ingredients.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.IngredientHandler.AddIngredient)
	ingredients.Patch("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.IngredientHandler.UpdateIngredient)
	ingredients.Delete("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.IngredientHandler.DeleteIngredient)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/recipes")
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.GenerateRecipes)

	// fixed paths before /:id
	recipes.Post("/save", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.SaveRecipe)
	recipes.Delete("/delete", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.DeleteRecipe)
	recipes.Post("/analyze-nutrition", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.AnalyzeNutrition)
	recipes.Post("/export", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.ExportRecipes)

	recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": domain.MessageSuccessPing})
	})
	c.App.Get("/metrics", metrics.Handler())
}
