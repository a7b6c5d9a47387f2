package config

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/internal/api/handlers"
	"Recipe-Generator/internal/api/presenters"
	"Recipe-Generator/internal/api/routes"
	"Recipe-Generator/internal/middleware"
	"Recipe-Generator/internal/utils"
	"Recipe-Generator/pkg/ingredient"
	"Recipe-Generator/pkg/jwt"
	"Recipe-Generator/pkg/nutrition"
	"Recipe-Generator/pkg/recipe"
	"Recipe-Generator/pkg/store"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp wires every layer on top of recordStore. The returned closer
// releases the access log file.
func NewApp(recordStore store.RecordStore) (*fiber.App, io.Closer, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedProcessRequest, err)
		},
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	logFile := utils.GetConfig("LOG_FILE")
	if err := os.MkdirAll(filepath.Dir(logFile), os.ModePerm); err != nil {
		log.Errorw("error creating logs directory", "error", err)
		return nil, nil, err
	}
	file, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Errorw("error opening log file", "error", err)
		return nil, nil, err
	}
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	generator, err := NewGenerator()
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	s3, err := NewExportStorage(context.Background())
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	language := utils.GetConfig("GENERATION_LANGUAGE")

	// Repository
	ingredientRepository := ingredient.NewIngredientRepository(recordStore)
	recipeRepository := recipe.NewRecipeRepository(recordStore)

	// Service
	jwtService := jwt.NewJWTService(utils.GetConfig("JWT_SECRET"))
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, ingredientService, generator, s3, language)
	nutritionService := nutrition.NewNutritionService(generator, language)

	// Handler
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, nutritionService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		IngredientHandler: ingredientHandler,
		RecipeHandler:     recipeHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, file, nil
}
