package nutrition

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/internal/utils"
	"Recipe-Generator/pkg/generation"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

const (
	analyzeNutritionName = "nutrition"
	nutritionTemperature = 0.1
)

type (
	NutritionService interface {
		// AnalyzeNutrition estimates the per-serving nutrition of a recipe.
		AnalyzeNutrition(ctx context.Context, req domain.AnalyzeNutritionRequest) (domain.NutritionData, error)
	}

	nutritionService struct {
		generator generation.Generator
		language  string
	}
)

func NewNutritionService(generator generation.Generator, language string) NutritionService {
	if strings.TrimSpace(language) == "" {
		language = "French"
	}
	return &nutritionService{generator: generator, language: language}
}

func (s *nutritionService) AnalyzeNutrition(ctx context.Context, req domain.AnalyzeNutritionRequest) (domain.NutritionData, error) {
	if s.generator == nil {
		return domain.NutritionData{}, &domain.GenerationError{
			Message: "nutrition analysis unavailable",
			Err:     domain.ErrGenerationUnavailable,
		}
	}
	if req.Servings == 0 {
		req.Servings = 1
	}
	if err := utils.ValidateStruct(req); err != nil {
		return domain.NutritionData{}, err
	}

	raw, err := s.generator.GenerateJSON(ctx, generation.ObjectRequest{
		Name:        analyzeNutritionName,
		System:      systemPrompt(s.language),
		Prompt:      prompt(req),
		Schema:      nutritionSchema,
		Temperature: nutritionTemperature,
	})
	if err != nil {
		return domain.NutritionData{}, err
	}

	data, err := decodeNutrition(raw)
	if err != nil {
		log.Warnw("nutrition estimate rejected", "recipe", req.RecipeTitle, "error", err)
		return domain.NutritionData{}, &domain.GenerationError{Message: "generation returned an invalid nutrition estimate", Err: err}
	}
	return data, nil
}

// decodeNutrition keeps the headline values strict. An optional vitamin or
// mineral outside its range is reported as unknown instead of failing.
func decodeNutrition(raw []byte) (domain.NutritionData, error) {
	var data domain.NutritionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.NutritionData{}, err
	}
	utils.InitValidator()
	clearOutOfRange(&data.Vitamins)
	clearOutOfRange(&data.Minerals)
	if err := utils.ValidateStruct(data); err != nil {
		return domain.NutritionData{}, err
	}
	return data, nil
}

// clearOutOfRange sets every *float64 field of the struct at ptr to nil when
// its value fails the field's validate tag.
func clearOutOfRange(ptr any) {
	v := reflect.ValueOf(ptr).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Pointer || f.IsNil() {
			continue
		}
		if err := utils.Validate.Var(f.Elem().Interface(), t.Field(i).Tag.Get("validate")); err != nil {
			f.Set(reflect.Zero(f.Type()))
		}
	}
}

func systemPrompt(language string) string {
	return fmt.Sprintf(`You are an expert nutritionist.
Answer with a single JSON object and nothing else.
Use only standardized nutrition data. Report a vitamin or mineral as null when it is not present or not known.
Write nutrition_notes in %s, between 10 and 500 characters.`, language)
}

func prompt(req domain.AnalyzeNutritionRequest) string {
	items := make([]string, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		items = append(items, fmt.Sprintf("%s: %s %s", ing.Name, strconv.FormatFloat(ing.Quantity, 'f', -1, 64), ing.Unit))
	}
	title := strings.TrimSpace(req.RecipeTitle)
	if title == "" {
		title = "Recipe"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recipe: %s\n", title)
	fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(items, ", "))
	fmt.Fprintf(&b, "Servings: %d\n", req.Servings)
	fmt.Fprintf(&b, "Give the values for one serving when the recipe is split into %d servings.\n", req.Servings)
	b.WriteString("Energy in kcal; protein, carbs, fat, fiber and sugar in grams; sodium in mg.")
	return b.String()
}

var nutritionSchema = generation.Object(map[string]generation.Schema{
	"calories": generation.Number("Calories in kcal."),
	"protein":  generation.Number("Protein in grams."),
	"carbs":    generation.Number("Carbohydrates in grams."),
	"fat":      generation.Number("Fat in grams."),
	"fiber":    generation.Number("Fiber in grams."),
	"sugar":    generation.Number("Sugar in grams."),
	"sodium":   generation.Number("Sodium in mg."),
	"vitamins": optionalNumbers(map[string]string{
		"A": "µg", "C": "mg", "D": "µg", "E": "mg", "K": "µg",
		"B1": "mg", "B2": "mg", "B3": "mg", "B6": "mg", "B12": "µg", "folate": "µg",
	}),
	"minerals": optionalNumbers(map[string]string{
		"calcium": "mg", "iron": "mg", "magnesium": "mg", "phosphorus": "mg", "potassium": "mg",
		"zinc": "mg", "copper": "mg", "manganese": "mg", "selenium": "µg",
	}),
	"nutrition_notes": generation.String("Short factual nutrition notes."),
}, "calories", "protein", "carbs", "fat", "fiber", "sugar", "sodium", "vitamins", "minerals", "nutrition_notes")

func optionalNumbers(units map[string]string) generation.Schema {
	props := make(map[string]generation.Schema, len(units))
	required := make([]string, 0, len(units))
	for name, unit := range units {
		props[name] = generation.Nullable(generation.Number(name + " in " + unit + "."))
		required = append(required, name)
	}
	sort.Strings(required)
	return generation.Object(props, required...)
}
