package recipe

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/internal/metrics"
	"Recipe-Generator/internal/utils"
	"Recipe-Generator/pkg/generation"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	generateRecipesName = "recipes"
	recipeTemperature   = 0.1
	defaultLanguage     = "French"
)

var recipesSchema = generation.Object(map[string]generation.Schema{
	"recipes": generation.Array(generation.Object(map[string]generation.Schema{
		"title":           generation.String("Recipe name."),
		"description":     generation.String("Short description of the recipe."),
		"serving":         generation.Number("Number of servings, equal to the requested count."),
		"preparationTime": generation.Number("Preparation time in minutes."),
		"cookingTime":     generation.Number("Cooking time in minutes."),
		"difficulty":      generation.Nullable(generation.String("easy, medium or hard.")),
		"type":            generation.Nullable(generation.String("Dish type, for example starter, main course or dessert.")),
		"ingredients": generation.Array(generation.Object(map[string]generation.Schema{
			"id":       generation.String("Ingredient id, copied from the input list."),
			"name":     generation.String("Ingredient name, copied from the input list."),
			"quantity": generation.Number("Quantity as a number, for example 100, 2 or 0.5."),
			"unit":     generation.String("Unit for the quantity, for example g, kg, ml or tbsp."),
		}, "id", "name", "quantity", "unit")),
		"instructions": generation.Array(generation.Object(map[string]generation.Schema{
			"text":  generation.String("Instruction text for one step."),
			"order": generation.Integer("Step position, starting at 1."),
		}, "text", "order")),
	}, "title", "description", "serving", "preparationTime", "cookingTime", "difficulty", "type", "ingredients", "instructions")),
}, "recipes")

// recipeDrafter turns a validated generation request into candidates.
type recipeDrafter struct {
	generator generation.Generator
	language  string
}

func newRecipeDrafter(g generation.Generator, language string) *recipeDrafter {
	language = strings.TrimSpace(language)
	if language == "" {
		language = defaultLanguage
	}
	return &recipeDrafter{generator: g, language: language}
}

func (d *recipeDrafter) draft(ctx context.Context, req domain.GenerateRecipesRequest) ([]domain.RecipeCandidate, error) {
	prompt, err := recipePrompt(req)
	if err != nil {
		return nil, err
	}
	raw, err := d.generator.GenerateJSON(ctx, generation.ObjectRequest{
		Name:        generateRecipesName,
		System:      recipeSystemPrompt(d.language),
		Prompt:      prompt,
		Schema:      recipesSchema,
		Temperature: recipeTemperature,
	})
	if err != nil {
		return nil, err
	}

	candidates, err := filterCandidates(raw, req.Serving)
	if err != nil {
		return nil, err
	}
	metrics.ObserveCandidates(d.generator.Provider(), len(candidates))
	if len(candidates) == 0 {
		return nil, &domain.GenerationError{Message: "generation returned no usable recipe", Err: domain.ErrNoFeasibleRecipe}
	}
	if len(candidates) < domain.MinRecipeCandidates {
		log.Warnw("fewer recipes than requested", "count", len(candidates), "minimum", domain.MinRecipeCandidates)
	}
	return candidates, nil
}

// filterCandidates validates each generated recipe on its own. Invalid ones
// and ones cooked for a different serving count are dropped.
func filterCandidates(raw []byte, serving int) ([]domain.RecipeCandidate, error) {
	var envelope struct {
		Recipes []json.RawMessage `json:"recipes"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &domain.GenerationError{Message: "generation returned malformed recipes", Err: err}
	}

	want := float64(serving)
	out := make([]domain.RecipeCandidate, 0, len(envelope.Recipes))
	for i, item := range envelope.Recipes {
		var c domain.RecipeCandidate
		if err := utils.DecodeJSON(item, &c); err != nil {
			log.Warnw("dropping invalid recipe candidate", "index", i, "error", err)
			continue
		}
		if c.Serving == nil {
			c.Serving = &want
		} else if *c.Serving != want {
			log.Warnw("dropping recipe candidate with wrong serving", "index", i, "serving", *c.Serving, "requested", serving)
			continue
		}
		c.DraftID = uuid.NewString()
		out = append(out, c)
		if len(out) == domain.MaxRecipeCandidates {
			break
		}
	}
	return out, nil
}

func recipeSystemPrompt(language string) string {
	return fmt.Sprintf(`You are a cooking assistant that writes recipes.
Answer with a single JSON object of the form {"recipes": [...]} and nothing else.
Each recipe has title, description, serving, preparationTime, cookingTime, difficulty, type,
ingredients (a list of {id, name, quantity, unit}) and instructions (a list of {text, order}).
Write every text value in %s.`, language)
}

func recipePrompt(req domain.GenerateRecipesRequest) (string, error) {
	ingredients, err := json.Marshal(req.Ingredients)
	if err != nil {
		return "", err
	}
	intolerances := "none"
	if len(req.Intolerances) > 0 {
		intolerances = strings.Join(req.Intolerances, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available ingredients: %s\n", ingredients)
	fmt.Fprintf(&b, "Intolerances to avoid: %s\n", intolerances)
	fmt.Fprintf(&b, "Servings: %d\n", req.Serving)
	if genre := strings.TrimSpace(req.Genre); genre != "" {
		fmt.Fprintf(&b, "Dish type: %s\n", genre)
	}
	fmt.Fprintf(&b, "Propose between %d and %d different recipes.\n", domain.MinRecipeCandidates, domain.MaxRecipeCandidates)
	b.WriteString("Use only the ingredients listed above and copy their id and name exactly.\n")
	b.WriteString("Never use an ingredient the user is intolerant to.\n")
	fmt.Fprintf(&b, "Set serving to %d and scale every quantity proportionally to it.\n", req.Serving)
	b.WriteString("Number the instructions from 1 in the order they are performed.")
	return b.String(), nil
}
