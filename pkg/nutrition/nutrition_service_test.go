package nutrition

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/pkg/generation"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	raw string
	req generation.ObjectRequest
}

func (g *stubGenerator) GenerateJSON(_ context.Context, req generation.ObjectRequest) ([]byte, error) {
	g.req = req
	return []byte(g.raw), nil
}

func (g *stubGenerator) Provider() string { return "stub" }

var tarte = domain.AnalyzeNutritionRequest{
	Ingredients: []domain.NutritionIngredient{
		{Name: "Pomme", Quantity: 300, Unit: "g"},
		{Name: "Beurre", Quantity: 40.5, Unit: "g"},
	},
	Servings:    4,
	RecipeTitle: "Tarte aux pommes",
}

func TestAnalyzeNutrition(t *testing.T) {
	gen := &stubGenerator{raw: `{
		"calories": 320, "protein": 3, "carbs": 45, "fat": 14, "fiber": 4, "sugar": 25, "sodium": 120,
		"vitamins": {"C": 8.5, "A": null, "B1": 25},
		"minerals": {"potassium": 210, "iron": -1},
		"nutrition_notes": "Riche en fibres et en vitamine C."
	}`}
	svc := NewNutritionService(gen, "French")

	data, err := svc.AnalyzeNutrition(context.Background(), tarte)
	require.NoError(t, err)
	assert.Equal(t, 320.0, *data.Calories)
	assert.Equal(t, 8.5, *data.Vitamins.C)
	assert.Nil(t, data.Vitamins.A)
	assert.Nil(t, data.Vitamins.B1, "out of range optional values are not reported")
	assert.Nil(t, data.Vitamins.D)
	assert.Equal(t, 210.0, *data.Minerals.Potassium)
	assert.Nil(t, data.Minerals.Iron)

	assert.Equal(t, analyzeNutritionName, gen.req.Name)
	assert.Contains(t, gen.req.Prompt, "Pomme: 300 g, Beurre: 40.5 g")
	assert.Contains(t, gen.req.Prompt, "Servings: 4")
	assert.Contains(t, gen.req.System, "French")
}

func TestAnalyzeNutrition_HeadlineOutOfRange(t *testing.T) {
	gen := &stubGenerator{raw: `{
		"calories": 9000, "protein": 3, "carbs": 45, "fat": 14, "fiber": 4, "sugar": 25, "sodium": 120,
		"vitamins": {}, "minerals": {},
		"nutrition_notes": "Very rich indeed."
	}`}
	_, err := NewNutritionService(gen, "").AnalyzeNutrition(context.Background(), tarte)

	var genErr *domain.GenerationError
	require.True(t, errors.As(err, &genErr))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "calories", verr.Field)
	assert.Equal(t, "max", verr.Constraint)
}

func TestAnalyzeNutrition_MissingHeadline(t *testing.T) {
	gen := &stubGenerator{raw: `{"calories": 100, "nutrition_notes": "Missing most values."}`}
	_, err := NewNutritionService(gen, "").AnalyzeNutrition(context.Background(), tarte)

	var genErr *domain.GenerationError
	assert.True(t, errors.As(err, &genErr))
}

func TestAnalyzeNutrition_DefaultsServings(t *testing.T) {
	gen := &stubGenerator{raw: `{}`}
	req := tarte
	req.Servings = 0
	_, _ = NewNutritionService(gen, "").AnalyzeNutrition(context.Background(), req)
	assert.Contains(t, gen.req.Prompt, "Servings: 1")
}

func TestAnalyzeNutrition_RequiresIngredients(t *testing.T) {
	gen := &stubGenerator{}
	_, err := NewNutritionService(gen, "").AnalyzeNutrition(context.Background(), domain.AnalyzeNutritionRequest{})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "ingredients", verr.Field)
	assert.Empty(t, gen.req.Name)
}

func TestAnalyzeNutrition_WithoutGenerator(t *testing.T) {
	_, err := NewNutritionService(nil, "").AnalyzeNutrition(context.Background(), tarte)
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}
