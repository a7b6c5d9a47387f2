package domain

var (
	MessageSuccessAnalyzeNutrition = "nutrition analyzed successfully"
	MessageFailedAnalyzeNutrition  = "failed to analyze nutrition"
)

type (
	NutritionIngredient struct {
		Name     string  `json:"name" validate:"required,max=100"`
		Quantity float64 `json:"quantity" validate:"min=0"`
		Unit     string  `json:"unit" validate:"max=50"`
	}

	AnalyzeNutritionRequest struct {
		Ingredients []NutritionIngredient `json:"ingredients" validate:"required,min=1,dive"`
		Servings    int                   `json:"servings" validate:"omitempty,min=1,max=50"`
		RecipeTitle string                `json:"recipeTitle" validate:"max=200"`
	}

	// NutritionData holds per-serving estimates. The headline values are
	// required; a nil vitamin or mineral means "not reported".
	NutritionData struct {
		Calories *float64 `json:"calories" validate:"required,min=0,max=5000"`
		Protein  *float64 `json:"protein" validate:"required,min=0,max=200"`
		Carbs    *float64 `json:"carbs" validate:"required,min=0,max=500"`
		Fat      *float64 `json:"fat" validate:"required,min=0,max=200"`
		Fiber    *float64 `json:"fiber" validate:"required,min=0,max=100"`
		Sugar    *float64 `json:"sugar" validate:"required,min=0,max=200"`
		Sodium   *float64 `json:"sodium" validate:"required,min=0,max=5000"`
		Vitamins Vitamins `json:"vitamins"`
		Minerals Minerals `json:"minerals"`
		Notes    string   `json:"nutrition_notes" validate:"required,min=10,max=500"`
	}

	// Vitamins: A, D (µg), K, B12, folate in µg; the rest in mg.
	Vitamins struct {
		A      *float64 `json:"A" validate:"omitempty,min=0,max=10000"`
		C      *float64 `json:"C" validate:"omitempty,min=0,max=1000"`
		D      *float64 `json:"D" validate:"omitempty,min=0,max=100"`
		E      *float64 `json:"E" validate:"omitempty,min=0,max=100"`
		K      *float64 `json:"K" validate:"omitempty,min=0,max=1000"`
		B1     *float64 `json:"B1" validate:"omitempty,min=0,max=10"`
		B2     *float64 `json:"B2" validate:"omitempty,min=0,max=10"`
		B3     *float64 `json:"B3" validate:"omitempty,min=0,max=100"`
		B6     *float64 `json:"B6" validate:"omitempty,min=0,max=10"`
		B12    *float64 `json:"B12" validate:"omitempty,min=0,max=100"`
		Folate *float64 `json:"folate" validate:"omitempty,min=0,max=1000"`
	}

	// Minerals: selenium in µg, the rest in mg.
	Minerals struct {
		Calcium    *float64 `json:"calcium" validate:"omitempty,min=0,max=2000"`
		Iron       *float64 `json:"iron" validate:"omitempty,min=0,max=100"`
		Magnesium  *float64 `json:"magnesium" validate:"omitempty,min=0,max=1000"`
		Phosphorus *float64 `json:"phosphorus" validate:"omitempty,min=0,max=2000"`
		Potassium  *float64 `json:"potassium" validate:"omitempty,min=0,max=5000"`
		Zinc       *float64 `json:"zinc" validate:"omitempty,min=0,max=50"`
		Copper     *float64 `json:"copper" validate:"omitempty,min=0,max=10"`
		Manganese  *float64 `json:"manganese" validate:"omitempty,min=0,max=10"`
		Selenium   *float64 `json:"selenium" validate:"omitempty,min=0,max=200"`
	}
)
