package domain

var (
	MessageSuccessGetIngredients   = "ingredients retrieved successfully"
	MessageSuccessAddIngredient    = "ingredient added successfully"
	MessageSuccessUpdateIngredient = "ingredient updated successfully"
	MessageSuccessDeleteIngredient = "ingredient deleted successfully"

	MessageFailedGetIngredients   = "failed to retrieve ingredients"
	MessageFailedAddIngredient    = "failed to add ingredient"
	MessageFailedUpdateIngredient = "failed to update ingredient"
	MessageFailedDeleteIngredient = "failed to delete ingredient"
)

type (
	Ingredient struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	AddIngredientRequest struct {
		Name string `json:"name" validate:"required,min=1,max=100"`
	}

	UpdateIngredientRequest struct {
		Name string `json:"name" validate:"required,min=1,max=100"`
	}
)
