package entities

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
)

const (
	FieldName            = "Name"
	FieldTitle           = "Title"
	FieldDescription     = "Description"
	FieldServing         = "Serving"
	FieldPreparationTime = "PreparationTime"
	FieldCookingTime     = "CookingTime"
	FieldDifficulty      = "Difficulty"
	FieldCuisine         = "Cuisine"
	FieldType            = "Type"
	FieldRecipes         = "Recipes"
	FieldIngredient      = "Ingredient"
	FieldQuantity        = "Quantity"
	FieldUnit            = "Unit"
	FieldIdentifier      = "Identifier"
	FieldInstruction     = "Instruction"
	FieldOrder           = "Order"
)

// IngredientFields allows a blank Name on read; such rows display their id.
// Stored text carries no length caps; those live on the request types in domain.
type IngredientFields struct {
	Name string `json:"Name,omitempty"`
}

func (f IngredientFields) ToFields() Fields {
	return Fields{FieldName: f.Name}
}

type RecipeFields struct {
	Title           string   `json:"Title,omitempty"`
	Description     string   `json:"Description,omitempty"`
	Serving         *float64 `json:"Serving,omitempty" validate:"omitempty,min=0"`
	PreparationTime *float64 `json:"PreparationTime,omitempty" validate:"omitempty,min=0"`
	CookingTime     *float64 `json:"CookingTime,omitempty" validate:"omitempty,min=0"`
	Difficulty      string   `json:"Difficulty,omitempty"`
	Cuisine         string   `json:"Cuisine,omitempty"`
	Type            string   `json:"Type,omitempty"`
}

func (f RecipeFields) ToFields() Fields {
	fields := Fields{FieldTitle: f.Title}
	if f.Description != "" {
		fields[FieldDescription] = f.Description
	}
	if f.Serving != nil {
		fields[FieldServing] = *f.Serving
	}
	if f.PreparationTime != nil {
		fields[FieldPreparationTime] = *f.PreparationTime
	}
	if f.CookingTime != nil {
		fields[FieldCookingTime] = *f.CookingTime
	}
	if f.Difficulty != "" {
		fields[FieldDifficulty] = f.Difficulty
	}
	if f.Cuisine != "" {
		fields[FieldCuisine] = f.Cuisine
	}
	if f.Type != "" {
		fields[FieldType] = f.Type
	}
	return fields
}

// Quantity is stored either as a plain number or as a composite string such
// as "250 g". Exactly one of Number and Text is set after decoding.
type Quantity struct {
	Number *float64
	Text   string
}

func NumberQuantity(v float64) *Quantity {
	return &Quantity{Number: &v}
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		q.Number = &n
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &json.UnmarshalTypeError{
			Value: "quantity " + string(b),
			Type:  reflect.TypeOf(q),
		}
	}
	q.Text = s
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.Number != nil {
		return []byte(strconv.FormatFloat(*q.Number, 'f', -1, 64)), nil
	}
	if q.Text != "" {
		return json.Marshal(q.Text)
	}
	return []byte("null"), nil
}

// JoinFields links one ingredient to one or more recipes. Identifier is a
// store-assigned autonumber: it is read but never written back.
type JoinFields struct {
	Recipes    []string  `json:"Recipes,omitempty" validate:"omitempty,dive,required"`
	Ingredient []string  `json:"Ingredient,omitempty" validate:"omitempty,dive,required"`
	Quantity   *Quantity `json:"Quantity,omitempty"`
	Unit       string    `json:"Unit,omitempty"`
	Identifier *float64  `json:"Identifier,omitempty"`
}

func (f JoinFields) ToFields() Fields {
	fields := Fields{
		FieldRecipes:    nonNil(f.Recipes),
		FieldIngredient: nonNil(f.Ingredient),
	}
	if f.Quantity != nil {
		if f.Quantity.Number != nil {
			fields[FieldQuantity] = *f.Quantity.Number
		} else if f.Quantity.Text != "" {
			fields[FieldQuantity] = f.Quantity.Text
		}
	}
	if f.Unit != "" {
		fields[FieldUnit] = f.Unit
	}
	return fields
}

type InstructionFields struct {
	Recipes     []string `json:"Recipes,omitempty" validate:"omitempty,dive,required"`
	Instruction string   `json:"Instruction,omitempty"`
	Order       *int     `json:"Order,omitempty" validate:"omitempty,min=0"`
}

func (f InstructionFields) ToFields() Fields {
	fields := Fields{
		FieldRecipes:     nonNil(f.Recipes),
		FieldInstruction: f.Instruction,
	}
	if f.Order != nil {
		fields[FieldOrder] = *f.Order
	}
	return fields
}

type (
	IngredientRecord struct {
		ID          string
		CreatedTime string
		Fields      IngredientFields
	}

	RecipeRecord struct {
		ID          string
		CreatedTime string
		Fields      RecipeFields
	}

	JoinRecord struct {
		ID          string
		CreatedTime string
		Fields      JoinFields
	}

	InstructionRecord struct {
		ID          string
		CreatedTime string
		Fields      InstructionFields
	}
)

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
