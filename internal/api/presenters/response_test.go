package presenters

import (
	"Recipe-Generator/domain"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &domain.ValidationError{Field: "name", Constraint: "required"}, fiber.StatusBadRequest},
		{"validation list", domain.ValidationErrors{{Field: "serving", Constraint: "max", Param: "50"}}, fiber.StatusBadRequest},
		{"invalid generation", &domain.GenerationError{Message: "bad", Err: &domain.ValidationError{Field: "calories"}}, fiber.StatusInternalServerError},
		{"store", &domain.StoreError{Op: "delete", Table: "Recipes", StatusCode: 404}, fiber.StatusInternalServerError},
		{"generation", &domain.GenerationError{Message: "no recipes", Err: domain.ErrNoFeasibleRecipe}, fiber.StatusInternalServerError},
		{"token", fmt.Errorf("auth: %w", domain.ErrTokenExpired), fiber.StatusUnauthorized},
		{"export disabled", domain.ErrExportNotConfigured, fiber.StatusNotImplemented},
		{"fiber", fiber.ErrNotFound, fiber.StatusNotFound},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}
