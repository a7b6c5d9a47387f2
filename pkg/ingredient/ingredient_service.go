package ingredient

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/entities"
	"context"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

type (
	IngredientService interface {
		// GetIngredients lists ingredients sorted by name; a non-empty name
		// narrows the result to the exact match.
		GetIngredients(ctx context.Context, name string) ([]domain.Ingredient, error)
		// NameIndex maps every ingredient id to its display name.
		NameIndex(ctx context.Context) (map[string]string, error)
		AddIngredient(ctx context.Context, req domain.AddIngredientRequest) (domain.Ingredient, error)
		UpdateIngredient(ctx context.Context, id string, req domain.UpdateIngredientRequest) (domain.Ingredient, error)
		DeleteIngredient(ctx context.Context, id string) error
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func (s *ingredientService) GetIngredients(ctx context.Context, name string) ([]domain.Ingredient, error) {
	var (
		records []entities.IngredientRecord
		err     error
	)
	if name = strings.TrimSpace(name); name != "" {
		records, err = s.ingredientRepository.FindByName(ctx, name)
	} else {
		records, err = s.ingredientRepository.ListIngredients(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.Ingredient, 0, len(records))
	for _, rec := range records {
		out = append(out, toIngredient(rec))
	}
	return out, nil
}

func (s *ingredientService) NameIndex(ctx context.Context) (map[string]string, error) {
	records, err := s.ingredientRepository.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(records))
	for _, rec := range records {
		index[rec.ID] = toIngredient(rec).Name
	}
	return index, nil
}

// AddIngredient stores the name trimmed; " Pomme" is listed as "Pomme".
func (s *ingredientService) AddIngredient(ctx context.Context, req domain.AddIngredientRequest) (domain.Ingredient, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return domain.Ingredient{}, err
	}
	rec, err := s.ingredientRepository.CreateIngredient(ctx, entities.IngredientFields{Name: name})
	if err != nil {
		return domain.Ingredient{}, err
	}
	log.Infow("ingredient created", "id", rec.ID, "name", name)
	return toIngredient(rec), nil
}

func (s *ingredientService) UpdateIngredient(ctx context.Context, id string, req domain.UpdateIngredientRequest) (domain.Ingredient, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Ingredient{}, &domain.ValidationError{Field: "id", Constraint: "required"}
	}
	name, err := cleanName(req.Name)
	if err != nil {
		return domain.Ingredient{}, err
	}
	rec, err := s.ingredientRepository.UpdateIngredient(ctx, id, entities.IngredientFields{Name: name})
	if err != nil {
		return domain.Ingredient{}, err
	}
	return toIngredient(rec), nil
}

// DeleteIngredient removes only the ingredient. Joins that still point at it
// render under a placeholder name.
func (s *ingredientService) DeleteIngredient(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &domain.ValidationError{Field: "id", Constraint: "required"}
	}
	if err := s.ingredientRepository.DeleteIngredient(ctx, id); err != nil {
		return err
	}
	log.Infow("ingredient deleted", "id", id)
	return nil
}

func cleanName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &domain.ValidationError{Field: "name", Constraint: "required"}
	}
	if len([]rune(name)) > 100 {
		return "", &domain.ValidationError{Field: "name", Constraint: "max", Param: "100", Value: name}
	}
	return name, nil
}

func toIngredient(rec entities.IngredientRecord) domain.Ingredient {
	name := rec.Fields.Name
	if name == "" {
		name = rec.ID
	}
	return domain.Ingredient{ID: rec.ID, Name: name}
}
