package ingredient

import (
	"Recipe-Generator/entities"
	"Recipe-Generator/pkg/store"
	"context"
)

type (
	IngredientRepository interface {
		ListIngredients(ctx context.Context) ([]entities.IngredientRecord, error)
		FindByName(ctx context.Context, name string) ([]entities.IngredientRecord, error)
		CreateIngredient(ctx context.Context, fields entities.IngredientFields) (entities.IngredientRecord, error)
		UpdateIngredient(ctx context.Context, id string, fields entities.IngredientFields) (entities.IngredientRecord, error)
		DeleteIngredient(ctx context.Context, id string) error
	}

	ingredientRepository struct {
		store store.RecordStore
	}
)

func NewIngredientRepository(s store.RecordStore) IngredientRepository {
	return &ingredientRepository{store: s}
}

func (r *ingredientRepository) ListIngredients(ctx context.Context) ([]entities.IngredientRecord, error) {
	records, err := r.store.List(ctx, store.TableIngredients, store.ListOptions{
		Sort: []store.SortField{{Field: entities.FieldName, Direction: store.Asc}},
	})
	if err != nil {
		return nil, err
	}
	return decodeIngredients(records)
}

func (r *ingredientRepository) FindByName(ctx context.Context, name string) ([]entities.IngredientRecord, error) {
	records, err := r.store.List(ctx, store.TableIngredients, store.ListOptions{
		FilterByFormula: store.EqualsFormula(entities.FieldName, name),
		Sort:            []store.SortField{{Field: entities.FieldName, Direction: store.Asc}},
	})
	if err != nil {
		return nil, err
	}
	return decodeIngredients(records)
}

func (r *ingredientRepository) CreateIngredient(ctx context.Context, fields entities.IngredientFields) (entities.IngredientRecord, error) {
	rec, err := r.store.Create(ctx, store.TableIngredients, fields.ToFields())
	if err != nil {
		return entities.IngredientRecord{}, err
	}
	return decodeIngredient(rec)
}

func (r *ingredientRepository) UpdateIngredient(ctx context.Context, id string, fields entities.IngredientFields) (entities.IngredientRecord, error) {
	rec, err := r.store.Update(ctx, store.TableIngredients, id, fields.ToFields())
	if err != nil {
		return entities.IngredientRecord{}, err
	}
	return decodeIngredient(rec)
}

func (r *ingredientRepository) DeleteIngredient(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.TableIngredients, id)
}

func decodeIngredient(rec entities.Record) (entities.IngredientRecord, error) {
	fields, err := store.Decode[entities.IngredientFields](store.TableIngredients, rec)
	if err != nil {
		return entities.IngredientRecord{}, err
	}
	return entities.IngredientRecord{ID: rec.ID, CreatedTime: rec.CreatedTime, Fields: fields}, nil
}

func decodeIngredients(records []entities.Record) ([]entities.IngredientRecord, error) {
	out := make([]entities.IngredientRecord, 0, len(records))
	for _, rec := range records {
		ing, err := decodeIngredient(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}
