package recipe

import (
	"Recipe-Generator/entities"
	"Recipe-Generator/pkg/store"
	"context"
)

type (
	RecipeRepository interface {
		GetRecipes(ctx context.Context, limit int) ([]entities.RecipeRecord, error)
		GetRecipeByID(ctx context.Context, id string) (entities.RecipeRecord, error)
		GetJoins(ctx context.Context) ([]entities.JoinRecord, error)
		GetInstructions(ctx context.Context) ([]entities.InstructionRecord, error)

		CreateRecipe(ctx context.Context, fields entities.RecipeFields) (entities.RecipeRecord, error)
		CreateJoins(ctx context.Context, joins []entities.JoinFields) (int, error)
		CreateInstructions(ctx context.Context, instructions []entities.InstructionFields) (int, error)

		DeleteRecipe(ctx context.Context, id string) error
		DeleteJoins(ctx context.Context, ids []string) error
		DeleteInstructions(ctx context.Context, ids []string) error
		SetJoinRecipes(ctx context.Context, id string, recipeIDs []string) error
		SetInstructionRecipes(ctx context.Context, id string, recipeIDs []string) error
	}

	recipeRepository struct {
		store store.RecordStore
	}
)

func NewRecipeRepository(s store.RecordStore) RecipeRepository {
	return &recipeRepository{store: s}
}

func (r *recipeRepository) GetRecipes(ctx context.Context, limit int) ([]entities.RecipeRecord, error) {
	records, err := r.store.List(ctx, store.TableRecipes, store.ListOptions{
		Sort:       []store.SortField{{Field: entities.FieldTitle, Direction: store.Asc}},
		MaxRecords: limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]entities.RecipeRecord, 0, len(records))
	for _, rec := range records {
		decoded, err := decodeRecipe(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (entities.RecipeRecord, error) {
	rec, err := r.store.Get(ctx, store.TableRecipes, id)
	if err != nil {
		return entities.RecipeRecord{}, err
	}
	return decodeRecipe(rec)
}

func (r *recipeRepository) GetJoins(ctx context.Context) ([]entities.JoinRecord, error) {
	records, err := r.store.List(ctx, store.TableJoins, store.ListOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]entities.JoinRecord, 0, len(records))
	for _, rec := range records {
		fields, err := store.Decode[entities.JoinFields](store.TableJoins, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, entities.JoinRecord{ID: rec.ID, CreatedTime: rec.CreatedTime, Fields: fields})
	}
	return out, nil
}

func (r *recipeRepository) GetInstructions(ctx context.Context) ([]entities.InstructionRecord, error) {
	records, err := r.store.List(ctx, store.TableInstructions, store.ListOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]entities.InstructionRecord, 0, len(records))
	for _, rec := range records {
		fields, err := store.Decode[entities.InstructionFields](store.TableInstructions, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, entities.InstructionRecord{ID: rec.ID, CreatedTime: rec.CreatedTime, Fields: fields})
	}
	return out, nil
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, fields entities.RecipeFields) (entities.RecipeRecord, error) {
	rec, err := r.store.Create(ctx, store.TableRecipes, fields.ToFields())
	if err != nil {
		return entities.RecipeRecord{}, err
	}
	return decodeRecipe(rec)
}

func (r *recipeRepository) CreateJoins(ctx context.Context, joins []entities.JoinFields) (int, error) {
	rows := make([]entities.Fields, 0, len(joins))
	for _, j := range joins {
		rows = append(rows, j.ToFields())
	}
	created, err := r.store.CreateMany(ctx, store.TableJoins, rows)
	return len(created), err
}

func (r *recipeRepository) CreateInstructions(ctx context.Context, instructions []entities.InstructionFields) (int, error) {
	rows := make([]entities.Fields, 0, len(instructions))
	for _, in := range instructions {
		rows = append(rows, in.ToFields())
	}
	created, err := r.store.CreateMany(ctx, store.TableInstructions, rows)
	return len(created), err
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.TableRecipes, id)
}

func (r *recipeRepository) DeleteJoins(ctx context.Context, ids []string) error {
	return r.store.DeleteMany(ctx, store.TableJoins, ids)
}

func (r *recipeRepository) DeleteInstructions(ctx context.Context, ids []string) error {
	return r.store.DeleteMany(ctx, store.TableInstructions, ids)
}

func (r *recipeRepository) SetJoinRecipes(ctx context.Context, id string, recipeIDs []string) error {
	_, err := r.store.Update(ctx, store.TableJoins, id, entities.Fields{entities.FieldRecipes: recipeIDs})
	return err
}

func (r *recipeRepository) SetInstructionRecipes(ctx context.Context, id string, recipeIDs []string) error {
	_, err := r.store.Update(ctx, store.TableInstructions, id, entities.Fields{entities.FieldRecipes: recipeIDs})
	return err
}

func decodeRecipe(rec entities.Record) (entities.RecipeRecord, error) {
	fields, err := store.Decode[entities.RecipeFields](store.TableRecipes, rec)
	if err != nil {
		return entities.RecipeRecord{}, err
	}
	return entities.RecipeRecord{ID: rec.ID, CreatedTime: rec.CreatedTime, Fields: fields}, nil
}
