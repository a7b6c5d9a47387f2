package store

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/entities"
	"context"
)

const (
	TableIngredients  = "Ingredients"
	TableRecipes      = "Recipes"
	TableJoins        = "Recipe-Ingredient-Join"
	TableInstructions = "Recipe-Instructions"

	// BatchSize is the most records a single create or delete call may carry.
	BatchSize = 10
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortField struct {
	Field     string
	Direction Direction
}

type ListOptions struct {
	Sort            []SortField
	FilterByFormula string
	// MaxRecords caps the total returned across all pages; 0 means no cap.
	MaxRecords int
	PageSize   int
	View       string
}

type RecordStore interface {
	List(ctx context.Context, table string, opts ListOptions) ([]entities.Record, error)
	Get(ctx context.Context, table, id string) (entities.Record, error)
	Create(ctx context.Context, table string, fields entities.Fields) (entities.Record, error)
	CreateMany(ctx context.Context, table string, fields []entities.Fields) ([]entities.Record, error)
	Update(ctx context.Context, table, id string, fields entities.Fields) (entities.Record, error)
	Delete(ctx context.Context, table, id string) error
	DeleteMany(ctx context.Context, table string, ids []string) error
}

func chunks[T any](items []T, size int) [][]T {
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}

func storeError(op, table string, status int, message string, err error) error {
	return &domain.StoreError{
		Op:         op,
		Table:      table,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}
