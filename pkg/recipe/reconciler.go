package recipe

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/entities"
	"sort"
	"strconv"
)

// Reconcile denormalizes recipes by attaching, to each one, the joins and
// instructions whose Recipes list contains its id. A join or instruction
// listing several recipes appears under each of them.
func Reconcile(
	recipes []entities.RecipeRecord,
	joins []entities.JoinRecord,
	instructions []entities.InstructionRecord,
	ingredientNames map[string]string,
) []domain.RecipeView {
	joinsByRecipe := make(map[string][]entities.JoinRecord)
	for _, j := range joins {
		for _, recipeID := range uniqueIDs(j.Fields.Recipes) {
			joinsByRecipe[recipeID] = append(joinsByRecipe[recipeID], j)
		}
	}

	stepsByRecipe := make(map[string][]entities.InstructionRecord)
	for _, in := range instructions {
		for _, recipeID := range uniqueIDs(in.Fields.Recipes) {
			stepsByRecipe[recipeID] = append(stepsByRecipe[recipeID], in)
		}
	}

	views := make([]domain.RecipeView, 0, len(recipes))
	for _, r := range recipes {
		views = append(views, buildView(r, joinsByRecipe[r.ID], stepsByRecipe[r.ID], ingredientNames))
	}
	return views
}

func buildView(
	r entities.RecipeRecord,
	joins []entities.JoinRecord,
	steps []entities.InstructionRecord,
	ingredientNames map[string]string,
) domain.RecipeView {
	title := r.Fields.Title
	if title == "" {
		title = domain.UntitledRecipe
	}

	view := domain.RecipeView{
		ID:              r.ID,
		CreatedTime:     r.CreatedTime,
		Title:           title,
		Description:     r.Fields.Description,
		Serving:         r.Fields.Serving,
		PreparationTime: r.Fields.PreparationTime,
		CookingTime:     r.Fields.CookingTime,
		Difficulty:      r.Fields.Difficulty,
		Cuisine:         r.Fields.Cuisine,
		Type:            r.Fields.Type,
		Ingredients:     make([]domain.RecipeIngredient, 0, len(joins)),
		Instructions:    make([]domain.RecipeInstruction, 0, len(steps)),
	}

	for _, j := range joins {
		view.Ingredients = append(view.Ingredients, resolveIngredient(j, ingredientNames))
	}

	ordered := make([]domain.RecipeInstruction, 0, len(steps))
	for _, s := range steps {
		order := 0
		if s.Fields.Order != nil {
			order = *s.Fields.Order
		}
		ordered = append(ordered, domain.RecipeInstruction{Text: s.Fields.Instruction, Order: order})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	view.Instructions = append(view.Instructions, ordered...)

	return view
}

func resolveIngredient(j entities.JoinRecord, ingredientNames map[string]string) domain.RecipeIngredient {
	out := domain.RecipeIngredient{Unit: j.Fields.Unit}

	if len(j.Fields.Ingredient) > 0 {
		out.ID = j.Fields.Ingredient[0]
	}
	if name, ok := ingredientNames[out.ID]; ok && out.ID != "" {
		out.Name = name
	} else {
		out.Name = placeholderName(j)
	}

	if q := j.Fields.Quantity; q != nil {
		if q.Number != nil {
			out.Quantity = *q.Number
		} else if qty, unit, ok := ParseQuantity(q.Text); ok {
			out.Quantity = qty
			if unit != "" {
				out.Unit = unit
			}
		} else if q.Text != "" {
			// an unreadable composite quantity discards the stored unit too
			out.Unit = ""
		}
	}
	return out
}

func placeholderName(j entities.JoinRecord) string {
	if j.Fields.Identifier != nil {
		return "Ingredient #" + strconv.FormatFloat(*j.Fields.Identifier, 'f', -1, 64)
	}
	return "Ingredient " + j.ID
}

func uniqueIDs(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
