package config

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/entities"
	"Recipe-Generator/pkg/store"
	"Recipe-Generator/pkg/store/storetest"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// fakeLLM answers chat completions with three recipes for two servings.
func fakeLLM(t *testing.T) *httptest.Server {
	t.Helper()
	recipe := func(title string) map[string]any {
		return map[string]any{
			"title":           title,
			"description":     "Fruit dessert",
			"serving":         2,
			"preparationTime": 15,
			"cookingTime":     30,
			"difficulty":      "easy",
			"type":            "dessert",
			"ingredients":     []map[string]any{{"id": "rec1", "name": "Pomme", "quantity": 4, "unit": "pc"}},
			"instructions":    []map[string]any{{"text": "Peel", "order": 1}, {"text": "Bake", "order": 2}},
		}
	}
	content, err := json.Marshal(map[string]any{
		"recipes": []map[string]any{recipe("Tarte"), recipe("Compote"), recipe("Crumble")},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" || r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": "```json\n" + string(content) + "\n```"}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWithStore(t, storetest.NewSQLite(t))
}

func newTestAppWithStore(t *testing.T, recordStore store.RecordStore) *fiber.App {
	t.Helper()
	llm := fakeLLM(t)
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "logs", "app.log"))
	t.Setenv("GENERATOR_PROVIDER", "openai")
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("LLM_BASE_URL", llm.URL)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AWS_S3_BUCKET", "")

	app, logFile, err := NewApp(recordStore)
	require.NoError(t, err)
	t.Cleanup(func() { _ = logFile.Close() })
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestGenerateRecipesEndToEnd(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/recipes",
		`{"ingredients":[{"id":"rec1","name":"Pomme"}],"intolerances":[],"serving":2}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var body envelope[domain.GenerateRecipesResponse]
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.True(t, body.Status)
	recipes := body.Data.Recipes
	require.GreaterOrEqual(t, len(recipes), domain.MinRecipeCandidates)
	require.LessOrEqual(t, len(recipes), domain.MaxRecipeCandidates)
	for _, r := range recipes {
		require.NotNil(t, r.Serving)
		assert.Equal(t, 2.0, *r.Serving)
		names := []string{}
		for _, ing := range r.Ingredients {
			names = append(names, ing.Name)
		}
		assert.Contains(t, names, "Pomme")
	}
}

func TestGenerateRecipesRejectsEmptyIngredients(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/recipes", `{"ingredients":[],"serving":2}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body envelope[any]
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Status)
	assert.Contains(t, body.Error, "ingredients")
}

func TestDeleteMissingRecipeIsServerError(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, fiber.MethodDelete, "/api/recipes/delete", `{"recipeId":"recDoesNotExist"}`)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))

	var body envelope[any]
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Status)
	assert.Equal(t, domain.MessageFailedDeleteRecipe, body.Message)
	assert.NotEmpty(t, body.Error)
}

func TestSaveThenListRecipes(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/ingredients", `{"name":"Pomme"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var created envelope[domain.Ingredient]
	require.NoError(t, json.Unmarshal(raw, &created))

	resp, raw = doJSON(t, app, fiber.MethodGet, "/api/ingredients", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var listed envelope[[]domain.Ingredient]
	require.NoError(t, json.Unmarshal(raw, &listed))
	assert.Contains(t, listed.Data, created.Data)

	save := `{"recipe":{"title":"Tarte","serving":2,` +
		`"ingredients":[{"id":"` + created.Data.ID + `","name":"Pomme","quantity":4,"unit":"pc"},{"id":"recGone","name":"Sucre","quantity":50,"unit":"g"}],` +
		`"instructions":[{"text":"Bake","order":2},{"text":"Peel","order":1}]}}`
	resp, raw = doJSON(t, app, fiber.MethodPost, "/api/recipes/save", save)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	var saved envelope[domain.SaveRecipeResponse]
	require.NoError(t, json.Unmarshal(raw, &saved))
	assert.Equal(t, 1, saved.Data.IngredientsSaved)
	assert.Equal(t, []string{"recGone"}, saved.Data.IngredientsSkipped)

	resp, raw = doJSON(t, app, fiber.MethodGet, "/api/recipes/"+saved.Data.ID, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var detail envelope[domain.RecipeView]
	require.NoError(t, json.Unmarshal(raw, &detail))
	assert.Equal(t, "Pomme", detail.Data.Ingredients[0].Name)
	assert.Equal(t, "Peel", detail.Data.Instructions[0].Text)
	assert.Nil(t, detail.Data.CookingTime)

	resp, raw = doJSON(t, app, fiber.MethodGet, "/api/recipes?limit=abc", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, string(raw))
}

func TestListRecipesWithLongStoredText(t *testing.T) {
	recordStore := storetest.NewSQLite(t)
	long := strings.Repeat("a", 1001)
	_, err := recordStore.Create(context.Background(), store.TableRecipes,
		entities.RecipeFields{Title: "Soupe", Description: long}.ToFields())
	require.NoError(t, err)
	app := newTestAppWithStore(t, recordStore)

	resp, raw := doJSON(t, app, fiber.MethodGet, "/api/recipes", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
	var body envelope[[]domain.RecipeView]
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, long, body.Data[0].Description)
}

func TestExportDisabledWithoutBucket(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/recipes/export", "")
	assert.Equal(t, fiber.StatusNotImplemented, resp.StatusCode)
}

func TestPingAndMetrics(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/ping", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, _ = doJSON(t, app, fiber.MethodGet, "/api/ingredients", "")
	resp, raw := doJSON(t, app, fiber.MethodGet, "/metrics", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "recipe_generator_store_requests_total")
}
