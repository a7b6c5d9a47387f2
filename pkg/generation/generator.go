package generation

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/internal/metrics"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultTimeout     = 60 * time.Second
	defaultTemperature = 0.7
)

var (
	ErrMissingAPIKey   = errors.New("generation: api key must not be empty")
	ErrUnknownProvider = errors.New("generation: unknown provider")
	ErrEmptyResponse   = errors.New("generation: provider returned no content")
	ErrNoJSONObject    = errors.New("generation: response does not contain a JSON object")
)

type (
	// ObjectRequest asks for one JSON object matching Schema. Name labels
	// the call in metrics and is sent as the schema name where supported.
	ObjectRequest struct {
		Name        string
		System      string
		Prompt      string
		Schema      Schema
		Temperature float64
	}

	Generator interface {
		// GenerateJSON returns the raw JSON object produced by the model.
		// Every failure is a *domain.GenerationError.
		GenerateJSON(ctx context.Context, req ObjectRequest) ([]byte, error)
		Provider() string
	}

	Config struct {
		Provider    string
		APIKey      string
		Model       string
		BaseURL     string
		Temperature float64
		Timeout     time.Duration
		HTTPClient  *http.Client
	}

	completer interface {
		complete(ctx context.Context, req ObjectRequest) (string, error)
	}

	generator struct {
		provider string
		timeout  time.Duration
		backend  completer
	}
)

func New(cfg Config) (Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	var backend completer
	switch provider {
	case ProviderGemini:
		backend = newGeminiClient(apiKey, cfg.Model, cfg.BaseURL, temperature, httpClient)
	case ProviderOpenAI, "mistral", "":
		provider = ProviderOpenAI
		backend = newOpenAIClient(apiKey, cfg.Model, cfg.BaseURL, temperature, httpClient)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownProvider, cfg.Provider)
	}

	return &generator{provider: provider, timeout: timeout, backend: backend}, nil
}

func (g *generator) Provider() string {
	return g.provider
}

func (g *generator) GenerateJSON(ctx context.Context, req ObjectRequest) (raw []byte, err error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.backend.complete(ctx, req)
	if err == nil {
		raw, err = ExtractJSON(text)
	}
	metrics.ObserveGeneration(req.Name, g.provider, start, err)
	if err != nil {
		log.Errorw("generation failed", "name", req.Name, "provider", g.provider, "error", err)
		return nil, &domain.GenerationError{Message: "generation request failed", Err: err}
	}
	return raw, nil
}

// ExtractJSON trims code fences and surrounding prose from a model answer
// and returns the outermost JSON object.
func ExtractJSON(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start > end {
		return nil, ErrNoJSONObject
	}
	return []byte(text[start : end+1]), nil
}
