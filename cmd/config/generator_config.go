package config

import (
	"Recipe-Generator/internal/utils"
	"Recipe-Generator/internal/utils/storage"
	"Recipe-Generator/pkg/generation"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

// NewGenerator returns nil without an error when no API key is configured.
// Generation routes then answer with a configuration error.
func NewGenerator() (generation.Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(utils.GetConfig("GENERATOR_PROVIDER")))
	cfg := generation.Config{
		Provider: provider,
		Timeout:  utils.GetDurationConfig("GENERATION_TIMEOUT"),
	}
	if provider == generation.ProviderGemini {
		cfg.APIKey = utils.GetConfig("GEMINI_API_KEY")
		cfg.Model = utils.GetConfig("GEMINI_MODEL")
	} else {
		cfg.APIKey = utils.GetConfig("LLM_API_KEY")
		cfg.Model = utils.GetConfig("LLM_MODEL")
		cfg.BaseURL = utils.GetConfig("LLM_BASE_URL")
	}

	g, err := generation.New(cfg)
	if errors.Is(err, generation.ErrMissingAPIKey) {
		log.Warnw("recipe generation disabled", "provider", provider, "reason", err)
		return nil, nil
	}
	return g, err
}

// NewExportStorage returns nil without an error when AWS_S3_BUCKET is unset.
func NewExportStorage(ctx context.Context) (storage.AwsS3, error) {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	if bucket == "" {
		log.Info("recipe export disabled: no bucket configured")
		return nil, nil
	}
	return storage.NewAwsS3(ctx, storage.S3Config{
		Bucket:    bucket,
		Region:    utils.GetConfig("AWS_S3_REGION"),
		AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
		SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
		Endpoint:  utils.GetConfig("AWS_S3_ENDPOINT"),
	})
}
