package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/folio/internal/ai"
	"github.com/spigell/folio/internal/ai/gemini"
	"github.com/spigell/folio/internal/catalog"
	"github.com/spigell/folio/internal/logger"
	"github.com/spigell/folio/internal/responder"
	"github.com/spigell/folio/internal/secrets"
)

// setup builds the logger and reads the config, exiting on failure like every
// command does.
func setup() (*zap.Logger, *Config) {
	logger := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	})

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	return logger, config
}

func loadCatalog(config *Config, logger *zap.Logger) (*catalog.Catalog, error) {
	path := strings.TrimSpace(config.CatalogFile)
	if path == "" {
		return catalog.Default(), nil
	}

	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, err
	}

	logger.Info("catalog loaded from file",
		zap.String("file", path),
		zap.Int("items", c.Len()),
		zap.Strings("categories", c.Categories()),
	)
	return c, nil
}

// newCapability returns the configured AI capability or nil when AI is
// disabled or has no key. A nil capability is valid: the responder then
// answers with fallback text only.
func newCapability(ctx context.Context, cfg *AIConfig, baseLogger *zap.Logger) (ai.Capability, error) {
	if cfg == nil || !cfg.Enabled {
		baseLogger.Info("ai is disabled, responses will use fallback text")
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if errors.Is(err, secrets.ErrNotConfigured) {
		baseLogger.Warn("gemini api key is not configured, responses will use fallback text",
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file"),
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !gemini.ValidKey(apiKey, cfg.Gemini.KeyPrefix) {
		baseLogger.Warn("gemini api key does not look valid, requests will use fallback text",
			zap.String("expected_prefix", cfg.Gemini.KeyPrefix),
		)
	}

	genLogger := logger.ForCall(baseLogger, logger.Call{Provider: gemini.Provider, Model: cfg.Gemini.Model})
	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, genLogger)
	if err != nil {
		return nil, err
	}

	return generator, nil
}

func responderConfig(cfg *AIConfig) responder.Config {
	rc := responder.DefaultConfig()
	if cfg == nil {
		return rc
	}

	rc.Timeout = cfg.Timeout
	rc.MaxOutputTokens = cfg.MaxOutputTokens
	rc.Temperature = cfg.Temperature
	rc.HistoryLimit = cfg.HistoryLimit

	if cfg.Gemini != nil {
		rc.KeyPrefix = cfg.Gemini.KeyPrefix
		rc.PreviewLength = cfg.Gemini.MaxLogLength
	}

	if cfg.Breaker != nil {
		rc.Breaker = responder.BreakerConfig{
			FailureThreshold: cfg.Breaker.FailureThreshold,
			OpenTimeout:      cfg.Breaker.OpenTimeout,
			Interval:         cfg.Breaker.Interval,
		}
	}

	return rc
}
