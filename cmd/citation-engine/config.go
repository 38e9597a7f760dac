// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/citation-engine/internal/cache"
	"github.com/pdiddy/citation-engine/internal/catalog"
	"github.com/pdiddy/citation-engine/internal/httputil"
	"github.com/pdiddy/citation-engine/internal/output"
	"github.com/pdiddy/citation-engine/internal/secrets"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// setDefaults registers every config key so environment variables and
// config files can override it.
func setDefaults() {
	d := types.DefaultConfig()
	viper.SetDefault("catalog.base_url", d.Catalog.BaseURL)
	viper.SetDefault("catalog.api_key", d.Catalog.APIKey)
	viper.SetDefault("catalog.user_agent", d.Catalog.UserAgent)
	viper.SetDefault("catalog.timeout", d.Catalog.Timeout)
	viper.SetDefault("catalog.rate_limit", d.Catalog.RateLimit)
	viper.SetDefault("catalog.retry.max_attempts", d.Catalog.Retry.MaxAttempts)
	viper.SetDefault("catalog.retry.base_delay", d.Catalog.Retry.BaseDelay)
	viper.SetDefault("catalog.retry.max_delay", d.Catalog.Retry.MaxDelay)
	viper.SetDefault("catalog.cache_path", d.Catalog.CachePath)
	viper.SetDefault("catalog.cache_ttl", d.Catalog.CacheTTL)
	viper.SetDefault("resolve.reference_limit", d.Resolve.ReferenceLimit)
}

// bindCatalogFlags adds the catalog connection flags to f and binds them
// to their config keys. Each key is bound once, so the flags live on the
// root command.
func bindCatalogFlags(f *pflag.FlagSet) {
	f.String("api-key", "", "Semantic Scholar API key")
	f.String("base-url", "", "catalog API root (default https://api.semanticscholar.org)")
	f.Float64("rate-limit", 0, "catalog requests per second (default 1; negative disables)")
	f.String("cache", "", "SQLite response cache file (disabled when empty)")

	viper.BindPFlag("catalog.api_key", f.Lookup("api-key"))
	viper.BindPFlag("catalog.base_url", f.Lookup("base-url"))
	viper.BindPFlag("catalog.rate_limit", f.Lookup("rate-limit"))
	viper.BindPFlag("catalog.cache_path", f.Lookup("cache"))
}

// loadConfig overlays viper's settings on the defaults.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

// newCatalog builds the catalog client from cfg. The returned function
// closes the response cache, if one was opened.
func newCatalog(ctx context.Context, cfg types.CatalogConfig) (*catalog.Client, func(), error) {
	apiKey := secrets.Resolve(cfg.APIKey, loadedSecrets, secrets.SemanticScholarKey, secrets.SemanticScholarEnv)

	opts := []catalog.ClientOption{
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		catalog.WithBaseURL(cfg.BaseURL),
		catalog.WithAPIKey(apiKey),
		catalog.WithUserAgent(cfg.UserAgent),
		catalog.WithRateLimit(cfg.RateLimit),
		catalog.WithRetryPolicy(httputil.PolicyFromConfig(cfg.Retry)),
		catalog.WithLogger(logger.Named("catalog")),
	}

	closer := func() {}
	if cfg.CachePath != "" {
		store, err := cache.NewStore(cfg.CachePath, cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		if n, err := store.Purge(ctx); err == nil && n > 0 {
			logger.Debug("purged expired cache entries", zap.Int64("entries", n))
		}
		opts = append(opts, catalog.WithCache(store))
		closer = func() { store.Close() }
	}

	return catalog.NewClient(opts...), closer, nil
}

// outputFormat reads the --output flag.
func outputFormat(cmd *cobra.Command) (output.Format, error) {
	s, _ := cmd.Flags().GetString("output")
	return output.ParseFormat(s)
}
