package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/ai"
	"github.com/spigell/cv-sync/internal/embedding"
	"github.com/spigell/cv-sync/internal/jobs"
	"github.com/spigell/cv-sync/internal/logger"
	"github.com/spigell/cv-sync/internal/redisstore"
	"github.com/spigell/cv-sync/internal/resumes"
	"github.com/spigell/cv-sync/internal/secrets"
	"github.com/spigell/cv-sync/internal/storage/postgres"
)

func mustLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

func mustConfig(l *zap.Logger) *Config {
	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}
	return config
}

func connectDatabase(ctx context.Context, cfg *DatabaseConfig, skipVectorTypes bool) (*pgxpool.Pool, error) {
	url, err := secrets.Load(secrets.Source{
		Name:  "database url",
		Value: cfg.URL,
		File:  cfg.URLFile,
		Env:   "DATABASE_URL",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set database.url, database.url-file or DATABASE_URL)", err)
	}

	return postgres.Connect(ctx, postgres.Options{
		URL:             url,
		MaxConns:        cfg.MaxConns,
		SimpleProtocol:  cfg.SimpleProtocol,
		SkipVectorTypes: skipVectorTypes,
	})
}

// connectRedis returns a nil client when redis is not configured.
func connectRedis(ctx context.Context, cfg *RedisConfig) (*redis.Client, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, nil
	}
	return redisstore.NewClient(ctx, url)
}

func newGenerator(ctx context.Context, cfg *AIConfig, rdb *redis.Client, l *zap.Logger) (*embedding.Generator, error) {
	aiCfg := ai.Config{
		Provider:      cfg.Provider,
		GeminiModel:   cfg.Gemini.Model,
		OpenAIModel:   cfg.OpenAI.Model,
		OpenAIBaseURL: cfg.OpenAI.BaseURL,
	}

	var err error
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ai.ProviderOpenAI:
		aiCfg.OpenAIAPIKey, err = secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: cfg.OpenAI.APIKey,
			File:  cfg.OpenAI.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		})
	default:
		aiCfg.GeminiAPIKey, err = secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.Gemini.APIKey,
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
	}
	if err != nil {
		return nil, err
	}

	embedder, err := ai.NewEmbedder(ctx, aiCfg)
	if err != nil {
		return nil, err
	}

	var cache embedding.Cache
	if rdb != nil {
		cache = redisstore.NewEmbeddingCache(rdb, viper.GetDuration("redis.cache-ttl"))
	}

	return embedding.NewGenerator(embedder, cache, l, cfg.MaxLogLength), nil
}

// deps holds everything the commands share. Close releases it.
type deps struct {
	pool      *pgxpool.Pool
	redis     *redis.Client
	store     *postgres.Store
	generator *embedding.Generator
	resumes   *resumes.Repository
	jobs      *jobs.Engine
}

// buildDeps connects to postgres and, when configured, to redis. Without a
// usable embedding provider resumes are still saved, only not embedded,
// unless requireGenerator is set.
func buildDeps(ctx context.Context, config *Config, l *zap.Logger, requireGenerator bool) (*deps, error) {
	pool, err := connectDatabase(ctx, config.Database, false)
	if err != nil {
		return nil, err
	}

	d := &deps{pool: pool, store: postgres.New(pool, l)}

	d.redis, err = connectRedis(ctx, config.Redis)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.generator, err = newGenerator(ctx, config.AI, d.redis, l)
	if err != nil {
		if requireGenerator {
			d.Close()
			return nil, err
		}
		l.Warn("embeddings are disabled", zap.Error(err))
		d.generator = nil
	}

	opts := resumes.Options{
		Atomic:                 config.Sync.Atomic,
		SkipUnchangedEmbedding: config.Sync.SkipUnchangedEmbedding,
	}
	if d.redis != nil {
		opts.Notifier = redisstore.NewPublisher(d.redis)
	}

	var (
		resumeGen resumes.Generator
		jobGen    jobs.Generator
	)
	if d.generator != nil {
		resumeGen, jobGen = d.generator, d.generator
		l = logger.WithCommonFields(l, d.generator.Provider(), d.generator.Model())
	}

	d.resumes = resumes.New(d.store, resumeGen, l, opts)
	d.jobs = jobs.NewEngine(d.store, jobGen, l)

	return d, nil
}

func (d *deps) Close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}
