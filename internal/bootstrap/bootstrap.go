// Package bootstrap turns configuration into the concrete backends shared by
// the server and the seed tool.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/salescast/internal/cache"
	"github.com/andresuchdata/salescast/internal/chat"
	"github.com/andresuchdata/salescast/internal/config"
	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/repository/postgres"
	"github.com/andresuchdata/salescast/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Resources holds the opened backends. Close releases them.
type Resources struct {
	Blobs    storage.BlobStore
	Locker   cache.Locker
	Sales    *storage.Collection[[]domain.SalesRecord]
	Products *storage.Collection[[]domain.ProductRecord]

	redis   *redis.Client
	closers []func() error
}

// Open builds the record store selected by cfg.Store.Driver and the collection locker.
func Open(ctx context.Context, cfg *config.Config) (*Resources, error) {
	res := &Resources{}

	blobs, err := res.openStore(ctx, cfg)
	if err != nil {
		res.Close()
		return nil, err
	}
	res.Blobs = blobs

	locker, err := res.openLocker(cfg.Cache)
	if err != nil {
		res.Close()
		return nil, err
	}
	res.Locker = locker

	res.Sales = storage.NewCollection[[]domain.SalesRecord](blobs, cfg.Store.SalesCollection)
	res.Products = storage.NewCollection[[]domain.ProductRecord](blobs, cfg.Store.ProductsCollection)

	log.Info().
		Str("store", cfg.Store.Driver).
		Str("lock", cfg.Cache.LockBackend).
		Msg("Record store ready")
	return res, nil
}

func (r *Resources) openStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch strings.ToLower(cfg.Store.Driver) {
	case "", DriverFile:
		return storage.NewFileStore(cfg.Store.DataDir)
	case DriverMemory:
		return storage.NewMemoryStore(), nil
	case DriverPostgres:
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, db.Close)

		store := postgres.NewCollectionStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case DriverS3:
		client, err := NewObjectStorage(cfg.ObjectStore)
		if err != nil {
			return nil, err
		}
		return storage.NewObjectBlobStore(client, cfg.ObjectStore.Prefix), nil
	case DriverRedis:
		client, err := r.redisClient(cfg.Cache)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func (r *Resources) openLocker(cfg config.CacheConfig) (cache.Locker, error) {
	switch strings.ToLower(cfg.LockBackend) {
	case "", "local":
		return cache.NewLocalLocker(), nil
	case "redis":
		client, err := r.redisClient(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisLocker(client, time.Duration(cfg.LockTTLSeconds)*time.Second), nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.LockBackend)
	}
}

func (r *Resources) redisClient(cfg config.CacheConfig) (*redis.Client, error) {
	if r.redis != nil {
		return r.redis, nil
	}
	client, err := cache.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	r.redis = client
	r.closers = append(r.closers, client.Close)
	return client, nil
}

// Close releases every opened backend in reverse order.
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// NewObjectStorage connects to the configured S3-compatible bucket.
func NewObjectStorage(cfg config.ObjectStoreConfig) (*storage.S3Client, error) {
	return storage.NewS3Client(storage.S3Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	})
}

// NewCompleter returns the chat provider named by cfg.Provider. A provider
// without an API key yields a Completer that always reports ErrNotConfigured.
func NewCompleter(ctx context.Context, cfg config.ChatConfig) (chat.Completer, func() error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		client, err := chat.NewGeminiClient(ctx, chat.GeminiConfig{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.GeminiModel,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Gemini chat disabled")
			return chat.Unconfigured("gemini"), noop
		}
		return client, client.Close
	default:
		if cfg.MistralAPIKey == "" {
			log.Warn().Msg("MISTRAL_API_KEY is not set, chat replies will report the service as unavailable")
			return chat.Unconfigured("mistral"), noop
		}
		return chat.NewMistralClient(chat.MistralConfig{
			APIKey:    cfg.MistralAPIKey,
			URL:       cfg.MistralURL,
			Model:     cfg.MistralModel,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout(),
		}), noop
	}
}
