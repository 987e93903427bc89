package main

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
	"github.com/openshelf/catalog-api/internal/core/service"
	"github.com/openshelf/catalog-api/internal/infrastructure/catalog"
	"github.com/openshelf/catalog-api/internal/infrastructure/db/redis"
	"github.com/openshelf/catalog-api/internal/pkg/signature"
)

// connectStore opens the shared Redis store. The caller closes the client.
func connectStore(ctx context.Context) (*goredis.Client, *redis.Store, error) {
	client, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.OpTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, redis.NewStore(client), nil
}

func newCacheTier(store ports.KVStore) *catalog.CacheTier {
	return catalog.NewCacheTier(store, cfg.Catalog.CacheTTL, cfg.Redis.OpTimeout)
}

// newCatalogService builds the cache → snapshot → source resolver. warmer may
// be nil, in which case the cache is populated synchronously.
func newCatalogService(cache *catalog.CacheTier, warmer ports.CacheWarmer) *service.CatalogService {
	tiers := []ports.CatalogTier{
		cache,
		catalog.NewSnapshotTier(catalog.SnapshotFS(cfg.Catalog.SnapshotDir)),
		catalog.NewSourceTier(cfg.Catalog.SourcePath),
	}
	languages := domain.NewLanguageSet(cfg.Catalog.Languages...)
	return service.NewCatalogService(languages, tiers, cache, warmer, log)
}

func newGalleryService(store ports.KVStore) *service.GalleryService {
	return service.NewGalleryService(store, service.GalleryOptions{
		MaxAttempts: cfg.Gallery.MaxAttempts,
		Backoff:     cfg.Gallery.RetryBackoff,
		OpTimeout:   cfg.Redis.OpTimeout,
	}, log)
}

func newSessionService() (*service.SessionService, error) {
	if cfg.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}
	codec, err := signature.New([]byte(cfg.Session.Secret))
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}
	return service.NewSessionService(codec, service.SessionOptions{
		TTL:          cfg.Session.TTL,
		SecureCookie: cfg.Session.SecureCookie,
	}, log), nil
}
