package ports

import (
	"context"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

// CatalogTier is one data source in the resolver's fallback chain.
type CatalogTier interface {
	Name() string
	// Load returns domain.ErrTierMiss when the tier has nothing for lang.
	// A non-nil empty slice is a valid, terminal answer.
	Load(ctx context.Context, lang domain.Language) ([]domain.Record, error)
}

// CatalogCacheWriter populates the cache tier.
type CatalogCacheWriter interface {
	Store(ctx context.Context, lang domain.Language, records []domain.Record) error
}

// CacheWarmer accepts records for asynchronous cache population.
type CacheWarmer interface {
	Enqueue(lang domain.Language, records []domain.Record) bool
}

// CatalogResult is a resolved catalog and the tier that produced it.
type CatalogResult struct {
	Lang    domain.Language
	Records []domain.Record
	Tier    string
}

// CatalogService resolves catalog records through the tier chain.
type CatalogService interface {
	Languages() domain.LanguageSet
	Resolve(ctx context.Context, lang string) (*CatalogResult, error)
	Find(ctx context.Context, lang, id string) (*domain.Record, error)
	Refresh(ctx context.Context, lang string) (*CatalogResult, error)
}
