package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
)

const defaultOpTimeout = 2 * time.Second

// CacheTier serves catalogs from the shared key-value store and is also the
// writer used to populate it.
type CacheTier struct {
	store     ports.KVStore
	ttl       time.Duration
	opTimeout time.Duration
}

func NewCacheTier(store ports.KVStore, ttl, opTimeout time.Duration) *CacheTier {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &CacheTier{store: store, ttl: ttl, opTimeout: opTimeout}
}

func (t *CacheTier) Name() string { return "cache" }

func (t *CacheTier) Load(ctx context.Context, lang domain.Language) ([]domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, t.opTimeout)
	defer cancel()

	entry, err := t.store.Get(ctx, domain.CatalogKey(lang))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil, domain.ErrTierMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var records []domain.Record
	if err := json.Unmarshal(entry.Value, &records); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", lang, err)
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

// Store writes the full catalog for lang with the configured TTL.
func (t *CacheTier) Store(ctx context.Context, lang domain.Language, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", lang, err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.opTimeout)
	defer cancel()

	if err := t.store.Put(ctx, domain.CatalogKey(lang), b, t.ttl); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}
