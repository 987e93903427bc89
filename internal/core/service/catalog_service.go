package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
	"github.com/openshelf/catalog-api/internal/infrastructure/metrics"
)

// CatalogService resolves a language's catalog through an ordered list of
// tiers: the first tier is the cache, later tiers are progressively slower and
// more authoritative. The first tier to answer wins, even with an empty list.
type CatalogService struct {
	languages domain.LanguageSet
	tiers     []ports.CatalogTier
	writer    ports.CatalogCacheWriter
	warmer    ports.CacheWarmer
	log       zerolog.Logger
}

// NewCatalogService wires the resolver. tiers[0] is treated as the cache tier:
// answers from any later tier are handed to warmer (or written through writer
// when warmer is nil). Both may be nil to disable cache population.
func NewCatalogService(
	languages domain.LanguageSet,
	tiers []ports.CatalogTier,
	writer ports.CatalogCacheWriter,
	warmer ports.CacheWarmer,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		languages: languages,
		tiers:     tiers,
		writer:    writer,
		warmer:    warmer,
		log:       log,
	}
}

func (s *CatalogService) Languages() domain.LanguageSet { return s.languages }

// Resolve returns the catalog for lang. Unsupported languages are rejected
// before any tier is consulted.
func (s *CatalogService) Resolve(ctx context.Context, raw string) (*ports.CatalogResult, error) {
	lang, err := s.languages.Parse(raw)
	if err != nil {
		return nil, err
	}

	res, hit, err := s.resolveFrom(ctx, lang, 0)
	if err != nil {
		return nil, err
	}
	if hit > 0 {
		s.populate(ctx, lang, res.Records)
	}
	return res, nil
}

// Find resolves lang and returns the record with the given id.
func (s *CatalogService) Find(ctx context.Context, raw, id string) (*domain.Record, error) {
	res, err := s.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	for i := range res.Records {
		if res.Records[i].ID == id {
			rec := res.Records[i]
			return &rec, nil
		}
	}
	return nil, fmt.Errorf("catalog record %q: %w", id, domain.ErrNotFound)
}

// Refresh skips the cache tier, resolves from the remaining tiers, and writes
// the result to the cache before returning.
func (s *CatalogService) Refresh(ctx context.Context, raw string) (*ports.CatalogResult, error) {
	lang, err := s.languages.Parse(raw)
	if err != nil {
		return nil, err
	}

	res, _, err := s.resolveFrom(ctx, lang, 1)
	if err != nil {
		return nil, err
	}
	if s.writer != nil {
		if err := s.writer.Store(ctx, lang, res.Records); err != nil {
			return nil, fmt.Errorf("refresh %s: write cache: %w", lang, err)
		}
	}
	s.log.Info().Str("lang", lang.String()).Str("tier", res.Tier).Int("count", len(res.Records)).Msg("catalog cache refreshed")
	return res, nil
}

// resolveFrom walks tiers starting at index start and returns the first
// answer together with the index of the tier that produced it.
func (s *CatalogService) resolveFrom(ctx context.Context, lang domain.Language, start int) (*ports.CatalogResult, int, error) {
	var lastErr error
	for i := start; i < len(s.tiers); i++ {
		tier := s.tiers[i]

		records, err := tier.Load(ctx, lang)
		if err == nil {
			if records == nil {
				records = []domain.Record{}
			}
			metrics.CatalogResolutionsTotal.WithLabelValues(tier.Name(), lang.String()).Inc()
			return &ports.CatalogResult{Lang: lang, Records: records, Tier: tier.Name()}, i, nil
		}

		lastErr = err
		if errors.Is(err, domain.ErrTierMiss) {
			metrics.CatalogTierFailuresTotal.WithLabelValues(tier.Name(), "miss").Inc()
			s.log.Debug().Str("lang", lang.String()).Str("tier", tier.Name()).Msg("tier miss")
			continue
		}
		metrics.CatalogTierFailuresTotal.WithLabelValues(tier.Name(), "error").Inc()
		s.log.Warn().Err(err).Str("lang", lang.String()).Str("tier", tier.Name()).Msg("tier failed, falling through")
	}

	metrics.CatalogUnavailableTotal.Inc()
	if lastErr == nil {
		return nil, -1, fmt.Errorf("resolve %s: %w", lang, domain.ErrDataSourceUnavailable)
	}
	return nil, -1, fmt.Errorf("resolve %s: %w: %w", lang, domain.ErrDataSourceUnavailable, lastErr)
}

func (s *CatalogService) populate(ctx context.Context, lang domain.Language, records []domain.Record) {
	if s.warmer != nil {
		if !s.warmer.Enqueue(lang, records) {
			s.log.Warn().Str("lang", lang.String()).Msg("cache warm queue full, skipping population")
		}
		return
	}
	if s.writer == nil {
		return
	}
	if err := s.writer.Store(ctx, lang, records); err != nil {
		s.log.Warn().Err(err).Str("lang", lang.String()).Msg("cache population failed")
	}
}
