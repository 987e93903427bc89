package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
	"github.com/openshelf/catalog-api/internal/infrastructure/metrics"
)

const (
	defaultMaxAttempts  = 10
	defaultRetryBackoff = 25 * time.Millisecond
	defaultOpTimeout    = 2 * time.Second
	defaultListLimit    = 50
	maxListLimit        = 200
)

// GalleryOptions tunes the conditional-update loop.
type GalleryOptions struct {
	// MaxAttempts bounds the read-modify-write cycles per index update.
	MaxAttempts int
	// Backoff is the constant pause between attempts (jittered by ±50%).
	Backoff time.Duration
	// OpTimeout bounds every individual store call.
	OpTimeout time.Duration
	Now       func() time.Time
	NewID     func() (string, error)
}

// indexMutation computes the next index from the current one. changed=false
// means no write is needed.
type indexMutation func(ctx context.Context, current domain.GalleryIndex) (next domain.GalleryIndex, changed bool, err error)

// GalleryService stores gallery items under individual keys and keeps an
// ordered index of their identifiers. Index writes use compare-and-swap with a
// bounded retry so concurrent, stateless writers never drop each other's entries.
type GalleryService struct {
	store ports.KVStore
	opts  GalleryOptions
	log   zerolog.Logger
}

func NewGalleryService(store ports.KVStore, opts GalleryOptions, log zerolog.Logger) *GalleryService {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultRetryBackoff
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = defaultOpTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newItemID
	}
	return &GalleryService{store: store, opts: opts, log: log}
}

// newItemID returns a UUIDv7: time-ordered like the timestamps it replaces,
// but with enough randomness that concurrent writers do not collide.
func newItemID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Add stores item and prepends its identifier to the index.
func (s *GalleryService) Add(ctx context.Context, item domain.GalleryItem, actor domain.Role) (string, error) {
	if !actor.CanWrite() {
		return "", domain.ErrAuthorizationDenied
	}

	if item.ID == "" {
		id, err := s.opts.NewID()
		if err != nil {
			return "", fmt.Errorf("add gallery item: generate id: %w", err)
		}
		item.ID = id
	}
	if err := domain.ValidateItemID(item.ID); err != nil {
		return "", err
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.opts.Now().UTC()
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("add gallery item: encode: %w", err)
	}

	// The item is written before the index so every indexed id has a payload.
	err = s.withRetry(ctx, func(ctx context.Context) error {
		opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
		defer cancel()
		return s.store.Put(opCtx, domain.GalleryItemKey(item.ID), payload, 0)
	})
	if err != nil {
		return "", fmt.Errorf("add gallery item %s: write item: %w", item.ID, err)
	}

	err = s.updateIndex(ctx, "add", func(_ context.Context, ix domain.GalleryIndex) (domain.GalleryIndex, bool, error) {
		if ix.Contains(item.ID) {
			return ix, false, nil
		}
		return ix.Prepend(item.ID), true, nil
	})
	if err != nil {
		return "", fmt.Errorf("add gallery item %s: %w", item.ID, err)
	}

	s.log.Info().Str("id", item.ID).Str("role", actor.String()).Msg("gallery item added")
	return item.ID, nil
}

// Remove drops id from the index, then deletes its payload. Both steps are
// idempotent and retried independently; a missing id is not an error.
func (s *GalleryService) Remove(ctx context.Context, id string, actor domain.Role) error {
	if !actor.CanWrite() {
		return domain.ErrAuthorizationDenied
	}
	if err := domain.ValidateItemID(id); err != nil {
		return err
	}

	err := s.updateIndex(ctx, "remove", func(_ context.Context, ix domain.GalleryIndex) (domain.GalleryIndex, bool, error) {
		if !ix.Contains(id) {
			return ix, false, nil
		}
		return ix.Without(id), true, nil
	})
	if err != nil {
		return fmt.Errorf("remove gallery item %s: %w", id, err)
	}

	err = s.withRetry(ctx, func(ctx context.Context) error {
		opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
		defer cancel()
		return s.store.Delete(opCtx, domain.GalleryItemKey(id))
	})
	if err != nil {
		return fmt.Errorf("remove gallery item %s: delete item: %w", id, err)
	}

	s.log.Info().Str("id", id).Str("role", actor.String()).Msg("gallery item removed")
	return nil
}

// Get returns a single item.
func (s *GalleryService) Get(ctx context.Context, id string) (*domain.GalleryItem, error) {
	if err := domain.ValidateItemID(id); err != nil {
		return nil, fmt.Errorf("gallery item %q: %w", id, domain.ErrNotFound)
	}
	item, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// List returns a window of items in index order and the index length. Index
// entries whose payload is missing are skipped.
func (s *GalleryService) List(ctx context.Context, offset, limit int) ([]domain.GalleryItem, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	_, ix, err := s.readIndex(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list gallery: %w", err)
	}

	total := len(ix)
	if offset >= total {
		return []domain.GalleryItem{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	items := make([]domain.GalleryItem, 0, end-offset)
	for _, id := range ix[offset:end] {
		item, err := s.loadItem(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("id", id).Msg("indexed gallery item has no payload")
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("list gallery: %w", err)
		}
		items = append(items, *item)
	}
	return items, total, nil
}

// Audit compares the stored items with the index. With repair, the index is
// rewritten through the conditional-update loop: dangling and duplicate ids are
// dropped and orphans are merged in, newest first.
func (s *GalleryService) Audit(ctx context.Context, repair bool) (*ports.AuditReport, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	keys, err := s.store.List(listCtx, domain.GalleryItemKeyPrefix)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("audit gallery: list items: %w", err)
	}
	stored := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		stored[strings.TrimPrefix(k, domain.GalleryItemKeyPrefix)] = struct{}{}
	}

	_, ix, err := s.readIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit gallery: %w", err)
	}

	report := &ports.AuditReport{
		Indexed:    len(ix),
		Stored:     len(stored),
		Orphans:    []string{},
		Dangling:   []string{},
		Duplicates: []string{},
	}
	seen := make(map[string]int, len(ix))
	for _, id := range ix {
		seen[id]++
		if seen[id] == 2 {
			report.Duplicates = append(report.Duplicates, id)
		}
		if _, ok := stored[id]; !ok && seen[id] == 1 {
			report.Dangling = append(report.Dangling, id)
		}
	}
	for id := range stored {
		if seen[id] == 0 {
			report.Orphans = append(report.Orphans, id)
		}
	}
	sort.Strings(report.Orphans)

	if !repair || report.Clean() {
		return report, nil
	}

	created := make(map[string]time.Time, len(stored))
	for id := range stored {
		if seen[id] == 0 {
			continue
		}
		item, err := s.loadItem(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("audit gallery: %w", err)
		}
		created[id] = item.CreatedAt
	}
	orphans := make(map[string]struct{}, len(report.Orphans))
	for _, id := range report.Orphans {
		orphans[id] = struct{}{}
	}

	err = s.updateIndex(ctx, "repair", func(ctx context.Context, current domain.GalleryIndex) (domain.GalleryIndex, bool, error) {
		return s.rebuildIndex(ctx, current, created, orphans)
	})
	if err != nil {
		return nil, fmt.Errorf("audit gallery: %w", err)
	}
	report.Repaired = true
	s.log.Info().
		Int("orphans", len(report.Orphans)).
		Int("dangling", len(report.Dangling)).
		Int("duplicates", len(report.Duplicates)).
		Msg("gallery index repaired")
	return report, nil
}

// rebuildIndex orders the ids of current that still have a payload by
// creation time, newest first, and merges in the audit's orphans whose payload
// still exists. An id indexed at audit time but missing from current was
// removed concurrently and stays out.
func (s *GalleryService) rebuildIndex(ctx context.Context, current domain.GalleryIndex, created map[string]time.Time, orphans map[string]struct{}) (domain.GalleryIndex, bool, error) {
	position := make(map[string]int, len(current))
	for i, id := range current.Dedupe() {
		position[id] = i
	}

	known := make(map[string]time.Time, len(position)+len(orphans))
	for id := range position {
		if ts, ok := created[id]; ok {
			known[id] = ts
			continue
		}
		item, err := s.loadItem(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		known[id] = item.CreatedAt
	}
	for id := range orphans {
		if _, ok := position[id]; ok {
			continue
		}
		item, err := s.loadItem(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		known[id] = item.CreatedAt
	}

	next := make(domain.GalleryIndex, 0, len(known))
	for id := range known {
		next = append(next, id)
	}
	sort.SliceStable(next, func(i, j int) bool {
		a, b := known[next[i]], known[next[j]]
		if !a.Equal(b) {
			return a.After(b)
		}
		pa, oka := position[next[i]]
		pb, okb := position[next[j]]
		if oka && okb {
			return pa < pb
		}
		if oka != okb {
			return oka
		}
		return next[i] < next[j]
	})
	return next, true, nil
}

// updateIndex runs the read-modify-write cycle on the index with
// compare-and-swap, retrying version conflicts and store timeouts.
func (s *GalleryService) updateIndex(ctx context.Context, op string, mutate indexMutation) error {
	attempts := 0
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempts++

		entry, ix, err := s.readIndex(ctx)
		if err != nil {
			return retryable(err)
		}
		next, changed, err := mutate(ctx, ix)
		if err != nil {
			return retryable(err)
		}
		if !changed {
			return nil
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode index: %w", err)
		}

		opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
		defer cancel()
		if _, err := s.store.CompareAndSwap(opCtx, domain.GalleryIndexKey, data, entry.Version); err != nil {
			s.log.Debug().Err(err).Str("op", op).Int("attempt", attempts).Msg("index update conflict")
			return retryable(err)
		}
		return nil
	})
	metrics.GalleryIndexAttempts.WithLabelValues(op).Observe(float64(attempts))

	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s index: %w", op, ctx.Err())
	}
	if isRetryable(err) {
		metrics.GalleryIndexConflictsTotal.WithLabelValues(op).Inc()
		s.log.Error().Err(err).Str("op", op).Int("attempts", attempts).Msg("gallery index update gave up")
		return fmt.Errorf("%s index after %d attempts: %w", op, attempts, domain.ErrIndexConflict)
	}
	return fmt.Errorf("%s index: %w", op, err)
}

// withRetry retries fn on store timeouts with the same budget as index updates.
func (s *GalleryService) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		return retryable(fn(ctx))
	})
}

func (s *GalleryService) backoff() retry.Backoff {
	b := retry.NewConstant(s.opts.Backoff)
	if jitter := s.opts.Backoff / 2; jitter > 0 {
		b = retry.WithJitter(jitter, b)
	}
	return retry.WithMaxRetries(uint64(s.opts.MaxAttempts-1), b)
}

func (s *GalleryService) readIndex(ctx context.Context) (ports.Entry, domain.GalleryIndex, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()

	entry, err := s.store.Get(opCtx, domain.GalleryIndexKey)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return ports.Entry{}, domain.GalleryIndex{}, nil
	}
	if err != nil {
		return ports.Entry{}, nil, fmt.Errorf("read index: %w", err)
	}

	var ix domain.GalleryIndex
	if err := json.Unmarshal(entry.Value, &ix); err != nil {
		return ports.Entry{}, nil, fmt.Errorf("decode index: %w", err)
	}
	return entry, ix, nil
}

func (s *GalleryService) loadItem(ctx context.Context, id string) (*domain.GalleryItem, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()

	entry, err := s.store.Get(opCtx, domain.GalleryItemKey(id))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil, fmt.Errorf("gallery item %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load gallery item %q: %w", id, err)
	}

	var item domain.GalleryItem
	if err := json.Unmarshal(entry.Value, &item); err != nil {
		return nil, fmt.Errorf("decode gallery item %q: %w", id, err)
	}
	if item.ID == "" {
		item.ID = id
	}
	return &item, nil
}

func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrVersionMismatch) || errors.Is(err, context.DeadlineExceeded)
}

func retryable(err error) error {
	if err != nil && isRetryable(err) {
		return retry.RetryableError(err)
	}
	return err
}
