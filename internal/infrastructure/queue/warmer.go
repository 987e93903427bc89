package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
	"github.com/openshelf/catalog-api/internal/infrastructure/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
)

type warmJob struct {
	lang    domain.Language
	records []domain.Record
}

// Warmer writes resolved catalogs back to the cache in the background. Jobs
// are sharded by language so writes for one language are applied in order.
type Warmer struct {
	workers []chan warmJob
	writer  ports.CatalogCacheWriter
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewWarmer creates a Warmer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewWarmer(numWorkers int, writer ports.CatalogCacheWriter, log zerolog.Logger) *Warmer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &Warmer{
		workers: make([]chan warmJob, numWorkers),
		writer:  writer,
		log:     log,
	}
	for i := range w.workers {
		w.workers[i] = make(chan warmJob, channelBuffer)
	}
	return w
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (w *Warmer) Start(ctx context.Context) {
	for i, ch := range w.workers {
		w.wg.Add(1)
		go w.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (w *Warmer) Wait() { w.wg.Wait() }

// Enqueue never blocks: when the worker's queue is full the job is dropped
// and false is returned. A dropped write only costs a later cache miss.
func (w *Warmer) Enqueue(lang domain.Language, records []domain.Record) bool {
	idx := w.shardIndex(lang)
	select {
	case w.workers[idx] <- warmJob{lang: lang, records: records}:
		metrics.CacheWarmQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return true
	default:
		metrics.CacheWarmTotal.WithLabelValues("dropped").Inc()
		w.log.Warn().Str("lang", lang.String()).Int("worker_id", idx).Msg("cache warm queue full, dropping")
		return false
	}
}

func (w *Warmer) shardIndex(lang domain.Language) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(lang))
	return int(h.Sum32() % uint32(len(w.workers)))
}

func (w *Warmer) runWorker(ctx context.Context, id int, ch <-chan warmJob) {
	defer w.wg.Done()
	depth := metrics.CacheWarmQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-ch:
			depth.Dec()
			if err := w.writer.Store(ctx, job.lang, job.records); err != nil {
				metrics.CacheWarmTotal.WithLabelValues("error").Inc()
				w.log.Error().Err(err).
					Str("lang", job.lang.String()).
					Int("worker_id", id).
					Msg("cache warm failed")
				continue
			}
			metrics.CacheWarmTotal.WithLabelValues("ok").Inc()
		}
	}
}
