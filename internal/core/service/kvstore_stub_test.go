package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
)

// memStore is an in-memory KVStore with versioned compare-and-swap, safe for
// concurrent use. Hooks let tests inject failures.
type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	version map[string]int
	seq     int

	// casHook runs before each CompareAndSwap; a non-nil error is returned as-is.
	casHook func(key string) error
	getErr  error
	casN    int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte), version: make(map[string]int)}
}

func (m *memStore) Get(ctx context.Context, key string) (ports.Entry, error) {
	if err := ctx.Err(); err != nil {
		return ports.Entry{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return ports.Entry{}, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return ports.Entry{}, domain.ErrKeyNotFound
	}
	return ports.Entry{Value: append([]byte(nil), v...), Version: strconv.Itoa(m.version[key])}, nil
}

func (m *memStore) Put(ctx context.Context, key string, value []byte, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.data[key] = append([]byte(nil), value...)
	m.version[key] = m.seq
	return nil
}

func (m *memStore) CompareAndSwap(ctx context.Context, key string, value []byte, expected string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	hook := m.casHook
	m.casN++
	m.mu.Unlock()
	if hook != nil {
		if err := hook(key); err != nil {
			return "", err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	current := ""
	if _, ok := m.data[key]; ok {
		current = strconv.Itoa(m.version[key])
	}
	if current != expected {
		return "", domain.ErrVersionMismatch
	}
	m.seq++
	m.data[key] = append([]byte(nil), value...)
	m.version[key] = m.seq
	return strconv.Itoa(m.seq), nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.version, key)
	return nil
}

func (m *memStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}
