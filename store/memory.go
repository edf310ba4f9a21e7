// Package store 实现 core.Store：进程内的 MemoryStore 与基于 go-redis 的 RedisStore。
package store

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/rushteam/triagekit/core"
)

// MemoryStore 是进程内 Store：单实例部署的预测缓存，或测试中代替 Redis。
// 读写都复制字节切片，调用方修改返回值不会影响已存数据。过期条目由后台协程定期清理。
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]*entry
	clean *time.Ticker
	done  chan struct{}
	once  sync.Once
}

type entry struct {
	value  []byte
	expire time.Time // 零值表示永不过期
}

func (e *entry) expired(now time.Time) bool {
	return !e.expire.IsZero() && now.After(e.expire)
}

// DefaultCleanupInterval 是后台清理过期条目的周期
const DefaultCleanupInterval = 10 * time.Second

// MemoryOption MemoryStore 配置选项
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	cleanup time.Duration
}

// WithCleanupInterval 修改清理周期，非正值忽略
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		if d > 0 {
			o.cleanup = d
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	o := memoryOptions{cleanup: DefaultCleanupInterval}
	for _, opt := range opts {
		opt(&o)
	}
	ms := &MemoryStore{
		data:  make(map[string]*entry),
		clean: time.NewTicker(o.cleanup),
		done:  make(chan struct{}),
	}
	go ms.cleanup()
	return ms
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok || e.expired(time.Now()) {
		return nil, core.ErrStoreNotFound
	}
	return bytes.Clone(e.value), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = &entry{value: bytes.Clone(value), expire: expireAt(ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryStore) BatchGet(_ context.Context, keys []string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string][]byte, len(keys))
	now := time.Now()
	for _, k := range keys {
		e, ok := m.data[k]
		if !ok || e.expired(now) {
			continue
		}
		result[k] = bytes.Clone(e.value)
	}
	return result, nil
}

func (m *MemoryStore) BatchSet(_ context.Context, kvs map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expire := expireAt(ttl)
	for k, v := range kvs {
		m.data[k] = &entry{value: bytes.Clone(v), expire: expire}
	}
	return nil
}

// Close 停止后台清理协程，可重复调用
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		m.clean.Stop()
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanup() {
	for {
		select {
		case <-m.done:
			return
		case now := <-m.clean.C:
			m.evict(now)
		}
	}
}

// evict 删除 now 时刻已过期的条目，返回删除数量
func (m *MemoryStore) evict(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.data {
		if e.expired(now) {
			delete(m.data, k)
			n++
		}
	}
	return n
}

func expireAt(ttl []int) time.Time {
	if len(ttl) > 0 && ttl[0] > 0 {
		return time.Now().Add(time.Duration(ttl[0]) * time.Second)
	}
	return time.Time{}
}

var _ core.Store = (*MemoryStore)(nil)
