// Package redistest 提供进程内的 AsyncCacheService 实现，供测试使用
package redistest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	myredis "devmatch_server/internal/dao/redis"
)

// ErrInjected Fail 打开后所有写操作返回的错误
var ErrInjected = errors.New("redistest: injected failure")

// MemoryCache 字符串和集合都保存在内存中，不处理过期
// 和 go-redis 一样，ctx 已取消时命令直接返回 ctx.Err()
// SubmitTask 同步执行，测试里不需要等待
type MemoryCache struct {
	mu      sync.Mutex
	strings map[string]string
	sets    map[string]map[string]struct{}
	fail    bool
}

// New 创建空缓存
func New() *MemoryCache {
	return &MemoryCache{
		strings: make(map[string]string),
		sets:    make(map[string]map[string]struct{}),
	}
}

// Fail 控制写操作是否失败
func (m *MemoryCache) Fail(on bool) {
	m.mu.Lock()
	m.fail = on
	m.mu.Unlock()
}

func (m *MemoryCache) Set(ctx context.Context, key string, value string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return ErrInjected
	}
	m.strings[key] = value
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.strings[key], nil
}

func (m *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.strings, k)
		delete(m.sets, k)
	}
	return nil
}

func (m *MemoryCache) AddToSet(ctx context.Context, key string, _ time.Duration, members ...interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return ErrInjected
	}
	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, v := range members {
		if s, ok := v.(string); ok {
			set[s] = struct{}{}
		}
	}
	return nil
}

func (m *MemoryCache) GetSetMembers(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Members(key), nil
}

// Members 排序后的集合成员，key 不存在返回空
func (m *MemoryCache) Members(key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sets[key]))
	for v := range m.sets[key] {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Exists key 是否存在
func (m *MemoryCache) Exists(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, s := m.strings[key]
	_, set := m.sets[key]
	return s || set
}

func (m *MemoryCache) SubmitTask(action func()) {
	action()
}

var _ myredis.AsyncCacheService = (*MemoryCache)(nil)
