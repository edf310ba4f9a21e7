package core

import "context"

// Store 是键值存储接口，值为不透明字节。
// 词表（vocab.StoreLoader）与分类预测缓存（scorer.ClassifierScorer）共用它，
// 实现见 store 包：MemoryStore 与 RedisStore。
type Store interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 的 ttl 以秒为单位，省略或为 0 表示不过期
	Set(ctx context.Context, key string, value []byte, ttl ...int) error
	Delete(ctx context.Context, key string) error
	// BatchGet 只返回存在的 key
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error
	Close() error
}

// ErrStoreNotFound 由 Get 在 key 不存在或已过期时返回
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsStoreNotFound 仅匹配存储层的 NOT_FOUND
func IsStoreNotFound(err error) bool {
	d := GetDomainError(err)
	return d != nil && d.Module == ModuleStore && d.Code == ErrorCodeNotFound
}
