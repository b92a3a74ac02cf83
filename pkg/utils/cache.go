package utils

import (
	"sync"
	"time"
)

// 使用 sync.Map 保证并发安全
var memoryCache sync.Map

// cacheItem 内部结构，包含值和过期时间
type cacheItem struct {
	value      interface{}
	expiration int64
}

// SetCache 设置缓存
// 统计类接口每次全表聚合开销不小，短 TTL 缓存一下
func SetCache(key string, value interface{}, ttl time.Duration) {
	memoryCache.Store(key, cacheItem{
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	})
}

// GetCache 获取缓存并验证是否过期
func GetCache(key string) (interface{}, bool) {
	val, ok := memoryCache.Load(key)
	if !ok {
		return nil, false
	}

	item := val.(cacheItem)

	// 懒删除过期项
	if time.Now().UnixNano() > item.expiration {
		memoryCache.Delete(key)
		return nil, false
	}

	return item.value, true
}

// DeleteCache 删除缓存
func DeleteCache(key string) {
	memoryCache.Delete(key)
}
