package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== SyncRateLimiter 同步限流器 ====================

// SyncRateLimiter 手动同步限流器
// 防止用户频繁触发手动同步导致 Shopify API 限流
type SyncRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &SyncRateLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *SyncRateLimiter {
	return globalLimiter
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行
// key: 限流键，如 "tenant:xxx:orders"
// interval: 冷却间隔
func (r *SyncRateLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset 重置指定 key 的限流
func (r *SyncRateLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// TenantSyncKey 生成租户级同步 Key
func TenantSyncKey(tenantID, scope string) string {
	return fmt.Sprintf("tenant:%s:%s", tenantID, scope)
}

// ==================== Gin 中间件 ====================

// SyncRateLimit 手动同步限流中间件
// 按租户 + 同步范围维度冷却，interval 为 0 时用默认 1 分钟
func SyncRateLimit(scope string, interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = time.Minute
	}

	return func(c *gin.Context) {
		key := TenantSyncKey(GetTenantID(c), scope)

		result := GetLimiter().Check(key, interval)
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": fmt.Sprintf("同步冷却中，请 %d 秒后重试", retryAfter),
				"data": gin.H{
					"retry_after": retryAfter,
					"scope":       scope,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
