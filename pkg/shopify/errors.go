package shopify

import "fmt"

// ==================== 错误分类 ====================

// 同步过程中上游错误需要被分类处理：
// 鉴权类错误不可重试，限流/网络类错误理论上可重试。

// AuthError 访问令牌无效（HTTP 401）
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return "无效的 API 访问令牌: " + e.Message
	}
	return "无效的 API 访问令牌"
}

// PermissionScopeError 令牌缺少所需权限（HTTP 403）
// Scope 为缺失的 Shopify 权限名，如 read_orders
type PermissionScopeError struct {
	Scope string
}

func (e *PermissionScopeError) Error() string {
	return fmt.Sprintf("访问被拒绝 - 请在 Shopify 应用中启用 '%s' 权限", e.Scope)
}

// TransientFault 网络错误 / 超时 / 限流（HTTP 429）
type TransientFault struct {
	Err error
}

func (e *TransientFault) Error() string {
	return "临时性错误（网络/限流）: " + e.Err.Error()
}

func (e *TransientFault) Unwrap() error {
	return e.Err
}

// UpstreamError 其他非 2xx 响应
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Shopify API 错误 [%d]: %s", e.StatusCode, e.Body)
}
