package dto

// ==================== 认证 ====================

// RegisterRequest 注册请求：同时创建租户与管理员用户
type RegisterRequest struct {
	Email              string `json:"email" binding:"required,email"`
	Password           string `json:"password" binding:"required,min=6"`
	Name               string `json:"name"`
	StoreName          string `json:"store_name" binding:"required"`
	ShopifyStoreURL    string `json:"shopify_store_url" binding:"required"`
	ShopifyAccessToken string `json:"shopify_access_token" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserVO 用户视图
type UserVO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
}

// TenantVO 租户视图
type TenantVO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ShopifyStoreURL string `json:"shopify_store_url"`
	IsActive        bool   `json:"is_active"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	Token  string   `json:"token"`
	User   UserVO   `json:"user"`
	Tenant TenantVO `json:"tenant"`
}
