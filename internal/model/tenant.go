package model

import "time"

// ==================== Tenant 租户（店铺账户） ====================

// Tenant 一个接入的 Shopify 店铺
// 其余所有业务实体都按 TenantID 隔离
type Tenant struct {
	ID   string `gorm:"primaryKey;size:36"`
	Name string `gorm:"size:255;not null"`

	// Shopify 接入信息
	ShopifyStoreURL    string `gorm:"size:255;uniqueIndex;not null"`
	ShopifyAccessToken string `gorm:"size:255;not null"`

	// 停用后不再参与定时同步
	IsActive bool `gorm:"default:true;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Tenant) TableName() string {
	return "tenants"
}

// ==================== User 登录用户 ====================

// UserRole 用户角色
const (
	UserRoleAdmin  = "admin"
	UserRoleMember = "member"
)

// User 控制台登录用户，归属于某个租户
type User struct {
	ID       string `gorm:"primaryKey;size:36"`
	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // bcrypt 哈希
	Name     string `gorm:"size:255"`
	Role     string `gorm:"size:32;default:member"`
	TenantID string `gorm:"size:36;index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*User) TableName() string {
	return "users"
}
