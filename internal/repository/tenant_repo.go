package repository

import (
	"context"
	"strings"

	"shopify_sync_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== TenantRepository 租户仓库 ====================

// TenantRepository 租户仓库接口
type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Tenant, error)
	GetByStoreURL(ctx context.Context, storeURL string) (*model.Tenant, error)
	GetByStoreDomain(ctx context.Context, shopDomain string) (*model.Tenant, error)
	ListActive(ctx context.Context) ([]model.Tenant, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository 创建租户仓库
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Tenant{}, "id = ?", id).Error
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) GetByStoreURL(ctx context.Context, storeURL string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.db.WithContext(ctx).Where("shopify_store_url = ?", storeURL).First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetByStoreDomain 按 webhook 携带的店铺域名定位租户
// 注册时存的地址可能带协议前缀或子路径，按多种形态匹配
func (r *tenantRepository) GetByStoreDomain(ctx context.Context, shopDomain string) (*model.Tenant, error) {
	domain := strings.TrimSuffix(shopDomain, "/")
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")

	var tenant model.Tenant
	err := r.db.WithContext(ctx).
		Where("shopify_store_url = ? OR shopify_store_url = ? OR shopify_store_url LIKE ?",
			domain, "https://"+domain, "%"+strings.Split(domain, ".")[0]+"%").
		First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) ListActive(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&tenants).Error
	return tenants, err
}

func (r *tenantRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Tenant{}).Where("id = ?", id).Update("is_active", active).Error
}

// ==================== UserRepository 用户仓库 ====================

// UserRepository 用户仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
