package repository

import (
	"context"

	"shopify_sync_v1_202608/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== 过滤条件 ====================

// ProductFilter 商品列表过滤条件
type ProductFilter struct {
	TenantID string
	Status   string
	Keyword  string
	Page     int
	PageSize int
}

// StatusCount 按商品状态计数
type StatusCount struct {
	Status string
	Count  int64
}

// ==================== ProductRepository 商品仓库 ====================

// ProductRepository 商品仓库接口
type ProductRepository interface {
	// Upsert 按 (shopify_product_id, tenant_id) 原子写入，覆盖全部映射字段
	Upsert(ctx context.Context, product *model.Product) error

	GetByID(ctx context.Context, tenantID string, id int64) (*model.Product, error)
	GetByShopifyID(ctx context.Context, tenantID, shopifyProductID string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
	CountByStatus(ctx context.Context, tenantID string) ([]StatusCount, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Upsert(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shopify_product_id"}, {Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "vendor", "product_type",
			"tags", "status", "handle", "image_url",
			"price", "compare_at_price", "inventory_quantity",
			"updated_at_shopify", "updated_at",
		}),
	}).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, tenantID string, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetByShopifyID(ctx context.Context, tenantID, shopifyProductID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND shopify_product_id = ?", tenantID, shopifyProductID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		db = db.Where("title LIKE ? OR vendor LIKE ? OR handle LIKE ?", keyword, keyword, keyword)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	err := db.
		Order("updated_at_shopify DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *productRepository) CountByStatus(ctx context.Context, tenantID string) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("COALESCE(status, 'unknown') AS status, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}
