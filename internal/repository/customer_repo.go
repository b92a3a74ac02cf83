package repository

import (
	"context"

	"shopify_sync_v1_202608/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== 过滤条件 ====================

// CustomerFilter 客户列表过滤条件
type CustomerFilter struct {
	TenantID string
	Keyword  string
	Page     int
	PageSize int
}

// ==================== CustomerRepository 客户仓库 ====================

// CustomerRepository 客户仓库接口
type CustomerRepository interface {
	// Upsert 按 (shopify_customer_id, tenant_id) 原子写入，覆盖全部映射字段
	Upsert(ctx context.Context, customer *model.Customer) error
	// UpsertContact 订单内嵌客户载荷的写入，只覆盖联系字段，
	// 不触碰派生统计（统计由重算维护）
	UpsertContact(ctx context.Context, customer *model.Customer) error

	GetByID(ctx context.Context, tenantID string, id int64) (*model.Customer, error)
	GetByShopifyID(ctx context.Context, tenantID, shopifyCustomerID string) (*model.Customer, error)
	List(ctx context.Context, filter CustomerFilter) ([]model.Customer, int64, error)
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
	TopBySpend(ctx context.Context, tenantID string, limit int) ([]model.Customer, error)

	// RecalculateStats 从订单表整组聚合重算 total_spent / orders_count
	// 返回被更新的客户数
	RecalculateStats(ctx context.Context, tenantID string) (int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓库
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// 自然键冲突列
var customerConflictColumns = []clause.Column{
	{Name: "shopify_customer_id"}, {Name: "tenant_id"},
}

func (r *customerRepository) Upsert(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: customerConflictColumns,
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "phone",
			"orders_count", "total_spent", "currency", "tags",
			"accepts_marketing", "updated_at_shopify", "updated_at",
		}),
	}).Create(customer).Error
}

func (r *customerRepository) UpsertContact(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: customerConflictColumns,
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "phone",
			"currency", "tags", "updated_at_shopify", "updated_at",
		}),
	}).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, tenantID string, id int64) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetByShopifyID(ctx context.Context, tenantID, shopifyCustomerID string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND shopify_customer_id = ?", tenantID, shopifyCustomerID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		db = db.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", keyword, keyword, keyword)
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
		Order("total_spent DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *customerRepository) TopBySpend(ctx context.Context, tenantID string, limit int) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("total_spent DESC").
		Limit(limit).
		Find(&customers).Error
	return customers, err
}

// customerOrderStat 按外部客户 id 分组的订单聚合结果
type customerOrderStat struct {
	CustomerShopifyID string
	TotalSpent        float64
	OrdersCount       int64
}

func (r *customerRepository) RecalculateStats(ctx context.Context, tenantID string) (int64, error) {
	// 一次分组聚合拿到全部客户的消费汇总，避免按客户逐个聚合
	var stats []customerOrderStat
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("customer_shopify_id, COALESCE(SUM(total_price), 0) AS total_spent, COUNT(*) AS orders_count").
		Where("tenant_id = ?", tenantID).
		Where("customer_shopify_id IS NOT NULL AND customer_shopify_id <> ''").
		Group("customer_shopify_id").
		Scan(&stats).Error
	if err != nil {
		return 0, err
	}

	var updated int64
	matchedIDs := make([]string, 0, len(stats))

	for _, st := range stats {
		matchedIDs = append(matchedIDs, st.CustomerShopifyID)
		result := r.db.WithContext(ctx).Model(&model.Customer{}).
			Where("tenant_id = ? AND shopify_customer_id = ?", tenantID, st.CustomerShopifyID).
			Updates(map[string]interface{}{
				"total_spent":  st.TotalSpent,
				"orders_count": st.OrdersCount,
			})
		if result.Error != nil {
			return updated, result.Error
		}
		updated += result.RowsAffected
	}

	// 没有任何订单的客户归零，避免订单被删后统计残留
	zeroDB := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("tenant_id = ?", tenantID)
	if len(matchedIDs) > 0 {
		zeroDB = zeroDB.Where("shopify_customer_id NOT IN ?", matchedIDs)
	}
	result := zeroDB.
		Where("orders_count <> 0 OR total_spent <> 0").
		Updates(map[string]interface{}{"total_spent": 0, "orders_count": 0})
	if result.Error != nil {
		return updated, result.Error
	}
	updated += result.RowsAffected

	return updated, nil
}
