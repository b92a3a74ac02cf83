package repository

import (
	"context"
	"time"

	"shopify_sync_v1_202608/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== 过滤条件 ====================

// OrderFilter 订单列表过滤条件
type OrderFilter struct {
	TenantID        string
	FinancialStatus string
	Keyword         string
	StartDate       *time.Time
	EndDate         *time.Time
	Page            int
	PageSize        int
}

// ==================== 聚合结果 ====================

// DateRevenue 按日聚合
type DateRevenue struct {
	Date    string
	Count   int64
	Revenue float64
}

// StatusRevenue 按财务状态聚合
type StatusRevenue struct {
	FinancialStatus string
	Count           int64
	Revenue         float64
}

// ==================== OrderRepository 订单仓库 ====================

// OrderRepository 订单仓库接口
type OrderRepository interface {
	// Upsert 按 (shopify_order_id, tenant_id) 原子写入，覆盖全部映射字段
	Upsert(ctx context.Context, order *model.Order) error
	// ReplaceItems 整组替换行项目（删除后重建），同一事务内完成
	ReplaceItems(ctx context.Context, orderID int64, items []model.OrderItem) error

	GetByID(ctx context.Context, tenantID string, id int64) (*model.Order, error)
	GetByShopifyID(ctx context.Context, tenantID, shopifyOrderID string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)

	// 统计
	CountByTenant(ctx context.Context, tenantID string, since *time.Time) (int64, error)
	SumTotalPrice(ctx context.Context, tenantID string, since *time.Time) (float64, error)
	RevenueByDate(ctx context.Context, tenantID string, since time.Time) ([]DateRevenue, error)
	RevenueByStatus(ctx context.Context, tenantID string) ([]StatusRevenue, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Upsert(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shopify_order_id"}, {Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"order_number", "email",
			"financial_status", "fulfillment_status",
			"total_price", "subtotal_price", "total_tax", "total_discounts", "currency",
			"customer_id", "customer_shopify_id",
			"is_draft", "draft_status", "raw_payload",
			"processed_at", "updated_at_shopify", "updated_at",
		}),
	}).Create(order).Error
}

func (r *orderRepository) ReplaceItems(ctx context.Context, orderID int64, items []model.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = orderID
		}
		return tx.CreateInBatches(items, 100).Error
	})
}

func (r *orderRepository) GetByID(ctx context.Context, tenantID string, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByShopifyID(ctx context.Context, tenantID, shopifyOrderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND shopify_order_id = ?", tenantID, shopifyOrderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("tenant_id = ?", filter.TenantID)

	if filter.FinancialStatus != "" {
		db = db.Where("financial_status = ?", filter.FinancialStatus)
	}
	if filter.StartDate != nil {
		db = db.Where("created_at_shopify >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("created_at_shopify <= ?", filter.EndDate)
	}
	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		db = db.Where("order_number LIKE ? OR email LIKE ?", keyword, keyword)
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
		Preload("Items").
		Order("created_at_shopify DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepository) CountByTenant(ctx context.Context, tenantID string, since *time.Time) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Order{}).Where("tenant_id = ?", tenantID)
	if since != nil {
		db = db.Where("created_at_shopify >= ?", since)
	}
	err := db.Count(&count).Error
	return count, err
}

func (r *orderRepository) SumTotalPrice(ctx context.Context, tenantID string, since *time.Time) (float64, error) {
	var sum float64
	db := r.db.WithContext(ctx).Model(&model.Order{}).Where("tenant_id = ?", tenantID)
	if since != nil {
		db = db.Where("created_at_shopify >= ?", since)
	}
	err := db.Select("COALESCE(SUM(total_price), 0)").Scan(&sum).Error
	return sum, err
}

func (r *orderRepository) RevenueByDate(ctx context.Context, tenantID string, since time.Time) ([]DateRevenue, error) {
	var rows []DateRevenue
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("DATE(created_at_shopify) AS date, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS revenue").
		Where("tenant_id = ? AND created_at_shopify >= ?", tenantID, since).
		Group("DATE(created_at_shopify)").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *orderRepository) RevenueByStatus(ctx context.Context, tenantID string) ([]StatusRevenue, error) {
	var rows []StatusRevenue
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(financial_status, 'unknown') AS financial_status, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS revenue").
		Where("tenant_id = ?", tenantID).
		Group("financial_status").
		Scan(&rows).Error
	return rows, err
}
