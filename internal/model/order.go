package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 订单状态常量 ====================

// FinancialStatus 订单财务状态（来自 Shopify）
const (
	FinancialStatusPaid     = "paid"
	FinancialStatusPending  = "pending"
	FinancialStatusRefunded = "refunded"
	FinancialStatusDraft    = "draft" // 草稿单统一落为 draft
)

// DraftOrderIDPrefix 草稿单自然键前缀
// 草稿单与正式单共享数字 id 空间，必须用前缀隔离命名空间
const DraftOrderIDPrefix = "draft_"

// ==================== Order 订单主表 ====================

// Order 订单
// 自然键为 (shopify_order_id, tenant_id)；草稿单的 shopify_order_id 带 draft_ 前缀
type Order struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	ShopifyOrderID string `gorm:"size:64;not null;uniqueIndex:uk_orders_shopify_tenant,priority:1"`
	TenantID       string `gorm:"size:36;not null;uniqueIndex:uk_orders_shopify_tenant,priority:2;index:idx_orders_tenant"`

	OrderNumber *string `gorm:"size:64"`
	Email       *string `gorm:"size:255"`

	// 状态
	FinancialStatus   *string `gorm:"size:32;index"`
	FulfillmentStatus *string `gorm:"size:32"`

	// 金额
	TotalPrice     float64 `gorm:"type:decimal(12,2);default:0"`
	SubtotalPrice  float64 `gorm:"type:decimal(12,2);default:0"`
	TotalTax       float64 `gorm:"type:decimal(12,2);default:0"`
	TotalDiscounts float64 `gorm:"type:decimal(12,2);default:0"`
	Currency       *string `gorm:"size:10"`

	// 客户关联：内部外键可能为空，外部客户 id 始终冗余保存
	// 便于客户记录晚于订单出现时的延迟回填与统计匹配
	CustomerID        *int64  `gorm:"index"`
	CustomerShopifyID *string `gorm:"size:64;index"`

	// 草稿单
	IsDraft     bool    `gorm:"default:false"`
	DraftStatus *string `gorm:"size:32"`

	// Shopify 原始数据（PostgreSQL JSONB）
	RawPayload datatypes.JSON `gorm:"type:jsonb"`

	// Shopify 侧时间戳
	CreatedAtShopify *time.Time `gorm:"index"`
	ProcessedAt      *time.Time
	UpdatedAtShopify *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联
	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (*Order) TableName() string {
	return "orders"
}

// ==================== OrderItem 订单行项目 ====================

// OrderItem 订单行项目
// 外部行 id 不保证存在，每次重同步整组删除重建，不做增量合并
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	OrderID int64 `gorm:"index;not null"`

	ShopifyLineID *string `gorm:"size:64"`
	ProductID     *string `gorm:"size:64"`
	VariantID     *string `gorm:"size:64"`

	Title        string  `gorm:"size:500"`
	VariantTitle *string `gorm:"size:255"`
	Quantity     int     `gorm:"default:1"`
	Price        float64 `gorm:"type:decimal(12,2);default:0"`
	SKU          *string `gorm:"size:100"`

	CreatedAt time.Time
}

func (*OrderItem) TableName() string {
	return "order_items"
}
