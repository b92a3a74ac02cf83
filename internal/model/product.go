package model

import "time"

// ==================== Product 商品 ====================

// Product 商品
// 自然键为 (shopify_product_id, tenant_id)
// 只落库第一个变体的价格/库存与第一张图片，属既定简化而非缺陷
type Product struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	ShopifyProductID string `gorm:"size:64;not null;uniqueIndex:uk_products_shopify_tenant,priority:1"`
	TenantID         string `gorm:"size:36;not null;uniqueIndex:uk_products_shopify_tenant,priority:2;index:idx_products_tenant"`

	Title       string  `gorm:"size:500"`
	Description *string `gorm:"type:text"`
	Vendor      *string `gorm:"size:255"`
	ProductType *string `gorm:"size:255"`
	Tags        *string `gorm:"type:text"`
	Status      *string `gorm:"size:32;index"`
	Handle      *string `gorm:"size:255"`

	// 第一张图
	ImageURL *string `gorm:"size:500"`

	// 第一个变体
	Price             *float64 `gorm:"type:decimal(12,2)"`
	CompareAtPrice    *float64 `gorm:"type:decimal(12,2)"`
	InventoryQuantity int      `gorm:"default:0"`

	// Shopify 侧时间戳
	CreatedAtShopify *time.Time
	UpdatedAtShopify *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Product) TableName() string {
	return "products"
}
