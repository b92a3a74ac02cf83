package model

import "time"

// ==================== Customer 客户 ====================

// Customer 客户
// 自然键为 (shopify_customer_id, tenant_id)，外部 id 只在单个店铺内唯一
// OrdersCount / TotalSpent 为派生字段，订单同步后由统计重算覆盖
type Customer struct {
	ID                int64  `gorm:"primaryKey;autoIncrement"`
	ShopifyCustomerID string `gorm:"size:64;not null;uniqueIndex:uk_customers_shopify_tenant,priority:1"`
	TenantID          string `gorm:"size:36;not null;uniqueIndex:uk_customers_shopify_tenant,priority:2;index:idx_customers_tenant"`

	// 联系信息
	Email     *string `gorm:"size:255"`
	FirstName *string `gorm:"size:255"`
	LastName  *string `gorm:"size:255"`
	Phone     *string `gorm:"size:64"`

	// 派生统计
	OrdersCount int     `gorm:"default:0"`
	TotalSpent  float64 `gorm:"type:decimal(12,2);default:0"`

	Currency         *string `gorm:"size:10"`
	Tags             *string `gorm:"type:text"`
	AcceptsMarketing bool    `gorm:"default:false"`

	// Shopify 侧时间戳
	CreatedAtShopify *time.Time
	UpdatedAtShopify *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Customer) TableName() string {
	return "customers"
}

// FullName 拼接展示名
func (c *Customer) FullName() string {
	first, last := "", ""
	if c.FirstName != nil {
		first = *c.FirstName
	}
	if c.LastName != nil {
		last = *c.LastName
	}
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}
