package dto

import "time"

// ==================== 客户视图 ====================

// CustomerVO 客户视图
type CustomerVO struct {
	ID                int64      `json:"id"`
	ShopifyCustomerID string     `json:"shopify_customer_id"`
	Email             *string    `json:"email"`
	Name              string     `json:"name"`
	Phone             *string    `json:"phone"`
	OrdersCount       int        `json:"orders_count"`
	TotalSpent        float64    `json:"total_spent"`
	Currency          *string    `json:"currency"`
	Tags              *string    `json:"tags"`
	AcceptsMarketing  bool       `json:"accepts_marketing"`
	CreatedAtShopify  *time.Time `json:"created_at_shopify"`
}

// CustomerListResponse 客户列表响应
type CustomerListResponse struct {
	Total int64        `json:"total"`
	List  []CustomerVO `json:"list"`
}

// ==================== 订单视图 ====================

// OrderItemVO 订单行项目视图
type OrderItemVO struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	VariantTitle *string `json:"variant_title"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	SKU          *string `json:"sku"`
}

// OrderVO 订单视图
type OrderVO struct {
	ID                int64         `json:"id"`
	ShopifyOrderID    string        `json:"shopify_order_id"`
	OrderNumber       *string       `json:"order_number"`
	Email             *string       `json:"email"`
	FinancialStatus   *string       `json:"financial_status"`
	FulfillmentStatus *string       `json:"fulfillment_status"`
	TotalPrice        float64       `json:"total_price"`
	SubtotalPrice     float64       `json:"subtotal_price"`
	TotalTax          float64       `json:"total_tax"`
	TotalDiscounts    float64       `json:"total_discounts"`
	Currency          *string       `json:"currency"`
	IsDraft           bool          `json:"is_draft"`
	DraftStatus       *string       `json:"draft_status"`
	ItemCount         int           `json:"item_count"`
	Items             []OrderItemVO `json:"items,omitempty"`
	CreatedAtShopify  *time.Time    `json:"created_at_shopify"`
}

// OrderListResponse 订单列表响应
type OrderListResponse struct {
	Total int64     `json:"total"`
	List  []OrderVO `json:"list"`
}

// ==================== 商品视图 ====================

// ProductVO 商品视图
type ProductVO struct {
	ID                int64      `json:"id"`
	ShopifyProductID  string     `json:"shopify_product_id"`
	Title             string     `json:"title"`
	Vendor            *string    `json:"vendor"`
	ProductType       *string    `json:"product_type"`
	Status            *string    `json:"status"`
	Handle            *string    `json:"handle"`
	ImageURL          *string    `json:"image_url"`
	Price             *float64   `json:"price"`
	CompareAtPrice    *float64   `json:"compare_at_price"`
	InventoryQuantity int        `json:"inventory_quantity"`
	UpdatedAtShopify  *time.Time `json:"updated_at_shopify"`
}

// ProductListResponse 商品列表响应
type ProductListResponse struct {
	Total int64       `json:"total"`
	List  []ProductVO `json:"list"`
}
