package shopify

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ==================== 宽容解码类型 ====================

// Money Shopify 金额字段，可能是 "49.99" 也可能是数字
// 解析失败或缺失一律归零，不保留非法值
type Money float64

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*m = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*m = 0
			return nil
		}
		*m = Money(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		*m = 0
		return nil
	}
	*m = Money(v)
	return nil
}

// FlexString 字符串或数字都可能出现的字段（如 order_number）
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(string(b))
	return nil
}

// ==================== 原始资源 DTO ====================

// RawCustomer Shopify 客户原始记录
type RawCustomer struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Phone            string `json:"phone"`
	OrdersCount      int    `json:"orders_count"`
	TotalSpent       Money  `json:"total_spent"`
	Currency         string `json:"currency"`
	Tags             string `json:"tags"`
	AcceptsMarketing bool   `json:"accepts_marketing"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// RawLineItem 订单行项目，line id 可能缺失
type RawLineItem struct {
	ID           *int64 `json:"id"`
	ProductID    *int64 `json:"product_id"`
	VariantID    *int64 `json:"variant_id"`
	Title        string `json:"title"`
	VariantTitle string `json:"variant_title"`
	Quantity     int    `json:"quantity"`
	Price        Money  `json:"price"`
	SKU          string `json:"sku"`
}

// RawOrder Shopify 正式订单原始记录
type RawOrder struct {
	ID                int64         `json:"id"`
	OrderNumber       FlexString    `json:"order_number"`
	Email             string        `json:"email"`
	FinancialStatus   string        `json:"financial_status"`
	FulfillmentStatus string        `json:"fulfillment_status"`
	TotalPrice        Money         `json:"total_price"`
	SubtotalPrice     Money         `json:"subtotal_price"`
	TotalTax          Money         `json:"total_tax"`
	TotalDiscounts    Money         `json:"total_discounts"`
	Currency          string        `json:"currency"`
	Customer          *RawCustomer  `json:"customer"`
	LineItems         []RawLineItem `json:"line_items"`
	CreatedAt         string        `json:"created_at"`
	UpdatedAt         string        `json:"updated_at"`
	ProcessedAt       string        `json:"processed_at"`
}

// RawDraftOrder Shopify 草稿订单原始记录
// 草稿单与正式单共享数字 id 空间，入库时加 draft_ 前缀区分
type RawDraftOrder struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Status        string        `json:"status"`
	TotalPrice    Money         `json:"total_price"`
	SubtotalPrice Money         `json:"subtotal_price"`
	TotalTax      Money         `json:"total_tax"`
	Currency      string        `json:"currency"`
	Customer      *RawCustomer  `json:"customer"`
	LineItems     []RawLineItem `json:"line_items"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
}

// RawVariant 商品变体，只消费第一个变体的价格与库存
type RawVariant struct {
	ID                int64  `json:"id"`
	Price             Money  `json:"price"`
	CompareAtPrice    *Money `json:"compare_at_price"`
	InventoryQuantity int    `json:"inventory_quantity"`
	SKU               string `json:"sku"`
}

// RawImage 商品图片
type RawImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

// RawProduct Shopify 商品原始记录
type RawProduct struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	BodyHTML    string       `json:"body_html"`
	Vendor      string       `json:"vendor"`
	ProductType string       `json:"product_type"`
	Tags        string       `json:"tags"`
	Status      string       `json:"status"`
	Handle      string       `json:"handle"`
	Variants    []RawVariant `json:"variants"`
	Images      []RawImage   `json:"images"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}
