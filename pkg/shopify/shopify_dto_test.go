package shopify

import (
	"encoding/json"
	"testing"
)

// ==================== 宽容解码 ====================

func TestMoney_Unmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"字符串金额", `"49.99"`, 49.99},
		{"数字金额", `49.99`, 49.99},
		{"null 归零", `null`, 0},
		{"非法字符串归零", `"abc"`, 0},
		{"空字符串归零", `""`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Money
			if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
				t.Fatalf("解码失败: %v", err)
			}
			if float64(m) != tc.want {
				t.Errorf("Money(%s) = %v, want %v", tc.in, float64(m), tc.want)
			}
		})
	}
}

func TestRawOrder_MixedFieldForms(t *testing.T) {
	// order_number 可能是数字，金额可能是字符串，行项目 id 可能缺失
	payload := `{
		"id": 555,
		"order_number": 1001,
		"email": "buyer@example.com",
		"financial_status": "paid",
		"total_price": "49.99",
		"subtotal_price": 45.0,
		"customer": {"id": 777, "email": "buyer@example.com", "total_spent": "120.50"},
		"line_items": [
			{"id": 1, "title": "Item A", "quantity": 2, "price": "19.99"},
			{"title": "No ID Item", "quantity": 1, "price": 10}
		]
	}`

	var o RawOrder
	if err := json.Unmarshal([]byte(payload), &o); err != nil {
		t.Fatalf("解码订单失败: %v", err)
	}

	if string(o.OrderNumber) != "1001" {
		t.Errorf("OrderNumber = %s, want 1001", o.OrderNumber)
	}
	if float64(o.TotalPrice) != 49.99 {
		t.Errorf("TotalPrice = %v, want 49.99", float64(o.TotalPrice))
	}
	if float64(o.Customer.TotalSpent) != 120.50 {
		t.Errorf("Customer.TotalSpent = %v, want 120.50", float64(o.Customer.TotalSpent))
	}
	if len(o.LineItems) != 2 {
		t.Fatalf("行项目数 = %d, want 2", len(o.LineItems))
	}
	if o.LineItems[0].ID == nil || *o.LineItems[0].ID != 1 {
		t.Errorf("首行 id 解析错误: %v", o.LineItems[0].ID)
	}
	if o.LineItems[1].ID != nil {
		t.Errorf("缺失的行 id 应为 nil, got %v", *o.LineItems[1].ID)
	}
}
