package dto

import "encoding/json"

// ==================== 仪表盘统计 ====================

// OverviewResponse 总览统计
type OverviewResponse struct {
	TotalCustomers    int64   `json:"total_customers"`
	TotalOrders       int64   `json:"total_orders"`
	TotalProducts     int64   `json:"total_products"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	RecentOrders      int64   `json:"recent_orders"`
	RecentRevenue     float64 `json:"recent_revenue"`
}

// DatePoint 按日数据点
type DatePoint struct {
	Date    string  `json:"date"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// StatusPoint 按状态数据点
type StatusPoint struct {
	Status  string  `json:"status"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// TopCustomerVO 高消费客户
type TopCustomerVO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       *string `json:"email"`
	OrdersCount int     `json:"orders_count"`
	TotalSpent  float64 `json:"total_spent"`
}

// ==================== 自定义事件 ====================

// EventRequest 事件上报请求
type EventRequest struct {
	EventType     string          `json:"eventType" binding:"required"`
	TenantID      string          `json:"tenantId" binding:"required"`
	CustomerID    *string         `json:"customerId"`
	CustomerEmail *string         `json:"customerEmail"`
	SessionID     *string         `json:"sessionId"`
	Data          json.RawMessage `json:"data"`
}
