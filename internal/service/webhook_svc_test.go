package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"shopify_sync_v1_202608/internal/api/dto"
	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"

	"gorm.io/gorm"
)

// ==================== 测试辅助 ====================

func newTestWebhookService(t *testing.T, db *gorm.DB) *WebhookService {
	tenantRepo := repository.NewTenantRepository(db)
	if err := tenantRepo.Create(context.Background(), &model.Tenant{
		ID:                 "tenant-a",
		Name:               "测试店",
		ShopifyStoreURL:    "test-store.myshopify.com",
		ShopifyAccessToken: "token",
		IsActive:           true,
	}); err != nil {
		t.Fatalf("创建租户失败: %v", err)
	}

	return NewWebhookService(
		tenantRepo,
		repository.NewCustomerRepository(db),
		repository.NewEventRepository(db),
		newTestReconciler(db),
	)
}

// ==================== 推送入库 ====================

func TestWebhookService_OrderPush_SameSemanticsAsPull(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestWebhookService(t, db)
	ctx := context.Background()

	payload := []byte(`{
		"id": 555,
		"order_number": "1001",
		"total_price": "49.99",
		"financial_status": "paid",
		"customer": {"id": 777, "email": "buyer@example.com"},
		"line_items": [{"title": "Item A", "quantity": 2, "price": "19.99"}]
	}`)

	if err := svc.HandleOrderPush(ctx, "test-store.myshopify.com", payload); err != nil {
		t.Fatalf("订单推送失败: %v", err)
	}

	var order model.Order
	if err := db.Preload("Items").Where("tenant_id = ? AND shopify_order_id = ?", "tenant-a", "555").First(&order).Error; err != nil {
		t.Fatalf("订单未入库: %v", err)
	}
	if order.TotalPrice != 49.99 {
		t.Errorf("TotalPrice = %v, want 49.99", order.TotalPrice)
	}
	if len(order.Items) != 1 {
		t.Errorf("行项目数 = %d, want 1", len(order.Items))
	}

	// 推送路径同样要重算统计
	var customer model.Customer
	if err := db.Where("tenant_id = ? AND shopify_customer_id = ?", "tenant-a", "777").First(&customer).Error; err != nil {
		t.Fatalf("内嵌客户未入库: %v", err)
	}
	if customer.TotalSpent != 49.99 || customer.OrdersCount != 1 {
		t.Errorf("推送后统计 = (%v, %d), want (49.99, 1)", customer.TotalSpent, customer.OrdersCount)
	}

	// 同一条推送重复投递不产生新行
	if err := svc.HandleOrderPush(ctx, "test-store.myshopify.com", payload); err != nil {
		t.Fatalf("重复推送失败: %v", err)
	}
	var count int64
	db.Model(&model.Order{}).Count(&count)
	if count != 1 {
		t.Errorf("重复推送后订单行数 = %d, want 1", count)
	}
}

func TestWebhookService_UnknownShopDomain(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestWebhookService(t, db)

	err := svc.HandleCustomerPush(context.Background(), "stranger.myshopify.com", []byte(`{"id":1}`))
	if !errors.Is(err, ErrTenantNotFound) {
		t.Fatalf("err = %v, want ErrTenantNotFound", err)
	}
}

func TestWebhookService_DomainFormVariants(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestWebhookService(t, db)
	ctx := context.Background()

	// 注册时存的是裸域名，推送头可能带协议或尾斜杠
	for _, domain := range []string{
		"test-store.myshopify.com",
		"https://test-store.myshopify.com",
		"https://test-store.myshopify.com/",
	} {
		if err := svc.HandleCustomerPush(ctx, domain, []byte(`{"id":42,"email":"x@y.com"}`)); err != nil {
			t.Errorf("域名形态 %q 匹配失败: %v", domain, err)
		}
	}
}

// ==================== 自定义事件 ====================

func TestWebhookService_RecordEvent(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestWebhookService(t, db)

	sessionID := "sess-1"
	err := svc.RecordEvent(context.Background(), &dto.EventRequest{
		EventType: "cart_abandoned",
		TenantID:  "tenant-a",
		SessionID: &sessionID,
		Data:      json.RawMessage(`{"cart_value": 88.5}`),
	})
	if err != nil {
		t.Fatalf("事件记录失败: %v", err)
	}

	var event model.Event
	if err := db.Where("tenant_id = ?", "tenant-a").First(&event).Error; err != nil {
		t.Fatalf("事件未落盘: %v", err)
	}
	if event.EventType != "cart_abandoned" {
		t.Errorf("EventType = %s, want cart_abandoned", event.EventType)
	}
	if len(event.Data) == 0 {
		t.Error("Data 应保留原始 JSON")
	}

	// 未知租户直接拒绝
	err = svc.RecordEvent(context.Background(), &dto.EventRequest{
		EventType: "cart_abandoned",
		TenantID:  "no-such-tenant",
	})
	if !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("err = %v, want ErrTenantNotFound", err)
	}
}
