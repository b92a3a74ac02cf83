package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
	"shopify_sync_v1_202608/pkg/shopify"

	"gorm.io/gorm"
)

// ==================== 假网关 ====================

// fakeGateway 可编程的 Shopify 网关假实现
type fakeGateway struct {
	customers []shopify.RawCustomer
	orders    []shopify.RawOrder
	drafts    []shopify.RawDraftOrder
	products  []shopify.RawProduct

	customersErr error
	ordersErr    error
	draftsErr    error
	productsErr  error

	// customersFailures 前 N 次客户拉取返回 customersErr；0 表示一直失败
	customersFailures int
	customerCalls     int
}

func (g *fakeGateway) GetCustomers(ctx context.Context) ([]shopify.RawCustomer, error) {
	g.customerCalls++
	if g.customersErr != nil && (g.customersFailures == 0 || g.customerCalls <= g.customersFailures) {
		return nil, g.customersErr
	}
	return g.customers, nil
}

func (g *fakeGateway) GetOrders(ctx context.Context) ([]shopify.RawOrder, error) {
	if g.ordersErr != nil {
		return nil, g.ordersErr
	}
	return g.orders, nil
}

func (g *fakeGateway) GetDraftOrders(ctx context.Context) ([]shopify.RawDraftOrder, error) {
	if g.draftsErr != nil {
		return nil, g.draftsErr
	}
	return g.drafts, nil
}

func (g *fakeGateway) GetProducts(ctx context.Context) ([]shopify.RawProduct, error) {
	if g.productsErr != nil {
		return nil, g.productsErr
	}
	return g.products, nil
}

// ==================== 测试辅助 ====================

func newTestSyncService(t *testing.T, db *gorm.DB, gw *fakeGateway) (*SyncService, *model.Tenant) {
	tenantRepo := repository.NewTenantRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	syncLogRepo := repository.NewSyncLogRepository(db)

	svc := NewSyncService(tenantRepo, customerRepo, syncLogRepo, newTestReconciler(db))
	svc.SetGatewayFactory(func(storeURL, accessToken string) ShopifyGateway { return gw })
	svc.retryDelay = time.Millisecond

	tenant := &model.Tenant{
		ID:                 "tenant-a",
		Name:               "测试店",
		ShopifyStoreURL:    "test.myshopify.com",
		ShopifyAccessToken: "token",
		IsActive:           true,
	}
	if err := tenantRepo.Create(context.Background(), tenant); err != nil {
		t.Fatalf("创建租户失败: %v", err)
	}
	return svc, tenant
}

func loadSyncLogs(t *testing.T, db *gorm.DB, syncType string) []model.SyncLog {
	var logs []model.SyncLog
	if err := db.Where("sync_type = ?", syncType).Order("id ASC").Find(&logs).Error; err != nil {
		t.Fatalf("查询同步日志失败: %v", err)
	}
	return logs
}

// ==================== 单资源同步 ====================

func TestSyncService_Customers_LogLifecycle(t *testing.T) {
	db := setupSyncTestDB(t)
	gw := &fakeGateway{
		customers: []shopify.RawCustomer{
			{ID: 1, Email: "a@x.com"},
			{ID: 2, Email: "b@x.com"},
		},
	}
	svc, tenant := newTestSyncService(t, db, gw)

	result, err := svc.RunSync(context.Background(), tenant, model.SyncTypeCustomers)
	if err != nil {
		t.Fatalf("同步失败: %v", err)
	}
	if !result.Success || result.Total != 2 {
		t.Errorf("result = %+v, want Success=true Total=2", result)
	}

	logs := loadSyncLogs(t, db, model.SyncTypeCustomers)
	if len(logs) != 1 {
		t.Fatalf("日志行数 = %d, want 1", len(logs))
	}
	if logs[0].Status != model.SyncStatusCompleted {
		t.Errorf("日志状态 = %s, want completed", logs[0].Status)
	}
	if logs[0].RecordsProcessed != 2 {
		t.Errorf("records_processed = %d, want 2", logs[0].RecordsProcessed)
	}
	if logs[0].CompletedAt == nil {
		t.Error("completed_at 应被写入")
	}
	if logs[0].ErrorMessage != nil {
		t.Errorf("成功日志不应有错误信息: %v", *logs[0].ErrorMessage)
	}
}

func TestSyncService_AuthFailure_NoRetry(t *testing.T) {
	db := setupSyncTestDB(t)
	gw := &fakeGateway{customersErr: &shopify.AuthError{}}
	svc, tenant := newTestSyncService(t, db, gw)

	result, err := svc.RunSync(context.Background(), tenant, model.SyncTypeCustomers)
	if err == nil {
		t.Fatal("认证错误应向上返回")
	}
	var authErr *shopify.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want *AuthError", err)
	}
	if result.Success {
		t.Error("失败同步 Success 应为 false")
	}
	// 鉴权类错误不重试
	if gw.customerCalls != 1 {
		t.Errorf("拉取次数 = %d, want 1", gw.customerCalls)
	}

	logs := loadSyncLogs(t, db, model.SyncTypeCustomers)
	if len(logs) != 1 || logs[0].Status != model.SyncStatusFailed {
		t.Fatalf("应有一条 failed 日志, got %+v", logs)
	}
	if logs[0].ErrorMessage == nil {
		t.Error("失败日志必须带归类后的错误信息")
	}
}

func TestSyncService_TransientFault_Retries(t *testing.T) {
	db := setupSyncTestDB(t)
	gw := &fakeGateway{
		customers:         []shopify.RawCustomer{{ID: 1}},
		customersErr:      &shopify.TransientFault{Err: errors.New("connection reset")},
		customersFailures: 2,
	}
	svc, tenant := newTestSyncService(t, db, gw)

	result, err := svc.RunSync(context.Background(), tenant, model.SyncTypeCustomers)
	if err != nil {
		t.Fatalf("重试后仍失败: %v", err)
	}
	if !result.Success || result.Total != 1 {
		t.Errorf("result = %+v, want Success=true Total=1", result)
	}
	// 两次失败 + 一次成功
	if gw.customerCalls != 3 {
		t.Errorf("拉取次数 = %d, want 3", gw.customerCalls)
	}
}

// ==================== 订单同步与统计重算 ====================

func TestSyncService_Orders_RecomputesCustomerStats(t *testing.T) {
	db := setupSyncTestDB(t)
	gw := &fakeGateway{
		orders: []shopify.RawOrder{
			{ID: 1, TotalPrice: 30, Customer: &shopify.RawCustomer{ID: 777, Email: "a@x.com"}},
			{ID: 2, TotalPrice: 20, Customer: &shopify.RawCustomer{ID: 777, Email: "a@x.com"}},
		},
		drafts: []shopify.RawDraftOrder{
			{ID: 9, Name: "#D1", Status: "open", TotalPrice: 50, Customer: &shopify.RawCustomer{ID: 777}},
		},
	}
	svc, tenant := newTestSyncService(t, db, gw)

	result, err := svc.RunSync(context.Background(), tenant, model.SyncTypeOrders)
	if err != nil {
		t.Fatalf("订单同步失败: %v", err)
	}
	// 正式单 2 + 草稿单 1
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}

	var customer model.Customer
	if err := db.Where("tenant_id = ? AND shopify_customer_id = ?", "tenant-a", "777").First(&customer).Error; err != nil {
		t.Fatalf("客户未建出: %v", err)
	}
	// 统计必须与订单表一致：30 + 20 + 50
	if customer.TotalSpent != 100 {
		t.Errorf("TotalSpent = %v, want 100", customer.TotalSpent)
	}
	if customer.OrdersCount != 3 {
		t.Errorf("OrdersCount = %d, want 3", customer.OrdersCount)
	}
}

// ==================== 全量同步 ====================

func TestSyncService_Full_PartialFailure(t *testing.T) {
	db := setupSyncTestDB(t)
	gw := &fakeGateway{
		customersErr: &shopify.PermissionScopeError{Scope: "read_customers"},
		orders:       []shopify.RawOrder{{ID: 1, TotalPrice: 10}},
		products:     []shopify.RawProduct{{ID: 2, Title: "Mug"}},
	}
	svc, tenant := newTestSyncService(t, db, gw)

	result, err := svc.RunSync(context.Background(), tenant, model.SyncTypeFull)
	if err != nil {
		t.Fatalf("全量同步不应因单项失败而报错: %v", err)
	}

	if !result.Success {
		t.Error("有子同步成功时整体 Success 应为 true")
	}
	if !result.Partial {
		t.Error("有失败项时 Partial 应为 true")
	}
	if result.Customers.Success {
		t.Error("客户子同步应失败")
	}
	if !result.Orders.Success || !result.Products.Success {
		t.Errorf("订单/商品子同步应成功: %+v", result)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want 1 条", result.Errors)
	}
	// 权限错误必须指明缺的 scope
	if !strings.Contains(result.Customers.Error, "read_customers") {
		t.Errorf("错误信息应包含缺失权限名: %s", result.Customers.Error)
	}

	// 全量日志: 有成功项 → completed，但错误信息保留
	fullLogs := loadSyncLogs(t, db, model.SyncTypeFull)
	if len(fullLogs) != 1 {
		t.Fatalf("全量日志行数 = %d, want 1", len(fullLogs))
	}
	if fullLogs[0].Status != model.SyncStatusCompleted {
		t.Errorf("全量日志状态 = %s, want completed", fullLogs[0].Status)
	}
	if fullLogs[0].ErrorMessage == nil {
		t.Error("部分失败时全量日志应记录错误")
	}

	// 子同步各有独立日志
	if logs := loadSyncLogs(t, db, model.SyncTypeCustomers); len(logs) != 1 || logs[0].Status != model.SyncStatusFailed {
		t.Errorf("客户子日志 = %+v, want 1 条 failed", logs)
	}
	if logs := loadSyncLogs(t, db, model.SyncTypeOrders); len(logs) != 1 || logs[0].Status != model.SyncStatusCompleted {
		t.Errorf("订单子日志 = %+v, want 1 条 completed", logs)
	}
}

func TestSyncService_Full_AllFail(t *testing.T) {
	db := setupSyncTestDB(t)
	gw := &fakeGateway{
		customersErr: &shopify.AuthError{},
		ordersErr:    &shopify.AuthError{},
		productsErr:  &shopify.AuthError{},
	}
	svc, tenant := newTestSyncService(t, db, gw)

	result, err := svc.RunSync(context.Background(), tenant, model.SyncTypeFull)
	if err != nil {
		t.Fatalf("全量同步本身不应报错: %v", err)
	}
	if result.Success || result.Partial {
		t.Errorf("全部失败时 Success/Partial 都应为 false: %+v", result)
	}
	if len(result.Errors) != 3 {
		t.Errorf("Errors 条数 = %d, want 3", len(result.Errors))
	}

	fullLogs := loadSyncLogs(t, db, model.SyncTypeFull)
	if len(fullLogs) != 1 || fullLogs[0].Status != model.SyncStatusFailed {
		t.Fatalf("全量日志应为 failed, got %+v", fullLogs)
	}
}
