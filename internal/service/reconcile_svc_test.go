package service

import (
	"context"
	"testing"

	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
	"shopify_sync_v1_202608/pkg/shopify"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ==================== 测试辅助 ====================

func setupSyncTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.Tenant{}, &model.User{},
		&model.Customer{}, &model.Order{}, &model.OrderItem{}, &model.Product{},
		&model.SyncLog{}, &model.Event{},
	)
	if err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

func newTestReconciler(db *gorm.DB) *ReconcileService {
	return NewReconcileService(
		repository.NewCustomerRepository(db),
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
	)
}

// ==================== 客户入库 ====================

func TestReconcileCustomer_Idempotent(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestReconciler(db)
	ctx := context.Background()

	raw := &shopify.RawCustomer{
		ID:        777,
		Email:     "old@example.com",
		FirstName: "张",
		LastName:  "三",
	}

	if _, err := svc.ReconcileCustomer(ctx, "tenant-a", raw); err != nil {
		t.Fatalf("首次入库失败: %v", err)
	}

	// 同一条记录再来一次，邮箱变了
	raw.Email = "new@example.com"
	saved, err := svc.ReconcileCustomer(ctx, "tenant-a", raw)
	if err != nil {
		t.Fatalf("重复入库失败: %v", err)
	}

	var count int64
	db.Model(&model.Customer{}).Where("tenant_id = ?", "tenant-a").Count(&count)
	if count != 1 {
		t.Fatalf("客户行数 = %d, want 1（重复同步不允许产生新行）", count)
	}
	if saved.Email == nil || *saved.Email != "new@example.com" {
		t.Errorf("邮箱未更新: %v", saved.Email)
	}
}

func TestReconcileCustomer_TenantIsolation(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestReconciler(db)
	ctx := context.Background()

	raw := &shopify.RawCustomer{ID: 777, Email: "a@example.com"}
	if _, err := svc.ReconcileCustomer(ctx, "tenant-a", raw); err != nil {
		t.Fatalf("租户 A 入库失败: %v", err)
	}
	// 另一个租户用同一个外部 id，必须是独立的行
	raw.Email = "b@example.com"
	if _, err := svc.ReconcileCustomer(ctx, "tenant-b", raw); err != nil {
		t.Fatalf("租户 B 入库失败: %v", err)
	}

	var count int64
	db.Model(&model.Customer{}).Count(&count)
	if count != 2 {
		t.Fatalf("客户总行数 = %d, want 2（不同租户不共享记录）", count)
	}

	var a model.Customer
	db.Where("tenant_id = ?", "tenant-a").First(&a)
	if a.Email == nil || *a.Email != "a@example.com" {
		t.Errorf("租户 A 的数据被租户 B 覆盖: %v", a.Email)
	}
}

// ==================== 订单入库 ====================

func TestReconcileOrder_UpsertAndRebind(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestReconciler(db)
	ctx := context.Background()

	raw := &shopify.RawOrder{
		ID:              555,
		OrderNumber:     "1001",
		Email:           "buyer@example.com",
		FinancialStatus: "pending",
		TotalPrice:      49.99,
		Customer:        &shopify.RawCustomer{ID: 777, Email: "buyer@example.com"},
		LineItems: []shopify.RawLineItem{
			{Title: "Item A", Quantity: 2, Price: 19.99},
		},
		CreatedAt: "2026-08-01T10:00:00Z",
	}

	first, err := svc.ReconcileOrder(ctx, "tenant-a", raw)
	if err != nil {
		t.Fatalf("首次入库失败: %v", err)
	}
	if first.CustomerID == nil {
		t.Fatal("内嵌客户应被建出并回填外键")
	}
	if first.CustomerShopifyID == nil || *first.CustomerShopifyID != "777" {
		t.Errorf("外部客户 id = %v, want 777", first.CustomerShopifyID)
	}

	// 重同步：价格与状态更新
	raw.TotalPrice = 59.99
	raw.FinancialStatus = "paid"
	second, err := svc.ReconcileOrder(ctx, "tenant-a", raw)
	if err != nil {
		t.Fatalf("重同步失败: %v", err)
	}

	var count int64
	db.Model(&model.Order{}).Count(&count)
	if count != 1 {
		t.Fatalf("订单行数 = %d, want 1", count)
	}
	if second.ID != first.ID {
		t.Errorf("重同步不应换行: first=%d second=%d", first.ID, second.ID)
	}
	if second.TotalPrice != 59.99 {
		t.Errorf("TotalPrice = %v, want 59.99", second.TotalPrice)
	}
	if second.FinancialStatus == nil || *second.FinancialStatus != "paid" {
		t.Errorf("FinancialStatus = %v, want paid", second.FinancialStatus)
	}
}

func TestReconcileOrder_ReplacesLineItems(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestReconciler(db)
	ctx := context.Background()

	lineA := int64(1)
	lineB := int64(2)
	lineC := int64(3)

	raw := &shopify.RawOrder{
		ID: 555,
		LineItems: []shopify.RawLineItem{
			{ID: &lineA, Title: "Item A", Quantity: 1, Price: 10},
			{ID: &lineB, Title: "Item B", Quantity: 1, Price: 20},
		},
	}
	order, err := svc.ReconcileOrder(ctx, "tenant-a", raw)
	if err != nil {
		t.Fatalf("首次入库失败: %v", err)
	}

	// 行项目从 {A,B} 变成 {A,C}，B 不允许残留
	raw.LineItems = []shopify.RawLineItem{
		{ID: &lineA, Title: "Item A", Quantity: 1, Price: 10},
		{ID: &lineC, Title: "Item C", Quantity: 3, Price: 30},
	}
	if _, err := svc.ReconcileOrder(ctx, "tenant-a", raw); err != nil {
		t.Fatalf("重同步失败: %v", err)
	}

	var items []model.OrderItem
	db.Where("order_id = ?", order.ID).Order("price ASC").Find(&items)
	if len(items) != 2 {
		t.Fatalf("行项目数 = %d, want 2", len(items))
	}
	if items[0].Title != "Item A" || items[1].Title != "Item C" {
		t.Errorf("行项目 = [%s, %s], want [Item A, Item C]", items[0].Title, items[1].Title)
	}

	// 再同步一个空行项目载荷，旧行也要清掉
	raw.LineItems = nil
	if _, err := svc.ReconcileOrder(ctx, "tenant-a", raw); err != nil {
		t.Fatalf("空载荷重同步失败: %v", err)
	}
	var count int64
	db.Model(&model.OrderItem{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 0 {
		t.Errorf("空载荷后行项目数 = %d, want 0", count)
	}
}

func TestReconcileOrder_NoCustomerPayload(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestReconciler(db)

	order, err := svc.ReconcileOrder(context.Background(), "tenant-a", &shopify.RawOrder{ID: 600, TotalPrice: 5})
	if err != nil {
		t.Fatalf("入库失败: %v", err)
	}
	if order.CustomerID != nil || order.CustomerShopifyID != nil {
		t.Errorf("无客户载荷时外键应为空: %v / %v", order.CustomerID, order.CustomerShopifyID)
	}

	var count int64
	db.Model(&model.Customer{}).Count(&count)
	if count != 0 {
		t.Errorf("不应凭空建出客户, 行数 = %d", count)
	}
}

// ==================== 草稿单入库 ====================

func TestReconcileDraftOrder_DisjointFromRegular(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestReconciler(db)
	ctx := context.Background()

	// 草稿单与正式单共用数字 id 555
	if _, err := svc.ReconcileOrder(ctx, "tenant-a", &shopify.RawOrder{ID: 555, TotalPrice: 10}); err != nil {
		t.Fatalf("正式单入库失败: %v", err)
	}
	draft, err := svc.ReconcileDraftOrder(ctx, "tenant-a", &shopify.RawDraftOrder{
		ID:         555,
		Name:       "#D1",
		Status:     "open",
		TotalPrice: 20,
	})
	if err != nil {
		t.Fatalf("草稿单入库失败: %v", err)
	}

	var count int64
	db.Model(&model.Order{}).Count(&count)
	if count != 2 {
		t.Fatalf("订单行数 = %d, want 2（草稿与正式单命名空间隔离）", count)
	}

	if draft.ShopifyOrderID != "draft_555" {
		t.Errorf("草稿单自然键 = %s, want draft_555", draft.ShopifyOrderID)
	}
	if !draft.IsDraft {
		t.Error("IsDraft 应为 true")
	}
	if draft.FinancialStatus == nil || *draft.FinancialStatus != model.FinancialStatusDraft {
		t.Errorf("草稿单财务状态 = %v, want draft", draft.FinancialStatus)
	}
	if draft.DraftStatus == nil || *draft.DraftStatus != "open" {
		t.Errorf("DraftStatus = %v, want open", draft.DraftStatus)
	}
}

// ==================== 商品入库 ====================

func TestReconcileProduct_FirstVariantAndImage(t *testing.T) {
	db := setupSyncTestDB(t)
	svc := newTestReconciler(db)

	compareAt := shopify.Money(79.99)
	product, err := svc.ReconcileProduct(context.Background(), "tenant-a", &shopify.RawProduct{
		ID:     888,
		Title:  "Mug",
		Status: "active",
		Variants: []shopify.RawVariant{
			{ID: 1, Price: 59.99, CompareAtPrice: &compareAt, InventoryQuantity: 12},
			{ID: 2, Price: 9.99, InventoryQuantity: 99},
		},
		Images: []shopify.RawImage{
			{ID: 1, Src: "https://cdn.example.com/1.jpg"},
			{ID: 2, Src: "https://cdn.example.com/2.jpg"},
		},
	})
	if err != nil {
		t.Fatalf("商品入库失败: %v", err)
	}

	if product.Price == nil || *product.Price != 59.99 {
		t.Errorf("Price = %v, want 59.99（只取第一个变体）", product.Price)
	}
	if product.CompareAtPrice == nil || *product.CompareAtPrice != 79.99 {
		t.Errorf("CompareAtPrice = %v, want 79.99", product.CompareAtPrice)
	}
	if product.InventoryQuantity != 12 {
		t.Errorf("InventoryQuantity = %d, want 12", product.InventoryQuantity)
	}
	if product.ImageURL == nil || *product.ImageURL != "https://cdn.example.com/1.jpg" {
		t.Errorf("ImageURL = %v, want 第一张图", product.ImageURL)
	}
}
