package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
	"shopify_sync_v1_202608/pkg/shopify"
)

// ==================== 入库错误 ====================

// ReconcileError 单条记录入库失败
// 携带资源类型与外部 id，便于日志定位具体是哪条记录出的问题
type ReconcileError struct {
	Resource   string
	ExternalID string
	Err        error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("%s 记录 %s 入库失败: %v", e.Resource, e.ExternalID, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// ==================== ReconcileService 数据入库服务 ====================

// ReconcileService 把 Shopify 原始记录落成本地行
// 拉取同步与 Webhook 推送共用同一套入库逻辑，保证两条路径语义一致
type ReconcileService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
}

// NewReconcileService 创建入库服务
func NewReconcileService(
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) *ReconcileService {
	return &ReconcileService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
	}
}

// ReconcileCustomer 客户记录入库（幂等 upsert）
func (s *ReconcileService) ReconcileCustomer(ctx context.Context, tenantID string, raw *shopify.RawCustomer) (*model.Customer, error) {
	externalID := strconv.FormatInt(raw.ID, 10)
	customer := mapCustomer(tenantID, raw)

	if err := s.customerRepo.Upsert(ctx, customer); err != nil {
		return nil, &ReconcileError{Resource: "customer", ExternalID: externalID, Err: err}
	}
	saved, err := s.customerRepo.GetByShopifyID(ctx, tenantID, externalID)
	if err != nil {
		return nil, &ReconcileError{Resource: "customer", ExternalID: externalID, Err: err}
	}
	return saved, nil
}

// ReconcileOrder 正式订单入库
// 先处理内嵌客户载荷（只写联系字段），再 upsert 订单本体，最后整组替换行项目
func (s *ReconcileService) ReconcileOrder(ctx context.Context, tenantID string, raw *shopify.RawOrder) (*model.Order, error) {
	externalID := strconv.FormatInt(raw.ID, 10)

	customerID, customerShopifyID, err := s.bindCustomer(ctx, tenantID, raw.Customer)
	if err != nil {
		return nil, &ReconcileError{Resource: "order", ExternalID: externalID, Err: err}
	}

	order := mapOrder(tenantID, raw)
	order.CustomerID = customerID
	order.CustomerShopifyID = customerShopifyID

	if err := s.orderRepo.Upsert(ctx, order); err != nil {
		return nil, &ReconcileError{Resource: "order", ExternalID: externalID, Err: err}
	}
	saved, err := s.orderRepo.GetByShopifyID(ctx, tenantID, order.ShopifyOrderID)
	if err != nil {
		return nil, &ReconcileError{Resource: "order", ExternalID: externalID, Err: err}
	}

	// 行项目整组删除重建；载荷为空时也要执行，旧行不能残留
	items := mapLineItems(raw.LineItems)
	if err := s.orderRepo.ReplaceItems(ctx, saved.ID, items); err != nil {
		return nil, &ReconcileError{Resource: "order", ExternalID: externalID, Err: err}
	}
	return saved, nil
}

// ReconcileDraftOrder 草稿订单入库
// 自然键加 draft_ 前缀，财务状态统一落 draft
func (s *ReconcileService) ReconcileDraftOrder(ctx context.Context, tenantID string, raw *shopify.RawDraftOrder) (*model.Order, error) {
	externalID := model.DraftOrderIDPrefix + strconv.FormatInt(raw.ID, 10)

	customerID, customerShopifyID, err := s.bindCustomer(ctx, tenantID, raw.Customer)
	if err != nil {
		return nil, &ReconcileError{Resource: "draft_order", ExternalID: externalID, Err: err}
	}

	order := mapDraftOrder(tenantID, raw)
	order.CustomerID = customerID
	order.CustomerShopifyID = customerShopifyID

	if err := s.orderRepo.Upsert(ctx, order); err != nil {
		return nil, &ReconcileError{Resource: "draft_order", ExternalID: externalID, Err: err}
	}
	saved, err := s.orderRepo.GetByShopifyID(ctx, tenantID, externalID)
	if err != nil {
		return nil, &ReconcileError{Resource: "draft_order", ExternalID: externalID, Err: err}
	}

	items := mapLineItems(raw.LineItems)
	if err := s.orderRepo.ReplaceItems(ctx, saved.ID, items); err != nil {
		return nil, &ReconcileError{Resource: "draft_order", ExternalID: externalID, Err: err}
	}
	return saved, nil
}

// ReconcileProduct 商品记录入库
func (s *ReconcileService) ReconcileProduct(ctx context.Context, tenantID string, raw *shopify.RawProduct) (*model.Product, error) {
	externalID := strconv.FormatInt(raw.ID, 10)
	product := mapProduct(tenantID, raw)

	if err := s.productRepo.Upsert(ctx, product); err != nil {
		return nil, &ReconcileError{Resource: "product", ExternalID: externalID, Err: err}
	}
	saved, err := s.productRepo.GetByShopifyID(ctx, tenantID, externalID)
	if err != nil {
		return nil, &ReconcileError{Resource: "product", ExternalID: externalID, Err: err}
	}
	return saved, nil
}

// bindCustomer 处理订单内嵌的客户载荷
// 只写联系字段（派生统计由重算维护），返回内部外键与外部客户 id
// 载荷缺失时两者都为空，订单照常入库
func (s *ReconcileService) bindCustomer(ctx context.Context, tenantID string, raw *shopify.RawCustomer) (*int64, *string, error) {
	if raw == nil || raw.ID == 0 {
		return nil, nil, nil
	}
	externalID := strconv.FormatInt(raw.ID, 10)

	if err := s.customerRepo.UpsertContact(ctx, mapContactCustomer(tenantID, raw)); err != nil {
		return nil, nil, err
	}
	saved, err := s.customerRepo.GetByShopifyID(ctx, tenantID, externalID)
	if err != nil {
		return nil, nil, err
	}
	return &saved.ID, &externalID, nil
}

// ==================== 字段映射 ====================

func mapCustomer(tenantID string, raw *shopify.RawCustomer) *model.Customer {
	return &model.Customer{
		ShopifyCustomerID: strconv.FormatInt(raw.ID, 10),
		TenantID:          tenantID,
		Email:             nullableString(raw.Email),
		FirstName:         nullableString(raw.FirstName),
		LastName:          nullableString(raw.LastName),
		Phone:             nullableString(raw.Phone),
		OrdersCount:       raw.OrdersCount,
		TotalSpent:        float64(raw.TotalSpent),
		Currency:          nullableString(raw.Currency),
		Tags:              nullableString(raw.Tags),
		AcceptsMarketing:  raw.AcceptsMarketing,
		CreatedAtShopify:  parseShopifyTime(raw.CreatedAt),
		UpdatedAtShopify:  parseShopifyTime(raw.UpdatedAt),
	}
}

// mapContactCustomer 内嵌载荷版映射：统计字段留零值，upsert 时也不会覆盖
func mapContactCustomer(tenantID string, raw *shopify.RawCustomer) *model.Customer {
	return &model.Customer{
		ShopifyCustomerID: strconv.FormatInt(raw.ID, 10),
		TenantID:          tenantID,
		Email:             nullableString(raw.Email),
		FirstName:         nullableString(raw.FirstName),
		LastName:          nullableString(raw.LastName),
		Phone:             nullableString(raw.Phone),
		Currency:          nullableString(raw.Currency),
		Tags:              nullableString(raw.Tags),
		CreatedAtShopify:  parseShopifyTime(raw.CreatedAt),
		UpdatedAtShopify:  parseShopifyTime(raw.UpdatedAt),
	}
}

func mapOrder(tenantID string, raw *shopify.RawOrder) *model.Order {
	payload, _ := json.Marshal(raw)
	return &model.Order{
		ShopifyOrderID:    strconv.FormatInt(raw.ID, 10),
		TenantID:          tenantID,
		OrderNumber:       nullableString(string(raw.OrderNumber)),
		Email:             nullableString(raw.Email),
		FinancialStatus:   nullableString(raw.FinancialStatus),
		FulfillmentStatus: nullableString(raw.FulfillmentStatus),
		TotalPrice:        float64(raw.TotalPrice),
		SubtotalPrice:     float64(raw.SubtotalPrice),
		TotalTax:          float64(raw.TotalTax),
		TotalDiscounts:    float64(raw.TotalDiscounts),
		Currency:          nullableString(raw.Currency),
		RawPayload:        payload,
		CreatedAtShopify:  parseShopifyTime(raw.CreatedAt),
		ProcessedAt:       parseShopifyTime(raw.ProcessedAt),
		UpdatedAtShopify:  parseShopifyTime(raw.UpdatedAt),
	}
}

func mapDraftOrder(tenantID string, raw *shopify.RawDraftOrder) *model.Order {
	payload, _ := json.Marshal(raw)
	financialStatus := model.FinancialStatusDraft
	return &model.Order{
		ShopifyOrderID:   model.DraftOrderIDPrefix + strconv.FormatInt(raw.ID, 10),
		TenantID:         tenantID,
		OrderNumber:      nullableString(raw.Name),
		Email:            nullableString(raw.Email),
		FinancialStatus:  &financialStatus,
		TotalPrice:       float64(raw.TotalPrice),
		SubtotalPrice:    float64(raw.SubtotalPrice),
		TotalTax:         float64(raw.TotalTax),
		Currency:         nullableString(raw.Currency),
		IsDraft:          true,
		DraftStatus:      nullableString(raw.Status),
		RawPayload:       payload,
		CreatedAtShopify: parseShopifyTime(raw.CreatedAt),
		UpdatedAtShopify: parseShopifyTime(raw.UpdatedAt),
	}
}

func mapLineItems(rawItems []shopify.RawLineItem) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(rawItems))
	for _, li := range rawItems {
		items = append(items, model.OrderItem{
			ShopifyLineID: formatNullableID(li.ID),
			ProductID:     formatNullableID(li.ProductID),
			VariantID:     formatNullableID(li.VariantID),
			Title:         li.Title,
			VariantTitle:  nullableString(li.VariantTitle),
			Quantity:      li.Quantity,
			Price:         float64(li.Price),
			SKU:           nullableString(li.SKU),
		})
	}
	return items
}

func mapProduct(tenantID string, raw *shopify.RawProduct) *model.Product {
	product := &model.Product{
		ShopifyProductID: strconv.FormatInt(raw.ID, 10),
		TenantID:         tenantID,
		Title:            raw.Title,
		Description:      nullableString(raw.BodyHTML),
		Vendor:           nullableString(raw.Vendor),
		ProductType:      nullableString(raw.ProductType),
		Tags:             nullableString(raw.Tags),
		Status:           nullableString(raw.Status),
		Handle:           nullableString(raw.Handle),
		CreatedAtShopify: parseShopifyTime(raw.CreatedAt),
		UpdatedAtShopify: parseShopifyTime(raw.UpdatedAt),
	}

	// 只取第一个变体的价格与库存、第一张图
	if len(raw.Variants) > 0 {
		v := raw.Variants[0]
		price := float64(v.Price)
		product.Price = &price
		if v.CompareAtPrice != nil {
			compareAt := float64(*v.CompareAtPrice)
			product.CompareAtPrice = &compareAt
		}
		product.InventoryQuantity = v.InventoryQuantity
	}
	if len(raw.Images) > 0 && raw.Images[0].Src != "" {
		product.ImageURL = nullableString(raw.Images[0].Src)
	}
	return product
}

// ==================== 小工具 ====================

// nullableString 空串落 NULL
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatNullableID(id *int64) *string {
	if id == nil {
		return nil
	}
	s := strconv.FormatInt(*id, 10)
	return &s
}

// parseShopifyTime 解析 Shopify 的 ISO8601 时间戳，解析失败落 NULL
func parseShopifyTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
