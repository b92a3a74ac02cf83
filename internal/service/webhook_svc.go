package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"shopify_sync_v1_202608/internal/api/dto"
	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
	"shopify_sync_v1_202608/pkg/shopify"

	"gorm.io/gorm"
)

// ErrTenantNotFound webhook 携带的店铺域名没有匹配到租户
var ErrTenantNotFound = errors.New("未找到对应租户")

// ==================== WebhookService Webhook 推送服务 ====================

// WebhookService 处理 Shopify 推送
// 推送进来的记录走与拉取同步完全相同的入库逻辑
type WebhookService struct {
	tenantRepo   repository.TenantRepository
	customerRepo repository.CustomerRepository
	eventRepo    repository.EventRepository
	reconciler   *ReconcileService
}

// NewWebhookService 创建 Webhook 服务
func NewWebhookService(
	tenantRepo repository.TenantRepository,
	customerRepo repository.CustomerRepository,
	eventRepo repository.EventRepository,
	reconciler *ReconcileService,
) *WebhookService {
	return &WebhookService{
		tenantRepo:   tenantRepo,
		customerRepo: customerRepo,
		eventRepo:    eventRepo,
		reconciler:   reconciler,
	}
}

// resolveTenant 按 X-Shopify-Shop-Domain 定位租户
func (s *WebhookService) resolveTenant(ctx context.Context, shopDomain string) (*model.Tenant, error) {
	if shopDomain == "" {
		return nil, ErrTenantNotFound
	}
	tenant, err := s.tenantRepo.GetByStoreDomain(ctx, shopDomain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("查询租户失败: %w", err)
	}
	return tenant, nil
}

// HandleCustomerPush 客户推送入库
func (s *WebhookService) HandleCustomerPush(ctx context.Context, shopDomain string, payload []byte) error {
	tenant, err := s.resolveTenant(ctx, shopDomain)
	if err != nil {
		return err
	}

	var raw shopify.RawCustomer
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("解析客户载荷失败: %w", err)
	}
	if _, err := s.reconciler.ReconcileCustomer(ctx, tenant.ID, &raw); err != nil {
		return err
	}
	log.Printf("[WebhookService] 租户 %s: 客户推送 %d 已入库", tenant.ID, raw.ID)
	return nil
}

// HandleOrderPush 订单推送入库
// 入库后同步重算该租户的客户统计，保证推送路径与拉取路径统计一致
func (s *WebhookService) HandleOrderPush(ctx context.Context, shopDomain string, payload []byte) error {
	tenant, err := s.resolveTenant(ctx, shopDomain)
	if err != nil {
		return err
	}

	var raw shopify.RawOrder
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("解析订单载荷失败: %w", err)
	}
	if _, err := s.reconciler.ReconcileOrder(ctx, tenant.ID, &raw); err != nil {
		return err
	}

	if _, err := s.customerRepo.RecalculateStats(ctx, tenant.ID); err != nil {
		log.Printf("[WebhookService] 租户 %s: 订单推送后统计重算失败: %v", tenant.ID, err)
	}
	log.Printf("[WebhookService] 租户 %s: 订单推送 %d 已入库", tenant.ID, raw.ID)
	return nil
}

// HandleProductPush 商品推送入库
func (s *WebhookService) HandleProductPush(ctx context.Context, shopDomain string, payload []byte) error {
	tenant, err := s.resolveTenant(ctx, shopDomain)
	if err != nil {
		return err
	}

	var raw shopify.RawProduct
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("解析商品载荷失败: %w", err)
	}
	if _, err := s.reconciler.ReconcileProduct(ctx, tenant.ID, &raw); err != nil {
		return err
	}
	log.Printf("[WebhookService] 租户 %s: 商品推送 %d 已入库", tenant.ID, raw.ID)
	return nil
}

// RecordEvent 自定义事件落盘（购物车弃单、结账开始等店面埋点）
func (s *WebhookService) RecordEvent(ctx context.Context, req *dto.EventRequest) error {
	if _, err := s.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTenantNotFound
		}
		return fmt.Errorf("查询租户失败: %w", err)
	}

	event := &model.Event{
		TenantID:      req.TenantID,
		EventType:     req.EventType,
		CustomerID:    req.CustomerID,
		CustomerEmail: req.CustomerEmail,
		SessionID:     req.SessionID,
	}
	if len(req.Data) > 0 {
		event.Data = []byte(req.Data)
	}
	return s.eventRepo.Create(ctx, event)
}
