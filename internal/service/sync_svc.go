package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"shopify_sync_v1_202608/internal/api/dto"
	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
	"shopify_sync_v1_202608/pkg/shopify"
)

// ==================== Shopify 网关 ====================

// ShopifyGateway Shopify 拉取网关
// 抽成接口便于测试时替换假实现
type ShopifyGateway interface {
	GetCustomers(ctx context.Context) ([]shopify.RawCustomer, error)
	GetOrders(ctx context.Context) ([]shopify.RawOrder, error)
	GetDraftOrders(ctx context.Context) ([]shopify.RawDraftOrder, error)
	GetProducts(ctx context.Context) ([]shopify.RawProduct, error)
}

// GatewayFactory 按租户凭据构造网关
type GatewayFactory func(storeURL, accessToken string) ShopifyGateway

// ==================== SyncService 同步编排服务 ====================

// SyncService 同步编排：拉取、入库、统计重算、日志落盘
type SyncService struct {
	tenantRepo   repository.TenantRepository
	customerRepo repository.CustomerRepository
	syncLogRepo  repository.SyncLogRepository
	reconciler   *ReconcileService

	newGateway GatewayFactory

	// 临时性故障的拉取重试次数与基础退避间隔
	retryCount int
	retryDelay time.Duration
}

// NewSyncService 创建同步编排服务
func NewSyncService(
	tenantRepo repository.TenantRepository,
	customerRepo repository.CustomerRepository,
	syncLogRepo repository.SyncLogRepository,
	reconciler *ReconcileService,
) *SyncService {
	return &SyncService{
		tenantRepo:   tenantRepo,
		customerRepo: customerRepo,
		syncLogRepo:  syncLogRepo,
		reconciler:   reconciler,
		newGateway: func(storeURL, accessToken string) ShopifyGateway {
			return shopify.NewClient(storeURL, accessToken)
		},
		retryCount: 2,
		retryDelay: time.Second,
	}
}

// SetGatewayFactory 替换网关工厂，测试注入用
func (s *SyncService) SetGatewayFactory(f GatewayFactory) {
	s.newGateway = f
}

// RunSyncForTenant 按租户 id 执行同步
func (s *SyncService) RunSyncForTenant(ctx context.Context, tenantID, scope string) (*dto.SyncResult, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("查询租户失败: %w", err)
	}
	return s.RunSync(ctx, tenant, scope)
}

// RunSync 执行一次同步
// scope 为 customers / orders / products / full
// full 下三个子同步相互独立，一个失败不中断其他
func (s *SyncService) RunSync(ctx context.Context, tenant *model.Tenant, scope string) (*dto.SyncResult, error) {
	gw := s.newGateway(tenant.ShopifyStoreURL, tenant.ShopifyAccessToken)

	switch scope {
	case model.SyncTypeCustomers:
		count, err := s.syncCustomers(ctx, gw, tenant)
		return singleResult(scope, count, err), err
	case model.SyncTypeOrders:
		count, err := s.syncOrders(ctx, gw, tenant)
		return singleResult(scope, count, err), err
	case model.SyncTypeProducts:
		count, err := s.syncProducts(ctx, gw, tenant)
		return singleResult(scope, count, err), err
	case model.SyncTypeFull:
		return s.syncFull(ctx, gw, tenant)
	default:
		return nil, fmt.Errorf("未知的同步范围: %s", scope)
	}
}

// syncFull 全量同步：客户、订单、商品各跑一遍
// 只要任一子同步成功即视为成功；有失败时 Partial 置位并逐条记录
func (s *SyncService) syncFull(ctx context.Context, gw ShopifyGateway, tenant *model.Tenant) (*dto.SyncResult, error) {
	fullLog, err := s.syncLogRepo.Create(ctx, tenant.ID, model.SyncTypeFull)
	if err != nil {
		return nil, fmt.Errorf("创建同步日志失败: %w", err)
	}

	result := &dto.SyncResult{}

	count, err := s.syncCustomers(ctx, gw, tenant)
	result.Customers = subResult(count, err)
	if err != nil {
		result.Errors = append(result.Errors, "customers: "+classifyError(err))
	} else {
		result.Total += count
	}

	count, err = s.syncOrders(ctx, gw, tenant)
	result.Orders = subResult(count, err)
	if err != nil {
		result.Errors = append(result.Errors, "orders: "+classifyError(err))
	} else {
		result.Total += count
	}

	count, err = s.syncProducts(ctx, gw, tenant)
	result.Products = subResult(count, err)
	if err != nil {
		result.Errors = append(result.Errors, "products: "+classifyError(err))
	} else {
		result.Total += count
	}

	anySuccess := result.Customers.Success || result.Orders.Success || result.Products.Success
	result.Success = anySuccess
	result.Partial = anySuccess && len(result.Errors) > 0

	status := model.SyncStatusCompleted
	var errMsg *string
	if !anySuccess {
		status = model.SyncStatusFailed
	}
	if len(result.Errors) > 0 {
		joined := strings.Join(result.Errors, "; ")
		errMsg = &joined
	}
	if err := s.syncLogRepo.Finish(ctx, fullLog.ID, status, result.Total, errMsg); err != nil {
		log.Printf("[SyncService] 租户 %s: 写入全量同步日志失败: %v", tenant.ID, err)
	}

	log.Printf("[SyncService] 租户 %s: 全量同步结束, 共处理 %d 条, 失败 %d 项", tenant.ID, result.Total, len(result.Errors))
	return result, nil
}

// syncCustomers 客户子同步
func (s *SyncService) syncCustomers(ctx context.Context, gw ShopifyGateway, tenant *model.Tenant) (int, error) {
	logRow, err := s.syncLogRepo.Create(ctx, tenant.ID, model.SyncTypeCustomers)
	if err != nil {
		return 0, fmt.Errorf("创建同步日志失败: %w", err)
	}

	var customers []shopify.RawCustomer
	err = s.withRetry(ctx, func() error {
		var fetchErr error
		customers, fetchErr = gw.GetCustomers(ctx)
		return fetchErr
	})
	if err != nil {
		s.finishFailed(ctx, logRow.ID, 0, err)
		return 0, err
	}

	processed := 0
	for i := range customers {
		if _, err := s.reconciler.ReconcileCustomer(ctx, tenant.ID, &customers[i]); err != nil {
			s.finishFailed(ctx, logRow.ID, processed, err)
			return processed, err
		}
		processed++
	}

	if err := s.syncLogRepo.Finish(ctx, logRow.ID, model.SyncStatusCompleted, processed, nil); err != nil {
		log.Printf("[SyncService] 租户 %s: 写入客户同步日志失败: %v", tenant.ID, err)
	}
	log.Printf("[SyncService] 租户 %s: 客户同步完成, 共 %d 条", tenant.ID, processed)
	return processed, nil
}

// syncOrders 订单子同步：正式单 + 草稿单，入库完成后整组重算客户统计
func (s *SyncService) syncOrders(ctx context.Context, gw ShopifyGateway, tenant *model.Tenant) (int, error) {
	logRow, err := s.syncLogRepo.Create(ctx, tenant.ID, model.SyncTypeOrders)
	if err != nil {
		return 0, fmt.Errorf("创建同步日志失败: %w", err)
	}

	var orders []shopify.RawOrder
	err = s.withRetry(ctx, func() error {
		var fetchErr error
		orders, fetchErr = gw.GetOrders(ctx)
		return fetchErr
	})
	if err != nil {
		s.finishFailed(ctx, logRow.ID, 0, err)
		return 0, err
	}

	var drafts []shopify.RawDraftOrder
	err = s.withRetry(ctx, func() error {
		var fetchErr error
		drafts, fetchErr = gw.GetDraftOrders(ctx)
		return fetchErr
	})
	if err != nil {
		s.finishFailed(ctx, logRow.ID, 0, err)
		return 0, err
	}

	processed := 0
	for i := range orders {
		if _, err := s.reconciler.ReconcileOrder(ctx, tenant.ID, &orders[i]); err != nil {
			s.finishFailed(ctx, logRow.ID, processed, err)
			return processed, err
		}
		processed++
	}
	for i := range drafts {
		if _, err := s.reconciler.ReconcileDraftOrder(ctx, tenant.ID, &drafts[i]); err != nil {
			s.finishFailed(ctx, logRow.ID, processed, err)
			return processed, err
		}
		processed++
	}

	// 订单全部落库后做一次整组重算，派生统计以订单表为准
	updated, err := s.customerRepo.RecalculateStats(ctx, tenant.ID)
	if err != nil {
		s.finishFailed(ctx, logRow.ID, processed, fmt.Errorf("客户统计重算失败: %w", err))
		return processed, err
	}
	log.Printf("[SyncService] 租户 %s: 已重算 %d 个客户的消费统计", tenant.ID, updated)

	if err := s.syncLogRepo.Finish(ctx, logRow.ID, model.SyncStatusCompleted, processed, nil); err != nil {
		log.Printf("[SyncService] 租户 %s: 写入订单同步日志失败: %v", tenant.ID, err)
	}
	log.Printf("[SyncService] 租户 %s: 订单同步完成, 正式单 %d 条, 草稿单 %d 条", tenant.ID, len(orders), len(drafts))
	return processed, nil
}

// syncProducts 商品子同步
func (s *SyncService) syncProducts(ctx context.Context, gw ShopifyGateway, tenant *model.Tenant) (int, error) {
	logRow, err := s.syncLogRepo.Create(ctx, tenant.ID, model.SyncTypeProducts)
	if err != nil {
		return 0, fmt.Errorf("创建同步日志失败: %w", err)
	}

	var products []shopify.RawProduct
	err = s.withRetry(ctx, func() error {
		var fetchErr error
		products, fetchErr = gw.GetProducts(ctx)
		return fetchErr
	})
	if err != nil {
		s.finishFailed(ctx, logRow.ID, 0, err)
		return 0, err
	}

	processed := 0
	for i := range products {
		if _, err := s.reconciler.ReconcileProduct(ctx, tenant.ID, &products[i]); err != nil {
			s.finishFailed(ctx, logRow.ID, processed, err)
			return processed, err
		}
		processed++
	}

	if err := s.syncLogRepo.Finish(ctx, logRow.ID, model.SyncStatusCompleted, processed, nil); err != nil {
		log.Printf("[SyncService] 租户 %s: 写入商品同步日志失败: %v", tenant.ID, err)
	}
	log.Printf("[SyncService] 租户 %s: 商品同步完成, 共 %d 条", tenant.ID, processed)
	return processed, nil
}

// ListSyncLogs 同步日志列表
func (s *SyncService) ListSyncLogs(ctx context.Context, tenantID string, page, pageSize int) (*dto.SyncLogListResponse, error) {
	logs, total, err := s.syncLogRepo.List(ctx, tenantID, page, pageSize)
	if err != nil {
		return nil, err
	}
	list := make([]dto.SyncLogVO, 0, len(logs))
	for _, row := range logs {
		list = append(list, dto.SyncLogVO{
			ID:               row.ID,
			SyncType:         row.SyncType,
			Status:           row.Status,
			RecordsProcessed: row.RecordsProcessed,
			ErrorMessage:     row.ErrorMessage,
			StartedAt:        row.StartedAt,
			CompletedAt:      row.CompletedAt,
		})
	}
	return &dto.SyncLogListResponse{Total: total, List: list}, nil
}

// ==================== 重试与错误归类 ====================

// withRetry 拉取重试
// 只有临时性故障（网络错误 / 超时 / 429）才重试，线性退避，其他错误立即放弃
func (s *SyncService) withRetry(ctx context.Context, fetch func() error) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = fetch()
		if lastErr == nil {
			return nil
		}
		var transient *shopify.TransientFault
		if !errors.As(lastErr, &transient) || attempt >= s.retryCount {
			return lastErr
		}
		log.Printf("[SyncService] 拉取遇到临时性故障, 第 %d 次重试: %v", attempt+1, lastErr)
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(s.retryDelay * time.Duration(attempt+1)):
		}
	}
}

// finishFailed 把同步日志落为失败态，错误信息归类成可读文案
func (s *SyncService) finishFailed(ctx context.Context, logID int64, processed int, cause error) {
	msg := classifyError(cause)
	if err := s.syncLogRepo.Finish(ctx, logID, model.SyncStatusFailed, processed, &msg); err != nil {
		log.Printf("[SyncService] 写入失败日志出错: %v", err)
	}
}

// classifyError 把错误归类为可读文案，权限错误必须指明缺失的 scope
func classifyError(err error) string {
	if err == nil {
		return ""
	}

	var authErr *shopify.AuthError
	if errors.As(err, &authErr) {
		return "认证失败: " + authErr.Error()
	}
	var scopeErr *shopify.PermissionScopeError
	if errors.As(err, &scopeErr) {
		return scopeErr.Error()
	}
	var transient *shopify.TransientFault
	if errors.As(err, &transient) {
		return "临时性故障(重试后仍失败): " + transient.Error()
	}
	var upstream *shopify.UpstreamError
	if errors.As(err, &upstream) {
		return "上游接口错误: " + upstream.Error()
	}
	var reconcileErr *ReconcileError
	if errors.As(err, &reconcileErr) {
		return reconcileErr.Error()
	}
	return err.Error()
}

// ==================== 结果组装 ====================

func subResult(count int, err error) dto.ResourceResult {
	if err != nil {
		return dto.ResourceResult{Success: false, Count: count, Error: classifyError(err)}
	}
	return dto.ResourceResult{Success: true, Count: count}
}

// singleResult 单资源同步的结果包装
func singleResult(scope string, count int, err error) *dto.SyncResult {
	result := &dto.SyncResult{Success: err == nil, Total: count}
	sub := subResult(count, err)
	if err != nil {
		result.Total = 0
		result.Errors = []string{scope + ": " + classifyError(err)}
	}
	switch scope {
	case model.SyncTypeCustomers:
		result.Customers = sub
	case model.SyncTypeOrders:
		result.Orders = sub
	case model.SyncTypeProducts:
		result.Products = sub
	}
	return result
}
