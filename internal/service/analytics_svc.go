package service

import (
	"context"
	"fmt"
	"time"

	"shopify_sync_v1_202608/internal/api/dto"
	"shopify_sync_v1_202608/internal/repository"
	"shopify_sync_v1_202608/pkg/utils"
)

// overviewCacheTTL 总览聚合的缓存时长
const overviewCacheTTL = time.Minute

// ==================== AnalyticsService 统计服务 ====================

// AnalyticsService 仪表盘统计
// 全部基于本地表聚合，不回源 Shopify
type AnalyticsService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
}

// NewAnalyticsService 创建统计服务
func NewAnalyticsService(
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) *AnalyticsService {
	return &AnalyticsService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
	}
}

// Overview 总览：客户/订单/商品总数、总营收、客单价、近 30 天情况
// 六次聚合开销不小，结果按租户缓存一分钟
func (s *AnalyticsService) Overview(ctx context.Context, tenantID string) (*dto.OverviewResponse, error) {
	cacheKey := "analytics:overview:" + tenantID
	if cached, ok := utils.GetCache(cacheKey); ok {
		return cached.(*dto.OverviewResponse), nil
	}

	totalCustomers, err := s.customerRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("统计客户数失败: %w", err)
	}
	totalOrders, err := s.orderRepo.CountByTenant(ctx, tenantID, nil)
	if err != nil {
		return nil, fmt.Errorf("统计订单数失败: %w", err)
	}
	totalProducts, err := s.productRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("统计商品数失败: %w", err)
	}
	totalRevenue, err := s.orderRepo.SumTotalPrice(ctx, tenantID, nil)
	if err != nil {
		return nil, fmt.Errorf("统计营收失败: %w", err)
	}

	since := time.Now().AddDate(0, 0, -30)
	recentOrders, err := s.orderRepo.CountByTenant(ctx, tenantID, &since)
	if err != nil {
		return nil, fmt.Errorf("统计近期订单失败: %w", err)
	}
	recentRevenue, err := s.orderRepo.SumTotalPrice(ctx, tenantID, &since)
	if err != nil {
		return nil, fmt.Errorf("统计近期营收失败: %w", err)
	}

	var aov float64
	if totalOrders > 0 {
		aov = totalRevenue / float64(totalOrders)
	}

	resp := &dto.OverviewResponse{
		TotalCustomers:    totalCustomers,
		TotalOrders:       totalOrders,
		TotalProducts:     totalProducts,
		TotalRevenue:      totalRevenue,
		AverageOrderValue: aov,
		RecentOrders:      recentOrders,
		RecentRevenue:     recentRevenue,
	}
	utils.SetCache(cacheKey, resp, overviewCacheTTL)
	return resp, nil
}

// OrdersByDate 近 N 天按日订单量与营收
func (s *AnalyticsService) OrdersByDate(ctx context.Context, tenantID string, days int) ([]dto.DatePoint, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	rows, err := s.orderRepo.RevenueByDate(ctx, tenantID, since)
	if err != nil {
		return nil, err
	}
	points := make([]dto.DatePoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, dto.DatePoint{
			Date:    row.Date,
			Count:   row.Count,
			Revenue: row.Revenue,
		})
	}
	return points, nil
}

// RevenueByStatus 按财务状态聚合营收
func (s *AnalyticsService) RevenueByStatus(ctx context.Context, tenantID string) ([]dto.StatusPoint, error) {
	rows, err := s.orderRepo.RevenueByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	points := make([]dto.StatusPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, dto.StatusPoint{
			Status:  row.FinancialStatus,
			Count:   row.Count,
			Revenue: row.Revenue,
		})
	}
	return points, nil
}

// TopCustomers 高消费客户排行
func (s *AnalyticsService) TopCustomers(ctx context.Context, tenantID string, limit int) ([]dto.TopCustomerVO, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	customers, err := s.customerRepo.TopBySpend(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}
	list := make([]dto.TopCustomerVO, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		list = append(list, dto.TopCustomerVO{
			ID:          c.ID,
			Name:        c.FullName(),
			Email:       c.Email,
			OrdersCount: c.OrdersCount,
			TotalSpent:  c.TotalSpent,
		})
	}
	return list, nil
}

// ProductsByStatus 按商品状态计数
func (s *AnalyticsService) ProductsByStatus(ctx context.Context, tenantID string) ([]dto.StatusPoint, error) {
	rows, err := s.productRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	points := make([]dto.StatusPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, dto.StatusPoint{
			Status: row.Status,
			Count:  row.Count,
		})
	}
	return points, nil
}
