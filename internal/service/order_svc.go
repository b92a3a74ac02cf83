package service

import (
	"context"

	"shopify_sync_v1_202608/internal/api/dto"
	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
)

// ==================== OrderService 订单查询服务 ====================

// OrderService 订单查询
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService 创建订单查询服务
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// List 订单列表（含行项目）
func (s *OrderService) List(ctx context.Context, filter repository.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	list := make([]dto.OrderVO, 0, len(orders))
	for i := range orders {
		list = append(list, toOrderVO(&orders[i]))
	}
	return &dto.OrderListResponse{Total: total, List: list}, nil
}

// Get 订单详情
func (s *OrderService) Get(ctx context.Context, tenantID string, id int64) (*dto.OrderVO, error) {
	order, err := s.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	vo := toOrderVO(order)
	return &vo, nil
}

func toOrderVO(o *model.Order) dto.OrderVO {
	items := make([]dto.OrderItemVO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemVO{
			ID:           item.ID,
			Title:        item.Title,
			VariantTitle: item.VariantTitle,
			Quantity:     item.Quantity,
			Price:        item.Price,
			SKU:          item.SKU,
		})
	}
	return dto.OrderVO{
		ID:                o.ID,
		ShopifyOrderID:    o.ShopifyOrderID,
		OrderNumber:       o.OrderNumber,
		Email:             o.Email,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		TotalPrice:        o.TotalPrice,
		SubtotalPrice:     o.SubtotalPrice,
		TotalTax:          o.TotalTax,
		TotalDiscounts:    o.TotalDiscounts,
		Currency:          o.Currency,
		IsDraft:           o.IsDraft,
		DraftStatus:       o.DraftStatus,
		ItemCount:         len(items),
		Items:             items,
		CreatedAtShopify:  o.CreatedAtShopify,
	}
}
