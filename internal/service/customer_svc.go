package service

import (
	"context"

	"shopify_sync_v1_202608/internal/api/dto"
	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
)

// ==================== CustomerService 客户查询服务 ====================

// CustomerService 客户查询
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService 创建客户查询服务
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// List 客户列表，按消费额降序
func (s *CustomerService) List(ctx context.Context, filter repository.CustomerFilter) (*dto.CustomerListResponse, error) {
	customers, total, err := s.customerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	list := make([]dto.CustomerVO, 0, len(customers))
	for i := range customers {
		list = append(list, toCustomerVO(&customers[i]))
	}
	return &dto.CustomerListResponse{Total: total, List: list}, nil
}

// Get 客户详情
func (s *CustomerService) Get(ctx context.Context, tenantID string, id int64) (*dto.CustomerVO, error) {
	customer, err := s.customerRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	vo := toCustomerVO(customer)
	return &vo, nil
}

func toCustomerVO(c *model.Customer) dto.CustomerVO {
	return dto.CustomerVO{
		ID:                c.ID,
		ShopifyCustomerID: c.ShopifyCustomerID,
		Email:             c.Email,
		Name:              c.FullName(),
		Phone:             c.Phone,
		OrdersCount:       c.OrdersCount,
		TotalSpent:        c.TotalSpent,
		Currency:          c.Currency,
		Tags:              c.Tags,
		AcceptsMarketing:  c.AcceptsMarketing,
		CreatedAtShopify:  c.CreatedAtShopify,
	}
}
