package service

import (
	"context"

	"shopify_sync_v1_202608/internal/api/dto"
	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
)

// ==================== ProductService 商品查询服务 ====================

// ProductService 商品查询
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品查询服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List 商品列表
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	list := make([]dto.ProductVO, 0, len(products))
	for i := range products {
		list = append(list, toProductVO(&products[i]))
	}
	return &dto.ProductListResponse{Total: total, List: list}, nil
}

// Get 商品详情
func (s *ProductService) Get(ctx context.Context, tenantID string, id int64) (*dto.ProductVO, error) {
	product, err := s.productRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	vo := toProductVO(product)
	return &vo, nil
}

func toProductVO(p *model.Product) dto.ProductVO {
	return dto.ProductVO{
		ID:                p.ID,
		ShopifyProductID:  p.ShopifyProductID,
		Title:             p.Title,
		Vendor:            p.Vendor,
		ProductType:       p.ProductType,
		Status:            p.Status,
		Handle:            p.Handle,
		ImageURL:          p.ImageURL,
		Price:             p.Price,
		CompareAtPrice:    p.CompareAtPrice,
		InventoryQuantity: p.InventoryQuantity,
		UpdatedAtShopify:  p.UpdatedAtShopify,
	}
}
