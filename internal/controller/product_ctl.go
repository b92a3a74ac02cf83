package controller

import (
	"errors"
	"net/http"
	"strconv"

	"shopify_sync_v1_202608/internal/middleware"
	"shopify_sync_v1_202608/internal/repository"
	"shopify_sync_v1_202608/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductController 商品控制器
type ProductController struct {
	productSvc *service.ProductService
}

// NewProductController 创建商品控制器
func NewProductController(productSvc *service.ProductService) *ProductController {
	return &ProductController{productSvc: productSvc}
}

// ==================== Handler 实现 ====================

// List 商品列表，支持状态与关键词过滤
func (c *ProductController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	filter := repository.ProductFilter{
		TenantID: middleware.GetTenantID(ctx),
		Status:   ctx.Query("status"),
		Keyword:  ctx.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}

	resp, err := c.productSvc.List(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": resp})
}

// Get 商品详情
func (c *ProductController) Get(ctx *gin.Context) {
	id := parseID(ctx, "id")
	if id == 0 {
		return
	}

	vo, err := c.productSvc.Get(ctx.Request.Context(), middleware.GetTenantID(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "商品不存在"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": vo})
}
