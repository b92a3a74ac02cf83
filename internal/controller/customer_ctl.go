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

// CustomerController 客户控制器
type CustomerController struct {
	customerSvc *service.CustomerService
}

// NewCustomerController 创建客户控制器
func NewCustomerController(customerSvc *service.CustomerService) *CustomerController {
	return &CustomerController{customerSvc: customerSvc}
}

// ==================== Handler 实现 ====================

// List 客户列表，支持关键词搜索与分页
func (c *CustomerController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	filter := repository.CustomerFilter{
		TenantID: middleware.GetTenantID(ctx),
		Keyword:  ctx.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}

	resp, err := c.customerSvc.List(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": resp})
}

// Get 客户详情
func (c *CustomerController) Get(ctx *gin.Context) {
	id := parseID(ctx, "id")
	if id == 0 {
		return
	}

	vo, err := c.customerSvc.Get(ctx.Request.Context(), middleware.GetTenantID(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "客户不存在"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": vo})
}

// parseID 解析路径里的数字 id，非法时直接写 400
func parseID(ctx *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "无效的 ID"})
		return 0
	}
	return id
}
