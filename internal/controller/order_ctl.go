package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shopify_sync_v1_202608/internal/middleware"
	"shopify_sync_v1_202608/internal/repository"
	"shopify_sync_v1_202608/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OrderController 订单控制器
type OrderController struct {
	orderSvc *service.OrderService
}

// NewOrderController 创建订单控制器
func NewOrderController(orderSvc *service.OrderService) *OrderController {
	return &OrderController{orderSvc: orderSvc}
}

// ==================== Handler 实现 ====================

// List 订单列表，支持状态/时间区间/关键词过滤
func (c *OrderController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	filter := repository.OrderFilter{
		TenantID:        middleware.GetTenantID(ctx),
		FinancialStatus: ctx.Query("status"),
		Keyword:         ctx.Query("search"),
		StartDate:       parseDate(ctx.Query("start_date")),
		EndDate:         parseDate(ctx.Query("end_date")),
		Page:            page,
		PageSize:        pageSize,
	}

	resp, err := c.orderSvc.List(ctx.Request.Context(), filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": resp})
}

// Get 订单详情（含行项目）
func (c *OrderController) Get(ctx *gin.Context) {
	id := parseID(ctx, "id")
	if id == 0 {
		return
	}

	vo, err := c.orderSvc.Get(ctx.Request.Context(), middleware.GetTenantID(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"code": 404, "message": "订单不存在"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": vo})
}

// parseDate 解析 2006-01-02 格式的查询参数，非法时忽略
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
