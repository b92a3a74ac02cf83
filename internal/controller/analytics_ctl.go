package controller

import (
	"net/http"
	"strconv"

	"shopify_sync_v1_202608/internal/middleware"
	"shopify_sync_v1_202608/internal/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsController 统计控制器
type AnalyticsController struct {
	analyticsSvc *service.AnalyticsService
}

// NewAnalyticsController 创建统计控制器
func NewAnalyticsController(analyticsSvc *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsSvc: analyticsSvc}
}

// ==================== Handler 实现 ====================

// Overview 仪表盘总览
func (c *AnalyticsController) Overview(ctx *gin.Context) {
	resp, err := c.analyticsSvc.Overview(ctx.Request.Context(), middleware.GetTenantID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": resp})
}

// OrdersByDate 近 N 天按日订单量与营收，默认 30 天
func (c *AnalyticsController) OrdersByDate(ctx *gin.Context) {
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))

	points, err := c.analyticsSvc.OrdersByDate(ctx.Request.Context(), middleware.GetTenantID(ctx), days)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": points})
}

// RevenueByStatus 按财务状态聚合营收
func (c *AnalyticsController) RevenueByStatus(ctx *gin.Context) {
	points, err := c.analyticsSvc.RevenueByStatus(ctx.Request.Context(), middleware.GetTenantID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": points})
}

// TopCustomers 高消费客户排行，默认前 10
func (c *AnalyticsController) TopCustomers(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	list, err := c.analyticsSvc.TopCustomers(ctx.Request.Context(), middleware.GetTenantID(ctx), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": list})
}

// ProductsByStatus 按商品状态计数
func (c *AnalyticsController) ProductsByStatus(ctx *gin.Context) {
	points, err := c.analyticsSvc.ProductsByStatus(ctx.Request.Context(), middleware.GetTenantID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": points})
}
