package controller

import (
	"net/http"
	"strconv"

	"shopify_sync_v1_202608/internal/middleware"
	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/service"

	"github.com/gin-gonic/gin"
)

// SyncController 同步控制器
type SyncController struct {
	syncSvc *service.SyncService
}

// NewSyncController 创建同步控制器
func NewSyncController(syncSvc *service.SyncService) *SyncController {
	return &SyncController{syncSvc: syncSvc}
}

// ==================== Handler 实现 ====================

// SyncAll 全量同步：客户 + 订单 + 商品
// 部分成功时返回 200，结果里的 partial/errors 指明失败项
func (c *SyncController) SyncAll(ctx *gin.Context) {
	c.runSync(ctx, model.SyncTypeFull)
}

// SyncCustomers 只同步客户
func (c *SyncController) SyncCustomers(ctx *gin.Context) {
	c.runSync(ctx, model.SyncTypeCustomers)
}

// SyncOrders 只同步订单（含草稿单），入库后重算客户统计
func (c *SyncController) SyncOrders(ctx *gin.Context) {
	c.runSync(ctx, model.SyncTypeOrders)
}

// SyncProducts 只同步商品
func (c *SyncController) SyncProducts(ctx *gin.Context) {
	c.runSync(ctx, model.SyncTypeProducts)
}

func (c *SyncController) runSync(ctx *gin.Context, scope string) {
	tenantID := middleware.GetTenantID(ctx)

	result, err := c.syncSvc.RunSyncForTenant(ctx.Request.Context(), tenantID, scope)
	if err != nil && result == nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}
	if !result.Success {
		// 单资源失败或全量全挂，同步日志里已有归类后的错误
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "同步失败",
			"data":    result,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "同步完成",
		"data":    result,
	})
}

// ListLogs 同步日志列表
func (c *SyncController) ListLogs(ctx *gin.Context) {
	tenantID := middleware.GetTenantID(ctx)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	resp, err := c.syncSvc.ListSyncLogs(ctx.Request.Context(), tenantID, page, pageSize)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 200, "data": resp})
}
