package controller

import (
	"context"
	"errors"
	"io"
	"net/http"

	"shopify_sync_v1_202608/internal/api/dto"
	"shopify_sync_v1_202608/internal/service"

	"github.com/gin-gonic/gin"
)

// WebhookController Shopify 推送控制器
// 推送端点不走 JWT，靠 HMAC 签名中间件保护；
// 租户由 X-Shopify-Shop-Domain 头定位
type WebhookController struct {
	webhookSvc *service.WebhookService
}

// NewWebhookController 创建推送控制器
func NewWebhookController(webhookSvc *service.WebhookService) *WebhookController {
	return &WebhookController{webhookSvc: webhookSvc}
}

// pushHandler 推送处理函数签名
type pushHandler func(ctx context.Context, shopDomain string, payload []byte) error

// ==================== Handler 实现 ====================

// CustomerCreated customers/create 与 customers/update 推送
func (c *WebhookController) CustomerCreated(ctx *gin.Context) {
	c.handlePush(ctx, c.webhookSvc.HandleCustomerPush)
}

// OrderCreated orders/create 与 orders/updated 推送
func (c *WebhookController) OrderCreated(ctx *gin.Context) {
	c.handlePush(ctx, c.webhookSvc.HandleOrderPush)
}

// ProductCreated products/create 与 products/update 推送
func (c *WebhookController) ProductCreated(ctx *gin.Context) {
	c.handlePush(ctx, c.webhookSvc.HandleProductPush)
}

func (c *WebhookController) handlePush(ctx *gin.Context, handle pushHandler) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "读取请求体失败"})
		return
	}

	shopDomain := ctx.GetHeader("X-Shopify-Shop-Domain")
	if err := handle(ctx.Request.Context(), shopDomain, body); err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"code": 404, "message": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 200, "message": "已处理"})
}

// RecordEvent 店面埋点事件（弃购、开始结账等），无签名校验
func (c *WebhookController) RecordEvent(ctx *gin.Context) {
	var req dto.EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	if err := c.webhookSvc.RecordEvent(ctx.Request.Context(), &req); err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"code": 404, "message": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"code": 200, "message": "事件已记录"})
}
