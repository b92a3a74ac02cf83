package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ==================== Webhook 签名校验 ====================

// webhookSecret Shopify Webhook 签名密钥
var webhookSecret string

// SetWebhookSecret 设置 Webhook 签名密钥
func SetWebhookSecret(secret string) {
	webhookSecret = secret
}

// VerifyShopifyWebhook Shopify Webhook 签名校验中间件
// 对原始请求体做 HMAC-SHA256，与 X-Shopify-Hmac-SHA256 头的 base64 值比对
// 未配置密钥时拒绝所有 webhook，宁可丢推送也不接受未验证的数据
func VerifyShopifyWebhook() gin.HandlerFunc {
	return func(c *gin.Context) {
		if webhookSecret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"code":    503,
				"message": "Webhook 密钥未配置",
			})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "读取请求体失败",
			})
			c.Abort()
			return
		}
		// 校验消费掉了 body，重新塞回去供后续 handler 解析
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		signature := c.GetHeader("X-Shopify-Hmac-SHA256")
		if signature == "" || !verifyHMAC(body, signature, webhookSecret) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Webhook 签名校验失败",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// verifyHMAC 常量时间比对签名
func verifyHMAC(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
