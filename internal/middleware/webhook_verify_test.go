package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func signBody(body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newVerifyTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", VerifyShopifyWebhook(), func(c *gin.Context) {
		// body 在校验后必须仍可读
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})
	return r
}

func TestVerifyShopifyWebhook_ValidSignature(t *testing.T) {
	SetWebhookSecret("test-secret")
	defer SetWebhookSecret("")

	r := newVerifyTestRouter()
	body := `{"id":1}`

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-SHA256", signBody(body, "test-secret"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, want 200", w.Code)
	}
	if w.Body.String() != body {
		t.Errorf("请求体未还原: %s", w.Body.String())
	}
}

func TestVerifyShopifyWebhook_InvalidSignature(t *testing.T) {
	SetWebhookSecret("test-secret")
	defer SetWebhookSecret("")

	r := newVerifyTestRouter()
	body := `{"id":1}`

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-SHA256", signBody(body, "wrong-secret"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("状态码 = %d, want 401", w.Code)
	}
}

func TestVerifyShopifyWebhook_MissingSignature(t *testing.T) {
	SetWebhookSecret("test-secret")
	defer SetWebhookSecret("")

	r := newVerifyTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("状态码 = %d, want 401", w.Code)
	}
}

func TestVerifyShopifyWebhook_NoSecretConfigured(t *testing.T) {
	SetWebhookSecret("")

	r := newVerifyTestRouter()
	body := `{"id":1}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Shopify-Hmac-SHA256", signBody(body, "anything"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// 未配置密钥时宁可拒绝所有推送
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("状态码 = %d, want 503", w.Code)
	}
}
