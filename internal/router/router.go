package router

import (
	"net/http"
	"time"

	"shopify_sync_v1_202608/internal/controller"
	"shopify_sync_v1_202608/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers 路由需要的全部控制器
type Controllers struct {
	Auth      *controller.AuthController
	Sync      *controller.SyncController
	Customer  *controller.CustomerController
	Order     *controller.OrderController
	Product   *controller.ProductController
	Analytics *controller.AnalyticsController
	Webhook   *controller.WebhookController
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctls *Controllers) {
	// 1. 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	// 2. API 路由组
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			// POST /api/auth/register
			auth.POST("/register", ctls.Auth.Register)
			// POST /api/auth/login
			auth.POST("/login", ctls.Auth.Login)
			// GET /api/auth/me
			auth.GET("/me", middleware.JWTAuth(), ctls.Auth.Me)
		}

		// webhooks Shopify 推送组：不走 JWT，数据推送需要 HMAC 签名
		webhooks := api.Group("/webhooks")
		{
			verify := middleware.VerifyShopifyWebhook()
			webhooks.POST("/customers/create", verify, ctls.Webhook.CustomerCreated)
			webhooks.POST("/orders/create", verify, ctls.Webhook.OrderCreated)
			webhooks.POST("/products/create", verify, ctls.Webhook.ProductCreated)

			// 店面埋点事件，无签名
			webhooks.POST("/events", ctls.Webhook.RecordEvent)
		}

		// 受保护组：JWT 里带的租户 id 决定数据可见范围
		protected := api.Group("")
		protected.Use(middleware.JWTAuth())
		{
			// sync 同步组，手动触发带冷却
			sync := protected.Group("/sync")
			{
				sync.POST("/all", middleware.SyncRateLimit("full", 0), ctls.Sync.SyncAll)
				sync.POST("/customers", middleware.SyncRateLimit("customers", 0), ctls.Sync.SyncCustomers)
				sync.POST("/orders", middleware.SyncRateLimit("orders", 0), ctls.Sync.SyncOrders)
				sync.POST("/products", middleware.SyncRateLimit("products", 0), ctls.Sync.SyncProducts)
				sync.GET("/logs", ctls.Sync.ListLogs)
			}

			// customers 客户组
			customers := protected.Group("/customers")
			{
				customers.GET("", ctls.Customer.List)
				customers.GET("/:id", ctls.Customer.Get)
			}

			// orders 订单组
			orders := protected.Group("/orders")
			{
				orders.GET("", ctls.Order.List)
				orders.GET("/:id", ctls.Order.Get)
			}

			// products 商品组
			products := protected.Group("/products")
			{
				products.GET("", ctls.Product.List)
				products.GET("/:id", ctls.Product.Get)
			}

			// analytics 统计组
			analytics := protected.Group("/analytics")
			{
				analytics.GET("/overview", ctls.Analytics.Overview)
				analytics.GET("/orders-by-date", ctls.Analytics.OrdersByDate)
				analytics.GET("/revenue-by-status", ctls.Analytics.RevenueByStatus)
				analytics.GET("/top-customers", ctls.Analytics.TopCustomers)
				analytics.GET("/products-by-status", ctls.Analytics.ProductsByStatus)
			}
		}
	}
}
