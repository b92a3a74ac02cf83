package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"shopify_sync_v1_202608/internal/controller"
	"shopify_sync_v1_202608/internal/middleware"
	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
	"shopify_sync_v1_202608/internal/router"
	"shopify_sync_v1_202608/internal/service"
	"shopify_sync_v1_202608/internal/task"
	"shopify_sync_v1_202608/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化中间件配置
	initMiddlewareConfig()

	// 3. 初始化依赖
	deps := initDependencies(db)

	// 4. 启动定时任务
	initTasks(deps)

	// 5. 初始化路由
	r := gin.Default()
	router.InitRoutes(r, deps.Controllers)

	// 6. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Tenant   repository.TenantRepository
	User     repository.UserRepository
	Customer repository.CustomerRepository
	Order    repository.OrderRepository
	Product  repository.ProductRepository
	SyncLog  repository.SyncLogRepository
	Event    repository.EventRepository
}

// Services 服务集合
type Services struct {
	Auth      *service.AuthService
	Sync      *service.SyncService
	Webhook   *service.WebhookService
	Customer  *service.CustomerService
	Order     *service.OrderService
	Product   *service.ProductService
	Analytics *service.AnalyticsService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_URL",
		"host=localhost user=postgres password=postgres dbname=shopify_sync port=5432 sslmode=disable")

	return database.InitDB(dsn,
		// 账户
		&model.Tenant{}, &model.User{},
		// 业务数据
		&model.Customer{}, &model.Order{}, &model.OrderItem{}, &model.Product{},
		// 同步与事件
		&model.SyncLog{}, &model.Event{},
	)
}

// initMiddlewareConfig 初始化 JWT 与 Webhook 密钥
func initMiddlewareConfig() {
	jwtCfg := middleware.DefaultJWTConfig()
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		jwtCfg.SecretKey = secret
	}
	middleware.SetJWTConfig(jwtCfg)

	middleware.SetWebhookSecret(os.Getenv("SHOPIFY_WEBHOOK_SECRET"))
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Tenant:   repository.NewTenantRepository(db),
		User:     repository.NewUserRepository(db),
		Customer: repository.NewCustomerRepository(db),
		Order:    repository.NewOrderRepository(db),
		Product:  repository.NewProductRepository(db),
		SyncLog:  repository.NewSyncLogRepository(db),
		Event:    repository.NewEventRepository(db),
	}

	// -------- 业务服务 --------
	reconciler := service.NewReconcileService(repos.Customer, repos.Order, repos.Product)

	services := &Services{
		Auth:      service.NewAuthService(repos.User, repos.Tenant),
		Sync:      service.NewSyncService(repos.Tenant, repos.Customer, repos.SyncLog, reconciler),
		Webhook:   service.NewWebhookService(repos.Tenant, repos.Customer, repos.Event, reconciler),
		Customer:  service.NewCustomerService(repos.Customer),
		Order:     service.NewOrderService(repos.Order),
		Product:   service.NewProductService(repos.Product),
		Analytics: service.NewAnalyticsService(repos.Customer, repos.Order, repos.Product),
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:      controller.NewAuthController(services.Auth),
		Sync:      controller.NewSyncController(services.Sync),
		Customer:  controller.NewCustomerController(services.Customer),
		Order:     controller.NewOrderController(services.Order),
		Product:   controller.NewProductController(services.Product),
		Analytics: controller.NewAnalyticsController(services.Analytics),
		Webhook:   controller.NewWebhookController(services.Webhook),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	if getEnv("SYNC_CRON_ENABLED", "true") != "true" {
		log.Println("定时同步已禁用 (SYNC_CRON_ENABLED != true)")
		return
	}

	syncTask := task.NewSyncTask(deps.Repos.Tenant, deps.Services.Sync)
	if limit, err := strconv.Atoi(getEnv("SYNC_CONCURRENCY", "3")); err == nil {
		syncTask.SetConcurrency(limit)
	}
	syncTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
