package task

import (
	"context"
	"log"
	"sync"
	"time"

	"shopify_sync_v1_202608/internal/model"
	"shopify_sync_v1_202608/internal/repository"
	"shopify_sync_v1_202608/internal/service"

	"github.com/robfig/cron/v3"
)

// ==================== SyncTask 定时同步任务 ====================

// SyncTask 定时全量同步任务
// 每 6 小时对全部活跃租户跑一轮全量同步，
// 租户之间相互隔离，单个租户失败不影响其他租户
type SyncTask struct {
	tenantRepo repository.TenantRepository
	syncSvc    *service.SyncService
	cron       *cron.Cron

	// 并发控制
	concurrencyLimit int
	tenantTimeout    time.Duration
}

// NewSyncTask 创建定时同步任务
func NewSyncTask(tenantRepo repository.TenantRepository, syncSvc *service.SyncService) *SyncTask {
	return &SyncTask{
		tenantRepo:       tenantRepo,
		syncSvc:          syncSvc,
		cron:             cron.New(cron.WithSeconds()),
		concurrencyLimit: 3,
		tenantTimeout:    15 * time.Minute,
	}
}

// SetConcurrency 设置并发租户数上限
func (t *SyncTask) SetConcurrency(limit int) {
	if limit > 0 {
		t.concurrencyLimit = limit
	}
}

// Start 启动定时任务
func (t *SyncTask) Start() {
	// 每 6 小时执行
	_, err := t.cron.AddFunc("0 0 */6 * * *", func() {
		t.SyncAllTenants(context.Background())
	})
	if err != nil {
		log.Printf("[SyncTask] 定时任务启动失败: %v", err)
		return
	}

	t.cron.Start()
	log.Println("[SyncTask] 已启动 (每6小时)")
}

// Stop 停止任务，等待在途调度退出
func (t *SyncTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[SyncTask] 已停止")
}

// SyncAllTenants 对全部活跃租户执行一轮全量同步
func (t *SyncTask) SyncAllTenants(ctx context.Context) {
	log.Println("[SyncTask] 开始定时全量同步...")

	tenants, err := t.tenantRepo.ListActive(ctx)
	if err != nil {
		log.Printf("[SyncTask] 获取活跃租户失败: %v", err)
		return
	}
	if len(tenants) == 0 {
		log.Println("[SyncTask] 无活跃租户需要同步")
		return
	}

	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	var (
		totalRecords int
		totalErrors  int
		mu           sync.Mutex
	)

	log.Printf("[SyncTask] 开始处理 %d 个租户", len(tenants))

	for i := range tenants {
		tenant := tenants[i]
		select {
		case <-ctx.Done():
			log.Println("[SyncTask] 调度被取消, 等待在途租户结束")
			wg.Wait()
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)

		go func(tenant model.Tenant) {
			defer wg.Done()
			defer func() { <-sem }()

			// 单租户超时独立计算，慢租户不拖垮整轮调度
			tenantCtx, cancel := context.WithTimeout(ctx, t.tenantTimeout)
			defer cancel()

			result, err := t.syncSvc.RunSync(tenantCtx, &tenant, model.SyncTypeFull)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				log.Printf("[SyncTask] 租户 %s(%s) 同步失败: %v", tenant.Name, tenant.ID, err)
				totalErrors++
				return
			}

			totalRecords += result.Total
			if !result.Success {
				totalErrors++
			}
			for _, msg := range result.Errors {
				log.Printf("[SyncTask] 租户 %s 警告: %s", tenant.Name, msg)
			}
		}(tenant)
	}

	wg.Wait()
	log.Printf("[SyncTask] 定时同步完成: 租户 %d, 记录 %d, 失败 %d",
		len(tenants), totalRecords, totalErrors)
}
