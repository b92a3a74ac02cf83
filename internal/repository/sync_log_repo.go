package repository

import (
	"context"
	"time"

	"shopify_sync_v1_202608/internal/model"

	"gorm.io/gorm"
)

// ==================== SyncLogRepository 同步日志仓库 ====================

// SyncLogRepository 同步日志仓库接口
// 日志只追加；每行只经历一次 started → completed/failed 迁移
type SyncLogRepository interface {
	Create(ctx context.Context, tenantID, syncType string) (*model.SyncLog, error)
	// Finish 写入终态，同时落完成时间与已处理条数
	Finish(ctx context.Context, id int64, status string, recordsProcessed int, errorMessage *string) error
	List(ctx context.Context, tenantID string, page, pageSize int) ([]model.SyncLog, int64, error)
}

type syncLogRepository struct {
	db *gorm.DB
}

// NewSyncLogRepository 创建同步日志仓库
func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &syncLogRepository{db: db}
}

func (r *syncLogRepository) Create(ctx context.Context, tenantID, syncType string) (*model.SyncLog, error) {
	logRow := &model.SyncLog{
		TenantID: tenantID,
		SyncType: syncType,
		Status:   model.SyncStatusStarted,
	}
	if err := r.db.WithContext(ctx).Create(logRow).Error; err != nil {
		return nil, err
	}
	return logRow, nil
}

func (r *syncLogRepository) Finish(ctx context.Context, id int64, status string, recordsProcessed int, errorMessage *string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.SyncLog{}).
		Where("id = ? AND status = ?", id, model.SyncStatusStarted).
		Updates(map[string]interface{}{
			"status":            status,
			"records_processed": recordsProcessed,
			"error_message":     errorMessage,
			"completed_at":      &now,
		}).Error
}

func (r *syncLogRepository) List(ctx context.Context, tenantID string, page, pageSize int) ([]model.SyncLog, int64, error) {
	var logs []model.SyncLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.SyncLog{}).
		Where("tenant_id = ?", tenantID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	err := db.
		Order("started_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&logs).Error

	return logs, total, err
}

// ==================== EventRepository 事件仓库 ====================

// EventRepository 自定义事件仓库接口
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]model.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建事件仓库
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) ListByTenant(ctx context.Context, tenantID string, limit int) ([]model.Event, error) {
	var events []model.Event
	if limit <= 0 {
		limit = 100
	}
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
