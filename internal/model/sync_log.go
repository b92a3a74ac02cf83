package model

import "time"

// ==================== SyncLog 同步日志 ====================

// SyncType 同步类型
const (
	SyncTypeCustomers = "customers"
	SyncTypeOrders    = "orders"
	SyncTypeProducts  = "products"
	SyncTypeFull      = "full"
)

// SyncStatus 同步状态
// 只允许 started → completed / failed 一次状态迁移
const (
	SyncStatusStarted   = "started"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// SyncLog 同步审计记录，每次同步调用一行，只追加不删除
type SyncLog struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	TenantID string `gorm:"size:36;index;not null"`

	SyncType string `gorm:"size:16;index;not null"`
	Status   string `gorm:"size:16;not null;default:started"`

	// 失败时记录失败前已处理的条数，部分进度对外可见
	RecordsProcessed int     `gorm:"default:0"`
	ErrorMessage     *string `gorm:"type:text"`

	StartedAt   time.Time `gorm:"autoCreateTime"`
	CompletedAt *time.Time
}

func (*SyncLog) TableName() string {
	return "sync_logs"
}
