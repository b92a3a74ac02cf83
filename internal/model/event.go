package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== Event 自定义事件 ====================

// Event 前端埋点/自定义事件（弃购、开始结账等）
// 通过 webhook events 端点写入，原始数据整体落 JSONB
type Event struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	TenantID string `gorm:"size:36;index;not null"`

	EventType     string  `gorm:"size:64;index;not null"`
	CustomerID    *string `gorm:"size:64"`
	CustomerEmail *string `gorm:"size:255"`
	SessionID     *string `gorm:"size:128"`

	Data datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time
}

func (*Event) TableName() string {
	return "events"
}
