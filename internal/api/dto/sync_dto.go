package dto

import "time"

// ==================== 同步请求/结果 ====================

// ResourceResult 单资源子同步结果
type ResourceResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// SyncResult 一次同步调用的聚合结果
// full 范围下只要任一资源成功即 Success=true；
// 有成功也有失败时 Partial=true，Errors 指明具体失败的资源
type SyncResult struct {
	Success bool `json:"success"`
	Partial bool `json:"partial"`

	Customers ResourceResult `json:"customers"`
	Orders    ResourceResult `json:"orders"`
	Products  ResourceResult `json:"products"`

	Total  int      `json:"total"`
	Errors []string `json:"errors,omitempty"`
}

// SyncLogVO 同步日志视图
type SyncLogVO struct {
	ID               int64      `json:"id"`
	SyncType         string     `json:"sync_type"`
	Status           string     `json:"status"`
	RecordsProcessed int        `json:"records_processed"`
	ErrorMessage     *string    `json:"error_message,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// SyncLogListResponse 同步日志列表响应
type SyncLogListResponse struct {
	Total int64       `json:"total"`
	List  []SyncLogVO `json:"list"`
}
