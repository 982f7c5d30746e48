package model

import "time"

// 配送ステータス遷移の監査ログ（追記専用）。
// 「誰が」「どの状態から」「どの状態へ」変えたかを残す。
type DeliveryAuditLog struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	DeliveryID     int64          `gorm:"not null;index" json:"delivery_id"`
	OrderID        int64          `gorm:"not null;index" json:"order_id"`
	UpdatedByID    int64          `gorm:"not null;index" json:"updated_by_id"`
	PreviousStatus DeliveryStatus `gorm:"type:varchar(30);not null" json:"previous_status"`
	NewStatus      DeliveryStatus `gorm:"type:varchar(30);not null" json:"new_status"`
	Notes          string         `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time      `gorm:"not null;index;autoCreateTime" json:"created_at"`
}
