package model

import "time"

type DeliveryStatus string

const (
	DeliveryStatusPending            DeliveryStatus = "PENDING"
	DeliveryStatusReadyForPickup     DeliveryStatus = "READY_FOR_PICKUP"
	DeliveryStatusDeliveryInProgress DeliveryStatus = "DELIVERY_IN_PROGRESS"
	DeliveryStatusInTransit          DeliveryStatus = "IN_TRANSIT"
	DeliveryStatusDelivered          DeliveryStatus = "DELIVERED"
	DeliveryStatusFailed             DeliveryStatus = "FAILED"
)

// 配送レコード。注文と1:1。決済とは独立だが、全決済確定までは作られない。
type Delivery struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID        int64          `gorm:"not null;uniqueIndex" json:"order_id"`
	Status         DeliveryStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	FishermanID    *int64         `gorm:"index" json:"fisherman_id,omitempty"`
	UpdatedByID    *int64         `json:"updated_by_id,omitempty"`
	ActualDelivery *time.Time     `json:"actual_delivery,omitempty"`
	DeliveryNotes  string         `gorm:"type:text" json:"delivery_notes"`
	CreatedAt      time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 終端ステータスか
func (s DeliveryStatus) IsTerminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusFailed
}
