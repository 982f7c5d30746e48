package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 在庫・決済まわりの操作種別
type FishLogAction string

const (
	FishLogActionReserved        FishLogAction = "RESERVED"
	FishLogActionPaymentReceived FishLogAction = "PAYMENT_RECEIVED"
	FishLogActionStockReleased   FishLogAction = "STOCK_RELEASED"
	FishLogActionStockAdjusted   FishLogAction = "STOCK_ADJUSTED"
)

// 魚の取引監査ログ（追記専用）。
type FishTransactionLog struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	FishID       int64           `gorm:"not null;index" json:"fish_id"`
	Action       FishLogAction   `gorm:"type:varchar(20);not null;index" json:"action"`
	ActorUserID  int64           `gorm:"not null;index" json:"actor_user_id"`
	WeightChange decimal.Decimal `gorm:"type:numeric(8,2)" json:"weight_change"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `gorm:"not null;index;autoCreateTime" json:"created_at"`
}
