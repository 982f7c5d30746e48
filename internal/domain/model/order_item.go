package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type FulfillmentStatus string

const (
	FulfillmentStatusPending   FulfillmentStatus = "PENDING"
	FulfillmentStatusPaid      FulfillmentStatus = "PAID"
	FulfillmentStatusReady     FulfillmentStatus = "READY"
	FulfillmentStatusDelivered FulfillmentStatus = "DELIVERED"
)

// 注文明細。魚の名前・単価・重量は注文時点のスナップショット。
// total/fee/netは作成時に一度だけ計算し、出品が後から変わっても凍結したまま。
type OrderItem struct {
	ID                int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64             `gorm:"not null;index" json:"order_id"`
	FishID            int64             `gorm:"not null;index" json:"fish_id"`
	FishermanID       int64             `gorm:"not null;index" json:"fisherman_id"`
	FishName          string            `gorm:"type:varchar(100);not null" json:"fish_name"`
	FishType          string            `gorm:"type:varchar(50);not null" json:"fish_type"`
	WeightKg          decimal.Decimal   `gorm:"type:numeric(8,2);not null" json:"weight_kg"`
	PricePerKg        decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"price_per_kg"`
	TotalPrice        decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"total_price"`
	PlatformFee       decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"platform_fee"`
	FishermanNet      decimal.Decimal   `gorm:"type:numeric(12,2);not null;column:fisherman_net_payout" json:"fisherman_net_payout"`
	FulfillmentStatus FulfillmentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"fulfillment_status"`
	CreatedAt         time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
}
