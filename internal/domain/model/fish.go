package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type FishStatus string

const (
	FishStatusAvailable   FishStatus = "available"
	FishStatusReserved    FishStatus = "reserved"
	FishStatusSold        FishStatus = "sold"
	FishStatusUnavailable FishStatus = "unavailable"
)

// 出品された魚。在庫はkg単位の残量で持つ。
type Fish struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	FishermanID     int64           `gorm:"not null;index" json:"fisherman_id"`
	Name            string          `gorm:"type:varchar(100);not null" json:"name"`
	FishType        string          `gorm:"type:varchar(50);not null" json:"fish_type"`
	PricePerKg      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_per_kg"`
	AvailableWeight decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"available_weight"`
	Status          FishStatus      `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 購入可能かどうか
func (f Fish) IsAvailable() bool {
	return f.Status == FishStatusAvailable && f.AvailableWeight.IsPositive()
}
