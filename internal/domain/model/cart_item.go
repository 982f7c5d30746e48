package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細。単価は追加時点のスナップショットを必ず保存。
type CartItem struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID            int64           `gorm:"not null;index" json:"cart_id"`
	FishID            int64           `gorm:"not null;index" json:"fish_id"`
	WeightKg          decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"weight_kg"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:numeric(10,2);not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
