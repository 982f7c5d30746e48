package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "PENDING"
	OrderStatusPaid               OrderStatus = "PAID"
	OrderStatusFullyPaid          OrderStatus = "FULLY_PAID"
	OrderStatusDeliveryInProgress OrderStatus = "DELIVERY_IN_PROGRESS"
	OrderStatusReadyForPickup     OrderStatus = "READY_FOR_PICKUP"
	OrderStatusDelivered          OrderStatus = "DELIVERED"
	OrderStatusPickedUp           OrderStatus = "PICKED_UP"
	OrderStatusFailed             OrderStatus = "FAILED"
	OrderStatusCancelled          OrderStatus = "CANCELLED"
)

type FulfillmentMethod string

const (
	FulfillmentDelivery FulfillmentMethod = "delivery"
	FulfillmentPickup   FulfillmentMethod = "pickup"
)

// 注文。金額3兄弟（gross/fee/net）は作成時に確定し、以後再計算しない。
type Order struct {
	ID                int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber       string            `gorm:"type:varchar(20);not null;uniqueIndex" json:"order_number"`
	CustomerID        int64             `gorm:"not null;index" json:"customer_id"`
	Status            OrderStatus       `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount       decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PlatformFee       decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"platform_fee"`
	FishermenNet      decimal.Decimal   `gorm:"type:numeric(12,2);not null;column:fishermen_net_amount" json:"fishermen_net_amount"`
	FulfillmentMethod FulfillmentMethod `gorm:"type:varchar(20);not null;default:'delivery'" json:"fulfillment_method"`
	PickupPointID     *int64            `gorm:"index" json:"pickup_point_id,omitempty"`
	DeliveryLocation  string            `gorm:"type:varchar(200)" json:"delivery_location"`
	DeliveryAddress   string            `gorm:"type:text" json:"delivery_address"`
	DeliveryNotes     string            `gorm:"type:text" json:"delivery_notes"`
	CustomerPhone     string            `gorm:"type:varchar(20);not null" json:"customer_phone"`
	CustomerEmail     string            `gorm:"not null" json:"customer_email"`
	CreatedAt         time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 全決済確定後のステータス（これ以降は再決済処理をしない）
func (s OrderStatus) IsPostPayment() bool {
	switch s {
	case OrderStatusFullyPaid, OrderStatusDeliveryInProgress, OrderStatusReadyForPickup,
		OrderStatusDelivered, OrderStatusPickedUp:
		return true
	}
	return false
}
