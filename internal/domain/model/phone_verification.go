package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type VerificationStatus string

const (
	VerificationStatusPending   VerificationStatus = "PENDING"
	VerificationStatusCompleted VerificationStatus = "COMPLETED"
	VerificationStatusFailed    VerificationStatus = "FAILED"
)

// 電話番号の実在確認用の少額課金。
// 注文決済と同じコールバックを共有するが、照合は別名前空間で行う。
type PhoneVerificationTransaction struct {
	ID                 int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             int64              `gorm:"not null;index" json:"user_id"`
	PhoneNumber        string             `gorm:"type:varchar(20);not null" json:"phone_number"`
	Amount             decimal.Decimal    `gorm:"type:numeric(10,2);not null" json:"amount"`
	MerchantRequestID  string             `gorm:"type:varchar(100)" json:"merchant_request_id"`
	CheckoutRequestID  string             `gorm:"type:varchar(100);not null;uniqueIndex" json:"checkout_request_id"`
	MpesaReceiptNumber string             `gorm:"type:varchar(100)" json:"mpesa_receipt_number"`
	Status             VerificationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ResultCode         *int               `json:"result_code,omitempty"`
	ResultDesc         string             `gorm:"type:text" json:"result_desc"`
	CreatedAt          time.Time          `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
