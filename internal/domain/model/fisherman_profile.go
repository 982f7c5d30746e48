package model

import "time"

// 決済タイプ（STK直接 / Till / Paybill）
type MpesaPaymentType string

const (
	MpesaPaymentSTKPush MpesaPaymentType = "STK_PUSH"
	MpesaPaymentTill    MpesaPaymentType = "TILL"
	MpesaPaymentPaybill MpesaPaymentType = "PAYBILL"
)

// 漁師の入金先設定。チェックアウト時にここへ直接STKを発行する。
type FishermanProfile struct {
	ID                    int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                int64            `gorm:"not null;uniqueIndex" json:"user_id"`
	Phone                 string           `gorm:"type:varchar(20)" json:"phone"`
	Location              string           `gorm:"type:varchar(200)" json:"location"`
	IsVerified            bool             `gorm:"not null;default:false" json:"is_verified"`
	MpesaPhone            string           `gorm:"type:varchar(20)" json:"mpesa_phone"`
	MpesaPaymentType      MpesaPaymentType `gorm:"type:varchar(20);not null;default:'STK_PUSH'" json:"mpesa_payment_type"`
	MpesaTillNumber       string           `gorm:"type:varchar(20)" json:"mpesa_till_number"`
	MpesaPaybillNumber    string           `gorm:"type:varchar(20)" json:"mpesa_paybill_number"`
	MpesaAccountReference string           `gorm:"type:varchar(50)" json:"mpesa_account_reference"`
	CreatedAt             time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
