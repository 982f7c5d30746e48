package model

import "time"

type Role string

const (
	RoleCustomer  Role = "customer"
	RoleFisherman Role = "fisherman"
	RoleDelivery  Role = "delivery"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username      string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string `gorm:"column:password_hash;not null" json:"-"`
	Role          Role   `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	Phone         string `gorm:"type:varchar(20)" json:"phone"`
	EmailVerified bool   `gorm:"not null;default:false" json:"email_verified"`
	PhoneVerified bool   `gorm:"not null;default:false" json:"phone_verified"`
	IsActive      bool   `gorm:"not null;default:true" json:"-"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
