package model

import "time"

// 受け取り拠点
type PickupPoint struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"type:varchar(120);not null" json:"name"`
	GeneralLocation string    `gorm:"type:varchar(200);not null" json:"general_location"`
	ContactPerson   string    `gorm:"type:varchar(100);not null" json:"contact_person"`
	PhoneNumber     string    `gorm:"type:varchar(20);not null" json:"phone_number"`
	Latitude        *float64  `gorm:"type:numeric(10,7)" json:"latitude,omitempty"`
	Longitude       *float64  `gorm:"type:numeric(10,7)" json:"longitude,omitempty"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
