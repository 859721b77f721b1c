package model

import (
	"time"
)

// PasswordResetRequest holds a pending reset code. At most one live row
// exists per user; a new request replaces any prior one.
type PasswordResetRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	OTP        string    `gorm:"size:6;not null;index" json:"-"`
	OTPExpires time.Time `gorm:"not null" json:"otpExpires"`
	CreatedAt  time.Time `json:"createdAt"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PasswordResetRequest) TableName() string {
	return "password_reset_requests"
}
