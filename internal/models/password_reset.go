package models

import (
	"time"
)

// PasswordReset tracks an issued reset token so that it can be used once.
// The token itself is never stored, only its SHA-256 hash.
type PasswordReset struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"` // JWT "jti"
	UserID    string     `gorm:"type:varchar(36);index;not null"`
	TokenHash string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	UsedAt    *time.Time `gorm:"index"`
	CreatedAt time.Time
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

// IsExpired reports whether the reset is past its expiry.
func (p *PasswordReset) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// IsUsed reports whether the reset was already redeemed or revoked.
func (p *PasswordReset) IsUsed() bool {
	return p.UsedAt != nil
}
