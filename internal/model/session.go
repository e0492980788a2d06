package model

import "time"

// RefreshToken is one login session. Rows are created at login and removed at logout or once expired.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"column:token;size:512;uniqueIndex:idx_refresh_tokens_token;not null"`
	UserID    uint      `gorm:"column:user_id;index:idx_refresh_tokens_user;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;index:idx_refresh_tokens_expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}
