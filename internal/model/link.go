package model

import "time"

type Link struct {
	ID          uint         `gorm:"primaryKey"`
	ShortCode   string       `gorm:"column:short_code;size:64;uniqueIndex:idx_links_short_code;not null"`
	LongURL     string       `gorm:"column:long_url;size:2048;uniqueIndex:idx_links_user_long_url,priority:2;not null"`
	CustomURL   *string      `gorm:"column:custom_url;size:64"`
	UserID      uint         `gorm:"column:user_id;uniqueIndex:idx_links_user_long_url,priority:1;index:idx_links_user_created,priority:1;not null"`
	CreatedAt   time.Time    `gorm:"column:created_at;index:idx_links_user_created,priority:2"`
	TotalClicks int64        `gorm:"column:total_clicks;not null;default:0"`
	LastClicked *time.Time   `gorm:"column:last_clicked"`
	Clicks      []ClickEvent `gorm:"foreignKey:LinkID"`
}

// ClickEvent is appended once per successful redirect and never modified.
type ClickEvent struct {
	ID        uint      `gorm:"primaryKey"`
	LinkID    uint      `gorm:"column:link_id;index:idx_click_events_link;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Referrer  string    `gorm:"column:referrer;size:2048"`
	UserAgent string    `gorm:"column:user_agent;size:1024"`
	IP        string    `gorm:"column:ip;size:64"`
	Country   string    `gorm:"column:country;size:16"`
}
