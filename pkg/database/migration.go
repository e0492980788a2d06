package database

import (
	"github.com/Payphone-Digital/shortlink/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Link{},
		&model.ClickEvent{},
	)
}
