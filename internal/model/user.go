package model

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name        string `gorm:"column:name;not null"`
	Email       string `gorm:"column:email;size:255;uniqueIndex:idx_users_email;not null"`
	PhoneNumber string `gorm:"column:phone_number"`
	Password    string `gorm:"column:password;not null"`
}
