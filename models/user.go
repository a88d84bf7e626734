package model

import "time"

// User 用户模型
type User struct {
	ID        uint `gorm:"primary_key"`
	CreatedAt time.Time
	Username  string `gorm:"size:80;unique_index;not null"`
	Email     string `gorm:"size:120;unique_index;not null"`
	Password  string `gorm:"size:255;not null" json:"-"`
}
