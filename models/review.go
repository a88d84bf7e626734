package model

import "time"

const (
	MinRating = 1
	MaxRating = 10
)

// Review 评分与评论, 每个用户对每份资料仅有一条
type Review struct {
	ID         uint `gorm:"primary_key"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Rating     int    `gorm:"not null"`
	Comment    string `gorm:"type:text"`
	UserID     uint   `gorm:"unique_index:idx_user_resource;not null"`
	ResourceID uint   `gorm:"unique_index:idx_user_resource;index;not null"`
}

// ClampRating forces a rating into [MinRating, MaxRating].
func ClampRating(rating int) int {
	if rating < MinRating {
		return MinRating
	}
	if rating > MaxRating {
		return MaxRating
	}
	return rating
}
