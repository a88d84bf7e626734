package model

import "time"

// Resource 上传的资料
type Resource struct {
	ID          uint `gorm:"primary_key"`
	CreatedAt   time.Time
	Title       string `gorm:"size:255;not null"`
	Author      string `gorm:"size:255"`
	Subject     string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	Filename    string `gorm:"size:255;unique_index;not null"`
	MimeType    string `gorm:"size:255"`
	Size        int64
	UploaderID  uint  `gorm:"index;not null"`
	FolderID    *uint `gorm:"index"`
}
